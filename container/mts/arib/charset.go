/*
NAME
  charset.go

DESCRIPTION
  The graphic character sets (G0-G3) a decoder can designate, and the
  designation parsing that selects them; the per-set decode bodies live
  in graphic.go.

AUTHOR
  Saxon Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package arib

import "fmt"

// Kind identifies which of the ARIB STD-B24 graphic character sets a
// G-register currently holds.
type Kind uint8

const (
	KindKanji Kind = iota
	KindAlnum
	KindHiragana
	KindKatakana
	KindMosaicA
	KindMosaicB
	KindMosaicC
	KindMosaicD
	KindProportionalAlnum
	KindProportionalHiragana
	KindProportionalKatakana
	KindJISX0201
	KindJISGokanKanji1
	KindJISGokanKanji2
	KindSymbol
	KindDRCS
	KindMacro
)

func (k Kind) String() string {
	switch k {
	case KindKanji:
		return "kanji"
	case KindAlnum:
		return "alnum"
	case KindHiragana:
		return "hiragana"
	case KindKatakana:
		return "katakana"
	case KindMosaicA:
		return "mosaic-a"
	case KindMosaicB:
		return "mosaic-b"
	case KindMosaicC:
		return "mosaic-c"
	case KindMosaicD:
		return "mosaic-d"
	case KindProportionalAlnum:
		return "proportional-alnum"
	case KindProportionalHiragana:
		return "proportional-hiragana"
	case KindProportionalKatakana:
		return "proportional-katakana"
	case KindJISX0201:
		return "jisx0201"
	case KindJISGokanKanji1:
		return "jis-gokan-kanji-1"
	case KindJISGokanKanji2:
		return "jis-gokan-kanji-2"
	case KindSymbol:
		return "symbol"
	case KindDRCS:
		return "drcs"
	case KindMacro:
		return "macro"
	default:
		return "unknown"
	}
}

// Charset is a fully-specified graphic set: a Kind, plus the DRCS set
// number (0-15) when Kind is KindDRCS.
type Charset struct {
	Kind      Kind
	DRCSIndex uint8
}

var (
	Kanji                 = Charset{Kind: KindKanji}
	Alnum                 = Charset{Kind: KindAlnum}
	Hiragana              = Charset{Kind: KindHiragana}
	Katakana              = Charset{Kind: KindKatakana}
	ProportionalAlnum     = Charset{Kind: KindProportionalAlnum}
	ProportionalHiragana  = Charset{Kind: KindProportionalHiragana}
	ProportionalKatakana  = Charset{Kind: KindProportionalKatakana}
	JISX0201              = Charset{Kind: KindJISX0201}
	JISGokanKanji1        = Charset{Kind: KindJISGokanKanji1}
	JISGokanKanji2        = Charset{Kind: KindJISGokanKanji2}
	Symbol                = Charset{Kind: KindSymbol}
	Macro                 = Charset{Kind: KindMacro}
)

func drcs(n uint8) Charset { return Charset{Kind: KindDRCS, DRCSIndex: n} }

// charsetFromTermination maps a designation sequence's final byte to the
// charset it names. f is the byte immediately following 0x28-0x2B (or the
// byte following the 0x24 prefix, or the DRCS byte after an 0x20
// intermediate).
func charsetFromTermination(f byte) (Charset, error) {
	switch {
	case f == 0x42:
		return Kanji, nil
	case f == 0x4A:
		return Alnum, nil
	case f == 0x30:
		return Hiragana, nil
	case f == 0x31:
		return Katakana, nil
	case f == 0x32:
		return Charset{Kind: KindMosaicA}, nil
	case f == 0x33:
		return Charset{Kind: KindMosaicB}, nil
	case f == 0x34:
		return Charset{Kind: KindMosaicC}, nil
	case f == 0x35:
		return Charset{Kind: KindMosaicD}, nil
	case f == 0x36:
		return ProportionalAlnum, nil
	case f == 0x37:
		return ProportionalHiragana, nil
	case f == 0x38:
		return ProportionalKatakana, nil
	case f == 0x49:
		return JISX0201, nil
	case f == 0x39:
		return JISGokanKanji1, nil
	case f == 0x3A:
		return JISGokanKanji2, nil
	case f == 0x3B:
		return Symbol, nil
	case f >= 0x40 && f <= 0x4F:
		return drcs(f - 0x40), nil
	case f == 0x70:
		return Macro, nil
	default:
		return Charset{}, &MalformedShortBytesError{Context: fmt.Sprintf("unknown designation termination byte %#x", f)}
	}
}

// width reports how many input bytes a character in cs consumes, for
// charsets whose width does not depend on the first byte's value.
// DRCS width depends on DRCSIndex and is handled by charsetWidth.
func (cs Charset) width() int {
	switch cs.Kind {
	case KindKanji, KindJISGokanKanji1, KindJISGokanKanji2, KindSymbol:
		return 2
	default:
		return 1
	}
}
