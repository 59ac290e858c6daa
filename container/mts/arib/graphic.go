/*
NAME
  graphic.go

DESCRIPTION
  Decode bodies for each ARIB graphic character set: how many input
  bytes a character consumes and what text (if any) it renders to.

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

import "strings"

// hiraganaExceptions holds the Hiragana/ProportionalHiragana code units
// above the contiguous U+3041 run that don't follow the linear mapping.
var hiraganaExceptions = map[byte]rune{
	0x77: 0x309D,
	0x78: 0x309E,
	0x79: 0x30FC,
	0x7A: 0x3002,
	0x7B: 0x300C,
	0x7C: 0x300D,
	0x7D: 0x3001,
	0x7E: 0x30FB,
}

// katakanaExceptions holds the Katakana/ProportionalKatakana code units
// above the contiguous U+30A1 run.
var katakanaExceptions = map[byte]rune{
	0x77: 0x30FD,
	0x78: 0x30FE,
	0x79: 0x30FC,
	0x7A: 0x3002,
	0x7B: 0x300C,
	0x7C: 0x300D,
	0x7D: 0x3001,
	0x7E: 0x30FB,
}

// charsetWidth reports how many input bytes a character in cs consumes.
func charsetWidth(cs Charset) int {
	if cs.Kind == KindDRCS {
		if cs.DRCSIndex == 0 {
			return 2
		}
		return 1
	}
	return cs.width()
}

// decodeGraphic decodes one character of cs from b, writing its text (if
// any) to out and returning the number of input bytes consumed. high
// reports whether the character was invoked through GR, in which case
// every byte it consumes has its high bit masked off before use.
func (d *Decoder) decodeGraphic(cs Charset, b []byte, high bool, out *strings.Builder) (int, error) {
	n := charsetWidth(cs)
	if len(b) < n {
		return 0, &MalformedShortBytesError{Context: "graphic character truncated"}
	}
	m := make([]byte, n)
	for i := 0; i < n; i++ {
		m[i] = b[i]
		if high {
			m[i] &= 0x7F
		}
	}

	switch cs.Kind {
	case KindKanji:
		cp := uint32(m[0])<<8 | uint32(m[1])
		if cp < 0x7500 {
			runes, err := lookupJISX0213(0x10000 | cp)
			if err != nil {
				return 0, err
			}
			out.WriteString(string(runes))
			return n, nil
		}
		r, err := lookupSymbol(cp)
		if err != nil {
			return 0, err
		}
		out.WriteRune(r)
		return n, nil

	case KindJISGokanKanji1:
		cp := uint32(m[0])<<8 | uint32(m[1])
		runes, err := lookupJISX0213(0x10000 | cp)
		if err != nil {
			return 0, err
		}
		out.WriteString(string(runes))
		return n, nil

	case KindJISGokanKanji2:
		cp := uint32(m[0])<<8 | uint32(m[1])
		runes, err := lookupJISX0213(0x20000 | cp)
		if err != nil {
			return 0, err
		}
		out.WriteString(string(runes))
		return n, nil

	case KindSymbol:
		cp := uint32(m[0])<<8 | uint32(m[1])
		r, err := lookupSymbol(cp)
		if err != nil {
			return 0, err
		}
		out.WriteRune(r)
		return n, nil

	case KindAlnum, KindProportionalAlnum:
		out.WriteByte(m[0])
		return n, nil

	case KindHiragana, KindProportionalHiragana:
		if m[0] >= 0x21 && m[0] <= 0x73 {
			out.WriteRune(0x3041 + rune(m[0]-0x21))
			return n, nil
		}
		if r, ok := hiraganaExceptions[m[0]]; ok {
			out.WriteRune(r)
			return n, nil
		}
		return 0, &UnknownCodepointError{Code: uint32(m[0]), Charset: "hiragana"}

	case KindKatakana, KindProportionalKatakana:
		if m[0] >= 0x21 && m[0] <= 0x76 {
			out.WriteRune(0x30A1 + rune(m[0]-0x21))
			return n, nil
		}
		if r, ok := katakanaExceptions[m[0]]; ok {
			out.WriteRune(r)
			return n, nil
		}
		return 0, &UnknownCodepointError{Code: uint32(m[0]), Charset: "katakana"}

	case KindJISX0201:
		if m[0] < 0x21 {
			return 0, &UnknownCodepointError{Code: uint32(m[0]), Charset: "jisx0201"}
		}
		out.WriteRune(0xFF61 + rune(m[0]-0x21))
		return n, nil

	case KindMosaicA, KindMosaicB, KindMosaicC, KindMosaicD:
		return 0, &UnimplementedCharsetError{Charset: cs.Kind.String()}

	case KindDRCS:
		var code uint16
		if cs.DRCSIndex == 0 {
			code = uint16(m[0])<<8 | uint16(m[1])
		} else {
			code = uint16(0x40+cs.DRCSIndex)<<8 | uint16(m[0])
		}
		if d.drcs == nil {
			return 0, &UnimplementedCharsetError{Charset: "drcs"}
		}
		replacement, ok := d.drcs.Lookup(cs.DRCSIndex, code)
		if !ok {
			return 0, &UnknownCodepointError{Code: uint32(code), Charset: "drcs"}
		}
		out.WriteString(replacement)
		return n, nil

	case KindMacro:
		if err := d.applyMacro(m[0]); err != nil {
			return 0, err
		}
		return n, nil

	default:
		return 0, &UnimplementedCharsetError{Charset: cs.Kind.String()}
	}
}

// applyMacro resets the four G registers and GL/GR invocation to one of
// the two built-in macro presets. Any other selector byte is an error:
// this decoder does not implement user-defined macros (data group macro
// download), only the two fixed presets ARIB defines.
func (d *Decoder) applyMacro(selector byte) error {
	switch selector {
	case 0x60:
		d.g = [4]Charset{Kanji, Alnum, Hiragana, Macro}
		d.gl, d.grIdx = 0, 2
		return nil
	case 0x61:
		d.g = [4]Charset{Kanji, Katakana, Hiragana, Macro}
		d.gl, d.grIdx = 0, 2
		return nil
	default:
		return &UnimplementedCharsetError{Charset: "macro preset"}
	}
}
