/*
NAME
  jisx0213.go

DESCRIPTION
  JIS X 0213 plane 1/2 code point to Unicode mapping, used by the Kanji,
  JISGokanKanji1 and JISGokanKanji2 charsets.

  LIMITATION: the retrieval material available to ground this decoder
  contains only a handful of worked code-point examples, not the full
  JIS X 0213 plane tables (those run to many thousands of entries and
  are normally generated from the published standard's row/cell
  listings). jisx0213Table below is therefore a partial table covering
  only the documented example code points. Looking up anything outside
  that set returns UnknownCodepointError rather than a wrong answer.
  Extending this table to the full standard is a follow-up, not
  something this decoder can responsibly fabricate.

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

// jisx0213Table maps a plane-tagged code point (0x10000|cp for plane 1,
// 0x20000|cp for plane 2) to its Unicode rendering. A small number of
// entries map to more than one rune (JIS X 0213 combining-character
// pairs), hence the []rune value.
var jisx0213Table = map[uint32][]rune{
	0x17222: {0x9B06},
	0x1247B: {0x3053, 0x309A},
	0x22134: {0x4EB9},
	0x27423: {0x7CD7},
}

// lookupJISX0213 resolves a plane-tagged code point, returning the runes
// it decodes to.
func lookupJISX0213(taggedCodePoint uint32) ([]rune, error) {
	r, ok := jisx0213Table[taggedCodePoint]
	if !ok {
		return nil, &UnknownCodepointError{Code: taggedCodePoint, Charset: "jisx0213"}
	}
	return r, nil
}
