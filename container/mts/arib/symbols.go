/*
NAME
  symbols.go

DESCRIPTION
  The ARIB extended-symbol table: Unicode renderings for Kanji-charset
  code points at or above 0x7500 (pictograms, extended symbols outside
  the JIS X 0213 kanji planes), and the Symbol charset proper.

  LIMITATION: as with jisx0213.go, the retrieval material only carries a
  handful of worked examples, not the published ARIB symbol table in
  full. aribSymbolTable is a partial table covering the documented
  examples; an unmapped code point returns UnknownCodepointError.

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

// aribSymbolTable maps a raw 16-bit code point (as read directly off the
// wire, with no plane tag) to the rune it decodes to. Shared by the
// Kanji charset's high branch (cp >= 0x7500) and the Symbol charset.
var aribSymbolTable = map[uint32]rune{
	0x7A21: 0x26CC,
	0x7B46: 0x26F7,
	0x7D5C: 0x2150,
	0x7E7D: 0x325B,
}

// lookupSymbol resolves a raw code point in the extended-symbol table.
func lookupSymbol(codePoint uint32) (rune, error) {
	r, ok := aribSymbolTable[codePoint]
	if !ok {
		return 0, &UnknownCodepointError{Code: codePoint, Charset: "symbol"}
	}
	return r, nil
}
