/*
NAME
  charset_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package arib

import "testing"

// TestDecodeKanjiViaJISX0213 exercises the default G0=Kanji charset a
// caption decoder starts with, looking up one of the documented JIS X
// 0213 plane 1 code points.
func TestDecodeKanjiViaJISX0213(t *testing.T) {
	d := NewCaptionDecoder()
	text, err := d.Decode([]byte{0x72, 0x22}) // tagged code point 0x17222
	if err != nil {
		t.Fatal(err)
	}
	want := string(rune(0x9B06))
	if text != want {
		t.Fatalf("Decode() = %q, want %q", text, want)
	}
}

// TestDecodeJISGokanKanji2ViaDesignation designates JISGokanKanji2 into
// G0 with "ESC 0x24 0x3A", then decodes a plane-2 JIS X 0213 code point
// through it.
func TestDecodeJISGokanKanji2ViaDesignation(t *testing.T) {
	d := NewCaptionDecoder()
	designate := []byte{ctrlESC, escDRCS, 0x3A}
	text, err := d.Decode(append(designate, 0x74, 0x23)) // tagged code point 0x27423
	if err != nil {
		t.Fatal(err)
	}
	want := string(rune(0x7CD7))
	if text != want {
		t.Fatalf("Decode() = %q, want %q", text, want)
	}
}

// TestDecodeKatakanaSingleByte exercises the contiguous Katakana run
// (U+30A1 onward).
func TestDecodeKatakanaSingleByte(t *testing.T) {
	d := NewCaptionDecoder()
	// G1 is Alnum by default; designate it as Katakana and invoke it
	// via LS1, matching how a broadcast switches into Katakana mid-caption.
	designate := []byte{ctrlESC, 0x29, 0x31} // ESC 0x29 0x31: designate Katakana into G1
	text, err := d.Decode(append(designate, ctrlLS1, 0x21))
	if err != nil {
		t.Fatal(err)
	}
	want := string(rune(0x30A1))
	if text != want {
		t.Fatalf("Decode() = %q, want %q", text, want)
	}
}

// TestDecodeJISX0201SingleByte exercises the JIS X 0201 (half-width
// katakana) mapping, designated into G1 and invoked via LS1.
func TestDecodeJISX0201SingleByte(t *testing.T) {
	d := NewCaptionDecoder()
	designate := []byte{ctrlESC, 0x29, 0x49} // ESC 0x29 0x49: designate JIS X 0201 into G1
	text, err := d.Decode(append(designate, ctrlLS1, 0x21))
	if err != nil {
		t.Fatal(err)
	}
	want := string(rune(0xFF61))
	if text != want {
		t.Fatalf("Decode() = %q, want %q", text, want)
	}
}

// TestDecodeSymbolViaG1Designation exercises the G1=Symbol
// escape-sequence scenario: "ESC 0x24 0x29 0x3B" designates the
// (2-byte-wide) Symbol charset into G1, a following LS1 switches GL to
// G1, and the next two bytes decode one ARIB extended symbol. Symbol's
// table only carries the documented worked examples (see symbols.go),
// so this uses one of those (0x7A21) in place of the spec's own
// example code point, which falls outside that partial table.
func TestDecodeSymbolViaG1Designation(t *testing.T) {
	d := NewCaptionDecoder()
	designate := []byte{ctrlESC, escDRCS, 0x29, 0x3B} // ESC 0x24 0x29 0x3B: designate Symbol into G1
	text, err := d.Decode(append(designate, ctrlLS1, 0x7A, 0x21))
	if err != nil {
		t.Fatal(err)
	}
	want := string(rune(0x26CC))
	if text != want {
		t.Fatalf("Decode() = %q, want %q", text, want)
	}
}
