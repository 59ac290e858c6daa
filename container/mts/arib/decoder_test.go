/*
NAME
  decoder_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package arib

import "testing"

func TestDecodeAlnumViaLockingShift(t *testing.T) {
	d := NewCaptionDecoder()
	// LS1 invokes G1 (Alnum) into GL, then "Hi" as plain GL bytes.
	text, err := d.Decode([]byte{ctrlLS1, 'H', 'i'})
	if err != nil {
		t.Fatal(err)
	}
	if text != "Hi" {
		t.Fatalf("Decode() = %q, want %q", text, "Hi")
	}
}

func TestDecodeHiraganaViaGR(t *testing.T) {
	d := NewCaptionDecoder()
	// GR invokes G2 (Hiragana) by default in a caption decoder; 0xA4
	// (0x24 with the high bit set) decodes to U+3044.
	text, err := d.Decode([]byte{0xA4})
	if err != nil {
		t.Fatal(err)
	}
	want := string(rune(0x3041 + (0x24 - 0x21)))
	if text != want {
		t.Fatalf("Decode() = %q, want %q", text, want)
	}
}

func TestDecodeControlCodes(t *testing.T) {
	d := NewCaptionDecoder()
	text, err := d.Decode([]byte{ctrlAPD, ctrlAPR, ctrlSP, ctrlAPF})
	if err != nil {
		t.Fatal(err)
	}
	if text != "\n\r \t" {
		t.Fatalf("Decode() = %q, want %q", text, "\n\r \t")
	}
}

func TestDecodeSingleByteDesignationThenAlnum(t *testing.T) {
	d := NewCaptionDecoder()
	// ESC 0x28 0x4A designates Alnum into G0; GL already invokes G0.
	text, err := d.Decode([]byte{ctrlESC, 0x28, 0x4A, 'Q'})
	if err != nil {
		t.Fatal(err)
	}
	if text != "Q" {
		t.Fatalf("Decode() = %q, want %q", text, "Q")
	}
}

func TestDecodeEventDecoderDefaultsDifferFromCaption(t *testing.T) {
	capDec := NewCaptionDecoder()
	evt := NewEventDecoder()
	if capDec.g[0] == evt.g[0] {
		t.Fatalf("caption and event decoders share the same default G0 (%v); they should differ", capDec.g[0])
	}
}

type stubDRCSLookup struct {
	text string
	ok   bool
}

func (s stubDRCSLookup) Lookup(setNumber uint8, code uint16) (string, bool) { return s.text, s.ok }

func TestDecodeDRCSWithoutLookupFails(t *testing.T) {
	d := NewCaptionDecoder()
	// Designate DRCS(0) into G0 via the multi-byte form (ESC 0x24 0x28 0x20 F),
	// F=0x40 selects DRCS(0).
	_, err := d.Decode([]byte{ctrlESC, escDRCS, 0x28, 0x20, 0x40, 0x21, 0x22})
	if _, ok := err.(*UnimplementedCharsetError); !ok {
		t.Fatalf("err = %v (%T), want *UnimplementedCharsetError", err, err)
	}
}

func TestDecodeDRCSWithLookup(t *testing.T) {
	d := NewCaptionDecoder(WithDRCS(stubDRCSLookup{text: "[glyph]", ok: true}))
	text, err := d.Decode([]byte{ctrlESC, escDRCS, 0x28, 0x20, 0x40, 0x21, 0x22})
	if err != nil {
		t.Fatal(err)
	}
	if text != "[glyph]" {
		t.Fatalf("Decode() = %q, want %q", text, "[glyph]")
	}
}

func TestDecodeSkipsUnknownCodepointWithSkipLogger(t *testing.T) {
	var skipped []error
	d := NewCaptionDecoder(WithSkipLogger(func(err error) { skipped = append(skipped, err) }))
	// Hiragana byte 0x74 lies between the contiguous run and the
	// exceptions, so it's an UnknownCodepointError; the skip logger should
	// recover it.
	text, err := d.Decode([]byte{0xF4, 0xA4})
	if err != nil {
		t.Fatal(err)
	}
	if len(skipped) != 1 {
		t.Fatalf("skipped = %d errors, want 1", len(skipped))
	}
	want := string(rune(0x3041 + (0x24 - 0x21)))
	if text != want {
		t.Fatalf("Decode() = %q, want %q", text, want)
	}
}
