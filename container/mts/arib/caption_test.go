/*
NAME
  caption_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package arib

import "testing"

func buildDataUnit(param byte, data []byte) []byte {
	n := len(data)
	b := []byte{0x1F, param, byte(n >> 16), byte(n >> 8), byte(n)}
	return append(b, data...)
}

func TestParseDataGroupCaptionData(t *testing.T) {
	unit := buildDataUnit(0x20, []byte("hello"))
	body := append([]byte{0x00, byte(len(unit) >> 16), byte(len(unit) >> 8), byte(len(unit))}, unit...)

	b := []byte{
		0x01 << 2, // data_group_id = 1 (caption data, not management)
		0x01, 0x01,
		byte(len(body) >> 8), byte(len(body)),
	}
	b = append(b, body...)
	b = append(b, 0x00, 0x00) // CRC16, unchecked by ParseDataGroup

	dg, err := ParseDataGroup(b)
	if err != nil {
		t.Fatal(err)
	}
	if dg.Data.CaptionData == nil {
		t.Fatal("expected CaptionData, got nil")
	}
	if len(dg.Data.CaptionData.DataUnits) != 1 {
		t.Fatalf("DataUnits = %d, want 1", len(dg.Data.CaptionData.DataUnits))
	}
	du := dg.Data.CaptionData.DataUnits[0]
	if du.DataUnitParameter != DataUnitText {
		t.Fatalf("DataUnitParameter = %v, want DataUnitText", du.DataUnitParameter)
	}
	if string(du.Data) != "hello" {
		t.Fatalf("Data = %q, want %q", du.Data, "hello")
	}
}

func TestParseDataGroupManagementData(t *testing.T) {
	lang := []byte{
		0x0<<5 | 0x0, // language_tag=0, DMF=0 (no DC byte)
		'j', 'p', 'n',
		0x00, // format/TCS/rollup all zero
	}
	body := []byte{0x00} // TMD=free
	body = append(body, 0x01)
	body = append(body, lang...)
	body = append(body, 0x00, 0x00, 0x00) // empty data-unit loop

	b := []byte{
		0x00 << 2, // data_group_id=0 -> management data
		0x01, 0x01,
		byte(len(body) >> 8), byte(len(body)),
	}
	b = append(b, body...)
	b = append(b, 0x00, 0x00)

	dg, err := ParseDataGroup(b)
	if err != nil {
		t.Fatal(err)
	}
	if dg.Data.ManagementData == nil {
		t.Fatal("expected ManagementData, got nil")
	}
	if len(dg.Data.ManagementData.Languages) != 1 {
		t.Fatalf("Languages = %d, want 1", len(dg.Data.ManagementData.Languages))
	}
	if got := dg.Data.ManagementData.Languages[0].ISO639LanguageCode; got != "jpn" {
		t.Fatalf("ISO639LanguageCode = %q, want %q", got, "jpn")
	}
}

func TestParseDRCSDataStructure(t *testing.T) {
	// One code, one font: width=2, height=4 -> pattern length 2.
	b := []byte{
		0x01,       // number_of_code
		0x40, 0x01, // character_code
		0x01,       // number_of_font
		0x01<<4 | 1, // font_id=1, mode=1
		0x02,       // depth=2
		0x02, 0x04, // width, height
		0xAB, 0xCD, // pattern data (2 bytes)
	}
	ds, err := ParseDRCSDataStructure(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.Codes) != 1 || len(ds.Codes[0].Fonts) != 1 {
		t.Fatalf("Codes = %+v, want 1 code with 1 font", ds.Codes)
	}
	f := ds.Codes[0].Fonts[0]
	if f.Width != 2 || f.Height != 4 || len(f.PatternData) != 2 {
		t.Fatalf("font = %+v, want width=2 height=4 2-byte pattern", f)
	}
}

func TestParseDRCSDataStructureRejectsWrongMode(t *testing.T) {
	b := []byte{
		0x01,
		0x40, 0x01,
		0x01,
		0x00 << 4, // mode=0, violates TR-B14
		0x02,
		0x01, 0x01,
		0x00,
	}
	if _, err := ParseDRCSDataStructure(b); err == nil {
		t.Fatal("expected an error for mode != 1, got nil")
	}
}
