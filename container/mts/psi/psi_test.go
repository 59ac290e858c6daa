/*
NAME
  psi_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package psi

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func buildSection(tableID byte, ext uint16, body []byte) []byte {
	b := []byte{
		tableID,
		0, 0, // section_length, filled below
		byte(ext >> 8), byte(ext),
		0xC1, // version 0, current_next = 1
		0, 0, // section_number, last_section_number
	}
	b = append(b, body...)
	sectionLen := len(b) - 3 + 4 // + crc
	b[1] = 0x80 | byte(sectionLen>>8)
	b[2] = byte(sectionLen)
	return AddCRC(b)
}

func TestDecodePAT(t *testing.T) {
	body := []byte{
		0x00, 0x00, 0x00, 0x10, // program 0 -> network pid 0x0010
		0x01, 0x01, 0x01, 0xF0, // program 0x0101 -> pmt pid 0x01F0
		0x01, 0x02, 0x02, 0xF0, // program 0x0102 -> pmt pid 0x02F0
	}
	sec := buildSection(TableIDPAT, 1, body)
	pat, err := DecodePAT(sec)
	if err != nil {
		t.Fatal(err)
	}
	want := &PAT{
		TransportStreamID: 1,
		Programs: []PATProgram{
			{ProgramNumber: 0, PID: 0x0010},
			{ProgramNumber: 0x0101, PID: 0x01F0},
			{ProgramNumber: 0x0102, PID: 0x02F0},
		},
	}
	if diff := cmp.Diff(want, pat); diff != "" {
		t.Fatalf("unexpected PAT (-want +got):\n%s", diff)
	}
	if pids := pat.PMTPIDs(); len(pids) != 2 {
		t.Fatalf("PMTPIDs() = %v, want 2 entries", pids)
	}
	if pid, ok := pat.NetworkPID(); !ok || pid != 0x0010 {
		t.Fatalf("NetworkPID() = (%#x, %v), want (0x10, true)", pid, ok)
	}
}

func TestDecodePMTCaption(t *testing.T) {
	streamIdentifier := []byte{TagStreamIdentifer, 0x01, 0x30}
	body := []byte{
		0xE1, 0x00, // pcr_pid = 0x0100
		0x00, 0x00, // program_info_length = 0
		StreamTypePESPrivate, 0xE2, 0x00, // elementary_pid 0x0200
		byte(0x00<<4 | (len(streamIdentifier) >> 8)), byte(len(streamIdentifier)),
	}
	body = append(body, streamIdentifier...)
	sec := buildSection(TableIDPMT, 0x0101, body)
	pmt, err := DecodePMT(sec)
	if err != nil {
		t.Fatal(err)
	}
	if pmt.PCRPID != 0x0100 {
		t.Fatalf("PCRPID = %#x, want 0x0100", pmt.PCRPID)
	}
	if len(pmt.Streams) != 1 || !pmt.Streams[0].IsCaption() {
		t.Fatalf("expected single caption stream, got %+v", pmt.Streams)
	}
}

func TestStartTimeRoundTrip(t *testing.T) {
	mjd := gregorianToMJD(2024, 3, 15)
	y, m, d := mjdToGregorian(mjd)
	if y != 2024 || m != 3 || d != 15 {
		t.Fatalf("round trip = %d-%d-%d, want 2024-3-15", y, m, d)
	}
}

func TestDecodeStartTimeUndefined(t *testing.T) {
	_, err := DecodeStartTime([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	if err != ErrUndefinedTime {
		t.Fatalf("err = %v, want ErrUndefinedTime", err)
	}
}

func TestParseContent(t *testing.T) {
	c, err := ParseContent(Descriptor{Tag: TagContent, Data: []byte{0x01, 0x00}})
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Items) != 1 || c.Items[0].Genre != GenreSports {
		t.Fatalf("Items = %+v, want genre sports", c.Items)
	}
	if c.Items[0].Genre.String() != "sports" {
		t.Fatalf("String() = %q, want sports", c.Items[0].Genre.String())
	}
}
