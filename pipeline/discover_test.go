/*
NAME
  discover_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import (
	"bytes"
	"testing"

	"github.com/ausocean/tstools/container/mts"
	"github.com/ausocean/tstools/container/mts/psi"
)

// buildSection wraps body in the common 8-byte PSI header plus CRC-32
// trailer, matching github.com/ausocean/tstools/container/mts/psi's own
// test helper.
func buildSection(tableID byte, ext uint16, body []byte) []byte {
	b := []byte{
		tableID,
		0, 0,
		byte(ext >> 8), byte(ext),
		0xC1,
		0, 0,
	}
	b = append(b, body...)
	sectionLen := len(b) - 3 + 4
	b[1] = 0x80 | byte(sectionLen>>8)
	b[2] = byte(sectionLen)
	return psi.AddCRC(b)
}

// buildPacket wraps section in a single 188-byte TS packet on pid, with a
// zero pointer field (the section starts immediately after it).
func buildPacket(pid uint16, section []byte) []byte {
	pkt := make([]byte, mts.PacketSize)
	pkt[0] = mts.SyncByte
	pkt[1] = 0x40 | byte(pid>>8) // PUSI=1
	pkt[2] = byte(pid)
	pkt[3] = 0x10 // AFC=01, payload only
	pkt[4] = 0x00 // pointer_field
	n := copy(pkt[5:], section)
	for i := 5 + n; i < mts.PacketSize; i++ {
		pkt[i] = 0xFF
	}
	return pkt
}

func buildPATPacket(programNumber, pmtPID uint16) []byte {
	body := []byte{
		byte(programNumber >> 8), byte(programNumber),
		0xE0 | byte(pmtPID>>8), byte(pmtPID),
	}
	return buildPacket(mts.PatPID, buildSection(psi.TableIDPAT, 1, body))
}

func buildPMTPacket(pmtPID uint16, streams []psi.StreamInfo) []byte {
	body := []byte{0xE1, 0x00, 0x00, 0x00} // pcr_pid=0x0100, no program descriptors
	for _, s := range streams {
		body = append(body, s.StreamType, 0xE0|byte(s.ElementaryPID>>8), byte(s.ElementaryPID), 0x00, 0x00)
	}
	return buildPacket(pmtPID, buildSection(psi.TableIDPMT, 1, body))
}

func TestDiscoverPATAndPMT(t *testing.T) {
	const pmtPID = 0x0100
	streams := []psi.StreamInfo{
		{StreamType: psi.StreamTypeMPEG2Video, ElementaryPID: 0x0200},
		{StreamType: psi.StreamTypeADTSAudio, ElementaryPID: 0x0201},
	}
	var buf bytes.Buffer
	buf.Write(buildPATPacket(1, pmtPID))
	// The PMT PID isn't registered until after the PAT has been decoded
	// (see Discoverer.Discover), so the very first PMT packet in the
	// stream can race the registration and be dropped; repeating it
	// mirrors a broadcast's periodic PAT/PMT retransmission and makes
	// the test deterministic regardless of goroutine scheduling.
	for i := 0; i < 5; i++ {
		buf.Write(buildPMTPacket(pmtPID, streams))
	}

	p := New(nil)
	disc := NewDiscoverer(p)
	go p.Run(&buf)

	m, pmt, err := disc.Discover(0)
	if err != nil {
		t.Fatal(err)
	}
	if m.VideoPID != 0x0200 || m.AudioPID != 0x0201 {
		t.Fatalf("Data = %+v, want video=0x200 audio=0x201", m)
	}
	if pmt.PCRPID != 0x0100 {
		t.Fatalf("PMT.PCRPID = %#x, want 0x100", pmt.PCRPID)
	}
}

func TestDiscoverNoProgram(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(buildPacket(mts.PatPID, buildSection(psi.TableIDPAT, 1, nil)))

	p := New(nil)
	disc := NewDiscoverer(p)
	go p.Run(&buf)

	if _, _, err := disc.Discover(0); err != ErrNoProgram {
		t.Fatalf("err = %v, want ErrNoProgram", err)
	}
}

func TestDiscoverProgramIndexOutOfRange(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(buildPATPacket(1, 0x0100))

	p := New(nil)
	disc := NewDiscoverer(p)
	go p.Run(&buf)

	if _, _, err := disc.Discover(5); err == nil {
		t.Fatal("expected an out-of-range error, got nil")
	}
}
