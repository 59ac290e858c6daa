/*
NAME
  pts_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import (
	"testing"

	"github.com/ausocean/tstools/container/mts"
)

func TestIsIPicture(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want bool
	}{
		{"i-picture", []byte{0x00, 0x00, 0x01, 0x00, 0x00, 0x08}, true},
		{"p-picture", []byte{0x00, 0x00, 0x01, 0x00, 0x00, 0x10}, false},
		{"no start code", []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}, false},
		{"truncated after start code", []byte{0x00, 0x00, 0x01, 0x00}, false},
		{"start code later in buffer", []byte{0xFF, 0x00, 0x00, 0x01, 0x00, 0x00, 0x08}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := isIPicture(c.data); got != c.want {
				t.Errorf("isIPicture(%x) = %v, want %v", c.data, got, c.want)
			}
		})
	}
}

// encodePTS builds the 5-byte PTS-only timestamp field read by
// pes.parseTimestamp, for an arbitrary 33-bit presentation timestamp.
func encodePTS(v uint64) []byte {
	b := make([]byte, 5)
	b[0] = byte((v>>30)&0x7)<<1 | 0x21
	b[1] = byte((v >> 22) & 0xFF)
	b[2] = byte((v>>15)&0x7F)<<1 | 0x01
	b[3] = byte((v >> 7) & 0xFF)
	b[4] = byte(v&0x7F)<<1 | 0x01
	return b
}

// buildPESPacket wraps a PES payload (elementary-stream data) in a PTS-only
// PES header, with pes_packet_length 0 ("until next start"), matching how
// video elementary streams are framed.
func buildPESPacket(streamID byte, pts uint64, data []byte) []byte {
	b := []byte{0x00, 0x00, 0x01, streamID, 0x00, 0x00}
	b = append(b, 0x80, 0x80, 0x05)
	b = append(b, encodePTS(pts)...)
	b = append(b, data...)
	return b
}

// buildPESTSPacket wraps a PES fragment (or nil, for an empty flush-trigger
// packet) in a single 188-byte TS packet. PES payloads carry no pointer
// field, unlike PSI sections.
func buildPESTSPacket(pid uint16, cc byte, pusi bool, payload []byte) []byte {
	pkt := make([]byte, mts.PacketSize)
	pkt[0] = mts.SyncByte
	pid1 := byte(pid >> 8)
	if pusi {
		pid1 |= 0x40
	}
	pkt[1] = pid1
	pkt[2] = byte(pid)
	pkt[3] = 0x10 | (cc & 0xF)
	n := copy(pkt[4:], payload)
	for i := 4 + n; i < mts.PacketSize; i++ {
		pkt[i] = 0xFF
	}
	return pkt
}

// chanOf decodes a sequence of raw TS packets and delivers them on a closed
// channel, as firstPTS/firstIPicturePTS expect to consume from a Demuxer
// sink.
func chanOf(t *testing.T, raw ...[]byte) <-chan *mts.Packet {
	t.Helper()
	ch := make(chan *mts.Packet, len(raw))
	for _, b := range raw {
		pkt, err := mts.Decode(b)
		if err != nil {
			t.Fatalf("mts.Decode: %v", err)
		}
		ch <- pkt
	}
	close(ch)
	return ch
}

func TestFirstPTS(t *testing.T) {
	const pid = 0x0201
	const pts = 123456
	pes := buildPESPacket(0xC0, pts, []byte("audio-frame"))
	ch := chanOf(t,
		buildPESTSPacket(pid, 0, true, pes),
		buildPESTSPacket(pid, 1, true, nil), // next start flushes the first
	)

	got, err := firstPTS(ch)
	if err != nil {
		t.Fatal(err)
	}
	if got != pts {
		t.Fatalf("firstPTS() = %d, want %d", got, pts)
	}
}

func TestFirstPTSNoneBeforeEndOfStream(t *testing.T) {
	ch := chanOf(t, buildPESTSPacket(0x0201, 0, true, []byte{0x00, 0x00, 0x01, 0xC0, 0x00, 0x00}))
	if _, err := firstPTS(ch); err == nil {
		t.Fatal("expected an error when the channel closes with no flushed PES packet")
	}
}

func TestFirstIPicturePTS(t *testing.T) {
	const pid = 0x0200
	const pPicturePTS = 90000
	const iPicturePTS = 180000

	pPicture := buildPESPacket(0xE0, pPicturePTS, []byte{0x00, 0x00, 0x01, 0x00, 0x00, 0x10})
	iPicture := buildPESPacket(0xE0, iPicturePTS, []byte{0x00, 0x00, 0x01, 0x00, 0x00, 0x08})
	trailer := buildPESTSPacket(pid, 2, true, nil)

	ch := chanOf(t,
		buildPESTSPacket(pid, 0, true, pPicture),
		buildPESTSPacket(pid, 1, true, iPicture),
		trailer,
	)

	got, err := firstIPicturePTS(ch)
	if err != nil {
		t.Fatal(err)
	}
	if got != iPicturePTS {
		t.Fatalf("firstIPicturePTS() = %d, want %d (should skip the leading P-picture)", got, iPicturePTS)
	}
}

func TestFirstIPicturePTSNoneFound(t *testing.T) {
	const pid = 0x0200
	pPicture := buildPESPacket(0xE0, 1000, []byte{0x00, 0x00, 0x01, 0x00, 0x00, 0x10})
	ch := chanOf(t,
		buildPESTSPacket(pid, 0, true, pPicture),
		buildPESTSPacket(pid, 1, true, nil),
	)

	if _, err := firstIPicturePTS(ch); err == nil {
		t.Fatal("expected an error when no I-picture is present")
	}
}
