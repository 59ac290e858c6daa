/*
NAME
  packet.go

DESCRIPTION
  MPEG-2 Transport Stream packet framing: fixed 188-byte packets, sync
  byte 0x47, header fields and optional adaptation field / payload.

AUTHORS
  Saxon A. Nelson-Milton <saxon.milton@gmail.com>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package mts decodes an MPEG-2 Transport Stream into its constituent
// packets, and reassembles PSI sections and PES packets from them.
package mts

import "github.com/pkg/errors"

// PacketSize is the fixed length of a Transport Stream packet.
const PacketSize = 188

// SyncByte is the required value of the first byte of every packet.
const SyncByte = 0x47

// Standard program IDs for program specific information packets.
const (
	PatPID = 0x0000
	SdtPID = 0x0011
)

var (
	// ErrBadSync is returned when a packet does not begin with SyncByte.
	ErrBadSync = errors.New("mts: bad sync byte")
	// ErrShortPacket is returned when fewer than PacketSize bytes are
	// available to decode.
	ErrShortPacket = errors.New("mts: short packet")
)

// Packet is a decoded Transport Stream packet. Payload aliases the
// underlying buffer passed to Decode; callers that retain a Packet past
// the next read must copy Payload themselves.
type Packet struct {
	Raw                    []byte // the full PacketSize-byte packet Decode was given
	TEI                    bool   // transport_error_indicator
	PUSI                   bool   // payload_unit_start_indicator
	Priority               bool   // transport_priority
	PID                    uint16
	TSC                    byte // transport_scrambling_control, 2 bits
	AFC                    byte // adaptation_field_control, 2 bits
	CC                     byte // continuity_counter, 4 bits
	HasAdaptationField     bool
	DiscontinuityIndicator bool
	AdaptationField        []byte // raw adaptation field bytes, including the length byte
	Payload                []byte // nil if adaptation_field_control carries no payload
}

// Decode parses a single 188-byte Transport Stream packet from the front
// of b. It does not scan forward for resynchronization; callers that need
// that should use Resync.
func Decode(b []byte) (*Packet, error) {
	if len(b) < PacketSize {
		return nil, ErrShortPacket
	}
	if b[0] != SyncByte {
		return nil, ErrBadSync
	}
	p := &Packet{
		Raw:      b[:PacketSize],
		TEI:      b[1]&0x80 != 0,
		PUSI:     b[1]&0x40 != 0,
		Priority: b[1]&0x20 != 0,
		PID:      (uint16(b[1]&0x1F) << 8) | uint16(b[2]),
		TSC:      (b[3] >> 6) & 0x3,
		AFC:      (b[3] >> 4) & 0x3,
		CC:       b[3] & 0xF,
	}

	rest := b[4:PacketSize]
	if p.AFC == 0b10 || p.AFC == 0b11 {
		if len(rest) < 1 {
			return nil, ErrShortPacket
		}
		afLen := int(rest[0])
		if len(rest) < 1+afLen {
			return nil, ErrShortPacket
		}
		p.HasAdaptationField = true
		p.AdaptationField = rest[:1+afLen]
		if afLen > 0 {
			p.DiscontinuityIndicator = rest[1]&0x80 != 0
		}
		rest = rest[1+afLen:]
	}
	if p.AFC == 0b01 || p.AFC == 0b11 {
		p.Payload = rest
	}
	return p, nil
}

// Resync scans b for the next byte that begins a run of valid-looking
// packets (a SyncByte every PacketSize bytes, checked at up to three
// consecutive packet starts that fit in the buffer), returning the offset
// or -1 if none is found. Resync
// search on a bad sync byte is optional; callers that want strict
// decoding can simply treat ErrBadSync as fatal instead of calling this.
func Resync(b []byte) int {
	for i := 0; i < len(b); i++ {
		if b[i] != SyncByte {
			continue
		}
		ok := true
		for j := i; j+PacketSize <= len(b) && j < i+PacketSize*3; j += PacketSize {
			if b[j] != SyncByte {
				ok = false
				break
			}
		}
		if ok {
			return i
		}
	}
	return -1
}
