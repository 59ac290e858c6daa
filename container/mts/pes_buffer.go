/*
NAME
  pes_buffer.go

DESCRIPTION
  Per-PID reassembly of PES packets from a stream of Transport Stream
  packets.

AUTHORS
  Saxon A. Nelson-Milton <saxon.milton@gmail.com>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mts

import "github.com/pkg/errors"

type pesState int

const (
	pesInitial pesState = iota
	pesBuffering
	pesClosed
)

// ErrPESDiscontinued is returned when a PES reassembler's continuity
// counter is broken; the partially buffered packet is discarded.
var ErrPESDiscontinued = errors.New("mts: pes continuity discontinued")

// PESReassembler reassembles PES packets for a single PID. Not safe for
// concurrent use.
type PESReassembler struct {
	state   pesState
	counter byte
	buf     []byte
}

// NewPESReassembler returns a PESReassembler ready to receive packets for
// one PID.
func NewPESReassembler() *PESReassembler {
	return &PESReassembler{state: pesInitial, buf: make([]byte, 0, 4096)}
}

// Feed processes one packet. It returns the previous PES packet's bytes
// when a new payload_unit_start packet arrives; Close hands over the last
// one at end-of-stream. pes_packet_length is not consulted: a packet with
// a nonzero length is not returned when its last byte arrives, but waits
// for the next start packet just like a video packet of length zero
// ("until next start"), and the returned bytes run to the end of the last
// TS payload, so they can carry stuffing after the declared length.
func (r *PESReassembler) Feed(pkt *Packet) ([]byte, error) {
	if r.state == pesClosed {
		return nil, nil
	}
	if pkt.TEI {
		return nil, nil
	}
	if pkt.Payload == nil {
		return nil, errors.New("mts: pes packet has no payload")
	}
	data := pkt.Payload

	if pkt.PUSI {
		var flushed []byte
		if r.state == pesBuffering {
			b, err := r.extractIfComplete()
			if err == nil {
				flushed = b
			}
		}
		r.state = pesBuffering
		r.counter = pkt.CC
		r.buf = append(r.buf[:0], data...)
		return flushed, nil
	}

	if r.state == pesInitial {
		return nil, nil // saw a partial packet before any start, discard
	}
	switch {
	case r.counter == pkt.CC:
		return nil, nil // duplicate
	case (r.counter+1)%16 == pkt.CC:
		r.counter = pkt.CC
	default:
		r.state = pesInitial
		r.buf = r.buf[:0]
		return nil, ErrPESDiscontinued
	}
	r.buf = append(r.buf, data...)
	return nil, nil
}

// Close flushes any buffered PES packet at end-of-stream, whatever its
// pes_packet_length.
func (r *PESReassembler) Close() []byte {
	if r.state != pesBuffering {
		r.state = pesClosed
		return nil
	}
	r.state = pesClosed
	out := make([]byte, len(r.buf))
	copy(out, r.buf)
	return out
}

// extractIfComplete returns a copy of the buffered bytes once they hold
// at least a 6-byte PES header. It is only called when a new start packet
// arrives, and it does not check pes_packet_length: the prior
// accumulation is handed to the caller whatever its declared length.
func (r *PESReassembler) extractIfComplete() ([]byte, error) {
	if len(r.buf) < 6 {
		return nil, errors.New("mts: not enough data for pes header")
	}
	out := make([]byte, len(r.buf))
	copy(out, r.buf)
	return out, nil
}
