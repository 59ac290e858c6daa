/*
NAME
  psi_buffer.go

DESCRIPTION
  Per-PID reassembly of PSI sections from a stream of Transport Stream
  packets, driven by payload_unit_start and continuity_counter.

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

type sectionState int

const (
	sectionInitial sectionState = iota
	sectionPartial
	sectionFull
)

var (
	// ErrNoPayload is returned when a packet carrying no payload is fed to
	// a reassembler.
	ErrNoPayload = errors.New("mts: packet has no payload")
	// ErrNoSectionHeader is returned when a start packet's pointer field
	// leaves too little data for a section header.
	ErrNoSectionHeader = errors.New("mts: no section header in packet")
	// ErrDiscontinued is returned once, on the packet that breaks
	// continuity; the buffer is reset to Initial and must be restarted by
	// the next payload_unit_start packet.
	ErrDiscontinued = errors.New("mts: psi continuity discontinued")
)

// SectionReassembler reassembles PSI sections for a single PID. It is not
// safe for concurrent use; callers that fan sections out across goroutines
// should own one SectionReassembler per PID and feed it from a single
// reader goroutine.
type SectionReassembler struct {
	state   sectionState
	counter byte
	buf     []byte
}

// NewSectionReassembler returns a SectionReassembler ready to receive
// packets for one PID.
func NewSectionReassembler() *SectionReassembler {
	return &SectionReassembler{state: sectionInitial, buf: make([]byte, 0, 4096)}
}

// Feed processes one packet and returns every PSI section that became
// complete as a result (zero, one, or more if the payload packed several
// sections back to back). A non-nil error indicates the packet was
// malformed or broke continuity; in the continuity case the reassembler
// resets to Initial and resumes on the next payload_unit_start packet.
func (r *SectionReassembler) Feed(pkt *Packet) ([][]byte, error) {
	if pkt.TEI {
		return nil, nil
	}
	if pkt.Payload == nil {
		return nil, ErrNoPayload
	}
	data := pkt.Payload

	if pkt.PUSI {
		pointer := int(data[0])
		if len(data) < pointer+1 {
			return nil, ErrNoSectionHeader
		}
		r.buf = append(r.buf[:0], data[pointer+1:]...)
		r.counter = pkt.CC
		r.state = sectionPartial
	} else {
		switch r.state {
		case sectionInitial:
			return nil, nil
		}
		switch {
		case r.counter == pkt.CC:
			return nil, nil // duplicate
		case (r.counter+1)%16 == pkt.CC:
			r.counter = pkt.CC
		default:
			r.state = sectionInitial
			r.buf = r.buf[:0]
			return nil, ErrDiscontinued
		}
		r.buf = append(r.buf, data...)
	}

	var sections [][]byte
	for {
		if len(r.buf) < 3 {
			break
		}
		sectionLength := (int(r.buf[1]&0x0F) << 8) | int(r.buf[2])
		if len(r.buf) < sectionLength+3 {
			break
		}
		sec := make([]byte, sectionLength+3)
		copy(sec, r.buf[:sectionLength+3])
		sections = append(sections, sec)
		r.buf = r.buf[sectionLength+3:]
	}
	return sections, nil
}
