/*
NAME
  pat.go

DESCRIPTION
  PAT (Program Association Table, table_id 0x00) decoding.

AUTHOR
  Saxon Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package psi

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// PATProgram is one (program_number, pid) entry of a PAT. A ProgramNumber
// of 0 denotes the network_PID rather than a program.
type PATProgram struct {
	ProgramNumber uint16
	PID           uint16
}

// IsNetworkPID reports whether this entry names the network_PID rather
// than a program map table.
func (p PATProgram) IsNetworkPID() bool { return p.ProgramNumber == 0 }

// PAT is a decoded Program Association Table section.
type PAT struct {
	TransportStreamID uint16
	Programs          []PATProgram
}

// DecodePAT decodes a full PAT section, including the 8-byte syntax header
// and CRC-32 trailer verification.
func DecodePAT(section []byte) (*PAT, error) {
	h, err := ParseHeader(section)
	if err != nil {
		return nil, err
	}
	if h.TableID != TableIDPAT {
		return nil, ErrWrongTableID
	}
	body := section[8 : 3+h.SectionLength-4]
	if len(body)%4 != 0 {
		return nil, errors.Wrap(ErrSectionLength, "pat body not a multiple of 4")
	}
	pat := &PAT{TransportStreamID: h.TableIDExtension}
	for i := 0; i+4 <= len(body); i += 4 {
		pat.Programs = append(pat.Programs, PATProgram{
			ProgramNumber: binary.BigEndian.Uint16(body[i : i+2]),
			PID:           binary.BigEndian.Uint16(body[i+2:i+4]) & 0x1FFF,
		})
	}
	return pat, nil
}

// PMTPIDs returns the PIDs of every PMT referenced by the PAT, i.e. every
// entry whose ProgramNumber is non-zero.
func (p *PAT) PMTPIDs() []uint16 {
	var pids []uint16
	for _, prog := range p.Programs {
		if !prog.IsNetworkPID() {
			pids = append(pids, prog.PID)
		}
	}
	return pids
}

// NetworkPID returns the network_PID carried by the PAT and true, or
// (0, false) if the PAT carries no program_number==0 entry.
func (p *PAT) NetworkPID() (uint16, bool) {
	for _, prog := range p.Programs {
		if prog.IsNetworkPID() {
			return prog.PID, true
		}
	}
	return 0, false
}
