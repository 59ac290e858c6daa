/*
NAME
  section.go

DESCRIPTION
  Common PSI section header parsing shared by PAT, PMT, SDT and EIT decoders.

AUTHOR
  Saxon Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package psi decodes MPEG-2 program specific information: PAT, PMT, SDT,
// EIT sections, their descriptor loops, and the MPEG-2 CRC-32 trailer.
package psi

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Table ids recognised by this package.
const (
	TableIDPAT             = 0x00
	TableIDPMT             = 0x02
	TableIDSDTSelf         = 0x42
	TableIDSDTOther        = 0x46
	TableIDEITSelfPF       = 0x4E
	TableIDEITOtherPF      = 0x4F
	TableIDEITSelfSchedLo  = 0x50
	TableIDEITSelfSchedHi  = 0x5F
	TableIDEITOtherSchedLo = 0x60
	TableIDEITOtherSchedHi = 0x6F
)

// Descriptor tags recognised by this package.
const (
	TagShortEvent      = 0x4D
	TagExtendedEvent   = 0x4E
	TagStreamIdentifer = 0x52
	TagContent         = 0x54
)

// maxSectionLength is the largest section_length value permitted by the
// PSI syntax (12 bits, but restricted to 1021 for private/standard sections
// carrying a CRC trailer).
const maxSectionLength = 1021

var (
	// ErrShortSection is returned when a section buffer is too small to
	// contain its declared fields.
	ErrShortSection = errors.New("psi: section too short")
	// ErrWrongTableID is returned when a decoder is given a section whose
	// table_id does not match what it expects.
	ErrWrongTableID = errors.New("psi: unexpected table id")
	// ErrSectionLength is returned when section_length is out of range or
	// inconsistent with the buffer it was decoded from.
	ErrSectionLength = errors.New("psi: invalid section length")
	// ErrCRC is returned when a section's CRC-32 trailer does not match its
	// contents. It is non-fatal: the caller should discard the section and
	// continue.
	ErrCRC = errors.New("psi: crc mismatch")
)

// Header is the 8-byte syntax-section header common to PAT, PMT, SDT and
// EIT: table_id, section_length, a table-id-specific "extension" field
// (program_number / transport_stream_id / service_id), version, and the
// section_number / last_section_number pair.
type Header struct {
	TableID              uint8
	SectionLength        uint16
	TableIDExtension     uint16
	VersionNumber        uint8
	CurrentNextIndicator bool
	SectionNumber        uint8
	LastSectionNumber    uint8
}

// ParseHeader parses the common 8-byte syntax-section header from the start
// of a PSI section and verifies the section's CRC-32 trailer. section_length
// counts bytes from immediately after the length field to the end of the
// section including the CRC, so the full section is b[:3+SectionLength].
func ParseHeader(b []byte) (Header, error) {
	if len(b) < 8 {
		return Header{}, ErrShortSection
	}
	sl := binary.BigEndian.Uint16(b[1:3]) & 0x0FFF
	if sl > maxSectionLength {
		return Header{}, ErrSectionLength
	}
	if len(b) < 3+int(sl) {
		return Header{}, ErrShortSection
	}
	if !VerifyCRC(b[:3+sl]) {
		return Header{}, ErrCRC
	}
	return Header{
		TableID:              b[0],
		SectionLength:        sl,
		TableIDExtension:     binary.BigEndian.Uint16(b[3:5]),
		VersionNumber:        (b[5] >> 1) & 0x1F,
		CurrentNextIndicator: b[5]&0x01 != 0,
		SectionNumber:        b[6],
		LastSectionNumber:    b[7],
	}, nil
}

// Descriptor is a single tag+data descriptor as found in PMT, SDT and EIT
// descriptor loops.
type Descriptor struct {
	Tag  uint8
	Data []byte
}

// parseDescriptors reads a run of length-prefixed descriptors occupying
// exactly b.
func parseDescriptors(b []byte) ([]Descriptor, error) {
	var out []Descriptor
	for len(b) > 0 {
		if len(b) < 2 {
			return nil, errors.Wrap(ErrShortSection, "descriptor header")
		}
		tag := b[0]
		length := int(b[1])
		if len(b) < 2+length {
			return nil, errors.Wrap(ErrShortSection, "descriptor data")
		}
		out = append(out, Descriptor{Tag: tag, Data: b[2 : 2+length]})
		b = b[2+length:]
	}
	return out, nil
}
