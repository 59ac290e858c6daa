/*
NAME
  pes.go

DESCRIPTION
  Decoding of PES (Packetized Elementary Stream) packets.

AUTHOR
  Saxon A. Nelson-Milton <saxon.milton@gmail.com>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pes decodes PES packets reassembled by the mts reassembler.
package pes

import "github.com/pkg/errors"

/*
													PES Packet Formatting
============================================================================
| octet no | bit 0 | bit 1 | bit 2 | bit 3 | bit 4 | bit 5 | bit 6 | bit 7 |
============================================================================
| octet 0  | 0x00                                                          |
----------------------------------------------------------------------------
| octet 1  | 0x00                                                          |
----------------------------------------------------------------------------
| octet 2  | 0x01                                                          |
----------------------------------------------------------------------------
| octet 3  | Stream ID                                                     |
----------------------------------------------------------------------------
| octet 4  | PES Packet Length (0 means "until next start", video only)    |
----------------------------------------------------------------------------
| octet 5  | PES Length cont.                                              |
----------------------------------------------------------------------------
| octet 6  | 0x2           |  SC           | Prior | DAI   | Copyr | Copy  |
----------------------------------------------------------------------------
| octet 7  | PDI           | ESCRF | ESRF  | DSMTMF| ACIF  | CRCF  | EF    |
----------------------------------------------------------------------------
| octet 8  | PES Header Length                                             |
----------------------------------------------------------------------------
| optional | optional fields (determined by flags above) (variable length) |
----------------------------------------------------------------------------
| -        | stream data                                                   |
----------------------------------------------------------------------------
*/

// ErrShort is returned when a PES packet buffer is too small for its
// declared fields.
var ErrShort = errors.New("pes: packet too short")

// stream_id values whose body is not a NormalPESPacketBody (ISO/IEC
// 13818-1 Table 2-18).
const (
	sidProgramStreamMap     = 0xBC
	sidPrivateStream2       = 0xBF
	sidECM                  = 0xF0
	sidEMM                  = 0xF1
	sidProgramStreamDir     = 0xFF
	sidDSMCCStream          = 0xF2
	sidH222TypeEStream      = 0xF8
	sidPaddingStream        = 0xBE
)

// ESCR is a decoded Elementary Stream Clock Reference.
type ESCR struct {
	Base      uint64 // 33-bit, 90kHz
	Extension uint16 // 9-bit, 27MHz
}

// Extension carries the PES_extension fields (§2.4.3.7 of ISO/IEC 13818-1).
// Every field is optional depending on the flags that precede it; this
// implementation decodes them all since they are cheap to read once the
// offsets are known, even though this domain only consumes PTS/DTS.
type Extension struct {
	PrivateData                  []byte
	PackHeader                   []byte
	ProgramPacketSequenceCounter uint8
	MPEG1MPEG2Identifier         uint8
	OriginalStuffLength          uint8
	PSTDBufferScale              uint8
	PSTDBufferSize               uint16
}

// Packet is a decoded PES packet.
type Packet struct {
	StreamID byte
	Length   uint16 // pes_packet_length as transmitted; 0 means "until next start"

	// The following fields are present only for stream ids whose body is a
	// NormalPESPacketBody; IsNormal reports whether they were populated.
	IsNormal                bool
	ScramblingControl       byte
	Priority                bool
	DataAlignmentIndicator  bool
	Copyright               bool
	Original                bool
	HasPTS                  bool
	PTS                     uint64
	HasDTS                  bool
	DTS                     uint64
	HasESCR                 bool
	ESCR                    ESCR
	HasESRate               bool
	ESRate                  uint32
	HasAdditionalCopyInfo   bool
	AdditionalCopyInfo      uint8
	HasPreviousPacketCRC    bool
	PreviousPacketCRC       uint16
	HasExtension            bool
	Extension               Extension

	// Data is the elementary-stream payload: pes_packet_data_byte for a
	// normal body, or the raw bytes for a DataBytes/padding body.
	Data []byte
}

// Decode parses a PES packet, including its optional header fields, from
// the reassembled bytes of a single PES unit (start code through end of
// pes_packet_length, or to the end of b if length is 0).
func Decode(b []byte) (*Packet, error) {
	if len(b) < 6 {
		return nil, ErrShort
	}
	if b[0] != 0x00 || b[1] != 0x00 || b[2] != 0x01 {
		return nil, errors.New("pes: missing start code prefix")
	}
	streamID := b[3]
	length := (uint16(b[4]) << 8) | uint16(b[5])
	body := b[6:]
	if length != 0 {
		if len(body) < int(length) {
			return nil, ErrShort
		}
		body = body[:length]
	}

	p := &Packet{StreamID: streamID, Length: length}

	switch streamID {
	case sidProgramStreamMap, sidPrivateStream2, sidECM, sidEMM,
		sidProgramStreamDir, sidDSMCCStream, sidH222TypeEStream:
		p.Data = body
		return p, nil
	case sidPaddingStream:
		return p, nil
	}

	if err := p.parseNormalBody(body); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Packet) parseNormalBody(b []byte) error {
	if len(b) < 3 {
		return ErrShort
	}
	p.IsNormal = true
	p.ScramblingControl = (b[0] >> 4) & 0x3
	p.Priority = b[0]&0x08 != 0
	p.DataAlignmentIndicator = b[0]&0x04 != 0
	p.Copyright = b[0]&0x02 != 0
	p.Original = b[0]&0x01 != 0

	ptsDTSFlags := (b[1] >> 6) & 0x3
	escrFlag := (b[1] >> 5) & 0x1
	esRateFlag := (b[1] >> 4) & 0x1
	dsmTrickModeFlag := (b[1] >> 3) & 0x1
	additionalCopyInfoFlag := (b[1] >> 2) & 0x1
	crcFlag := (b[1] >> 1) & 0x1
	extFlag := b[1] & 0x1

	headerDataLength := int(b[2])
	rest := b[3:]

	switch ptsDTSFlags {
	case 0b10:
		if len(rest) < 5 {
			return ErrShort
		}
		p.HasPTS = true
		p.PTS = parseTimestamp(rest)
		rest = rest[5:]
	case 0b11:
		if len(rest) < 10 {
			return ErrShort
		}
		p.HasPTS = true
		p.PTS = parseTimestamp(rest)
		p.HasDTS = true
		p.DTS = parseTimestamp(rest[5:])
		rest = rest[10:]
	}

	if escrFlag == 1 {
		if len(rest) < 6 {
			return ErrShort
		}
		p.HasESCR = true
		p.ESCR = parseESCR(rest)
		rest = rest[6:]
	}

	if esRateFlag == 1 {
		if len(rest) < 3 {
			return ErrShort
		}
		p.HasESRate = true
		p.ESRate = (uint32(rest[0]&0x7F) << 15) | (uint32(rest[1]) << 7) | (uint32(rest[2]) >> 1)
		rest = rest[3:]
	}

	if dsmTrickModeFlag == 1 {
		if len(rest) < 1 {
			return ErrShort
		}
		rest = rest[1:] // trick-mode bit layout depends on mode; unused by this domain.
	}

	if additionalCopyInfoFlag == 1 {
		if len(rest) < 1 {
			return ErrShort
		}
		p.HasAdditionalCopyInfo = true
		p.AdditionalCopyInfo = rest[0] & 0x7F
		rest = rest[1:]
	}

	if crcFlag == 1 {
		if len(rest) < 2 {
			return ErrShort
		}
		p.HasPreviousPacketCRC = true
		p.PreviousPacketCRC = (uint16(rest[0]) << 8) | uint16(rest[1])
		rest = rest[2:]
	}

	if extFlag == 1 {
		ext, err := parseExtension(rest)
		if err != nil {
			return err
		}
		p.HasExtension = true
		p.Extension = ext
	}

	if len(b) < 3+headerDataLength {
		return ErrShort
	}
	p.Data = b[3+headerDataLength:]
	return nil
}

func parseTimestamp(b []byte) uint64 {
	return (uint64(b[0]&0xE) << 29) |
		(uint64(b[1]) << 22) |
		(uint64(b[2]&0xFE) << 14) |
		(uint64(b[3]) << 7) |
		(uint64(b[4]) >> 1)
}

func parseESCR(b []byte) ESCR {
	base := (uint64(b[0]&0x18) << 27) |
		(uint64(b[0]&0x3) << 28) |
		(uint64(b[1]) << 20) |
		(uint64(b[2]&0xF8) << 12) |
		(uint64(b[2]&0x3) << 13) |
		(uint64(b[3]) << 5) |
		(uint64(b[4]) >> 3)
	ext := (uint16(b[4]&0x3) << 7) | (uint16(b[5]) >> 1)
	return ESCR{Base: base, Extension: ext}
}

func parseExtension(b []byte) (Extension, error) {
	if len(b) < 1 {
		return Extension{}, ErrShort
	}
	privateDataFlag := b[0]&0x80 != 0
	packHeaderFlag := b[0]&0x40 != 0
	seqCounterFlag := b[0]&0x20 != 0
	pSTDBufferFlag := b[0]&0x10 != 0
	extFlag2 := b[0]&0x01 != 0
	rest := b[1:]

	var ext Extension
	if privateDataFlag {
		if len(rest) < 16 {
			return Extension{}, errors.Wrap(ErrShort, "pes_private_data")
		}
		ext.PrivateData = rest[:16]
		rest = rest[16:]
	}
	if packHeaderFlag {
		if len(rest) < 1 {
			return Extension{}, ErrShort
		}
		n := int(rest[0])
		if len(rest) < 1+n {
			return Extension{}, errors.Wrap(ErrShort, "pack_header")
		}
		ext.PackHeader = rest[1 : 1+n]
		rest = rest[1+n:]
	}
	if seqCounterFlag {
		if len(rest) < 2 {
			return Extension{}, ErrShort
		}
		ext.ProgramPacketSequenceCounter = rest[0] & 0x7F
		ext.MPEG1MPEG2Identifier = (rest[1] >> 6) & 0x1
		ext.OriginalStuffLength = rest[1] & 0x3F
		rest = rest[2:]
	}
	if pSTDBufferFlag {
		if len(rest) < 2 {
			return Extension{}, ErrShort
		}
		ext.PSTDBufferScale = (rest[0] >> 5) & 0x1
		ext.PSTDBufferSize = (uint16(rest[0]&0x1F) << 8) | uint16(rest[1])
		rest = rest[2:]
	}
	if extFlag2 && len(rest) < 1 {
		return Extension{}, ErrShort
	}
	return ext, nil
}
