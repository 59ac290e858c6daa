/*
NAME
  pmt.go

DESCRIPTION
  PMT (Program Map Table, table_id 0x02) decoding.

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

import "encoding/binary"

// Stream type constants relied on by this package's callers.
const (
	StreamTypeMPEG2Video = 0x02
	StreamTypePESPrivate = 0x06
	StreamTypeADTSAudio  = 0x0F
	StreamTypeH264       = 0x1B
)

// StreamInfo is one elementary-stream entry of a PMT.
type StreamInfo struct {
	StreamType    uint8
	ElementaryPID uint16
	Descriptors   []Descriptor
}

// PMT is a decoded Program Map Table section.
type PMT struct {
	ProgramNumber uint16
	PCRPID        uint16
	Descriptors   []Descriptor
	Streams       []StreamInfo
}

// DecodePMT decodes a full PMT section.
func DecodePMT(section []byte) (*PMT, error) {
	h, err := ParseHeader(section)
	if err != nil {
		return nil, err
	}
	if h.TableID != TableIDPMT {
		return nil, ErrWrongTableID
	}
	body := section[8 : 3+h.SectionLength-4]
	if len(body) < 4 {
		return nil, ErrShortSection
	}
	pcrPID := binary.BigEndian.Uint16(body[0:2]) & 0x1FFF
	progInfoLen := int(binary.BigEndian.Uint16(body[2:4]) & 0x0FFF)
	if len(body) < 4+progInfoLen {
		return nil, ErrShortSection
	}
	progDescs, err := parseDescriptors(body[4 : 4+progInfoLen])
	if err != nil {
		return nil, err
	}
	pmt := &PMT{
		ProgramNumber: h.TableIDExtension,
		PCRPID:        pcrPID,
		Descriptors:   progDescs,
	}
	rest := body[4+progInfoLen:]
	for len(rest) > 0 {
		if len(rest) < 5 {
			return nil, ErrShortSection
		}
		streamType := rest[0]
		elemPID := binary.BigEndian.Uint16(rest[1:3]) & 0x1FFF
		esInfoLen := int(binary.BigEndian.Uint16(rest[3:5]) & 0x0FFF)
		if len(rest) < 5+esInfoLen {
			return nil, ErrShortSection
		}
		descs, err := parseDescriptors(rest[5 : 5+esInfoLen])
		if err != nil {
			return nil, err
		}
		pmt.Streams = append(pmt.Streams, StreamInfo{
			StreamType:    streamType,
			ElementaryPID: elemPID,
			Descriptors:   descs,
		})
		rest = rest[5+esInfoLen:]
	}
	return pmt, nil
}

// HasH264 reports whether the PMT lists an H.264 (stream_type 0x1B) stream.
func (p *PMT) HasH264() bool {
	for _, s := range p.Streams {
		if s.StreamType == StreamTypeH264 {
			return true
		}
	}
	return false
}

// IsCaption reports whether a stream is a caption stream: PES private data
// (stream_type 0x06) carrying a Stream-Identifier descriptor whose
// component_tag falls in [0x30, 0x3F].
func (s StreamInfo) IsCaption() bool {
	if s.StreamType != StreamTypePESPrivate {
		return false
	}
	for _, d := range s.Descriptors {
		if d.Tag != TagStreamIdentifer || len(d.Data) < 1 {
			continue
		}
		tag := d.Data[0]
		if tag >= 0x30 && tag <= 0x3F {
			return true
		}
	}
	return false
}
