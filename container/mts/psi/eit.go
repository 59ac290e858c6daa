/*
NAME
  eit.go

DESCRIPTION
  EIT (Event Information Table, table_ids 0x4E-0x6F) decoding.

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
	"time"
)

// EIT PID assignments on ARIB broadcasts.
const (
	PIDEITSelf  = 0x0012
	PIDEITOther = 0x0026
	PIDEITExtra = 0x0027
)

// Event is one decoded EIT event entry.
type Event struct {
	EventID       uint16
	StartTime     time.Time // zero Time if start_time was undefined
	HasStartTime  bool
	Duration      time.Duration
	HasDuration   bool
	RunningStatus uint8
	FreeCAMode    bool
	Descriptors   []Descriptor
}

// EIT is a decoded Event Information Table section.
type EIT struct {
	TableID           uint8
	ServiceID         uint16
	TransportStreamID uint16
	OriginalNetworkID uint16
	SegmentLastSecNum uint8
	LastTableID       uint8
	Events            []Event
}

// IsEITSchedule reports whether table_id denotes a schedule (as opposed to
// present/following) EIT table.
func IsEITSchedule(tableID uint8) bool {
	return tableID >= TableIDEITSelfSchedLo && tableID <= TableIDEITOtherSchedHi
}

// DecodeEIT decodes a full EIT section.
func DecodeEIT(section []byte) (*EIT, error) {
	h, err := ParseHeader(section)
	if err != nil {
		return nil, err
	}
	if !(h.TableID == TableIDEITSelfPF || h.TableID == TableIDEITOtherPF || IsEITSchedule(h.TableID)) {
		return nil, ErrWrongTableID
	}
	if len(section) < 14 {
		return nil, ErrShortSection
	}
	eit := &EIT{
		TableID:           h.TableID,
		ServiceID:         h.TableIDExtension,
		TransportStreamID: binary.BigEndian.Uint16(section[8:10]),
		OriginalNetworkID: binary.BigEndian.Uint16(section[10:12]),
		SegmentLastSecNum: section[12],
		LastTableID:       section[13],
	}
	body := section[14 : 3+h.SectionLength-4]
	for len(body) >= 12 {
		ev := Event{EventID: binary.BigEndian.Uint16(body[0:2])}
		st, err := DecodeStartTime(body[2:7])
		if err == nil {
			ev.StartTime = st
			ev.HasStartTime = true
		} else if err != ErrUndefinedTime {
			return nil, err
		}
		dur, err := DecodeDuration(body[7:10])
		if err == nil {
			ev.Duration = dur
			ev.HasDuration = true
		} else if err != ErrUndefinedTime {
			return nil, err
		}
		ev.RunningStatus = body[10] >> 5
		ev.FreeCAMode = body[10]&0x10 != 0
		loopLen := int(binary.BigEndian.Uint16(body[10:12]) & 0x0FFF)
		if len(body) < 12+loopLen {
			return nil, ErrShortSection
		}
		descs, err := parseDescriptors(body[12 : 12+loopLen])
		if err != nil {
			return nil, err
		}
		ev.Descriptors = descs
		eit.Events = append(eit.Events, ev)
		body = body[12+loopLen:]
	}
	return eit, nil
}
