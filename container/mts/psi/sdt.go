/*
NAME
  sdt.go

DESCRIPTION
  SDT (Service Description Table, table_id 0x42 self / 0x46 other) decoding.

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

// Service is one entry of an SDT.
type Service struct {
	ServiceID   uint16
	Descriptors []Descriptor
}

// SDT is a decoded Service Description Table section.
type SDT struct {
	TransportStreamID uint16
	Services          []Service
}

// DecodeSDT decodes a full SDT section (table_id 0x42 or 0x46).
func DecodeSDT(section []byte) (*SDT, error) {
	h, err := ParseHeader(section)
	if err != nil {
		return nil, err
	}
	if h.TableID != TableIDSDTSelf && h.TableID != TableIDSDTOther {
		return nil, ErrWrongTableID
	}
	body := section[11 : 3+h.SectionLength-4]
	sdt := &SDT{TransportStreamID: h.TableIDExtension}
	for len(body) >= 5 {
		serviceID := binary.BigEndian.Uint16(body[0:2])
		loopLen := int(binary.BigEndian.Uint16(body[3:5]) & 0x0FFF)
		if len(body) < 5+loopLen {
			return nil, ErrShortSection
		}
		descs, err := parseDescriptors(body[5 : 5+loopLen])
		if err != nil {
			return nil, err
		}
		sdt.Services = append(sdt.Services, Service{ServiceID: serviceID, Descriptors: descs})
		body = body[5+loopLen:]
	}
	return sdt, nil
}

// ServiceIDs returns the service_id of every service in the table, used to
// filter EIT events down to this transport stream's own services.
func (s *SDT) ServiceIDs() []uint16 {
	ids := make([]uint16, len(s.Services))
	for i, svc := range s.Services {
		ids[i] = svc.ServiceID
	}
	return ids
}
