/*
NAME
  events_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import (
	"bytes"
	"testing"

	"github.com/ausocean/tstools/container/mts"
	"github.com/ausocean/tstools/container/mts/psi"
)

func buildDescriptor(tag byte, data []byte) []byte {
	return append([]byte{tag, byte(len(data))}, data...)
}

func buildShortEventDescriptor(name, text []byte) []byte {
	data := []byte{'j', 'p', 'n', byte(len(name))}
	data = append(data, name...)
	data = append(data, byte(len(text)))
	data = append(data, text...)
	return buildDescriptor(psi.TagShortEvent, data)
}

func buildContentDescriptor(g psi.Genre) []byte {
	return buildDescriptor(psi.TagContent, []byte{byte(g) << 4})
}

// buildEITEventBody builds one EIT event entry with undefined start_time and
// duration (ARIB's all-ones sentinel), so DecodeEIT treats both as absent
// without needing BCD/MJD arithmetic in the fixture.
func buildEITEventBody(eventID uint16, descriptors []byte) []byte {
	b := []byte{byte(eventID >> 8), byte(eventID)}
	b = append(b, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF) // start_time undefined
	b = append(b, 0xFF, 0xFF, 0xFF)              // duration undefined
	loopLen := len(descriptors)
	b = append(b, byte(loopLen>>8)&0x0F, byte(loopLen))
	return append(b, descriptors...)
}

func buildEITPacket(tableID byte, serviceID, tsid, onid uint16, events []byte) []byte {
	body := []byte{byte(tsid >> 8), byte(tsid), byte(onid >> 8), byte(onid), 0x00, 0xFF}
	body = append(body, events...)
	return buildPacket(psi.PIDEITSelf, buildSection(tableID, serviceID, body))
}

func buildSDTPacket(tsid uint16, serviceIDs []uint16) []byte {
	body := []byte{0x00, 0x00, 0xFF} // original_network_id, reserved byte
	for _, id := range serviceIDs {
		body = append(body, byte(id>>8), byte(id), 0xFF, 0x00, 0x00) // reserved byte, empty descriptor loop
	}
	return buildPacket(mts.SdtPID, buildSection(psi.TableIDSDTSelf, tsid, body))
}

func TestEventsDecodesShortEventAndContent(t *testing.T) {
	name := []byte{0x0E, 'T', 'i', 't', 'l', 'e'} // LS1 into Alnum, then plain ASCII
	text := []byte("Summary")
	descriptors := append(buildShortEventDescriptor(name, text), buildContentDescriptor(psi.GenreSports)...)
	eventBody := buildEITEventBody(1, descriptors)

	var buf bytes.Buffer
	buf.Write(buildSDTPacket(1, []uint16{1}))
	buf.Write(buildEITPacket(psi.TableIDEITSelfPF, 1, 1, 1, eventBody))

	recs, err := Events(&buf, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("len(recs) = %d, want 1", len(recs))
	}
	r := recs[0]
	if r.ID != 1 || r.Title != "Title" || r.Summary != "Summary" || r.Category != "sports" {
		t.Fatalf("record = %+v, want ID=1 Title=Title Summary=Summary Category=sports", r)
	}
	if r.HasStart || r.HasDuration {
		t.Fatalf("record = %+v, want undefined start/duration", r)
	}
}

func TestEventsFiltersToOwnServices(t *testing.T) {
	ownEvent := buildEITEventBody(1, buildContentDescriptor(psi.GenreNews))
	otherEvent := buildEITEventBody(2, buildContentDescriptor(psi.GenreNews))

	var buf bytes.Buffer
	buf.Write(buildSDTPacket(1, []uint16{1}))
	buf.Write(buildEITPacket(psi.TableIDEITSelfPF, 1, 1, 1, ownEvent))   // service_id 1: kept
	buf.Write(buildEITPacket(psi.TableIDEITSelfPF, 2, 1, 1, otherEvent)) // service_id 2: filtered out

	recs, err := Events(&buf, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].ID != 1 {
		t.Fatalf("recs = %+v, want only event_id 1", recs)
	}
}
