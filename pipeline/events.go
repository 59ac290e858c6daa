/*
NAME
  events.go

DESCRIPTION
  Electronic Program Guide extraction: subscribes to the SDT and the
  three EIT PIDs ARIB broadcasts carry, filters events down to this
  transport stream's own services, deduplicates by event_id, and
  reassembles Extended-Event descriptors split across multiple pages.

AUTHOR
  Saxon Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pipeline

import (
	"io"
	"sync"
	"time"

	"github.com/ausocean/tstools/container/mts"
	"github.com/ausocean/tstools/container/mts/arib"
	"github.com/ausocean/tstools/container/mts/psi"
	"github.com/ausocean/utils/logging"
)

// EventRecord is one EPG entry, ready for JSON output by the caller.
type EventRecord struct {
	ID          uint16
	Start       time.Time
	HasStart    bool
	Duration    time.Duration
	HasDuration bool
	Title       string
	Summary     string
	Detail      map[string]string
	Category    string
}

// extendedEventText reassembles an Extended-Event descriptor's paged
// items into a single description->body map, concatenating bodies
// across consecutive pages whose description is empty onto the
// preceding non-empty description.
func extendedEventText(decoder *arib.Decoder, items []psi.ExtendedEventItem) map[string]string {
	detail := make(map[string]string)
	var lastKey string
	for _, it := range items {
		if len(it.Description) > 0 {
			key, err := decoder.Decode(it.Description)
			if err != nil {
				continue
			}
			lastKey = key
		}
		if lastKey == "" {
			continue
		}
		item, err := decoder.Decode(it.Item)
		if err != nil {
			continue
		}
		detail[lastKey] += item
	}
	return detail
}

// eventRecordFromDescriptors builds an EventRecord from an EIT event's
// descriptors, decoding ARIB text along the way.
func eventRecordFromDescriptors(ev psi.Event) EventRecord {
	rec := EventRecord{
		ID:          ev.EventID,
		Start:       ev.StartTime,
		HasStart:    ev.HasStartTime,
		Duration:    ev.Duration,
		HasDuration: ev.HasDuration,
	}
	var extItems []psi.ExtendedEventItem
	for _, d := range ev.Descriptors {
		switch d.Tag {
		case psi.TagShortEvent:
			se, err := psi.ParseShortEvent(d)
			if err != nil {
				continue
			}
			dec := arib.NewEventDecoder()
			if title, err := dec.Decode(se.EventName); err == nil {
				rec.Title = title
			}
			if summary, err := dec.Decode(se.Text); err == nil {
				rec.Summary = summary
			}
		case psi.TagExtendedEvent:
			ee, err := psi.ParseExtendedEvent(d)
			if err != nil {
				continue
			}
			extItems = append(extItems, ee.Items...)
		case psi.TagContent:
			c, err := psi.ParseContent(d)
			if err != nil || len(c.Items) == 0 {
				continue
			}
			rec.Category = c.Items[0].Genre.String()
		}
	}
	if detail := extendedEventText(arib.NewEventDecoder(), extItems); len(detail) > 0 {
		rec.Detail = detail
	}
	return rec
}

// Events runs the SDT/EIT discovery and emits one EventRecord per
// distinct event_id found among this stream's own services, in EIT
// order, last occurrence wins. It reads r to completion before
// returning.
func Events(r io.Reader, log logging.Logger) ([]EventRecord, error) {
	p := New(log)
	go logReadErrors(p, log)

	sdtCh, unregSDT := p.Demux.Register(mts.SdtPID)
	defer unregSDT()
	selfCh, unregSelf := p.Demux.Register(psi.PIDEITSelf)
	defer unregSelf()
	otherCh, unregOther := p.Demux.Register(psi.PIDEITOther)
	defer unregOther()
	extraCh, unregExtra := p.Demux.Register(psi.PIDEITExtra)
	defer unregExtra()

	done := make(chan struct{})
	go func() {
		p.Run(r)
		close(done)
	}()

	// Every PID channel is merged into one so the SDT service-id set and
	// the event records map are only ever touched by this one goroutine;
	// the three EIT PIDs would otherwise race on those two collections.
	type taggedPacket struct {
		pid uint16
		pkt *mts.Packet
	}
	merged := make(chan taggedPacket)
	var wg sync.WaitGroup
	forward := func(pid uint16, ch <-chan *mts.Packet) {
		defer wg.Done()
		for pkt := range ch {
			merged <- taggedPacket{pid: pid, pkt: pkt}
		}
	}
	wg.Add(4)
	go forward(mts.SdtPID, sdtCh)
	go forward(psi.PIDEITSelf, selfCh)
	go forward(psi.PIDEITOther, otherCh)
	go forward(psi.PIDEITExtra, extraCh)
	go func() { wg.Wait(); close(merged) }()

	serviceIDs := make(map[uint16]bool)
	sdtReasm := mts.NewSectionReassembler()
	eitReasm := map[uint16]*mts.SectionReassembler{
		psi.PIDEITSelf:  mts.NewSectionReassembler(),
		psi.PIDEITOther: mts.NewSectionReassembler(),
		psi.PIDEITExtra: mts.NewSectionReassembler(),
	}
	records := make(map[uint16]EventRecord)
	var order []uint16

	for tp := range merged {
		if tp.pid == mts.SdtPID {
			sections, err := sdtReasm.Feed(tp.pkt)
			if err != nil {
				continue
			}
			for _, sec := range sections {
				sdt, err := psi.DecodeSDT(sec)
				if err != nil {
					continue
				}
				for _, id := range sdt.ServiceIDs() {
					serviceIDs[id] = true
				}
			}
			continue
		}
		sections, err := eitReasm[tp.pid].Feed(tp.pkt)
		if err != nil {
			continue
		}
		for _, sec := range sections {
			eit, err := psi.DecodeEIT(sec)
			if err != nil {
				continue
			}
			if len(serviceIDs) > 0 && !serviceIDs[eit.ServiceID] {
				continue
			}
			for _, ev := range eit.Events {
				if _, ok := records[ev.EventID]; !ok {
					order = append(order, ev.EventID)
				}
				records[ev.EventID] = eventRecordFromDescriptors(ev)
			}
		}
	}
	<-done

	out := make([]EventRecord, 0, len(order))
	for _, id := range order {
		out = append(out, records[id])
	}
	return out, nil
}
