/*
NAME
  discover.go

DESCRIPTION
  PAT -> PMT discovery: find the program to process and the elementary
  stream PIDs it carries, before any of the four operations can start.

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
	"github.com/pkg/errors"

	"github.com/ausocean/tstools/container/mts"
	"github.com/ausocean/tstools/container/mts/meta"
	"github.com/ausocean/tstools/container/mts/psi"
)

// ErrNoProgram is returned when a PAT carries no non-network program.
var ErrNoProgram = errors.New("pipeline: PAT carries no program")

// readSection reads packets from ch, feeding a SectionReassembler,
// until a complete section emerges, then returns it. It returns an
// error if ch closes first.
func readSection(ch <-chan *mts.Packet) ([]byte, error) {
	r := mts.NewSectionReassembler()
	for pkt := range ch {
		sections, err := r.Feed(pkt)
		if err != nil {
			continue // a discontinuity mid-discovery just means retry on the next section.
		}
		if len(sections) > 0 {
			return sections[0], nil
		}
	}
	return nil, errors.New("pipeline: channel closed before a complete section arrived")
}

// discoverPAT reads packets from the PAT PID channel until a complete,
// valid PAT section arrives.
func discoverPAT(ch <-chan *mts.Packet) (*psi.PAT, error) {
	section, err := readSection(ch)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline: discovering PAT")
	}
	pat, err := psi.DecodePAT(section)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline: decoding PAT")
	}
	return pat, nil
}

// discoverPMT reads packets from a program's PMT PID channel until a
// complete, valid PMT section arrives.
func discoverPMT(ch <-chan *mts.Packet) (*psi.PMT, error) {
	section, err := readSection(ch)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline: discovering PMT")
	}
	pmt, err := psi.DecodePMT(section)
	if err != nil {
		return nil, errors.Wrap(err, "pipeline: decoding PMT")
	}
	return pmt, nil
}

// Discoverer drives PAT -> PMT discovery. Its PAT PID channel is
// registered at construction time, so NewDiscoverer must be called
// before Pipeline.Run starts reading the stream: a PAT packet routed
// before its sink exists is silently dropped by the demuxer, and a
// capture's PAT section may begin in the very first packets.
type Discoverer struct {
	p        *Pipeline
	patCh    <-chan *mts.Packet
	unregPAT func()
}

// NewDiscoverer registers the PAT PID on p.Demux. Call it before
// p.Run.
func NewDiscoverer(p *Pipeline) *Discoverer {
	patCh, unreg := p.Demux.Register(mts.PatPID)
	return &Discoverer{p: p, patCh: patCh, unregPAT: unreg}
}

// Discover waits for a PAT, then registers and waits for the PMT of the
// programIndex'th program listed (0 selects the first program, which
// is what every operation's default flag value means). It returns the
// discovered PMT's elementary stream roles alongside the decoded PMT
// itself. The PMT PID channel is unregistered when Discover returns;
// the caption/jitter/events operations register their own
// elementary-stream channels separately. A PMT packet that arrives
// between the PAT decoding and the PMT PID being registered is missed;
// since broadcast PMTs repeat roughly every 100ms this only costs a
// fraction of a second at the very start of a continuous capture.
func (d *Discoverer) Discover(programIndex int) (meta.Data, *psi.PMT, error) {
	defer d.unregPAT()

	pat, err := discoverPAT(d.patCh)
	if err != nil {
		return meta.Data{}, nil, err
	}

	pmtPIDs := pat.PMTPIDs()
	if len(pmtPIDs) == 0 {
		return meta.Data{}, nil, ErrNoProgram
	}
	if programIndex < 0 || programIndex >= len(pmtPIDs) {
		return meta.Data{}, nil, errors.Errorf("pipeline: program index %d out of range (PAT lists %d programs)", programIndex, len(pmtPIDs))
	}

	pmtCh, unregPMT := d.p.Demux.Register(pmtPIDs[programIndex])
	defer unregPMT()

	pmt, err := discoverPMT(pmtCh)
	if err != nil {
		return meta.Data{}, nil, err
	}

	return meta.FromPMT(pmt), pmt, nil
}
