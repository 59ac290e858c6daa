/*
NAME
  pipeline.go

DESCRIPTION
  Pipeline wires a raw Transport Stream into the per-PID demuxer and
  runs it, generalising the error-channel idiom revid's own pipeline
  uses for its capture/encode stages to this decode-only one.

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

	"github.com/ausocean/tstools/container/mts"
	"github.com/ausocean/utils/logging"
)

// Pipeline reads a Transport Stream and demuxes it by PID for whichever
// operation (events, caption, jitter, clean) is driving it.
type Pipeline struct {
	Demux  *mts.Demuxer
	Logger logging.Logger
	err    chan error
}

// New returns a Pipeline ready to have PIDs registered on it before Run
// is called.
func New(logger logging.Logger) *Pipeline {
	return &Pipeline{
		Demux:  mts.NewDemuxer(),
		Logger: logger,
		err:    make(chan error, 16),
	}
}

// Errors returns the channel async read/decode errors are reported on.
func (p *Pipeline) Errors() <-chan error { return p.err }

// logReadErrors drains p.Errors() to log, logging each as a warning.
// Read errors are reported here rather than failing an operation
// outright, since the operation itself decides whether the error
// leaves it unable to proceed (e.g. discovery) or merely truncates the
// stream it was consuming.
func logReadErrors(p *Pipeline, log logging.Logger) {
	if log == nil {
		for range p.Errors() {
		}
		return
	}
	for err := range p.Errors() {
		log.Warning("pipeline read error", "error", err.Error())
	}
}

// Run reads r to completion, decoding and routing every packet through
// Demux. It blocks until r is exhausted or returns a non-EOF error, so
// callers that need to consume registered PID channels concurrently
// should call Run in its own goroutine.
func (p *Pipeline) Run(r io.Reader) {
	packets, readErrs := readPackets(r)
	go func() {
		for e := range readErrs {
			p.err <- e
		}
	}()
	p.Demux.Run(packets)
}
