/*
NAME
  caption.go

DESCRIPTION
  Closed-caption extraction: reassembles the caption PID's PES stream,
  unwraps the ARIB private-data framing, decodes each DataGroup's data
  units, feeding DRCS1/DRCS2 definitions to a drcs.Processor and Text
  units through a fresh ARIB caption decoder, and emits timed caption
  lines.

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

	"github.com/pkg/errors"

	"github.com/ausocean/tstools/container/mts"
	"github.com/ausocean/tstools/container/mts/arib"
	"github.com/ausocean/tstools/container/mts/drcs"
	"github.com/ausocean/tstools/container/mts/pes"
	"github.com/ausocean/utils/logging"
)

// Caption is one decoded, timed caption line.
type Caption struct {
	TimeSec int64
	TimeMs  int64
	Text    string
}

// setNumberForCode recovers the DRCS set number (0-15) a character code
// was assigned under, from the code's own encoding: DRCS(n) for n>0
// encodes the set number into the code's high byte as 0x40+n (see
// arib.Decoder's DRCS graphic decode), so a DRCS data unit's character
// codes carry that same convention whether or not the set has yet been
// referenced by name in the text stream.
func setNumberForCode(code uint16) uint8 {
	top := byte(code >> 8)
	if top >= 0x40 && top <= 0x4F {
		return top - 0x40
	}
	return 0
}

// bindDRCSDataUnit parses a DRCS1/DRCS2 data unit and binds every code's
// first font variant into proc, ready for the caption decoder's next
// Text unit to resolve against.
func bindDRCSDataUnit(data []byte, proc *drcs.Processor) error {
	ds, err := arib.ParseDRCSDataStructure(data)
	if err != nil {
		return err
	}
	for _, code := range ds.Codes {
		if len(code.Fonts) == 0 {
			continue
		}
		f := code.Fonts[0]
		proc.Bind(setNumberForCode(code.CharacterCode), code.CharacterCode, f.Width, f.Height, f.PatternData)
	}
	return nil
}

// Captions runs the PAT/PMT discovery prefix, then streams decoded
// caption lines on the returned channel until r is exhausted or a fatal
// error occurs (reported on the error channel before the caption channel
// closes). proc's Policy governs what happens on a DRCS glyph with no
// registered replacement: under any policy other than PolicyIgnore it is
// such a fatal error. Replacements should already be loaded into proc
// before Captions is called.
func Captions(r io.Reader, log logging.Logger, programIndex int, proc *drcs.Processor) (<-chan Caption, <-chan error) {
	out := make(chan Caption, 1)
	errc := make(chan error, 1)

	go func() {
		defer close(out)

		p := New(log)
		disc := NewDiscoverer(p)
		go p.Run(r)
		go logReadErrors(p, log)

		meta, _, err := disc.Discover(programIndex)
		if err != nil {
			errc <- errors.Wrap(err, "pipeline: caption discovery")
			return
		}
		if !meta.Complete() {
			errc <- errors.New("pipeline: caption requires audio, video and caption PIDs all present")
			return
		}

		videoCh, unregVideo := p.Demux.Register(meta.VideoPID)
		captionCh, unregCaption := p.Demux.Register(meta.CaptionPID)
		defer unregCaption()

		// Hunt the base PTS on its own goroutine and unregister video as
		// soon as it's found. Draining videoCh to completion before
		// touching captionCh (or vice versa) would leave the demuxer's
		// single dispatch loop blocked sending into whichever capacity-1
		// sink nobody is reading, stalling both PIDs.
		type baseResult struct {
			pts uint64
			err error
		}
		baseCh := make(chan baseResult, 1)
		go func() {
			defer unregVideo()
			pts, err := firstIPicturePTS(videoCh)
			baseCh <- baseResult{pts, err}
		}()

		// Caption PES packets can arrive well before the base PTS is
		// known, so they're reassembled and held here instead of piling
		// up behind captionCh's capacity-1 sink while the video hunt
		// above is still running.
		reasm := mts.NewPESReassembler()
		var (
			backlog []*pes.Packet
			basePTS uint64
			baseErr error
		)
	collectBase:
		for {
			select {
			case res := <-baseCh:
				basePTS, baseErr = res.pts, res.err
				break collectBase
			case pkt, ok := <-captionCh:
				if !ok {
					baseErr = errors.New("pipeline: caption stream ended before base PTS was found")
					break collectBase
				}
				data, err := reasm.Feed(pkt)
				if err != nil || data == nil {
					continue
				}
				pesPkt, err := pes.Decode(data)
				if err != nil || !pesPkt.HasPTS {
					continue
				}
				backlog = append(backlog, pesPkt)
			}
		}
		if baseErr != nil {
			errc <- errors.Wrap(baseErr, "pipeline: caption base PTS")
			return
		}

		emit := func(pesPkt *pes.Packet) (stop bool) {
			if pesPkt.PTS < basePTS {
				return false
			}

			priv, err := arib.ParsePrivateData(pesPkt.Data)
			if err != nil {
				return false
			}
			dg, err := arib.ParseDataGroup(priv.Payload)
			if err != nil || dg.Data.CaptionData == nil {
				return false
			}

			offset := pesPkt.PTS - basePTS
			timeSec := int64(offset / PTSClockHz)
			timeMs := int64(offset%uint64(PTSClockHz)) * 1000 / int64(PTSClockHz)

			for _, du := range dg.Data.CaptionData.DataUnits {
				switch du.DataUnitParameter {
				case arib.DataUnitText:
					dec := arib.NewCaptionDecoder(arib.WithDRCS(proc))
					text, err := dec.Decode(du.Data)
					if err != nil {
						if _, unresolved := err.(*arib.UnknownCodepointError); unresolved && proc.Policy() != drcs.PolicyIgnore {
							errc <- errors.Wrap(err, "pipeline: caption: unresolved DRCS glyph")
							return true
						}
						continue
					}
					out <- Caption{TimeSec: timeSec, TimeMs: timeMs, Text: text}
				case arib.DataUnitDRCS1, arib.DataUnitDRCS2:
					_ = bindDRCSDataUnit(du.Data, proc) // malformed DRCS definitions just leave prior bindings in place
				}
			}
			return false
		}

		for _, pesPkt := range backlog {
			if emit(pesPkt) {
				return
			}
		}
		for pkt := range captionCh {
			data, err := reasm.Feed(pkt)
			if err != nil || data == nil {
				continue
			}
			pesPkt, err := pes.Decode(data)
			if err != nil || !pesPkt.HasPTS {
				continue
			}
			if emit(pesPkt) {
				return
			}
		}
	}()

	return out, errc
}
