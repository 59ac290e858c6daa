/*
NAME
  pts.go

DESCRIPTION
  Locating presentation timestamps on elementary-stream PID channels:
  the first PTS of any kind, and the first PTS belonging to an
  I-picture (MPEG-2 video only).

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
	"github.com/ausocean/tstools/container/mts/pes"
)

// isIPicture reports whether an MPEG-2 video elementary-stream payload's
// first picture-start code (00 00 01 00) carries picture_coding_type 1.
func isIPicture(b []byte) bool {
	for i := 0; i+4 <= len(b); i++ {
		if b[i] == 0x00 && b[i+1] == 0x00 && b[i+2] == 0x01 && b[i+3] == 0x00 {
			if i+6 > len(b) {
				return false
			}
			return (b[i+5]>>3)&0x7 == 1
		}
	}
	return false
}

// firstPTS returns the PTS of the first PES packet on ch that carries
// one.
func firstPTS(ch <-chan *mts.Packet) (uint64, error) {
	r := mts.NewPESReassembler()
	for pkt := range ch {
		data, err := r.Feed(pkt)
		if err != nil || data == nil {
			continue
		}
		p, err := pes.Decode(data)
		if err != nil || !p.HasPTS {
			continue
		}
		return p.PTS, nil
	}
	return 0, errors.New("pipeline: no PTS found before end of stream")
}

// firstIPicturePTS returns the PTS of the first I-picture on a video
// elementary-stream PID channel.
func firstIPicturePTS(ch <-chan *mts.Packet) (uint64, error) {
	r := mts.NewPESReassembler()
	for pkt := range ch {
		data, err := r.Feed(pkt)
		if err != nil || data == nil {
			continue
		}
		p, err := pes.Decode(data)
		if err != nil || !p.HasPTS {
			continue
		}
		if isIPicture(p.Data) {
			return p.PTS, nil
		}
	}
	return 0, errors.New("pipeline: no I-picture found before end of stream")
}
