/*
NAME
  jitter.go

DESCRIPTION
  Audio/video presentation-timestamp jitter measurement: the offset
  between the first video I-picture's PTS and the first audio PTS.

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

	"github.com/ausocean/utils/logging"
)

// PTSClockHz is the 90kHz clock every PTS/DTS value in a Transport
// Stream is expressed against.
const PTSClockHz = 90000.0

// Jitter runs the PAT/PMT discovery prefix, then reports the A/V jitter
// for the selected program: (video I-picture PTS - audio PTS) / 90000
// seconds. It requires the program's PMT to list audio, video and
// caption streams (the same completeness requirement the caption
// operation has), per the shared discovery contract.
func Jitter(r io.Reader, log logging.Logger, programIndex int) (float64, error) {
	p := New(log)
	disc := NewDiscoverer(p)
	go p.Run(r)
	go logReadErrors(p, log)

	meta, _, err := disc.Discover(programIndex)
	if err != nil {
		return 0, errors.Wrap(err, "pipeline: jitter discovery")
	}
	if !meta.Complete() {
		return 0, errors.New("pipeline: jitter requires audio, video and caption PIDs all present")
	}

	videoCh, unregVideo := p.Demux.Register(meta.VideoPID)
	audioCh, unregAudio := p.Demux.Register(meta.AudioPID)

	// Hunt both PIDs concurrently and unregister each as soon as its hunt
	// finishes. Draining one channel to completion before starting the
	// other would stall the demuxer's single dispatch loop against the
	// other PID's full (capacity 1) sink once it fills up.
	type ptsResult struct {
		pts uint64
		err error
	}
	videoResult := make(chan ptsResult, 1)
	audioResult := make(chan ptsResult, 1)
	go func() {
		defer unregVideo()
		pts, err := firstIPicturePTS(videoCh)
		videoResult <- ptsResult{pts, err}
	}()
	go func() {
		defer unregAudio()
		pts, err := firstPTS(audioCh)
		audioResult <- ptsResult{pts, err}
	}()

	video := <-videoResult
	if video.err != nil {
		return 0, errors.Wrap(video.err, "pipeline: jitter video PTS")
	}
	audio := <-audioResult
	if audio.err != nil {
		return 0, errors.Wrap(audio.err, "pipeline: jitter audio PTS")
	}

	return float64(int64(video.pts)-int64(audio.pts)) / PTSClockHz, nil
}
