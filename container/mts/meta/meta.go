/*
NAME
  meta.go

DESCRIPTION
  Meta is the PAT/PMT discovery result shared by every pipeline operation:
  the audio, video and caption elementary stream PIDs for the program
  being processed.

AUTHOR
  Saxon Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package meta holds the stream-discovery result produced by scanning a
// program's PMT.
package meta

import "github.com/ausocean/tstools/container/mts/psi"

// Data is the PID assignment discovered from a single PMT: which
// elementary streams carry audio, video and captions.
type Data struct {
	AudioPID   uint16
	VideoPID   uint16
	CaptionPID uint16
	hasAudio   bool
	hasVideo   bool
	hasCaption bool
}

// FromPMT derives Data from a decoded PMT: 0x02 is video, 0x0F is audio,
// and 0x06 is a caption stream only when it carries a Stream-Identifier
// descriptor with component_tag in [0x30, 0x3F].
func FromPMT(pmt *psi.PMT) Data {
	var d Data
	for _, s := range pmt.Streams {
		switch {
		case s.StreamType == psi.StreamTypeMPEG2Video:
			d.VideoPID, d.hasVideo = s.ElementaryPID, true
		case s.StreamType == psi.StreamTypeADTSAudio:
			d.AudioPID, d.hasAudio = s.ElementaryPID, true
		case s.IsCaption():
			d.CaptionPID, d.hasCaption = s.ElementaryPID, true
		}
	}
	return d
}

// HasAudio reports whether an audio PID was discovered.
func (d Data) HasAudio() bool { return d.hasAudio }

// HasVideo reports whether a video PID was discovered.
func (d Data) HasVideo() bool { return d.hasVideo }

// HasCaption reports whether a caption PID was discovered.
func (d Data) HasCaption() bool { return d.hasCaption }

// Complete reports whether audio, video and caption PIDs were all
// discovered, the precondition the caption and jitter operations require
// before they may proceed.
func (d Data) Complete() bool { return d.hasAudio && d.hasVideo && d.hasCaption }
