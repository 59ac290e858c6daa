/*
NAME
  jitter_test.go

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

	"github.com/ausocean/tstools/container/mts/psi"
)

// buildPMTWithCaptionPacket extends buildPMTPacket's video/audio streams
// with a PES-private caption stream carrying a Stream-Identifier
// descriptor, the shape meta.FromPMT requires to mark a program complete.
func buildPMTWithCaptionPacket(pmtPID, videoPID, audioPID, captionPID uint16) []byte {
	streamIdentifier := []byte{psi.TagStreamIdentifer, 0x01, 0x30}
	body := []byte{0xE1, 0x00, 0x00, 0x00} // pcr_pid=0x0100, no program descriptors
	body = append(body, psi.StreamTypeMPEG2Video, 0xE0|byte(videoPID>>8), byte(videoPID), 0x00, 0x00)
	body = append(body, psi.StreamTypeADTSAudio, 0xE0|byte(audioPID>>8), byte(audioPID), 0x00, 0x00)
	body = append(body, psi.StreamTypePESPrivate, 0xE0|byte(captionPID>>8), byte(captionPID),
		0x00|byte(len(streamIdentifier)>>8), byte(len(streamIdentifier)))
	body = append(body, streamIdentifier...)
	return buildPacket(pmtPID, buildSection(psi.TableIDPMT, 1, body))
}

func TestJitter(t *testing.T) {
	const pmtPID, videoPID, audioPID, captionPID = 0x0100, 0x0200, 0x0201, 0x0202
	const videoPTS, audioPTS = 180000, 90000

	var buf bytes.Buffer
	buf.Write(buildPATPacket(1, pmtPID))
	for i := 0; i < 3; i++ {
		buf.Write(buildPMTWithCaptionPacket(pmtPID, videoPID, audioPID, captionPID))
	}

	iPicture := buildPESPacket(0xE0, videoPTS, []byte{0x00, 0x00, 0x01, 0x00, 0x00, 0x08})
	buf.Write(buildPESTSPacket(videoPID, 0, true, iPicture))
	buf.Write(buildPESTSPacket(videoPID, 1, true, nil))

	audio := buildPESPacket(0xC0, audioPTS, []byte("audio-frame"))
	buf.Write(buildPESTSPacket(audioPID, 0, true, audio))
	buf.Write(buildPESTSPacket(audioPID, 1, true, nil))

	jitter, err := Jitter(&buf, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := float64(videoPTS-audioPTS) / PTSClockHz
	if jitter != want {
		t.Fatalf("Jitter() = %v, want %v", jitter, want)
	}
}

func TestJitterRequiresCompleteProgram(t *testing.T) {
	const pmtPID, videoPID = 0x0100, 0x0200
	streams := []psi.StreamInfo{{StreamType: psi.StreamTypeMPEG2Video, ElementaryPID: videoPID}}

	var buf bytes.Buffer
	buf.Write(buildPATPacket(1, pmtPID))
	for i := 0; i < 3; i++ {
		buf.Write(buildPMTPacket(pmtPID, streams))
	}

	if _, err := Jitter(&buf, nil, 0); err == nil {
		t.Fatal("expected an error when the program has no audio/caption PID")
	}
}
