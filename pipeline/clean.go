/*
NAME
  clean.go

DESCRIPTION
  The "clean" operation: rewrites the PAT to list only a chosen
  program, drops every packet outside that program's keep-set, and
  passes everything else through byte-for-byte. Operates on the raw
  packet stream directly via a stream.Cueable rather than through the
  per-PID Demuxer, since it must see every PID, not just ones it
  subscribes to.

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
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/ausocean/tstools/container/mts"
	"github.com/ausocean/tstools/container/mts/psi"
	"github.com/ausocean/tstools/container/mts/stream"
	"github.com/ausocean/utils/logging"
)

// keepSet derives the set of PIDs the clean operation passes through
// unfiltered: the PAT's network_PID, the selected program's PMT PID,
// and (unless the program carries H.264, the upstream quirk this
// operation deliberately preserves) its PCR and elementary PIDs.
func keepSet(pat *psi.PAT, pmtPID uint16, pmt *psi.PMT) map[uint16]bool {
	keep := map[uint16]bool{pmtPID: true}
	if nid, ok := pat.NetworkPID(); ok {
		keep[nid] = true
	}
	if pmt.HasH264() {
		return keep
	}
	keep[pmt.PCRPID] = true
	for _, s := range pmt.Streams {
		keep[s.ElementaryPID] = true
	}
	return keep
}

// rewritePATPacket rewrites a single-packet PAT to list only the
// programs named by keep (program_number 0 entries, i.e. network_PID
// rows, always survive), recomputing section_length and the CRC-32
// trailer, and zero-padding the remainder of the packet.
func rewritePATPacket(pkt *mts.Packet, keep map[uint16]bool) ([]byte, error) {
	if pkt.Payload == nil {
		return nil, errors.New("pipeline: PAT packet carries no payload")
	}
	payloadOffset := mts.PacketSize - len(pkt.Payload)
	pointer := int(pkt.Payload[0])
	sectionOffset := payloadOffset + 1 + pointer
	if sectionOffset+8 > mts.PacketSize {
		return nil, errors.New("pipeline: PAT section header does not fit in one packet")
	}
	section := pkt.Raw[sectionOffset:]

	oldSectionLength := (int(section[1]&0x0F) << 8) | int(section[2])
	if 3+oldSectionLength > len(section) {
		return nil, errors.New("pipeline: PAT section_length exceeds packet, multi-packet PATs are not supported")
	}
	body := section[8 : 3+oldSectionLength-4]

	var newBody []byte
	for i := 0; i+4 <= len(body); i += 4 {
		programNumber := binary.BigEndian.Uint16(body[i : i+2])
		pid := binary.BigEndian.Uint16(body[i+2:i+4]) & 0x1FFF
		if programNumber == 0 || keep[pid] {
			newBody = append(newBody, body[i:i+4]...)
		}
	}

	newSectionLength := 5 + len(newBody) + 4
	newSection := make([]byte, 0, 3+newSectionLength)
	newSection = append(newSection, section[0])
	lengthField := (uint16(section[1]) & 0xF0) | uint16(newSectionLength>>8)&0x0F
	newSection = append(newSection, byte(lengthField), byte(newSectionLength))
	newSection = append(newSection, section[3:8]...)
	newSection = append(newSection, newBody...)
	newSection = psi.AddCRC(newSection)

	out := make([]byte, mts.PacketSize)
	copy(out, pkt.Raw)
	n := copy(out[sectionOffset:], newSection)
	for i := sectionOffset + n; i < mts.PacketSize; i++ {
		out[i] = 0
	}
	return out, nil
}

// Clean runs the PAT/PMT discovery prefix over a Cueable so every
// packet it consumes while discovering is available to replay, then
// writes the filtered, PAT-rewritten stream to w: packets outside the
// keep-set are dropped, the PAT is rewritten in place, everything else
// passes through byte-for-byte.
func Clean(r io.Reader, w io.Writer, log logging.Logger, programIndex int) error {
	packets, readErrs := readPackets(r)
	cueable := stream.NewCueable(packets)

	patReasm := mts.NewSectionReassembler()
	var pat *psi.PAT
	for pat == nil {
		pkt, ok := cueable.Next()
		if !ok {
			return firstErr(readErrs, errors.New("pipeline: clean: no PAT found before end of stream"))
		}
		if pkt.PID != mts.PatPID {
			continue
		}
		sections, err := patReasm.Feed(pkt)
		if err != nil || len(sections) == 0 {
			continue
		}
		decoded, err := psi.DecodePAT(sections[0])
		if err != nil {
			if log != nil {
				log.Warning("pipeline: clean: malformed PAT section", "error", err.Error())
			}
			continue
		}
		pat = decoded
	}

	pmtPIDs := pat.PMTPIDs()
	if len(pmtPIDs) == 0 {
		return ErrNoProgram
	}
	if programIndex < 0 || programIndex >= len(pmtPIDs) {
		return errors.Errorf("pipeline: clean: program index %d out of range (PAT lists %d programs)", programIndex, len(pmtPIDs))
	}
	pmtPID := pmtPIDs[programIndex]

	pmtReasm := mts.NewSectionReassembler()
	var pmt *psi.PMT
	for pmt == nil {
		pkt, ok := cueable.Next()
		if !ok {
			return firstErr(readErrs, errors.New("pipeline: clean: no PMT found before end of stream"))
		}
		if pkt.PID != pmtPID {
			continue
		}
		sections, err := pmtReasm.Feed(pkt)
		if err != nil || len(sections) == 0 {
			continue
		}
		decoded, err := psi.DecodePMT(sections[0])
		if err != nil {
			continue
		}
		pmt = decoded
	}

	keep := keepSet(pat, pmtPID, pmt)
	cued := cueable.Cue()

	for {
		pkt, ok := cued.Next()
		if !ok {
			return firstErr(readErrs, nil)
		}
		if pkt.PID == mts.PatPID {
			rewritten, err := rewritePATPacket(pkt, keep)
			if err != nil {
				return errors.Wrap(err, "pipeline: clean: rewriting PAT")
			}
			if _, err := w.Write(rewritten); err != nil {
				return errors.Wrap(err, "pipeline: clean: writing output")
			}
			continue
		}
		if !keep[pkt.PID] {
			continue
		}
		if _, err := w.Write(pkt.Raw); err != nil {
			return errors.Wrap(err, "pipeline: clean: writing output")
		}
	}
}

// firstErr drains errc without blocking and returns its first error, or
// fallback if errc yielded nothing.
func firstErr(errc <-chan error, fallback error) error {
	select {
	case err := <-errc:
		if err != nil {
			return err
		}
	default:
	}
	return fallback
}
