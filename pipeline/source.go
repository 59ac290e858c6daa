/*
NAME
  source.go

DESCRIPTION
  Reads a raw Transport Stream, byte-aligned into PacketSize chunks,
  into decoded packets ready for demuxing.

AUTHOR
  Saxon Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pipeline wires the mts/psi/pes/arib decoders together into
// the four operations the tstools CLI exposes: events, caption, jitter
// and clean.
package pipeline

import (
	"io"

	"github.com/ausocean/tstools/container/mts"
)

// readPackets reads r PacketSize bytes at a time, decoding each into an
// *mts.Packet (which retains the raw bytes via its Raw field, needed by
// the clean operation to rewrite a packet in place). It stops and
// closes out on EOF; any other read or decode error is sent to errc
// (capacity 1) before out closes. A bad sync byte is treated as fatal
// rather than attempting mts.Resync, since a well-formed capture should
// never need it.
func readPackets(r io.Reader) (<-chan *mts.Packet, <-chan error) {
	out := make(chan *mts.Packet, 1)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		for {
			buf := make([]byte, mts.PacketSize)
			_, err := io.ReadFull(r, buf)
			if err == io.EOF {
				return
			}
			if err != nil {
				errc <- err
				return
			}
			pkt, err := mts.Decode(buf)
			if err != nil {
				errc <- err
				return
			}
			out <- pkt
		}
	}()
	return out, errc
}
