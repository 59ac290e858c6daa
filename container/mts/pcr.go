/*
NAME
  pcr.go

DESCRIPTION
  Program Clock Reference extraction from a packet's adaptation field,
  delegated to the gots packet helpers.

AUTHORS
  Saxon A. Nelson-Milton <saxon.milton@gmail.com>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mts

import (
	"github.com/Comcast/gots/packet"
	"github.com/pkg/errors"
)

// PCR returns the Program Clock Reference carried in raw's adaptation
// field, if any. raw must be a full PacketSize-byte Transport Stream
// packet (the same bytes Decode was given). None of the pipeline
// operations, Clean included, call it.
func PCR(raw []byte) (pcr uint64, ok bool, err error) {
	if len(raw) < PacketSize {
		return 0, false, ErrShortPacket
	}
	p := packet.Packet(raw)
	has, err := packet.ContainsPcr(p)
	if err != nil {
		return 0, false, errors.Wrap(err, "mts: checking for pcr")
	}
	if !has {
		return 0, false, nil
	}
	pcr, err = packet.PCR(p)
	if err != nil {
		return 0, false, errors.Wrap(err, "mts: reading pcr")
	}
	return pcr, true, nil
}
