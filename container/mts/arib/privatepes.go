/*
NAME
  privatepes.go

DESCRIPTION
  The ARIB private-data wrapper carried inside a PES packet's payload:
  a one-byte data_identifier/private_stream_id pair, a length-prefixed
  private-data header, then the caption DataGroup bytes proper.

AUTHOR
  Saxon Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package arib

// Stream IDs identifying which private-data framing a PES packet's
// payload carries.
const (
	SynchronizedPESStreamID = 0xBD
	AsynchronousPESStreamID = 0xBF
)

// PrivateData is the common shape of both the synchronized and
// asynchronous ARIB private-data PES wrappers: a data_identifier and
// private_stream_id, an opaque private-data header, and the payload
// bytes that follow it (a caption or superimposition DataGroup).
type PrivateData struct {
	DataIdentifier  uint8
	PrivateStreamID uint8
	PrivateDataByte []byte
	Payload         []byte
}

// ParsePrivateData parses the ARIB private-data wrapper common to both
// stream IDs: a 2-byte identifier pair, a 4-bit header length in the low
// nibble of the third byte, that many header bytes, then the payload.
func ParsePrivateData(b []byte) (*PrivateData, error) {
	if len(b) < 3 {
		return nil, &MalformedShortBytesError{Context: "ARIB private-data header truncated"}
	}
	headerLen := int(b[2] & 0x0F)
	if len(b) < 3+headerLen {
		return nil, &MalformedShortBytesError{Context: "ARIB private-data header length exceeds packet"}
	}
	return &PrivateData{
		DataIdentifier:  b[0],
		PrivateStreamID: b[1],
		PrivateDataByte: b[3 : 3+headerLen],
		Payload:         b[3+headerLen:],
	}, nil
}
