/*
NAME
  privatepes_test.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package arib

import (
	"bytes"
	"testing"
)

func TestParsePrivateData(t *testing.T) {
	b := []byte{SynchronizedPESStreamID, 0x00, 0x02, 0xAA, 0xBB, 'p', 'a', 'y', 'l', 'o', 'a', 'd'}
	pd, err := ParsePrivateData(b)
	if err != nil {
		t.Fatal(err)
	}
	if pd.DataIdentifier != SynchronizedPESStreamID {
		t.Fatalf("DataIdentifier = %#x, want %#x", pd.DataIdentifier, SynchronizedPESStreamID)
	}
	if !bytes.Equal(pd.PrivateDataByte, []byte{0xAA, 0xBB}) {
		t.Fatalf("PrivateDataByte = %v, want [0xAA 0xBB]", pd.PrivateDataByte)
	}
	if string(pd.Payload) != "payload" {
		t.Fatalf("Payload = %q, want %q", pd.Payload, "payload")
	}
}

func TestParsePrivateDataTruncated(t *testing.T) {
	if _, err := ParsePrivateData([]byte{0xBD, 0x00}); err == nil {
		t.Fatal("expected an error for a truncated header, got nil")
	}
}
