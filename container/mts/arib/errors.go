/*
NAME
  errors.go

DESCRIPTION
  Error taxonomy for the ARIB character decoder.

AUTHOR
  Saxon Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package arib decodes ARIB STD-B24 8-bit Japanese broadcast text and
// DataGroup/caption structures.
package arib

import "fmt"

// MalformedShortBytesError is returned when an escape sequence or a
// multi-byte character runs out of input before it is complete.
type MalformedShortBytesError struct{ Context string }

func (e *MalformedShortBytesError) Error() string {
	return fmt.Sprintf("arib: malformed short bytes: %s", e.Context)
}

// UnimplementedCharsetError is returned for charsets the decoder
// recognises but does not decode (Mosaic A-D, DRCS without a loaded map).
type UnimplementedCharsetError struct{ Charset string }

func (e *UnimplementedCharsetError) Error() string {
	return fmt.Sprintf("arib: unimplemented charset: %s", e.Charset)
}

// UnimplementedControlError is returned for C1 controls whose parsing this
// decoder does not implement (MACRO, RPC, STL).
type UnimplementedControlError struct{ Control string }

func (e *UnimplementedControlError) Error() string {
	return fmt.Sprintf("arib: unimplemented control: %s", e.Control)
}

// UnknownCodepointError is returned when a code point is well-formed but
// absent from the charset's mapping table.
type UnknownCodepointError struct {
	Code    uint32
	Charset string
}

func (e *UnknownCodepointError) Error() string {
	return fmt.Sprintf("arib: unknown code point %#x in charset %s", e.Code, e.Charset)
}
