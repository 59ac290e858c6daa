/*
NAME
  control.go

DESCRIPTION
  C0/C1 control code and escape-sequence handling: locking/single shifts,
  G-set designation, and the small set of controls that emit literal
  text (tab, newline, carriage return, space).

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

import "strings"

// handleControl dispatches the control byte at b[0] and returns how many
// bytes of b it consumed.
func (d *Decoder) handleControl(b []byte, out *strings.Builder) (int, error) {
	switch b[0] {
	case ctrlNUL, ctrlBEL, ctrlAPB, ctrlAPU, ctrlCS, ctrlCAN, ctrlRS, ctrlUS, ctrlDEL:
		return 1, nil
	case ctrlAPF:
		out.WriteByte('\t')
		return 1, nil
	case ctrlAPD:
		out.WriteByte('\n')
		return 1, nil
	case ctrlAPR:
		out.WriteByte('\r')
		return 1, nil
	case ctrlSP:
		out.WriteByte(' ')
		return 1, nil
	case ctrlPAPF:
		if len(b) < 2 {
			return 0, &MalformedShortBytesError{Context: "PAPF missing parameter byte"}
		}
		for i := byte(0); i < b[1]; i++ {
			out.WriteByte('\t')
		}
		return 2, nil
	case ctrlAPS:
		if len(b) < 3 {
			return 0, &MalformedShortBytesError{Context: "APS missing parameter bytes"}
		}
		out.WriteByte('\n')
		return 3, nil
	case ctrlLS0:
		d.gl = 0
		return 1, nil
	case ctrlLS1:
		d.gl = 1
		return 1, nil
	case ctrlSS2:
		d.singleShift = 2
		return 1, nil
	case ctrlSS3:
		d.singleShift = 3
		return 1, nil
	case ctrlESC:
		return d.handleEscape(b)
	default:
		return d.handleC1(b, out)
	}
}

// handleEscape parses the designation/locking-shift grammar that follows
// an ESC byte and returns the total number of bytes consumed, including
// the leading ESC.
func (d *Decoder) handleEscape(b []byte) (int, error) {
	if len(b) < 2 {
		return 0, &MalformedShortBytesError{Context: "ESC missing intermediate byte"}
	}
	switch b[1] {
	case escLS2:
		d.gl = 2
		return 2, nil
	case escLS3:
		d.gl = 3
		return 2, nil
	case escLS1R:
		d.grIdx = 1
		return 2, nil
	case escLS2R:
		d.grIdx = 2
		return 2, nil
	case escLS3R:
		d.grIdx = 3
		return 2, nil
	case escDRCS:
		return d.handleMultiByteDesignation(b)
	case 0x28, 0x29, 0x2A, 0x2B:
		return d.handleSingleByteDesignation(b)
	default:
		return 0, &MalformedShortBytesError{Context: "unrecognised escape intermediate"}
	}
}

// handleSingleByteDesignation parses "ESC 0x28-0x2B [0x20] F", designating
// a single-byte graphic set into G0-G3.
func (d *Decoder) handleSingleByteDesignation(b []byte) (int, error) {
	pos := int(b[1] - 0x28)
	if len(b) < 3 {
		return 0, &MalformedShortBytesError{Context: "G-set designation missing termination byte"}
	}
	if b[2] == 0x20 {
		if len(b) < 4 {
			return 0, &MalformedShortBytesError{Context: "DRCS G-set designation missing termination byte"}
		}
		cs, err := charsetFromTermination(b[3])
		if err != nil {
			return 0, err
		}
		d.g[pos] = cs
		return 4, nil
	}
	cs, err := charsetFromTermination(b[2])
	if err != nil {
		return 0, err
	}
	d.g[pos] = cs
	return 3, nil
}

// handleMultiByteDesignation parses "ESC 0x24 ...", designating a
// multi-byte graphic set. With no further intermediate the set is
// designated straight into G0; 0x29-0x2B designate G1-G3; 0x28 with a
// following 0x20 is the multi-byte DRCS form reserved for G0.
func (d *Decoder) handleMultiByteDesignation(b []byte) (int, error) {
	if len(b) < 3 {
		return 0, &MalformedShortBytesError{Context: "multi-byte designation missing intermediate byte"}
	}
	switch {
	case b[2] == 0x28:
		if len(b) < 5 || b[3] != 0x20 {
			return 0, &MalformedShortBytesError{Context: "multi-byte DRCS designation malformed"}
		}
		cs, err := charsetFromTermination(b[4])
		if err != nil {
			return 0, err
		}
		d.g[0] = cs
		return 5, nil
	case b[2] >= 0x29 && b[2] <= 0x2B:
		pos := int(b[2] - 0x28)
		if len(b) < 4 {
			return 0, &MalformedShortBytesError{Context: "multi-byte designation missing termination byte"}
		}
		if b[3] == 0x20 {
			if len(b) < 5 {
				return 0, &MalformedShortBytesError{Context: "multi-byte DRCS designation missing termination byte"}
			}
			cs, err := charsetFromTermination(b[4])
			if err != nil {
				return 0, err
			}
			d.g[pos] = cs
			return 5, nil
		}
		cs, err := charsetFromTermination(b[3])
		if err != nil {
			return 0, err
		}
		d.g[pos] = cs
		return 4, nil
	default:
		cs, err := charsetFromTermination(b[2])
		if err != nil {
			return 0, err
		}
		d.g[0] = cs
		return 3, nil
	}
}

// handleC1 dispatches the styling/timing controls in the 0x80-0x9F
// range. These never emit text; they are consumed for their side
// effects (or lack thereof, since this decoder renders plain text).
func (d *Decoder) handleC1(b []byte, out *strings.Builder) (int, error) {
	c := b[0]
	switch {
	case c >= c1ColorLo && c <= c1ColorHi:
		return 1, nil
	case c >= c1SizeLo && c <= c1SizeHi:
		return 1, nil
	case c == c1SZX, c == c1FLC, c == c1POL, c == c1WMM, c == c1HLC:
		return readOneParamByte(b)
	case c == c1COL, c == c1CDC:
		return readOneOrTwoParamBytes(b)
	case c == c1SPL:
		return 1, nil
	case c == c1MACRO:
		return 0, &UnimplementedControlError{Control: "MACRO"}
	case c == c1RPC:
		return 0, &UnimplementedControlError{Control: "RPC"}
	case c == c1STL:
		return 0, &UnimplementedControlError{Control: "STL"}
	case c == c1CSI:
		return readUntilTerminator(b)
	case c == c1TIME:
		return readTIME(b)
	default:
		return 1, nil
	}
}

func readOneParamByte(b []byte) (int, error) {
	if len(b) < 2 {
		return 0, &MalformedShortBytesError{Context: "control missing parameter byte"}
	}
	return 2, nil
}

func readOneOrTwoParamBytes(b []byte) (int, error) {
	if len(b) < 2 {
		return 0, &MalformedShortBytesError{Context: "control missing parameter byte"}
	}
	if b[1] == 0x20 {
		if len(b) < 3 {
			return 0, &MalformedShortBytesError{Context: "control missing second parameter byte"}
		}
		return 3, nil
	}
	return 2, nil
}

// readUntilTerminator consumes bytes, starting after the control byte,
// up to and including the first byte >= 0x40 (CSI's terminator rule).
func readUntilTerminator(b []byte) (int, error) {
	for i := 1; i < len(b); i++ {
		if b[i] >= 0x40 {
			return i + 1, nil
		}
	}
	return 0, &MalformedShortBytesError{Context: "control missing terminator byte"}
}

// readTIME consumes the TIME control's sub-form: 0x20 or 0x28 takes one
// more byte; 0x29 reads until a byte >= 0x40 is seen.
func readTIME(b []byte) (int, error) {
	if len(b) < 2 {
		return 0, &MalformedShortBytesError{Context: "TIME missing sub-form byte"}
	}
	switch b[1] {
	case 0x20, 0x28:
		if len(b) < 3 {
			return 0, &MalformedShortBytesError{Context: "TIME missing parameter byte"}
		}
		return 3, nil
	case 0x29:
		for i := 2; i < len(b); i++ {
			if b[i] >= 0x40 {
				return i + 1, nil
			}
		}
		return 0, &MalformedShortBytesError{Context: "TIME missing terminator byte"}
	default:
		return 0, &MalformedShortBytesError{Context: "TIME unrecognised sub-form"}
	}
}
