/*
NAME
  decoder.go

DESCRIPTION
  The ARIB STD-B24 8-bit character decoder: an ISO/IEC 2022 style state
  machine over four graphic-set registers (G0-G3), a GL/GR invocation
  pair, and the C0/C1 control codes that steer them.

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

// Control bytes and escape intermediates.
const (
	ctrlNUL  = 0x00
	ctrlBEL  = 0x07
	ctrlAPB  = 0x08
	ctrlAPF  = 0x09
	ctrlAPD  = 0x0A
	ctrlAPU  = 0x0B
	ctrlCS   = 0x0C
	ctrlAPR  = 0x0D
	ctrlLS1  = 0x0E
	ctrlLS0  = 0x0F
	ctrlPAPF = 0x16
	ctrlSS2  = 0x19
	ctrlESC  = 0x1B
	ctrlAPS  = 0x1C
	ctrlCAN  = 0x18
	ctrlSS3  = 0x1D
	ctrlRS   = 0x1E
	ctrlUS   = 0x1F
	ctrlSP   = 0x20
	ctrlDEL  = 0x7F

	escLS2  = 0x6E
	escLS3  = 0x6F
	escLS1R = 0x7E
	escLS2R = 0x7D
	escLS3R = 0x7C
	escDRCS = 0x24 // multi-byte / DRCS designation prefix
)

// C1 controls: mostly text styling; they live in the 0x80-0x9F range.
const (
	c1ColorLo = 0x80
	c1ColorHi = 0x87
	c1SizeLo  = 0x88
	c1SizeHi  = 0x8A
	c1SZX     = 0x8B
	c1COL     = 0x90
	c1FLC     = 0x91
	c1CDC     = 0x92
	c1POL     = 0x93
	c1WMM     = 0x94
	c1MACRO   = 0x95
	c1HLC     = 0x97
	c1RPC     = 0x98
	c1SPL     = 0x99
	c1STL     = 0x9A
	c1CSI     = 0x9B
	c1TIME    = 0x9D
)

// DRCSLookup resolves a DRCS character, given its set number and
// character code, to its operator-supplied Unicode replacement. Decoder.WithDRCS wires one in; without it, DRCS
// characters surface as UnimplementedCharsetError.
type DRCSLookup interface {
	Lookup(setNumber uint8, code uint16) (string, bool)
}

// Decoder turns an ARIB STD-B24 byte stream into text. It is not safe
// for concurrent use; a caption stream and an event (EIT descriptor)
// stream each need their own Decoder, built with NewCaptionDecoder and
// NewEventDecoder respectively, since the two contexts designate
// different default graphic sets.
type Decoder struct {
	g           [4]Charset
	gl, grIdx   int
	singleShift int // index into g, or -1 when no single-shift is pending
	drcs        DRCSLookup
	onSkip      func(err error)
}

// Option configures a Decoder at construction time.
type Option func(*Decoder)

// WithDRCS wires a DRCS fingerprint-to-replacement lookup into the
// decoder, letting DRCS(n) characters resolve to real text.
func WithDRCS(l DRCSLookup) Option { return func(d *Decoder) { d.drcs = l } }

// WithSkipLogger installs a callback invoked whenever the decoder
// recovers from an unknown code point by skipping it rather than
// failing the whole decode (mirrors the upstream library's
// log-and-continue behaviour for Symbol charset misses).
func WithSkipLogger(f func(err error)) Option { return func(d *Decoder) { d.onSkip = f } }

// NewCaptionDecoder returns a Decoder initialised the way a caption
// (stream_type 0x06 private-stream) body starts: G0 Kanji, G1 Alnum,
// G2 Hiragana, G3 Macro, GL invoking G0, GR invoking G2.
func NewCaptionDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		g:           [4]Charset{Kanji, Alnum, Hiragana, Macro},
		gl:          0,
		grIdx:       2,
		singleShift: -1,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// NewEventDecoder returns a Decoder initialised the way short/extended
// event descriptor text starts: G0 JISGokanKanji1, G1 Alnum, G2
// Hiragana, G3 Katakana, GL invoking G0, GR invoking G2.
func NewEventDecoder(opts ...Option) *Decoder {
	d := &Decoder{
		g:           [4]Charset{JISGokanKanji1, Alnum, Hiragana, Katakana},
		gl:          0,
		grIdx:       2,
		singleShift: -1,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Decode consumes b in its entirety and returns the text it renders to.
// A charset or control sequence error aborts decoding and returns
// whatever text had already been produced.
func (d *Decoder) Decode(b []byte) (string, error) {
	var out strings.Builder
	for i := 0; i < len(b); {
		c := b[i]
		if isControlByte(c) {
			n, err := d.handleControl(b[i:], &out)
			if err != nil {
				return out.String(), err
			}
			i += n
			continue
		}
		reg := d.grIdx
		high := c >= 0x80
		if !high {
			reg = d.glReg()
		}
		cs := d.g[reg]
		consumed, err := d.decodeGraphic(cs, b[i:], high, &out)
		if err != nil {
			if _, unknown := err.(*UnknownCodepointError); unknown && d.onSkip != nil {
				d.onSkip(err)
				if consumed == 0 {
					consumed = charsetWidth(cs)
				}
				i += consumed
				continue
			}
			return out.String(), err
		}
		i += consumed
	}
	return out.String(), nil
}

// glReg resolves the register a GL-range byte decodes through, applying
// and clearing any pending single shift.
func (d *Decoder) glReg() int {
	if d.singleShift >= 0 {
		r := d.singleShift
		d.singleShift = -1
		return r
	}
	return d.gl
}

// isControlByte classifies b as a C0/C1 control byte: true when its low
// seven bits are <= 0x20 or equal 0x7F.
func isControlByte(b byte) bool {
	low := b & 0x7F
	return low <= 0x20 || low == 0x7F
}
