/*
NAME
  processor.go

DESCRIPTION
  DRCS glyph resolution: binds the character codes a caption stream's
  DRCS1/DRCS2 data units assign to their current glyph patterns, then
  resolves a pattern to operator-supplied replacement text via an
  opaque 128-bit fingerprint.

AUTHOR
  Saxon Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package drcs resolves ARIB Downloadable Re-definable Character Set
// glyphs to operator-supplied Unicode replacement text. TR-B14
// broadcasts never repeat a glyph bitmap for two different meanings, so
// a fingerprint of the glyph's pixel pattern (not its transient
// character code, which a broadcaster can and does reassign mid-stream)
// is the stable key operators map replacements against.
package drcs

import (
	"crypto/md5"
	"fmt"
	"sync"

	"github.com/ausocean/tstools/container/mts/arib"
)

// Fingerprint is the opaque 128-bit identity of a DRCS glyph bitmap.
// MD5 is used purely as a collision-resistant black box here, not for
// any cryptographic property; nothing about its internal structure is
// relied upon.
type Fingerprint [16]byte

// String renders a Fingerprint as a hex string, the form a replacement
// map file keys its entries by.
func (f Fingerprint) String() string { return fmt.Sprintf("%x", [16]byte(f)) }

// FingerprintOf returns the fingerprint of a glyph bitmap. Two calls with
// pixel-identical width, height and pattern data always return the same
// Fingerprint, regardless of which character code or DRCS set number
// currently holds that glyph.
func FingerprintOf(width, height uint8, pattern []byte) Fingerprint {
	h := md5.New()
	h.Write([]byte{width, height})
	h.Write(pattern)
	var fp Fingerprint
	copy(fp[:], h.Sum(nil))
	return fp
}

// Policy governs what Processor.Lookup does when a glyph's fingerprint
// has no registered replacement.
type Policy uint8

const (
	// PolicyIgnore renders an unknown glyph as nothing and continues.
	PolicyIgnore Policy = iota
	// PolicyFailFast aborts the current decode with an error, leaving
	// already-decoded text intact, as soon as one unknown glyph is seen.
	PolicyFailFast
	// PolicyErrorExit makes Processor.Lookup behave exactly as under
	// PolicyFailFast: an unknown glyph yields ok=false. Lookup itself does
	// not tell the two apart; any difference is up to the caller, which
	// can read the policy back with Processor.Policy.
	PolicyErrorExit
)

// UnknownGlyphError reports a DRCS glyph with no registered replacement.
type UnknownGlyphError struct {
	Fingerprint Fingerprint
	Fatal       bool
}

func (e *UnknownGlyphError) Error() string {
	return fmt.Sprintf("drcs: no replacement registered for glyph %s", e.Fingerprint)
}

type binding struct {
	width, height uint8
	pattern       []byte
}

// Processor binds the live (setNumber, code) -> glyph associations a
// caption stream's DRCS1/DRCS2 data units establish, and resolves glyphs
// to replacement text via a fingerprint table. It implements
// arib.DRCSLookup.
//
// The replacement table may be swapped by ReplaceAll while Lookup runs
// concurrently on another goroutine, so a caller can hot-reload an
// operator's replacement map file without restarting an in-progress
// caption decode.
type Processor struct {
	policy Policy

	mu           sync.RWMutex
	replacements map[Fingerprint]string
	bindings     map[uint32]binding // key: setNumber<<16 | code
}

// NewProcessor returns a Processor with an empty replacement table.
// Call SetReplacement to populate it, typically from an operator-
// supplied map file.
func NewProcessor(policy Policy) *Processor {
	return &Processor{
		policy:       policy,
		replacements: make(map[Fingerprint]string),
		bindings:     make(map[uint32]binding),
	}
}

// SetReplacement registers the text a glyph with the given fingerprint
// should render as.
func (p *Processor) SetReplacement(fp Fingerprint, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replacements[fp] = text
}

// ReplaceAll atomically swaps the entire replacement table, discarding
// any fingerprint not present in m. Used to apply a reloaded map file
// in one step, so a decode in progress never observes a half-applied
// reload.
func (p *Processor) ReplaceAll(m map[Fingerprint]string) {
	cp := make(map[Fingerprint]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.replacements = cp
}

// Policy reports the policy this Processor was constructed with, so a
// caller can decide how to react to an UnknownCodepointError a decoder
// raised against this Processor's Lookup.
func (p *Processor) Policy() Policy { return p.policy }

func bindingKey(setNumber uint8, code uint16) uint32 {
	return uint32(setNumber)<<16 | uint32(code)
}

// Bind records that character code now renders via the given glyph
// pattern, as established by a DRCS1/DRCS2 data unit's Code entry. It
// should be called once per Code before the caption text that uses it
// is decoded.
func (p *Processor) Bind(setNumber uint8, code uint16, width, height uint8, pattern []byte) {
	p.bindings[bindingKey(setNumber, code)] = binding{width: width, height: height, pattern: pattern}
}

// Lookup implements arib.DRCSLookup: it resolves the glyph currently
// bound to (setNumber, code) to its replacement text, applying Policy
// when no replacement is registered.
func (p *Processor) Lookup(setNumber uint8, code uint16) (string, bool) {
	b, ok := p.bindings[bindingKey(setNumber, code)]
	if !ok {
		return "", false
	}
	fp := FingerprintOf(b.width, b.height, b.pattern)
	p.mu.RLock()
	text, ok := p.replacements[fp]
	p.mu.RUnlock()
	if ok {
		return text, true
	}
	switch p.policy {
	case PolicyIgnore:
		return "", true
	default:
		return "", false
	}
}

var _ arib.DRCSLookup = (*Processor)(nil)
