/*
NAME
  cue.go

DESCRIPTION
  A record-and-replay adapter over a channel: Cueable records every item
  it yields until the caller calls Cue, at which point the resulting
  Cued value replays the recorded prefix before resuming the live
  channel. Used to let PAT/PMT/PTS discovery consume a PID's packets
  without losing them for the operation that runs once discovery
  completes.

AUTHOR
  Saxon Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package stream provides small channel adapters used to thread
// Transport Stream packets through multi-stage discovery pipelines.
package stream

// Cueable wraps a receive channel, recording every item it yields so
// that Cue can later hand a replayable copy of them to a second reader.
type Cueable[T any] struct {
	in    <-chan T
	items []T
}

// NewCueable wraps in for recording.
func NewCueable[T any](in <-chan T) *Cueable[T] {
	return &Cueable[T]{in: in}
}

// Next receives the next item from the underlying channel, recording it
// before returning it. The second return value is false once the
// channel has closed, exactly as for a channel receive.
func (c *Cueable[T]) Next() (T, bool) {
	v, ok := <-c.in
	if ok {
		c.items = append(c.items, v)
	}
	return v, ok
}

// Cue freezes the recorded prefix and returns a Cued reader that
// replays it before resuming from the same underlying channel. After
// Cue, the Cueable itself must not be used again.
func (c *Cueable[T]) Cue() *Cued[T] {
	return &Cued[T]{inner: c.in, items: c.items}
}

// Cued replays a recorded prefix of items before resuming a live
// channel.
type Cued[T any] struct {
	inner <-chan T
	items []T
	pos   int
}

// Next returns the next recorded item if any remain, otherwise receives
// from the underlying channel.
func (c *Cued[T]) Next() (T, bool) {
	if c.pos < len(c.items) {
		v := c.items[c.pos]
		c.pos++
		return v, true
	}
	v, ok := <-c.inner
	return v, ok
}
