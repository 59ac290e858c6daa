/*
NAME
  demux.go

DESCRIPTION
  Per-PID fan-out of a Transport Stream packet stream to bounded
  (capacity 1) per-PID channels.

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

import "sync"

// sinkCap is the channel capacity used for every per-PID sink; capacity 1
// suffices to provide backpressure.
const sinkCap = 1

type sink struct {
	ch   chan *Packet
	done chan struct{}
}

// Demuxer routes Packets by PID to per-PID channels registered with
// Register. It holds its routing map behind a single mutex acquired only
// during routing.
type Demuxer struct {
	mu    sync.Mutex
	sinks map[uint16]sink
}

// NewDemuxer returns an empty Demuxer.
func NewDemuxer() *Demuxer {
	return &Demuxer{sinks: make(map[uint16]sink)}
}

// Register subscribes to packets for pid, returning a receive-only channel
// and an unregister function. The consumer must call unregister when done
// reading so the Demuxer can reclaim the sink without blocking forever on
// a dead consumer.
func (d *Demuxer) Register(pid uint16) (<-chan *Packet, func()) {
	s := sink{ch: make(chan *Packet, sinkCap), done: make(chan struct{})}
	d.mu.Lock()
	d.sinks[pid] = s
	d.mu.Unlock()
	var once sync.Once
	return s.ch, func() { once.Do(func() { close(s.done) }) }
}

// Run reads packets from in until it closes, routing each to its
// registered sink. Unknown PIDs are silently dropped. A sink whose
// consumer has unregistered is removed without failing the Demuxer. Once
// in closes, Run closes every remaining sink channel and returns.
func (d *Demuxer) Run(in <-chan *Packet) {
	for pkt := range in {
		d.dispatch(pkt)
	}
	d.mu.Lock()
	for pid, s := range d.sinks {
		close(s.ch)
		delete(d.sinks, pid)
	}
	d.mu.Unlock()
}

func (d *Demuxer) dispatch(pkt *Packet) {
	d.mu.Lock()
	s, ok := d.sinks[pkt.PID]
	d.mu.Unlock()
	if !ok {
		return
	}
	select {
	case <-s.done:
		d.mu.Lock()
		delete(d.sinks, pkt.PID)
		d.mu.Unlock()
	case s.ch <- pkt:
	}
}
