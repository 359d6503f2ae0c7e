// Package ringbuf moves audio frames from the capture goroutine to the
// render loop without blocking either side. It is written for exactly
// one producer and one consumer; neither Write nor TryRead ever takes a
// lock or waits.
package ringbuf

import (
	"sync/atomic"

	"github.com/hamzabk/termscope/internal/frame"
)

// Capacity is the number of pre-allocated frame slots.
const Capacity = 4

type slot struct {
	// seq is odd while the producer is rewriting the slot and even once
	// the contents are complete. The reader validates its copy against
	// it so an overwritten slot is never surfaced half-written.
	seq  atomic.Uint32
	data frame.Frame
}

// Ring is a fixed-capacity single-producer/single-consumer frame
// buffer. When the producer laps the consumer the oldest unread frames
// are silently dropped; the consumer may miss frames but never observes
// a torn one.
type Ring struct {
	head    atomic.Uint64 // next slot to write, producer-owned
	tail    atomic.Uint64 // next slot to read, consumer-owned
	dropped atomic.Uint64
	slots   [Capacity]slot
}

// New returns an empty ring.
func New() *Ring {
	return &Ring{}
}

// Write copies f into the current head slot and publishes it. It never
// blocks and never fails; a full ring overwrites the oldest unread
// frame.
func (r *Ring) Write(f *frame.Frame) {
	h := r.head.Load()
	s := &r.slots[h%Capacity]
	s.seq.Add(1)
	s.data = *f
	s.seq.Add(1)
	r.head.Store(h + 1)
}

// TryRead copies the oldest unread frame into out and returns true, or
// returns false immediately when no unread frame exists. Callers poll
// at the render tick rate; TryRead itself never waits.
func (r *Ring) TryRead(out *frame.Frame) bool {
	for {
		h := r.head.Load()
		t := r.tail.Load()
		if t == h {
			return false
		}
		skipped := uint64(0)
		if h-t > Capacity {
			// Lapped while idle: skip to the oldest frame still present.
			skipped = h - Capacity - t
			t = h - Capacity
		}
		s := &r.slots[t%Capacity]
		seq := s.seq.Load()
		if seq&1 == 0 {
			*out = s.data
			if s.seq.Load() == seq {
				if skipped > 0 {
					r.dropped.Add(skipped)
				}
				r.tail.Store(t + 1)
				return true
			}
		}
		// The producer rewrote this slot mid-copy, which also means a
		// newer frame has been published. Go around with fresh indices.
	}
}

// Written returns the total number of frames published.
func (r *Ring) Written() uint64 {
	return r.head.Load()
}

// Consumed returns the total number of frames read.
func (r *Ring) Consumed() uint64 {
	return r.tail.Load()
}

// Dropped returns the number of frames the consumer skipped because
// the producer overwrote them first.
func (r *Ring) Dropped() uint64 {
	return r.dropped.Load()
}
