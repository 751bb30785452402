// Package ring provides a lock-free single-producer single-consumer ring
// buffer of 16-bit PCM samples, exchanged in whole frames. It is the only
// synchronization point between the real-time capture callback and the
// application-side frame reader.
package ring

import (
	"fmt"
	"sync/atomic"
)

// Buffer is a fixed-capacity circular buffer of int16 samples. Exactly one
// goroutine may write and exactly one may read. Coordination happens through
// the two atomic cursors: the producer publishes the write index only after
// the sample copy is complete, so a reader that observes the new index is
// guaranteed to see the full frame.
//
// The buffer trades completeness for continuity: when full, WriteFrame
// refuses and the frame is lost. The producer never blocks.
type Buffer struct {
	storage   []int16
	capacity  int
	frameSize int

	writeIdx atomic.Int64 // advanced only by the producer, always < capacity
	readIdx  atomic.Int64 // advanced only by the consumer, always < capacity
	dropped  atomic.Uint64
}

// New creates a buffer holding frames of frameSize samples with room for
// bufferFrames frames. Indices start at zero; the buffer never resizes.
func New(frameSize, bufferFrames int) (*Buffer, error) {
	if frameSize <= 0 {
		return nil, fmt.Errorf("invalid frame size %d", frameSize)
	}
	if bufferFrames < 2 {
		// One slot is always sacrificed to keep full distinguishable
		// from empty, so fewer than 2 frames can hold nothing.
		return nil, fmt.Errorf("invalid buffer depth %d frames", bufferFrames)
	}
	capacity := frameSize * bufferFrames
	return &Buffer{
		storage:   make([]int16, capacity),
		capacity:  capacity,
		frameSize: frameSize,
	}, nil
}

// WriteFrame copies one whole frame into the buffer. It returns false, with
// no state modified, when the buffer cannot take a frame without the write
// cursor catching the read cursor. Producer side only.
func (b *Buffer) WriteFrame(frame []int16) bool {
	if len(frame) != b.frameSize {
		// Partial frames are forbidden; the read path assumes any
		// non-empty buffer holds at least one whole frame.
		return false
	}

	w := b.writeIdx.Load()
	r := b.readIdx.Load()
	next := (w + int64(b.frameSize)) % int64(b.capacity)
	if next == r {
		b.dropped.Add(1)
		return false
	}

	for i, s := range frame {
		b.storage[(int(w)+i)%b.capacity] = s
	}
	// Publish after the copy so the consumer never observes a frame
	// before its samples are in place.
	b.writeIdx.Store(next)
	return true
}

// ReadFrame copies one whole frame into dst and advances the read cursor.
// It returns false when the buffer is empty. dst must hold frameSize
// samples. Consumer side only.
func (b *Buffer) ReadFrame(dst []int16) bool {
	if len(dst) != b.frameSize {
		return false
	}

	w := b.writeIdx.Load()
	r := b.readIdx.Load()
	if w == r {
		return false
	}

	for i := range dst {
		dst[i] = b.storage[(int(r)+i)%b.capacity]
	}
	b.readIdx.Store((r + int64(b.frameSize)) % int64(b.capacity))
	return true
}

// FrameSize returns the fixed per-frame sample count.
func (b *Buffer) FrameSize() int { return b.frameSize }

// Capacity returns the total sample capacity.
func (b *Buffer) Capacity() int { return b.capacity }

// Dropped returns the number of frames refused because the buffer was full.
func (b *Buffer) Dropped() uint64 { return b.dropped.Load() }

// WriteIndex returns the current write cursor. Diagnostic use.
func (b *Buffer) WriteIndex() int64 { return b.writeIdx.Load() }

// ReadIndex returns the current read cursor. Diagnostic use.
func (b *Buffer) ReadIndex() int64 { return b.readIdx.Load() }
