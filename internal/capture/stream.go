package capture

import (
	"context"
	"encoding/binary"
	"io"
	"sync/atomic"
	"time"

	"github.com/DikshantV/PrepBettr-sub012/internal/ring"
)

// pollInterval is the delay between empty-ring polls. Short enough to add no
// meaningful latency on top of the 100ms frame cadence, long enough not to
// busy-spin.
const pollInterval = 10 * time.Millisecond

// FrameStream is the pull side of the capture pipeline. Each successful Next
// yields one frame serialized as little-endian PCM16 bytes (frameSize × 2
// bytes, 100ms of mono audio at the target rate).
//
// A stream must be consumed by a single goroutine; it is the one consumer
// the ring buffer permits.
type FrameStream struct {
	ring      *ring.Buffer
	capturing *atomic.Bool
	buf       []int16
	done      bool
}

// Next blocks until a frame is available, the session stops capturing, or
// ctx is cancelled. It returns io.EOF once the capturing flag goes false;
// after that the stream is finished for good.
func (f *FrameStream) Next(ctx context.Context) ([]byte, error) {
	if f.done {
		return nil, io.EOF
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !f.capturing.Load() {
			f.done = true
			return nil, io.EOF
		}

		if f.ring.ReadFrame(f.buf) {
			out := make([]byte, len(f.buf)*2)
			for i, s := range f.buf {
				binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
			}
			return out, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// FrameBytes returns the byte length of each yielded frame.
func (f *FrameStream) FrameBytes() int { return len(f.buf) * 2 }
