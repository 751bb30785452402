// Package resample converts a stream of float32 microphone chunks at the
// device rate into fixed-size frames of 16-bit PCM at the target rate, using
// linear interpolation. It runs inside the real-time capture callback and
// therefore never blocks and keeps only O(ratio) state between calls.
package resample

import "math"

// Resampler accumulates input samples and emits whole frames. The frame
// slice handed to emit is reused on the next call, so emit must copy what it
// needs before returning (the ring buffer write does).
type Resampler struct {
	inputRate  int
	outputRate int
	ratio      float64

	pending []float32 // input samples not yet consumed by interpolation
	pos     float64   // fractional read cursor into pending

	frame []int16 // in-progress output frame
	fill  int
	emit  func([]int16)
}

// New creates a resampler producing frameSize-sample frames at outputRate
// from input at inputRate. emit is called with each completed frame and must
// not block.
func New(inputRate, outputRate, frameSize int, emit func([]int16)) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		ratio:      float64(inputRate) / float64(outputRate),
		frame:      make([]int16, frameSize),
		emit:       emit,
	}
}

// Process consumes one chunk of input samples in [-1, 1]. Chunk size is
// whatever the host audio layer delivers; empty chunks are fine.
func (r *Resampler) Process(chunk []float32) {
	r.pending = append(r.pending, chunk...)

	// Interpolation needs the sample at floor(pos) and its successor, so
	// production stops one sample short of the accumulated input; the
	// remainder carries into the next call.
	for int(r.pos)+1 < len(r.pending) {
		i := int(r.pos)
		frac := float32(r.pos - float64(i))
		v := r.pending[i] + (r.pending[i+1]-r.pending[i])*frac

		r.frame[r.fill] = pcm16(v)
		r.fill++
		if r.fill == len(r.frame) {
			r.emit(r.frame)
			r.fill = 0
		}
		r.pos += r.ratio
	}

	// Trim input already consumed so pending stays small no matter how
	// long the stream runs.
	consumed := int(r.pos)
	if consumed > len(r.pending) {
		consumed = len(r.pending)
	}
	if consumed > 0 {
		n := copy(r.pending, r.pending[consumed:])
		r.pending = r.pending[:n]
		r.pos -= float64(consumed)
	}
}

// Pending returns the number of buffered input samples. Diagnostic use.
func (r *Resampler) Pending() int { return len(r.pending) }

// pcm16 converts a sample in [-1, 1] to signed 16-bit PCM with rounding and
// clamping.
func pcm16(v float32) int16 {
	s := math.Round(float64(v) * 32767)
	if s > 32767 {
		return 32767
	}
	if s < -32768 {
		return -32768
	}
	return int16(s)
}
