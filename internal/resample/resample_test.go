package resample

import (
	"math"
	"testing"
)

// collectFrames returns a resampler that appends copies of emitted frames to
// the returned slice pointer.
func collectFrames(inputRate, outputRate, frameSize int) (*Resampler, *[][]int16) {
	var frames [][]int16
	r := New(inputRate, outputRate, frameSize, func(frame []int16) {
		cp := make([]int16, len(frame))
		copy(cp, frame)
		frames = append(frames, cp)
	})
	return r, &frames
}

func sineChunk(n int, freq float64, rate int, amp float64, phase0 int) []float32 {
	chunk := make([]float32, n)
	for i := range chunk {
		chunk[i] = float32(amp * math.Sin(2*math.Pi*freq*float64(phase0+i)/float64(rate)))
	}
	return chunk
}

func TestProcess_FrameSizeInvariant(t *testing.T) {
	r, frames := collectFrames(48000, 16000, 1600)

	// Chunk sizes vary the way a host audio layer's do; every emitted
	// frame must still be exactly frameSize samples.
	sizes := []int{512, 300, 1, 0, 4096, 128, 2048, 777, 512, 512, 9600}
	phase := 0
	for _, n := range sizes {
		r.Process(sineChunk(n, 440, 48000, 0.5, phase))
		phase += n
	}

	if len(*frames) == 0 {
		t.Fatal("expected at least one frame")
	}
	for i, f := range *frames {
		if len(f) != 1600 {
			t.Fatalf("frame %d has %d samples, want 1600", i, len(f))
		}
	}
}

func TestProcess_DownsamplingRatio(t *testing.T) {
	var produced int
	r := New(48000, 16000, 160, func(frame []int16) {
		produced += len(frame)
	})

	const total = 480000 // 10 seconds
	for fed := 0; fed < total; fed += 480 {
		r.Process(sineChunk(480, 440, 48000, 0.5, fed))
	}
	produced += pendingOutput(r)

	want := total / 3
	if produced < want-1 || produced > want+1 {
		t.Fatalf("produced %d output samples, want %d ±1", produced, want)
	}
}

// pendingOutput counts samples sitting in the unfinished frame accumulator.
func pendingOutput(r *Resampler) int {
	return r.fill
}

func TestProcess_PendingStaysBounded(t *testing.T) {
	r, _ := collectFrames(48000, 16000, 1600)

	for fed := 0; fed < 480000; fed += 512 {
		r.Process(sineChunk(512, 440, 48000, 0.5, fed))
		if r.Pending() > 512+8 {
			t.Fatalf("pending grew to %d samples after %d input samples", r.Pending(), fed+512)
		}
	}
}

func TestProcess_SineSmokeTest(t *testing.T) {
	r, frames := collectFrames(48000, 16000, 1600)

	// 100ms of a 440Hz sine at amplitude 0.5 is 4800 input samples and
	// should produce exactly one complete 1600-sample frame.
	r.Process(sineChunk(4800, 440, 48000, 0.5, 0))

	if len(*frames) != 1 {
		t.Fatalf("expected exactly 1 frame, got %d", len(*frames))
	}
	frame := (*frames)[0]
	if len(frame) != 1600 {
		t.Fatalf("expected 1600 samples, got %d", len(frame))
	}

	// The frame should be the same sine at 16kHz: compare against the
	// analytic signal with tolerance for interpolation error.
	maxAmp := int16(0)
	for i, s := range frame {
		want := 0.5 * math.Sin(2*math.Pi*440*float64(i)/16000)
		got := float64(s) / 32767
		if math.Abs(got-want) > 0.01 {
			t.Fatalf("sample %d: got %f, want %f", i, got, want)
		}
		if s > maxAmp {
			maxAmp = s
		}
	}

	// Peak should be near 0.5 amplitude, well inside int16 range.
	if maxAmp < 15000 || maxAmp > 17000 {
		t.Fatalf("peak sample %d outside expected range for 0.5 amplitude", maxAmp)
	}
}

func TestPCM16_Clamping(t *testing.T) {
	cases := []struct {
		in   float32
		want int16
	}{
		{0, 0},
		{1, 32767},
		{-1, -32767},
		{1.5, 32767},
		{-1.5, -32768},
		{0.5, 16384},
	}
	for _, c := range cases {
		if got := pcm16(c.in); got != c.want {
			t.Fatalf("pcm16(%f) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestProcess_EmptyAndTinyChunks(t *testing.T) {
	r, frames := collectFrames(48000, 16000, 4)

	r.Process(nil)
	r.Process([]float32{})
	for i := 0; i < 48; i++ {
		r.Process([]float32{0.1})
	}

	// 48 input samples at ratio 3 yield 16 output samples: 4 full frames.
	if len(*frames) != 4 {
		t.Fatalf("expected 4 frames from one-sample chunks, got %d", len(*frames))
	}
}
