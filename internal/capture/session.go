// Package capture owns the microphone capture lifecycle: device acquisition,
// resampler wiring, ring buffer allocation, and the pull-based stream of
// PCM16 frames handed to the interview session transport.
package capture

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/DikshantV/PrepBettr-sub012/internal/audio"
	"github.com/DikshantV/PrepBettr-sub012/internal/config"
	"github.com/DikshantV/PrepBettr-sub012/internal/resample"
	"github.com/DikshantV/PrepBettr-sub012/internal/ring"
	"github.com/rs/zerolog"
)

var (
	// ErrNotInitialized is returned when capture or frame access is
	// attempted before Initialize has completed.
	ErrNotInitialized = errors.New("capture session not initialized")
	// ErrDisposed is returned for any operation on a disposed session.
	ErrDisposed = errors.New("capture session disposed")
)

// State is the capture session lifecycle state.
type State int

const (
	Uninitialized State = iota
	Initialized
	Capturing
	Stopped
	Disposed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initialized:
		return "initialized"
	case Capturing:
		return "capturing"
	case Stopped:
		return "stopped"
	case Disposed:
		return "disposed"
	default:
		return "unknown"
	}
}

// Session wires the device source through the resampler into the ring
// buffer and exposes completed frames through Frames. The source callback is
// the producer side; everything else runs on the application side. The only
// state shared between the two is the ring buffer.
type Session struct {
	cfg config.AudioConfig
	src audio.Source
	log zerolog.Logger

	mu    sync.Mutex
	state State

	ring      *ring.Buffer
	capturing atomic.Bool
	started   bool // device stream running
}

// New creates a session around the given source. Nothing is acquired until
// Initialize.
func New(cfg config.AudioConfig, src audio.Source, logger zerolog.Logger) *Session {
	return &Session{
		cfg:   cfg,
		src:   src,
		log:   logger.With().Str("component", "capture").Logger(),
		state: Uninitialized,
	}
}

// Initialize acquires the input device at the configured rate, allocates the
// ring buffer, and wires the device callback through the resampler into it.
// Device or permission failure is returned as-is; the caller decides whether
// to retry.
func (s *Session) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Disposed:
		return ErrDisposed
	case Uninitialized:
	default:
		return fmt.Errorf("initialize called in state %s", s.state)
	}

	frameSize := s.cfg.FrameSize()
	rb, err := ring.New(frameSize, s.cfg.BufferFrames)
	if err != nil {
		return fmt.Errorf("failed to allocate ring buffer: %w", err)
	}

	// Producer path. Runs on the audio thread: resample, frame, write.
	// A full ring drops the frame; capture continuity wins over
	// completeness, and the producer must never block or panic into the
	// host callback.
	rs := resample.New(s.cfg.InputSampleRate, s.cfg.TargetSampleRate, frameSize, func(frame []int16) {
		rb.WriteFrame(frame)
	})
	cb := func(chunk []float32) {
		if !s.capturing.Load() {
			return
		}
		rs.Process(chunk)
	}

	if err := s.src.Open(s.cfg.DeviceID, s.cfg.InputSampleRate, s.cfg.FramesPerBuffer, cb); err != nil {
		return fmt.Errorf("failed to open capture device: %w", err)
	}

	s.ring = rb
	s.state = Initialized
	s.log.Info().
		Int("input_rate", s.cfg.InputSampleRate).
		Int("target_rate", s.cfg.TargetSampleRate).
		Int("frame_size", frameSize).
		Int("buffer_frames", s.cfg.BufferFrames).
		Msg("Capture session initialized")
	return nil
}

// StartCapture begins (or resumes) the flow of frames. It requires a prior
// successful Initialize.
func (s *Session) StartCapture() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Disposed:
		return ErrDisposed
	case Uninitialized:
		return ErrNotInitialized
	case Capturing:
		return nil
	}

	if !s.started {
		if err := s.src.Start(); err != nil {
			return fmt.Errorf("failed to start capture: %w", err)
		}
		s.started = true
	}

	s.capturing.Store(true)
	s.state = Capturing
	s.log.Info().Msg("Capture started")
	return nil
}

// StopCapture halts frame flow without releasing any resources. Safe to call
// repeatedly and from consumer-loop code.
func (s *Session) StopCapture() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.capturing.Store(false)
	if s.state == Capturing {
		s.state = Stopped
		s.log.Info().Uint64("dropped_frames", s.ring.Dropped()).Msg("Capture stopped")
	}
}

// Frames returns a pull-based stream of byte-serialized frames. The stream
// yields frames while the session is capturing and ends once it stops; a
// fresh StartCapture needs a fresh stream.
func (s *Session) Frames() (*FrameStream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case Disposed:
		return nil, ErrDisposed
	case Uninitialized:
		return nil, ErrNotInitialized
	}

	return &FrameStream{
		ring:      s.ring,
		capturing: &s.capturing,
		buf:       make([]int16, s.ring.FrameSize()),
	}, nil
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dropped returns the number of frames dropped because the ring was full.
// Zero before Initialize.
func (s *Session) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ring == nil {
		return 0
	}
	return s.ring.Dropped()
}

// Dispose stops capture and releases the device and all wiring. Every
// release step runs even if an earlier one fails; the first error is
// returned. Idempotent, and safe on a never-initialized session.
func (s *Session) Dispose() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Disposed {
		return nil
	}

	s.capturing.Store(false)

	var first error
	if s.started {
		if err := s.src.Stop(); err != nil && first == nil {
			first = err
		}
		s.started = false
	}
	if err := s.src.Close(); err != nil && first == nil {
		first = err
	}

	s.ring = nil
	s.state = Disposed
	s.log.Info().Msg("Capture session disposed")
	return first
}
