// Package wavio writes captured PCM16 frames to a WAV file.
package wavio

import (
	"encoding/binary"
	"fmt"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Writer encodes little-endian PCM16 frames into a 16-bit mono WAV file.
type Writer struct {
	file *os.File
	enc  *wav.Encoder
	rate int
}

// NewWriter creates the output file and writes the WAV header for 16-bit
// mono audio at sampleRate.
func NewWriter(path string, sampleRate int) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return &Writer{
		file: f,
		enc:  wav.NewEncoder(f, sampleRate, 16, 1, 1),
		rate: sampleRate,
	}, nil
}

// WriteFrame appends one frame of little-endian PCM16 bytes, as yielded by
// the capture frame stream.
func (w *Writer) WriteFrame(frame []byte) error {
	if len(frame)%2 != 0 {
		return fmt.Errorf("frame length %d is not sample-aligned", len(frame))
	}

	data := make([]int, len(frame)/2)
	for i := range data {
		data[i] = int(int16(binary.LittleEndian.Uint16(frame[i*2:])))
	}

	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: 1, SampleRate: w.rate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := w.enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write samples: %w", err)
	}
	return nil
}

// Close finalizes the WAV header and closes the file.
func (w *Writer) Close() error {
	if err := w.enc.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("failed to finalize WAV file: %w", err)
	}
	return w.file.Close()
}
