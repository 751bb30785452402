package wavio

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pcmFrame(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func TestWriter_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")

	w, err := NewWriter(path, 16000)
	require.NoError(t, err)

	first := []int16{0, 1000, -1000, 32767, -32768, 5}
	second := []int16{7, -7, 0, 0, 12000, -12000}
	require.NoError(t, w.WriteFrame(pcmFrame(first)))
	require.NoError(t, w.WriteFrame(pcmFrame(second)))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	d := wav.NewDecoder(f)
	buf, err := d.FullPCMBuffer()
	require.NoError(t, err)

	assert.Equal(t, 16000, buf.Format.SampleRate)
	assert.Equal(t, 1, buf.Format.NumChannels)

	want := append(append([]int16{}, first...), second...)
	require.Len(t, buf.Data, len(want))
	for i, s := range want {
		assert.Equal(t, int(s), buf.Data[i], "sample %d", i)
	}
}

func TestWriter_RejectsMisalignedFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")

	w, err := NewWriter(path, 16000)
	require.NoError(t, err)
	defer w.Close()

	assert.Error(t, w.WriteFrame([]byte{1, 2, 3}))
}
