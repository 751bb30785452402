package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

type portAudioSource struct {
	stream *portaudio.Stream
	cb     func([]float32)
}

// New creates a new PortAudio-based sample source
func New() (Source, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	return &portAudioSource{}, nil
}

func (p *portAudioSource) Open(deviceID string, sampleRate, framesPerBuffer int, cb func([]float32)) error {
	// Find device
	var device *portaudio.DeviceInfo
	if deviceID == "" {
		var err error
		device, err = portaudio.DefaultInputDevice()
		if err != nil {
			return fmt.Errorf("failed to get default input device: %w", err)
		}
	} else {
		devices, err := portaudio.Devices()
		if err != nil {
			return fmt.Errorf("failed to enumerate devices: %w", err)
		}
		for _, d := range devices {
			if d.Name == deviceID {
				device = d
				break
			}
		}
	}

	if device == nil {
		return fmt.Errorf("device not found: %s", deviceID)
	}

	p.cb = cb

	// Open stream: mono, specified sample rate, float32, callback-driven.
	// The callback runs on PortAudio's audio thread and must not block.
	stream, err := p.openStream(device, 1, sampleRate, framesPerBuffer)
	if err != nil {
		// Some hosts refuse a mono input stream; fall back to the
		// device's interleaved channels and downmix in the callback.
		channels := device.MaxInputChannels
		if channels < 2 {
			return fmt.Errorf("failed to open audio stream: %w", err)
		}
		stream, err = p.openStream(device, channels, sampleRate, framesPerBuffer)
		if err != nil {
			return fmt.Errorf("failed to open audio stream: %w", err)
		}
	}

	p.stream = stream
	return nil
}

func (p *portAudioSource) openStream(device *portaudio.DeviceInfo, channels, sampleRate, framesPerBuffer int) (*portaudio.Stream, error) {
	return portaudio.OpenStream(portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: channels,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      float64(sampleRate),
		FramesPerBuffer: framesPerBuffer,
	}, func(in []float32) {
		if channels > 1 {
			in = downmixInterleaved(in, channels, len(in)/channels)
		}
		p.cb(in)
	})
}

// downmixInterleaved averages interleaved multi-channel samples into mono.
// The result is always a fresh slice, even for mono input.
func downmixInterleaved(in []float32, channels, frames int) []float32 {
	out := make([]float32, frames)
	if channels == 1 {
		copy(out, in)
		return out
	}
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += in[i*channels+c]
		}
		out[i] = sum / float32(channels)
	}
	return out
}

func (p *portAudioSource) Start() error {
	if p.stream == nil {
		return fmt.Errorf("stream not open")
	}
	if err := p.stream.Start(); err != nil {
		return fmt.Errorf("failed to start audio stream: %w", err)
	}
	return nil
}

func (p *portAudioSource) Stop() error {
	if p.stream != nil {
		return p.stream.Stop()
	}
	return nil
}

func (p *portAudioSource) ListDevices() ([]Device, error) {
	devices, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	result := make([]Device, 0, len(devices))
	defaultDevice, _ := portaudio.DefaultInputDevice()

	for _, d := range devices {
		if d.MaxInputChannels > 0 {
			result = append(result, Device{
				ID:      d.Name,
				Name:    d.Name,
				Default: d == defaultDevice,
			})
		}
	}

	return result, nil
}

func (p *portAudioSource) Close() error {
	if p.stream != nil {
		p.stream.Close()
		p.stream = nil
	}
	portaudio.Terminate()
	return nil
}
