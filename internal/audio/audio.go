package audio

// Source defines the interface for a microphone sample source
type Source interface {
	// Open acquires the input device (mono, float32) at the given sample
	// rate and registers the callback the device layer invokes with each
	// chunk of captured samples. The callback runs on the audio thread
	// and must not block.
	Open(deviceID string, sampleRate, framesPerBuffer int, cb func([]float32)) error
	// Start begins delivering chunks to the callback.
	Start() error
	// Stop halts delivery without releasing the device.
	Stop() error
	// ListDevices enumerates available input devices.
	ListDevices() ([]Device, error)
	// Close releases the device and the host audio layer.
	Close() error
}

// Device represents an audio input device
type Device struct {
	ID      string
	Name    string
	Default bool
}
