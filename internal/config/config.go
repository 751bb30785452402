package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// frameMillis is the frame duration. Fixed: the downstream transport
// contract is 100ms PCM16 frames.
const frameMillis = 100

type Config struct {
	Audio    AudioConfig `json:"audio"`
	LogLevel string      `json:"log_level"`
}

type AudioConfig struct {
	DeviceID         string `json:"device_id"`          // empty = default input
	InputSampleRate  int    `json:"input_sample_rate"`  // requested device rate
	TargetSampleRate int    `json:"target_sample_rate"` // rate of emitted frames
	BufferFrames     int    `json:"buffer_frames"`      // ring depth in frames
	FramesPerBuffer  int    `json:"frames_per_buffer"`  // device chunk size hint
}

// FrameSize returns the per-frame sample count at the target rate.
func (a AudioConfig) FrameSize() int {
	return a.TargetSampleRate * frameMillis / 1000
}

// Validate rejects settings the pipeline cannot run with.
func (a AudioConfig) Validate() error {
	if a.TargetSampleRate <= 0 || a.InputSampleRate <= 0 {
		return fmt.Errorf("invalid sample rates %d -> %d", a.InputSampleRate, a.TargetSampleRate)
	}
	if a.InputSampleRate < a.TargetSampleRate {
		return fmt.Errorf("input rate %d below target rate %d", a.InputSampleRate, a.TargetSampleRate)
	}
	if a.TargetSampleRate*frameMillis%1000 != 0 {
		return fmt.Errorf("target rate %d does not divide into %dms frames", a.TargetSampleRate, frameMillis)
	}
	if a.BufferFrames < 2 {
		return fmt.Errorf("buffer depth %d too small", a.BufferFrames)
	}
	return nil
}

// Load reads the config from disk or returns defaults
func Load() (*Config, error) {
	path := configPath()

	// Default config
	cfg := &Config{
		Audio: AudioConfig{
			DeviceID:         "",
			InputSampleRate:  48000,
			TargetSampleRate: 16000,
			BufferFrames:     10,
			FramesPerBuffer:  512,
		},
		LogLevel: "info",
	}

	// Load existing config if it exists
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Audio.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path := configPath()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// configPath returns the platform-specific config file path
func configPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, "voicecapture", "config.json")
}
