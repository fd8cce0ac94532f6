package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Recording preset names.
const (
	PresetSample  = "sample"
	PresetFlicker = "flicker"
)

// Preset is a named recording setup.
type Preset struct {
	SampleRate int
	Channels   int
	Duration   time.Duration
	OutputFile string
}

// Presets lists the built-in recording setups: a short voice sample for
// the filter demo and a long low-rate capture for flicker noise analysis.
var Presets = map[string]Preset{
	PresetSample: {
		SampleRate: 48000,
		Channels:   1,
		Duration:   15 * time.Second,
		OutputFile: "recorded_sample_mono.wav",
	},
	PresetFlicker: {
		SampleRate: 8000,
		Channels:   1,
		Duration:   12 * time.Hour,
		OutputFile: "recorded_flicker_noise_mono.wav",
	},
}

// Recording returns a RecordingConfig for the preset on the default device.
func (p Preset) Recording() RecordingConfig {
	return RecordingConfig{
		InputDevice:     -1,
		SampleRate:      p.SampleRate,
		Channels:        p.Channels,
		Duration:        p.Duration,
		OutputFile:      p.OutputFile,
		FramesPerBuffer: 1024,
		Float:           true,
	}
}

// ApplyPreset replaces the recording format, duration and file name with
// the named preset. The input device and buffer size are kept.
func (c *Config) ApplyPreset(name string) error {
	p, ok := Presets[name]
	if !ok {
		return fmt.Errorf("%w: unknown recording preset %q (available: %s)",
			ErrInvalidConfig, name, strings.Join(PresetNames(), ", "))
	}
	c.Recording.SampleRate = p.SampleRate
	c.Recording.Channels = p.Channels
	c.Recording.Duration = p.Duration
	c.Recording.OutputFile = p.OutputFile
	return nil
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
