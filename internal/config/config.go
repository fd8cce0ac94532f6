// Package config loads the bandpass tool configuration from defaults, an
// optional YAML file and BANDPASS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	bandpass "github.com/tphakala/go-audio-bandpass"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "bandpass.yaml"

// envPrefix is prepended to every environment override.
const envPrefix = "BANDPASS_"

// ErrInvalidConfig indicates a configuration value outside its allowed range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full tool configuration.
type Config struct {
	LogLevel    string `yaml:"log_level"`   // debug, info, warn, error
	Development bool   `yaml:"development"` // Human-readable console logs
	DataDir     string `yaml:"data_dir"`    // Base directory for relative file names below

	Filter    FilterConfig    `yaml:"filter"`
	Playback  PlaybackConfig  `yaml:"playback"`
	Recording RecordingConfig `yaml:"recording"`
	Sweep     SweepConfig     `yaml:"sweep"`
}

// FilterConfig holds the knobs exposed to the user for one filter run.
type FilterConfig struct {
	LowCutoffHz   float64 `yaml:"low_cutoff_hz"`
	HighCutoffHz  float64 `yaml:"high_cutoff_hz"`
	Order         int     `yaml:"filter_order"`
	Apply         bool    `yaml:"apply_filter"`
	NormalizePeak float64 `yaml:"normalize_peak"`
	Parallel      bool    `yaml:"parallel"`
}

// PlaybackConfig holds settings for the play command.
type PlaybackConfig struct {
	InputFile       string `yaml:"input_file"`        // File played when none is given
	OutputFile      string `yaml:"output_file"`       // Where the filtered result is saved
	OutputDevice    int    `yaml:"output_device"`     // PortAudio device index (-1 for default)
	FramesPerBuffer int    `yaml:"frames_per_buffer"` // PortAudio buffer size
	BitDepth        int    `yaml:"bit_depth"`         // Bit depth of the saved result
}

// RecordingConfig holds settings for the record command.
type RecordingConfig struct {
	InputDevice     int           `yaml:"input_device"` // PortAudio device index (-1 for default)
	SampleRate      int           `yaml:"sample_rate"`
	Channels        int           `yaml:"channels"`
	Duration        time.Duration `yaml:"duration"`
	OutputFile      string        `yaml:"output_file"`
	FramesPerBuffer int           `yaml:"frames_per_buffer"`
	Float           bool          `yaml:"float"` // 32-bit float samples instead of 32-bit PCM
}

// SweepConfig holds settings for the sweep command.
type SweepConfig struct {
	Duration   time.Duration `yaml:"duration"`
	SampleRate int           `yaml:"sample_rate"`
	StartHz    float64       `yaml:"start_hz"`
	EndHz      float64       `yaml:"end_hz"`
	Amplitude  float64       `yaml:"amplitude"`
	Mode       string        `yaml:"mode"` // linear or exponential
	OutputFile string        `yaml:"output_file"`
	BitDepth   int           `yaml:"bit_depth"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		DataDir:  "data",
		Filter: FilterConfig{
			LowCutoffHz:   bandpass.DefaultLowCutoffHz,
			HighCutoffHz:  bandpass.DefaultHighCutoffHz,
			Order:         bandpass.DefaultOrder,
			Apply:         false,
			NormalizePeak: bandpass.DefaultNormalizePeak,
		},
		Playback: PlaybackConfig{
			InputFile:       "recorded_sample_mono.wav",
			OutputFile:      "telephone_effect.wav",
			OutputDevice:    -1,
			FramesPerBuffer: 1024,
			BitDepth:        16,
		},
		Recording: Presets[PresetSample].Recording(),
		Sweep: SweepConfig{
			Duration:   10 * time.Second,
			SampleRate: 48000,
			StartHz:    20,
			EndHz:      20000,
			Amplitude:  0.5,
			Mode:       "linear",
			OutputFile: "sweep.wav",
			BitDepth:   16,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path and
// environment overrides, then validates it. An empty path uses DefaultFile
// if it exists and the defaults otherwise.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges. The Nyquist limit depends on the input file
// and is checked by the engine when a file is processed.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %w", ErrInvalidConfig, err)
	}

	f := c.Filter
	if f.LowCutoffHz < bandpass.MinLowCutoffHz || f.LowCutoffHz > bandpass.MaxLowCutoffHz {
		return fmt.Errorf("%w: low_cutoff_hz %g outside [%g, %g]", ErrInvalidConfig,
			f.LowCutoffHz, bandpass.MinLowCutoffHz, bandpass.MaxLowCutoffHz)
	}
	if f.HighCutoffHz < bandpass.MinHighCutoffHz || f.HighCutoffHz > bandpass.MaxHighCutoffHz {
		return fmt.Errorf("%w: high_cutoff_hz %g outside [%g, %g]", ErrInvalidConfig,
			f.HighCutoffHz, bandpass.MinHighCutoffHz, bandpass.MaxHighCutoffHz)
	}
	if f.LowCutoffHz >= f.HighCutoffHz {
		return fmt.Errorf("%w: low_cutoff_hz %g must be below high_cutoff_hz %g", ErrInvalidConfig,
			f.LowCutoffHz, f.HighCutoffHz)
	}
	if f.Order < 1 || f.Order > bandpass.MaxOrder() {
		return fmt.Errorf("%w: filter_order %d outside [1, %d]", ErrInvalidConfig, f.Order, bandpass.MaxOrder())
	}
	if !(f.NormalizePeak > 0 && f.NormalizePeak <= 1) {
		return fmt.Errorf("%w: normalize_peak %g outside (0, 1]", ErrInvalidConfig, f.NormalizePeak)
	}

	r := c.Recording
	if r.SampleRate <= 0 || r.Channels < 1 || r.Duration <= 0 || r.FramesPerBuffer <= 0 {
		return fmt.Errorf("%w: recording needs positive sample_rate, channels, duration and frames_per_buffer", ErrInvalidConfig)
	}
	if c.Playback.FramesPerBuffer <= 0 {
		return fmt.Errorf("%w: playback.frames_per_buffer must be positive", ErrInvalidConfig)
	}

	return nil
}

// FilterConfig returns the engine configuration for audio at sampleRate.
func (c *Config) FilterConfig(sampleRate int) *bandpass.Config {
	spec := bandpass.NewFilterSpec(c.Filter.LowCutoffHz, c.Filter.HighCutoffHz, float64(sampleRate))
	spec.Order = c.Filter.Order
	return &bandpass.Config{
		Spec:          spec,
		Apply:         c.Filter.Apply,
		NormalizePeak: c.Filter.NormalizePeak,
		Parallel:      c.Filter.Parallel,
	}
}

// DataPath resolves a configured file name against DataDir. Absolute paths
// are returned unchanged.
func (c *Config) DataPath(name string) string {
	if filepath.IsAbs(name) || c.DataDir == "" {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// YAML returns the configuration in file form.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// applyEnvOverrides applies BANDPASS_* variables on top of the loaded values.
func (c *Config) applyEnvOverrides() error {
	overrides := []struct {
		name  string
		apply func(string) error
	}{
		{"LOG_LEVEL", setString(&c.LogLevel)},
		{"DATA_DIR", setString(&c.DataDir)},
		{"LOW_CUTOFF_HZ", setFloat(&c.Filter.LowCutoffHz)},
		{"HIGH_CUTOFF_HZ", setFloat(&c.Filter.HighCutoffHz)},
		{"FILTER_ORDER", setInt(&c.Filter.Order)},
		{"APPLY_FILTER", setBool(&c.Filter.Apply)},
		{"NORMALIZE_PEAK", setFloat(&c.Filter.NormalizePeak)},
		{"INPUT_DEVICE", setInt(&c.Recording.InputDevice)},
		{"OUTPUT_DEVICE", setInt(&c.Playback.OutputDevice)},
	}

	for _, o := range overrides {
		val, ok := os.LookupEnv(envPrefix + o.name)
		if !ok {
			continue
		}
		if err := o.apply(val); err != nil {
			return fmt.Errorf("%w: %s%s=%q: %w", ErrInvalidConfig, envPrefix, o.name, val, err)
		}
	}
	return nil
}

func setString(dst *string) func(string) error {
	return func(v string) error {
		*dst = v
		return nil
	}
}

func setFloat(dst *float64) func(string) error {
	return func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*dst = f
		return nil
	}
}

func setInt(dst *int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}

func setBool(dst *bool) func(string) error {
	return func(v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*dst = b
		return nil
	}
}
