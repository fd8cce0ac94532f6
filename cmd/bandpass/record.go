package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tphakala/go-audio-bandpass/internal/config"
	"github.com/tphakala/go-audio-bandpass/internal/device"
)

func newRecordCmd(a *app) *cobra.Command {
	var (
		preset   string
		deviceID int
		rate     int
		channels int
		duration time.Duration
		output   string
		float    bool
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record from a microphone into a 32-bit WAV file",
		Long: `Record captures audio from an input device. Presets:
  sample   48 kHz mono, 15 s  -> recorded_sample_mono.wav
  flicker  8 kHz mono, 12 h   -> recorded_flicker_noise_mono.wav
Individual flags override the preset. Ctrl-C stops early and keeps what was
recorded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rc, err := recordingConfig(cmd, a.cfg, preset)
			if err != nil {
				return err
			}
			fs := cmd.Flags()
			if fs.Changed("device") {
				rc.InputDevice = deviceID
			}
			if fs.Changed("rate") {
				rc.SampleRate = rate
			}
			if fs.Changed("channels") {
				rc.Channels = channels
			}
			if fs.Changed("duration") {
				rc.Duration = duration
			}
			if fs.Changed("float") {
				rc.Float = float
			}
			if err := a.revalidate(); err != nil {
				return err
			}

			path := output
			if path == "" {
				path = a.cfg.DataPath(rc.OutputFile)
			}
			if dir := filepath.Dir(path); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}

			if err := device.Initialize(); err != nil {
				return err
			}
			defer func() { _ = device.Terminate() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rec := device.NewRecorder(rc.InputDevice, rc.SampleRate, rc.Channels, rc.Duration, a.logger)
			rec.FramesPerBuffer = rc.FramesPerBuffer
			rec.Float = rc.Float

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Recording %v at %d Hz, %d channel(s) to %s (Ctrl-C to stop)\n",
				rc.Duration, rc.SampleRate, rc.Channels, path)
			frames, err := rec.Record(ctx, path)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Saved %d frames (%.1fs)\n", frames, float64(frames)/float64(rc.SampleRate))
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&preset, "preset", "p", "", "Recording preset: "+strings.Join(config.PresetNames(), ", "))
	fs.IntVarP(&deviceID, "device", "d", device.DefaultDeviceID, "Input device ID (see 'devices')")
	fs.IntVarP(&rate, "rate", "r", 0, "Sample rate in Hz")
	fs.IntVar(&channels, "channels", 0, "Number of channels")
	fs.DurationVar(&duration, "duration", 0, "Recording length (e.g. 15s, 12h)")
	fs.StringVarP(&output, "output", "o", "", "Output file (default: preset file name in the data dir)")
	fs.BoolVar(&float, "float", true, "Store 32-bit float samples (--float=false writes 32-bit integer PCM)")
	return cmd
}

// recordingConfig returns the recording settings after applying the preset,
// if any. The returned pointer aliases cfg.Recording.
func recordingConfig(cmd *cobra.Command, cfg *config.Config, preset string) (*config.RecordingConfig, error) {
	if cmd.Flags().Changed("preset") {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, err
		}
	}
	return &cfg.Recording, nil
}
