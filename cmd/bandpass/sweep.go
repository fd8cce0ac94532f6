package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	bandpass "github.com/tphakala/go-audio-bandpass"
	"github.com/tphakala/go-audio-bandpass/internal/sweep"
)

func newSweepCmd(a *app) *cobra.Command {
	var (
		duration  time.Duration
		rate      int
		startHz   float64
		endHz     float64
		amplitude float64
		mode      string
		bitDepth  int
	)

	cmd := &cobra.Command{
		Use:   "sweep [OUTPUT]",
		Short: "Write a sine sweep test tone to a WAV file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := &a.cfg.Sweep
			fs := cmd.Flags()
			if fs.Changed("duration") {
				sc.Duration = duration
			}
			if fs.Changed("rate") {
				sc.SampleRate = rate
			}
			if fs.Changed("start") {
				sc.StartHz = startHz
			}
			if fs.Changed("end") {
				sc.EndHz = endHz
			}
			if fs.Changed("amplitude") {
				sc.Amplitude = amplitude
			}
			if fs.Changed("mode") {
				sc.Mode = mode
			}
			if fs.Changed("bit-depth") {
				sc.BitDepth = bitDepth
			}

			m, err := sweep.ParseMode(sc.Mode)
			if err != nil {
				return err
			}
			params := sweep.Params{
				Duration:   sc.Duration,
				SampleRate: sc.SampleRate,
				StartHz:    sc.StartHz,
				EndHz:      sc.EndHz,
				Amplitude:  sc.Amplitude,
				Mode:       m,
			}
			samples, err := sweep.Generate(params)
			if err != nil {
				return err
			}

			path := a.cfg.DataPath(sc.OutputFile)
			if len(args) == 1 {
				path = args[0]
			}
			if err := saveWAV(path, bandpass.NewMonoBuffer(sc.SampleRate, samples), sc.BitDepth); err != nil {
				return err
			}

			a.logger.Info("sweep written",
				zap.String("file", path),
				zap.Stringer("mode", m),
				zap.Float64("start_hz", sc.StartHz),
				zap.Float64("end_hz", sc.EndHz),
				zap.Duration("duration", sc.Duration))
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s sweep %g-%g Hz (%v) to %s\n", m, sc.StartHz, sc.EndHz, sc.Duration, path)
			return nil
		},
	}

	fs := cmd.Flags()
	fs.DurationVar(&duration, "duration", sweep.DefaultDuration, "Sweep length")
	fs.IntVar(&rate, "rate", sweep.DefaultSampleRate, "Sample rate in Hz")
	fs.Float64Var(&startHz, "start", sweep.DefaultStartHz, "Start frequency in Hz")
	fs.Float64Var(&endHz, "end", sweep.DefaultEndHz, "End frequency in Hz")
	fs.Float64Var(&amplitude, "amplitude", sweep.DefaultAmplitude, "Peak amplitude in (0, 1]")
	fs.StringVar(&mode, "mode", "linear", "Sweep mode: linear or exponential")
	fs.IntVar(&bitDepth, "bit-depth", 16, "Output bit depth: 8, 16, 24 or 32")
	return cmd
}
