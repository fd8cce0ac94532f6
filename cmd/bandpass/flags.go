package main

import (
	"github.com/spf13/cobra"

	bandpass "github.com/tphakala/go-audio-bandpass"
	"github.com/tphakala/go-audio-bandpass/internal/config"
)

// filterFlags are the filter knobs shared by filter and play. They only
// override the configuration when set explicitly.
type filterFlags struct {
	low      float64
	high     float64
	order    int
	peak     float64
	enable   bool
	parallel bool
}

// register adds the flags; enabled is the --filter default shown in help.
func (f *filterFlags) register(cmd *cobra.Command, enabled bool) {
	fs := cmd.Flags()
	fs.Float64Var(&f.low, "low", bandpass.DefaultLowCutoffHz, "Low cutoff in Hz (high-pass corner)")
	fs.Float64Var(&f.high, "high", bandpass.DefaultHighCutoffHz, "High cutoff in Hz (low-pass corner)")
	fs.IntVar(&f.order, "order", bandpass.DefaultOrder, "Butterworth order of each stage")
	fs.Float64Var(&f.peak, "peak", bandpass.DefaultNormalizePeak, "Peak level after filtering, in (0, 1]")
	fs.BoolVar(&f.enable, "filter", enabled, "Apply the bandpass filter")
	fs.BoolVar(&f.parallel, "parallel", false, "Filter channels concurrently")
}

func (f *filterFlags) apply(cmd *cobra.Command, fc *config.FilterConfig) {
	fs := cmd.Flags()
	if fs.Changed("low") {
		fc.LowCutoffHz = f.low
	}
	if fs.Changed("high") {
		fc.HighCutoffHz = f.high
	}
	if fs.Changed("order") {
		fc.Order = f.order
	}
	if fs.Changed("peak") {
		fc.NormalizePeak = f.peak
	}
	if fs.Changed("filter") {
		fc.Apply = f.enable
	}
	if fs.Changed("parallel") {
		fc.Parallel = f.parallel
	}
}
