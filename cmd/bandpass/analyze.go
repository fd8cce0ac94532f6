package main

import (
	"fmt"
	"io"
	"math"
	"math/cmplx"

	"github.com/spf13/cobra"

	bandpass "github.com/tphakala/go-audio-bandpass"
	"github.com/tphakala/go-audio-bandpass/internal/mathutil"
	"github.com/tphakala/go-audio-bandpass/internal/spectrum"
	"github.com/tphakala/go-audio-bandpass/internal/wavio"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		freqs    []float64
		window   string
		response bool
	)

	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Print level statistics and tone levels of a WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			win, err := spectrum.ParseWindow(window)
			if err != nil {
				return err
			}

			buf, info, err := wavio.Read(args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "File: %s\nFormat: %s\n", args[0], info)

			for ch, samples := range buf.Data {
				if err := analyzeChannel(w, ch, samples, buf.SampleRate, win, freqs); err != nil {
					return err
				}
			}

			if response {
				return printResponse(w, a.cfg.FilterConfig(buf.SampleRate).Spec, freqs)
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.Float64SliceVar(&freqs, "freqs", []float64{100, 1000, 10000}, "Frequencies to measure, in Hz")
	fs.StringVar(&window, "window", "hann", "FFT window: hann, kaiser or rect")
	fs.BoolVar(&response, "response", false, "Also print the configured filter's gain at each frequency")
	return cmd
}

func analyzeChannel(w io.Writer, ch int, samples []float64, sampleRate int, win spectrum.Window, freqs []float64) error {
	stats := spectrum.ComputeStats(samples)
	fmt.Fprintf(w, "Channel %d: peak %.2f dBFS, RMS %.2f dBFS, DC %.5f, crest %.2f dB\n",
		ch, stats.PeakDB(), stats.RMSDB(), stats.DC, stats.CrestFactorDB())

	if len(samples) < 2 || len(freqs) == 0 {
		return nil
	}

	analyzer, err := spectrum.NewAnalyzer(len(samples), float64(sampleRate), win)
	if err != nil {
		return err
	}
	nyquist := float64(sampleRate) / 2
	var inRange []float64
	for _, f := range freqs {
		if f >= 0 && f <= nyquist {
			inRange = append(inRange, f)
		}
	}
	levels, err := analyzer.ToneLevels(samples, inRange...)
	if err != nil {
		return err
	}

	i := 0
	for _, f := range freqs {
		if f < 0 || f > nyquist {
			fmt.Fprintf(w, "  %8.1f Hz: outside [0, %g]\n", f, nyquist)
			continue
		}
		fmt.Fprintf(w, "  %8.1f Hz: %7.2f dBFS\n", f, mathutil.AmplitudeToDB(levels[i]))
		i++
	}
	return nil
}

// printResponse prints the combined high-pass and low-pass gain at each
// frequency, before normalization.
func printResponse(w io.Writer, spec bandpass.FilterSpec, freqs []float64) error {
	hp, err := bandpass.DesignFilter(spec.LowCutoffHz, spec.SampleRateHz, spec.Order, bandpass.HighPass)
	if err != nil {
		return err
	}
	lp, err := bandpass.DesignFilter(spec.HighCutoffHz, spec.SampleRateHz, spec.Order, bandpass.LowPass)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Filter %g-%g Hz, order %d at %g Hz:\n", spec.LowCutoffHz, spec.HighCutoffHz, spec.Order, spec.SampleRateHz)
	for _, f := range freqs {
		omega := 2 * math.Pi * f / spec.SampleRateHz
		gain := cmplx.Abs(hp.Response(omega) * lp.Response(omega))
		fmt.Fprintf(w, "  %8.1f Hz: %7.2f dB\n", f, mathutil.AmplitudeToDB(gain))
	}
	return nil
}
