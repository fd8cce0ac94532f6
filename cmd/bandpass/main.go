// Command bandpass filters, plays, records and analyzes WAV audio.
//
// Usage:
//
//	bandpass filter input.wav output.wav --low 300 --high 3400
//	bandpass play                          # data/recorded_sample_mono.wav, filtered
//	bandpass play speech.wav --filter=false
//	bandpass record --preset sample
//	bandpass sweep sweep.wav --mode exponential
//	bandpass analyze output.wav --freqs 100,1000,10000
//	bandpass devices
//
// Settings come from bandpass.yaml (or --config), BANDPASS_* environment
// variables and flags, in increasing order of precedence.
package main

import (
	"context"
	"fmt"
	"os"
)

// Set via -ldflags "-X main.version=... -X main.commit=... -X main.date=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
