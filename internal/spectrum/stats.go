package spectrum

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/tphakala/go-audio-bandpass/internal/mathutil"
)

// Stats summarizes the level of a signal.
type Stats struct {
	Samples int
	Peak    float64 // Largest absolute sample
	RMS     float64
	DC      float64 // Mean value
}

// PeakDB returns the peak level in dBFS.
func (s Stats) PeakDB() float64 {
	return mathutil.AmplitudeToDB(s.Peak)
}

// RMSDB returns the RMS level in dBFS.
func (s Stats) RMSDB() float64 {
	return mathutil.AmplitudeToDB(s.RMS)
}

// CrestFactorDB returns peak-to-RMS in dB, or 0 for silence.
func (s Stats) CrestFactorDB() float64 {
	if s.RMS == 0 {
		return 0
	}
	return mathutil.AmplitudeToDB(s.Peak / s.RMS)
}

// ComputeStats returns level statistics for samples.
func ComputeStats(samples []float64) Stats {
	n := len(samples)
	if n == 0 {
		return Stats{}
	}
	return Stats{
		Samples: n,
		Peak:    math.Max(floats.Max(samples), -floats.Min(samples)),
		RMS:     math.Sqrt(floats.Dot(samples, samples) / float64(n)),
		DC:      floats.Sum(samples) / float64(n),
	}
}
