package spectrum

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/window"

	"github.com/tphakala/go-audio-bandpass/internal/mathutil"
)

// Window selects the taper applied before the FFT.
type Window int

const (
	// Hann is a good general-purpose window for tone measurements.
	Hann Window = iota

	// Kaiser trades main-lobe width for sidelobe level via DefaultKaiserBeta.
	Kaiser

	// Rectangular applies no taper. Only accurate when tones sit exactly on bins.
	Rectangular
)

// DefaultKaiserBeta gives roughly 90 dB sidelobe suppression.
const DefaultKaiserBeta = 12.0

// ParseWindow converts a window name to a Window.
func ParseWindow(name string) (Window, error) {
	switch name {
	case "hann", "Hann", "":
		return Hann, nil
	case "kaiser", "Kaiser":
		return Kaiser, nil
	case "rect", "rectangular", "none":
		return Rectangular, nil
	default:
		return Hann, fmt.Errorf("unknown window %q", name)
	}
}

// String returns the window name.
func (w Window) String() string {
	switch w {
	case Hann:
		return "hann"
	case Kaiser:
		return "kaiser"
	case Rectangular:
		return "rectangular"
	default:
		return fmt.Sprintf("Window(%d)", int(w))
	}
}

// values returns the window of length n.
func (w Window) values(n int) window.Values {
	switch w {
	case Kaiser:
		return window.Values(KaiserWindow(n, DefaultKaiserBeta))
	case Rectangular:
		return window.NewValues(window.Rectangular, n)
	default:
		return window.NewValues(window.Hann, n)
	}
}

// HannWindow returns a symmetric Hann window of length n.
func HannWindow(n int) []float64 {
	return window.NewValues(window.Hann, n)
}

// KaiserWindow returns a symmetric Kaiser window of length n:
//
//	w[i] = I₀(β·√(1 - ((i-α)/α)²)) / I₀(β),  α = (n-1)/2
func KaiserWindow(n int, beta float64) []float64 {
	if n < 1 {
		return []float64{}
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = 1
		return out
	}

	alpha := float64(n-1) / 2
	norm := mathutil.BesselI0(beta)
	for i := range out {
		x := (float64(i) - alpha) / alpha
		out[i] = mathutil.BesselI0(beta*math.Sqrt(1-x*x)) / norm
	}
	return out
}
