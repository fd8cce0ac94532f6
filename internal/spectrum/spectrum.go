// Package spectrum measures tone levels and basic statistics of audio
// signals. It is used to verify filters and by the analyze command.
package spectrum

import (
	"errors"
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"

	"github.com/tphakala/go-audio-bandpass/internal/mathutil"
)

const (
	// searchBins is how far either side of the nominal bin ToneLevel looks
	// for the peak, covering window spreading and off-bin tones.
	searchBins = 2

	// Minimum FFT size
	minSize = 2

	// One-sided spectrum amplitude scaling
	oneSidedFactor = 2.0
)

// ErrInvalidInput indicates an analysis request that cannot be satisfied.
var ErrInvalidInput = errors.New("invalid spectrum input")

// Analyzer computes amplitude spectra for fixed-size blocks.
// It is not safe for concurrent use.
type Analyzer struct {
	fft        *fourier.FFT
	size       int
	sampleRate float64
	window     window.Values
	scale      float64 // Converts |X[k]| to sine amplitude

	// Working buffers reused between calls
	windowed []float64
	coeffs   []complex128
}

// NewAnalyzer creates an Analyzer for blocks of size samples.
func NewAnalyzer(size int, sampleRate float64, w Window) (*Analyzer, error) {
	if size < minSize {
		return nil, fmt.Errorf("%w: block size %d (minimum %d)", ErrInvalidInput, size, minSize)
	}
	if !(sampleRate > 0) {
		return nil, fmt.Errorf("%w: sample rate must be positive, got %g", ErrInvalidInput, sampleRate)
	}

	values := w.values(size)
	coherentGain := floats.Sum(values) / float64(size)

	return &Analyzer{
		fft:        fourier.NewFFT(size),
		size:       size,
		sampleRate: sampleRate,
		window:     values,
		scale:      oneSidedFactor / (float64(size) * coherentGain),
		windowed:   make([]float64, size),
		coeffs:     make([]complex128, size/2+1),
	}, nil
}

// Size returns the block size.
func (a *Analyzer) Size() int {
	return a.size
}

// Bins returns the number of one-sided spectrum bins.
func (a *Analyzer) Bins() int {
	return a.size/2 + 1
}

// BinFrequency returns the centre frequency of bin i in Hz.
func (a *Analyzer) BinFrequency(i int) float64 {
	return a.fft.Freq(i) * a.sampleRate
}

// Magnitudes returns the one-sided amplitude spectrum of the first Size()
// samples of block, scaled so a sine of amplitude A centred on a bin reads A.
// Shorter blocks are zero-padded.
func (a *Analyzer) Magnitudes(block []float64) []float64 {
	if len(block) >= a.size {
		a.window.TransformTo(a.windowed, block[:a.size])
	} else {
		n := copy(a.windowed, block)
		clear(a.windowed[n:])
		a.window.Transform(a.windowed)
	}

	a.coeffs = a.fft.Coefficients(a.coeffs, a.windowed)

	out := make([]float64, len(a.coeffs))
	for i, c := range a.coeffs {
		out[i] = cmplx.Abs(c) * a.scale
	}
	return out
}

// ToneLevel returns the amplitude of the strongest bin within searchBins of
// freqHz.
func (a *Analyzer) ToneLevel(block []float64, freqHz float64) (float64, error) {
	if !(freqHz >= 0 && freqHz <= a.sampleRate/2) {
		return 0, fmt.Errorf("%w: frequency %g Hz outside [0, %g]", ErrInvalidInput, freqHz, a.sampleRate/2)
	}
	return peakNear(a.Magnitudes(block), freqHz*float64(a.size)/a.sampleRate), nil
}

// ToneLevels measures several frequencies from a single transform.
func (a *Analyzer) ToneLevels(block []float64, freqsHz ...float64) ([]float64, error) {
	mags := a.Magnitudes(block)
	out := make([]float64, len(freqsHz))
	for i, f := range freqsHz {
		if !(f >= 0 && f <= a.sampleRate/2) {
			return nil, fmt.Errorf("%w: frequency %g Hz outside [0, %g]", ErrInvalidInput, f, a.sampleRate/2)
		}
		out[i] = peakNear(mags, f*float64(a.size)/a.sampleRate)
	}
	return out, nil
}

// peakNear returns the largest magnitude within searchBins of the
// fractional bin position.
func peakNear(mags []float64, bin float64) float64 {
	centre := int(bin + 0.5)
	lo := max(centre-searchBins, 0)
	hi := min(centre+searchBins, len(mags)-1)
	if lo > hi {
		return 0
	}
	return floats.Max(mags[lo : hi+1])
}

// ToneLevel measures the amplitude at freqHz over the whole of samples with
// a Hann window.
func ToneLevel(samples []float64, sampleRate, freqHz float64) (float64, error) {
	a, err := NewAnalyzer(len(samples), sampleRate, Hann)
	if err != nil {
		return 0, err
	}
	return a.ToneLevel(samples, freqHz)
}

// ToneLevelDB is ToneLevel in dB relative to full scale.
func ToneLevelDB(samples []float64, sampleRate, freqHz float64) (float64, error) {
	level, err := ToneLevel(samples, sampleRate, freqHz)
	if err != nil {
		return 0, err
	}
	return mathutil.AmplitudeToDB(level), nil
}
