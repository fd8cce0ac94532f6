// Package bandpass provides a small, allocation-conscious bandpass filter
// engine for in-memory audio buffers in pure Go.
//
// A bandpass is built as two cascaded Butterworth filters: a high-pass at the
// low cutoff followed by a low-pass at the high cutoff. Coefficients are
// derived from the analog prototype with a pre-warped bilinear transform and
// applied with a direct-form II transposed recursion. The result is then
// peak-normalized (0.95 by default) so it can be converted to integer PCM
// without clipping.
//
// # Quick Start
//
// For a mono slice:
//
//	out, err := bandpass.BandpassMono(samples, 48000, 300, 3400)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For a multi-channel buffer with explicit settings:
//
//	buf := bandpass.NewBuffer(48000, left, right)
//	cfg := &bandpass.Config{
//	    Spec:          bandpass.NewFilterSpec(300, 3400, 48000),
//	    Apply:         true,
//	    NormalizePeak: 0.9,
//	    Parallel:      true,
//	}
//	out, err := bandpass.Process(buf, cfg)
//
// When Config.Apply is false the engine is bypassed and the input buffer is
// returned as-is, which lets a front end toggle filtering without branching.
//
// # Building Blocks
//
// The individual stages are exported for callers that need them:
//
//   - [DesignFilter]: Butterworth high-pass or low-pass coefficients
//   - [ApplyFilter]: run coefficients over every channel of a buffer
//   - [Normalize]: scale a buffer to a target peak
//
// # Behavior
//
// Filtering is causal and not zero-phase, so a short transient at the start
// of the buffer is expected. The whole buffer is processed in memory; this is
// not a streaming engine. Invalid cutoffs (anything violating
// 0 < low < high < sampleRate/2) are rejected with [ErrInvalidCutoff] before
// any sample is touched. Silent and empty buffers pass through unchanged.
//
// # Thread Safety
//
// All functions are stateless and safe for concurrent use. Input buffers are
// never modified.
package bandpass
