package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bandpass "github.com/tphakala/go-audio-bandpass"
	"github.com/tphakala/go-audio-bandpass/internal/config"
	"github.com/tphakala/go-audio-bandpass/internal/mathutil"
	"github.com/tphakala/go-audio-bandpass/internal/spectrum"
	"github.com/tphakala/go-audio-bandpass/internal/sweep"
	"github.com/tphakala/go-audio-bandpass/internal/testutil"
	"github.com/tphakala/go-audio-bandpass/internal/wavio"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// writeThreeTone writes one second of 100 Hz + 1 kHz + 10 kHz at rate.
func writeThreeTone(t *testing.T, rate int) string {
	t.Helper()
	samples := testutil.MultiTone(float64(rate), rate,
		testutil.Tone{FreqHz: 100, Amplitude: 0.3},
		testutil.Tone{FreqHz: 1000, Amplitude: 0.3},
		testutil.Tone{FreqHz: min(10000, float64(rate)/2-500), Amplitude: 0.3},
	)
	path := filepath.Join(t.TempDir(), "in.wav")
	require.NoError(t, wavio.Write(path, bandpass.NewMonoBuffer(rate, samples), 16))
	return path
}

func TestFilterCommand(t *testing.T) {
	in := writeThreeTone(t, 48000)
	out := filepath.Join(t.TempDir(), "out.wav")

	_, err := execute(t, "filter", in, out)
	require.NoError(t, err)

	buf, info, err := wavio.Read(out)
	require.NoError(t, err)
	assert.Equal(t, wavio.Info{SampleRate: 48000, Channels: 1, BitDepth: 16, Frames: 48000}, info)
	assert.InDelta(t, bandpass.DefaultNormalizePeak, bandpass.Peak(buf), 1e-4)

	a, err := spectrum.NewAnalyzer(48000, 48000, spectrum.Hann)
	require.NoError(t, err)
	levels, err := a.ToneLevels(buf.Data[0], 100, 1000, 10000)
	require.NoError(t, err)

	rel100 := mathutil.AmplitudeToDB(levels[0] / levels[1])
	rel10k := mathutil.AmplitudeToDB(levels[2] / levels[1])
	assert.Less(t, rel100, -20.0)
	assert.Less(t, rel10k, -20.0)
}

func TestFilterCommand_Bypass(t *testing.T) {
	in := writeThreeTone(t, 16000)
	out := filepath.Join(t.TempDir(), "out.wav")

	_, err := execute(t, "filter", in, out, "--filter=false")
	require.NoError(t, err)

	want, _, err := wavio.Read(in)
	require.NoError(t, err)
	got, _, err := wavio.Read(out)
	require.NoError(t, err)
	assert.Equal(t, want.Data, got.Data)
}

func TestFilterCommand_BitDepth(t *testing.T) {
	in := writeThreeTone(t, 16000)
	out := filepath.Join(t.TempDir(), "nested", "out.wav")

	_, err := execute(t, "filter", in, out, "--bit-depth", "24", "--low", "200", "--high", "2000", "--order", "2")
	require.NoError(t, err)

	_, info, err := wavio.Read(out)
	require.NoError(t, err)
	assert.Equal(t, 24, info.BitDepth)
}

func TestFilterCommand_IgnoresPlaybackBypass(t *testing.T) {
	in := writeThreeTone(t, 16000)
	out := filepath.Join(t.TempDir(), "out.wav")
	cfgPath := filepath.Join(t.TempDir(), "bandpass.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("filter: {apply_filter: false}"), 0o644))

	_, err := execute(t, "filter", in, out, "--config", cfgPath)
	require.NoError(t, err)

	buf, _, err := wavio.Read(out)
	require.NoError(t, err)
	assert.InDelta(t, bandpass.DefaultNormalizePeak, bandpass.Peak(buf), 1e-4)
}

func TestFilterCommand_FloatInput(t *testing.T) {
	rate := 16000
	samples := testutil.MultiTone(float64(rate), rate,
		testutil.Tone{FreqHz: 1000, Amplitude: 1.5},
		testutil.Tone{FreqHz: 6000, Amplitude: 0.5},
	)
	in := filepath.Join(t.TempDir(), "in.wav")
	require.NoError(t, wavio.WriteFloat(in, bandpass.NewMonoBuffer(rate, samples)))

	out := filepath.Join(t.TempDir(), "out.wav")
	_, err := execute(t, "filter", in, out)
	require.NoError(t, err)

	buf, info, err := wavio.Read(out)
	require.NoError(t, err)
	assert.True(t, info.Float)
	assert.Equal(t, 32, info.BitDepth)
	assert.InDelta(t, bandpass.DefaultNormalizePeak, bandpass.Peak(buf), 1e-4)

	// An explicit depth converts to integer PCM.
	_, err = execute(t, "filter", in, out, "--bit-depth", "16")
	require.NoError(t, err)
	_, info, err = wavio.Read(out)
	require.NoError(t, err)
	assert.False(t, info.Float)
	assert.Equal(t, 16, info.BitDepth)
}

func TestFilterCommand_Errors(t *testing.T) {
	in := writeThreeTone(t, 8000)
	out := filepath.Join(t.TempDir(), "out.wav")

	// In the allowed range but above Nyquist for this file
	_, err := execute(t, "filter", in, out, "--high", "5000")
	require.ErrorIs(t, err, bandpass.ErrInvalidCutoff)

	_, err = execute(t, "filter", in, out, "--low", "10")
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = execute(t, "filter", in, out, "--peak", "1.5")
	require.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = execute(t, "filter", "/nonexistent.wav", out)
	require.ErrorContains(t, err, "failed to open input file")

	_, err = execute(t, "filter", in)
	require.Error(t, err)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no output on failure")
}

func TestPlayCommand_NoPlay(t *testing.T) {
	in := writeThreeTone(t, 48000)
	out := filepath.Join(t.TempDir(), "telephone_effect.wav")

	stdout, err := execute(t, "play", in, "--no-play", "--filter", "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Loaded "+in)
	assert.Contains(t, stdout, "48000 frames x 1 channels, 48000 Hz, 16-bit, 1.00s")
	assert.Contains(t, stdout, "Filtered 300-3400 Hz, saved to "+out)

	buf, _, err := wavio.Read(out)
	require.NoError(t, err)
	assert.InDelta(t, bandpass.DefaultNormalizePeak, bandpass.Peak(buf), 1e-4)
}

func TestPlayCommand_NoFilter(t *testing.T) {
	in := writeThreeTone(t, 48000)

	// Bypass is the default; --filter=false is accepted as well.
	for _, args := range [][]string{nil, {"--filter=false"}} {
		out := filepath.Join(t.TempDir(), "unused.wav")
		stdout, err := execute(t, append([]string{"play", in, "--no-play", "-o", out}, args...)...)
		require.NoError(t, err)
		assert.NotContains(t, stdout, "Filtered")

		_, statErr := os.Stat(out)
		assert.True(t, os.IsNotExist(statErr))
	}
}

func TestPlayCommand_ConfigEnablesFilter(t *testing.T) {
	in := writeThreeTone(t, 48000)
	out := filepath.Join(t.TempDir(), "filtered.wav")
	cfgPath := filepath.Join(t.TempDir(), "bandpass.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("filter: {apply_filter: true}"), 0o644))

	stdout, err := execute(t, "play", in, "--no-play", "--config", cfgPath, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Filtered 300-3400 Hz, saved to "+out)
}

func TestSweepCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "sweep.wav")

	stdout, err := execute(t, "sweep", out, "--duration", "500ms", "--rate", "8000", "--start", "100", "--end", "3000")
	require.NoError(t, err)
	assert.Contains(t, stdout, "linear sweep 100-3000 Hz")

	buf, info, err := wavio.Read(out)
	require.NoError(t, err)
	assert.Equal(t, 8000, info.SampleRate)
	assert.Equal(t, 4000, info.Frames)
	assert.InDelta(t, sweep.DefaultAmplitude, bandpass.Peak(buf), 1e-3)

	_, err = execute(t, "sweep", out, "--mode", "pink")
	require.ErrorIs(t, err, sweep.ErrInvalidParams)

	_, err = execute(t, "sweep", out, "--rate", "8000", "--end", "5000")
	require.ErrorIs(t, err, sweep.ErrInvalidParams)
}

func TestAnalyzeCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	require.NoError(t, wavio.Write(path, bandpass.NewMonoBuffer(8000, testutil.Sine(1000, 0.5, 8000, 8000)), 16))

	stdout, err := execute(t, "analyze", path, "--freqs", "1000,5000", "--response")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Format: 8000 frames x 1 channels, 8000 Hz, 16-bit, 1.00s")
	assert.Contains(t, stdout, "Channel 0: peak -6.02 dBFS")
	assert.Contains(t, stdout, "1000.0 Hz:   -6.02 dBFS")
	assert.Contains(t, stdout, "5000.0 Hz: outside [0, 4000]")
	assert.Contains(t, stdout, "Filter 300-3400 Hz, order 4 at 8000 Hz:")

	_, err = execute(t, "analyze", path, "--window", "blackman")
	require.Error(t, err)
}

func TestConfigCommand(t *testing.T) {
	stdout, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, stdout, "low_cutoff_hz: 300")
	assert.Contains(t, stdout, "filter_order: 4")

	path := filepath.Join(t.TempDir(), "bandpass.yaml")
	require.NoError(t, os.WriteFile(path, []byte("filter: {low_cutoff_hz: 500}"), 0o644))

	stdout, err = execute(t, "config", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "low_cutoff_hz: 500")
}

func TestVersion(t *testing.T) {
	stdout, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "bandpass version dev")
}

func TestFilterFlags_OnlyChangedOverride(t *testing.T) {
	var ff filterFlags
	cmd := &cobra.Command{}
	ff.register(cmd, true)
	require.NoError(t, cmd.ParseFlags([]string{"--low", "500", "--filter=false"}))

	fc := config.Default().Filter
	fc.HighCutoffHz = 2500
	ff.apply(cmd, &fc)

	assert.InDelta(t, 500.0, fc.LowCutoffHz, 0)
	assert.InDelta(t, 2500.0, fc.HighCutoffHz, 0, "unset flag must keep config value")
	assert.False(t, fc.Apply)
}

func TestRecordingConfig_Preset(t *testing.T) {
	cfg := config.Default()
	cmd := newRecordCmd(&app{cfg: cfg})
	require.NoError(t, cmd.ParseFlags([]string{"--preset", "flicker"}))

	rc, err := recordingConfig(cmd, cfg, "flicker")
	require.NoError(t, err)
	assert.Equal(t, 8000, rc.SampleRate)
	assert.Equal(t, "recorded_flicker_noise_mono.wav", rc.OutputFile)
	assert.True(t, rc.Float, "recordings default to float samples")
	assert.Same(t, &cfg.Recording, rc)

	require.NoError(t, cmd.ParseFlags([]string{"--preset", "bogus"}))
	_, err = recordingConfig(cmd, cfg, "bogus")
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}
