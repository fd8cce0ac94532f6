package device

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"

	"github.com/tphakala/go-audio-bandpass/internal/logging"
	"github.com/tphakala/go-audio-bandpass/internal/mathutil"
)

const (
	recordBitDepth   = 32
	wavFormatPCM     = 1
	progressInterval = 10 // Log progress every N%
	percentScale     = 100
)

// ErrInvalidRecording indicates recorder settings that cannot be used.
var ErrInvalidRecording = errors.New("invalid recording settings")

// Recorder captures S32 audio from an input device into a 32-bit WAV file.
// Samples are streamed to disk, so long recordings are fine.
type Recorder struct {
	DeviceID        int
	SampleRate      int
	Channels        int
	Duration        time.Duration
	FramesPerBuffer int

	// Float stores IEEE float samples instead of integer PCM.
	Float bool

	logger *zap.Logger
}

// NewRecorder creates a Recorder. A nil logger disables logging.
func NewRecorder(deviceID, sampleRate, channels int, duration time.Duration, logger *zap.Logger) *Recorder {
	return &Recorder{
		DeviceID:        deviceID,
		SampleRate:      sampleRate,
		Channels:        channels,
		Duration:        duration,
		FramesPerBuffer: DefaultFramesPerBuffer,
		logger:          logging.OrNop(logger),
	}
}

// Validate checks if the recorder settings are valid.
func (r *Recorder) Validate() error {
	if r.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrInvalidRecording, r.SampleRate)
	}
	if r.Channels < 1 {
		return fmt.Errorf("%w: %d channels", ErrInvalidRecording, r.Channels)
	}
	if r.Duration <= 0 {
		return fmt.Errorf("%w: duration %v", ErrInvalidRecording, r.Duration)
	}
	if r.FramesPerBuffer <= 0 {
		return fmt.Errorf("%w: frames per buffer %d", ErrInvalidRecording, r.FramesPerBuffer)
	}
	return nil
}

// TotalFrames returns the number of frames a full recording captures.
func (r *Recorder) TotalFrames() int {
	return framesFor(r.Duration.Seconds(), r.SampleRate)
}

// Record captures audio to path until Duration has elapsed or ctx is
// cancelled. On cancellation the frames captured so far are kept and the
// file is finalized. It returns the number of frames written.
func (r *Recorder) Record(ctx context.Context, path string) (frames int, err error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}

	dev, err := InputDevice(r.DeviceID)
	if err != nil {
		return 0, err
	}

	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	sink, err := newSink(f, r.SampleRate, r.Channels, r.Float)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	in := make([]int32, r.FramesPerBuffer*r.Channels)
	params := portaudio.HighLatencyParameters(dev, nil)
	params.Input.Channels = r.Channels
	params.SampleRate = float64(r.SampleRate)
	params.FramesPerBuffer = r.FramesPerBuffer

	stream, err := portaudio.OpenStream(params, in)
	if err != nil {
		return 0, fmt.Errorf("failed to open input stream: %w", err)
	}
	defer func() { _ = stream.Close() }()

	if err := stream.Start(); err != nil {
		return 0, fmt.Errorf("failed to start input stream: %w", err)
	}
	defer func() { _ = stream.Stop() }()

	total := r.TotalFrames()
	r.logger.Info("recording started",
		zap.String("device", dev.Name),
		zap.String("file", path),
		zap.Int("sample_rate", r.SampleRate),
		zap.Int("channels", r.Channels),
		zap.Bool("float", r.Float),
		zap.Duration("duration", r.Duration))

	lastProgress := 0

	for frames < total {
		select {
		case <-ctx.Done():
			r.logger.Info("recording stopped early",
				zap.Int("frames", frames),
				zap.Duration("recorded", time.Duration(float64(frames)/float64(r.SampleRate)*float64(time.Second))))
			return frames, nil
		default:
		}

		if err := stream.Read(); err != nil {
			if !errors.Is(err, portaudio.InputOverflowed) {
				return frames, fmt.Errorf("failed to read audio: %w", err)
			}
			r.logger.Warn("input overflow", zap.Int("frames", frames))
		}

		n := min(r.FramesPerBuffer, total-frames)
		if err := sink.writeBlock(in[:n*r.Channels]); err != nil {
			return frames, err
		}
		frames += n

		if progress := frames * percentScale / total; progress >= lastProgress+progressInterval {
			lastProgress = progress
			r.logger.Info("recording progress",
				zap.Int("percent", progress),
				zap.Float64("peak_dbfs", mathutil.AmplitudeToDB(peakLevel(in[:n*r.Channels]))))
		}
	}

	r.logger.Info("recording finished", zap.Int("frames", frames))
	return frames, nil
}
