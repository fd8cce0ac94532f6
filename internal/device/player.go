package device

import (
	"context"
	"errors"
	"fmt"

	"github.com/gordonklaus/portaudio"
	"go.uber.org/zap"

	bandpass "github.com/tphakala/go-audio-bandpass"
	"github.com/tphakala/go-audio-bandpass/internal/logging"
)

// DefaultFramesPerBuffer is the PortAudio buffer size used when none is set.
const DefaultFramesPerBuffer = 1024

// ErrNothingToPlay indicates a buffer without channels or sample rate.
var ErrNothingToPlay = errors.New("nothing to play")

// Player plays buffers on an output device using blocking writes.
type Player struct {
	DeviceID        int
	FramesPerBuffer int

	logger *zap.Logger
}

// NewPlayer creates a Player for the given device (DefaultDeviceID for the
// system default). A nil logger disables logging.
func NewPlayer(deviceID, framesPerBuffer int, logger *zap.Logger) *Player {
	if framesPerBuffer <= 0 {
		framesPerBuffer = DefaultFramesPerBuffer
	}
	return &Player{
		DeviceID:        deviceID,
		FramesPerBuffer: framesPerBuffer,
		logger:          logging.OrNop(logger),
	}
}

// Play blocks until buf has been played or ctx is cancelled. Cancellation
// aborts the stream immediately and returns ctx.Err().
func (p *Player) Play(ctx context.Context, buf *bandpass.Buffer) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	if buf.NumChannels() == 0 || buf.SampleRate <= 0 {
		return fmt.Errorf("%w: %d channels at %d Hz", ErrNothingToPlay, buf.NumChannels(), buf.SampleRate)
	}

	dev, err := OutputDevice(p.DeviceID)
	if err != nil {
		return err
	}

	params := portaudio.HighLatencyParameters(nil, dev)
	params.Output.Channels = buf.NumChannels()
	params.SampleRate = float64(buf.SampleRate)
	params.FramesPerBuffer = p.FramesPerBuffer

	out := make([][]float32, buf.NumChannels())
	for ch := range out {
		out[ch] = make([]float32, p.FramesPerBuffer)
	}

	stream, err := portaudio.OpenStream(params, out)
	if err != nil {
		return fmt.Errorf("failed to open output stream: %w", err)
	}
	defer func() { _ = stream.Close() }()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("failed to start output stream: %w", err)
	}

	p.logger.Info("playback started",
		zap.String("device", dev.Name),
		zap.Int("channels", buf.NumChannels()),
		zap.Int("sample_rate", buf.SampleRate),
		zap.Duration("duration", buf.Duration()))

	chunks := numChunks(buf.Len(), p.FramesPerBuffer)
	for i := range chunks {
		select {
		case <-ctx.Done():
			_ = stream.Abort()
			p.logger.Info("playback stopped", zap.Int("chunk", i), zap.Int("chunks", chunks))
			return ctx.Err()
		default:
		}

		fillChunk(out, buf.Data, i*p.FramesPerBuffer)
		if err := stream.Write(); err != nil {
			if errors.Is(err, portaudio.OutputUnderflowed) {
				p.logger.Warn("output underflow", zap.Int("chunk", i))
				continue
			}
			_ = stream.Abort()
			return fmt.Errorf("failed to write audio: %w", err)
		}
	}

	if err := stream.Stop(); err != nil {
		return fmt.Errorf("failed to stop output stream: %w", err)
	}
	p.logger.Info("playback finished")
	return nil
}
