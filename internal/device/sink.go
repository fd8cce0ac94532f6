package device

import (
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/tphakala/go-audio-bandpass/internal/wavio"
)

// sampleSink receives interleaved S32 capture blocks.
type sampleSink interface {
	writeBlock(in []int32) error
	Close() error
}

// newSink opens a WAV sink storing 32-bit float when float is set and
// 32-bit integer PCM otherwise.
func newSink(w io.WriteSeeker, sampleRate, channels int, float bool) (sampleSink, error) {
	if float {
		enc, err := wavio.NewFloatEncoder(w, sampleRate, channels)
		if err != nil {
			return nil, err
		}
		return &floatSink{enc: enc}, nil
	}

	return &pcmSink{
		enc: wav.NewEncoder(w, sampleRate, recordBitDepth, channels, wavFormatPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: recordBitDepth,
		},
	}, nil
}

type pcmSink struct {
	enc   *wav.Encoder
	buf   *audio.IntBuffer
	wrote bool
}

func (s *pcmSink) writeBlock(in []int32) error {
	s.buf.Data = int32ToInt(s.buf.Data, in)
	if err := s.enc.Write(s.buf); err != nil {
		return fmt.Errorf("failed to write samples: %w", err)
	}
	s.wrote = true
	return nil
}

func (s *pcmSink) Close() error {
	// The encoder writes its header on the first Write.
	if !s.wrote {
		if err := s.writeBlock(nil); err != nil {
			return err
		}
	}
	if err := s.enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV: %w", err)
	}
	return nil
}

type floatSink struct {
	enc   *wavio.FloatEncoder
	block []float32
}

func (s *floatSink) writeBlock(in []int32) error {
	s.block = int32ToFloat32(s.block, in)
	return s.enc.WriteFrames(s.block)
}

func (s *floatSink) Close() error {
	return s.enc.Close()
}
