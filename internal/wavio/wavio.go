// Package wavio reads and writes WAV files as bandpass buffers.
//
// Integer PCM at 8, 16, 24 and 32 bits and IEEE float at 32 and 64 bits
// can be read. Writing supports the same integer depths plus 32-bit float.
package wavio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	bandpass "github.com/tphakala/go-audio-bandpass"
)

const (
	// Frames decoded per PCMBuffer call
	readChunkFrames = 65536

	// Sample format constants
	bitsPerSample8  = 8
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32
	bitsPerSample64 = 64

	// 8-bit WAV samples are unsigned around this midpoint
	unsigned8Offset = 128

	// WAV format tags. Extensible files are read as integer PCM.
	wavFormatPCM        = 1
	wavFormatFloat      = 3
	wavFormatExtensible = 0xFFFE

	// DefaultBitDepth is used by Write when bitDepth is 0.
	DefaultBitDepth = bitsPerSample16
)

var (
	// ErrInvalidWAV indicates the file is not a readable RIFF/WAVE file.
	ErrInvalidWAV = errors.New("invalid WAV file")

	// ErrUnsupportedFormat indicates a WAV encoding this package cannot handle.
	ErrUnsupportedFormat = errors.New("unsupported WAV format")
)

// Info describes a decoded WAV file.
type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Float      bool // IEEE float samples rather than integer PCM
	Frames     int  // Samples per channel
}

// Duration returns the playback length.
func (i Info) Duration() time.Duration {
	if i.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(i.Frames) / float64(i.SampleRate) * float64(time.Second))
}

// String formats the info the way the play command prints it.
func (i Info) String() string {
	kind := "bit"
	if i.Float {
		kind = "bit float"
	}
	return fmt.Sprintf("%d frames x %d channels, %d Hz, %d-%s, %.2fs",
		i.Frames, i.Channels, i.SampleRate, i.BitDepth, kind, i.Duration().Seconds())
}

// fullScale returns 2^(bitDepth-1), the divisor mapping integer PCM to [-1, 1).
func fullScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case bitsPerSample8, bitsPerSample16, bitsPerSample24, bitsPerSample32:
		return math.Ldexp(1, bitDepth-1), nil
	default:
		return 0, fmt.Errorf("%w: %d-bit samples (supported: 8, 16, 24, 32)", ErrUnsupportedFormat, bitDepth)
	}
}

// pcmOffset returns the stored value of silence for an integer bit depth.
func pcmOffset(bitDepth int) int {
	if bitDepth == bitsPerSample8 {
		return unsigned8Offset
	}
	return 0
}

// Read decodes a WAV file into a planar buffer. Integer samples are scaled
// to [-1, 1); float samples are passed through unchanged.
func Read(path string) (*bandpass.Buffer, Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Info{}, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f)
}

// Decode reads a WAV stream into a planar buffer.
func Decode(r io.ReadSeeker) (*bandpass.Buffer, Info, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, Info{}, ErrInvalidWAV
	}

	format := decoder.Format()
	info := Info{
		SampleRate: format.SampleRate,
		Channels:   format.NumChannels,
		BitDepth:   int(decoder.BitDepth),
	}
	if info.Channels < 1 {
		return nil, Info{}, fmt.Errorf("%w: %d channels", ErrInvalidWAV, info.Channels)
	}

	var (
		data [][]float64
		err  error
	)
	switch decoder.WavAudioFormat {
	case wavFormatPCM, wavFormatExtensible:
		data, err = decodeInt(decoder, format, info)
	case wavFormatFloat:
		info.Float = true
		data, err = decodeFloat(decoder, info)
	default:
		return nil, Info{}, fmt.Errorf("%w: format tag %d (supported: PCM, IEEE float)", ErrUnsupportedFormat, decoder.WavAudioFormat)
	}
	if err != nil {
		return nil, Info{}, err
	}

	for ch := range data {
		if data[ch] == nil {
			data[ch] = []float64{}
		}
	}
	buf := bandpass.NewBuffer(info.SampleRate, data...)
	info.Frames = buf.Len()
	return buf, info, nil
}

// decodeInt reads integer PCM through the decoder's sample buffer.
func decodeInt(decoder *wav.Decoder, format *audio.Format, info Info) ([][]float64, error) {
	scale, err := fullScale(info.BitDepth)
	if err != nil {
		return nil, err
	}
	inv := 1 / scale
	offset := pcmOffset(info.BitDepth)

	intBuf := &audio.IntBuffer{
		Data:   make([]int, readChunkFrames*info.Channels),
		Format: format,
	}
	data := make([][]float64, info.Channels)

	for {
		n, err := decoder.PCMBuffer(intBuf)
		if err != nil {
			return nil, fmt.Errorf("failed to read samples: %w", err)
		}
		if n == 0 {
			break
		}

		// A truncated file may end mid-frame; drop the partial frame.
		frames := n / info.Channels
		for ch := range info.Channels {
			for i := range frames {
				data[ch] = append(data[ch], float64(intBuf.Data[i*info.Channels+ch]-offset)*inv)
			}
		}
	}
	return data, nil
}

// decodeFloat reads little-endian IEEE float samples straight from the data
// chunk; the decoder's sample buffer only handles integers.
func decodeFloat(decoder *wav.Decoder, info Info) ([][]float64, error) {
	var sample func([]byte) float64
	switch info.BitDepth {
	case bitsPerSample32:
		sample = func(b []byte) float64 { return float64(math.Float32frombits(binary.LittleEndian.Uint32(b))) }
	case bitsPerSample64:
		sample = func(b []byte) float64 { return math.Float64frombits(binary.LittleEndian.Uint64(b)) }
	default:
		return nil, fmt.Errorf("%w: %d-bit float samples (supported: 32, 64)", ErrUnsupportedFormat, info.BitDepth)
	}

	if err := decoder.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("failed to read samples: %w", err)
	}
	if decoder.PCMChunk == nil {
		return nil, fmt.Errorf("failed to read samples: %w", wav.ErrPCMChunkNotFound)
	}

	width := info.BitDepth / 8
	frameBytes := width * info.Channels
	raw := make([]byte, readChunkFrames*frameBytes)
	data := make([][]float64, info.Channels)

	for {
		n, err := io.ReadFull(decoder.PCMChunk.R, raw)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("failed to read samples: %w", err)
		}

		// A truncated file may end mid-frame; drop the partial frame.
		frames := n / frameBytes
		for i := range frames {
			for ch := range info.Channels {
				off := i*frameBytes + ch*width
				data[ch] = append(data[ch], sample(raw[off:off+width]))
			}
		}
		if err != nil {
			return data, nil
		}
	}
}

// Write encodes buf as a PCM WAV file at the given bit depth (0 selects
// DefaultBitDepth). Samples are clamped to [-1, 1].
func Write(path string, buf *bandpass.Buffer, bitDepth int) error {
	return create(path, func(w io.WriteSeeker) error { return Encode(w, buf, bitDepth) })
}

// WriteFloat encodes buf as a 32-bit IEEE float WAV file. Samples are
// stored as-is, so levels above full scale survive.
func WriteFloat(path string, buf *bandpass.Buffer) error {
	return create(path, func(w io.WriteSeeker) error { return EncodeFloat(w, buf) })
}

func create(path string, encode func(io.WriteSeeker) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	return encode(f)
}

// checkBuffer rejects buffers that cannot be framed as a WAV stream.
func checkBuffer(buf *bandpass.Buffer) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	if buf.NumChannels() == 0 {
		return fmt.Errorf("%w: buffer has no channels", ErrUnsupportedFormat)
	}
	if buf.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrUnsupportedFormat, buf.SampleRate)
	}
	return nil
}

// Encode writes buf as a PCM WAV stream.
func Encode(w io.WriteSeeker, buf *bandpass.Buffer, bitDepth int) error {
	if bitDepth == 0 {
		bitDepth = DefaultBitDepth
	}
	scale, err := fullScale(bitDepth)
	if err != nil {
		return err
	}
	if err := checkBuffer(buf); err != nil {
		return err
	}

	channels := buf.NumChannels()
	encoder := wav.NewEncoder(w, buf.SampleRate, bitDepth, channels, wavFormatPCM)

	maxInt := scale - 1
	minInt := -scale
	offset := pcmOffset(bitDepth)
	intBuf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: buf.SampleRate},
		SourceBitDepth: bitDepth,
	}

	// The encoder writes its header on the first Write, so an empty buffer
	// still goes through the loop once.
	n := buf.Len()
	for start := 0; start == 0 || start < n; start += readChunkFrames {
		end := min(start+readChunkFrames, n)
		intBuf.Data = intBuf.Data[:0]
		for i := start; i < end; i++ {
			for ch := range channels {
				v := math.Round(buf.Data[ch][i] * scale)
				intBuf.Data = append(intBuf.Data, int(max(minInt, min(maxInt, v)))+offset)
			}
		}
		if err := encoder.Write(intBuf); err != nil {
			return fmt.Errorf("failed to write samples: %w", err)
		}
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV: %w", err)
	}
	return nil
}

// EncodeFloat writes buf as a 32-bit IEEE float WAV stream.
func EncodeFloat(w io.WriteSeeker, buf *bandpass.Buffer) error {
	if err := checkBuffer(buf); err != nil {
		return err
	}

	channels := buf.NumChannels()
	enc, err := NewFloatEncoder(w, buf.SampleRate, channels)
	if err != nil {
		return err
	}

	block := make([]float32, 0, readChunkFrames*channels)
	n := buf.Len()
	for start := 0; start < n; start += readChunkFrames {
		end := min(start+readChunkFrames, n)
		block = block[:0]
		for i := start; i < end; i++ {
			for ch := range channels {
				block = append(block, float32(buf.Data[ch][i]))
			}
		}
		if err := enc.WriteFrames(block); err != nil {
			return err
		}
	}
	return enc.Close()
}

// FloatEncoder streams interleaved frames into a 32-bit IEEE float WAV.
// Close must be called to finalize the header.
type FloatEncoder struct {
	enc      *wav.Encoder
	channels int
	frame    []float32
}

// NewFloatEncoder writes the WAV header and opens the data chunk.
func NewFloatEncoder(w io.WriteSeeker, sampleRate, channels int) (*FloatEncoder, error) {
	if channels < 1 || sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d channels at %d Hz", ErrUnsupportedFormat, channels, sampleRate)
	}

	enc := wav.NewEncoder(w, sampleRate, bitsPerSample32, channels, wavFormatFloat)
	// An empty integer buffer writes the header and data chunk start without
	// counting any frames.
	empty := &audio.IntBuffer{Format: &audio.Format{NumChannels: channels, SampleRate: sampleRate}}
	if err := enc.Write(empty); err != nil {
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}

	return &FloatEncoder{enc: enc, channels: channels, frame: make([]float32, channels)}, nil
}

// WriteFrames appends interleaved samples. The length must be a whole
// number of frames.
func (e *FloatEncoder) WriteFrames(interleaved []float32) error {
	if len(interleaved)%e.channels != 0 {
		return fmt.Errorf("%w: %d samples is not a multiple of %d channels", ErrUnsupportedFormat, len(interleaved), e.channels)
	}
	// WriteFrame counts one frame per call, which sizes the data chunk.
	for start := 0; start < len(interleaved); start += e.channels {
		copy(e.frame, interleaved[start:start+e.channels])
		if err := e.enc.WriteFrame(e.frame); err != nil {
			return fmt.Errorf("failed to write samples: %w", err)
		}
	}
	return nil
}

// Close patches the chunk sizes. The underlying writer stays open.
func (e *FloatEncoder) Close() error {
	if err := e.enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV: %w", err)
	}
	return nil
}
