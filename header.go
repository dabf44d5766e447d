package pcmwav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/go-audio/riff"
)

const (
	// HeaderSize is the size of a canonical PCM WAV header.
	HeaderSize = 44

	fmtChunkSize = 16
	// riffOverhead is everything counted by the RIFF size field except the sample data.
	riffOverhead = HeaderSize - 8
	// maxDataBytes keeps both the RIFF and the data size fields within 32 bits.
	maxDataBytes = math.MaxUint32 - riffOverhead
)

// Header holds the numeric fields of a canonical RIFF/WAVE/PCM header.
// The chunk ids are implied.
type Header struct {
	ChunkSize     uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	DataSize      uint32
}

// NewHeader builds the header for sampleCount 16-bit samples in format f.
// sampleCount counts individual samples, so interleaved channels are included.
func NewHeader(sampleCount int, f Format) (Header, error) {
	if err := f.Validate(); err != nil {
		return Header{}, err
	}

	if sampleCount < 0 {
		return Header{}, fmt.Errorf("%w: negative sample count %d", ErrInvalidFormat, sampleCount)
	}

	dataBytes := uint64(sampleCount) * bytesPerSample
	if dataBytes > maxDataBytes {
		return Header{}, fmt.Errorf("%w: %d bytes of sample data overflow the 32-bit size fields", ErrInvalidFormat, dataBytes)
	}

	return Header{
		ChunkSize:     uint32(riffOverhead + dataBytes),
		AudioFormat:   AudioFormatPCM,
		NumChannels:   uint16(f.NumChannels),
		SampleRate:    uint32(f.SampleRate),
		ByteRate:      uint32(f.ByteRate()),
		BlockAlign:    uint16(f.BlockAlign()),
		BitsPerSample: BitsPerSample,
		DataSize:      uint32(dataBytes),
	}, nil
}

// MarshalBinary returns the 44 header bytes, all integers little-endian.
func (h Header) MarshalBinary() ([]byte, error) {
	return h.appendTo(make([]byte, 0, HeaderSize)), nil
}

func (h Header) appendTo(b []byte) []byte {
	b = append(b, riff.RiffID[:]...)
	b = binary.LittleEndian.AppendUint32(b, h.ChunkSize)
	b = append(b, riff.WavFormatID[:]...)
	b = append(b, riff.FmtID[:]...)
	b = binary.LittleEndian.AppendUint32(b, fmtChunkSize)
	b = binary.LittleEndian.AppendUint16(b, h.AudioFormat)
	b = binary.LittleEndian.AppendUint16(b, h.NumChannels)
	b = binary.LittleEndian.AppendUint32(b, h.SampleRate)
	b = binary.LittleEndian.AppendUint32(b, h.ByteRate)
	b = binary.LittleEndian.AppendUint16(b, h.BlockAlign)
	b = binary.LittleEndian.AppendUint16(b, h.BitsPerSample)
	b = append(b, riff.DataFormatID[:]...)
	b = binary.LittleEndian.AppendUint32(b, h.DataSize)

	return b
}

// Format returns the sample layout described by h.
func (h Header) Format() Format {
	return Format{SampleRate: int(h.SampleRate), NumChannels: int(h.NumChannels)}
}

// Samples is the number of individual samples in the data chunk.
func (h Header) Samples() int {
	if h.BitsPerSample == 0 {
		return 0
	}

	return int(h.DataSize) / int(h.BitsPerSample/8)
}

// Duration is the playback length of the data chunk.
func (h Header) Duration() time.Duration {
	if h.BlockAlign == 0 {
		return 0
	}

	return durationOf(int(h.DataSize)/int(h.BlockAlign), int(h.SampleRate))
}

func (h Header) String() string {
	return fmt.Sprintf("%d Hz @ %d bits, %d channel(s), %d avg bytes/sec, duration: %s",
		h.SampleRate, h.BitsPerSample, h.NumChannels, h.ByteRate, h.Duration())
}

// ReadHeader parses the fmt and data chunk headers of a WAV stream. Chunks
// other than fmt and data are skipped. r is left positioned at the first
// sample.
func ReadHeader(r io.Reader) (Header, error) {
	parser := riff.New(r)

	id, size, err := parser.IDnSize()
	if err != nil {
		return Header{}, fmt.Errorf("%w: %w", ErrInvalidHeader, err)
	}

	if id != riff.RiffID {
		return Header{}, fmt.Errorf("%w: unexpected container id %q", ErrInvalidHeader, id)
	}

	var format [4]byte
	if err := binary.Read(r, binary.BigEndian, &format); err != nil {
		return Header{}, fmt.Errorf("%w: failed to read format: %w", ErrInvalidHeader, err)
	}

	if format != riff.WavFormatID {
		return Header{}, fmt.Errorf("%w: unexpected format %q", ErrInvalidHeader, format)
	}

	h := Header{ChunkSize: size}
	sawFmt := false

	for {
		chunk, err := parser.NextChunk()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}

			return Header{}, fmt.Errorf("%w: missing data chunk: %w", ErrInvalidHeader, err)
		}

		switch chunk.ID {
		case riff.FmtID:
			if err := readFmtChunk(chunk, &h); err != nil {
				return Header{}, err
			}

			sawFmt = true
		case riff.DataFormatID:
			if !sawFmt {
				return Header{}, fmt.Errorf("%w: data chunk before fmt chunk", ErrInvalidHeader)
			}

			h.DataSize = uint32(chunk.Size)

			return h, nil
		default:
			chunk.Drain()
		}
	}
}

func readFmtChunk(chunk *riff.Chunk, h *Header) error {
	fields := []any{&h.AudioFormat, &h.NumChannels, &h.SampleRate, &h.ByteRate, &h.BlockAlign, &h.BitsPerSample}
	for _, field := range fields {
		if err := chunk.ReadLE(field); err != nil {
			return fmt.Errorf("%w: failed to read fmt chunk: %w", ErrInvalidHeader, err)
		}
	}

	chunk.Drain()

	return nil
}
