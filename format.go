package pcmwav

import (
	"fmt"
	"math"

	"github.com/go-audio/audio"
)

const (
	// BitsPerSample is the only sample depth produced by this package.
	BitsPerSample = 16
	// AudioFormatPCM is the WAVE format tag for uncompressed linear PCM.
	AudioFormatPCM = 1
)

// Format describes the layout of the PCM samples stored in a container.
type Format struct {
	SampleRate  int
	NumChannels int
}

// TTSFormat is the fixed output of the upstream text-to-speech model:
// 24 kHz, mono, signed 16-bit little-endian PCM. The model's payload does not
// describe itself, so a change upstream has to be mirrored here. Audio from any
// other source must use Encode with its own Format instead of the handle facade.
var TTSFormat = Format{SampleRate: 24000, NumChannels: 1}

// Validate reports ErrInvalidFormat when f cannot be written into the 16 and
// 32-bit fields of a canonical header.
func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidFormat, f.SampleRate)
	}

	if f.NumChannels <= 0 {
		return fmt.Errorf("%w: channel count must be positive, got %d", ErrInvalidFormat, f.NumChannels)
	}

	if uint64(f.NumChannels)*bytesPerSample > math.MaxUint16 {
		return fmt.Errorf("%w: too many channels: %d", ErrInvalidFormat, f.NumChannels)
	}

	if uint64(f.SampleRate) > math.MaxUint32 {
		return fmt.Errorf("%w: sample rate overflows 32 bits: %d", ErrInvalidFormat, f.SampleRate)
	}

	// cannot wrap: both factors are bounded above
	if uint64(f.SampleRate)*uint64(f.NumChannels)*bytesPerSample > math.MaxUint32 {
		return fmt.Errorf("%w: byte rate overflows 32 bits (%d Hz, %d channels)", ErrInvalidFormat, f.SampleRate, f.NumChannels)
	}

	return nil
}

// BlockAlign is the size in bytes of one frame.
func (f Format) BlockAlign() int {
	return f.NumChannels * bytesPerSample
}

// ByteRate is the number of bytes per second of audio.
func (f Format) ByteRate() int {
	return f.SampleRate * f.BlockAlign()
}

// AudioFormat converts f to its go-audio counterpart.
func (f Format) AudioFormat() *audio.Format {
	return &audio.Format{
		NumChannels: f.NumChannels,
		SampleRate:  f.SampleRate,
	}
}

func (f Format) String() string {
	return fmt.Sprintf("%d Hz @ %d bits, %d channel(s)", f.SampleRate, BitsPerSample, f.NumChannels)
}
