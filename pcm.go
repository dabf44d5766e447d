package pcmwav

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-audio/audio"
)

const bytesPerSample = BitsPerSample / 8

// BytesToInt16LE reinterprets b as consecutive little-endian two's complement
// 16-bit samples. The byte length has to be even.
func BytesToInt16LE(b []byte) ([]int16, error) {
	if len(b)%bytesPerSample != 0 {
		return nil, fmt.Errorf("%w: odd byte length %d", ErrMalformedAudio, len(b))
	}

	samples := make([]int16, len(b)/bytesPerSample)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(b[i*bytesPerSample:]))
	}

	return samples, nil
}

// IntBuffer wraps samples into a go-audio buffer carrying f.
func IntBuffer(samples []int16, f Format) *audio.IntBuffer {
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}

	return &audio.IntBuffer{
		Format:         f.AudioFormat(),
		Data:           data,
		SourceBitDepth: BitsPerSample,
	}
}

func intToInt16(v int) (int16, error) {
	if v < math.MinInt16 || v > math.MaxInt16 {
		return 0, fmt.Errorf("%w: sample %d out of 16-bit range", ErrMalformedAudio, v)
	}

	return int16(v), nil
}
