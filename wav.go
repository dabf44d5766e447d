package pcmwav

import (
	"errors"
	"time"
)

var (
	// ErrDecode indicates a transport string that is not valid standard base64.
	ErrDecode = errors.New("invalid base64 audio input")
	// ErrMalformedAudio indicates bytes or samples that cannot form whole 16-bit PCM samples.
	ErrMalformedAudio = errors.New("malformed PCM audio")
	// ErrInvalidFormat indicates a format that cannot be described by a canonical WAV header.
	ErrInvalidFormat = errors.New("invalid WAV format")
	// ErrInvalidHeader indicates input that does not start with a RIFF/WAVE header.
	ErrInvalidHeader = errors.New("invalid WAV header")
)

func durationOf(frames, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}

	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}
