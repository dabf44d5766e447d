package speech

import "context"

// Source synthesizes speech and returns it as base64-encoded 16-bit
// little-endian PCM in the pcmwav.TTSFormat layout.
type Source interface {
	Synthesize(ctx context.Context, text string) (string, error)
}
