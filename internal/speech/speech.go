// Package speech turns text into base64 PCM ready for pcmwav.
package speech

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"github.com/cwbudde/pcmwav"
)

var (
	// ErrEmptyText is returned when there is nothing to synthesize.
	ErrEmptyText = errors.New("speech: empty text")
	// ErrNoAudio is returned when the model response carries no audio part.
	ErrNoAudio = errors.New("speech: response contains no audio")
	// ErrUnexpectedFormat is returned when the audio is not in the
	// pcmwav.TTSFormat layout.
	ErrUnexpectedFormat = errors.New("speech: unexpected audio format")
)

// Synthesize asks Gemini to read text aloud.
func (g *implGemini) Synthesize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: g.voice,
				},
			},
		},
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(text), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	return extractAudio(result)
}

// extractAudio concatenates the inline audio parts of the first candidate.
func extractAudio(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", ErrNoAudio
	}

	var pcm []byte
	for _, part := range result.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil {
			continue
		}

		if err := checkMIMEType(part.InlineData.MIMEType); err != nil {
			return "", err
		}

		pcm = append(pcm, part.InlineData.Data...)
	}

	if len(pcm) == 0 {
		return "", ErrNoAudio
	}

	return base64.StdEncoding.EncodeToString(pcm), nil
}

// checkMIMEType accepts raw L16/PCM audio at the TTS rate. A missing rate
// parameter is taken to mean the default rate.
func checkMIMEType(mimeType string) error {
	if mimeType == "" {
		return nil
	}

	mediaType, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrUnexpectedFormat, mimeType, err)
	}

	switch mediaType {
	case "audio/l16", "audio/pcm":
	default:
		return fmt.Errorf("%w: %s", ErrUnexpectedFormat, mediaType)
	}

	for key, want := range map[string]int{
		"rate":     pcmwav.TTSFormat.SampleRate,
		"channels": pcmwav.TTSFormat.NumChannels,
	} {
		v, ok := params[key]
		if !ok {
			continue
		}

		got, err := strconv.Atoi(v)
		if err != nil || got != want {
			return fmt.Errorf("%w: %s=%s, want %d", ErrUnexpectedFormat, key, v, want)
		}
	}

	return nil
}

// Speak synthesizes text and registers the resulting container in r.
func Speak(ctx context.Context, src Source, r *pcmwav.Registry, text string) (pcmwav.Handle, error) {
	b64, err := src.Synthesize(ctx, text)
	if err != nil {
		return "", err
	}

	return r.CreateFromBase64(b64)
}
