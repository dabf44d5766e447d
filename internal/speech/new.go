package speech

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const (
	defaultModel = "gemini-2.5-flash-preview-tts"
	defaultVoice = "Kore"
)

type implGemini struct {
	client *genai.Client
	model  string
	voice  string
}

// Options configures the Gemini speech source.
type Options struct {
	APIKey string
	Model  string
	Voice  string
}

// NewGemini creates a Source backed by the Gemini text-to-speech models.
func NewGemini(ctx context.Context, opts Options) (Source, error) {
	if opts.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	g := &implGemini{
		client: client,
		model:  opts.Model,
		voice:  opts.Voice,
	}

	if g.model == "" {
		g.model = defaultModel
	}
	if g.voice == "" {
		g.voice = defaultVoice
	}

	return g, nil
}
