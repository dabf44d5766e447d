package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/cwbudde/pcmwav"
	"github.com/cwbudde/pcmwav/internal/config"
	"github.com/cwbudde/pcmwav/internal/speech"
)

// newSpeechSource is replaced in tests.
var newSpeechSource = func(ctx context.Context, cfg config.GeminiConfig) (speech.Source, error) {
	return speech.NewGemini(ctx, speech.Options{
		APIKey: cfg.APIKey,
		Model:  cfg.Model,
		Voice:  cfg.Voice,
	})
}

func (e *env) speakCommand() *cli.Command {
	return &cli.Command{
		Name:      "speak",
		Usage:     "synthesize text with Gemini and save it as a wav file",
		ArgsUsage: "text...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Usage: "recap title used for the file name"},
			&cli.StringFlag{Name: "dir", Usage: "directory to write to", Value: "."},
			&cli.StringFlag{Name: "voice", Usage: "prebuilt voice name (default from config)"},
		},
		Action: func(c *cli.Context) error {
			text := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(text) == "" {
				return cli.Exit("speak expects the text to read", 2)
			}

			gemini := e.cfg.Gemini
			if c.IsSet("voice") {
				gemini.Voice = c.String("voice")
			}

			src, err := newSpeechSource(c.Context, gemini)
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}

			reg := pcmwav.NewRegistry()
			defer reg.ReleaseAll()

			h, err := speech.Speak(c.Context, src, reg, text)
			if err != nil {
				return fmt.Errorf("failed to synthesize speech: %w", err)
			}

			out, err := reg.Export(h, c.String("dir"), c.String("title"))
			if err != nil {
				return err
			}

			e.logger.Info("saved speech", "path", out, "voice", gemini.Voice)
			fmt.Fprintln(c.App.Writer, out)

			return nil
		},
	}
}
