// Command pcmwav wraps raw 16-bit PCM into wav containers: from files, from
// a watched directory, from Gemini speech or over HTTP.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/cwbudde/pcmwav"
	"github.com/cwbudde/pcmwav/internal/config"
)

func main() {
	if err := run(os.Args, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}

		os.Exit(1)
	}
}

// env is the state shared by all commands once the configuration is loaded.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	e := &env{}

	app := &cli.App{
		Name:      "pcmwav",
		Usage:     "wrap raw 16-bit PCM into wav containers",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML configuration",
				Value:   "pcmwav.yaml",
				EnvVars: []string{"PCMWAV_CONFIG"},
			},
		},
		Before: func(c *cli.Context) error {
			envErr := config.LoadEnv()
			if envErr != nil && !config.IsMissing(envErr) {
				return cli.Exit("failed to load .env file: "+envErr.Error(), 2)
			}

			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}

			e.cfg = cfg
			e.logger = initLogger(cfg.Logging, stderr)

			return nil
		},
		// errors are reported by main
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			e.encodeCommand(),
			e.infoCommand(),
			e.toneCommand(),
			e.aiffCommand(),
			e.speakCommand(),
			e.watchCommand(),
			e.serveCommand(),
		},
	}

	return app.Run(args)
}

func initLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// format returns the PCM layout selected by the rate and channels flags,
// falling back to the configuration.
func (e *env) format(c *cli.Context) (pcmwav.Format, error) {
	f := pcmwav.Format{
		SampleRate:  e.cfg.Audio.SampleRate,
		NumChannels: e.cfg.Audio.Channels,
	}

	if c.IsSet("rate") {
		f.SampleRate = c.Int("rate")
	}

	if c.IsSet("channels") {
		f.NumChannels = c.Int("channels")
	}

	if err := f.Validate(); err != nil {
		return f, cli.Exit(err.Error(), 2)
	}

	return f, nil
}

func formatFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: "rate", Usage: "sample rate in hertz (default from config)"},
		&cli.IntFlag{Name: "channels", Usage: "number of interleaved channels (default from config)"},
	}
}
