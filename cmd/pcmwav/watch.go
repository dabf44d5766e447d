package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/cwbudde/pcmwav/internal/watcher"
)

func (e *env) watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "convert base64 PCM files as they appear in a directory",
		Flags: append(formatFlags(),
			&cli.StringFlag{Name: "input", Usage: "directory to watch (default from config)"},
			&cli.StringFlag{Name: "output", Usage: "directory to write wav files to (default next to the input)"},
		),
		Action: func(c *cli.Context) error {
			f, err := e.format(c)
			if err != nil {
				return err
			}

			opts := e.cfg.Watch
			if c.IsSet("input") {
				opts.Input = c.String("input")
			}
			if c.IsSet("output") {
				opts.Output = c.String("output")
			}
			if opts.Input == "" {
				return cli.Exit("watch needs an input directory", 2)
			}

			handler := watcher.EncodeFile(f, opts.Output, func(path string, size int, err error) {
				if err == nil {
					e.logger.Info("wrote wav file", "path", path, "bytes", size)
				}
			})

			w, err := watcher.New(opts.Input, handler, watcher.Options{
				Extension:     opts.Extension,
				MaxConcurrent: opts.MaxConcurrent,
				Logger:        e.logger,
			})
			if err != nil {
				return err
			}
			defer w.Stop()

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			return nil
		},
	}
}
