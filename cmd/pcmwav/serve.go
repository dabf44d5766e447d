package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"

	"github.com/cwbudde/pcmwav"
	"github.com/cwbudde/pcmwav/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

func (e *env) serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve wav containers by handle over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address (default from config)"},
		},
		Action: func(c *cli.Context) error {
			addr := e.cfg.Server.Address
			if c.IsSet("addr") {
				addr = c.String("addr")
			}

			promReg := prometheus.NewRegistry()
			promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			srv := &server{
				reg:     pcmwav.NewRegistry(),
				metrics: metrics.New(promReg),
				logger:  e.logger,
				maxBody: e.cfg.Server.MaxBodyBytes,
			}
			srv.metrics.Observe(srv.reg)

			if e.cfg.Gemini.APIKey != "" {
				src, err := newSpeechSource(c.Context, e.cfg.Gemini)
				if err != nil {
					return err
				}

				srv.speech = src
			} else {
				e.logger.Warn("no gemini api key configured, /speak is disabled")
			}

			httpServer := &http.Server{
				Addr:         addr,
				Handler:      srv.routes(promReg),
				ReadTimeout:  e.cfg.Server.ReadTimeoutDuration(),
				WriteTimeout: e.cfg.Server.WriteTimeoutDuration(),
				IdleTimeout:  60 * time.Second,
			}

			ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				e.logger.Info("starting HTTP server", "address", addr)
				errc <- httpServer.ListenAndServe()
			}()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			e.logger.Info("stopping HTTP server")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			err := httpServer.Shutdown(shutdownCtx)
			released := srv.reg.ReleaseAll()
			e.logger.Info("released playback handles", "count", released)

			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}

			return nil
		},
	}
}
