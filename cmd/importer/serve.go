package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"phonebook/internal/directory/handler"
	"phonebook/internal/directory/scheduler"
	"phonebook/internal/platform/httpserver"
)

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run imports on a schedule and expose health, metrics and manual triggers over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx)
		},
	}
}

func (c *cli) serve(ctx context.Context) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a, err := wire(ctx, c.cfg, c.logger, reg)
	if err != nil {
		return err
	}
	defer a.close()

	sched, err := scheduler.New(a.service, c.cfg.Import.Interval, scheduler.WithLogger(c.logger))
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	opts := []handler.Option{
		handler.WithLogger(c.logger),
		handler.WithRunContext(gctx),
	}
	for name, check := range a.healthChecks {
		opts = append(opts, handler.WithHealthCheck(name, check))
	}
	h := handler.New(sched, reg, opts...)
	srv := httpserver.New(c.cfg.Server.Addr, h.Router())

	g.Go(func() error {
		return sched.Run(gctx)
	})
	g.Go(func() error {
		c.logger.InfoContext(gctx, "serving ops endpoints", "addr", c.cfg.Server.Addr)
		return httpserver.Serve(gctx, srv)
	})

	// The scheduler returns context.Canceled on a normal shutdown.
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	c.logger.Info("importer stopped")
	return nil
}
