package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func newRunCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run a single import and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return c.runOnce(ctx)
		},
	}
}

func (c *cli) runOnce(ctx context.Context) error {
	a, err := wire(ctx, c.cfg, c.logger, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer a.close()

	summary, err := a.service.Run(ctx)
	if err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "import complete",
		"run_id", summary.RunID,
		"active", len(summary.Result.Active),
		"inactive", len(summary.Result.Inactive),
		"remaining", summary.Outcome.Remaining,
	)
	return nil
}
