package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"phonebook/internal/platform/config"
	"phonebook/internal/platform/logger"
)

// cli carries state resolved once in PersistentPreRunE and shared by commands.
type cli struct {
	configPath string
	cfg        config.Config
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "importer",
		Short: "Reconcile the user directory snapshot into the phonebook store",
		Long: `importer reads the latest user directory snapshot, reconciles it against
the stored population, writes the active phone number list and converges
the store under its request-unit budget. A report is sent after every run.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = logger.New(cfg.Log.Level, cfg.Log.Format)
			slog.SetDefault(c.logger)
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "path to a YAML config file (environment variables take precedence)")

	root.AddCommand(newRunCmd(c), newServeCmd(c), newOrgStatusCmd(c))
	return root
}
