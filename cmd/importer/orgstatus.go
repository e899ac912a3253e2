package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"phonebook/internal/directory/store/orgstatus"
	"phonebook/internal/platform/postgres"
	"phonebook/internal/platform/redis"
	"phonebook/pkg/platform/sentinel"
)

func newOrgStatusCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orgstatus",
		Short: "Manage organisation status reference data",
	}

	var file string
	load := &cobra.Command{
		Use:   "load",
		Short: "Replace the organisation status table from a JSON object of orgCode to active flag",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.loadOrgStatus(cmd.Context(), file)
		},
	}
	load.Flags().StringVarP(&file, "file", "f", "", "path to the JSON mapping")
	_ = load.MarkFlagRequired("file")

	cmd.AddCommand(load)
	return cmd
}

func (c *cli) loadOrgStatus(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read organisation status file: %w", err)
	}
	var status map[string]bool
	if err := json.Unmarshal(data, &status); err != nil {
		return fmt.Errorf("%w: decode organisation status file: %v", sentinel.ErrInvalidInput, err)
	}

	db, err := postgres.Open(ctx, c.cfg.Database)
	if err != nil {
		return err
	}
	if db == nil {
		return errors.New("DATABASE_URL is required to load organisation status")
	}
	defer db.Close()

	source := orgstatus.NewPostgres(db)
	if err := source.Migrate(ctx); err != nil {
		return err
	}
	if err := source.Replace(ctx, status); err != nil {
		return err
	}

	rdb, err := redis.New(ctx, c.cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		cache, err := orgstatus.NewRedisCache(rdb.Client, source, orgstatus.WithLogger(c.logger))
		if err != nil {
			return err
		}
		if err := cache.Invalidate(ctx); err != nil {
			return fmt.Errorf("invalidate organisation status cache: %w", err)
		}
	}

	c.logger.InfoContext(ctx, "organisation status loaded", "entries", len(status))
	return nil
}
