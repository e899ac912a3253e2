package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"phonebook/internal/directory/converge"
	"phonebook/internal/directory/events"
	"phonebook/internal/directory/handler"
	"phonebook/internal/directory/notify"
	"phonebook/internal/directory/phonelist"
	"phonebook/internal/directory/ports"
	"phonebook/internal/directory/reconcile"
	"phonebook/internal/directory/service"
	"phonebook/internal/directory/snapshot"
	"phonebook/internal/directory/store/orgstatus"
	"phonebook/internal/directory/store/users"
	"phonebook/internal/platform/config"
	"phonebook/internal/platform/kafka"
	"phonebook/internal/platform/metrics"
	"phonebook/internal/platform/postgres"
	"phonebook/internal/platform/redis"
)

// app is the wired dependency graph for one process.
type app struct {
	service      *service.Service
	healthChecks map[string]handler.HealthCheck
	closers      []func() error
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Warn("failed to release resource", "error", err)
		}
	}
}

// wire connects configured infrastructure. Unconfigured optional pieces fall
// back to in-process implementations: an in-memory user store, log delivery of
// reports and no run events.
func wire(ctx context.Context, cfg config.Config, logger *slog.Logger, reg prometheus.Registerer) (*app, error) {
	a := &app{healthChecks: map[string]handler.HealthCheck{}}
	wired := false
	defer func() {
		if !wired {
			a.close()
		}
	}()

	if len(cfg.Snapshot.Paths) == 0 {
		return nil, errors.New("no snapshot paths configured (SNAPSHOT_PATHS)")
	}

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	throttle := users.NewThrottle(cfg.Store.RequestUnitsPerSecond)

	var store ports.UserStore
	var orgSource ports.OrgStatusSource
	if db != nil {
		a.closers = append(a.closers, db.Close)
		a.healthChecks["postgres"] = db.PingContext

		pg := users.NewPostgres(db, users.WithThrottle(throttle))
		if err := pg.Migrate(ctx); err != nil {
			return nil, err
		}
		store = pg

		orgs := orgstatus.NewPostgres(db)
		if err := orgs.Migrate(ctx); err != nil {
			return nil, err
		}
		orgSource = orgs
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory user store")
		store = users.NewInMemory(users.WithThrottle(throttle))
	}

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	if rdb != nil {
		a.closers = append(a.closers, rdb.Close)
		a.healthChecks["redis"] = rdb.Health
		if orgSource != nil {
			cache, err := orgstatus.NewRedisCache(rdb.Client, orgSource,
				orgstatus.WithTTL(cfg.Redis.OrgStatusTTL),
				orgstatus.WithLogger(logger),
			)
			if err != nil {
				return nil, fmt.Errorf("build organisation status cache: %w", err)
			}
			orgSource = cache
		}
	}

	var notifier ports.Notifier = notify.NewLogNotifier(logger)
	if cfg.Mail.Host != "" {
		mail, err := notify.NewMailNotifier(cfg.Mail)
		if err != nil {
			return nil, fmt.Errorf("build mail notifier: %w", err)
		}
		notifier = mail
	}

	m := metrics.New(reg)
	opts := []service.Option{
		service.WithLogger(logger),
		service.WithMetrics(m),
		service.WithReconciler(reconcile.New(reconcile.WithDefaultActive(cfg.Import.DefaultActive))),
		service.WithExtractor(phonelist.NewExtractor(cfg.Import.PhoneRegion)),
		service.WithEngineOptions(converge.WithConfig(converge.Config{
			BatchSize:      cfg.Import.BatchSize,
			MaxAttempts:    cfg.Import.MaxAttempts,
			AttemptBackoff: cfg.Import.AttemptBackoff,
			BatchBackoff:   cfg.Import.BatchBackoff,
		})),
	}
	// Organisation status is only consulted when required; otherwise every
	// incoming user gets the configured default active flag.
	if cfg.Import.RequireOrgStatus {
		opts = append(opts, service.RequireOrgStatus())
		if orgSource != nil {
			opts = append(opts, service.WithOrgStatus(orgSource))
		}
	}
	if cfg.Output.PhoneNumbersPath != "" {
		opts = append(opts, service.WithPhoneListSink(phonelist.NewFileSink(cfg.Output.PhoneNumbersPath)))
	}

	producer, err := kafka.NewProducer(ctx, cfg.Kafka)
	if err != nil {
		return nil, err
	}
	if producer != nil {
		a.closers = append(a.closers, func() error { producer.Close(); return nil })
		pub, err := events.NewKafkaPublisher(producer, cfg.Kafka.Topic)
		if err != nil {
			return nil, err
		}
		opts = append(opts, service.WithPublisher(pub))
	}

	svc, err := service.New(snapshot.FromPaths(cfg.Snapshot.Paths), store, notifier, opts...)
	if err != nil {
		return nil, err
	}
	a.service = svc
	wired = true
	return a, nil
}
