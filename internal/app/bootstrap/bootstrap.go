package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	electionengine "madison/contexts/election-commission/election-engine"
	enginepostgres "madison/contexts/election-commission/election-engine/adapters/postgres"
	engineapp "madison/contexts/election-commission/election-engine/application"
	engineworkers "madison/contexts/election-commission/election-engine/application/workers"
	engineentities "madison/contexts/election-commission/election-engine/domain/entities"
	publicrecords "madison/contexts/election-commission/public-records-service"
	recordspostgres "madison/contexts/election-commission/public-records-service/adapters/postgres"
	recordscommands "madison/contexts/election-commission/public-records-service/application/commands"
	authorization "madison/contexts/identity-access/authorization-service"
	authzpostgres "madison/contexts/identity-access/authorization-service/adapters/postgres"
	"madison/internal/platform/config"
	"madison/internal/platform/db"
	"madison/internal/platform/httpserver"
	"madison/internal/platform/messaging"
	"madison/internal/shared/events"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  engineworkers.OutboxRelay
	reviewed     engineworkers.ReviewedEventConsumer
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.SharedPool(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	recordsModule := buildRecordsModule(pg, logger)
	engineModule := buildEngineModule(pg, cfg, recordsModule, logger)

	authRepo := authzpostgres.NewRepository(pg.DB, logger)
	authModule := authorization.NewModule(authorization.Dependencies{
		Grants: authRepo,
		Clock:  authzpostgres.SystemClock{},
		IDGen:  authzpostgres.UUIDGenerator{},
		Logger: logger,
	})

	server := httpserver.New(engineModule, recordsModule, authModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.SharedPool(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	recordsModule := buildRecordsModule(pg, logger)
	engineModule := buildEngineModule(pg, cfg, recordsModule, logger)
	engineRepo := enginepostgres.NewRepository(pg.DB, logger)

	return &WorkerApp{
		postgres: pg,
		outboxRelay: engineworkers.OutboxRelay{
			Outbox:    engineRepo,
			Publisher: kafka,
			Clock:     enginepostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		reviewed: engineworkers.ReviewedEventConsumer{
			Subscriber:    kafka,
			Refresher:     engineModule.Refresher,
			Topic:         events.TopicBallotReviewed,
			ConsumerGroup: events.GroupReportRefresh,
			Logger:        logger,
		},
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func buildRecordsModule(pg *db.Postgres, logger *slog.Logger) publicrecords.Module {
	recordsRepo := recordspostgres.NewRepository(pg.DB, logger)
	return publicrecords.NewModule(publicrecords.Dependencies{
		Announcements: recordsRepo,
		Audit:         recordsRepo,
		Clock:         recordspostgres.SystemClock{},
		IDGen:         recordspostgres.UUIDGenerator{},
		Logger:        logger,
	})
}

func buildEngineModule(
	pg *db.Postgres,
	cfg config.Config,
	recordsModule publicrecords.Module,
	logger *slog.Logger,
) electionengine.Module {
	engineRepo := enginepostgres.NewRepository(pg.DB, logger)
	return electionengine.NewModule(electionengine.Dependencies{
		Elections:      engineRepo,
		Candidates:     engineRepo,
		Ballots:        engineRepo,
		Certifications: engineRepo,
		Outbox:         engineRepo,
		Reports: announcementReportPublisher{
			announce: recordsModule.Handler.Announce,
			channel:  "election-results",
		},
		Clock: enginepostgres.SystemClock{},
		IDGen: enginepostgres.UUIDGenerator{},
		Config: engineapp.Config{
			HouseSelectionCap:     cfg.HouseSelectionCap,
			SenateSelectionCap:    cfg.SenateSelectionCap,
			MaxRejectReasonLength: cfg.MaxRejectReasonLength,
			ReportRefreshInterval: cfg.ReportRefreshInterval,
		},
		Logger: logger,
	})
}

// announcementReportPublisher posts each live report revision to the public
// results channel. The announcement id becomes the report reference.
type announcementReportPublisher struct {
	announce recordscommands.AnnounceUseCase
	channel  string
}

func (p announcementReportPublisher) PublishReport(
	ctx context.Context,
	report engineentities.LiveReport,
	previousRef string,
) (string, error) {
	result, err := p.announce.Publish(ctx, recordscommands.PublishAnnouncementCommand{
		ActorID: "election-engine",
		Channel: p.channel,
		Title:   "Live Report: " + report.ElectionID,
		Body:    renderLiveReport(report),
	})
	if err != nil {
		return previousRef, err
	}
	return result.Announcement.AnnouncementID, nil
}

func renderLiveReport(report engineentities.LiveReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Status: %s\n", report.Status)
	fmt.Fprintf(&b, "Ballots: %d submitted, %d accepted (%.1f%%)\n",
		report.Stats.Submitted, report.Stats.Accepted, report.Stats.AcceptedPercent)
	for _, result := range report.Results {
		fmt.Fprintf(&b, "\n%s (%d votes)\n", result.Office, result.TotalVotes)
		for _, tally := range result.Tallies {
			fmt.Fprintf(&b, "  %s: %d (%.1f%%)\n", tally.Label, tally.Votes, tally.Percentage)
		}
	}
	fmt.Fprintf(&b, "\nGenerated at %s", report.GeneratedAt.UTC().Format(time.RFC3339))
	return b.String()
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if err := w.reviewed.Start(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
