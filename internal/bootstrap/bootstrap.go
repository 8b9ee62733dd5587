// Package bootstrap builds the collaborators shared by the binaries from
// config: logger, task store, optional vector index and calendar mirror,
// and the intent oracle.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"conversational-task-manager/config"
	"conversational-task-manager/internal/task/repository"
	calendarRepo "conversational-task-manager/internal/task/repository/calendar"
	"conversational-task-manager/internal/task/repository/memory"
	qdrantRepo "conversational-task-manager/internal/task/repository/qdrant"
	sqliteRepo "conversational-task-manager/internal/task/repository/sqlite"
	"conversational-task-manager/pkg/gcalendar"
	"conversational-task-manager/pkg/llmprovider"
	"conversational-task-manager/pkg/log"
	pkgQdrant "conversational-task-manager/pkg/qdrant"
	"conversational-task-manager/pkg/voyage"
)

// Store drivers accepted in store.driver.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

var ErrUnknownDriver = errors.New("unknown store driver")

// Logger builds the zap logger described by cfg.
func Logger(cfg config.LoggerConfig) log.Logger {
	return log.Init(log.ZapConfig{
		Level:        cfg.Level,
		Mode:         cfg.Mode,
		Encoding:     cfg.Encoding,
		ColorEnabled: cfg.ColorEnabled,
	})
}

// Store opens the authoritative task store.
func Store(ctx context.Context, cfg config.StoreConfig, l log.Logger) (repository.Repository, error) {
	switch cfg.Driver {
	case "", DriverSQLite:
		l.Infof(ctx, "Task store: sqlite at %s", cfg.Path)
		return sqliteRepo.New(cfg.Path, l)
	case DriverMemory:
		l.Warn(ctx, "Task store: memory, tasks are lost on exit")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// VectorIndex returns the Qdrant index, or nil when qdrant.url or the
// Voyage key is unset. A collection that cannot be created is logged and
// the index is skipped.
func VectorIndex(ctx context.Context, qcfg config.QdrantConfig, vcfg config.VoyageConfig, l log.Logger) repository.VectorRepository {
	if qcfg.URL == "" || vcfg.APIKey == "" {
		l.Info(ctx, "Vector index disabled: qdrant.url or voyage.api_key is not set")
		return nil
	}

	embedder, err := voyage.New(vcfg.APIKey)
	if err != nil {
		l.Warnf(ctx, "Vector index disabled: %v", err)
		return nil
	}
	embedder.WithModel(vcfg.Model)

	repo := qdrantRepo.New(pkgQdrant.NewClient(qcfg.URL), embedder, qdrantRepo.Config{
		CollectionName: qcfg.CollectionName,
		VectorSize:     qcfg.VectorSize,
		ScoreThreshold: qcfg.ScoreThreshold,
		SearchLimit:    qcfg.SearchLimit,
	}, l)
	if err := repo.EnsureCollection(ctx); err != nil {
		l.Warnf(ctx, "Vector index disabled: %v", err)
		return nil
	}

	l.Infof(ctx, "Vector index: qdrant collection %s", qcfg.CollectionName)
	return repo
}

// Calendar returns the Google Calendar mirror, or nil when no credentials
// are configured or they cannot be loaded.
func Calendar(ctx context.Context, cfg config.GoogleCalendarConfig, timezone string, l log.Logger) repository.CalendarRepository {
	if cfg.CredentialsPath == "" {
		l.Info(ctx, "Calendar mirror disabled: google_calendar.credentials_path is not set")
		return nil
	}

	client, err := gcalendar.NewClientFromCredentialsFile(ctx, cfg.CredentialsPath, cfg.TokenPath)
	if err != nil {
		l.Warnf(ctx, "Calendar mirror disabled: %v", err)
		l.Warn(ctx, "Run `go run ./scripts/gcal-auth` to generate the token")
		return nil
	}

	l.Infof(ctx, "Calendar mirror: %s", cfg.CalendarID)
	return calendarRepo.New(client, cfg.CalendarID, timezone, l)
}

// Oracle builds the provider manager used as the intent oracle.
func Oracle(ctx context.Context, cfg config.LLMConfig, l log.Logger) (*llmprovider.Manager, error) {
	providers, err := llmprovider.InitializeProviders(ctx, &cfg, l)
	if err != nil {
		return nil, err
	}
	managerCfg, err := llmprovider.NewManagerConfig(cfg)
	if err != nil {
		return nil, err
	}

	manager := llmprovider.NewManager(providers, managerCfg, l)
	l.Infof(ctx, "Intent oracle providers: %v", manager.Providers())
	return manager, nil
}
