package usecase

import (
	"time"

	"conversational-task-manager/internal/dialogue"
	"conversational-task-manager/internal/task"
	"conversational-task-manager/pkg/datemath"
	pkgLog "conversational-task-manager/pkg/log"
)

// Config tunes a turn. Zero values fall back to the package defaults.
type Config struct {
	Timezone      string
	ContextLimit  int
	HistoryWindow int
	TurnTimeout   time.Duration
}

type implUseCase struct {
	l      pkgLog.Logger
	oracle dialogue.Oracle
	taskUC task.UseCase
	dates  *datemath.Parser
	cfg    Config
	now    func() time.Time
}

// New creates the dialogue UseCase. It fails on an unknown timezone. A nil
// oracle leaves Dispatch usable and makes every Turn report an oracle failure.
func New(l pkgLog.Logger, oracle dialogue.Oracle, taskUC task.UseCase, cfg Config) (dialogue.UseCase, error) {
	if cfg.Timezone == "" {
		cfg.Timezone = DefaultTimezone
	}
	if cfg.ContextLimit <= 0 {
		cfg.ContextLimit = DefaultContextLimit
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = DefaultHistoryWindow
	}
	if cfg.TurnTimeout <= 0 {
		cfg.TurnTimeout = DefaultTurnTimeout
	}

	dates, err := datemath.NewParser(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	return &implUseCase{
		l:      l,
		oracle: oracle,
		taskUC: taskUC,
		dates:  dates,
		cfg:    cfg,
		now:    time.Now,
	}, nil
}
