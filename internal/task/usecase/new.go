package usecase

import (
	"time"

	"github.com/google/uuid"

	"conversational-task-manager/internal/task"
	"conversational-task-manager/internal/task/repository"
	pkgLog "conversational-task-manager/pkg/log"
)

type implUseCase struct {
	l            pkgLog.Logger
	repo         repository.Repository
	vectorRepo   repository.VectorRepository   // optional
	calendarRepo repository.CalendarRepository // optional
	now          func() time.Time
	newID        func() string
}

// New creates a new task UseCase instance. vectorRepo and calendarRepo may be nil.
func New(
	l pkgLog.Logger,
	repo repository.Repository,
	vectorRepo repository.VectorRepository,
	calendarRepo repository.CalendarRepository,
) task.UseCase {
	return &implUseCase{
		l:            l,
		repo:         repo,
		vectorRepo:   vectorRepo,
		calendarRepo: calendarRepo,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}
