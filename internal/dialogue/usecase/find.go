package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"conversational-task-manager/internal/dialogue"
	"conversational-task-manager/internal/model"
	"conversational-task-manager/internal/task"
)

// dispatchFind filters the snapshot, newest first. With a query the
// candidates come from similarity search instead and are ranked by score,
// then recency.
func (uc *implUseCase) dispatchFind(ctx context.Context, sc model.Scope, c dialogue.FindArgs, snapshot []model.Task) (dialogue.DispatchResult, error) {
	filter, err := uc.buildFilter(c)
	if err != nil {
		return dialogue.DispatchResult{}, err
	}

	if c.Query == "" {
		tasks := make([]model.Task, 0)
		for _, t := range snapshot {
			if filter.Match(t) {
				tasks = append(tasks, t)
			}
		}
		sortByRecency(tasks)
		uc.l.Infof(ctx, "internal.dialogue.usecase.Dispatch: user=%s find_tasks matched %d of %d", sc.UserID, len(tasks), len(snapshot))
		return dialogue.DispatchResult{Op: dialogue.OpFindTasks, Tasks: tasks}, nil
	}

	out, err := uc.taskUC.Search(ctx, sc, task.SearchInput{Query: c.Query})
	if err != nil {
		uc.l.Errorf(ctx, "internal.dialogue.usecase.Dispatch: find_tasks search: %v", err)
		return dialogue.DispatchResult{}, err
	}

	known := make(map[string]model.Task, len(snapshot))
	for _, t := range snapshot {
		known[t.ID] = t
	}

	scores := make(map[string]float64, len(out.Hits))
	tasks := make([]model.Task, 0, len(out.Hits))
	for _, hit := range out.Hits {
		if _, dup := scores[hit.TaskID]; dup {
			continue
		}
		t, ok := known[hit.TaskID]
		if !ok {
			t, err = uc.taskUC.Detail(ctx, sc, hit.TaskID)
			if errors.Is(err, task.ErrTaskNotFound) {
				continue
			}
			if err != nil {
				return dialogue.DispatchResult{}, err
			}
		}
		if !filter.Match(t) {
			continue
		}
		scores[t.ID] = hit.Score
		tasks = append(tasks, t)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		si, sj := scores[tasks[i].ID], scores[tasks[j].ID]
		if si != sj {
			return si > sj
		}
		return newer(tasks[i], tasks[j])
	})

	uc.l.Infof(ctx, "internal.dialogue.usecase.Dispatch: user=%s find_tasks query=%q hits=%d", sc.UserID, c.Query, len(tasks))
	return dialogue.DispatchResult{Op: dialogue.OpFindTasks, Tasks: tasks}, nil
}

// buildFilter reads the find slots. A day-only "before" means before that
// day starts; a day-only "after" means after it ends.
func (uc *implUseCase) buildFilter(c dialogue.FindArgs) (task.Filter, error) {
	f := task.Filter{Name: c.Name}

	if c.Status != "" {
		status, err := model.ParseStatus(c.Status)
		if err != nil {
			return task.Filter{}, fmt.Errorf("%w: status: %v", task.ErrValidationFailed, err)
		}
		f.Status = &status
	}
	if c.Before != "" {
		before, err := uc.resolveInstant("before", c.Before, false)
		if err != nil {
			return task.Filter{}, err
		}
		f.Before = &before
	}
	if c.After != "" {
		after, err := uc.resolveInstant("after", c.After, true)
		if err != nil {
			return task.Filter{}, err
		}
		f.After = &after
	}
	return f, nil
}

func sortByRecency(tasks []model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool { return newer(tasks[i], tasks[j]) })
}

func newer(a, b model.Task) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
