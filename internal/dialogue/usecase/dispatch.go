package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"conversational-task-manager/internal/dialogue"
	"conversational-task-manager/internal/model"
	"conversational-task-manager/internal/task"
)

// Dispatch executes a validated call. add, edit and remove each make exactly
// one store mutation; find makes none. Nothing is retried.
func (uc *implUseCase) Dispatch(ctx context.Context, sc model.Scope, call dialogue.Call, snapshot []model.Task) (dialogue.DispatchResult, error) {
	switch c := call.(type) {
	case dialogue.AddArgs:
		return uc.dispatchAdd(ctx, sc, c)
	case dialogue.EditArgs:
		return uc.dispatchEdit(ctx, sc, c, snapshot)
	case dialogue.RemoveArgs:
		return uc.dispatchRemove(ctx, sc, c, snapshot)
	case dialogue.FindArgs:
		return uc.dispatchFind(ctx, sc, c, snapshot)
	}
	return dialogue.DispatchResult{}, fmt.Errorf("%w: unsupported call %T", task.ErrValidationFailed, call)
}

func (uc *implUseCase) dispatchAdd(ctx context.Context, sc model.Scope, c dialogue.AddArgs) (dialogue.DispatchResult, error) {
	due, err := uc.resolveDue("", c.Datetime, c.DateRange)
	if err != nil {
		return dialogue.DispatchResult{}, err
	}

	t, err := uc.taskUC.Create(ctx, sc, task.CreateInput{
		Name:        strings.TrimSpace(c.Name),
		Description: c.Desc,
		Due:         due,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.dialogue.usecase.Dispatch: add_task: %v", err)
		return dialogue.DispatchResult{}, err
	}

	uc.l.Infof(ctx, "internal.dialogue.usecase.Dispatch: user=%s added task %s", sc.UserID, t.ID)
	return dialogue.DispatchResult{Op: dialogue.OpAddTask, Task: &t}, nil
}

func (uc *implUseCase) dispatchEdit(ctx context.Context, sc model.Scope, c dialogue.EditArgs, snapshot []model.Task) (dialogue.DispatchResult, error) {
	target, err := uc.resolveTarget(ctx, sc, c.Target, snapshot)
	if err != nil {
		return dialogue.DispatchResult{}, err
	}

	patch, err := uc.buildPatch(c.Patch)
	if err != nil {
		return dialogue.DispatchResult{}, err
	}

	t, err := uc.taskUC.Update(ctx, sc, task.UpdateInput{ID: target.ID, Patch: patch})
	if err != nil {
		if errors.Is(err, task.ErrTaskNotFound) {
			return dialogue.DispatchResult{}, fmt.Errorf("%w: %v", task.ErrTargetNotFound, err)
		}
		uc.l.Errorf(ctx, "internal.dialogue.usecase.Dispatch: edit_task: %v", err)
		return dialogue.DispatchResult{}, err
	}

	uc.l.Infof(ctx, "internal.dialogue.usecase.Dispatch: user=%s edited task %s", sc.UserID, t.ID)
	return dialogue.DispatchResult{Op: dialogue.OpEditTask, Task: &t}, nil
}

func (uc *implUseCase) dispatchRemove(ctx context.Context, sc model.Scope, c dialogue.RemoveArgs, snapshot []model.Task) (dialogue.DispatchResult, error) {
	target, err := uc.resolveTarget(ctx, sc, c.Target, snapshot)
	if err != nil {
		return dialogue.DispatchResult{}, err
	}

	if err := uc.taskUC.Delete(ctx, sc, target.ID); err != nil {
		if errors.Is(err, task.ErrTaskNotFound) {
			return dialogue.DispatchResult{}, fmt.Errorf("%w: %v", task.ErrTargetNotFound, err)
		}
		uc.l.Errorf(ctx, "internal.dialogue.usecase.Dispatch: remove_task: %v", err)
		return dialogue.DispatchResult{}, err
	}

	uc.l.Infof(ctx, "internal.dialogue.usecase.Dispatch: user=%s removed task %s", sc.UserID, target.ID)
	return dialogue.DispatchResult{Op: dialogue.OpRemoveTask, Task: &target, RemovedID: target.ID}, nil
}

// resolveTarget finds the task an edit or remove applies to. An id is looked
// up in the snapshot, then in the store. A name must match exactly one
// snapshot task, ignoring case.
func (uc *implUseCase) resolveTarget(ctx context.Context, sc model.Scope, target dialogue.Target, snapshot []model.Task) (model.Task, error) {
	if target.ID != "" {
		for _, t := range snapshot {
			if t.ID == target.ID {
				return t, nil
			}
		}
		t, err := uc.taskUC.Detail(ctx, sc, target.ID)
		if err != nil {
			if errors.Is(err, task.ErrTaskNotFound) {
				return model.Task{}, fmt.Errorf("%w: id %s", task.ErrTargetNotFound, target.ID)
			}
			return model.Task{}, err
		}
		return t, nil
	}

	matches := matchByName(snapshot, target.Name)
	if len(matches) != 1 {
		return model.Task{}, &dialogue.AmbiguousTargetError{Name: target.Name, Candidates: matches}
	}
	return matches[0], nil
}

func matchByName(snapshot []model.Task, name string) []model.Task {
	name = strings.TrimSpace(name)
	var matches []model.Task
	for _, t := range snapshot {
		if strings.EqualFold(strings.TrimSpace(t.Name), name) {
			matches = append(matches, t)
		}
	}
	return matches
}

// buildPatch converts the wire patch. A new datetime replaces any range and a
// new range replaces any fixed instant, since Due is a single union.
func (uc *implUseCase) buildPatch(p dialogue.Patch) (model.TaskPatch, error) {
	var out model.TaskPatch

	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		out.Name = &name
	}
	if p.Desc != nil {
		desc := *p.Desc
		out.Description = &desc
	}
	if p.Status != nil {
		status, err := model.ParseStatus(*p.Status)
		if err != nil {
			return model.TaskPatch{}, fmt.Errorf("%w: patch.status: %v", task.ErrValidationFailed, err)
		}
		out.Status = &status
	}

	switch {
	case p.Datetime != nil:
		due, err := uc.resolveDue("patch.", *p.Datetime, nil)
		if err != nil {
			return model.TaskPatch{}, err
		}
		out.Due = &due
	case p.DateRange != nil:
		due, err := uc.resolveDue("patch.", "", p.DateRange)
		if err != nil {
			return model.TaskPatch{}, err
		}
		out.Due = &due
	}

	if out.IsEmpty() {
		return model.TaskPatch{}, fmt.Errorf("%w: %v", task.ErrValidationFailed, task.ErrEmptyPatch)
	}
	return out, nil
}
