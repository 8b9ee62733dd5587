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

// Turn runs one dialogue turn in a producer goroutine.
func (uc *implUseCase) Turn(ctx context.Context, sc model.Scope, input dialogue.TurnInput) <-chan dialogue.Event {
	out := make(chan dialogue.Event, 4)
	go func() {
		defer close(out)
		uc.runTurn(ctx, sc, input, emitter{ctx: ctx, out: out})
	}()
	return out
}

func (uc *implUseCase) runTurn(ctx context.Context, sc model.Scope, input dialogue.TurnInput, em emitter) {
	prior := dialogue.EmptyTracker()
	if input.Tracker != nil {
		prior = dialogue.Normalize(*input.Tracker)
	}

	message := strings.TrimSpace(input.Message)
	if message == "" {
		if em.text(MsgMessageRequired) {
			em.send(dialogue.DoneEvent(prior))
		}
		return
	}

	snapshot, err := uc.loadSnapshot(ctx, sc, input.ContextTasks)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		uc.l.Errorf(ctx, "internal.dialogue.usecase.Turn: load context: %v", err)
		if em.text(MsgStoreUnavailable) {
			em.send(dialogue.DoneEvent(prior))
		}
		return
	}

	resp, err := uc.consult(ctx, message, input.History, prior, snapshot)
	if err != nil {
		if ctx.Err() != nil {
			uc.l.Infof(ctx, "internal.dialogue.usecase.Turn: user=%s turn cancelled before dispatch", sc.UserID)
			return
		}
		uc.l.Errorf(ctx, "internal.dialogue.usecase.Turn: %v", err)
		if em.text(fmt.Sprintf(MsgOracleError, err)) {
			em.send(dialogue.DoneEvent(prior))
		}
		return
	}

	decision := dialogue.Decide(resp)
	uc.l.Infof(ctx, "internal.dialogue.usecase.Turn: user=%s outcome=%s state=%s->%s",
		sc.UserID, decision.Outcome, dialogue.StateOf(prior), dialogue.StateOf(decision.Tracker))

	if decision.Outcome != dialogue.OutcomeAccepted {
		if em.text(decision.Reply) {
			em.send(dialogue.DoneEvent(decision.Tracker))
		}
		return
	}

	// Nothing has been written yet, so a cancelled turn is simply dropped.
	if ctx.Err() != nil {
		uc.l.Infof(ctx, "internal.dialogue.usecase.Turn: user=%s turn cancelled before dispatch", sc.UserID)
		return
	}

	result, err := uc.Dispatch(context.WithoutCancel(ctx), sc, decision.Call, snapshot)
	if err != nil {
		uc.emitDispatchFailure(ctx, em, *decision.FunctionCall, err)
		return
	}

	if !em.text(decision.Reply) {
		return
	}
	if !em.send(dialogue.ToolCallEvent(decision.FunctionCall.Name, decision.FunctionCall.Arguments, result)) {
		return
	}
	em.send(dialogue.DoneEvent(dialogue.EmptyTracker()))
}

// loadSnapshot returns the caller's context tasks, or the most recent tasks
// from the store when the caller sent none.
func (uc *implUseCase) loadSnapshot(ctx context.Context, sc model.Scope, given []model.Task) ([]model.Task, error) {
	if given != nil {
		return given, nil
	}
	out, err := uc.taskUC.List(ctx, sc, task.ListInput{Limit: uc.cfg.ContextLimit})
	if err != nil {
		return nil, err
	}
	return out.Tasks, nil
}

// consult asks the oracle for the next step, bounded by the turn timeout.
func (uc *implUseCase) consult(ctx context.Context, message string, history []dialogue.HistoryMessage, prior dialogue.Tracker, snapshot []model.Task) (dialogue.OracleResponse, error) {
	if uc.oracle == nil {
		return dialogue.OracleResponse{}, fmt.Errorf("%w: no language model provider is configured", dialogue.ErrOracleFailure)
	}

	req, err := uc.buildRequest(message, history, prior, snapshot)
	if err != nil {
		return dialogue.OracleResponse{}, fmt.Errorf("%w: %v", dialogue.ErrOracleFailure, err)
	}

	octx, cancel := context.WithTimeout(ctx, uc.cfg.TurnTimeout)
	defer cancel()

	raw, err := uc.oracle.GenerateContent(octx, req)
	if err != nil {
		if errors.Is(octx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return dialogue.OracleResponse{}, fmt.Errorf("%w: timed out after %s", dialogue.ErrOracleFailure, uc.cfg.TurnTimeout)
		}
		return dialogue.OracleResponse{}, fmt.Errorf("%w: %v", dialogue.ErrOracleFailure, err)
	}
	if raw == nil {
		return dialogue.OracleResponse{}, fmt.Errorf("%w: empty output", dialogue.ErrOracleFailure)
	}

	return decodeOracleResponse(raw.Text)
}

// emitDispatchFailure reports a failed dispatch and carries the call's
// tracker so the user can fix the detail and confirm again.
func (uc *implUseCase) emitDispatchFailure(ctx context.Context, em emitter, fc dialogue.FunctionCall, err error) {
	carried := dialogue.TrackerFromCall(fc)
	carried.Args.Confirmation = dialogue.ConfirmationUnset

	var text string
	switch {
	case errors.Is(err, task.ErrTargetNotFound):
		uc.l.Warnf(ctx, "internal.dialogue.usecase.Turn: %s: %v", fc.Name, err)
		text = targetNotFoundText(fc, err)
	case errors.Is(err, task.ErrValidationFailed):
		uc.l.Warnf(ctx, "internal.dialogue.usecase.Turn: %s: %v", fc.Name, err)
		text = fmt.Sprintf(MsgInvalidDetails, err)
	default:
		uc.l.Errorf(ctx, "internal.dialogue.usecase.Turn: %s: %v", fc.Name, err)
		text = MsgStoreUnavailable
	}

	if em.text(text) {
		em.send(dialogue.DoneEvent(carried))
	}
}

func targetNotFoundText(fc dialogue.FunctionCall, err error) string {
	target := dialogue.Target{ID: fc.Arguments.ID, Name: fc.Arguments.Name}
	text := fmt.Sprintf(MsgTargetNotFound, target)

	var amb *dialogue.AmbiguousTargetError
	if errors.As(err, &amb) && len(amb.Candidates) > 1 {
		lines := make([]string, len(amb.Candidates))
		for i, t := range amb.Candidates {
			lines[i] = fmt.Sprintf("- %s (id %s)", t.Name, t.ID)
		}
		text += "\n" + fmt.Sprintf(MsgTargetCandidates, strings.Join(lines, "\n"))
	}
	return text
}
