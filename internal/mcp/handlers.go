package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"conversational-task-manager/internal/dialogue"
	"conversational-task-manager/internal/model"
	"conversational-task-manager/internal/task"
)

var mcpScope = model.Scope{UserID: "mcp", Username: "mcp"}

func (s *Server) handleAddTask(ctx context.Context, _ *gomcp.CallToolRequest, input addTaskInput) (*gomcp.CallToolResult, dispatchOutput, error) {
	fc := dialogue.FunctionCall{
		Name: dialogue.OpAddTask,
		Arguments: dialogue.Args{
			Name:      input.Name,
			Desc:      input.Desc,
			Datetime:  input.Datetime,
			DateRange: toDateRange(input.DateRange),
		},
	}
	return s.dispatch(ctx, fc)
}

func (s *Server) handleEditTask(ctx context.Context, _ *gomcp.CallToolRequest, input editTaskInput) (*gomcp.CallToolResult, dispatchOutput, error) {
	p := input.Patch
	fc := dialogue.FunctionCall{
		Name: dialogue.OpEditTask,
		Arguments: dialogue.Args{
			ID:           input.ID,
			Name:         input.Name,
			Confirmation: dialogue.Confirmation(input.Confirmation),
			Patch: &dialogue.Patch{
				Name:      p.Name,
				Desc:      p.Desc,
				Datetime:  p.Datetime,
				DateRange: toDateRange(p.DateRange),
				Status:    p.Status,
			},
		},
	}
	return s.dispatch(ctx, fc)
}

func (s *Server) handleRemoveTask(ctx context.Context, _ *gomcp.CallToolRequest, input removeTaskInput) (*gomcp.CallToolResult, dispatchOutput, error) {
	fc := dialogue.FunctionCall{
		Name: dialogue.OpRemoveTask,
		Arguments: dialogue.Args{
			ID:           input.ID,
			Name:         input.Name,
			Confirmation: dialogue.Confirmation(input.Confirmation),
		},
	}
	return s.dispatch(ctx, fc)
}

func (s *Server) handleFindTasks(ctx context.Context, _ *gomcp.CallToolRequest, input findTasksInput) (*gomcp.CallToolResult, dispatchOutput, error) {
	fc := dialogue.FunctionCall{
		Name: dialogue.OpFindTasks,
		Arguments: dialogue.Args{
			Name:   input.Name,
			Status: input.Status,
			Before: input.Before,
			After:  input.After,
			Query:  input.Query,
		},
	}
	return s.dispatch(ctx, fc)
}

func (s *Server) handleListTasks(ctx context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	var filter task.Filter
	if input.Status != "" {
		st, err := model.ParseStatus(input.Status)
		if err != nil {
			return errorResult(fmt.Sprintf("invalid status %q: must be pending or done", input.Status)), listTasksOutput{}, nil
		}
		filter.Status = &st
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	out, err := s.taskUC.List(ctx, mcpScope, task.ListInput{Filter: filter, Limit: limit})
	if err != nil {
		s.l.Errorf(ctx, "internal.mcp.handleListTasks: %v", err)
		return errorResult(fmt.Sprintf("listing tasks: %s", err)), listTasksOutput{}, nil
	}

	return nil, listTasksOutput{Tasks: s.toTaskOutputs(out.Tasks), Total: out.Total}, nil
}

func (s *Server) handleChatTurn(ctx context.Context, _ *gomcp.CallToolRequest, input chatTurnInput) (*gomcp.CallToolResult, chatTurnOutput, error) {
	if strings.TrimSpace(input.Message) == "" {
		return errorResult("message is required"), chatTurnOutput{}, nil
	}

	tracker, err := trackerFromMap(input.Tracker)
	if err != nil {
		return errorResult(err.Error()), chatTurnOutput{}, nil
	}

	history := make([]dialogue.HistoryMessage, 0, len(input.History))
	for _, h := range input.History {
		if h.Role != dialogue.RoleUser && h.Role != dialogue.RoleAssistant {
			return errorResult(fmt.Sprintf("history role %q: must be user or assistant", h.Role)), chatTurnOutput{}, nil
		}
		history = append(history, dialogue.HistoryMessage{Role: h.Role, Content: h.Content})
	}

	events := s.dialogueUC.Turn(ctx, mcpScope, dialogue.TurnInput{
		Message: input.Message,
		History: history,
		Tracker: &tracker,
	})

	var (
		texts []string
		out   chatTurnOutput
		next  *dialogue.Tracker
	)
	for ev := range events {
		switch ev.Type {
		case dialogue.EventText:
			texts = append(texts, ev.Text)
		case dialogue.EventToolCall:
			if ev.Result != nil {
				call := s.toDispatchOutput(*ev.Result)
				out.ToolCall = &call
			}
		case dialogue.EventDone:
			next = ev.Tracker
		}
	}
	if next == nil {
		return errorResult("turn ended without a result"), chatTurnOutput{}, nil
	}

	out.Reply = strings.Join(texts, "\n")
	out.State = string(dialogue.StateOf(*next))
	out.Tracker, err = trackerToMap(*next)
	if err != nil {
		return errorResult(err.Error()), chatTurnOutput{}, nil
	}
	return nil, out, nil
}

// dispatch runs a direct tool call through the same validation and
// confirmation gate as a conversational one.
func (s *Server) dispatch(ctx context.Context, fc dialogue.FunctionCall) (*gomcp.CallToolResult, dispatchOutput, error) {
	call, err := dialogue.ParseCall(fc)
	if err != nil {
		return errorResult(callErrorText(fc, err)), dispatchOutput{}, nil
	}

	snapshot, err := s.taskUC.List(ctx, mcpScope, task.ListInput{})
	if err != nil {
		s.l.Errorf(ctx, "internal.mcp.dispatch: load tasks: %v", err)
		return errorResult(callErrorText(fc, err)), dispatchOutput{}, nil
	}

	res, err := s.dialogueUC.Dispatch(ctx, mcpScope, call, snapshot.Tasks)
	if err != nil {
		s.l.Warnf(ctx, "internal.mcp.dispatch: %s: %v", fc.Name, err)
		return errorResult(callErrorText(fc, err)), dispatchOutput{}, nil
	}

	return nil, s.toDispatchOutput(res), nil
}

func callErrorText(fc dialogue.FunctionCall, err error) string {
	var (
		verr *dialogue.ValidationError
		amb  *dialogue.AmbiguousTargetError
	)
	switch {
	case errors.Is(err, dialogue.ErrConfirmationRequired):
		return fmt.Sprintf("%s changes stored data: repeat the call with confirmation \"yes\"", fc.Name)
	case errors.As(err, &verr):
		return fmt.Sprintf("missing or invalid fields: %s", strings.Join(verr.Fields, ", "))
	case errors.As(err, &amb) && len(amb.Candidates) > 1:
		ids := make([]string, len(amb.Candidates))
		for i, t := range amb.Candidates {
			ids[i] = fmt.Sprintf("%s (id %s)", t.Name, t.ID)
		}
		return fmt.Sprintf("%d tasks are named %q, pick one by id: %s", len(amb.Candidates), amb.Name, strings.Join(ids, "; "))
	case errors.Is(err, task.ErrTargetNotFound):
		return fmt.Sprintf("no task matches %s", dialogue.Target{ID: fc.Arguments.ID, Name: fc.Arguments.Name})
	case errors.Is(err, task.ErrValidationFailed):
		return err.Error()
	case errors.Is(err, task.ErrStoreUnavailable):
		return "the task store is unavailable, try again later"
	default:
		return fmt.Sprintf("%s failed: %s", fc.Name, err)
	}
}

func trackerFromMap(m map[string]any) (dialogue.Tracker, error) {
	if len(m) == 0 {
		return dialogue.EmptyTracker(), nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return dialogue.Tracker{}, fmt.Errorf("%w: %v", dialogue.ErrInvalidTracker, err)
	}
	return dialogue.DecodeTracker(data)
}

func trackerToMap(t dialogue.Tracker) (map[string]any, error) {
	data, err := dialogue.EncodeTracker(t)
	if err != nil {
		return nil, err
	}
	m := map[string]any{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
