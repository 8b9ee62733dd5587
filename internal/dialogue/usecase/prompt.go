package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"conversational-task-manager/internal/dialogue"
	"conversational-task-manager/internal/model"
	"conversational-task-manager/pkg/llmprovider"
)

// userPayload is the last message of every oracle request.
type userPayload struct {
	ContextTasks []model.Task     `json:"contextTasks"`
	Tracker      dialogue.Tracker `json:"tracker"`
	User         string           `json:"user"`
}

// buildRequest composes system instruction, time context, the recent history
// window and the JSON payload for this turn.
func (uc *implUseCase) buildRequest(message string, history []dialogue.HistoryMessage, prior dialogue.Tracker, snapshot []model.Task) (*llmprovider.Request, error) {
	if snapshot == nil {
		snapshot = []model.Task{}
	}
	payload, err := json.Marshal(userPayload{ContextTasks: snapshot, Tracker: prior, User: message})
	if err != nil {
		return nil, fmt.Errorf("encode prompt payload: %w", err)
	}

	if len(history) > uc.cfg.HistoryWindow {
		history = history[len(history)-uc.cfg.HistoryWindow:]
	}

	messages := make([]llmprovider.Message, 0, len(history)+1)
	for _, h := range history {
		text := strings.TrimSpace(h.Content)
		if text == "" {
			continue
		}
		switch h.Role {
		case dialogue.RoleUser:
			messages = append(messages, llmprovider.Message{Role: llmprovider.RoleUser, Text: text})
		case dialogue.RoleAssistant:
			messages = append(messages, llmprovider.Message{Role: llmprovider.RoleAssistant, Text: text})
		}
	}
	messages = append(messages, llmprovider.Message{Role: llmprovider.RoleUser, Text: string(payload)})

	return &llmprovider.Request{
		SystemInstruction: SystemPromptDialogue + buildTimeContext(uc.now(), uc.dates.Location()),
		Messages:          messages,
		Temperature:       OracleTemperature,
		MaxTokens:         OracleMaxTokens,
		ResponseSchema:    responseSchema(),
	}, nil
}

// decodeOracleResponse reads the structured output, tolerating code fences
// and prose around the JSON object.
func decodeOracleResponse(text string) (dialogue.OracleResponse, error) {
	cleaned := sanitizeJSONResponse(text)
	if cleaned == "" {
		return dialogue.OracleResponse{}, fmt.Errorf("%w: empty output", dialogue.ErrOracleFailure)
	}

	var resp dialogue.OracleResponse
	if err := json.Unmarshal([]byte(cleaned), &resp); err != nil {
		return dialogue.OracleResponse{}, fmt.Errorf("%w: decode output: %v", dialogue.ErrOracleFailure, err)
	}
	return resp, nil
}

func str() map[string]interface{} {
	return map[string]interface{}{"type": "string"}
}

func strEnum(values ...string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "enum": values}
}

func object(props map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"type": "object", "properties": props}
}

func dateRangeSchema() map[string]interface{} {
	return object(map[string]interface{}{"start": str(), "end": str()})
}

func opNames() []string {
	names := make([]string, len(dialogue.Ops))
	for i, op := range dialogue.Ops {
		names[i] = string(op)
	}
	return names
}

func argsSchema() map[string]interface{} {
	return object(map[string]interface{}{
		"id":           str(),
		"name":         str(),
		"desc":         str(),
		"datetime":     str(),
		"date_range":   dateRangeSchema(),
		"status":       strEnum(string(model.StatusPending), string(model.StatusDone)),
		"confirmation": strEnum("yes", "no", "unset"),
		"patch": object(map[string]interface{}{
			"name":       str(),
			"desc":       str(),
			"datetime":   str(),
			"date_range": dateRangeSchema(),
			"status":     strEnum(string(model.StatusPending), string(model.StatusDone)),
		}),
		"before": str(),
		"after":  str(),
		"query":  str(),
	})
}

// responseSchema is the structured output contract of the oracle.
func responseSchema() map[string]interface{} {
	functionCall := object(map[string]interface{}{
		"name":      strEnum(opNames()...),
		"arguments": argsSchema(),
	})
	functionCall["nullable"] = true

	tracker := object(map[string]interface{}{
		"op":                strEnum(opNames()...),
		"args":              argsSchema(),
		"missing":           map[string]interface{}{"type": "array", "items": str()},
		"needsConfirmation": map[string]interface{}{"type": "boolean"},
	})

	schema := object(map[string]interface{}{
		"reply":         str(),
		"function_call": functionCall,
		"tracker":       tracker,
	})
	schema["required"] = []string{"reply", "tracker"}
	return schema
}
