package llmprovider

import (
	"context"
	"encoding/json"
	"fmt"

	"conversational-task-manager/pkg/gemini"
	"conversational-task-manager/pkg/openaichat"
)

// GeminiAdapter adapts the Gemini client to the Provider interface.
type GeminiAdapter struct {
	client gemini.IGemini
}

func NewGeminiAdapter(client gemini.IGemini) *GeminiAdapter {
	return &GeminiAdapter{client: client}
}

func (a *GeminiAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	gReq := &gemini.Request{
		SystemInstruction: req.SystemInstruction,
		Messages:          make([]gemini.Content, len(req.Messages)),
		Temperature:       req.Temperature,
		MaxTokens:         req.MaxTokens,
		ResponseSchema:    req.ResponseSchema,
	}
	for i, m := range req.Messages {
		role := gemini.RoleUser
		if m.Role == RoleAssistant {
			role = gemini.RoleModel
		}
		gReq.Messages[i] = gemini.Content{Role: role, Text: m.Text}
	}

	resp, err := a.client.GenerateContent(ctx, gReq)
	if err != nil {
		return nil, err
	}

	return &Response{
		Text:         resp.Text,
		ProviderName: a.Name(),
		ModelName:    a.client.Model(),
		Usage: &Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CandidatesTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

func (a *GeminiAdapter) Name() string  { return "gemini" }
func (a *GeminiAdapter) Model() string { return a.client.Model() }

// OpenAIChatAdapter adapts OpenAI-compatible vendors (qwen, deepseek).
type OpenAIChatAdapter struct {
	client openaichat.IClient
}

func NewOpenAIChatAdapter(client openaichat.IClient) *OpenAIChatAdapter {
	return &OpenAIChatAdapter{client: client}
}

func (a *OpenAIChatAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	system, err := systemWithSchema(req.SystemInstruction, req.ResponseSchema)
	if err != nil {
		return nil, err
	}

	oReq := &openaichat.Request{
		Messages:    make([]openaichat.Message, 0, len(req.Messages)+1),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		JSONOutput:  req.ResponseSchema != nil,
	}
	if system != "" {
		oReq.Messages = append(oReq.Messages, openaichat.Message{Role: openaichat.RoleSystem, Content: system})
	}
	for _, m := range req.Messages {
		role := openaichat.RoleUser
		if m.Role == RoleAssistant {
			role = openaichat.RoleAssistant
		}
		oReq.Messages = append(oReq.Messages, openaichat.Message{Role: role, Content: m.Text})
	}

	resp, err := a.client.Complete(ctx, oReq)
	if err != nil {
		return nil, err
	}

	return &Response{
		Text:         resp.Content,
		ProviderName: a.Name(),
		ModelName:    a.client.Model(),
		Usage: &Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

func (a *OpenAIChatAdapter) Name() string  { return a.client.Vendor() }
func (a *OpenAIChatAdapter) Model() string { return a.client.Model() }

// systemWithSchema appends the JSON schema to the system instruction for
// providers that only support a plain JSON mode.
func systemWithSchema(system string, schema map[string]interface{}) (string, error) {
	if schema == nil {
		return system, nil
	}
	raw, err := json.Marshal(schema)
	if err != nil {
		return "", fmt.Errorf("%w: schema: %v", ErrInvalidRequest, err)
	}
	return fmt.Sprintf("%s\n\nRespond with a single JSON object that matches this JSON schema:\n%s", system, raw), nil
}
