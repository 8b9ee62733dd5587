// Package chatcli is a terminal client for the chat endpoint. It keeps the
// history and tracker itself, so the server stays stateless.
package chatcli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"conversational-task-manager/internal/dialogue"
	"conversational-task-manager/internal/model"
)

var ErrServer = errors.New("server error")

// Client talks to the chat and task endpoints of the API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the server at baseURL. The turn stream has
// no overall deadline; cancel the context to abort it.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

type chatRequest struct {
	Message string                    `json:"message"`
	History []dialogue.HistoryMessage `json:"history"`
	Tracker dialogue.Tracker          `json:"tracker"`
}

// envelope is the JSON body of non-stream responses.
type envelope struct {
	ErrorCode int             `json:"error_code"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
}

// Chat runs one turn and calls onEvent for each streamed event in order.
func (c *Client) Chat(ctx context.Context, message string, history []dialogue.HistoryMessage, tracker dialogue.Tracker, onEvent func(dialogue.Event)) error {
	body, err := json.Marshal(chatRequest{Message: message, History: history, Tracker: tracker})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/chat", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeFailure(resp)
	}
	return readEvents(resp.Body, onEvent)
}

// readEvents parses a text/event-stream body. Only data lines are used;
// multi-line data is joined with newlines.
func readEvents(r io.Reader, onEvent func(dialogue.Event)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var data []string
	flush := func() error {
		if len(data) == 0 {
			return nil
		}
		var ev dialogue.Event
		if err := json.Unmarshal([]byte(strings.Join(data, "\n")), &ev); err != nil {
			return fmt.Errorf("decode event: %w", err)
		}
		data = data[:0]
		onEvent(ev)
		return nil
	}

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if err := flush(); err != nil {
				return err
			}
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}
	return flush()
}

// ListTasks fetches up to limit tasks, newest first.
func (c *Client) ListTasks(ctx context.Context, status string, limit int) ([]model.Task, int, error) {
	q := url.Values{}
	q.Set("limit", fmt.Sprint(limit))
	if status != "" {
		q.Set("status", status)
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/tasks?"+q.Encode(), nil)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, decodeFailure(resp)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, 0, fmt.Errorf("decode tasks: %w", err)
	}
	var page struct {
		Tasks []model.Task `json:"tasks"`
		Total int          `json:"total"`
	}
	if err := json.Unmarshal(env.Data, &page); err != nil {
		return nil, 0, fmt.Errorf("decode tasks: %w", err)
	}
	return page.Tasks, page.Total, nil
}

func decodeFailure(resp *http.Response) error {
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil || env.Message == "" {
		return fmt.Errorf("%w: %s", ErrServer, resp.Status)
	}
	return fmt.Errorf("%w: %s: %s", ErrServer, resp.Status, env.Message)
}
