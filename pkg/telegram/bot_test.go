package telegram_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"conversational-task-manager/pkg/telegram"
)

func TestBot(t *testing.T) {
	var mu sync.Mutex
	var sent []string
	var lastWebhook telegram.SetWebhookRequest
	var lastAction telegram.SendChatActionRequest

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		path := r.URL.Path

		switch {
		case strings.HasSuffix(path, "/setWebhook"):
			json.NewDecoder(r.Body).Decode(&lastWebhook)
			if lastWebhook.URL == "cause_error" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"ok": false, "description": "invalid url"}`))
				return
			}
			w.Write([]byte(`{"ok": true, "description": "webhook set"}`))
		case strings.HasSuffix(path, "/sendMessage"):
			var req telegram.SendMessageRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.Text == "cause_error" {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"ok": false, "description": "invalid text"}`))
				return
			}
			if req.Text == "cause_500" {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			sent = append(sent, req.Text)
			w.Write([]byte(`{"ok": true}`))
		case strings.HasSuffix(path, "/sendChatAction"):
			json.NewDecoder(r.Body).Decode(&lastAction)
			w.Write([]byte(`{"ok": true}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	bot := telegram.NewBot("test-token")
	bot.SetAPIURL(ts.URL)
	ctx := context.Background()

	t.Run("SetWebhook Success", func(t *testing.T) {
		if err := bot.SetWebhook(ctx, "https://example.com/webhook/telegram", "s3cret"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if lastWebhook.SecretToken != "s3cret" || len(lastWebhook.AllowedUpdates) != 1 {
			t.Errorf("unexpected payload %+v", lastWebhook)
		}
	})

	t.Run("SetWebhook API Failed", func(t *testing.T) {
		err := bot.SetWebhook(ctx, "cause_error", "")
		if err == nil || !strings.Contains(err.Error(), "invalid url") {
			t.Fatalf("expected API description in error, got %v", err)
		}
	})

	t.Run("SendMessage Success", func(t *testing.T) {
		sent = nil
		if err := bot.SendMessage(ctx, 123, "hello"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sent) != 1 || sent[0] != "hello" {
			t.Errorf("unexpected messages %v", sent)
		}
	})

	t.Run("SendMessage splits long text", func(t *testing.T) {
		sent = nil
		line := strings.Repeat("ä", 99) + "\n"
		text := strings.Repeat(line, 60) // 6000 runes
		if err := bot.SendMessage(ctx, 123, text); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(sent) != 2 {
			t.Fatalf("expected 2 chunks, got %d", len(sent))
		}
		for _, chunk := range sent {
			if utf8.RuneCountInString(chunk) > telegram.MaxMessageLength {
				t.Errorf("chunk too long: %d runes", utf8.RuneCountInString(chunk))
			}
		}
		if !strings.HasSuffix(sent[0], "\n") {
			t.Errorf("first chunk should end at a line break")
		}
		if strings.Join(sent, "") != text {
			t.Errorf("chunks do not reassemble the original text")
		}
	})

	t.Run("SendMessage API Failed", func(t *testing.T) {
		if err := bot.SendMessage(ctx, 123, "cause_error"); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("SendMessage HTTP 500", func(t *testing.T) {
		if err := bot.SendMessage(ctx, 123, "cause_500"); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("SendChatAction", func(t *testing.T) {
		if err := bot.SendChatAction(ctx, 42, telegram.ChatActionTyping); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if lastAction.ChatID != 42 || lastAction.Action != "typing" {
			t.Errorf("unexpected payload %+v", lastAction)
		}
	})

	t.Run("Unreachable API", func(t *testing.T) {
		broken := telegram.NewBot("x")
		broken.SetAPIURL("http://127.0.0.1:1")
		if err := broken.SendMessage(ctx, 1, "hi"); err == nil {
			t.Fatalf("expected connection error")
		}
	})
}
