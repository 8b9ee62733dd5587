package telegram

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"conversational-task-manager/internal/dialogue"
	"conversational-task-manager/internal/model"
	pkgResponse "conversational-task-manager/pkg/response"
	pkgTelegram "conversational-task-manager/pkg/telegram"
)

// HandleWebhook is the Gin handler for incoming Telegram webhook updates.
// It answers 200 at once and runs the turn in a background goroutine, since
// Telegram retries updates that are not acknowledged within a few seconds.
func (h *handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	if h.cfg.SecretToken != "" {
		got := c.GetHeader(pkgTelegram.SecretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.cfg.SecretToken)) != 1 {
			h.l.Warnf(ctx, "internal.dialogue.delivery.telegram.HandleWebhook: bad secret token")
			pkgResponse.Unauthorized(c)
			return
		}
	}

	var update pkgTelegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		h.l.Errorf(ctx, "internal.dialogue.delivery.telegram.HandleWebhook: failed to parse update: %v", err)
		pkgResponse.Error(c, err, nil)
		return
	}

	// Polls, edits, channel posts and the like carry no message.
	if update.Message == nil || update.Message.Chat == nil {
		pkgResponse.OK(c, map[string]string{"status": "ignored"})
		return
	}

	msg := update.Message
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), processTimeout)
		defer cancel()
		if err := h.processMessage(bgCtx, msg); err != nil {
			h.l.Errorf(bgCtx, "internal.dialogue.delivery.telegram.processMessage: %v", err)
			_ = h.bot.SendMessage(bgCtx, msg.Chat.ID, MsgFailed)
		}
	}()

	pkgResponse.OK(c, map[string]string{"status": "accepted"})
}

// processMessage runs one turn for a chat and replies with its events.
func (h *handler) processMessage(ctx context.Context, msg *pkgTelegram.Message) error {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return nil
	}
	chatID := msg.Chat.ID

	switch command(text) {
	case CommandStart:
		h.sessions.reset(chatID)
		return h.bot.SendMessage(ctx, chatID, MsgWelcome)
	case CommandHelp:
		return h.bot.SendMessage(ctx, chatID, MsgHelp)
	case CommandReset:
		h.sessions.reset(chatID)
		return h.bot.SendMessage(ctx, chatID, MsgReset)
	}

	sess := h.sessions.get(chatID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err := h.bot.SendChatAction(ctx, chatID, pkgTelegram.ChatActionTyping); err != nil {
		h.l.Warnf(ctx, "internal.dialogue.delivery.telegram.processMessage: chat action: %v", err)
	}

	tracker := sess.tracker
	events := dialogue.Collect(h.uc.Turn(ctx, scopeOf(msg), dialogue.TurnInput{
		Message: text,
		History: append([]dialogue.HistoryMessage(nil), sess.history...),
		Tracker: &tracker,
	}))

	// Session state is saved before any reply is sent.
	var replies, outgoing []string
	for _, ev := range events {
		switch ev.Type {
		case dialogue.EventText:
			replies = append(replies, ev.Text)
			outgoing = append(outgoing, ev.Text)
		case dialogue.EventToolCall:
			outgoing = append(outgoing, h.describeToolCall(ev))
		case dialogue.EventDone:
			if ev.Tracker != nil {
				sess.tracker = *ev.Tracker
			}
		}
	}

	reply := strings.Join(replies, "\n")
	if reply == "" {
		reply = MsgNoReply
	}
	sess.remember(h.cfg.HistoryWindow,
		dialogue.HistoryMessage{Role: dialogue.RoleUser, Content: text},
		dialogue.HistoryMessage{Role: dialogue.RoleAssistant, Content: reply},
	)

	for _, out := range outgoing {
		if err := h.bot.SendMessage(ctx, chatID, out); err != nil {
			return fmt.Errorf("send reply: %w", err)
		}
	}

	h.l.Debugf(ctx, "internal.dialogue.delivery.telegram.processMessage: chat %d state %s", chatID, dialogue.StateOf(sess.tracker))
	return nil
}

// command extracts "/cmd" from "/cmd@BotName args".
func command(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd := strings.Fields(text)[0]
	if i := strings.Index(cmd, "@"); i > 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd)
}

func scopeOf(msg *pkgTelegram.Message) model.Scope {
	sc := model.Scope{UserID: fmt.Sprintf("telegram_%d", msg.Chat.ID)}
	if msg.From != nil {
		sc.UserID = fmt.Sprintf("telegram_%d", msg.From.ID)
		sc.Username = msg.From.Username
	}
	return sc
}
