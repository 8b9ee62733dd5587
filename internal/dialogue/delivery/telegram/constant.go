package telegram

import "time"

const (
	DefaultSessionTTL    = 30 * time.Minute
	DefaultMaxSessions   = 1000
	DefaultHistoryWindow = 20

	// processTimeout bounds one background turn, Telegram round trips included.
	processTimeout = 2 * time.Minute
)

const (
	CommandStart = "/start"
	CommandHelp  = "/help"
	CommandReset = "/reset"
)

const (
	MsgWelcome = "👋 Hi! I keep your task list.\n\n" +
		"Tell me what to do in plain words, for example:\n" +
		"• \"remind me to call mom tomorrow at 5pm\"\n" +
		"• \"move the dentist to next friday\"\n" +
		"• \"what is still pending this week?\"\n\n" +
		"I'll ask when something is missing, and I'll check with you before changing or removing a task."
	MsgHelp = "Commands:\n" +
		"/reset forget the request in progress\n" +
		"/help show this message\n\n" +
		"Anything else is read as a request about your tasks."
	MsgReset       = "Done, I forgot the request in progress."
	MsgFailed      = "Something went wrong while handling your message. Please try again."
	MsgNoReply     = "…"
	MsgNoTasks     = "No tasks matched."
	MsgTaskAdded   = "✅ Added %s"
	MsgTaskUpdated = "✏️ Updated %s"
	MsgTaskRemoved = "🗑 Removed %s"
	MsgTasksFound  = "🔎 %d task(s):"
)
