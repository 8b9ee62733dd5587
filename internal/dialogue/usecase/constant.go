package usecase

import "time"

// Time context template
const (
	TimeContextTemplate = `

[TIME CONTEXT]
- Now: %s
- Today: %s (%s)
- Tomorrow: %s
- This week: %s to %s
- Timezone: %s

Resolve relative dates ("tomorrow", "next friday", "this week") against the values above
and always write them as ISO-8601 (YYYY-MM-DDTHH:MM:SS with offset, or YYYY-MM-DD).`
)

// System prompt
const (
	SystemPromptDialogue = `You are the assistant of a conversational task manager.
You turn user requests about tasks into structured JSON that follows the response schema.
Every response has:
- "reply": a short message to the user (follow-up question, confirmation request or summary).
- "function_call": present only when an operation is ready to execute.
- "tracker": the slot-filling state carried to the next turn.

Operations: add_task, edit_task, remove_task, find_tasks. Use "none" when no operation is inferred.

Rules:
1. Fill every mandatory field before emitting a function_call. add_task needs "name" plus either
   "datetime" or "date_range" {start, end}. edit_task needs "id" or the exact "name" plus a "patch"
   with at least one field. remove_task needs "id" or the exact "name". find_tasks needs nothing.
   While fields are missing, ask one concise follow-up question and list them in tracker.missing.
2. Use ISO-8601 for every date and time value.
3. Before edit_task or remove_task, ask the user to confirm explicitly. Record the answer in
   args.confirmation as "yes" or "no" and keep tracker.needsConfirmation true until it is "yes".
   If the user says no, drop the operation and reset the tracker.
4. Emit at most one function_call per turn.
5. Reset the tracker to {"op":"none","args":{},"missing":[],"needsConfirmation":false} exactly when
   you emit a function_call, and only then.
6. "datetime" and "date_range" are mutually exclusive, also inside "patch". Setting one clears the other.
7. When the user picks a task from contextTasks, target it by "id". Otherwise use its exact "name".
8. For fuzzy or meaning-based lookups ("anything about groceries?") use find_tasks with "query".
   Use "name", "status", "before" and "after" for exact filters.

The user turn is a JSON object with "contextTasks" (known tasks), "tracker" (state from the previous
turn) and "user" (the new message). Keep building on the given tracker.`
)

// User-facing messages
const (
	MsgMessageRequired  = "message is required"
	MsgOracleError      = "Error: %v"
	MsgStoreUnavailable = "Sorry, the task store is unavailable right now. Please try again in a moment."
	MsgTargetNotFound   = "I couldn't find a single task matching %s. Which task do you mean? You can pick one by id."
	MsgTargetCandidates = "Tasks with that name:\n%s"
	MsgInvalidDetails   = "I couldn't use those details: %v. Could you rephrase them?"
)

// Defaults
const (
	DefaultContextLimit  = 50
	DefaultHistoryWindow = 20
	DefaultTurnTimeout   = 45 * time.Second
	DefaultTimezone      = "UTC"

	OracleTemperature = 0.2
	OracleMaxTokens   = 2048

	// Calendar date layout used in the time context.
	DateFormatISO = "2006-01-02"
)
