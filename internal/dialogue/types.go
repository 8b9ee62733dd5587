package dialogue

import (
	"conversational-task-manager/internal/model"
)

// Op is the task operation a conversation is heading towards.
type Op string

const (
	OpNone       Op = "none"
	OpAddTask    Op = "add_task"
	OpEditTask   Op = "edit_task"
	OpRemoveTask Op = "remove_task"
	OpFindTasks  Op = "find_tasks"
)

// Ops lists every operation in schema order.
var Ops = []Op{OpAddTask, OpEditTask, OpRemoveTask, OpFindTasks, OpNone}

// ParseOp maps a wire name to an Op. Empty means none.
func ParseOp(s string) (Op, error) {
	if s == "" {
		return OpNone, nil
	}
	for _, op := range Ops {
		if string(op) == s {
			return op, nil
		}
	}
	return "", ErrUnknownOp
}

// Destructive reports whether the op needs explicit confirmation.
func (o Op) Destructive() bool {
	return o == OpEditTask || o == OpRemoveTask
}

// Confirmation records the user's answer to a destructive op. The zero
// value means the question has not been answered.
type Confirmation string

const (
	ConfirmationUnset Confirmation = ""
	ConfirmationYes   Confirmation = "yes"
	ConfirmationNo    Confirmation = "no"
)

// DateRange is the wire form of a due window. Values are ISO-8601 strings or
// relative expressions resolved at dispatch.
type DateRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Patch lists the fields an edit changes. A nil field is untouched;
// Desc set to "" clears the description.
type Patch struct {
	Name      *string    `json:"name,omitempty"`
	Desc      *string    `json:"desc,omitempty"`
	Datetime  *string    `json:"datetime,omitempty"`
	DateRange *DateRange `json:"date_range,omitempty"`
	Status    *string    `json:"status,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p *Patch) IsEmpty() bool {
	return p == nil || (p.Name == nil && p.Desc == nil && p.Datetime == nil && p.DateRange == nil && p.Status == nil)
}

// Args is the slot bag shared by the tracker and function calls. Which
// fields matter depends on the op.
type Args struct {
	ID           string       `json:"id,omitempty"`
	Name         string       `json:"name,omitempty"`
	Desc         string       `json:"desc,omitempty"`
	Datetime     string       `json:"datetime,omitempty"`
	DateRange    *DateRange   `json:"date_range,omitempty"`
	Status       string       `json:"status,omitempty"`
	Confirmation Confirmation `json:"confirmation,omitempty"`
	Patch        *Patch       `json:"patch,omitempty"`
	Before       string       `json:"before,omitempty"`
	After        string       `json:"after,omitempty"`
	Query        string       `json:"query,omitempty"`
}

// IsEmpty reports whether no slot is filled.
func (a Args) IsEmpty() bool {
	return a.ID == "" && a.Name == "" && a.Desc == "" && a.Datetime == "" && a.DateRange == nil &&
		a.Status == "" && a.Confirmation == ConfirmationUnset && a.Patch == nil &&
		a.Before == "" && a.After == "" && a.Query == ""
}

// Tracker is the slot-filling state carried between turns by the caller.
type Tracker struct {
	Op                Op       `json:"op"`
	Args              Args     `json:"args"`
	Missing           []string `json:"missing"`
	NeedsConfirmation bool     `json:"needsConfirmation"`
}

// FunctionCall is the action proposed by the oracle.
type FunctionCall struct {
	Name      Op   `json:"name"`
	Arguments Args `json:"arguments"`
}

// OracleResponse is the structured output of one oracle call.
type OracleResponse struct {
	Reply        string        `json:"reply"`
	FunctionCall *FunctionCall `json:"function_call,omitempty"`
	Tracker      Tracker       `json:"tracker"`
}

// Role of a history message.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// HistoryMessage is one earlier message of the conversation.
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TurnInput is everything a turn needs. Tracker nil means a fresh
// conversation; ContextTasks nil lets the turn load recent tasks itself.
type TurnInput struct {
	Message      string
	History      []HistoryMessage
	Tracker      *Tracker
	ContextTasks []model.Task
}

// DispatchResult is what an executed call produced.
type DispatchResult struct {
	Op        Op           `json:"op"`
	Task      *model.Task  `json:"task,omitempty"`
	RemovedID string       `json:"removedId,omitempty"`
	Tasks     []model.Task `json:"tasks,omitempty"`
}

// EventType tags a stream event.
type EventType string

const (
	EventText     EventType = "text"
	EventToolCall EventType = "toolCall"
	EventDone     EventType = "done"
)

// Event is one element of a turn stream. A turn emits text events, at most
// one toolCall, then exactly one done carrying the next tracker.
type Event struct {
	Type    EventType       `json:"type"`
	Text    string          `json:"text,omitempty"`
	Name    Op              `json:"name,omitempty"`
	Args    *Args           `json:"args,omitempty"`
	Result  *DispatchResult `json:"result,omitempty"`
	Tracker *Tracker        `json:"tracker,omitempty"`
}

func TextEvent(text string) Event {
	return Event{Type: EventText, Text: text}
}

func ToolCallEvent(name Op, args Args, result DispatchResult) Event {
	return Event{Type: EventToolCall, Name: name, Args: &args, Result: &result}
}

func DoneEvent(t Tracker) Event {
	t = Normalize(t)
	return Event{Type: EventDone, Tracker: &t}
}

// Collect drains a turn stream.
func Collect(events <-chan Event) []Event {
	var out []Event
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

// State is the coarse position of a tracker in the slot-filling machine.
type State string

const (
	StateIdle                 State = "idle"
	StateCollecting           State = "collecting"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateReady                State = "ready"
)
