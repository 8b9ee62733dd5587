package mcp

// --- Tool inputs ---

type dateRangeInput struct {
	Start string `json:"start" jsonschema:"first day or instant, ISO-8601 or relative"`
	End   string `json:"end" jsonschema:"last day or instant, ISO-8601 or relative"`
}

type addTaskInput struct {
	Name      string          `json:"name" jsonschema:"task name"`
	Desc      string          `json:"desc,omitempty" jsonschema:"optional description"`
	Datetime  string          `json:"datetime,omitempty" jsonschema:"due instant; excludes date_range"`
	DateRange *dateRangeInput `json:"date_range,omitempty" jsonschema:"due window; excludes datetime"`
}

type patchInput struct {
	Name      *string         `json:"name,omitempty" jsonschema:"new name"`
	Desc      *string         `json:"desc,omitempty" jsonschema:"new description; empty clears it"`
	Datetime  *string         `json:"datetime,omitempty" jsonschema:"new due instant; drops any range"`
	DateRange *dateRangeInput `json:"date_range,omitempty" jsonschema:"new due window; drops any instant"`
	Status    *string         `json:"status,omitempty" jsonschema:"pending or done"`
}

type editTaskInput struct {
	ID           string     `json:"id,omitempty" jsonschema:"task id; wins over name"`
	Name         string     `json:"name,omitempty" jsonschema:"exact task name, case-insensitive"`
	Confirmation string     `json:"confirmation,omitempty" jsonschema:"must be yes to apply the change"`
	Patch        patchInput `json:"patch" jsonschema:"fields to change"`
}

type removeTaskInput struct {
	ID           string `json:"id,omitempty" jsonschema:"task id; wins over name"`
	Name         string `json:"name,omitempty" jsonschema:"exact task name, case-insensitive"`
	Confirmation string `json:"confirmation,omitempty" jsonschema:"must be yes to delete"`
}

type findTasksInput struct {
	Name   string `json:"name,omitempty" jsonschema:"case-insensitive name substring"`
	Status string `json:"status,omitempty" jsonschema:"pending or done"`
	Before string `json:"before,omitempty" jsonschema:"due strictly before this date"`
	After  string `json:"after,omitempty" jsonschema:"due strictly after this date"`
	Query  string `json:"query,omitempty" jsonschema:"free text ranked by similarity"`
}

type listTasksInput struct {
	Status string `json:"status,omitempty" jsonschema:"pending or done"`
	Limit  int    `json:"limit,omitempty" jsonschema:"page size, default 50"`
}

type historyInput struct {
	Role    string `json:"role" jsonschema:"user or assistant"`
	Content string `json:"content"`
}

type chatTurnInput struct {
	Message string         `json:"message" jsonschema:"what the user said"`
	History []historyInput `json:"history,omitempty" jsonschema:"earlier messages, oldest first"`
	Tracker map[string]any `json:"tracker,omitempty" jsonschema:"tracker returned by the previous turn"`
}

// --- Tool outputs ---

type taskOutput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status"`
	DueAt       string `json:"due_at,omitempty"`
	RangeStart  string `json:"range_start,omitempty"`
	RangeEnd    string `json:"range_end,omitempty"`
	Due         string `json:"due,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type dispatchOutput struct {
	Op        string       `json:"op"`
	Message   string       `json:"message"`
	Task      *taskOutput  `json:"task,omitempty"`
	RemovedID string       `json:"removed_id,omitempty"`
	Tasks     []taskOutput `json:"tasks,omitempty"`
}

type listTasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Total int          `json:"total"`
}

type chatTurnOutput struct {
	Reply    string          `json:"reply"`
	ToolCall *dispatchOutput `json:"tool_call,omitempty"`
	State    string          `json:"state"`
	Tracker  map[string]any  `json:"tracker"`
}
