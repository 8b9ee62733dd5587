package mcp

const DefaultName = "conversational-task-manager"

const (
	ToolAddTask    = "add_task"
	ToolEditTask   = "edit_task"
	ToolRemoveTask = "remove_task"
	ToolFindTasks  = "find_tasks"
	ToolListTasks  = "list_tasks"
	ToolChatTurn   = "chat_turn"
)

const defaultListLimit = 50
