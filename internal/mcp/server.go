// Package mcp exposes the task manager as Model Context Protocol tools so
// assistants can manage tasks directly or hold a conversation turn by turn.
package mcp

import (
	"context"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"conversational-task-manager/internal/dialogue"
	"conversational-task-manager/internal/task"
	pkgLog "conversational-task-manager/pkg/log"
)

// Config names the server and says whether chat_turn is offered.
type Config struct {
	Name       string
	Version    string
	EnableChat bool
	Location   *time.Location
}

// Server wraps the task and dialogue use cases and exposes them as MCP tools.
type Server struct {
	server     *gomcp.Server
	l          pkgLog.Logger
	taskUC     task.UseCase
	dialogueUC dialogue.UseCase
	loc        *time.Location
}

// NewServer creates the MCP server. The direct task tools go through the
// same call validation as the dialogue, confirmation gate included.
func NewServer(l pkgLog.Logger, taskUC task.UseCase, dialogueUC dialogue.UseCase, cfg Config) *Server {
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	s := &Server{
		l:          l,
		taskUC:     taskUC,
		dialogueUC: dialogueUC,
		loc:        cfg.Location,
	}
	s.server = gomcp.NewServer(&gomcp.Implementation{Name: cfg.Name, Version: cfg.Version}, nil)
	s.registerTools(cfg.EnableChat)
	return s
}

// Run serves over stdio until the client disconnects or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying server, for custom transports and tests.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

func (s *Server) registerTools(enableChat bool) {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        ToolAddTask,
		Description: "Create a task. Give a name and exactly one of datetime or date_range. Dates are ISO-8601 or relative (\"tomorrow 5pm\").",
	}, s.handleAddTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        ToolEditTask,
		Description: "Change a task picked by id or exact name. Requires confirmation \"yes\". An empty patch.desc clears the description; patch.datetime and patch.date_range replace each other.",
	}, s.handleEditTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        ToolRemoveTask,
		Description: "Delete a task picked by id or exact name. Requires confirmation \"yes\".",
	}, s.handleRemoveTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        ToolFindTasks,
		Description: "Find tasks by name substring, status and exclusive before/after bounds on the due date. query ranks by meaning instead of exact words.",
	}, s.handleFindTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        ToolListTasks,
		Description: "List tasks newest first with an optional status filter.",
	}, s.handleListTasks)

	if enableChat {
		gomcp.AddTool(s.server, &gomcp.Tool{
			Name:        ToolChatTurn,
			Description: "Run one turn of the task assistant conversation. Pass back the tracker returned by the previous turn.",
		}, s.handleChatTurn)
	}
}
