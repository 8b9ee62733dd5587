package chatcli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"

	"conversational-task-manager/internal/dialogue"
	"conversational-task-manager/internal/model"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	doneStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Column widths in terminal cells.
const (
	nameWidth   = 32
	dueWidth    = 38
	statusWidth = 8
)

// RenderTasks lays tasks out as a table. Widths are measured in terminal
// cells so wide characters stay aligned.
func RenderTasks(tasks []model.Task, total int, loc *time.Location) string {
	if len(tasks) == 0 {
		return dimStyle.Render("No tasks.")
	}

	var b strings.Builder
	header := cell("NAME", nameWidth) + "  " + cell("DUE", dueWidth) + "  " + cell("STATUS", statusWidth) + "  ID"
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for _, t := range tasks {
		due := t.Due.Describe(loc)
		if due == "" {
			due = "-"
		}
		status := cell(string(t.Status), statusWidth)
		if t.Status == model.StatusDone {
			status = doneStyle.Render(status)
		} else {
			status = pendingStyle.Render(status)
		}
		fmt.Fprintf(&b, "%s  %s  %s  %s\n", cell(t.Name, nameWidth), cell(due, dueWidth), status, dimStyle.Render(t.ID))
	}

	if total > len(tasks) {
		b.WriteString(dimStyle.Render(fmt.Sprintf("showing %d of %d", len(tasks), total)))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// cell truncates s to width cells and pads it on the right.
func cell(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

// TrackerYAML renders the tracker with its wire field names.
func TrackerYAML(t dialogue.Tracker) (string, error) {
	data, err := dialogue.EncodeTracker(t)
	if err != nil {
		return "", err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", err
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(out), "\n"), nil
}

// describeToolCall summarizes an executed call in one line.
func describeToolCall(ev dialogue.Event, loc *time.Location) string {
	if ev.Result == nil {
		return string(ev.Name)
	}
	res := ev.Result
	switch res.Op {
	case dialogue.OpAddTask, dialogue.OpEditTask:
		if res.Task == nil {
			return string(res.Op)
		}
		verb := "added"
		if res.Op == dialogue.OpEditTask {
			verb = "updated"
		}
		line := fmt.Sprintf("%s %q", verb, res.Task.Name)
		if due := res.Task.Due.Describe(loc); due != "" {
			line += " · " + due
		}
		return line
	case dialogue.OpRemoveTask:
		return "removed " + res.RemovedID
	case dialogue.OpFindTasks:
		return fmt.Sprintf("found %d tasks\n%s", len(res.Tasks), RenderTasks(res.Tasks, len(res.Tasks), loc))
	}
	return string(res.Op)
}
