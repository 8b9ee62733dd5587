package telegram

import (
	"fmt"
	"strings"

	"conversational-task-manager/internal/dialogue"
	"conversational-task-manager/internal/model"
)

// describeToolCall summarizes an executed call for the chat.
func (h *handler) describeToolCall(ev dialogue.Event) string {
	res := ev.Result
	if res == nil {
		return string(ev.Name)
	}

	switch res.Op {
	case dialogue.OpAddTask:
		return fmt.Sprintf(MsgTaskAdded, h.describeTask(res.Task))
	case dialogue.OpEditTask:
		return fmt.Sprintf(MsgTaskUpdated, h.describeTask(res.Task))
	case dialogue.OpRemoveTask:
		if res.Task != nil {
			return fmt.Sprintf(MsgTaskRemoved, h.describeTask(res.Task))
		}
		return fmt.Sprintf(MsgTaskRemoved, res.RemovedID)
	case dialogue.OpFindTasks:
		if len(res.Tasks) == 0 {
			return MsgNoTasks
		}
		var b strings.Builder
		fmt.Fprintf(&b, MsgTasksFound, len(res.Tasks))
		for i := range res.Tasks {
			fmt.Fprintf(&b, "\n%d. %s", i+1, h.describeTask(&res.Tasks[i]))
		}
		return b.String()
	}
	return string(ev.Name)
}

func (h *handler) describeTask(t *model.Task) string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%q", t.Name)
	if due := t.Due.Describe(h.cfg.Location); due != "" {
		b.WriteString(" · " + due)
	}
	if t.Status == model.StatusDone {
		b.WriteString(" · done")
	}
	return b.String()
}
