package chatcli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"conversational-task-manager/internal/dialogue"
)

// Config tunes the terminal client.
type Config struct {
	Server      string
	HistoryFile string // readline history; empty keeps none
	Window      int
	Location    *time.Location
}

// REPL reads lines from the terminal and runs them as dialogue turns.
type REPL struct {
	client  *Client
	session *Session
	loc     *time.Location
	out     io.Writer
}

func NewREPL(cfg Config, out io.Writer) *REPL {
	if cfg.Server == "" {
		cfg.Server = DefaultServer
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &REPL{
		client:  NewClient(cfg.Server),
		session: NewSession(cfg.Window),
		loc:     cfg.Location,
		out:     out,
	}
}

// Run reads lines until /quit, EOF or ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt(dialogue.StateIdle),
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       cmdQuit,
	})
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer rl.Close()

	r := NewREPL(cfg, rl.Stdout())
	fmt.Fprintln(r.out, dimStyle.Render(helpText))

	for {
		if ctx.Err() != nil {
			return nil
		}
		rl.SetPrompt(prompt(r.session.State()))

		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		if quit := r.Handle(ctx, line); quit {
			return nil
		}
	}
}

func prompt(state dialogue.State) string {
	return dimStyle.Render("["+string(state)+"]") + " > "
}

// Handle processes one input line and reports whether the user quit.
func (r *REPL) Handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case cmdQuit, cmdExit:
		return true
	case cmdHelp:
		fmt.Fprintln(r.out, helpText)
	case cmdReset:
		r.session.Reset()
		fmt.Fprintln(r.out, dimStyle.Render("Conversation reset."))
	case cmdTracker:
		text, err := TrackerYAML(r.session.Tracker)
		if err != nil {
			r.fail(err)
			return false
		}
		fmt.Fprintln(r.out, text)
	case cmdTasks:
		status := ""
		if len(fields) > 1 {
			status = fields[1]
		}
		tasks, total, err := r.client.ListTasks(ctx, status, taskPageSize)
		if err != nil {
			r.fail(err)
			return false
		}
		fmt.Fprintln(r.out, RenderTasks(tasks, total, r.loc))
	default:
		r.turn(ctx, line)
	}
	return false
}

// turn streams one dialogue turn. Ctrl-C while waiting cancels it; the
// session then keeps its previous tracker.
func (r *REPL) turn(ctx context.Context, message string) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	var events []dialogue.Event
	err := r.client.Chat(ctx, message, r.session.Recent(), r.session.Tracker, func(ev dialogue.Event) {
		events = append(events, ev)
		switch ev.Type {
		case dialogue.EventText:
			fmt.Fprintln(r.out, assistantStyle.Render(ev.Text))
		case dialogue.EventToolCall:
			fmt.Fprintln(r.out, dimStyle.Render("✓ "+describeToolCall(ev, r.loc)))
		}
	})
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(r.out, dimStyle.Render("Cancelled."))
			return
		}
		r.fail(err)
		return
	}
	r.session.Record(message, events)
}

func (r *REPL) fail(err error) {
	fmt.Fprintln(r.out, errorStyle.Render("Error: "+err.Error()))
}
