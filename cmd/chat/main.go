package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"conversational-task-manager/internal/chatcli"
)

func main() {
	_ = godotenv.Load(".env")

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		server      string
		historyFile string
		window      int
		timezone    string
	)

	cmd := &cobra.Command{
		Use:   "task-chat",
		Short: "Chat with the task assistant from the terminal",
		Long: `task-chat sends each line to the task assistant and prints its replies.
The conversation state lives in this process: history and the slot tracker
are sent with every turn, so the server keeps nothing between turns.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := time.LoadLocation(timezone)
			if err != nil {
				return fmt.Errorf("--timezone %q: %w", timezone, err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
			defer stop()

			return chatcli.Run(ctx, chatcli.Config{
				Server:      server,
				HistoryFile: historyFile,
				Window:      window,
				Location:    loc,
			})
		},
	}

	cmd.Flags().StringVar(&server, "server", envOr("TASK_CHAT_SERVER", chatcli.DefaultServer), "API server base URL")
	cmd.Flags().StringVar(&historyFile, "history", defaultHistoryFile(), "readline history file (empty disables it)")
	cmd.Flags().IntVar(&window, "window", chatcli.DefaultWindow, "messages of history sent with each turn")
	cmd.Flags().StringVar(&timezone, "timezone", "Local", "timezone used to show due dates")

	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".task_chat_history")
}
