// Package notify delivers reminder notifications. Delivery is best-effort:
// the scheduler logs failures and moves on.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/lucasmr/memoria/pkg/model"
)

// LogNotifier prints reminders to the structured log. It is the fallback
// when no desktop notification command is available.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, note model.Notification) error {
	n.logger.Info("reminder due",
		"title", note.Title, "message", note.Message, "date", note.Date, "time", note.Time)
	return nil
}

// CommandNotifier shells out to a desktop notification command such as
// notify-send, passing the title and the body as the two arguments.
type CommandNotifier struct {
	command string
}

func NewCommandNotifier(command string) *CommandNotifier {
	return &CommandNotifier{command: command}
}

func (n *CommandNotifier) Notify(ctx context.Context, note model.Notification) error {
	body := note.Message
	when := strings.TrimSpace(note.Date + " " + note.Time)
	if when != "" {
		body = fmt.Sprintf("%s\nData: %s", note.Message, when)
	}

	cmd := exec.CommandContext(ctx, n.command, note.Title, body)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("run %s: %w", n.command, err)
	}
	return nil
}

var (
	_ model.Notifier = (*LogNotifier)(nil)
	_ model.Notifier = (*CommandNotifier)(nil)
)
