package speech

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
)

// Announcer speaks a line of text to the user.
type Announcer interface {
	Announce(ctx context.Context, text string) error
}

// Command runs an external text-to-speech program with the text as its last
// argument and waits for it to exit.
type Command struct {
	name string
	args []string
}

func NewCommand(name string, args ...string) *Command {
	return &Command{name: name, args: args}
}

func (c *Command) Announce(ctx context.Context, text string) error {
	args := append(append([]string(nil), c.args...), text)
	cmd := exec.CommandContext(ctx, c.name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("speech %s: %w: %s", c.name, err, msg)
		}
		return fmt.Errorf("speech %s: %w", c.name, err)
	}
	return nil
}

// Log writes announcements to a logger instead of speaking them.
type Log struct {
	log zerolog.Logger
}

func NewLog(log zerolog.Logger) *Log {
	return &Log{log: log}
}

func (l *Log) Announce(_ context.Context, text string) error {
	l.log.Info().Str("text", text).Msg("announce")
	return nil
}

type nop struct{}

// Nop discards announcements.
var Nop Announcer = nop{}

func (nop) Announce(context.Context, string) error { return nil }
