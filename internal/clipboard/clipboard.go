// Package clipboard copies text to the system clipboard through the platform's
// clipboard command.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrUnavailable is returned when no clipboard command could take the text.
var ErrUnavailable = errors.New("clipboard unavailable")

type command struct {
	name string
	args []string
}

var commands = []command{
	{name: "pbcopy"},
	{name: "wl-copy"},
	{name: "xclip", args: []string{"-selection", "clipboard"}},
	{name: "xsel", args: []string{"--clipboard", "--input"}},
	{name: "clip.exe"},
}

// Clipboard writes text through the first clipboard command that succeeds.
type Clipboard struct {
	lookPath func(string) (string, error)
	run      func(ctx context.Context, name string, args []string, input string) error
}

func New() *Clipboard {
	return &Clipboard{lookPath: exec.LookPath, run: runCommand}
}

// Copy writes text to the clipboard. It returns an error wrapping
// ErrUnavailable when every command is missing or fails.
func (c *Clipboard) Copy(ctx context.Context, text string) error {
	var failures []string
	for _, cmd := range commands {
		if _, err := c.lookPath(cmd.name); err != nil {
			continue
		}
		if err := c.run(ctx, cmd.name, cmd.args, text); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", cmd.name, err))
			continue
		}
		return nil
	}
	if len(failures) == 0 {
		return fmt.Errorf("%w: no clipboard command found", ErrUnavailable)
	}
	return fmt.Errorf("%w: %s", ErrUnavailable, strings.Join(failures, "; "))
}

func runCommand(ctx context.Context, name string, args []string, input string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(input)
	return cmd.Run()
}
