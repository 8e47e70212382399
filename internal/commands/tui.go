package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/tui"
)

func init() {
	Register(&TUICmd{})
}

// TUICmd starts the interactive terminal UI.
type TUICmd struct {
	in io.Reader
}

// SetInput implements InputReader.
func (c *TUICmd) SetInput(r io.Reader) {
	c.in = r
}

func (c *TUICmd) Name() string       { return "tui" }
func (c *TUICmd) Aliases() []string  { return nil }
func (c *TUICmd) Synopsis() string   { return "Open the interactive task list" }
func (c *TUICmd) Usage() string      { return "todo tui" }
func (c *TUICmd) NeedsBackend() bool { return true }

func (c *TUICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TUICmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	opts := []tea.ProgramOption{tea.WithOutput(out), tea.WithAltScreen()}
	if c.in != nil {
		opts = append(opts, tea.WithInput(c.in))
	}

	if err := tui.Run(ctx, newClient(cfg, svc), opts...); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
