package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "todo help" }
func (c *HelpCmd) NeedsBackend() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  todo                                          List all tasks
  todo list [common flags]                      List all tasks
  todo add [common flags] [-d <description>] <name...>
  todo create [common flags] [-d <description>] <name...>
  todo edit [common flags] [-d <description>] <n> [name...]
  todo toggle [common flags] <n>
  todo done [common flags] <n>
  todo rm [common flags] [--yes] <n>
  todo clear [common flags]
  todo tui [common flags]
  todo help
  todo version

<n> is the task number shown by "todo list".

Common flags:
  --config <dir>      Override config directory
  --backend <name>    Task store: http (default) or local
  --quiet             Suppress informational output
  --debug             Print debug logs to stderr
`
