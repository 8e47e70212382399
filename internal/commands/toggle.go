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
	Register(&ToggleCmd{})
}

// ToggleCmd implements the toggle command.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string       { return "toggle" }
func (c *ToggleCmd) Aliases() []string  { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string   { return "Mark a task completed, or open again" }
func (c *ToggleCmd) Usage() string      { return "todo toggle <n>" }
func (c *ToggleCmd) NeedsBackend() bool { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	cl, task, code := resolveRef(ctx, cfg, svc, args, errOut)
	if cl == nil {
		return code
	}

	if err := cl.Toggle(ctx, task.ID); err != nil {
		return report(errOut, cl, err)
	}

	if !cfg.Quiet {
		// Report what the store says now, not what we asked for.
		updated, ok := cl.Snapshot().Find(task.ID)
		switch {
		case !ok:
			fmt.Fprintln(out, "ok")
		case updated.Completed:
			fmt.Fprintf(out, "completed: %s\n", updated.Name)
		default:
			fmt.Fprintf(out, "reopened: %s\n", updated.Name)
		}
	}
	return exitcode.Success
}
