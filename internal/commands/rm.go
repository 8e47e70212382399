package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
// Deletion asks for confirmation unless --yes is given.
type RmCmd struct {
	yes bool
	in  io.Reader
}

// SetInput implements InputReader.
func (c *RmCmd) SetInput(r io.Reader) {
	c.in = r
}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete a task" }
func (c *RmCmd) Usage() string      { return "todo rm [--yes] <n>" }
func (c *RmCmd) NeedsBackend() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.yes, "yes", false, "")
	fs.BoolVar(&c.yes, "y", false, "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	cl, task, code := resolveRef(ctx, cfg, svc, args, errOut)
	if cl == nil {
		return code
	}

	if err := cl.RequestDelete(task.ID); err != nil {
		return report(errOut, cl, err)
	}

	if !c.yes && !c.confirm(out, task) {
		cl.CancelDelete()
		if !cfg.Quiet {
			fmt.Fprintln(out, "cancelled")
		}
		return exitcode.Success
	}

	if err := cl.ConfirmDelete(ctx); err != nil {
		return report(errOut, cl, err)
	}

	announce(cfg, out, cl, "")
	return exitcode.Success
}

// confirm prompts on out and reads one answer line. Only "y" or "yes"
// confirms; EOF counts as no.
func (c *RmCmd) confirm(out io.Writer, task service.Task) bool {
	in := c.in
	if in == nil {
		in = os.Stdin
	}

	fmt.Fprintf(out, "Delete task %q? This action cannot be undone. [y/N]: ", task.Name)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out)
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
