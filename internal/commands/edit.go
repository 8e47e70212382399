package commands

import (
	"context"
	"flag"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// optionalString is a flag value that remembers whether it was set.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

// EditCmd implements the edit command.
type EditCmd struct {
	description optionalString
}

func (c *EditCmd) Name() string       { return "edit" }
func (c *EditCmd) Aliases() []string  { return nil }
func (c *EditCmd) Synopsis() string   { return "Rename a task or change its description" }
func (c *EditCmd) Usage() string      { return "todo edit [-d <description>] <n> [name...]" }
func (c *EditCmd) NeedsBackend() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	// fs.Var keeps the current value, so clear what a previous run left.
	c.description = optionalString{}
	fs.Var(&c.description, "description", "")
	fs.Var(&c.description, "d", "")
}

// Run keeps the current name when none is given and the current
// description when -d is absent.
func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	cl, task, code := resolveRef(ctx, cfg, svc, args, errOut)
	if cl == nil {
		return code
	}

	name := task.Name
	if len(args) > 1 {
		name = strings.Join(args[1:], " ")
	}
	desc := task.Description
	if c.description.set {
		desc = c.description.value
	}

	if err := cl.Edit(ctx, task.ID, name, desc); err != nil {
		return report(errOut, cl, err)
	}

	announce(cfg, out, cl, "")
	return exitcode.Success
}
