package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"todo/internal/client"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

// newClient wraps svc in a task list client that logs through cfg.
func newClient(cfg *config.Config, svc service.Service) *client.Client {
	return client.New(svc, client.WithLogger(cfg.Logger().Named("client")))
}

// mount creates a client and performs the initial fetch.
// On failure the error has already been reported and code is non-zero.
func mount(ctx context.Context, cfg *config.Config, svc service.Service, errOut io.Writer) (c *client.Client, code int) {
	c = newClient(cfg, svc)
	if err := c.Refresh(ctx); err != nil {
		return nil, report(errOut, c, err)
	}
	return c, exitcode.Success
}

// report prints the client's current message as an error and maps err
// to an exit code.
func report(errOut io.Writer, c *client.Client, err error) int {
	text := c.Snapshot().Message.Text
	if text == "" {
		text = err.Error()
	}
	fmt.Fprintf(errOut, "error: %s\n", text)

	var verr *client.ValidationError
	if errors.As(err, &verr) {
		return exitcode.UserError
	}
	return exitcode.BackendError
}

// announce prints the client's success message unless quiet.
func announce(cfg *config.Config, out io.Writer, c *client.Client, fallback string) {
	if cfg.Quiet {
		return
	}
	msg := c.Snapshot().Message
	if msg.Kind == client.MessageSuccess {
		fmt.Fprintln(out, msg.Text)
		return
	}
	if fallback != "" {
		fmt.Fprintln(out, fallback)
	}
}
