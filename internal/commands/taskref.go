package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode"

	"todo/internal/client"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskNumber parses the 1-based list position in args[0].
// The number refers to the order printed by `todo list`.
func ParseTaskNumber(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrTaskRefRequired
	}

	ref := args[0]
	if !isAllDigits(ref) {
		return 0, fmt.Errorf("invalid task reference: %s", ref)
	}
	num, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("invalid task reference: %s", ref)
	}
	return num, nil
}

// taskAt returns the task at 1-based position num in the snapshot.
func taskAt(snap client.State, num int) (service.Task, error) {
	if num < 1 || num > len(snap.Tasks) {
		return service.Task{}, fmt.Errorf("task number out of range: %d", num)
	}
	return snap.Tasks[num-1], nil
}

// resolveRef parses the task number in args, mounts a client and finds
// the task. On failure the error has been reported and code is non-zero.
func resolveRef(ctx context.Context, cfg *config.Config, svc service.Service, args []string, errOut io.Writer) (*client.Client, service.Task, int) {
	num, err := ParseTaskNumber(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, service.Task{}, exitcode.UserError
	}

	c, code := mount(ctx, cfg, svc, errOut)
	if c == nil {
		return nil, service.Task{}, code
	}

	task, err := taskAt(c.Snapshot(), num)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, service.Task{}, exitcode.UserError
	}
	return c, task, exitcode.Success
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
