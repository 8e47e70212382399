// Package client keeps a local mirror of a task store in sync with it.
//
// Every mutation follows the same discipline: validate locally, send one
// request, and on success re-fetch the full list and swap it in whole.
// The list is never patched in place, so a snapshot is always either the
// last successful fetch or a stale one waiting for the next.
//
// Requests are not serialised against each other. Overlapping operations
// are allowed and the last fetch to land wins.
package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"todo/internal/service"
)

// SuccessTTL is how long a success message stays visible.
const SuccessTTL = 3 * time.Second

// Client owns the task list state.
type Client struct {
	svc service.Service
	log *zap.Logger
	now func() time.Time
	ttl time.Duration

	mu    sync.Mutex
	state State
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithClock overrides the clock used for message expiry (for testing).
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithSuccessTTL overrides SuccessTTL.
func WithSuccessTTL(d time.Duration) Option {
	return func(c *Client) { c.ttl = d }
}

// New creates a client over svc. The list is empty until Refresh.
func New(svc service.Service, opts ...Option) *Client {
	c := &Client{
		svc: svc,
		log: zap.NewNop(),
		now: time.Now,
		ttl: SuccessTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns a copy of the current state. An expired success
// message is dropped.
func (c *Client) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if m := c.state.Message; m.Kind == MessageSuccess && c.now().Sub(m.At) >= c.ttl {
		c.state.Message = Message{}
	}
	return c.state.clone()
}

// MessageTTL returns how long a success message stays visible.
func (c *Client) MessageTTL() time.Duration {
	return c.ttl
}

// SetDraft replaces the add form contents.
func (c *Client) SetDraft(name, description string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Draft = Draft{Name: name, Description: description}
}

// DismissMessage clears the current message.
func (c *Client) DismissMessage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Message = Message{}
}

// Refresh fetches the full list and swaps it in. On failure the previous
// list stays in place and an error message is shown.
func (c *Client) Refresh(ctx context.Context) error {
	tasks, err := c.svc.ListTasks(ctx)
	if err != nil {
		c.log.Debug("fetch failed", zap.Error(err))
		c.fail(fmt.Sprintf("Failed to fetch tasks: %v", err))
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Tasks = tasks
	c.state.Loaded = true
	if c.state.Message.Kind == MessageError {
		c.state.Message = Message{}
	}
	c.log.Debug("fetched tasks", zap.Int("count", len(tasks)))
	return nil
}

// Add sets the draft and submits it.
func (c *Client) Add(ctx context.Context, name, description string) error {
	c.SetDraft(name, description)
	return c.Submit(ctx)
}

// Submit creates a task from the draft. A blank name is rejected without
// a request. On success the draft is cleared and the list re-fetched.
func (c *Client) Submit(ctx context.Context) error {
	c.mu.Lock()
	draft := c.state.Draft
	c.mu.Unlock()

	if err := ValidateName(draft.Name); err != nil {
		c.fail(err.Error())
		return err
	}

	task := service.NewTask{Name: strings.TrimSpace(draft.Name), Description: strings.TrimSpace(draft.Description)}
	if err := c.svc.AddTask(ctx, task); err != nil {
		c.log.Debug("add failed", zap.String("name", task.Name), zap.Error(err))
		if isRejected(err) {
			c.fail("Failed to add task.")
		} else {
			c.fail(fmt.Sprintf("Failed to add task: %v", err))
		}
		return err
	}

	c.mu.Lock()
	c.state.Draft = Draft{}
	c.mu.Unlock()

	return c.resync(ctx, "Task added successfully!")
}

// Edit replaces the name and description of a task.
func (c *Client) Edit(ctx context.Context, id int64, name, description string) error {
	if err := ValidateName(name); err != nil {
		c.fail(err.Error())
		return err
	}

	task := service.NewTask{Name: strings.TrimSpace(name), Description: strings.TrimSpace(description)}
	if err := c.svc.UpdateTask(ctx, id, task); err != nil {
		c.log.Debug("edit failed", zap.Int64("id", id), zap.Error(err))
		c.fail(fmt.Sprintf("Failed to update task: %v", err))
		return err
	}
	return c.resync(ctx, "Task updated successfully!")
}

// Toggle flips the completed flag of a task. The local list is not
// touched until the re-fetch.
func (c *Client) Toggle(ctx context.Context, id int64) error {
	if err := c.svc.ToggleTask(ctx, id); err != nil {
		c.log.Debug("toggle failed", zap.Int64("id", id), zap.Error(err))
		c.fail(fmt.Sprintf("Failed to toggle complete: %v", err))
		return err
	}
	return c.resync(ctx, "")
}

// RequestDelete records id as the delete candidate and waits for
// ConfirmDelete or CancelDelete.
func (c *Client) RequestDelete(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	task, ok := c.state.Find(id)
	if !ok {
		c.setMessage(MessageError, ErrUnknownTask.Message)
		return ErrUnknownTask
	}
	c.state.Pending = &task
	return nil
}

// CancelDelete discards the delete candidate. No request is sent.
func (c *Client) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Pending = nil
}

// ConfirmDelete deletes the candidate and re-fetches. With no candidate
// it does nothing. On failure the candidate is kept so the user can retry
// or cancel.
func (c *Client) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	pending := c.state.Pending
	c.mu.Unlock()

	if pending == nil {
		return nil
	}
	id := pending.ID

	if err := c.svc.DeleteTask(ctx, id); err != nil {
		c.log.Debug("delete failed", zap.Int64("id", id), zap.Error(err))
		c.fail(fmt.Sprintf("Failed to delete task: %v", err))
		return err
	}

	c.mu.Lock()
	if c.state.Pending != nil && c.state.Pending.ID == id {
		c.state.Pending = nil
	}
	c.mu.Unlock()

	return c.resync(ctx, "Task deleted successfully!")
}

// DeleteCompleted removes every completed task in one request. With no
// completed tasks it fails validation and sends nothing.
func (c *Client) DeleteCompleted(ctx context.Context) error {
	c.mu.Lock()
	ids := CompletedIDs(c.state.Tasks)
	c.mu.Unlock()

	if len(ids) == 0 {
		c.fail(ErrNothingSelected.Message)
		return ErrNothingSelected
	}

	if err := c.svc.DeleteTasks(ctx, ids); err != nil {
		c.log.Debug("bulk delete failed", zap.Int64s("ids", ids), zap.Error(err))
		if isRejected(err) {
			c.fail("Failed to delete tasks.")
		} else {
			c.fail(fmt.Sprintf("Error deleting tasks: %v", err))
		}
		return err
	}
	return c.resync(ctx, fmt.Sprintf("Deleted %d completed tasks!", len(ids)))
}

// resync re-fetches after a successful mutation and then shows success.
// A failed fetch is returned as *RefreshError.
func (c *Client) resync(ctx context.Context, success string) error {
	if err := c.Refresh(ctx); err != nil {
		return &RefreshError{Err: err}
	}
	if success != "" {
		c.mu.Lock()
		c.setMessage(MessageSuccess, success)
		c.mu.Unlock()
	}
	return nil
}

func (c *Client) fail(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setMessage(MessageError, text)
}

// setMessage replaces the message. Callers hold c.mu.
func (c *Client) setMessage(kind MessageKind, text string) {
	c.state.Message = Message{Kind: kind, Text: text, At: c.now()}
}

func isRejected(err error) bool {
	return errors.Is(err, service.ErrRejected) || errors.Is(err, service.ErrMalformedResponse)
}
