package client

import (
	"errors"
	"slices"
	"strings"
	"time"

	"todo/internal/service"
)

// MessageKind classifies the single transient message.
type MessageKind int

const (
	MessageNone MessageKind = iota
	MessageError
	MessageSuccess
)

// Message is the one line of feedback shown to the user.
type Message struct {
	Kind MessageKind
	Text string
	At   time.Time
}

// Draft holds the contents of the add form.
type Draft struct {
	Name        string
	Description string
}

// State is an immutable snapshot of the client.
type State struct {
	// Tasks is the last successfully fetched list.
	Tasks []service.Task

	// Loaded reports whether any fetch has succeeded yet.
	Loaded bool

	Draft Draft

	// Pending is the delete candidate awaiting confirmation, nil when idle.
	Pending *service.Task

	Message Message
}

// Confirming reports whether a deletion is awaiting confirmation.
func (s State) Confirming() bool {
	return s.Pending != nil
}

// HasCompleted reports whether any known task is completed.
func (s State) HasCompleted() bool {
	return slices.ContainsFunc(s.Tasks, func(t service.Task) bool { return t.Completed })
}

// Find returns the task with id from the snapshot.
func (s State) Find(id int64) (service.Task, bool) {
	i := slices.IndexFunc(s.Tasks, func(t service.Task) bool { return t.ID == id })
	if i < 0 {
		return service.Task{}, false
	}
	return s.Tasks[i], true
}

func (s State) clone() State {
	out := s
	out.Tasks = slices.Clone(s.Tasks)
	if s.Pending != nil {
		p := *s.Pending
		out.Pending = &p
	}
	return out
}

// ValidationError is a locally detected problem; no request was sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

var (
	// ErrEmptyName rejects a blank task name.
	ErrEmptyName = &ValidationError{Message: "Task name cannot be empty"}

	// ErrNothingSelected rejects a bulk delete with no completed tasks.
	ErrNothingSelected = &ValidationError{Message: "No tasks selected for deletion."}

	// ErrUnknownTask rejects a delete request for a task not in the list.
	ErrUnknownTask = &ValidationError{Message: "Task not found"}
)

// RefreshError reports that a mutation was applied but the re-fetch that
// follows it failed. The list in the snapshot is stale.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string { return e.Err.Error() }

func (e *RefreshError) Unwrap() error { return e.Err }

// Applied reports whether the mutation behind err reached the store: err is
// nil or only the follow-up fetch failed.
func Applied(err error) bool {
	var rerr *RefreshError
	return err == nil || errors.As(err, &rerr)
}

// ValidateName checks a task name before it is sent anywhere.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	return nil
}

// CompletedIDs returns the ids of completed tasks in list order.
func CompletedIDs(tasks []service.Task) []int64 {
	var ids []int64
	for _, t := range tasks {
		if t.Completed {
			ids = append(ids, t.ID)
		}
	}
	return ids
}
