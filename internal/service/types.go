// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"errors"
	"fmt"
	"net/http"
)

// Task represents a single task record.
type Task struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// NewTask holds the user-editable fields of a task.
type NewTask struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var (
	// ErrNotFound is returned when a task does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRejected is returned when the backend answered but reported success=false.
	ErrRejected = errors.New("request rejected")

	// ErrMalformedResponse is returned when a response body cannot be decoded.
	ErrMalformedResponse = errors.New("malformed response")
)

// StatusError reports a non-success HTTP status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.Code)
}

// Is lets errors.Is(err, ErrNotFound) match a 404.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}
