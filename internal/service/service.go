// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// The HTTP task API and the local store both implement it;
// the client and commands never talk to a transport directly.
type Service interface {
	// ListTasks returns every task in backend order.
	ListTasks(ctx context.Context) ([]Task, error)

	// AddTask creates a task.
	AddTask(ctx context.Context, task NewTask) error

	// UpdateTask replaces the name and description of a task.
	UpdateTask(ctx context.Context, id int64, task NewTask) error

	// ToggleTask flips the completed flag of a task.
	ToggleTask(ctx context.Context, id int64) error

	// DeleteTask removes one task.
	DeleteTask(ctx context.Context, id int64) error

	// DeleteTasks removes all named tasks in a single request.
	DeleteTasks(ctx context.Context, ids []int64) error
}
