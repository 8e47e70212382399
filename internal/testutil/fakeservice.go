// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"todo/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
// Every call is appended to Calls so tests can assert which requests were issued.
type FakeService struct {
	mu     sync.Mutex
	tasks  []service.Task
	nextID int64
	calls  []string

	// Error injection for testing
	ListTasksErr   error
	AddTaskErr     error
	UpdateTaskErr  error
	ToggleTaskErr  error
	DeleteTaskErr  error
	DeleteTasksErr error

	// DeletedBatches records the ids of every DeleteTasks call.
	DeletedBatches [][]int64
}

// NewFakeService creates an empty FakeService. Generated ids start at 1.
func NewFakeService() *FakeService {
	return &FakeService{nextID: 1}
}

// Seed adds a task with a fixed id without recording a call.
func (f *FakeService) Seed(id int64, name string, completed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{ID: id, Name: name, Completed: completed})
	if id >= f.nextID {
		f.nextID = id + 1
	}
}

// Calls returns the recorded calls, e.g. "ListTasks", "ToggleTask 7".
func (f *FakeService) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// MutationCalls returns recorded calls other than ListTasks.
func (f *FakeService) MutationCalls() []string {
	var out []string
	for _, c := range f.Calls() {
		if c != "ListTasks" {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls clears the call log.
func (f *FakeService) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

// Tasks returns the stored tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.tasks)
}

func (f *FakeService) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListTasks")
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return slices.Clone(f.tasks), nil
}

// AddTask implements service.Service.
func (f *FakeService) AddTask(ctx context.Context, task service.NewTask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("AddTask %s", task.Name)
	if f.AddTaskErr != nil {
		return f.AddTaskErr
	}
	f.tasks = append(f.tasks, service.Task{ID: f.nextID, Name: task.Name, Description: task.Description})
	f.nextID++
	return nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id int64, task service.NewTask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateTask %d", id)
	if f.UpdateTaskErr != nil {
		return f.UpdateTaskErr
	}
	i := f.index(id)
	if i < 0 {
		return service.ErrNotFound
	}
	f.tasks[i].Name = task.Name
	f.tasks[i].Description = task.Description
	return nil
}

// ToggleTask implements service.Service.
func (f *FakeService) ToggleTask(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ToggleTask %d", id)
	if f.ToggleTaskErr != nil {
		return f.ToggleTaskErr
	}
	i := f.index(id)
	if i < 0 {
		return service.ErrNotFound
	}
	f.tasks[i].Completed = !f.tasks[i].Completed
	return nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteTask %d", id)
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	i := f.index(id)
	if i < 0 {
		return service.ErrNotFound
	}
	f.tasks = slices.Delete(f.tasks, i, i+1)
	return nil
}

// DeleteTasks implements service.Service.
func (f *FakeService) DeleteTasks(ctx context.Context, ids []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteTasks %v", ids)
	f.DeletedBatches = append(f.DeletedBatches, slices.Clone(ids))
	if f.DeleteTasksErr != nil {
		return f.DeleteTasksErr
	}
	f.tasks = slices.DeleteFunc(f.tasks, func(t service.Task) bool {
		return slices.Contains(ids, t.ID)
	})
	return nil
}

func (f *FakeService) index(id int64) int {
	return slices.IndexFunc(f.tasks, func(t service.Task) bool { return t.ID == id })
}
