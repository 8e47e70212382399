package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"todo/internal/service"
)

type recordedRequest struct {
	Method    string
	Path      string
	Query     map[string][]string
	Body      string
	RequestID string
}

type apiStub struct {
	mu       sync.Mutex
	requests []recordedRequest
	handler  http.HandlerFunc
}

func newStub(t *testing.T, handler http.HandlerFunc) (*apiStub, *Client) {
	t.Helper()
	stub := &apiStub{handler: handler}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		stub.mu.Lock()
		stub.requests = append(stub.requests, recordedRequest{
			Method:    r.Method,
			Path:      r.URL.Path,
			Query:     r.URL.Query(),
			Body:      string(body),
			RequestID: r.Header.Get(RequestIDHeader),
		})
		stub.mu.Unlock()
		stub.handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/tasks/v1/", WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return stub, c
}

func (s *apiStub) only(t *testing.T) recordedRequest {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.Len(t, s.requests, 1)
	return s.requests[0]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := New("localhost:8000")
	assert.Error(t, err)

	_, err = New("ftp://example.com/tasks")
	assert.Error(t, err)
}

func TestListTasks(t *testing.T) {
	stub, c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[
			{"id":1,"name":"buy milk","description":null,"completed":false},
			{"id":2,"name":"walk dog","description":"before 9","completed":true}
		]}`)
	})

	tasks, err := c.ListTasks(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []service.Task{
		{ID: 1, Name: "buy milk"},
		{ID: 2, Name: "walk dog", Description: "before 9", Completed: true},
	}, tasks)

	req := stub.only(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/tasks/v1", req.Path)
	assert.NotEmpty(t, req.RequestID)
}

func TestListTasks_EmptyData(t *testing.T) {
	_, c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":null}`)
	})

	tasks, err := c.ListTasks(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestListTasks_StatusError(t *testing.T) {
	_, c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.ListTasks(context.Background())

	var statusErr *service.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
	assert.Equal(t, "HTTP error! status: 500", err.Error())
}

func TestListTasks_Malformed(t *testing.T) {
	_, c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `<html>oops</html>`)
	})

	_, err := c.ListTasks(context.Background())
	assert.ErrorIs(t, err, service.ErrMalformedResponse)
}

func TestAddTask(t *testing.T) {
	stub, c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "task_id": 3})
	})

	err := c.AddTask(context.Background(), service.NewTask{Name: "buy milk", Description: "2 litres"})
	require.NoError(t, err)

	req := stub.only(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/tasks/v1/add", req.Path)
	assert.JSONEq(t, `{"name":"buy milk","description":"2 litres"}`, req.Body)
}

func TestAddTask_SuccessFalse(t *testing.T) {
	_, c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": false})
	})

	err := c.AddTask(context.Background(), service.NewTask{Name: "x"})
	assert.ErrorIs(t, err, service.ErrRejected)
}

func TestAddTask_MisspelledFlagIsNotSuccess(t *testing.T) {
	_, c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"succes": true, "task_id": 3})
	})

	err := c.AddTask(context.Background(), service.NewTask{Name: "x"})
	assert.ErrorIs(t, err, service.ErrRejected)
}

func TestUpdateTask(t *testing.T) {
	stub, c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"succes": true})
	})

	err := c.UpdateTask(context.Background(), 4, service.NewTask{Name: "renamed"})
	require.NoError(t, err)

	req := stub.only(t)
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/tasks/v1/4/edit", req.Path)
	assert.JSONEq(t, `{"name":"renamed","description":""}`, req.Body)
}

func TestToggleTask(t *testing.T) {
	stub, c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": 7})
	})

	require.NoError(t, c.ToggleTask(context.Background(), 7))

	req := stub.only(t)
	assert.Equal(t, http.MethodPatch, req.Method)
	assert.Equal(t, "/tasks/v1/7/complete", req.Path)
	assert.Empty(t, req.Body)
}

func TestToggleTask_NotFound(t *testing.T) {
	_, c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "not found"})
	})

	err := c.ToggleTask(context.Background(), 99)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDeleteTask(t *testing.T) {
	stub, c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"succes": true})
	})

	require.NoError(t, c.DeleteTask(context.Background(), 12))

	req := stub.only(t)
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/tasks/v1/12/delete", req.Path)
}

func TestDeleteTasks_SingleRequestWithAllIDs(t *testing.T) {
	stub, c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "deleted_count": 3})
	})

	require.NoError(t, c.DeleteTasks(context.Background(), []int64{1, 3, 5}))

	req := stub.only(t)
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/tasks/v1/delete-many", req.Path)
	assert.Equal(t, []string{"1", "3", "5"}, req.Query["task_ids"])
}

func TestDeleteTasks_SuccessFalse(t *testing.T) {
	_, c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": false})
	})

	err := c.DeleteTasks(context.Background(), []int64{1})
	assert.ErrorIs(t, err, service.ErrRejected)
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	_, c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)
	c.timeout = 20 * time.Millisecond

	_, err := c.ListTasks(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Contains(t, err.Error(), "request timed out")
}

func TestTransportError(t *testing.T) {
	c, err := New("http://127.0.0.1:1/tasks/v1")
	require.NoError(t, err)

	_, err = c.ListTasks(context.Background())
	assert.Error(t, err)
}

func TestRequestsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	stub, c := newStub(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":[]}`)
	})
	c.log = zap.New(core)

	_, err := c.ListTasks(context.Background())
	require.NoError(t, err)

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, http.MethodGet, fields["method"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, stub.only(t).RequestID, fields["request_id"])
}
