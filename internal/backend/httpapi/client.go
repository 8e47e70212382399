// Package httpapi implements the service.Service interface against the remote task API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"todo/internal/service"
)

const (
	// RequestIDHeader carries a per-request correlation id.
	RequestIDHeader = "X-Request-ID"

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 4 << 20
)

// Client implements service.Service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	log     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client (for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds every call. Zero leaves the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the request logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a client rooted at baseURL, e.g. http://localhost:8000/tasks/v1.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base url: %s", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type listResponse struct {
	Data []service.Task `json:"data"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// ListTasks fetches the full task collection.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	var resp listResponse
	if err := c.do(ctx, http.MethodGet, c.baseURL, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return []service.Task{}, nil
	}
	return resp.Data, nil
}

// AddTask creates a task. The response must carry success=true.
func (c *Client) AddTask(ctx context.Context, task service.NewTask) error {
	var resp successResponse
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/add", task, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return service.ErrRejected
	}
	return nil
}

// UpdateTask replaces a task's name and description.
func (c *Client) UpdateTask(ctx context.Context, id int64, task service.NewTask) error {
	return c.do(ctx, http.MethodPut, c.taskURL(id, "edit"), task, nil)
}

// ToggleTask flips a task's completed flag server-side.
func (c *Client) ToggleTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPatch, c.taskURL(id, "complete"), nil, nil)
}

// DeleteTask removes one task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, c.taskURL(id, "delete"), nil, nil)
}

// DeleteTasks removes every named task with one request.
// The response must carry success=true.
func (c *Client) DeleteTasks(ctx context.Context, ids []int64) error {
	q := url.Values{}
	for _, id := range ids {
		q.Add("task_ids", strconv.FormatInt(id, 10))
	}

	var resp successResponse
	if err := c.do(ctx, http.MethodDelete, c.baseURL+"/delete-many?"+q.Encode(), nil, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return service.ErrRejected
	}
	return nil
}

func (c *Client) taskURL(id int64, action string) string {
	return c.baseURL + "/" + strconv.FormatInt(id, 10) + "/" + action
}

// do sends one request. A non-nil body is sent as JSON; a non-nil out
// receives the decoded JSON response.
func (c *Client) do(ctx context.Context, method, target string, body, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.log.With(
		zap.String("method", method),
		zap.String("url", target),
		zap.String("request_id", requestID),
	)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug("request failed", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return wrapError(err)
	}
	defer resp.Body.Close()

	log.Debug("request completed",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return &service.StatusError{Code: resp.StatusCode}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(out); err != nil {
		log.Debug("undecodable response", zap.Error(err))
		return fmt.Errorf("%w: %v", service.ErrMalformedResponse, err)
	}
	return nil
}

// wrapError turns transport failures into short user-facing errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", context.DeadlineExceeded)
	}
	return err
}
