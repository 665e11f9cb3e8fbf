// Package client talks to the remote task API over HTTP/JSON.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/logging"
)

// API is the task API as seen by the task store.
type API interface {
	// ListTasks returns tasks whose title or description contains search,
	// in server order. An empty search lists every task.
	ListTasks(ctx context.Context, search string) ([]domain.Task, error)
	GetTask(ctx context.Context, id string) (domain.Task, error)
	CreateTask(ctx context.Context, task domain.NewTask) (domain.Task, error)
	// UpdateTask sends a merge-patch and returns the updated task.
	UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

const (
	maxResponseBytes      = 16 << 20
	maxServerMessageRunes = 200
)

// HTTPClient implements API against a base URL such as http://localhost:3000.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
	timeout time.Duration
	logger  *log.Logger
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		c.timeout = d
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *log.Logger) Option {
	return func(c *HTTPClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client for the task API rooted at baseURL.
func New(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.NewInvalidInputError("base_url", baseURL, "must be an absolute http(s) URL")
	}

	c := &HTTPClient{
		baseURL: u,
		http:    http.DefaultClient,
		timeout: 15 * time.Second,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root the client was built with.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL.String()
}

// String describes the client for log lines.
func (c *HTTPClient) String() string {
	return fmt.Sprintf("task API at %s", c.baseURL)
}

// ListTasks implements API.
func (c *HTTPClient) ListTasks(ctx context.Context, search string) ([]domain.Task, error) {
	tasks := []domain.Task{}
	err := c.do(ctx, request{
		op:     "list tasks",
		method: http.MethodGet,
		path:   []string{"tasks"},
		query:  url.Values{"search": {search}},
		schema: taskListSchema,
		out:    &tasks,
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask implements API.
func (c *HTTPClient) GetTask(ctx context.Context, id string) (domain.Task, error) {
	var task domain.Task
	err := c.do(ctx, request{
		op:     "get task",
		method: http.MethodGet,
		path:   taskPath(id),
		taskID: id,
		schema: taskSchema,
		out:    &task,
	})
	return task, err
}

// CreateTask implements API.
func (c *HTTPClient) CreateTask(ctx context.Context, task domain.NewTask) (domain.Task, error) {
	var created domain.Task
	err := c.do(ctx, request{
		op:     "create task",
		method: http.MethodPost,
		path:   []string{"tasks"},
		body:   task,
		schema: taskSchema,
		out:    &created,
	})
	return created, err
}

// UpdateTask implements API.
func (c *HTTPClient) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error) {
	var updated domain.Task
	err := c.do(ctx, request{
		op:     "update task",
		method: http.MethodPut,
		path:   taskPath(id),
		taskID: id,
		body:   patch,
		schema: taskSchema,
		out:    &updated,
	})
	return updated, err
}

// DeleteTask implements API.
func (c *HTTPClient) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, request{
		op:     "delete task",
		method: http.MethodDelete,
		path:   taskPath(id),
		taskID: id,
	})
}

type request struct {
	op     string
	method string
	path   []string
	query  url.Values
	// taskID turns a 404 into a not-found error for that task.
	taskID string
	body   interface{}
	schema *jsonschema.Schema
	out    interface{}
}

func taskPath(id string) []string {
	return []string{"tasks", id}
}

// endpoint appends the escaped path segments to the base URL. Segments
// are not cleaned, so ids such as ".." stay inside /tasks/.
func (c *HTTPClient) endpoint(segments []string) *url.URL {
	u := *c.baseURL
	var raw strings.Builder
	raw.WriteString(strings.TrimRight(u.EscapedPath(), "/"))
	for _, seg := range segments {
		raw.WriteByte('/')
		raw.WriteString(url.PathEscape(seg))
	}
	u.RawPath = raw.String()
	u.Path, _ = url.PathUnescape(u.RawPath)
	return &u
}

func (c *HTTPClient) do(ctx context.Context, r request) error {
	if r.taskID == "" && len(r.path) > 1 {
		return errors.NewInvalidInputError("id", r.taskID, "must not be empty")
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if r.taskID != "" && isDotSegment(r.taskID) {
		return errors.NewInvalidInputError("id", r.taskID, "must not be a dot segment")
	}

	endpoint := c.endpoint(r.path)
	if r.query != nil {
		endpoint.RawQuery = r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return errors.NewInvalidInputError("body", r.body, err.Error())
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint.String(), body)
	if err != nil {
		return errors.NewNetworkError(r.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "op", r.op, "method", r.method, "url", endpoint.String(), "err", err)
		return c.transportError(r.op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return c.transportError(r.op, err)
	}

	c.logger.Debug("request done",
		"op", r.op,
		"method", r.method,
		"url", endpoint.String(),
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode == http.StatusNotFound && r.taskID != "" {
		return errors.NewNotFoundError("task", r.taskID)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.NewRemoteError(r.op, resp.StatusCode, serverMessage(data))
	}

	if r.out == nil {
		return nil
	}
	return decode(r.op, data, r.schema, r.out)
}

func isDotSegment(id string) bool {
	return id == "." || id == ".."
}

func (c *HTTPClient) transportError(op string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		timeoutErr := errors.NewTimeoutError(op, c.timeout.String())
		timeoutErr.Cause = err
		return timeoutErr
	}
	return errors.NewNetworkError(op, err)
}

// decode checks data against schema before unmarshalling into out, so a
// response with wrongly typed fields never reaches the cache half-filled.
func decode(op string, data []byte, schema *jsonschema.Schema, out interface{}) error {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return errors.NewDecodeError(op, err)
	}
	if schema != nil {
		if err := schema.Validate(doc); err != nil {
			return errors.NewDecodeError(op, schemaError(err))
		}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.NewDecodeError(op, err)
	}
	return nil
}

// serverMessage extracts the message from an {"error": "..."} body.
func serverMessage(data []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return body.Error
	}
	msg := []rune(strings.TrimSpace(string(data)))
	if len(msg) > maxServerMessageRunes {
		msg = msg[:maxServerMessageRunes]
	}
	return string(msg)
}

var _ API = (*HTTPClient)(nil)
