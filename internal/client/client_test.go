package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo/internal/domain"
	"todo/internal/errors"
)

const sampleTask = `{"id":"a1","title":"Buy milk","description":"","isCompleted":false,"isImportant":true,"createdAt":"2024-01-15T10:00:00Z"}`

type recorded struct {
	method string
	path   string
	query  string
	body   string
	ctype  string
}

// newTestServer answers every request with status and body and records
// the last request.
func newTestServer(t *testing.T, status int, body string) (*HTTPClient, *recorded) {
	t.Helper()
	last := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		*last = recorded{
			method: r.Method,
			path:   r.URL.EscapedPath(),
			query:  r.URL.RawQuery,
			body:   string(data),
			ctype:  r.Header.Get("Content-Type"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL)
	require.NoError(t, err)
	return c, last
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:3000", "ftp://example.com", "/tasks"} {
		_, err := New(raw)
		assert.Error(t, err, raw)
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput), raw)
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c, err := New("http://localhost:3000/api/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/api", c.BaseURL())
}

func TestListTasks(t *testing.T) {
	c, last := newTestServer(t, http.StatusOK, `[`+sampleTask+`,{"id":"b2","title":"Walk dog","description":"park","isCompleted":true,"isImportant":false,"createdAt":"2024-01-15T11:00:00Z"}]`)

	tasks, err := c.ListTasks(context.Background(), "milk & eggs")
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, last.method)
	assert.Equal(t, "/tasks", last.path)
	assert.Equal(t, "search=milk+%26+eggs", last.query)
	require.Len(t, tasks, 2)
	assert.Equal(t, "a1", tasks[0].ID)
	assert.True(t, tasks[0].IsImportant)
	assert.Equal(t, "b2", tasks[1].ID)
	assert.True(t, tasks[1].IsCompleted)
}

func TestListTasks_EmptySearchStillSent(t *testing.T) {
	c, last := newTestServer(t, http.StatusOK, `[]`)

	tasks, err := c.ListTasks(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "search=", last.query)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestListTasks_UnderBasePath(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c, err := New(srv.URL + "/api/v1")
	require.NoError(t, err)
	_, err = c.ListTasks(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/tasks", path)
}

func TestGetTask(t *testing.T) {
	c, last := newTestServer(t, http.StatusOK, sampleTask)

	task, err := c.GetTask(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "/tasks/a1", last.path)
	assert.Equal(t, "Buy milk", task.Title)
}

func TestGetTask_EscapesID(t *testing.T) {
	c, last := newTestServer(t, http.StatusOK, sampleTask)

	_, err := c.GetTask(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "/tasks/a%2Fb", last.path)
}

func TestCreateTask(t *testing.T) {
	c, last := newTestServer(t, http.StatusCreated, sampleTask)

	created, err := c.CreateTask(context.Background(), domain.NewTask{Title: "Buy milk", IsImportant: true})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, last.method)
	assert.Equal(t, "/tasks", last.path)
	assert.Equal(t, "application/json", last.ctype)
	assert.JSONEq(t, `{"title":"Buy milk","description":"","isImportant":true}`, last.body)
	assert.Equal(t, "a1", created.ID)
}

func TestUpdateTask_SendsOnlyPatchedFields(t *testing.T) {
	c, last := newTestServer(t, http.StatusOK, sampleTask)

	_, err := c.UpdateTask(context.Background(), "a1", domain.TaskPatch{IsCompleted: domain.BoolPtr(true)})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, last.method)
	assert.Equal(t, "/tasks/a1", last.path)
	assert.JSONEq(t, `{"isCompleted":true}`, last.body)
}

func TestDeleteTask(t *testing.T) {
	c, last := newTestServer(t, http.StatusNoContent, "")

	require.NoError(t, c.DeleteTask(context.Background(), "a1"))
	assert.Equal(t, http.MethodDelete, last.method)
	assert.Equal(t, "/tasks/a1", last.path)
}

func TestEmptyIDRejectedWithoutRequest(t *testing.T) {
	c, last := newTestServer(t, http.StatusOK, sampleTask)

	err := c.DeleteTask(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput))
	assert.Empty(t, last.method)
}

func TestDotSegmentIDRejectedWithoutRequest(t *testing.T) {
	c, last := newTestServer(t, http.StatusNoContent, "")

	for _, id := range []string{".", ".."} {
		err := c.DeleteTask(context.Background(), id)
		require.Error(t, err, id)
		assert.True(t, errors.IsErrorType(err, errors.ErrorTypeInvalidInput), id)
	}
	assert.Empty(t, last.method)
}

func TestTaskPathIsNotCleaned(t *testing.T) {
	c, last := newTestServer(t, http.StatusOK, sampleTask)

	_, err := c.GetTask(context.Background(), "../x")
	require.NoError(t, err)
	assert.Equal(t, "/tasks/..%2Fx", last.path)

	_, err = c.GetTask(context.Background(), "a b%")
	require.NoError(t, err)
	assert.Equal(t, "/tasks/a%20b%25", last.path)
}

func TestServerMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error field", `{"error":"task not found"}`, "task not found"},
		{"plain text", "  bad gateway \n", "bad gateway"},
		{"long multibyte text", strings.Repeat("ё", 300), strings.Repeat("ё", 200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := serverMessage([]byte(tt.body))
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		call     func(c *HTTPClient) error
		wantType errors.ErrorType
	}{
		{
			name:     "404 on task is not found",
			status:   http.StatusNotFound,
			body:     `{"error":"task not found"}`,
			call:     func(c *HTTPClient) error { return c.DeleteTask(context.Background(), "x") },
			wantType: errors.ErrorTypeNotFound,
		},
		{
			name:     "404 on list is remote",
			status:   http.StatusNotFound,
			body:     `Cannot GET /tasks`,
			call:     func(c *HTTPClient) error { _, err := c.ListTasks(context.Background(), ""); return err },
			wantType: errors.ErrorTypeRemote,
		},
		{
			name:     "500 is remote",
			status:   http.StatusInternalServerError,
			body:     `{"error":"boom"}`,
			call:     func(c *HTTPClient) error { _, err := c.CreateTask(context.Background(), domain.NewTask{Title: "x"}); return err },
			wantType: errors.ErrorTypeRemote,
		},
		{
			name:     "non-JSON body is decode",
			status:   http.StatusOK,
			body:     `<html>`,
			call:     func(c *HTTPClient) error { _, err := c.ListTasks(context.Background(), ""); return err },
			wantType: errors.ErrorTypeDecode,
		},
		{
			name:     "object instead of array is decode",
			status:   http.StatusOK,
			body:     sampleTask,
			call:     func(c *HTTPClient) error { _, err := c.ListTasks(context.Background(), ""); return err },
			wantType: errors.ErrorTypeDecode,
		},
		{
			name:     "wrong field type is decode",
			status:   http.StatusOK,
			body:     `{"id":"a1","title":"x","isCompleted":"yes"}`,
			call:     func(c *HTTPClient) error { _, err := c.GetTask(context.Background(), "a1"); return err },
			wantType: errors.ErrorTypeDecode,
		},
		{
			name:     "missing id is decode",
			status:   http.StatusCreated,
			body:     `{"title":"x"}`,
			call:     func(c *HTTPClient) error { _, err := c.CreateTask(context.Background(), domain.NewTask{Title: "x"}); return err },
			wantType: errors.ErrorTypeDecode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestServer(t, tt.status, tt.body)
			err := tt.call(c)
			require.Error(t, err)
			assert.True(t, errors.IsErrorType(err, tt.wantType), "got %v", err)
		})
	}
}

func TestRemoteErrorCarriesServerMessage(t *testing.T) {
	c, _ := newTestServer(t, http.StatusBadRequest, `{"error":"title is required"}`)

	_, err := c.CreateTask(context.Background(), domain.NewTask{Title: "x"})
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	status, _ := appErr.GetContext("status")
	server, _ := appErr.GetContext("server")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "title is required", server)
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url)
	require.NoError(t, err)
	_, err = c.ListTasks(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNetwork))
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := New(srv.URL, WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	start := time.Now()
	_, err = c.ListTasks(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeTimeout), "got %v", err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestWithHTTPClient(t *testing.T) {
	var sawHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawHeader = r.Header.Get("X-Test")
		json.NewEncoder(w).Encode([]domain.Task{})
	}))
	defer srv.Close()

	hc := &http.Client{Transport: headerTransport{base: http.DefaultTransport}}
	c, err := New(srv.URL, WithHTTPClient(hc))
	require.NoError(t, err)

	_, err = c.ListTasks(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "yes", sawHeader)
}

type headerTransport struct {
	base http.RoundTripper
}

func (h headerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("X-Test", "yes")
	return h.base.RoundTrip(r)
}

func TestSchemaError(t *testing.T) {
	err := taskSchema.Validate(map[string]interface{}{"id": "a", "title": float64(7)})
	require.Error(t, err)
	msg := schemaError(err).Error()
	assert.Contains(t, msg, "/title")
}
