package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-task-repository/task"
)

// SourceName identifies this data source in errors.
const SourceName = "remote"

// DefaultTimeout bounds a single request when no HTTP client is supplied.
const DefaultTimeout = 10 * time.Second

// Client is a task.DataSource backed by the REST API served by NewHandler.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ task.DataSource = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per request timeout of the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) FetchAll(ctx context.Context) ([]task.Task, error) {
	var tasks []task.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", "", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) FetchOne(ctx context.Context, id string) (task.Task, error) {
	var t task.Task
	if err := c.do(ctx, http.MethodGet, taskPath(id), id, nil, &t); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

func (c *Client) Save(ctx context.Context, t task.Task) error {
	return c.do(ctx, http.MethodPut, taskPath(t.ID), t.ID, t, nil)
}

func (c *Client) MarkCompleted(ctx context.Context, t task.Task) error {
	return c.do(ctx, http.MethodPost, taskPath(t.ID)+"/complete", t.ID, t, nil)
}

func (c *Client) MarkActive(ctx context.Context, t task.Task) error {
	return c.do(ctx, http.MethodPost, taskPath(t.ID)+"/activate", t.ID, t, nil)
}

func (c *Client) DeleteOne(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), id, nil, nil)
}

func (c *Client) DeleteAll(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/tasks", "", nil, nil)
}

func (c *Client) ClearCompleted(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/tasks?completed=true", "", nil, nil)
}

func taskPath(id string) string {
	return "/tasks/" + url.PathEscape(id)
}

// do sends one request. id is only used to build NotFound errors.
func (c *Client) do(ctx context.Context, method, path, id string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return task.SourceUnavailable(SourceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.responseError(resp, id)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return task.SourceUnavailable(SourceName, fmt.Errorf("decode %s %s: %w", method, path, err))
	}
	return nil
}

type errorPayload struct {
	Error struct {
		Category string `json:"category"`
		TextCode string `json:"text_code"`
		Message  string `json:"message"`
	} `json:"error"`
}

func (c *Client) responseError(resp *http.Response, id string) error {
	if resp.StatusCode == http.StatusNotFound {
		if id == "" {
			// Collection routes always exist; a 404 means a misconfigured base URL.
			return task.SourceUnavailable(SourceName, fmt.Errorf("%s: %s", resp.Status, resp.Request.URL.Path))
		}
		return task.NotFound(SourceName, id)
	}

	var payload errorPayload
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&payload)

	message := payload.Error.Message
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	textCode := payload.Error.TextCode
	if textCode == "" {
		textCode = goerrors.HTTPStatusToTextCode(resp.StatusCode)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return task.SourceUnavailable(SourceName, fmt.Errorf("%s: %s", resp.Status, message))
	}

	category := goerrors.HTTPStatusToCategory(resp.StatusCode)
	if goerrors.Category(payload.Error.Category) == goerrors.CategoryValidation {
		category = goerrors.CategoryValidation
	}
	return goerrors.New(message, category).
		WithCode(resp.StatusCode).
		WithTextCode(textCode).
		WithMetadata(map[string]any{"source": SourceName, "task_id": id})
}
