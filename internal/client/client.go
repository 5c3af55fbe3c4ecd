// Package client talks to the draftboard REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/draftboard/internal/config"
	"github.com/debemdeboas/draftboard/internal/model"
	"github.com/debemdeboas/draftboard/internal/routes"
)

var clientLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	clientLogger = l
}

// NetworkError is a failure that may succeed if tried again later: the
// server was unreachable or answered with a 5xx.
type NetworkError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: server returned %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func IsNetwork(err error) bool {
	var n *NetworkError
	return errors.As(err, &n)
}

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func NewFromConfig(cfg config.ClientConfig) *Client {
	return New(cfg.BaseURL, WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
}

type draftRequest struct {
	ID      model.BlogID `json:"id,omitempty"`
	Title   string       `json:"title"`
	Content string       `json:"content"`
	Tags    model.Tags   `json:"tags"`
	Status  model.Status `json:"status,omitempty"`
}

func newDraftRequest(d model.Draft, id model.BlogID) draftRequest {
	return draftRequest{
		ID:      id,
		Title:   d.Title,
		Content: d.Content,
		Tags:    model.ParseTags(d.Tags),
		Status:  d.Status,
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if body != nil {
		req.Header.Set(config.HCType, config.CTypeJSON)
	}
	req.Header.Set("Accept", config.CTypeJSON)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	clientLogger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("API request")

	if resp.StatusCode >= 300 {
		return statusError(op, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func statusError(op string, resp *http.Response) error {
	var body errorBody
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(data))
	}
	if body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, model.ErrNotFound)
	case resp.StatusCode == http.StatusBadRequest:
		return &model.ValidationError{Reason: body.Error}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return fmt.Errorf("%s: server returned %d: %s", op, resp.StatusCode, body.Error)
	default:
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(body.Error)}
	}
}

// SaveDraft upserts the draft under id. An empty id lets the server pick one.
func (c *Client) SaveDraft(ctx context.Context, d model.Draft, id model.BlogID) (*model.Blog, error) {
	var blog model.Blog
	if err := c.do(ctx, "save draft", http.MethodPost, routes.APISaveDraft, newDraftRequest(d, id), &blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

func (c *Client) Publish(ctx context.Context, d model.Draft, id model.BlogID) (*model.Blog, error) {
	var blog model.Blog
	if err := c.do(ctx, "publish", http.MethodPost, routes.APIPublish, newDraftRequest(d, id), &blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

func (c *Client) Update(ctx context.Context, id model.BlogID, d model.Draft) (*model.Blog, error) {
	var blog model.Blog
	if err := c.do(ctx, "update", http.MethodPut, routes.Blog(url.PathEscape(string(id))), newDraftRequest(d, ""), &blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

// List returns blogs with the given status, or every blog when status is
// empty.
func (c *Client) List(ctx context.Context, status model.Status) ([]model.Blog, error) {
	path := routes.APIBlogs
	if status != "" {
		path += "?" + url.Values{"status": {string(status)}}.Encode()
	}

	var blogs []model.Blog
	if err := c.do(ctx, "list", http.MethodGet, path, nil, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

func (c *Client) Get(ctx context.Context, id model.BlogID) (*model.Blog, error) {
	var blog model.Blog
	if err := c.do(ctx, "get", http.MethodGet, routes.Blog(url.PathEscape(string(id))), nil, &blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

func (c *Client) Delete(ctx context.Context, id model.BlogID) error {
	return c.do(ctx, "delete", http.MethodDelete, routes.Blog(url.PathEscape(string(id))), nil, nil)
}

func (c *Client) Stats(ctx context.Context) (model.Stats, error) {
	var stats model.Stats
	err := c.do(ctx, "stats", http.MethodGet, routes.APIBlogStats, nil, &stats)
	return stats, err
}
