// Package http implements questlog.StoryGenerator against a remote HTTP
// generation endpoint.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/questlog"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ questlog.StoryGenerator = (*Generator)(nil)

// DefaultTimeout bounds a single generation request.
const DefaultTimeout = 90 * time.Second

// maxBodySize caps how much of a response body is read.
const maxBodySize = 4 * 1024 * 1024

// RequestIDHeader carries the generation request id.
const RequestIDHeader = "X-Request-ID"

// Generator POSTs generation requests to an endpoint and decodes the Story response.
type Generator struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) GeneratorOption {
	return func(g *Generator) {
		g.client = c
	}
}

// WithTimeout sets the timeout for a single request. Zero disables it.
func WithTimeout(d time.Duration) GeneratorOption {
	return func(g *Generator) {
		g.timeout = d
	}
}

// NewGenerator creates a Generator for the endpoint at url.
func NewGenerator(url string, opts ...GeneratorOption) *Generator {
	g := &Generator{
		url:     url,
		client:  http.DefaultClient,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// errorBody is the failure response shape: {"error": "..."}.
type errorBody struct {
	Error string `json:"error"`
}

// Generate sends {tasks, settings, model} and returns the decoded Story.
// Non-2xx responses, and 2xx responses with an "error" field, become
// *questlog.GenerationError.
func (g *Generator) Generate(ctx context.Context, req questlog.GenerateRequest) (*questlog.Story, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	if req.Tasks == nil {
		req.Tasks = []questlog.Task{}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("http: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("http: build request: %w", err)
	}
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, id)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		if g.timeout > 0 && errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("http: story generation timed out after %s: %w", g.timeout, err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("http: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp.StatusCode, data)
	}

	return decodeStory(resp.StatusCode, data)
}

// decodeStory parses a 2xx body. A body carrying an "error" field is a
// failure even with a success status; null or contentless bodies fail to parse.
func decodeStory(status int, data []byte) (*questlog.Story, error) {
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err == nil && eb.Error != "" {
		return nil, &questlog.GenerationError{StatusCode: status, Message: eb.Error}
	}

	var story *questlog.Story
	if err := json.Unmarshal(data, &story); err != nil {
		return nil, fmt.Errorf("http: failed to parse story: %w", err)
	}
	if story.IsEmpty() {
		return nil, fmt.Errorf("http: failed to parse story: %w", questlog.ErrEmptyStory)
	}
	return story, nil
}

// decodeError builds a GenerationError from a failure body. A body that is not
// JSON or has no "error" field yields an empty message.
func decodeError(status int, data []byte) error {
	genErr := &questlog.GenerationError{StatusCode: status}
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err == nil {
		genErr.Message = eb.Error
	}
	return genErr
}
