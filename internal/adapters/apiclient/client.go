// Package apiclient talks to the health-data backend over HTTP/JSON.
package apiclient

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

	"github.com/okian/aquaguard/internal/domain/model"
	"github.com/okian/aquaguard/pkg/logger"
	"github.com/okian/aquaguard/pkg/metrics"
)

const (
	submitPath = "/submit"
	dataPath   = "/data"

	maxErrorBody = 4 << 10
)

// Client calls POST /submit and GET /data on a backend whose base URL is
// fixed at construction.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  logger.Logger
}

// New creates a Client for baseURL, e.g. "http://localhost:5000".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("apiclient: invalid base URL %q", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Named("apiclient")
	}
	return c, nil
}

// BaseURL returns the backend address the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// Submit posts an observation and returns the backend's answer.
func (c *Client) Submit(ctx context.Context, s model.Submission) (model.SubmitResult, error) {
	const op = "apiclient.submit"
	start := time.Now()

	body, err := json.Marshal(s)
	if err != nil {
		return model.SubmitResult{}, fmt.Errorf("%s: marshal: %w", op, err)
	}

	var out model.SubmitResult
	err = c.do(ctx, op, http.MethodPost, submitPath, body, &out)
	c.observe(ctx, "submit", start, err)
	if err != nil {
		return model.SubmitResult{}, err
	}
	return out, nil
}

// Records fetches the full record collection.
func (c *Client) Records(ctx context.Context) ([]model.Record, error) {
	const op = "apiclient.records"
	start := time.Now()

	var out []model.Record
	err := c.do(ctx, op, http.MethodGet, dataPath, nil, &out)
	c.observe(ctx, "records", start, err)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Record{}
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body []byte, dst any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return wrapKind(op, ErrUnreachable, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Debug(ctx, "failed to close response body", logger.Error(cerr))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return wrapKind(op, ErrDecode, err)
	}
	return nil
}

func (c *Client) observe(ctx context.Context, operation string, start time.Time, err error) {
	result := "ok"
	switch {
	case errors.Is(err, ErrUnreachable):
		result = "unreachable"
	case errors.Is(err, ErrRejected):
		result = "rejected"
	case err != nil:
		result = "error"
	}
	elapsed := time.Since(start)
	metrics.RecordAPICall(operation, result, float64(elapsed.Microseconds())/1000)
	c.logger.Debug(ctx, "backend call finished",
		logger.String("operation", operation),
		logger.String("result", result),
		logger.Duration("elapsed", elapsed))
}

// errorMessage extracts {"message": "..."} from an error body when present.
func errorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		return payload.Message
	}
	return ""
}
