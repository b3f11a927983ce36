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

	"wellportal/utils"

	"go.uber.org/zap"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// Client talks to the wellness REST API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client whose every request is bounded by timeout.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// request describes one call.
type request struct {
	method string
	path   string
	query  url.Values
	token  string
	body   interface{}
	header http.Header
}

// do performs req and decodes a 2xx JSON body into out (when non-nil).
func (c *Client) do(ctx context.Context, req request, out interface{}) error {
	start := time.Now()
	err := c.send(ctx, req, out)

	kind := "ok"
	if err != nil {
		kind = string(KindOf(err))
		if kind == "" {
			kind = "other"
		}
	}
	utils.BackendRequests.WithLabelValues(req.method, kind).Observe(time.Since(start).Seconds())
	if err != nil {
		c.logger.Debug("wellness api call failed",
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.String("kind", kind),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
	return err
}

func (c *Client) send(ctx context.Context, req request, out interface{}) error {
	fullURL := c.baseURL + req.path
	if len(req.query) > 0 {
		fullURL += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		buf, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", req.path, err)
		}
		body = bytes.NewReader(buf)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, fullURL, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}
	for k, vs := range req.header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("%s %s: %w", req.method, req.path, ctx.Err())
		}
		return networkError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &Error{Kind: KindServer, Status: resp.StatusCode, Message: "The wellness service sent an unreadable response.", Err: err}
	}
	return nil
}

// statusError builds an *Error from a non-2xx response, preferring the
// backend's own `message` or `error` field.
func statusError(resp *http.Response) *Error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	var msg string
	if err := json.Unmarshal(raw, &payload); err == nil {
		msg = payload.Message
		if msg == "" {
			msg = payload.Error
		}
	} else {
		// Plain-text bodies are shown as they are.
		msg = strings.TrimSpace(string(raw))
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &Error{Kind: kindForStatus(resp.StatusCode), Status: resp.StatusCode, Message: msg}
}

// Ping checks that the backend answers at all. Any status below 500 counts
// as up.
func (c *Client) Ping(ctx context.Context) error {
	err := c.do(ctx, request{method: http.MethodGet, path: "/"}, nil)
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status != 0 && apiErr.Status < http.StatusInternalServerError {
		return nil
	}
	return err
}
