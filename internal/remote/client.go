package remote

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

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hay-kot/todos/internal/auth"
	"github.com/hay-kot/todos/internal/core/logging"
	"github.com/hay-kot/todos/internal/core/task"
	"github.com/hay-kot/todos/internal/core/validate"
)

// maxErrorBody caps how much of an error response is read for its message.
const maxErrorBody = 64 << 10

// Options configures a Client.
type Options struct {
	Endpoint  string
	Tokens    auth.TokenSource
	Timeout   time.Duration
	UserAgent string
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client is the HTTP implementation of Service.
type Client struct {
	base      *url.URL
	http      *http.Client
	tokens    auth.TokenSource
	userAgent string
	log       zerolog.Logger
}

var _ Service = (*Client)(nil)

// NewClient validates opts and builds a client.
func NewClient(opts Options) (*Client, error) {
	if err := validate.Endpoint(opts.Endpoint); err != nil {
		return nil, fmt.Errorf("api endpoint: %w", err)
	}
	if opts.Tokens == nil {
		return nil, errors.New("token source is required")
	}

	base, err := url.Parse(strings.TrimRight(opts.Endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("api endpoint: %w", err)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		base:      base,
		http:      hc,
		tokens:    opts.Tokens,
		userAgent: opts.UserAgent,
		log:       opts.Logger,
	}, nil
}

// List fetches the task collection. A response without items yields an
// empty, non-nil slice.
func (c *Client) List(ctx context.Context, opts ListOptions) ([]task.Task, error) {
	var out ListResponse
	if err := c.do(ctx, OpList, http.MethodGet, "/todos", opts.query(), nil, &out); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []task.Task{}
	}
	return out.Items, nil
}

// Create sends a new task. The response body is ignored.
func (c *Client) Create(ctx context.Context, req task.CreateRequest) error {
	return c.do(ctx, OpCreate, http.MethodPost, "/todos", nil, req, nil)
}

// Update sends a partial update for id. The response body is ignored.
func (c *Client) Update(ctx context.Context, id string, patch task.Patch) error {
	if err := validate.TaskID(id); err != nil {
		return fmt.Errorf("failed to %s: %w", OpUpdate, err)
	}
	ctx = logging.WithTaskID(ctx, id)
	return c.do(ctx, OpUpdate, http.MethodPut, "/todos/"+url.PathEscape(id), nil, patch, nil)
}

// Delete removes id. The response body is ignored.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := validate.TaskID(id); err != nil {
		return fmt.Errorf("failed to %s: %w", OpDelete, err)
	}
	ctx = logging.WithTaskID(ctx, id)
	return c.do(ctx, OpDelete, http.MethodDelete, "/todos/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) do(ctx context.Context, op Op, method, path string, query url.Values, body, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	requestID := uuid.NewString()
	ctx = logging.WithRequestID(ctx, requestID)

	u := *c.base
	u.Path = c.base.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to %s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Ctx(ctx).Err(err).Str("op", string(op)).Msg("request failed")
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().Ctx(ctx).
		Str("op", string(op)).
		Str("method", method).
		Str("path", u.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request complete")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Status:     statusText(resp),
			Message:    errorMessage(resp.Body),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to %s: decode response: %w", op, err)
	}
	return nil
}

// errorMessage pulls {"error": "..."} or {"message": "..."} from a failed
// response, returning "" when the body has neither.
func errorMessage(r io.Reader) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(r, maxErrorBody)).Decode(&body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}
