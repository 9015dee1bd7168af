package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	actionLogin    = "login"
	actionMetadata = "metadata"
	actionSummary  = "summary"

	// MetadataCacheKey is the cache key metadata responses are stored under
	MetadataCacheKey = "metadata"

	defaultAPIErrorMessage = "Error en API"
)

// StatusError is returned when the endpoint answers with a non-2xx status
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d", e.Code)
}

// RemoteError is returned when the endpoint answers {ok:false}
type RemoteError struct {
	Action  string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return defaultAPIErrorMessage
	}
	return e.Message
}

// MetadataCache stores metadata between calls. A nil cache disables caching.
type MetadataCache interface {
	Get(key string) (*Metadata, bool)
	Set(key string, value *Metadata)
}

// Client talks to the spreadsheet-backed dashboard endpoint. Every call is a
// GET against the same URL, dispatched by the "action" query parameter.
type Client struct {
	endpoint   string
	httpClient *http.Client
	cache      MetadataCache
	group      singleflight.Group
	logger     zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets an overall request timeout. Zero keeps the transport defaults.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithMetadataCache enables metadata caching
func WithMetadataCache(cache MetadataCache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithLogger sets the client logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new API client for endpoint
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the configured endpoint URL
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Login checks credentials. A rejected login is returned as a *RemoteError
// carrying the server message, which may be empty.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var result LoginResult
	err := c.do(ctx, actionLogin, map[string]string{
		"usuario": username,
		"clave":   password,
	}, &result)
	if err != nil {
		return nil, err
	}
	if !result.OK {
		return nil, &RemoteError{Action: actionLogin, Message: result.Message}
	}
	return &result, nil
}

// Metadata fetches the filter lookups and the date bounds of the data
func (c *Client) Metadata(ctx context.Context) (*Metadata, error) {
	if c.cache != nil {
		if meta, ok := c.cache.Get(MetadataCacheKey); ok {
			return meta, nil
		}
	}

	// The fetch is shared by every waiting caller, so it must outlive the
	// caller that started it. Each caller still stops waiting on its own ctx.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(MetadataCacheKey, func() (interface{}, error) {
		var meta Metadata
		if err := c.do(shared, actionMetadata, nil, &meta); err != nil {
			return nil, err
		}
		if c.cache != nil {
			c.cache.Set(MetadataCacheKey, &meta)
		}
		return &meta, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Metadata), nil
	}
}

// Summary fetches the dashboard summary for the given filters
func (c *Client) Summary(ctx context.Context, q SummaryQuery) (*Summary, error) {
	var summary Summary
	if err := c.do(ctx, actionSummary, q.Params(), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// envelope is the generic failure signal any action may return
type envelope struct {
	OK      *bool  `json:"ok"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do issues one GET request for action and decodes the body into out
func (c *Client) do(ctx context.Context, action string, params map[string]string, out interface{}) error {
	reqURL, err := c.buildURL(action, params)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("action", action).Msg("request failed")
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("action", action).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if env.OK != nil && !*env.OK {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		return &RemoteError{Action: action, Message: msg}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// buildURL appends action and the non-empty params to the endpoint
func (c *Client) buildURL(action string, params map[string]string) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", c.endpoint, err)
	}

	q := u.Query()
	q.Set("action", action)

	for k, v := range params {
		if v != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// RemoteMessage returns the message of a failure signalled by the endpoint
// itself. ok is false for transport and HTTP status errors.
func RemoteMessage(err error) (msg string, ok bool) {
	var remote *RemoteError
	if !errors.As(err, &remote) {
		return "", false
	}
	return remote.Message, true
}
