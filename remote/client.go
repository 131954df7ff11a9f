package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dkoehler14/TrainingPWA2.0-sub004/errors"
	"github.com/dkoehler14/TrainingPWA2.0-sub004/pkg/retry"
)

// Config contains configuration for the remote store client.
type Config struct {
	// BaseURL is the root of the PostgREST-style API, e.g.
	// https://myproject.supabase.co
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey is sent as both the apikey header and a bearer token.
	APIKey string `json:"api_key" yaml:"api_key"`

	// Timeout bounds a single HTTP attempt. Retries are budgeted separately.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Retry controls the backoff policy for transient failures. Per the
	// cache design, retry policy lives here and never in the manager.
	Retry retry.Config `json:"retry" yaml:"retry"`
}

// SetDefaults fills unset fields with sensible defaults.
func (c *Config) SetDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Second
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry = retry.RemoteLookup()
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.WrapInvalid(errors.ErrMissingConfig, "remote", "Validate",
			"base_url is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return errors.WrapInvalid(err, "remote", "Validate",
			fmt.Sprintf("base_url %q is not a valid URL", c.BaseURL))
	}
	if c.Timeout < 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "remote", "Validate",
			fmt.Sprintf("timeout must be non-negative, got %v", c.Timeout))
	}
	return nil
}

// Client implements LogStore over a PostgREST-style HTTP API.
type Client struct {
	config Config
	http   *http.Client
	logger *slog.Logger
}

// Deps holds runtime dependencies for the remote store client.
type Deps struct {
	Config Config
	Logger *slog.Logger

	// HTTPClient overrides the default client; used by tests.
	HTTPClient *http.Client
}

// NewClient creates a remote store client.
func NewClient(deps Deps) (*Client, error) {
	deps.Config.SetDefaults()
	if err := deps.Config.Validate(); err != nil {
		return nil, errors.WrapInvalid(err, "RemoteClient", "NewClient",
			"configuration validation failed")
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := deps.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: deps.Config.Timeout}
	}

	return &Client{
		config: deps.Config,
		http:   httpClient,
		logger: logger,
	}, nil
}

// WorkoutLogExists reports whether the given workout-log id exists in the
// remote store. A malformed id is rejected locally without issuing a
// request. Transient transport failures are retried per the configured
// policy; a definite empty result is (false, nil).
func (c *Client) WorkoutLogExists(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, errors.WrapInvalid(errors.ErrInvalidUUID, "RemoteClient", "WorkoutLogExists",
			fmt.Sprintf("id %q", id))
	}

	return retry.DoWithResult(ctx, c.config.Retry, func() (bool, error) {
		exists, err := c.lookup(ctx, id)
		if err != nil && !errors.IsTransient(err) {
			return false, retry.NonRetryable(err)
		}
		return exists, err
	})
}

// lookup performs a single existence query.
func (c *Client) lookup(ctx context.Context, id string) (bool, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/workout_logs?id=eq.%s&select=id",
		strings.TrimRight(c.config.BaseURL, "/"), url.QueryEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, errors.WrapInvalid(err, "RemoteClient", "lookup", "building request")
	}
	req.Header.Set("apikey", c.config.APIKey)
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, errors.WrapTransient(err, "RemoteClient", "lookup", "executing request")
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= 500:
		return false, errors.WrapTransient(errors.ErrRemoteUnavailable, "RemoteClient", "lookup",
			fmt.Sprintf("status %d", resp.StatusCode))
	case resp.StatusCode >= 400:
		return false, errors.WrapInvalid(errors.ErrRemoteRejected, "RemoteClient", "lookup",
			fmt.Sprintf("status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return false, errors.WrapTransient(err, "RemoteClient", "lookup", "reading response")
	}

	var rows []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return false, errors.WrapInvalid(errors.ErrParsingFailed, "RemoteClient", "lookup",
			fmt.Sprintf("decoding response: %v", err))
	}

	c.logger.Debug("workout log existence check",
		"id", id,
		"rows", len(rows))

	return len(rows) > 0, nil
}
