package remote

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoehler14/TrainingPWA2.0-sub004/errors"
	"github.com/dkoehler14/TrainingPWA2.0-sub004/pkg/retry"
)

const testLogID = "550e8400-e29b-41d4-a716-446655440000"

func fastRetry() retry.Config {
	return retry.Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	client, err := NewClient(Deps{
		Config: Config{
			BaseURL: serverURL,
			APIKey:  "test-key",
			Retry:   fastRetry(),
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return client
}

func TestNewClientConfigValidation(t *testing.T) {
	t.Run("missing base url", func(t *testing.T) {
		_, err := NewClient(Deps{})
		require.Error(t, err)
		assert.True(t, errors.IsInvalid(err))
	})

	t.Run("defaults", func(t *testing.T) {
		client, err := NewClient(Deps{Config: Config{BaseURL: "https://example.test"}})
		require.NoError(t, err)
		assert.Equal(t, 10*time.Second, client.config.Timeout)
		assert.NotZero(t, client.config.Retry.MaxAttempts)
	})
}

func TestWorkoutLogExists(t *testing.T) {
	t.Run("row found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/rest/v1/workout_logs", r.URL.Path)
			assert.Equal(t, "eq."+testLogID, r.URL.Query().Get("id"))
			assert.Equal(t, "test-key", r.Header.Get("apikey"))
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`[{"id":"` + testLogID + `"}]`))
		}))
		defer server.Close()

		exists, err := newTestClient(t, server.URL).WorkoutLogExists(context.Background(), testLogID)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("empty result is a definite not-found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}))
		defer server.Close()

		exists, err := newTestClient(t, server.URL).WorkoutLogExists(context.Background(), testLogID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("404 is a definite not-found", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		exists, err := newTestClient(t, server.URL).WorkoutLogExists(context.Background(), testLogID)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("transient 5xx retried until success", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`[{"id":"` + testLogID + `"}]`))
		}))
		defer server.Close()

		exists, err := newTestClient(t, server.URL).WorkoutLogExists(context.Background(), testLogID)
		require.NoError(t, err)
		assert.True(t, exists)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("persistent 5xx exhausts the retry budget", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := newTestClient(t, server.URL).WorkoutLogExists(context.Background(), testLogID)
		require.Error(t, err)
		assert.True(t, errors.IsTransient(err))
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("4xx is not retried", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		_, err := newTestClient(t, server.URL).WorkoutLogExists(context.Background(), testLogID)
		require.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("garbage body is not retried", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			_, _ = w.Write([]byte(`not json`))
		}))
		defer server.Close()

		_, err := newTestClient(t, server.URL).WorkoutLogExists(context.Background(), testLogID)
		require.Error(t, err)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("malformed id rejected without a request", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		}))
		defer server.Close()

		_, err := newTestClient(t, server.URL).WorkoutLogExists(context.Background(), "not-a-uuid")
		require.Error(t, err)
		assert.True(t, errors.IsInvalid(err))
		assert.Zero(t, calls.Load())
	})
}
