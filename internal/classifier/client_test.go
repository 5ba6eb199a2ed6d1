package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate ...func(*Config)) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := Config{URL: srv.URL + "/v1/", Model: "gemma2:2b", Key: "secret", Temperature: 0.2, MaxTokens: 512}
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := New(cfg, nil, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestClassifySendsWindowAsJSONRequest(t *testing.T) {
	var got chatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices": [{"message": {"role": "assistant", "content": "{\"terms\": []}"}}]}`))
	})

	raw, err := c.Classify(context.Background(), "The cell divides.")
	require.NoError(t, err)
	assert.JSONEq(t, `{"terms": []}`, string(raw))

	assert.Equal(t, "gemma2:2b", got.Model)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	assert.Equal(t, 512, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Contains(t, got.Messages[1].Content, "The cell divides.")
}

func TestClassifyWithoutKeyOmitsAuthorization(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "[]"}}]}`))
	}, func(cfg *Config) { cfg.Key = "" })

	_, err := c.Classify(context.Background(), "text")
	require.NoError(t, err)
}

func TestClassifyErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			body:   `{"error": "slow down"}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrRateLimited)
				var se *StatusError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, http.StatusTooManyRequests, se.Code)
			},
		},
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			body:   "bad key",
			check: func(t *testing.T, err error) {
				var se *StatusError
				require.ErrorAs(t, err, &se)
				assert.Equal(t, "bad key", se.Body)
				assert.NotErrorIs(t, err, ErrRateLimited)
			},
		},
		{
			name:   "no choices",
			status: http.StatusOK,
			body:   `{"choices": []}`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrEmptyResponse)
			},
		},
		{
			name:   "garbage body",
			status: http.StatusOK,
			body:   `<html>`,
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "failed to decode response")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			raw, err := c.Classify(context.Background(), "text")
			require.Error(t, err)
			assert.Nil(t, raw)
			tt.check(t, err)
		})
	}
}

func TestClassifyHonoursContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Classify(ctx, "text")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassifyRejectsOverBudgetWindow(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "[]"}}]}`))
	}, func(cfg *Config) { cfg.MaxInputTokens = 400 })

	_, err := c.Classify(context.Background(), "short window")
	require.NoError(t, err)

	_, err = c.Classify(context.Background(), strings.Repeat("interdisciplinary ", 500))
	assert.ErrorIs(t, err, ErrInputTooLarge)
	assert.Equal(t, 1, calls, "over-budget window must not reach the network")
}

func TestPing(t *testing.T) {
	models := `{"object": "list", "data": [{"id": "llama3"}, {"id": "gemma2:2b"}]}`

	t.Run("model listed", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/models", r.URL.Path)
			_, _ = w.Write([]byte(models))
		})
		assert.NoError(t, c.Ping(context.Background()))
	})

	t.Run("model missing", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(models))
		}, func(cfg *Config) { cfg.Model = "mistral" })
		err := c.Ping(context.Background())
		assert.ErrorIs(t, err, ErrModelUnavailable)
		assert.ErrorContains(t, err, "mistral")
	})

	t.Run("server error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusServiceUnavailable)
		})
		var se *StatusError
		require.ErrorAs(t, c.Ping(context.Background()), &se)
		assert.Equal(t, http.StatusServiceUnavailable, se.Code)
	})
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{Model: "m"}, nil)
	assert.Error(t, err)
	_, err = New(Config{URL: "http://x"}, nil)
	assert.Error(t, err)
}
