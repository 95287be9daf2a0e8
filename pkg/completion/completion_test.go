package completion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeService struct {
	t        *testing.T
	calls    atomic.Int64
	handler  func(n int64, w http.ResponseWriter, r *http.Request)
	lastBody atomic.Value
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n := f.calls.Add(1)

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err == nil {
		f.lastBody.Store(payload)
	}

	f.handler(n, w, r)
}

func (f *fakeService) lastPrompt(t *testing.T) string {
	t.Helper()
	payload, ok := f.lastBody.Load().(map[string]any)
	require.True(t, ok, "no request captured")
	messages, ok := payload["messages"].([]any)
	require.True(t, ok)
	last, ok := messages[len(messages)-1].(map[string]any)
	require.True(t, ok)
	content, ok := last["content"].(string)
	require.True(t, ok)
	return content
}

func respondSummary(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": text},
		}},
	})
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"message": message, "type": "test_error"},
	})
}

func newTestClient(t *testing.T, fake *fakeService, mutate func(*Config)) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	cfg := Config{
		APIKey:         "test-key",
		APIEndpoint:    srv.URL,
		Model:          "gpt-4o-mini",
		MaxInputChars:  48000,
		RequestTimeout: 10 * time.Second,
		Retry: Schedule{
			MaxAttempts:   4,
			InitialDelay:  time.Millisecond,
			MaxDelay:      5 * time.Millisecond,
			BackoffFactor: 2.0,
		},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewClient(cfg, zap.NewNop())
}

func TestSummarizeSuccess(t *testing.T) {
	fake := &fakeService{handler: func(_ int64, w http.ResponseWriter, _ *http.Request) {
		respondSummary(w, "Um resumo conciso do artigo.")
	}}
	client := newTestClient(t, fake, nil)

	result, err := client.Summarize(context.Background(), Request{
		Text:     "Article body text.",
		Language: "Portuguese",
		Style:    "a concise paragraph",
		SourceID: "https://example.com/a",
	})
	require.NoError(t, err)

	assert.Equal(t, "Um resumo conciso do artigo.", result.Summary)
	assert.Equal(t, "Portuguese", result.Request.Language)
	assert.False(t, result.CreatedAt.IsZero())
	assert.EqualValues(t, 1, fake.calls.Load())

	prompt := fake.lastPrompt(t)
	assert.Contains(t, prompt, "in Portuguese")
	assert.Contains(t, prompt, `"a concise paragraph"`)
	assert.Contains(t, prompt, "Article body text.")
}

func TestSummarizeRecoversFromRateLimits(t *testing.T) {
	// Three consecutive rate limits, success on the fourth attempt,
	// still inside the retry budget.
	fake := &fakeService{handler: func(n int64, w http.ResponseWriter, _ *http.Request) {
		if n <= 3 {
			respondError(w, http.StatusTooManyRequests, "rate limited")
			return
		}
		respondSummary(w, "Recovered summary.")
	}}
	client := newTestClient(t, fake, nil)

	result, err := client.Summarize(context.Background(), Request{Text: "body", Language: "English", Style: "terse"})
	require.NoError(t, err)
	assert.Equal(t, "Recovered summary.", result.Summary)
	assert.EqualValues(t, 4, fake.calls.Load())
}

func TestSummarizeRecoversFromStalledService(t *testing.T) {
	// The first attempt stalls past the per-request timeout; the
	// schedule retries and the second attempt answers normally.
	fake := &fakeService{handler: func(n int64, w http.ResponseWriter, _ *http.Request) {
		if n == 1 {
			time.Sleep(500 * time.Millisecond)
		}
		respondSummary(w, "Summary after a slow start.")
	}}
	client := newTestClient(t, fake, func(cfg *Config) {
		cfg.RequestTimeout = 100 * time.Millisecond
	})

	result, err := client.Summarize(context.Background(), Request{Text: "body", Language: "English", Style: "terse"})
	require.NoError(t, err)
	assert.Equal(t, "Summary after a slow start.", result.Summary)
	assert.GreaterOrEqual(t, fake.calls.Load(), int64(2))
}

func TestSummarizeCallerCancellationIsNotRetried(t *testing.T) {
	fake := &fakeService{handler: func(_ int64, w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		respondSummary(w, "too late")
	}}
	client := newTestClient(t, fake, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Summarize(ctx, Request{Text: "body", Language: "English", Style: "terse"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.EqualValues(t, 1, fake.calls.Load())
}

func TestSummarizeExhaustsRetryBudget(t *testing.T) {
	fake := &fakeService{handler: func(_ int64, w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusServiceUnavailable, "still down")
	}}
	client := newTestClient(t, fake, nil)

	_, err := client.Summarize(context.Background(), Request{Text: "body", Language: "English", Style: "terse"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 4 attempts")
	assert.EqualValues(t, 4, fake.calls.Load())
}

func TestSummarizeMissingCredentialFailsFast(t *testing.T) {
	fake := &fakeService{handler: func(_ int64, w http.ResponseWriter, _ *http.Request) {
		respondSummary(w, "should never be reached")
	}}
	client := newTestClient(t, fake, func(cfg *Config) { cfg.APIKey = "" })

	_, err := client.Summarize(context.Background(), Request{Text: "body", Language: "English", Style: "terse"})
	assert.ErrorIs(t, err, ErrNoCredential)
	assert.EqualValues(t, 0, fake.calls.Load())
}

func TestSummarizeRejectedCredentialIsNotRetried(t *testing.T) {
	fake := &fakeService{handler: func(_ int64, w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusUnauthorized, "invalid api key")
	}}
	client := newTestClient(t, fake, nil)

	_, err := client.Summarize(context.Background(), Request{Text: "body", Language: "English", Style: "terse"})
	assert.ErrorIs(t, err, ErrCredentialRejected)
	assert.EqualValues(t, 1, fake.calls.Load())
}

func TestSummarizeEmptyCompletionIsTerminalAfterRetries(t *testing.T) {
	fake := &fakeService{handler: func(_ int64, w http.ResponseWriter, _ *http.Request) {
		respondSummary(w, "   ")
	}}
	client := newTestClient(t, fake, nil)

	_, err := client.Summarize(context.Background(), Request{Text: "body", Language: "English", Style: "terse"})
	assert.ErrorIs(t, err, ErrEmptyCompletion)
	assert.EqualValues(t, 4, fake.calls.Load())
}

func TestSummarizeEmptyRequestText(t *testing.T) {
	fake := &fakeService{handler: func(_ int64, w http.ResponseWriter, _ *http.Request) {
		respondSummary(w, "unused")
	}}
	client := newTestClient(t, fake, nil)

	_, err := client.Summarize(context.Background(), Request{Text: "  \n ", Language: "English", Style: "terse"})
	require.Error(t, err)
	assert.EqualValues(t, 0, fake.calls.Load())
}

func TestSummarizeTruncatesOversizedText(t *testing.T) {
	fake := &fakeService{handler: func(_ int64, w http.ResponseWriter, _ *http.Request) {
		respondSummary(w, "truncated input summary")
	}}
	client := newTestClient(t, fake, func(cfg *Config) { cfg.MaxInputChars = 100 })

	_, err := client.Summarize(context.Background(), Request{
		Text:     strings.Repeat("x", 5000),
		Language: "English",
		Style:    "terse",
	})
	require.NoError(t, err)

	prompt := fake.lastPrompt(t)
	assert.Contains(t, prompt, strings.Repeat("x", 100))
	assert.NotContains(t, prompt, strings.Repeat("x", 101))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, "ab", truncate("abcd", 2))
	assert.Equal(t, "abcd", truncate("abcd", 0))
	// Rune boundary, not byte boundary.
	assert.Equal(t, "aç", truncate("açaí", 2))
}
