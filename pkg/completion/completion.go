// Package completion wraps the external chat-completion service behind
// a single Summarize call with bounded retries and failure
// classification.
package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

var (
	// ErrNoCredential means no API key was configured. Fatal, never
	// retried.
	ErrNoCredential = errors.New("no API key configured")
	// ErrCredentialRejected means the service refused the configured
	// key. Fatal, never retried.
	ErrCredentialRejected = errors.New("API key rejected by completion service")
	// ErrEmptyCompletion means the service answered without usable
	// text after all attempts.
	ErrEmptyCompletion = errors.New("completion service returned empty content")
)

const systemPrompt = "You are a precise summarization assistant. " +
	"Follow the requested language and style exactly and answer with the summary only."

// Config carries everything one client instance needs. Language and
// style defaults live with the caller; the client forwards whatever the
// request says, verbatim.
type Config struct {
	APIKey      string
	APIEndpoint string
	Model       string
	Temperature float64
	MaxTokens   int

	// MaxInputChars is the head-truncation budget for request text.
	MaxInputChars int

	// RequestTimeout bounds a single service call, including retries'
	// individual calls but not the backoff sleeps between them.
	RequestTimeout time.Duration

	Retry Schedule
}

// Request asks for one summary of one document.
type Request struct {
	// Text is the canonical document text. Must be non-empty.
	Text string
	// Language and Style are opaque labels embedded verbatim in the
	// prompt; the service interprets them.
	Language string
	Style    string
	// SourceID identifies the document's origin, for persistence.
	SourceID string
}

// Result is one produced summary. Immutable once returned.
type Result struct {
	Summary   string
	Request   Request
	CreatedAt time.Time
}

// Client talks to the completion service.
type Client struct {
	cfg    Config
	client openai.Client
	logger *zap.Logger
}

// NewClient builds a client for the configured endpoint. The API key
// is checked at call time so construction never fails.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0), // retry policy lives here, not in the SDK
	}
	if cfg.APIEndpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.APIEndpoint))
	}
	if cfg.RequestTimeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.RequestTimeout))
	}

	return &Client{
		cfg:    cfg,
		client: openai.NewClient(opts...),
		logger: logger,
	}
}

// Summarize performs one external call sequence for the request.
// Transient failures are retried per the schedule; credential problems
// fail immediately. The returned summary is never empty.
func (c *Client) Summarize(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, ErrNoCredential
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("request has no text to summarize")
	}

	text := truncate(req.Text, c.cfg.MaxInputChars)
	if len(text) < len(req.Text) {
		c.logger.Debug("truncated oversized document",
			zap.Int("original", len(req.Text)),
			zap.Int("submitted", len(text)))
	}

	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildPrompt(text, req.Language, req.Style)),
		},
		Model: openai.ChatModel(c.cfg.Model),
	}
	if c.cfg.Temperature > 0 {
		params.Temperature = openai.Float(c.cfg.Temperature)
	}
	if c.cfg.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.cfg.MaxTokens))
	}

	summary, err := c.callWithRetry(ctx, params)
	if err != nil {
		return nil, err
	}

	return &Result{
		Summary:   summary,
		Request:   req,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (c *Client) callWithRetry(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	schedule := c.cfg.Retry.withDefaults()

	var lastErr error
	for attempt := 1; attempt <= schedule.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		summary, err := c.callOnce(ctx, params)
		if err == nil {
			return summary, nil
		}
		lastErr = err

		kind := classify(err)
		if kind == failureFatal {
			return "", err
		}
		// A timeout is retryable only when it was the per-attempt
		// request timeout; if the caller's context expired, stop here.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}

		if attempt == schedule.MaxAttempts {
			break
		}

		delay := schedule.delay(attempt)
		c.logger.Warn("completion attempt failed, backing off",
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", schedule.MaxAttempts),
			zap.Duration("delay", delay),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}

	return "", fmt.Errorf("after %d attempts: %w", schedule.MaxAttempts, lastErr)
}

func (c *Client) callOnce(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	chat, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && isAuthStatus(apiErr.StatusCode) {
			return "", fmt.Errorf("%w: %v", ErrCredentialRejected, err)
		}
		return "", fmt.Errorf("completion call: %w", err)
	}

	if len(chat.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	summary := strings.TrimSpace(chat.Choices[0].Message.Content)
	if summary == "" {
		return "", ErrEmptyCompletion
	}
	return summary, nil
}

func buildPrompt(text, language, style string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Please summarize the following article in %s. ", language)
	fmt.Fprintf(&b, "The summary style should be: %q.\n\n", style)
	b.WriteString("-- ARTICLE START --\n")
	b.WriteString(text)
	b.WriteString("\n-- ARTICLE END --")
	return b.String()
}

// truncate head-truncates at a rune boundary. Deliberately not
// content-aware: the budget is a safety bound, not a quality feature.
func truncate(text string, maxChars int) string {
	if maxChars <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return string(runes[:maxChars])
}
