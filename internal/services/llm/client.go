package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"genrecheck/internal/services"
)

const (
	defaultHTTPTimeout    = 120 * time.Second
	defaultRetryMaxDelay  = 10 * time.Second
	defaultRetryBaseDelay = 1 * time.Second
	defaultRetryAttempts  = 3
	defaultBaseURL        = "http://localhost:11434/v1"
)

// Config captures the runtime settings required to talk to the LLM.
type Config struct {
	BaseURL        string
	Model          string
	APIKey         string
	TimeoutSeconds int
	MaxAttempts    int
}

// Client wraps an OpenAI-compatible chat completion API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	api        *openai.Client

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	sleeper          func(time.Duration)
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryMaxAttempts overrides the configured retry count.
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) {
		c.retryMaxAttempts = attempts
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retryBaseDelay = baseDelay
		c.retryMaxDelay = maxDelay
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// NewClient constructs an LLM client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	attempts := defaultRetryAttempts
	if cfg.MaxAttempts > 0 {
		attempts = cfg.MaxAttempts
	}
	client := &Client{
		cfg: Config{
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			Model:          strings.TrimSpace(cfg.Model),
			APIKey:         strings.TrimSpace(cfg.APIKey),
			TimeoutSeconds: cfg.TimeoutSeconds,
			MaxAttempts:    attempts,
		},
		httpClient:       &http.Client{Timeout: timeout},
		retryMaxAttempts: attempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}

	apiConfig := openai.DefaultConfig(client.cfg.APIKey)
	apiConfig.BaseURL = client.cfg.BaseURL
	apiConfig.HTTPClient = client.httpClient
	client.api = openai.NewClientWithConfig(apiConfig)
	return client
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.cfg.Model
}

type emptyContentError struct {
	Op           string
	FinishReason string
	Refusal      string
}

func (e *emptyContentError) Error() string {
	return fmt.Sprintf("%s: empty content (finish_reason=%q, refusal=%q)", e.Op, e.FinishReason, e.Refusal)
}

// ClassifyGenres asks the model for the genres of a plot summary and returns
// its comma-separated answer verbatim apart from trimming.
func (c *Client) ClassifyGenres(ctx context.Context, summary string) (string, error) {
	if strings.TrimSpace(summary) == "" {
		return "", services.Wrap(services.ErrValidation, "llm", "classify genres", "summary required", nil)
	}
	return c.complete(ctx, GenrePrompt(summary), "llm classify")
}

// Complete sends a single user message and returns the reply text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", services.Wrap(services.ErrValidation, "llm", "complete", "prompt required", nil)
	}
	return c.complete(ctx, prompt, "llm complete")
}

func (c *Client) complete(ctx context.Context, prompt, op string) (string, error) {
	if c.cfg.Model == "" {
		return "", services.Wrap(services.ErrConfiguration, "llm", op, "model required", nil)
	}
	request := openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	content, err := c.completionWithRetry(ctx, request, op)
	if err != nil {
		return "", classifyError(op, err)
	}
	return content, nil
}

// HealthCheck verifies the endpoint is reachable and lists the configured model.
// Ollama reports tagged names ("mistral:latest"), so an untagged model name
// matches any tag.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.cfg.Model == "" {
		return services.Wrap(services.ErrConfiguration, "llm", "health", "model required", nil)
	}
	models, err := c.api.ListModels(ctx)
	if err != nil {
		return classifyError("llm health", err)
	}
	available := make([]string, 0, len(models.Models))
	for _, model := range models.Models {
		if modelMatches(c.cfg.Model, model.ID) {
			return nil
		}
		available = append(available, model.ID)
	}
	return services.Wrap(services.ErrConfiguration, "llm", "health",
		fmt.Sprintf("model %q not served (available: %s)", c.cfg.Model, strings.Join(available, ", ")), nil)
}

func modelMatches(want, have string) bool {
	want = strings.TrimSpace(want)
	have = strings.TrimSpace(have)
	if strings.EqualFold(want, have) {
		return true
	}
	if !strings.Contains(want, ":") {
		if base, _, ok := strings.Cut(have, ":"); ok && strings.EqualFold(base, want) {
			return true
		}
	}
	return false
}

func (c *Client) completionWithRetry(ctx context.Context, request openai.ChatCompletionRequest, op string) (string, error) {
	attempts := c.retryAttempts()
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := c.api.CreateChatCompletion(ctx, request)
		if err == nil {
			content, finishReason, refusal := extractContent(resp)
			if content != "" {
				return content, nil
			}
			if len(resp.Choices) == 0 {
				err = fmt.Errorf("%s: empty choices", op)
			} else {
				err = &emptyContentError{Op: op, FinishReason: finishReason, Refusal: refusal}
			}
		}

		delay, retry := c.retryDelay(ctx, err, attempt, attempts)
		if !retry {
			return "", err
		}
		if err := c.sleep(ctx, delay); err != nil {
			return "", err
		}
		lastErr = err
	}

	if lastErr == nil {
		lastErr = errors.New("unknown retry failure")
	}
	return "", fmt.Errorf("%s: failed after %d attempts: %w", op, attempts, lastErr)
}

func extractContent(resp openai.ChatCompletionResponse) (string, string, string) {
	var finishReason, refusal string
	for _, choice := range resp.Choices {
		if finishReason == "" {
			finishReason = string(choice.FinishReason)
		}
		if refusal == "" {
			refusal = strings.TrimSpace(choice.Message.Refusal)
		}
		if content := strings.TrimSpace(choice.Message.Content); content != "" {
			return content, finishReason, refusal
		}
	}
	return "", finishReason, refusal
}

func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return services.Wrap(services.ErrTimeout, "llm", op, "request timed out", err)
	}
	if code := statusCode(err); code == http.StatusUnauthorized || code == http.StatusForbidden || code == http.StatusNotFound {
		return services.Wrap(services.ErrConfiguration, "llm", op, fmt.Sprintf("endpoint rejected request (http %d)", code), err)
	}
	return services.Wrap(services.ErrExternalTool, "llm", op, "chat completion failed", err)
}

func statusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}

func (c *Client) retryAttempts() int {
	if c == nil || c.retryMaxAttempts <= 0 {
		return 1
	}
	return c.retryMaxAttempts
}

func (c *Client) retryDelay(ctx context.Context, err error, attempt, maxAttempts int) (time.Duration, bool) {
	if attempt >= maxAttempts || err == nil || ctx == nil {
		return 0, false
	}
	if ctx.Err() != nil {
		return 0, false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return 0, false
	}

	var emptyErr *emptyContentError
	if errors.As(err, &emptyErr) {
		return c.backoffDelay(attempt), true
	}

	if code := statusCode(err); code != 0 {
		switch {
		case code == http.StatusRequestTimeout,
			code == http.StatusTooManyRequests,
			code >= http.StatusInternalServerError:
			return c.backoffDelay(attempt), true
		default:
			return 0, false
		}
	}

	if isTimeout(err) {
		return c.backoffDelay(attempt), true
	}
	return 0, false
}

func (c *Client) backoffDelay(attempt int) time.Duration {
	base := defaultRetryBaseDelay
	maxDelay := defaultRetryMaxDelay
	if c != nil {
		if c.retryBaseDelay >= 0 {
			base = c.retryBaseDelay
		}
		if c.retryMaxDelay > 0 {
			maxDelay = c.retryMaxDelay
		}
	}
	if base <= 0 {
		return 0
	}
	if attempt <= 0 {
		attempt = 1
	}

	// attempt 1 -> base, attempt 2 -> base*2, attempt 3 -> base*4, ...
	delay := base
	for i := 1; i < attempt; i++ {
		if delay > maxDelay/2 {
			delay = maxDelay
			break
		}
		delay *= 2
	}
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
