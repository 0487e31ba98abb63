package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"diarist/internal/services"
	"diarist/internal/transcript"
)

const (
	defaultBaseURL        = "https://api.assemblyai.com"
	defaultHTTPTimeout    = 60 * time.Second
	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = 1 * time.Second
	defaultRetryMaxDelay  = 10 * time.Second
	maxErrorBodySnippet   = 512
)

// Config captures the settings required to talk to the service.
type Config struct {
	APIKey           string
	BaseURL          string
	TimeoutSeconds   int
	LanguageCode     string
	SpeakersExpected int
}

// Client talks to the AssemblyAI v2 REST API.
type Client struct {
	cfg        Config
	httpClient *http.Client

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

// WithRetryMaxAttempts overrides the upload attempt count (defaults to 3).
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) {
		c.retryMaxAttempts = attempts
	}
}

// WithRetryBackoff overrides the upload retry backoff delays.
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

// NewClient constructs a client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:           strings.TrimSpace(cfg.APIKey),
			BaseURL:          strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			TimeoutSeconds:   cfg.TimeoutSeconds,
			LanguageCode:     strings.TrimSpace(cfg.LanguageCode),
			SpeakersExpected: cfg.SpeakersExpected,
		},
		httpClient:       &http.Client{Timeout: timeout},
		retryMaxAttempts: defaultRetryAttempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	return client
}

// Transcript is the status document of a remote job. The embedded Result is
// only meaningful once Status is "completed".
type Transcript struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	transcript.Result
}

type uploadResponse struct {
	UploadURL string `json:"upload_url"`
}

type submitRequest struct {
	AudioURL         string `json:"audio_url"`
	SpeakerLabels    bool   `json:"speaker_labels"`
	FormatText       bool   `json:"format_text"`
	LanguageCode     string `json:"language_code,omitempty"`
	SpeakersExpected int    `json:"speakers_expected,omitempty"`
}

// StatusError is a non-2xx response.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("assemblyai %s: http %d: %s", e.Op, e.StatusCode, e.Body)
}

// Transient reports whether the status code is worth retrying.
func (e *StatusError) Transient() bool {
	return e.StatusCode == http.StatusRequestTimeout ||
		e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode >= http.StatusInternalServerError
}

// Upload streams raw audio to the service and returns the URL it can be
// transcribed from. Transient failures are retried from the start of body.
func (c *Client) Upload(ctx context.Context, body io.ReadSeeker) (string, error) {
	attempts := c.retryAttempts()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if _, err := body.Seek(0, io.SeekStart); err != nil {
			return "", fmt.Errorf("assemblyai upload: rewind audio: %w", err)
		}
		var resp uploadResponse
		// NopCloser keeps the transport from closing the caller's file between attempts.
		err := c.do(ctx, "upload", http.MethodPost, "/v2/upload", "application/octet-stream", io.NopCloser(body), &resp)
		if err == nil {
			if strings.TrimSpace(resp.UploadURL) == "" {
				return "", errors.New("assemblyai upload: response missing upload_url")
			}
			return resp.UploadURL, nil
		}
		lastErr = err
		if attempt == attempts || !services.IsTransient(err) || ctx.Err() != nil {
			break
		}
		if err := c.sleep(ctx, c.retryDelay(err, attempt)); err != nil {
			return "", err
		}
	}
	return "", lastErr
}

// Submit creates a transcription job with speaker labels and formatted text
// enabled and returns the job identifier.
func (c *Client) Submit(ctx context.Context, audioURL string) (string, error) {
	if strings.TrimSpace(audioURL) == "" {
		return "", errors.New("assemblyai submit: audio url required")
	}
	payload, err := json.Marshal(submitRequest{
		AudioURL:         audioURL,
		SpeakerLabels:    true,
		FormatText:       true,
		LanguageCode:     c.cfg.LanguageCode,
		SpeakersExpected: c.cfg.SpeakersExpected,
	})
	if err != nil {
		return "", fmt.Errorf("assemblyai submit: encode body: %w", err)
	}
	var created Transcript
	if err := c.do(ctx, "submit", http.MethodPost, "/v2/transcript", "application/json", bytes.NewReader(payload), &created); err != nil {
		return "", err
	}
	if created.Status == "error" {
		return "", fmt.Errorf("assemblyai submit: rejected: %s", strings.TrimSpace(created.Error))
	}
	if strings.TrimSpace(created.ID) == "" {
		return "", errors.New("assemblyai submit: response missing id")
	}
	return created.ID, nil
}

// Transcript fetches the current status document of a job.
func (c *Client) Transcript(ctx context.Context, id string) (Transcript, error) {
	var doc Transcript
	if strings.TrimSpace(id) == "" {
		return doc, errors.New("assemblyai transcript: job id required")
	}
	err := c.do(ctx, "transcript", http.MethodGet, "/v2/transcript/"+url.PathEscape(id), "", nil, &doc)
	return doc, err
}

func (c *Client) do(ctx context.Context, op, method, path, contentType string, body io.Reader, out any) error {
	endpoint, err := url.JoinPath(c.cfg.BaseURL, path)
	if err != nil {
		return fmt.Errorf("assemblyai %s: build url: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("assemblyai %s: new request: %w", op, err)
	}
	req.Header.Set("Authorization", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("assemblyai %s: http error (timeout=%s): %w", op, c.httpClient.Timeout, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("assemblyai %s: read body: %w", op, err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		retryAfter, _ := parseRetryAfter(resp.Header.Get("Retry-After"))
		return &StatusError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       snippet(data),
			RetryAfter: retryAfter,
		}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("assemblyai %s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) retryAttempts() int {
	if c.retryMaxAttempts <= 0 {
		return 1
	}
	return c.retryMaxAttempts
}

func (c *Client) retryDelay(err error, attempt int) time.Duration {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.RetryAfter > 0 {
		return c.capDelay(statusErr.RetryAfter)
	}
	delay := c.retryBaseDelay
	for i := 1; i < attempt && delay > 0; i++ {
		delay *= 2
	}
	return c.capDelay(delay)
}

func (c *Client) capDelay(delay time.Duration) time.Duration {
	if delay < 0 {
		return 0
	}
	if c.retryMaxDelay > 0 && delay > c.retryMaxDelay {
		return c.retryMaxDelay
	}
	return delay
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
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

func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		if delay := time.Until(when); delay > 0 {
			return delay, true
		}
	}
	return 0, false
}

func snippet(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBodySnippet {
		text = text[:maxErrorBodySnippet] + "..."
	}
	return text
}
