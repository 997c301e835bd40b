package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/ratelimit"
	"github.com/felixgeelhaar/fortify/retry"
	"github.com/google/uuid"

	"github.com/handiism/distro-wizard/internal/distribution"
	"github.com/handiism/distro-wizard/internal/model"
)

// ConfirmationMessage is the text the API returns when a distribution
// request was accepted.
const ConfirmationMessage = "Distribution request created successfully"

// Config configures a Client.
type Config struct {
	// BaseURL is the API root, for example "https://api.example.com".
	BaseURL string

	// CreateRequestPath is the endpoint for new distribution requests.
	CreateRequestPath string

	// UserAgent is sent with every request.
	UserAgent string

	// AuthToken is the session token. When AuthCookieName is set it is
	// sent as that cookie, otherwise as a bearer token.
	AuthToken      string
	AuthCookieName string

	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration

	// RateLimitRPM caps requests per minute. Zero disables the limiter.
	RateLimitRPM int

	// Retry settings for idempotent GET requests.
	RetryAttempts    int
	RetryInitialWait time.Duration
	RetryMaxWait     time.Duration

	// Circuit breaker settings for GET requests. A zero threshold
	// disables the breaker.
	BreakerThreshold int
	BreakerTimeout   time.Duration
}

// Client talks to the distribution platform's REST API.
//
// Client provides:
//   - Auth cookie or bearer header, User-Agent and X-Request-ID headers
//   - Multipart upload of distribution requests with progress tracking
//   - JSON GET requests with retry and a circuit breaker
//   - A shared rate limit for all requests
//
// Distribution requests are never retried automatically.
type Client struct {
	httpClient *http.Client
	cfg        Config
	logger     *log.Logger

	limiter ratelimit.RateLimiter
	breaker circuitbreaker.CircuitBreaker[[]byte]
	retrier retry.Retry[[]byte]

	onUpload func(written, total int64)
}

// NewClient creates a Client. If logger is nil, log output is discarded.
func NewClient(cfg Config, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		logger:     logger,
	}

	if cfg.RateLimitRPM > 0 {
		c.limiter = ratelimit.New(&ratelimit.Config{
			Rate:     cfg.RateLimitRPM,
			Burst:    cfg.RateLimitRPM,
			Interval: time.Minute,
		})
	}

	if cfg.RetryAttempts > 0 {
		c.retrier = retry.New[[]byte](retry.Config{
			MaxAttempts:   cfg.RetryAttempts,
			InitialDelay:  cfg.RetryInitialWait,
			MaxDelay:      cfg.RetryMaxWait,
			BackoffPolicy: retry.BackoffExponential,
			Multiplier:    2.0,
			Jitter:        true,
			IsRetryable:   isRetryable,
		})
	}

	if cfg.BreakerThreshold > 0 {
		threshold := uint32(cfg.BreakerThreshold) // #nosec G115 -- small config value
		c.breaker = circuitbreaker.New[[]byte](circuitbreaker.Config{
			MaxRequests: 1,
			Interval:    cfg.BreakerTimeout,
			Timeout:     cfg.BreakerTimeout,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
		})
	}

	return c
}

// OnUploadProgress registers a callback receiving (bytesWritten, total)
// while distribution request files are streamed.
func (c *Client) OnUploadProgress(fn func(written, total int64)) {
	c.onUpload = fn
}

// ProgressWriter wraps a writer to track upload progress.
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes.
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with (written, total).
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// GetJSON performs a GET request and decodes the JSON response into v.
//
// GET requests go through the circuit breaker and are retried on network
// errors and 5xx responses.
func (c *Client) GetJSON(ctx context.Context, path string, v any) error {
	body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &RequestError{Kind: KindUnexpected, Status: http.StatusOK, Err: fmt.Errorf("decode %s: %w", path, err)}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	op := func(ctx context.Context) ([]byte, error) {
		return c.getOnce(ctx, path)
	}
	withRetry := func(ctx context.Context) ([]byte, error) {
		if c.retrier != nil {
			return c.retrier.Do(ctx, op)
		}
		return op(ctx)
	}
	if c.breaker != nil {
		return c.breaker.Execute(ctx, withRetry)
	}
	return withRetry(ctx)
}

func (c *Client) getOnce(ctx context.Context, path string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, newStatusError(status, body)
	}
	return body, nil
}

// CreateDistributionRequest uploads a distribution request.
//
// The payload is sent as multipart/form-data with the text fields caption,
// description, genre and social_links (JSON) and the file fields
// audio_upload and cover_photo. The call succeeds only on HTTP 200 with a
// body whose message contains ConfirmationMessage. Failures are returned
// as *RequestError.
func (c *Client) CreateDistributionRequest(ctx context.Context, p *distribution.Payload) error {
	links, err := json.Marshal(p.SocialLinks)
	if err != nil {
		return fmt.Errorf("encode social links: %w", err)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(c.writeForm(mw, p, string(links)))
	}()

	req, err := c.newRequest(ctx, http.MethodPost, c.cfg.CreateRequestPath, pr)
	if err != nil {
		pr.Close()
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	status, body, err := c.do(req)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return newStatusError(status, body)
	}

	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || !strings.Contains(resp.Message, ConfirmationMessage) {
		c.logger.Warn("unexpected create response", "body", truncate(string(body), 200))
		return &RequestError{Kind: KindUnexpected, Status: status, ServerMessage: resp.Message}
	}
	return nil
}

// writeForm streams the multipart body.
func (c *Client) writeForm(mw *multipart.Writer, p *distribution.Payload, links string) error {
	fields := []struct{ name, value string }{
		{"caption", p.Caption},
		{"description", p.Description},
		{"genre", p.Genre},
		{"social_links", links},
	}
	for _, f := range fields {
		if err := mw.WriteField(f.name, f.value); err != nil {
			return fmt.Errorf("write %s field: %w", f.name, err)
		}
	}

	var total int64
	for _, u := range []*model.Upload{p.AudioUpload, p.CoverPhoto} {
		if u != nil {
			total += u.Size
		}
	}
	progress := &ProgressWriter{Total: total, OnUpdate: c.onUpload}

	if err := writeFile(mw, "audio_upload", p.AudioUpload, progress); err != nil {
		return err
	}
	if err := writeFile(mw, "cover_photo", p.CoverPhoto, progress); err != nil {
		return err
	}
	return mw.Close()
}

func writeFile(mw *multipart.Writer, field string, u *model.Upload, progress *ProgressWriter) error {
	if u == nil {
		return nil
	}
	src, err := u.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", field, err)
	}
	defer src.Close()

	part, err := mw.CreateFormFile(field, u.Name)
	if err != nil {
		return fmt.Errorf("create %s part: %w", field, err)
	}
	progress.Writer = part
	if _, err := io.Copy(progress, src); err != nil {
		return fmt.Errorf("copy %s: %w", field, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, "api"); err != nil {
			return nil, err
		}
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())

	if c.cfg.AuthToken != "" {
		if c.cfg.AuthCookieName != "" {
			req.AddCookie(&http.Cookie{Name: c.cfg.AuthCookieName, Value: c.cfg.AuthToken})
		} else {
			req.Header.Set("Authorization", "Bearer "+c.cfg.AuthToken)
		}
	}
	return req, nil
}

// do sends req and reads the whole response body.
func (c *Client) do(req *http.Request) (int, []byte, error) {
	start := time.Now()
	reqID := req.Header.Get("X-Request-ID")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return 0, nil, &RequestError{Kind: KindUnexpected, Err: ctxErr}
		}
		c.logger.Warn("request failed", "method", req.Method, "path", req.URL.Path, "request_id", reqID, "err", err)
		return 0, nil, &RequestError{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &RequestError{Kind: KindNetwork, Status: resp.StatusCode, Err: err}
	}

	c.logger.Debug("request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"request_id", reqID,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return resp.StatusCode, body, nil
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var re *RequestError
	if errors.As(err, &re) {
		return re.Temporary()
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
