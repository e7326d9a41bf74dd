// Package reporter submits emergency reports to the backend.
package reporter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/splitleasesharath/emergency-report/internal/config"
	"github.com/splitleasesharath/emergency-report/internal/domain"
	"github.com/splitleasesharath/emergency-report/pkg/e"
)

const DefaultErrorMessage = "Failed to submit report"

// SubmitError is returned for any failed submission. Message is what the user sees.
type SubmitError struct {
	StatusCode int
	Message    string
	Body       []byte
	Err        error
}

func (s *SubmitError) Error() string {
	if s.StatusCode != 0 {
		return fmt.Sprintf("submit report: status %d: %s", s.StatusCode, s.Message)
	}
	return fmt.Sprintf("submit report: %s", s.Message)
}

func (s *SubmitError) Unwrap() []error {
	if s.Err == nil {
		return []error{e.ErrSubmit}
	}
	return []error{e.ErrSubmit, s.Err}
}

type Client struct {
	endpoint string
	apiKey   string
	secret   string
	http     *http.Client
	logger   *slog.Logger

	mu         sync.Mutex
	submitting bool
	errMsg     string
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// NewClient builds a client for cfg. No client-side timeout is set: a submit lasts
// as long as the caller's context allows.
func NewClient(cfg config.ReporterConfig, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		endpoint: cfg.Endpoint(),
		apiKey:   cfg.APIKey,
		secret:   cfg.JWTSecret,
		http:     &http.Client{},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) IsSubmitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Err is the display message of the last failed submit, "" otherwise.
func (c *Client) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Submit posts report once and returns the response body untouched.
func (c *Client) Submit(ctx context.Context, report domain.EmergencyReport) (json.RawMessage, error) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return nil, e.ErrSubmitInFlight
	}
	c.submitting = true
	c.errMsg = ""
	c.mu.Unlock()

	var (
		body json.RawMessage
		err  error
	)
	defer func() {
		c.mu.Lock()
		c.submitting = false
		var se *SubmitError
		if errors.As(err, &se) {
			c.errMsg = se.Message
		}
		c.mu.Unlock()
	}()

	body, err = c.post(ctx, report)
	return body, err
}

func (c *Client) post(ctx context.Context, report domain.EmergencyReport) (json.RawMessage, error) {
	l := c.logger.With(
		slog.String("endpoint", c.endpoint),
		slog.String("emergency_type", string(report.EmergencyType)),
		slog.String("reservation_id", report.ReservationID),
		slog.Int("photos", len(report.Photos)),
	)

	payload, contentType, err := EncodeMultipart(report)
	if err != nil {
		l.Error("encode report failed", slog.Any("error", err))
		return nil, &SubmitError{Message: DefaultErrorMessage, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, payload)
	if err != nil {
		l.Error("create report request failed", slog.Any("error", err))
		return nil, &SubmitError{Message: DefaultErrorMessage, Err: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	bearer, err := c.bearer(report)
	if err != nil {
		l.Error("sign report token failed", slog.Any("error", err))
		return nil, &SubmitError{Message: DefaultErrorMessage, Err: err}
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	l.Info("submitting emergency report")
	resp, err := c.http.Do(req)
	if err != nil {
		l.Error("report request failed", slog.Any("error", err))
		return nil, &SubmitError{Message: DefaultErrorMessage, Err: e.WrapError(ctx, "reporter.Submit", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		l.Error("read report response failed", slog.Any("error", err))
		return nil, &SubmitError{StatusCode: resp.StatusCode, Message: DefaultErrorMessage, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := errorMessage(raw)
		l.Warn("report rejected",
			slog.Int("status", resp.StatusCode),
			slog.String("message", msg),
		)
		return nil, &SubmitError{StatusCode: resp.StatusCode, Message: msg, Body: raw}
	}

	l.Info("emergency report submitted", slog.Int("status", resp.StatusCode))
	return json.RawMessage(raw), nil
}

// bearer prefers a token signed for this report over the static API key.
func (c *Client) bearer(report domain.EmergencyReport) (string, error) {
	if c.secret != "" {
		return SignReportToken(c.secret, report, time.Now())
	}
	return c.apiKey, nil
}

// errorMessage pulls a non-empty string "message" out of a JSON error body.
func errorMessage(body []byte) string {
	var payload struct {
		Message any `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return DefaultErrorMessage
	}
	if s, ok := payload.Message.(string); ok && s != "" {
		return s
	}
	return DefaultErrorMessage
}
