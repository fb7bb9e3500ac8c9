// Package qualtrics fetches survey definitions from the Qualtrics v3 API.
//
// The client is synchronous: each call returns a finished document or an
// error. Throttling (429) and server errors (5xx) are retried with backoff,
// paced by a token-bucket limiter. When the platform refuses a request the
// error matches errors.ErrExportFailed; transport failures do not, so callers
// can tell "the export failed" from "we never reached the platform".
package qualtrics

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/buger/jsonparser"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teranos/qsfdecode/am"
	"github.com/teranos/qsfdecode/errors"
	"github.com/teranos/qsfdecode/internal/httpclient"
	"github.com/teranos/qsfdecode/logger"
)

// TokenHeader carries the API token on every request
const TokenHeader = "x-api-token"

// RequestIDHeader correlates retries of one call in logs on both sides
const RequestIDHeader = "X-Request-ID"

// maxBodyBytes bounds a single response; survey definitions with media can
// be large but not unbounded
const maxBodyBytes = 64 << 20

// DefaultBackoff is the wait before the first retry; it doubles per attempt
const DefaultBackoff = 500 * time.Millisecond

// Format selects the survey definition serialization
type Format string

const (
	// FormatQSF is the survey file format understood by the translator
	FormatQSF Format = "qsf"
	// FormatDefinition is the API's native definition JSON
	FormatDefinition Format = ""
)

// Survey is one entry of the survey listing
type Survey struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

// Client talks to one Qualtrics data center
type Client struct {
	base       *url.URL
	token      string
	http       *httpclient.SaferClient
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	log        *zap.SugaredLogger
}

// Option configures a Client
type Option func(*Client)

// WithLogger sets the client's logger
func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// WithHTTPClient replaces the hardened default HTTP client
func WithHTTPClient(hc *httpclient.SaferClient) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithBackoff sets the initial retry wait
func WithBackoff(d time.Duration) Option {
	return func(c *Client) {
		c.backoff = d
	}
}

// NewClient creates a client from configuration. The API token and a data
// center (or explicit base URL) are required.
func NewClient(cfg am.QualtricsConfig, opts ...Option) (*Client, error) {
	if err := cfg.ValidateCredentials(); err != nil {
		return nil, err
	}

	c := &Client{
		token:      cfg.APIToken,
		maxRetries: cfg.MaxRetries,
		backoff:    DefaultBackoff,
		log:        logger.ComponentLogger("qualtrics"),
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.New(time.Duration(cfg.GetTimeoutSeconds()) * time.Second)
	}

	base, err := c.http.ValidateURL(cfg.GetBaseURL())
	if err != nil {
		return nil, errors.Wrap(err, "invalid qualtrics base URL")
	}
	c.base = base
	return c, nil
}

// BaseURL returns the API root requests are resolved against
func (c *Client) BaseURL() string {
	return c.base.String()
}

// SurveyDefinition exports the definition of surveyID
func (c *Client) SurveyDefinition(ctx context.Context, surveyID string, format Format) ([]byte, error) {
	if surveyID == "" {
		return nil, errors.Wrap(errors.ErrInvalidRequest, "survey ID is required")
	}

	u := c.base.JoinPath("survey-definitions", surveyID)
	if format != FormatDefinition {
		u.RawQuery = url.Values{"format": {string(format)}}.Encode()
	}

	ctx = logger.WithSurveyID(ctx, surveyID)
	body, err := c.get(ctx, u)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to export definition for survey %s", surveyID)
	}

	if _, _, _, err := jsonparser.Get(body, "result"); err != nil {
		return nil, errors.NewExportFailedError("definition for survey %s carries no result", surveyID)
	}
	return body, nil
}

// Surveys lists the surveys visible to the token's owner, following pages
func (c *Client) Surveys(ctx context.Context) ([]Survey, error) {
	var out []Survey
	next := c.base.JoinPath("surveys")

	for next != nil {
		body, err := c.get(ctx, next)
		if err != nil {
			return nil, errors.Wrap(err, "unable to retrieve list of surveys")
		}

		page, nextPage, err := parseSurveys(body)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)

		next = nil
		if nextPage != "" {
			if next, err = c.sameOrigin(nextPage); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func parseSurveys(body []byte) ([]Survey, string, error) {
	var page []Survey
	var parseErr error
	_, err := jsonparser.ArrayEach(body, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
		if dataType != jsonparser.Object || parseErr != nil {
			return
		}
		var s Survey
		if s.ID, parseErr = jsonparser.GetString(value, "id"); parseErr != nil {
			parseErr = errors.Wrap(errors.ErrExportFailed, "survey listing entry without id")
			return
		}
		s.Name, _ = jsonparser.GetString(value, "name")
		s.IsActive, _ = jsonparser.GetBoolean(value, "isActive")
		page = append(page, s)
	}, "result", "elements")
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrExportFailed, "survey listing carries no result.elements")
	}
	if parseErr != nil {
		return nil, "", parseErr
	}

	next, _ := jsonparser.GetString(body, "result", "nextPage")
	return page, next, nil
}

// sameOrigin resolves a pagination link, refusing hosts other than the API's
// so the token is never sent elsewhere
func (c *Client) sameOrigin(raw string) (*url.URL, error) {
	u, err := c.base.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(err, "invalid pagination link")
	}
	if u.Scheme != c.base.Scheme || u.Host != c.base.Host {
		return nil, errors.Newf("pagination link leaves %s: %s", c.base.Host, u.Host)
	}
	return u, nil
}

// get performs a GET with pacing and retries, returning the body of a 2xx
// response. Every attempt carries the same request ID.
func (c *Client) get(ctx context.Context, u *url.URL) ([]byte, error) {
	requestID := uuid.New().String()
	ctx = logger.WithRequestID(ctx, requestID)
	log := c.log.With(logger.FieldsFromContext(ctx)...)
	wait := c.backoff

	for attempt := 0; ; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, errors.Wrap(err, "request pacing interrupted")
			}
		}

		start := time.Now()
		status, body, retryAfter, err := c.do(ctx, u, requestID)
		log.Debugw("Qualtrics request",
			logger.FieldURL, u.Path,
			logger.FieldStatus, status,
			logger.FieldAttempt, attempt+1,
			logger.FieldDurationMS, time.Since(start).Milliseconds())

		retryable := err != nil || status == http.StatusTooManyRequests || status >= 500
		if err != nil && ctx.Err() != nil {
			return nil, errors.Wrap(ctx.Err(), "request cancelled")
		}
		if !retryable {
			if status >= 200 && status < 300 {
				return body, nil
			}
			return nil, apiError(status, body)
		}
		if attempt >= c.maxRetries {
			if err != nil {
				return nil, errors.Wrapf(err, "request to %s failed after %d attempts", u.Path, attempt+1)
			}
			return nil, apiError(status, body)
		}

		if retryAfter > wait {
			wait = retryAfter
		}
		log.Infow("Retrying Qualtrics request",
			logger.FieldStatus, status,
			logger.FieldAttempt, attempt+1,
			"wait", wait)
		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "request cancelled")
		case <-time.After(wait):
		}
		wait *= 2
	}
}

// do sends one request. A transport failure returns status 0 and err.
func (c *Client) do(ctx context.Context, u *url.URL, requestID string) (int, []byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, nil, 0, errors.Wrap(err, "failed to build request")
	}
	req.Header.Set(TokenHeader, c.token)
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, 0, errors.Wrap(err, "failed to read response")
	}
	return resp.StatusCode, body, parseRetryAfter(resp.Header.Get("Retry-After")), nil
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		return time.Until(at)
	}
	return 0
}

// apiError builds the export-failed error for a refused request, using the
// platform's own message when the body carries one
func apiError(status int, body []byte) error {
	msg, err := jsonparser.GetString(body, "meta", "error", "errorMessage")
	if err != nil || msg == "" {
		msg = http.StatusText(status)
	}
	out := errors.NewExportFailedError("qualtrics responded %d: %s", status, msg)
	switch status {
	case http.StatusNotFound:
		out = errors.Mark(out, errors.ErrNotFound)
	case http.StatusUnauthorized, http.StatusForbidden:
		out = errors.WithHint(out, "Check the API token and that it belongs to the survey's data center")
	}
	return out
}
