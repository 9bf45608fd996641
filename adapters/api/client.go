package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/melevanoronha/admin-console/internal/application/service"
	"github.com/melevanoronha/admin-console/internal/domain/catalog"
	"github.com/melevanoronha/admin-console/pkg/apperror"
	"github.com/melevanoronha/admin-console/pkg/logger"
	"github.com/melevanoronha/admin-console/pkg/metrics"
)

const (
	LoginPath = "/api/auth/login"

	defaultErrorMessage = "request failed"
	uploadTooLarge      = "the file is too large. Maximum allowed size is 50 MB, please choose a smaller file"
	uploadNetworkError  = "failed to send file. Check your connection or whether the file exceeds 50 MB"
	networkError        = "connection error. Check your internet or whether the server is available"
	breakerOpenError    = "backend temporarily unavailable, try again shortly"
)

var errServerStatus = errors.New("backend returned a server error")

type Config struct {
	BaseURL string
	Timeout time.Duration
	// Retries bounds how many times an idempotent GET is retried after a transport failure.
	Retries uint64
	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
}

type Client struct {
	baseURL string
	http    *http.Client
	session service.SessionContext
	nav     service.Navigator
	cb      *gobreaker.CircuitBreaker[*rawResponse]
	retries uint64
	backoff func() backoff.BackOff
	logger  logger.Logger
}

type rawResponse struct {
	status int
	header http.Header
	body   []byte
}

// Request describes one call to the REST backend. At most one of JSON and Form is set.
type Request struct {
	Method       string
	Path         string
	Query        url.Values
	JSON         any
	Form         *catalog.FormValues
	DefaultError string
}

func NewClient(cfg Config, session service.SessionContext, nav service.Navigator, log logger.Logger) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		session: session,
		nav:     nav,
		retries: cfg.Retries,
		logger:  log.With(zap.String("component", "api_client")),
		backoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			return b
		},
	}
	c.cb = newBreaker("rest-backend", c.logger)
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// HTTP exposes the underlying transport for callers that build their own requests.
func (c *Client) HTTP() *http.Client { return c.http }

// Do sends req and decodes a JSON response into out. A 204 or an empty body
// leaves out untouched and returns nil.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	if c.baseURL == "" {
		return apperror.NewConfig("API_URL is not configured, check the API_URL environment variable")
	}
	if req.DefaultError == "" {
		req.DefaultError = defaultErrorMessage
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	retries := uint64(0)
	if req.Method == http.MethodGet {
		retries = c.retries
	}

	start := time.Now()
	var resp *rawResponse
	op := func() error {
		r, err := c.execute(ctx, req, target, body, contentType)
		if err != nil {
			if apperror.IsKind(err, apperror.KindNetwork) && !isBreakerRejection(err) && ctx.Err() == nil {
				return err
			}
			return backoff.Permanent(err)
		}
		resp = r
		return nil
	}
	err = backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(c.backoff(), retries), ctx))
	metrics.BackendRequestDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequests.WithLabelValues(req.Method, outcome(err)).Inc()
		c.logger.Warn("Backend request failed", zap.String("method", req.Method), zap.String("path", req.Path), zap.Error(err))
		return err
	}

	if resp.status < 200 || resp.status > 299 {
		err := c.handleFailure(ctx, req, resp)
		metrics.BackendRequests.WithLabelValues(req.Method, outcome(err)).Inc()
		return err
	}

	metrics.BackendRequests.WithLabelValues(req.Method, "ok").Inc()
	if resp.status == http.StatusNoContent || len(bytes.TrimSpace(resp.body)) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return apperror.NewHTTP(resp.status, fmt.Sprintf("invalid response from server: %v", err))
	}
	return nil
}

func (c *Client) execute(ctx context.Context, req Request, target string, body []byte, contentType string) (*rawResponse, error) {
	resp, err := c.cb.Execute(func() (*rawResponse, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, reader)
		if err != nil {
			return nil, err
		}
		if contentType != "" {
			httpReq.Header.Set("Content-Type", contentType)
		}
		httpReq.Header.Set("Accept", "application/json")
		if token := c.token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}

		r, err := c.http.Do(httpReq)
		if err != nil {
			return nil, err
		}
		defer r.Body.Close()

		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		raw := &rawResponse{status: r.StatusCode, header: r.Header, body: data}
		if r.StatusCode >= 500 {
			return raw, errServerStatus
		}
		return raw, nil
	})

	switch {
	case err == nil, errors.Is(err, errServerStatus):
		return resp, nil
	case isBreakerRejection(err):
		return nil, apperror.NewNetwork(breakerOpenError, err)
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case req.Form != nil:
		return nil, apperror.NewNetwork(uploadNetworkError, err)
	default:
		return nil, apperror.NewNetwork(networkError, err)
	}
}

func (c *Client) token() string {
	if c.session == nil {
		return ""
	}
	return c.session.AccessToken()
}

func (c *Client) handleFailure(ctx context.Context, req Request, resp *rawResponse) error {
	if resp.status == http.StatusUnauthorized && !isLoginCall(req.Path) {
		c.logger.Warn("Backend rejected the session, returning to login", zap.String("path", req.Path))
		if c.session != nil {
			if err := c.session.Clear(ctx); err != nil {
				c.logger.Error("Failed to clear session after 401", err)
			}
		}
		if c.nav != nil {
			c.nav.RedirectToLogin()
		}
		metrics.LoginRedirects.Inc()
		return apperror.NewUnauthorized("session expired, please sign in again")
	}
	return parseErrorBody(resp.status, resp.body, req.DefaultError)
}

// isBreakerRejection reports a call the breaker refused without reaching the backend.
func isBreakerRejection(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func isLoginCall(path string) bool {
	return strings.Contains(path, LoginPath)
}

type errorBody struct {
	Message string                     `json:"message"`
	Error   string                     `json:"error"`
	Errors  map[string]json.RawMessage `json:"errors"`
}

// parseErrorBody turns a non-2xx body into an AppError. A non-empty "errors"
// map becomes a validation error carrying exactly that map.
func parseErrorBody(status int, body []byte, fallback string) error {
	text := strings.TrimSpace(string(body))

	var eb errorBody
	if text != "" && json.Unmarshal(body, &eb) == nil {
		if fields := fieldErrors(eb.Errors); len(fields) > 0 {
			return apperror.NewValidation(status, firstNonEmpty(eb.Message, fallback), fields)
		}
		if msg := firstNonEmpty(eb.Message, eb.Error); msg != "" {
			return apperror.NewHTTP(status, msg)
		}
		if status == http.StatusRequestEntityTooLarge {
			return apperror.NewHTTP(status, uploadTooLarge)
		}
		return apperror.NewHTTP(status, firstNonEmpty(text, fallback))
	}

	if text != "" {
		return apperror.NewHTTP(status, text)
	}
	if status == http.StatusRequestEntityTooLarge {
		return apperror.NewHTTP(status, uploadTooLarge)
	}
	return apperror.NewHTTP(status, fallback)
}

func fieldErrors(raw map[string]json.RawMessage) apperror.FieldErrors {
	if len(raw) == 0 {
		return nil
	}
	fields := make(apperror.FieldErrors, len(raw))
	for name, value := range raw {
		var single string
		if err := json.Unmarshal(value, &single); err == nil {
			fields[name] = single
			continue
		}
		var many []string
		if err := json.Unmarshal(value, &many); err == nil {
			fields[name] = strings.Join(many, "; ")
			continue
		}
		fields[name] = strings.Trim(string(value), `"`)
	}
	return fields
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func outcome(err error) string {
	appErr, ok := apperror.As(err)
	if !ok {
		return "error"
	}
	switch appErr.Kind {
	case apperror.KindUnauthorized:
		return "unauthorized"
	case apperror.KindNetwork:
		if isBreakerRejection(err) {
			return "rejected"
		}
		return "network"
	case apperror.KindConfig:
		return "config"
	default:
		return "http_error"
	}
}
