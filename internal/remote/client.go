package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"erp-portal/internal/session"
	apperrors "erp-portal/pkg/errors"

	"github.com/hashicorp/go-cleanhttp"
	"go.uber.org/zap"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerAccept        = "Accept"
	mimeJSON            = "application/json"
	bearerPrefix        = "Bearer "
	maxErrorBody        = 64 * 1024
)

// Client calls the remote business API. The caller's bearer token is taken
// from the session in the request context.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	onFailure  func()
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the pooled cleanhttp client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the client logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithFailureHook is called for every transport failure or 5xx answer
func WithFailureHook(fn func()) Option {
	return func(c *Client) {
		c.onFailure = fn
	}
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = timeout

	c := &Client{
		baseURL:    baseURL,
		httpClient: hc,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether a base URL is set
func (c *Client) Configured() bool {
	return c != nil && c.baseURL != ""
}

// Do sends a JSON request and decodes a JSON answer into out. out may be nil.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if !c.Configured() {
		return apperrors.Upstream(errNotConfiguredMsg, nil)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf(errEncodeBodyFmt, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf(errBuildRequestFmt, err)
	}
	req.Header.Set(headerAccept, mimeJSON)
	if body != nil {
		req.Header.Set(headerContentType, mimeJSON)
	}
	if sess := session.FromContext(ctx); sess.Authenticated() {
		req.Header.Set(headerAuthorization, bearerPrefix+sess.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.failed()
		if errors.Is(err, context.Canceled) {
			return err
		}
		c.logger.Warn("remote api request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return apperrors.Upstream(FallbackMessage, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if resp.StatusCode >= http.StatusInternalServerError {
			c.failed()
		}
		apiErr := &APIError{Status: resp.StatusCode, Message: ExtractMessage(raw)}
		c.logger.Debug("remote api error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.Upstream(FallbackMessage, fmt.Errorf(errDecodeBodyFmt, method, path, err))
	}
	return nil
}

func (c *Client) failed() {
	if c.onFailure != nil {
		c.onFailure()
	}
}
