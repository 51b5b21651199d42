// Package oic is the authenticated client for the OIC monitoring REST API.
//
// Three primitives cover every tool: GetSingle, GetPaginated, and Post. The
// client owns the 401 recovery policy (evict the tenant's token, re-acquire,
// retry the request once) so tool handlers never touch token state.
package oic

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
	"time"

	"go.uber.org/zap"

	"github.com/nareshsaladi2024/oicagentops/internal/config"
)

// monitoringBase is the fixed path prefix for every monitoring resource.
const monitoringBase = "/ic/api/integration/v1/monitoring/"

// TokenSource supplies and invalidates per-tenant bearer tokens.
// Implemented by auth.Cache.
type TokenSource interface {
	Token(ctx context.Context, tenant config.Tenant) (string, error)
	Evict(tenant string)
}

// Client issues authenticated requests against a tenant's monitoring API.
type Client struct {
	http   *http.Client
	tokens TokenSource
	logger *zap.Logger
}

// NewClient creates a client. Per-request deadlines come from the caller's
// context; the transport itself is uncapped.
func NewClient(tokens TokenSource, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:   &http.Client{},
		tokens: tokens,
		logger: logger,
	}
}

// URL composes the absolute URL for a monitoring resource path.
func (c *Client) URL(tenant config.Tenant, path string) string {
	return tenant.APIBaseURL + monitoringBase + path
}

// GetSingle issues one GET and parses the response body as JSON.
func (c *Client) GetSingle(ctx context.Context, tenant config.Tenant, path string, params url.Values) (interface{}, error) {
	body, err := c.get(ctx, tenant, path, params, "application/json")
	if err != nil {
		return nil, err
	}
	var parsed interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		// Some endpoints answer 2xx with a non-JSON body; surface it as text.
		return string(body), nil
	}
	return parsed, nil
}

// GetText issues one GET and returns the body verbatim. Used by the logs
// tool, whose upstream response is plain text.
func (c *Client) GetText(ctx context.Context, tenant config.Tenant, path string, params url.Values) (string, error) {
	body, err := c.get(ctx, tenant, path, params, "text/plain, application/json")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Post issues one POST with a JSON body. A nil body posts an empty object.
func (c *Client) Post(ctx context.Context, tenant config.Tenant, path string, params url.Values, body interface{}) (interface{}, error) {
	payload := []byte("{}")
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	status, respBody, err := c.doWithRetry(ctx, tenant, http.MethodPost, path, params, payload, "application/json")
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, classifyStatus(status, string(respBody))
	}

	var parsed interface{}
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			return string(respBody), nil
		}
	}
	return parsed, nil
}

func (c *Client) get(ctx context.Context, tenant config.Tenant, path string, params url.Values, accept string) ([]byte, error) {
	status, body, err := c.doWithRetry(ctx, tenant, http.MethodGet, path, params, nil, accept)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, classifyStatus(status, string(body))
	}
	return body, nil
}

// doWithRetry performs the request, absorbing a single 401 by evicting the
// tenant's token, re-acquiring, and retrying once. A second 401 is returned
// to the caller as a definitive authentication failure.
func (c *Client) doWithRetry(ctx context.Context, tenant config.Tenant, method, path string, params url.Values, body []byte, accept string) (int, []byte, error) {
	token, err := c.tokens.Token(ctx, tenant)
	if err != nil {
		return 0, nil, err
	}

	status, respBody, err := c.doOnce(ctx, tenant, method, path, params, body, accept, token)
	if err != nil {
		return 0, nil, err
	}
	if status != http.StatusUnauthorized {
		return status, respBody, nil
	}

	c.tokens.Evict(tenant.Name)
	token, err = c.tokens.Token(ctx, tenant)
	if err != nil {
		return 0, nil, err
	}
	return c.doOnce(ctx, tenant, method, path, params, body, accept, token)
}

// doOnce issues exactly one HTTP exchange and logs it. Bodies and
// credentials never reach the log.
func (c *Client) doOnce(ctx context.Context, tenant config.Tenant, method, path string, params url.Values, body []byte, accept, token string) (int, []byte, error) {
	q := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if tenant.IntegrationInstance != "" && q.Get("integrationInstance") == "" {
		q.Set("integrationInstance", tenant.IntegrationInstance)
	}

	rawURL := c.URL(tenant, path)
	if enc := q.Encode(); enc != "" {
		rawURL += "?" + enc
	}

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", accept)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observeUpstream(method, "error")
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0, nil, &Error{Kind: KindCancelled, Cause: err}
		}
		return 0, nil, &Error{Kind: KindTransport, Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		observeUpstream(method, "error")
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0, nil, &Error{Kind: KindCancelled, Cause: err}
		}
		return 0, nil, &Error{Kind: KindTransport, Cause: err}
	}

	observeUpstream(method, strconv.Itoa(resp.StatusCode))
	c.logger.Info("upstream exchange",
		zap.String("method", method),
		zap.String("url", rawURL),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	return resp.StatusCode, respBody, nil
}
