package emailvalidation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ZinoChan/LangRhythms/internal/common"
)

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 1 << 20

// Validator decides whether an email address may register.
type Validator interface {
	Validate(ctx context.Context, email string) (Verdict, error)
}

// Config describes how to reach the validation service.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Client  *http.Client
}

// Client calls the validation service over HTTP.
type Client struct {
	baseURL *url.URL
	apiKey  string
	client  *http.Client
}

// NewClient builds a Client. A zero Timeout falls back to 10 seconds.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("email validation url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse email validation url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("email validation url %q must be absolute", raw)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{baseURL: u, apiKey: cfg.APIKey, client: hc}, nil
}

// Validate issues one GET {base}?api_key=...&email=... and applies
// Response.Verdict to the payload. Transport failures and non-2xx statuses
// wrap common.ErrorUpstreamUnavailable; an undecodable payload is Invalid.
func (c *Client) Validate(ctx context.Context, email string) (Verdict, error) {
	u := *c.baseURL
	q := u.Query()
	q.Set("api_key", c.apiKey)
	q.Set("email", email)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Invalid, fmt.Errorf("create validation request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Invalid, fmt.Errorf("%w: %v", common.ErrorUpstreamUnavailable, redact(err, c.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return Invalid, fmt.Errorf("%w: upstream status %d", common.ErrorUpstreamUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Invalid, fmt.Errorf("%w: read body: %v", common.ErrorUpstreamUnavailable, err)
	}

	var r Response
	if err := json.Unmarshal(body, &r); err != nil {
		return Invalid, nil
	}
	return r.Verdict(), nil
}

// redact keeps the API key out of error messages; *url.Error embeds the
// full request URL.
func redact(err error, key string) string {
	msg := err.Error()
	if key == "" {
		return msg
	}
	return strings.ReplaceAll(msg, url.QueryEscape(key), "REDACTED")
}
