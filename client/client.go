package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/ulelab/flow-batch/config"
)

// Client talks to the Flow API.  Metadata reads (sample pages, execution and
// pipeline details) go through a bounded retry policy; the login exchange and
// run submissions are sent exactly once.
type Client struct {
	config.Config
	base   string
	http   *http.Client
	submit *http.Client
	retry  retryPolicy
	token  string
}

// New creates a Flow API client from the environment settings.
func New(cfg *config.Config) *Client {
	return &Client{
		Config: config.Config{
			Logger:      cfg.Logger,
			Environment: cfg.Environment,
		},
		base:   cfg.Environment.APIBase,
		http:   &http.Client{Timeout: time.Second * time.Duration(cfg.Environment.RequestTimeoutSec)},
		submit: &http.Client{Timeout: time.Second * time.Duration(cfg.Environment.SubmitTimeoutSec)},
		retry: retryPolicy{
			attempts: cfg.Environment.PageAttempts,
			delay:    time.Millisecond * time.Duration(cfg.Environment.RetryDelayMs),
		},
	}
}

// Login exchanges the supplied credentials for a bearer token that is attached
// to every subsequent request.  The password is never logged.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return &AuthenticationError{Err: errors.Wrap(err, "failed to marshal credentials")}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/login", bytes.NewReader(body))
	if err != nil {
		return &AuthenticationError{Err: errors.Wrap(err, "failed to build login request")}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &AuthenticationError{Err: errors.Wrap(err, "login request failed")}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return &AuthenticationError{Err: err}
	}

	var login loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		return &AuthenticationError{Err: errors.Wrap(err, "failed to decode login response")}
	}
	if login.Token == "" {
		return &AuthenticationError{Err: errors.New("invalid username or password (no token in response)")}
	}

	c.token = login.Token
	c.Logger.Infof("Logged in as %s", username)
	return nil
}

// Token returns the session's bearer token.  Empty until Login succeeds.
func (c *Client) Token() string {
	return c.token
}

// getJSON performs an authorized GET against the API and decodes the JSON
// response into out.  Transient failures are retried per the retry policy.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrapf(err, "failed to build request for %s", path)
	}
	c.authorize(req)

	resp, err := c.doRetry(c.http, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "failed to decode response from %s", path)
	}
	return nil
}

// postJSON performs an authorized POST against the API.  The request is sent
// exactly once; submissions are never retried by this client.
func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal request body for %s", path)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "failed to build request for %s", path)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.submit.Do(req)
	if err != nil {
		return errors.Wrapf(err, "request to %s failed", path)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrapf(err, "failed to decode response from %s", path)
		}
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// checkStatus converts a non-2xx response into a readable error carrying the
// status and a snippet of the body.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("HTTP %d error: %s", resp.StatusCode, string(snippet))
}
