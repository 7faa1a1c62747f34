package client

import (
	"net/http"
	"time"
)

// retryPolicy bounds how often an idempotent read is re-attempted.  The delay
// doubles after each failure.
type retryPolicy struct {
	attempts int
	delay    time.Duration
}

// retryableStatus reports whether a response code is worth another attempt.
// Client errors other than rate limiting are not.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// doRetry sends a body-less request up to the policy's attempt count.  The
// last transport error or retryable response decides the outcome; a
// non-retryable response is returned to the caller as-is.
func (c *Client) doRetry(client *http.Client, req *http.Request) (*http.Response, error) {
	var lastErr error
	delay := c.retry.delay

	for attempt := 1; attempt <= c.retry.attempts; attempt++ {
		resp, err := client.Do(req.Clone(req.Context()))
		if err == nil && !retryableStatus(resp.StatusCode) {
			return resp, nil
		}

		if err != nil {
			lastErr = err
		} else {
			lastErr = checkStatus(resp)
			resp.Body.Close()
		}

		if attempt < c.retry.attempts {
			c.Logger.Warnf("Request to %s failed (attempt %d of %d), retrying in %s: %v",
				req.URL.Path, attempt, c.retry.attempts, delay, lastErr)
			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return nil, lastErr
}
