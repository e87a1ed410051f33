package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/maowbot/maowbot/internal/logger"
)

// Client is an HTTP client with retry capabilities, adapted from
// shared/httpclient.Client: same Do/Get/Post/GetJSON/PostJSON surface and
// retry loop, generalized to log through internal/logger instead of the
// stdlib "log" package so its output matches every other subsystem's.
type Client struct {
	httpClient      *http.Client
	config          *Config
	backoffStrategy BackoffStrategy
	log             *logger.Logger
}

// New creates a Client. A nil config uses DefaultConfig.
func New(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	return &Client{
		httpClient:      &http.Client{Timeout: config.Timeout},
		config:          config,
		backoffStrategy: ExponentialBackoff,
		log:             logger.New("httpclient"),
	}
}

// WithBackoffStrategy overrides the default exponential backoff.
func (c *Client) WithBackoffStrategy(strategy BackoffStrategy) *Client {
	c.backoffStrategy = strategy
	return c
}

// WithHTTPClient swaps the underlying *http.Client, letting tests inject a
// RoundTripper instead of hitting the network.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	return c.Do(ctx, "GET", url, nil, headers)
}

func (c *Client) Post(ctx context.Context, url string, body []byte, headers map[string]string) (*http.Response, error) {
	return c.Do(ctx, "POST", url, body, headers)
}

func (c *Client) Do(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", c.config.UserAgent)
		for k, v := range c.config.Headers {
			req.Header.Set(k, v)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		duration := time.Since(start)

		if err != nil {
			lastErr = err
			if attempt < c.config.MaxRetries {
				wait := c.backoffStrategy(attempt, c.config.RetryWaitMin, c.config.RetryWaitMax)
				c.log.Error("%s %s failed (attempt %d/%d): %v - retrying in %v", method, url, attempt+1, c.config.MaxRetries+1, err, wait)
				select {
				case <-time.After(wait):
					continue
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
			return nil, fmt.Errorf("request failed after %d attempts: %w", attempt+1, err)
		}

		c.log.Info("%s %s - status %d - %v (attempt %d/%d)", method, url, resp.StatusCode, duration, attempt+1, c.config.MaxRetries+1)

		if resp.StatusCode >= 400 {
			bodyBytes, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			httpErr := &HTTPError{StatusCode: resp.StatusCode, Body: bodyBytes, URL: url, Method: method}

			if IsRetryable(resp.StatusCode) && attempt < c.config.MaxRetries {
				lastErr = httpErr
				wait := c.backoffStrategy(attempt, c.config.RetryWaitMin, c.config.RetryWaitMax)
				select {
				case <-time.After(wait):
					continue
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
			return nil, httpErr
		}

		return resp, nil
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.config.MaxRetries+1, lastErr)
}

func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	if headers == nil {
		headers = make(map[string]string)
	}
	headers["Accept"] = "application/json"
	resp, err := c.Get(ctx, url, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (c *Client) PostJSON(ctx context.Context, url string, body []byte, headers map[string]string) ([]byte, error) {
	if headers == nil {
		headers = make(map[string]string)
	}
	headers["Content-Type"] = "application/json"
	headers["Accept"] = "application/json"
	resp, err := c.Post(ctx, url, body, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}
