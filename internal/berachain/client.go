// Package berachain fetches token prices from the Berachain GraphQL API.
package berachain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"rfa-explorer/internal/observability"
)

// Default configuration values.
const (
	DefaultBaseURL      = "https://api.berachain.com/"
	DefaultTimeout      = 30 * time.Second
	DefaultRetryCount   = 3
	DefaultRetryWait    = 1 * time.Second
	DefaultRetryMaxWait = 10 * time.Second
)

// ErrGraphQL is returned when the API answers with a GraphQL errors array.
var ErrGraphQL = errors.New("graphql error")

// Client talks to the Berachain API.
type Client struct {
	client *resty.Client
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.SetTimeout(d)
	}
}

// WithRetryCount sets the number of retries after the first attempt.
func WithRetryCount(n int) ClientOption {
	return func(c *Client) {
		c.client.SetRetryCount(n)
	}
}

// WithRetryWait sets the initial and maximum retry backoff.
func WithRetryWait(wait, maxWait time.Duration) ClientOption {
	return func(c *Client) {
		c.client.SetRetryWaitTime(wait)
		c.client.SetRetryMaxWaitTime(maxWait)
	}
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(DefaultTimeout).
		SetRetryCount(DefaultRetryCount).
		SetRetryWaitTime(DefaultRetryWait).
		SetRetryMaxWaitTime(DefaultRetryMaxWait).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			// Rate limits and server errors are retried; GraphQL errors are not.
			if err != nil || resp == nil {
				return true
			}
			code := resp.StatusCode()
			return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
		})

	c := &Client{client: rc}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type graphQLRequest struct {
	OperationName string                 `json:"operationName,omitempty"`
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse[T any] struct {
	Data   *T             `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// query performs one GraphQL POST and decodes data into out.
func query[T any](ctx context.Context, c *Client, op, q string, vars map[string]interface{}) (*T, error) {
	start := time.Now()
	var out graphQLResponse[T]

	err := func() error {
		resp, err := c.client.R().
			SetContext(ctx).
			SetBody(graphQLRequest{OperationName: op, Query: q, Variables: vars}).
			Post("/")
		if err != nil {
			return fmt.Errorf("http request: %w", err)
		}
		if resp.IsError() {
			return fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), resp.String())
		}
		if err := json.Unmarshal(resp.Body(), &out); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
		if len(out.Errors) > 0 {
			msgs := make([]string, len(out.Errors))
			for i, e := range out.Errors {
				msgs[i] = e.Message
			}
			return fmt.Errorf("%w: %s", ErrGraphQL, strings.Join(msgs, "; "))
		}
		if out.Data == nil {
			return fmt.Errorf("%w: response has no data", ErrGraphQL)
		}
		return nil
	}()

	observability.RecordAPICall("berachain", op, time.Since(start).Seconds(), err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out.Data, nil
}
