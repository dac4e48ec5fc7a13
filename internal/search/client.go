// Package search talks to the backend search endpoint.
//
// The contract is deliberately small: the raw query is POSTed as the request
// body to "api/search" (resolved relative to a base URL) and the backend
// answers with a JSON array of strings.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/context/ctxhttp"

	"searchbar/internal/domain"
)

// Path is the endpoint path, relative to the base URL
const Path = "api/search"

// ErrMalformedResponse is returned when the body is not a JSON array of strings
var ErrMalformedResponse = errors.New("malformed search response")

// StatusError is returned for any non-200 response
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("search endpoint returned %d %s: %q", e.Code, http.StatusText(e.Code), e.Body)
}

// Searcher runs a query against a search backend
type Searcher interface {
	Search(ctx context.Context, query domain.Query) (domain.Result, error)
}

// Client is the HTTP implementation of Searcher
type Client struct {
	endpoint   *url.URL
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a client for the backend at base. "api/search" is
// resolved relative to base the same way a browser resolves it relative to
// the current page, so "http://host/app/" posts to "http://host/app/api/search".
func NewClient(base string, httpClient *http.Client, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint:   u.ResolveReference(&url.URL{Path: Path}),
		httpClient: httpClient,
		timeout:    timeout,
	}, nil
}

// Endpoint returns the resolved search URL
func (c *Client) Endpoint() string {
	return c.endpoint.String()
}

// Search posts query unmodified and decodes the ordered result list.
func (c *Client) Search(ctx context.Context, query domain.Query) (domain.Result, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	// No Content-Type is set: the body is the bare query text.
	req, err := http.NewRequest(http.MethodPost, c.endpoint.String(), strings.NewReader(query))
	if err != nil {
		return domain.Result{}, fmt.Errorf("failed to build search request: %w", err)
	}

	resp, err := ctxhttp.Do(ctx, c.httpClient, req)
	if err != nil {
		return domain.Result{}, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Result{}, fmt.Errorf("failed to read search response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return domain.Result{}, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	items, err := Decode(body)
	if err != nil {
		return domain.Result{}, err
	}
	return domain.Result{Items: items, Size: len(body)}, nil
}

// Decode parses a response body. Only a JSON array whose elements are all
// strings is accepted.
func Decode(body []byte) (domain.ResultList, error) {
	var items []string
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after array", ErrMalformedResponse)
	}
	if items == nil {
		return nil, fmt.Errorf("%w: expected an array, got null", ErrMalformedResponse)
	}
	return domain.ResultList(items), nil
}
