// Package tmdb is the HTTP client for the external movie metadata API.
package tmdb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/moviedex/moviedex/internal/utils"
)

const (
	// DefaultBaseURL is the production API root.
	DefaultBaseURL = "https://api.themoviedb.org/3"

	// DefaultRetryAttempts is the number of additional attempts after the
	// first failure.
	DefaultRetryAttempts = 2
	// DefaultRetryDelay is the fixed delay between attempts.
	DefaultRetryDelay = time.Second

	maxErrorBodyBytes = 4 << 10
)

// Client issues calls against the movie API and normalizes failures into the
// taxonomy in errors.go. The retry policy is uniform across error classes:
// a 400 is retried just like a 503.
type Client struct {
	baseURL       string
	apiKey        string
	httpClient    *http.Client
	retryAttempts int
	retryDelay    time.Duration
}

// Options configures a Client. Zero values fall back to defaults; APIKey is
// the only mandatory field.
type Options struct {
	BaseURL       string
	APIKey        string
	HTTPClient    *http.Client
	RetryAttempts int           // additional attempts, -1 disables retries
	RetryDelay    time.Duration // fixed delay between attempts
}

// NewClient creates a new API client.
func NewClient(opts Options) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		apiKey:        opts.APIKey,
		httpClient:    opts.HTTPClient,
		retryAttempts: opts.RetryAttempts,
		retryDelay:    opts.RetryDelay,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.retryAttempts == 0 {
		c.retryAttempts = DefaultRetryAttempts
	} else if c.retryAttempts < 0 {
		c.retryAttempts = 0
	}
	if c.retryDelay == 0 {
		c.retryDelay = DefaultRetryDelay
	}
	return c
}

// SearchPage fetches exactly one upstream page of results for query. The
// upstream page size is fixed by the API and not caller-controlled.
func (c *Client) SearchPage(ctx context.Context, query string, apiPage int) (*SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &ValidationError{Msg: "search query cannot be empty"}
	}
	if apiPage < 1 {
		return nil, &ValidationError{Msg: "page number must be a positive integer"}
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(apiPage))

	var out SearchResponse
	if err := c.call(ctx, http.MethodGet, "/search/movie", params, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDetail fetches the full record for one movie.
func (c *Client) GetDetail(ctx context.Context, movieID int) (*MovieDetail, error) {
	if movieID < 1 {
		return nil, &ValidationError{Msg: "movie id must be a positive integer"}
	}

	var out MovieDetail
	if err := c.call(ctx, http.MethodGet, fmt.Sprintf("/movie/%d", movieID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateGuestSession requests a new time-limited guest session token.
func (c *Client) CreateGuestSession(ctx context.Context) (*GuestSessionResponse, error) {
	var out GuestSessionResponse
	if err := c.call(ctx, http.MethodGet, "/authentication/guest_session/new", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateRating checks a rating value against the accepted grid.
// Ratings run from 0.5 to 10.0 in half-point steps.
func ValidateRating(rating float64) error {
	if rating < 0.5 || rating > 10.0 {
		return &ValidationError{Msg: "rating must be between 0.5 and 10.0"}
	}
	if steps := rating * 2; steps != math.Trunc(steps) {
		return &ValidationError{Msg: "rating must be a multiple of 0.5"}
	}
	return nil
}

// SubmitRating posts a rating for a movie on behalf of a guest session.
func (c *Client) SubmitRating(ctx context.Context, movieID int, rating float64, sessionToken string) (*RatingResponse, error) {
	if movieID < 1 {
		return nil, &ValidationError{Msg: "movie id must be a positive integer"}
	}
	if err := ValidateRating(rating); err != nil {
		return nil, err
	}
	if strings.TrimSpace(sessionToken) == "" {
		return nil, &ValidationError{Msg: "guest session id cannot be empty"}
	}

	params := url.Values{}
	params.Set("guest_session_id", sessionToken)

	payload, err := json.Marshal(map[string]float64{"value": rating})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rating: %w", err)
	}

	var out RatingResponse
	if err := c.call(ctx, http.MethodPost, fmt.Sprintf("/movie/%d/rating", movieID), params, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// call performs one API operation with the client's retry policy. payload is
// re-read on every attempt, so it is passed as bytes rather than a reader.
func (c *Client) call(ctx context.Context, method, path string, params url.Values, payload []byte, out interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	endpoint := c.baseURL + path + "?" + params.Encode()

	return retry.Do(
		func() error { return c.doOnce(ctx, method, endpoint, payload, out) },
		retry.Context(ctx),
		retry.Attempts(uint(c.retryAttempts)+1),
		retry.Delay(c.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
}

func (c *Client) doOnce(ctx context.Context, method, endpoint string, payload []byte, out interface{}) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return &TransportError{Err: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return classifyStatus(resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
