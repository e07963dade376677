package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// newTestClient returns a client pointed at ts with a negligible retry delay.
func newTestClient(ts *httptest.Server, attempts int) *Client {
	return NewClient(Options{
		BaseURL:       ts.URL,
		APIKey:        "test-key",
		HTTPClient:    ts.Client(),
		RetryAttempts: attempts,
		RetryDelay:    time.Millisecond,
	})
}

func TestValidationBeforeNetwork(t *testing.T) {
	var calls int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c := newTestClient(ts, -1)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{
			name: "empty query",
			call: func() error { _, err := c.SearchPage(ctx, "", 1); return err },
		},
		{
			name: "whitespace query",
			call: func() error { _, err := c.SearchPage(ctx, "   ", 1); return err },
		},
		{
			name: "zero page",
			call: func() error { _, err := c.SearchPage(ctx, "matrix", 0); return err },
		},
		{
			name: "negative movie id",
			call: func() error { _, err := c.GetDetail(ctx, -3); return err },
		},
		{
			name: "rating below range",
			call: func() error { _, err := c.SubmitRating(ctx, 1, 0.3, "tok"); return err },
		},
		{
			name: "rating above range",
			call: func() error { _, err := c.SubmitRating(ctx, 1, 10.5, "tok"); return err },
		},
		{
			name: "rating off the half-point grid",
			call: func() error { _, err := c.SubmitRating(ctx, 1, 7.3, "tok"); return err },
		},
		{
			name: "blank session token",
			call: func() error { _, err := c.SubmitRating(ctx, 1, 7.5, "  "); return err },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("got %v, want ValidationError", err)
			}
		})
	}

	if n := atomic.LoadInt64(&calls); n != 0 {
		t.Errorf("validation errors reached the network: %d calls", n)
	}
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		kind   APIErrorKind
	}{
		{400, KindInvalidRequest},
		{401, KindAuthenticationFailed},
		{404, KindNotFound},
		{429, KindRateLimited},
		{500, KindServerError},
		{503, KindServerError},
		{418, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer ts.Close()

			c := newTestClient(ts, -1)
			_, err := c.SearchPage(context.Background(), "matrix", 1)

			var aerr *APIError
			if !errors.As(err, &aerr) {
				t.Fatalf("got %v, want APIError", err)
			}
			if aerr.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", aerr.Kind, tt.kind)
			}
			if aerr.Status != tt.status {
				t.Errorf("status = %d, want %d", aerr.Status, tt.status)
			}
		})
	}
}

func TestRetriesAreUniform(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		failures int64 // attempts that fail before the server recovers
		wantOK   bool
		wantHits int64
	}{
		{
			name:     "transient server error recovers",
			status:   http.StatusInternalServerError,
			failures: 2,
			wantOK:   true,
			wantHits: 3,
		},
		{
			name:     "client error is retried too before surfacing",
			status:   http.StatusBadRequest,
			failures: 10,
			wantOK:   false,
			wantHits: 3, // first attempt + 2 retries
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits int64
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if atomic.AddInt64(&hits, 1) <= tt.failures {
					http.Error(w, "nope", tt.status)
					return
				}
				_ = json.NewEncoder(w).Encode(SearchResponse{Page: 1, TotalResults: 0})
			}))
			defer ts.Close()

			c := newTestClient(ts, 2)
			_, err := c.SearchPage(context.Background(), "matrix", 1)

			if tt.wantOK && err != nil {
				t.Fatalf("SearchPage() = %v, want success after retries", err)
			}
			if !tt.wantOK && err == nil {
				t.Fatalf("SearchPage() = nil, want error after exhausted retries")
			}
			if n := atomic.LoadInt64(&hits); n != tt.wantHits {
				t.Errorf("server hits = %d, want %d", n, tt.wantHits)
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // nothing is listening anymore

	c := NewClient(Options{
		BaseURL:       ts.URL,
		APIKey:        "test-key",
		RetryAttempts: -1,
		RetryDelay:    time.Millisecond,
	})

	_, err := c.SearchPage(context.Background(), "matrix", 1)
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("got %v, want TransportError", err)
	}
}

func TestSearchPageDecodesResults(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("api_key"); got != "test-key" {
			t.Errorf("api_key = %q, want test-key", got)
		}
		if got := r.URL.Query().Get("query"); got != "matrix" {
			t.Errorf("query = %q, want matrix (trimmed)", got)
		}
		_ = json.NewEncoder(w).Encode(SearchResponse{
			Page:         1,
			Results:      []MovieSummary{{ID: 603, Title: "The Matrix", VoteAverage: 8.2}},
			TotalPages:   1,
			TotalResults: 1,
		})
	}))
	defer ts.Close()

	c := newTestClient(ts, -1)
	resp, err := c.SearchPage(context.Background(), "  matrix  ", 1)
	if err != nil {
		t.Fatalf("SearchPage() error = %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].ID != 603 {
		t.Errorf("unexpected results: %+v", resp.Results)
	}
}

func TestSubmitRatingRequestShape(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.URL.Path; got != "/movie/603/rating" {
			t.Errorf("path = %q", got)
		}
		if got := r.URL.Query().Get("guest_session_id"); got != "guest-token" {
			t.Errorf("guest_session_id = %q", got)
		}
		var body struct {
			Value float64 `json:"value"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		if body.Value != 8.5 {
			t.Errorf("value = %v, want 8.5", body.Value)
		}
		_ = json.NewEncoder(w).Encode(RatingResponse{Success: true})
	}))
	defer ts.Close()

	c := newTestClient(ts, -1)
	resp, err := c.SubmitRating(context.Background(), 603, 8.5, "guest-token")
	if err != nil {
		t.Fatalf("SubmitRating() error = %v", err)
	}
	if !resp.Success {
		t.Errorf("Success = false, want true")
	}
}

func TestGuestSessionExpiryParsing(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "tmdb layout", raw: "2026-08-30 18:04:05 UTC"},
		{name: "rfc3339", raw: "2026-08-30T18:04:05Z"},
		{name: "garbage", raw: "next tuesday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &GuestSessionResponse{ExpiresAt: tt.raw}
			got, err := resp.ExpiryTime()
			if tt.wantErr {
				if err == nil {
					t.Errorf("ExpiryTime() = %v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExpiryTime() error = %v", err)
			}
			if got.Year() != 2026 || got.Hour() != 18 {
				t.Errorf("ExpiryTime() = %v", got)
			}
		})
	}
}
