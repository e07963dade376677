package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/moviedex/moviedex/internal/logger"
	"github.com/moviedex/moviedex/internal/tmdb"
)

// fakeFetcher serves synthetic upstream pages out of a fixed corpus of
// totalMovies results, 20 per page, and records which pages were requested.
type fakeFetcher struct {
	totalMovies int
	delays      map[int]time.Duration // per-page artificial latency
	failPages   map[int]error

	mu      sync.Mutex
	fetched []int
}

func (f *fakeFetcher) SearchPage(ctx context.Context, query string, apiPage int) (*tmdb.SearchResponse, error) {
	if d, ok := f.delays[apiPage]; ok {
		time.Sleep(d)
	}

	f.mu.Lock()
	f.fetched = append(f.fetched, apiPage)
	f.mu.Unlock()

	if err, ok := f.failPages[apiPage]; ok {
		return nil, err
	}

	start := (apiPage - 1) * UpstreamPageSize
	var results []tmdb.MovieSummary
	for i := start; i < start+UpstreamPageSize && i < f.totalMovies; i++ {
		results = append(results, tmdb.MovieSummary{
			ID:    i + 1,
			Title: fmt.Sprintf("Movie %d", i+1),
		})
	}

	totalPages := (f.totalMovies + UpstreamPageSize - 1) / UpstreamPageSize
	return &tmdb.SearchResponse{
		Page:         apiPage,
		Results:      results,
		TotalPages:   totalPages,
		TotalResults: f.totalMovies,
	}, nil
}

func (f *fakeFetcher) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fetched)
}

func testLogger() logger.Logger { return logger.New("error", false) }

func TestSearchValidation(t *testing.T) {
	a := NewAggregator(&fakeFetcher{totalMovies: 40}, testLogger())
	ctx := context.Background()

	tests := []struct {
		name     string
		query    string
		page     int
		pageSize int
	}{
		{name: "empty query", query: "", page: 1, pageSize: 20},
		{name: "whitespace query", query: "   ", page: 1, pageSize: 20},
		{name: "zero page", query: "x", page: 0, pageSize: 20},
		{name: "zero page size", query: "x", page: 1, pageSize: 0},
		{name: "negative page size", query: "x", page: 1, pageSize: -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeFetcher{totalMovies: 40}
			a = NewAggregator(f, testLogger())
			_, err := a.Search(ctx, tt.query, tt.page, tt.pageSize)
			var verr *tmdb.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("got %v, want ValidationError", err)
			}
			if f.fetchCount() != 0 {
				t.Errorf("fetch count = %d, want 0", f.fetchCount())
			}
		})
	}
}

func TestSearchWindows(t *testing.T) {
	tests := []struct {
		name        string
		totalMovies int
		page        int
		pageSize    int
		wantPages   []int // upstream pages, ascending
		wantFirstID int
		wantLen     int
	}{
		{
			name:        "small window within one upstream page",
			totalMovies: 20,
			page:        1,
			pageSize:    10,
			wantPages:   []int{1},
			wantFirstID: 1,
			wantLen:     10,
		},
		{
			name:        "second small page still one fetch",
			totalMovies: 20,
			page:        2,
			pageSize:    10,
			wantPages:   []int{1},
			wantFirstID: 11,
			wantLen:     10,
		},
		{
			name:        "window equals upstream page",
			totalMovies: 60,
			page:        2,
			pageSize:    20,
			wantPages:   []int{2},
			wantFirstID: 21,
			wantLen:     20,
		},
		{
			name:        "double window spans two pages",
			totalMovies: 80,
			page:        1,
			pageSize:    40,
			wantPages:   []int{1, 2},
			wantFirstID: 1,
			wantLen:     40,
		},
		{
			name:        "misaligned size straddles a boundary",
			totalMovies: 80,
			page:        2,
			pageSize:    30,
			wantPages:   []int{2, 3},
			wantFirstID: 31,
			wantLen:     30,
		},
		{
			name:        "window clipped by total results",
			totalMovies: 50,
			page:        2,
			pageSize:    40,
			wantPages:   []int{3, 4},
			wantFirstID: 41,
			wantLen:     10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeFetcher{totalMovies: tt.totalMovies}
			a := NewAggregator(f, testLogger())

			res, err := a.Search(context.Background(), "x", tt.page, tt.pageSize)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}

			f.mu.Lock()
			fetched := append([]int(nil), f.fetched...)
			f.mu.Unlock()
			if len(fetched) != len(tt.wantPages) {
				t.Fatalf("fetched pages %v, want %v", fetched, tt.wantPages)
			}

			if len(res.Movies) != tt.wantLen {
				t.Fatalf("len(Movies) = %d, want %d", len(res.Movies), tt.wantLen)
			}
			if res.Movies[0].ID != tt.wantFirstID {
				t.Errorf("first ID = %d, want %d", res.Movies[0].ID, tt.wantFirstID)
			}
			for i := 1; i < len(res.Movies); i++ {
				if res.Movies[i].ID != res.Movies[i-1].ID+1 {
					t.Fatalf("results out of order at %d: %d then %d",
						i, res.Movies[i-1].ID, res.Movies[i].ID)
				}
			}

			if res.Page != tt.page {
				t.Errorf("Page = %d, want caller page %d", res.Page, tt.page)
			}
			if res.TotalResults != tt.totalMovies {
				t.Errorf("TotalResults = %d, want %d", res.TotalResults, tt.totalMovies)
			}
		})
	}
}

func TestSearchOrderIndependentOfArrival(t *testing.T) {
	// Page 1 responds well after page 2; the concatenation must still be
	// page 1 then page 2.
	f := &fakeFetcher{
		totalMovies: 80,
		delays:      map[int]time.Duration{1: 50 * time.Millisecond},
	}
	a := NewAggregator(f, testLogger())

	res, err := a.Search(context.Background(), "x", 1, 40)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(res.Movies) != 40 {
		t.Fatalf("len(Movies) = %d, want 40", len(res.Movies))
	}
	if res.Movies[0].ID != 1 || res.Movies[39].ID != 40 {
		t.Errorf("window = [%d..%d], want [1..40]", res.Movies[0].ID, res.Movies[39].ID)
	}
}

func TestSearchFailsWhole(t *testing.T) {
	wantErr := &tmdb.APIError{Kind: tmdb.KindServerError, Status: 500}
	f := &fakeFetcher{
		totalMovies: 80,
		failPages:   map[int]error{2: wantErr},
	}
	a := NewAggregator(f, testLogger())

	res, err := a.Search(context.Background(), "x", 1, 40)
	if res != nil {
		t.Errorf("Search() returned partial result %+v with error", res)
	}
	var aerr *tmdb.APIError
	if !errors.As(err, &aerr) {
		t.Fatalf("got %v, want APIError", err)
	}
}

func TestSearchTrimsQuery(t *testing.T) {
	var gotQuery atomic.Value
	f := &recordingFetcher{record: &gotQuery}
	a := NewAggregator(f, testLogger())

	if _, err := a.Search(context.Background(), "  matrix  ", 1, 20); err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if q := gotQuery.Load(); q != "matrix" {
		t.Errorf("upstream query = %q, want %q", q, "matrix")
	}
}

type recordingFetcher struct {
	record *atomic.Value
}

func (r *recordingFetcher) SearchPage(ctx context.Context, query string, apiPage int) (*tmdb.SearchResponse, error) {
	r.record.Store(query)
	return &tmdb.SearchResponse{Page: apiPage}, nil
}
