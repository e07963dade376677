// Package search presents a caller-chosen page/pageSize window on top of an
// upstream API with a fixed, non-negotiable page size.
package search

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/moviedex/moviedex/internal/logger"
	"github.com/moviedex/moviedex/internal/tmdb"
)

const (
	// UpstreamPageSize is the fixed result count per upstream page.
	UpstreamPageSize = 20
	// DefaultPageSize is the caller-facing page size when none is requested.
	DefaultPageSize = 20
)

// Fetcher fetches a single upstream page. Satisfied by *tmdb.Client.
type Fetcher interface {
	SearchPage(ctx context.Context, query string, apiPage int) (*tmdb.SearchResponse, error)
}

// Result is one caller-window page of search results.
type Result struct {
	Query        string              `json:"query"`
	Page         int                 `json:"page"`
	PageSize     int                 `json:"page_size"`
	Movies       []tmdb.MovieSummary `json:"results"`
	TotalPages   int                 `json:"total_pages"`
	TotalResults int                 `json:"total_results"`
}

// Aggregator translates (page, pageSize) windows into one or more upstream
// fetches and re-slices the concatenation back to the caller's window.
type Aggregator struct {
	fetcher Fetcher
	logger  logger.Logger
}

func NewAggregator(f Fetcher, log logger.Logger) *Aggregator {
	return &Aggregator{fetcher: f, logger: log}
}

// Search returns the caller's window of results. pageSize may exceed or
// misalign with the upstream page size; the required upstream pages are
// fetched concurrently but concatenated in ascending page order, and a
// failure in any one fails the whole call.
func (a *Aggregator) Search(ctx context.Context, query string, page, pageSize int) (*Result, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return nil, &tmdb.ValidationError{Msg: "search query cannot be empty"}
	}
	if page < 1 {
		return nil, &tmdb.ValidationError{Msg: "page number must be a positive integer"}
	}
	if pageSize < 1 {
		return nil, &tmdb.ValidationError{Msg: "page size must be a positive integer"}
	}

	// Half-open index range of the caller's window, then the 1-based
	// upstream pages covering it.
	start := (page - 1) * pageSize
	end := start + pageSize
	startAPIPage := start/UpstreamPageSize + 1
	endAPIPage := (end + UpstreamPageSize - 1) / UpstreamPageSize
	numPages := endAPIPage - startAPIPage + 1

	pages := make([]*tmdb.SearchResponse, numPages)
	if numPages == 1 {
		resp, err := a.fetcher.SearchPage(ctx, trimmed, startAPIPage)
		if err != nil {
			return nil, err
		}
		pages[0] = resp
	} else {
		a.logger.Debug("window spans multiple upstream pages",
			logger.String("query", trimmed),
			logger.Int("first_api_page", startAPIPage),
			logger.Int("api_pages", numPages))

		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < numPages; i++ {
			i := i
			g.Go(func() error {
				resp, err := a.fetcher.SearchPage(gctx, trimmed, startAPIPage+i)
				if err != nil {
					return err
				}
				// Slotted by index, so concatenation below follows
				// page order rather than completion order.
				pages[i] = resp
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	combined := make([]tmdb.MovieSummary, 0, numPages*UpstreamPageSize)
	for _, p := range pages {
		combined = append(combined, p.Results...)
	}

	offset := start % UpstreamPageSize
	if offset > len(combined) {
		offset = len(combined)
	}
	upper := offset + pageSize
	if upper > len(combined) {
		upper = len(combined)
	}

	return &Result{
		Query:        trimmed,
		Page:         page,
		PageSize:     pageSize,
		Movies:       combined[offset:upper],
		TotalPages:   pages[0].TotalPages,
		TotalResults: pages[0].TotalResults,
	}, nil
}
