package tmdb

import (
	"fmt"
	"time"
)

// MovieSummary is one entry of a search result page.
type MovieSummary struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path,omitempty"`
	VoteAverage float64 `json:"vote_average"`
	ReleaseDate string  `json:"release_date"`
}

// SearchResponse is one upstream page of search results.
type SearchResponse struct {
	Page         int            `json:"page"`
	Results      []MovieSummary `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

// SpokenLanguage is a language entry on a movie detail.
type SpokenLanguage struct {
	EnglishName string `json:"english_name"`
	ISO639_1    string `json:"iso_639_1"`
	Name        string `json:"name"`
}

// MovieDetail is the full record for a single movie.
type MovieDetail struct {
	MovieSummary
	Budget          int64            `json:"budget"`
	Revenue         int64            `json:"revenue"`
	VoteCount       int              `json:"vote_count"`
	SpokenLanguages []SpokenLanguage `json:"spoken_languages"`
}

// GuestSessionResponse is the upstream guest session payload.
type GuestSessionResponse struct {
	Success        bool   `json:"success"`
	GuestSessionID string `json:"guest_session_id"`
	ExpiresAt      string `json:"expires_at"`
}

// guestSessionExpiryLayout matches the "2025-01-02 15:04:05 UTC" format the
// guest session endpoint returns.
const guestSessionExpiryLayout = "2006-01-02 15:04:05 MST"

// ExpiryTime parses the expires_at field.
func (r *GuestSessionResponse) ExpiryTime() (time.Time, error) {
	if t, err := time.Parse(guestSessionExpiryLayout, r.ExpiresAt); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, r.ExpiresAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable session expiry %q: %w", r.ExpiresAt, err)
	}
	return t, nil
}

// RatingResponse is the upstream acknowledgement of a rating submission.
type RatingResponse struct {
	Success       bool   `json:"success"`
	StatusMessage string `json:"status_message,omitempty"`
}
