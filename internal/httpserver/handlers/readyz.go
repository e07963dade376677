package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/moviedex/moviedex/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Store string `json:"store"`
}

// Readyz reports whether the collections store is reachable. The upstream
// movie API is deliberately not probed here; its availability is surfaced
// per request instead.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		res := readyzResponse{Ready: true, Store: d.StoreBackend}
		if d.StorePing != nil {
			if err := d.StorePing(ctx); err != nil {
				res.Ready = false
			}
		}

		status := http.StatusOK
		if !res.Ready {
			status = http.StatusServiceUnavailable
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(res)
	}
}
