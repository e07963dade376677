package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/moviedex/moviedex/internal/httpserver/deps"
)

type componentStatus struct {
	OK          bool   `json:"ok"`
	Mode        string `json:"mode,omitempty"`
	Collections *int   `json:"collections,omitempty"`
	Error       string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the operational state of each component: the collections
// store, the cached guest session and the remembered search.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		count := d.Collections.Count()
		components := map[string]componentStatus{
			"store":    checkStore(r.Context(), d),
			"sessions": sessionStatus(d),
			"search": {
				OK:   true,
				Mode: searchMode(d),
			},
		}
		components["collections"] = componentStatus{OK: true, Collections: &count}

		mode := "ok"
		if !components["store"].OK {
			mode = "degraded"
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(infraResponse{
			Mode:       mode,
			Components: components,
		})
	}
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	if d.StorePing == nil {
		return componentStatus{OK: true, Mode: d.StoreBackend}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.StorePing(ctx); err != nil {
		return componentStatus{OK: false, Mode: d.StoreBackend, Error: err.Error()}
	}
	return componentStatus{OK: true, Mode: d.StoreBackend}
}

func sessionStatus(d deps.Deps) componentStatus {
	if d.Sessions.Valid() {
		return componentStatus{OK: true, Mode: "cached"}
	}
	// Not an error: the next rating request will create one.
	return componentStatus{OK: true, Mode: "lazy"}
}

func searchMode(d deps.Deps) string {
	if d.SearchState.Has() {
		return "populated"
	}
	return "empty"
}
