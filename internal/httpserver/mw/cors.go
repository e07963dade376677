package mw

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS allows browser clients from the configured origins. An empty origin
// list means same-origin only, which chi's cors handles by rejecting all
// cross-origin requests.
func CORS(origins []string) func(http.Handler) http.Handler {
	allowCredentials := true
	for _, o := range origins {
		if o == "*" {
			// Credentials cannot be combined with a wildcard origin.
			allowCredentials = false
			break
		}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: allowCredentials,
		MaxAge:           300,
	})
}
