package deps

import (
	"context"
	"time"

	"github.com/moviedex/moviedex/internal/collections"
	"github.com/moviedex/moviedex/internal/logger"
	"github.com/moviedex/moviedex/internal/search"
	"github.com/moviedex/moviedex/internal/session"
	"github.com/moviedex/moviedex/internal/tmdb"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	Client      *tmdb.Client         // upstream movie API client
	Aggregator  *search.Aggregator   // page-window search on top of Client
	SearchState *search.StateHolder  // last successful search result
	Sessions    *session.Broker      // guest session token cache
	Collections *collections.Service // personal collections

	StoreBackend string                      // "file" | "redis"
	StorePing    func(context.Context) error // readiness probe of the collections store
	TrustProxy   bool                        // true if running behind a trusted reverse proxy
}
