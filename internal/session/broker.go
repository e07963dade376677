// Package session brokers the guest session used to authorize ratings.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/moviedex/moviedex/internal/logger"
	"github.com/moviedex/moviedex/internal/tmdb"
)

const (
	// DefaultExpiryBuffer is how long before expires_at a session stops
	// being handed out, to absorb clock differences with the upstream API.
	DefaultExpiryBuffer = 5 * time.Minute
	// DefaultWaitTimeout bounds how long a caller waits on a creation
	// already in flight.
	DefaultWaitTimeout = 5 * time.Second

	flightKey = "guest-session"
)

// ErrWaitTimeout is returned when a creation in flight does not settle
// within the wait timeout.
var ErrWaitTimeout = errors.New("timed out waiting for guest session")

// Creator requests new guest sessions. Satisfied by *tmdb.Client.
type Creator interface {
	CreateGuestSession(ctx context.Context) (*tmdb.GuestSessionResponse, error)
}

// Session is a stored guest session token with its absolute expiry.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Broker lazily creates and caches the guest session token. Concurrent
// callers racing an in-flight creation join it rather than issuing a second
// upstream call; token issuance is externally visible and should not be
// duplicated needlessly.
type Broker struct {
	creator     Creator
	logger      logger.Logger
	buffer      time.Duration
	waitTimeout time.Duration
	now         func() time.Time

	group singleflight.Group

	mu      sync.RWMutex
	session *Session
	epoch   uint64 // bumped by Clear so a stale flight cannot repopulate state
}

// Options configures a Broker. Zero durations fall back to defaults; Now is
// for tests.
type Options struct {
	ExpiryBuffer time.Duration
	WaitTimeout  time.Duration
	Now          func() time.Time
}

func NewBroker(creator Creator, log logger.Logger, opts Options) *Broker {
	b := &Broker{
		creator:     creator,
		logger:      log,
		buffer:      opts.ExpiryBuffer,
		waitTimeout: opts.WaitTimeout,
		now:         opts.Now,
	}
	if b.buffer == 0 {
		b.buffer = DefaultExpiryBuffer
	}
	if b.waitTimeout == 0 {
		b.waitTimeout = DefaultWaitTimeout
	}
	if b.now == nil {
		b.now = time.Now
	}
	return b
}

// SessionID returns a usable guest session token, creating one when the
// stored session is missing or within the expiry buffer. At most one
// creation call is in flight at a time; callers joining it share its
// outcome, bounded by the wait timeout.
func (b *Broker) SessionID(ctx context.Context) (string, error) {
	if token, ok := b.validToken(); ok {
		return token, nil
	}

	ch := b.group.DoChan(flightKey, func() (interface{}, error) {
		return b.create(ctx)
	})

	timer := time.NewTimer(b.waitTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", fmt.Errorf("guest session: %w", res.Err)
		}
		return res.Val.(string), nil
	case <-timer.C:
		return "", ErrWaitTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Valid reports whether a usable session is currently stored.
func (b *Broker) Valid() bool {
	_, ok := b.validToken()
	return ok
}

// Clear discards the stored session (logout/testing). An in-flight creation
// is not cancelled, but its result is dropped when it lands.
func (b *Broker) Clear() {
	b.mu.Lock()
	b.session = nil
	b.epoch++
	b.mu.Unlock()
	b.group.Forget(flightKey)
	b.logger.Debug("guest session cleared")
}

func (b *Broker) validToken() (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.session == nil {
		return "", false
	}
	if !b.now().Add(b.buffer).Before(b.session.ExpiresAt) {
		return "", false
	}
	return b.session.Token, true
}

func (b *Broker) create(ctx context.Context) (string, error) {
	b.mu.RLock()
	epoch := b.epoch
	b.mu.RUnlock()

	resp, err := b.creator.CreateGuestSession(ctx)
	if err != nil {
		return "", err
	}
	if !resp.Success || resp.GuestSessionID == "" {
		return "", errors.New("guest session creation was not successful")
	}
	expiresAt, err := resp.ExpiryTime()
	if err != nil {
		return "", err
	}

	b.mu.Lock()
	if b.epoch == epoch {
		b.session = &Session{Token: resp.GuestSessionID, ExpiresAt: expiresAt}
	}
	b.mu.Unlock()

	b.logger.Info("guest session created",
		logger.Time("expires_at", expiresAt))
	return resp.GuestSessionID, nil
}
