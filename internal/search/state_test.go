package search

import (
	"testing"

	"github.com/moviedex/moviedex/internal/tmdb"
)

func TestStateHolderLifecycle(t *testing.T) {
	h := NewStateHolder()

	if h.Has() {
		t.Error("new holder should be empty")
	}
	if h.Get() != nil {
		t.Error("Get() on empty holder should return nil")
	}

	h.Set(Result{
		Query:        "matrix",
		Page:         1,
		PageSize:     20,
		Movies:       []tmdb.MovieSummary{{ID: 603, Title: "The Matrix"}},
		TotalResults: 1,
	})

	if !h.Has() {
		t.Fatal("holder should report a stored state")
	}
	got := h.Get()
	if got == nil || got.Query != "matrix" || len(got.Movies) != 1 {
		t.Fatalf("Get() = %+v", got)
	}

	// Last write wins.
	h.Set(Result{Query: "inception", Page: 2, PageSize: 20})
	if got := h.Get(); got.Query != "inception" || got.Page != 2 {
		t.Errorf("Get() after overwrite = %+v", got)
	}

	h.Clear()
	if h.Has() {
		t.Error("holder should be empty after Clear")
	}
}

func TestStateHolderNotifies(t *testing.T) {
	h := NewStateHolder()
	ch := h.Subscribe()

	h.Set(Result{Query: "matrix"})
	select {
	case <-ch:
	default:
		t.Fatal("expected a notification after Set")
	}

	// Coalesced: two rapid writes leave at most one pending signal.
	h.Set(Result{Query: "a"})
	h.Set(Result{Query: "b"})
	<-ch
	select {
	case <-ch:
		t.Error("signals should be coalesced")
	default:
	}
}
