package feed

import (
	"errors"
	"fmt"

	"github.com/nhle/notifeed/internal/model"
)

// LoadPhase tells which kind of fetch a LoadError came from.
type LoadPhase int

const (
	// PhaseInitial is the first fetch of a filter (mount, tab switch, refresh).
	PhaseInitial LoadPhase = iota
	// PhaseMore is a page-append fetch.
	PhaseMore
)

func (p LoadPhase) String() string {
	switch p {
	case PhaseInitial:
		return "initial"
	case PhaseMore:
		return "more"
	default:
		return fmt.Sprintf("LoadPhase(%d)", int(p))
	}
}

// LoadError is the error recorded in State when a fetch fails. The
// underlying cause stays reachable through errors.As / errors.Is.
type LoadError struct {
	Phase  LoadPhase
	Filter model.Filter
	Page   int
	Err    error
}

func (e *LoadError) Error() string {
	switch e.Phase {
	case PhaseMore:
		return fmt.Sprintf("loading more %s notifications (page %d): %v", e.Filter, e.Page, e.Err)
	default:
		return fmt.Sprintf("loading %s notifications: %v", e.Filter, e.Err)
	}
}

func (e *LoadError) Unwrap() error { return e.Err }

// IsInitialLoadError reports whether err is a LoadError from an initial load.
func IsInitialLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Phase == PhaseInitial
}

// IsMoreLoadError reports whether err is a LoadError from a load-more.
func IsMoreLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le) && le.Phase == PhaseMore
}

// State is the notification feed state. It only changes through Transition.
type State struct {
	Filter model.Filter

	// Groups is nil until the first request for a filter is issued, and
	// never cleared by a failed fetch afterwards. A non-nil empty slice is a
	// confirmed empty feed.
	Groups []Group

	// IsInitialLoading is true only while the first page of a filter loads.
	IsInitialLoading bool

	// IsLoadingMore is true only while a page-append fetch is in flight.
	IsLoadingMore bool

	// HasMore is true iff the last fetched page was full. It is a guess,
	// not a server cursor.
	HasMore bool

	// Page is the index of the last page merged into Groups.
	Page int

	// Err is nil or a *LoadError.
	Err error

	// PageLimit is the page size; a page of exactly this many records is full.
	PageLimit int

	// Tokens of the latest issued request per phase; responses carrying any
	// other token are stale.
	feedToken uint64
	moreToken uint64
}

// NewState returns the state a feed starts with.
func NewState(pageLimit int) State {
	if pageLimit < 1 {
		pageLimit = model.DefaultPageLimit
	}
	return State{
		Filter:    model.FilterUnread,
		Page:      1,
		PageLimit: pageLimit,
	}
}

// Loaded reports whether Groups holds data (possibly empty).
func (s State) Loaded() bool { return s.Groups != nil }

// IsLoading reports whether any fetch is in flight.
func (s State) IsLoading() bool { return s.IsInitialLoading || s.IsLoadingMore }

// IsEmpty reports whether the feed loaded and holds no notifications.
func (s State) IsEmpty() bool { return s.Loaded() && len(s.Groups) == 0 }

// Len returns the number of loaded notifications.
func (s State) Len() int {
	n := 0
	for _, g := range s.Groups {
		n += len(g.Items)
	}
	return n
}

func (s State) isFullPage(n int) bool { return n == s.PageLimit }
