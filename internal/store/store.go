package store

import (
	"context"

	"github.com/nhle/notifeed/internal/model"
)

// FetchFilter narrows a journal query.
type FetchFilter struct {
	Filter     *string // "unread", "participating", "all", or nil (all)
	FailedOnly bool
	Limit      int
}

// Journal records page fetches for diagnostics. It is never read back
// into the feed itself.
type Journal interface {
	RecordFetch(ctx context.Context, entry model.FetchEntry) error
	RecentFetches(ctx context.Context, filter FetchFilter) ([]model.FetchEntry, error)
	PruneFetches(ctx context.Context, keep int) (int64, error)
}
