package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/nhle/notifeed/internal/model"
	"github.com/nhle/notifeed/internal/store"
	"github.com/nhle/notifeed/internal/testutil"
)

func TestMigrationsApplied(t *testing.T) {
	s := testutil.NewTestStore(t)

	v, err := s.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion: %v", err)
	}
	if v != 2 {
		t.Errorf("expected schema version 2, got %d", v)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notifeed.db")
	ctx := context.Background()

	s, err := store.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.RecordFetch(ctx, model.FetchEntry{Filter: "unread", Page: 1, RecordCount: 3}); err != nil {
		t.Fatalf("RecordFetch: %v", err)
	}
	s.Close()

	s, err = store.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	entries, err := s.RecentFetches(ctx, store.FetchFilter{})
	if err != nil {
		t.Fatalf("RecentFetches: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry after reopen, got %d", len(entries))
	}
}

func TestRecordAndQueryFetches(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	entries := []model.FetchEntry{
		{Filter: "unread", Page: 1, RecordCount: 50, DurationMs: 120, FetchedAt: base},
		{Filter: "unread", Page: 2, Error: "timeout", FetchedAt: base.Add(time.Minute)},
		{Filter: "all", Page: 1, RecordCount: 7, FetchedAt: base.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		if err := s.RecordFetch(ctx, e); err != nil {
			t.Fatalf("RecordFetch: %v", err)
		}
	}

	got, err := s.RecentFetches(ctx, store.FetchFilter{})
	if err != nil {
		t.Fatalf("RecentFetches: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if got[0].Filter != "all" || got[2].Page != 1 || got[2].RecordCount != 50 {
		t.Errorf("unexpected order: %+v", got)
	}
	if got[0].ID == "" {
		t.Error("expected generated ID")
	}
	if !got[2].FetchedAt.Equal(base) {
		t.Errorf("fetched_at = %v, want %v", got[2].FetchedAt, base)
	}

	unread := "unread"
	got, err = s.RecentFetches(ctx, store.FetchFilter{Filter: &unread})
	if err != nil {
		t.Fatalf("RecentFetches(unread): %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 unread entries, got %d", len(got))
	}

	got, err = s.RecentFetches(ctx, store.FetchFilter{FailedOnly: true})
	if err != nil {
		t.Fatalf("RecentFetches(failed): %v", err)
	}
	if len(got) != 1 || !got[0].Failed() || got[0].Error != "timeout" {
		t.Errorf("unexpected failed entries: %+v", got)
	}

	got, err = s.RecentFetches(ctx, store.FetchFilter{Limit: 1})
	if err != nil {
		t.Fatalf("RecentFetches(limit): %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected limit to apply, got %d", len(got))
	}
}

func TestRecordFetchRejectsBadFilter(t *testing.T) {
	s := testutil.NewTestStore(t)

	err := s.RecordFetch(context.Background(), model.FetchEntry{Filter: "starred", Page: 1})
	if err == nil {
		t.Fatal("expected constraint error")
	}
}

func TestPruneFetches(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		e := model.FetchEntry{Filter: "all", Page: i + 1, FetchedAt: base.Add(time.Duration(i) * time.Second)}
		if err := s.RecordFetch(ctx, e); err != nil {
			t.Fatalf("RecordFetch: %v", err)
		}
	}

	removed, err := s.PruneFetches(ctx, 2)
	if err != nil {
		t.Fatalf("PruneFetches: %v", err)
	}
	if removed != 3 {
		t.Errorf("expected 3 removed, got %d", removed)
	}

	got, err := s.RecentFetches(ctx, store.FetchFilter{})
	if err != nil {
		t.Fatalf("RecentFetches: %v", err)
	}
	if len(got) != 2 || got[0].Page != 5 || got[1].Page != 4 {
		t.Errorf("unexpected remaining entries: %+v", got)
	}
}
