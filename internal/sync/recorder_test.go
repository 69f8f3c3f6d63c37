package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nhle/notifeed/internal/model"
	"github.com/nhle/notifeed/internal/source"
	"github.com/nhle/notifeed/internal/store"
	"github.com/nhle/notifeed/internal/testutil"
)

type stubFetcher struct {
	records []model.Notification
	err     error
}

func (s *stubFetcher) Type() source.SourceType { return source.SourceTypeGitHub }

func (s *stubFetcher) FetchPage(ctx context.Context, filter model.Filter, page int) (*source.Page, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &source.Page{Records: s.records, Page: page}, nil
}

func TestRecorderSuccess(t *testing.T) {
	db := testutil.NewTestStore(t)
	f := &stubFetcher{records: make([]model.Notification, 3)}
	r := New(f, db)

	page, err := r.FetchPage(context.Background(), model.FilterAll, 2)
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if len(page.Records) != 3 {
		t.Errorf("expected 3 records, got %d", len(page.Records))
	}

	st := r.Status()
	if st.State != SyncIdle || st.InFlight != 0 || st.LastSync.IsZero() || st.Error != nil {
		t.Errorf("unexpected status %+v", st)
	}

	msg := r.WaitForResult()().(FetchResultMsg)
	if msg.Filter != model.FilterAll || msg.Page != 2 || msg.Count != 3 || msg.Error != nil {
		t.Errorf("unexpected result msg %+v", msg)
	}

	entries, err := db.RecentFetches(context.Background(), store.FetchFilter{})
	if err != nil {
		t.Fatalf("RecentFetches: %v", err)
	}
	if len(entries) != 1 || entries[0].Filter != "all" || entries[0].Page != 2 || entries[0].RecordCount != 3 {
		t.Errorf("unexpected journal %+v", entries)
	}
}

func TestRecorderFailure(t *testing.T) {
	db := testutil.NewTestStore(t)
	f := &stubFetcher{err: errors.New("connection refused")}
	r := New(f, db)

	_, err := r.FetchPage(context.Background(), model.FilterUnread, 1)
	if err == nil {
		t.Fatal("expected error")
	}

	st := r.Status()
	if st.State != SyncError || st.Error == nil {
		t.Errorf("unexpected status %+v", st)
	}

	msg := r.WaitForResult()().(FetchResultMsg)
	if msg.Error == nil || msg.AuthError != nil {
		t.Errorf("unexpected result msg %+v", msg)
	}

	entries, err := db.RecentFetches(context.Background(), store.FetchFilter{FailedOnly: true})
	if err != nil {
		t.Fatalf("RecentFetches: %v", err)
	}
	if len(entries) != 1 || entries[0].Error != "connection refused" {
		t.Errorf("unexpected journal %+v", entries)
	}
}

func TestRecorderAuthError(t *testing.T) {
	f := &stubFetcher{err: &source.AuthError{SourceType: source.SourceTypeGitHub, Message: "Bad credentials"}}
	r := New(f, nil)

	_, _ = r.FetchPage(context.Background(), model.FilterUnread, 1)

	msg := r.WaitForResult()().(FetchResultMsg)
	if msg.AuthError == nil || msg.AuthError.SourceType != source.SourceTypeGitHub {
		t.Errorf("expected auth error msg, got %+v", msg)
	}
}

func TestRecorderJournalsAfterTimeout(t *testing.T) {
	db := testutil.NewTestStore(t)
	f := &stubFetcher{err: context.DeadlineExceeded}
	r := New(f, db)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	_, _ = r.FetchPage(ctx, model.FilterUnread, 1)

	entries, err := db.RecentFetches(context.Background(), store.FetchFilter{})
	if err != nil {
		t.Fatalf("RecentFetches: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected journal entry despite cancelled context, got %d", len(entries))
	}
}

func TestRecorderSuccessClearsError(t *testing.T) {
	f := &stubFetcher{err: errors.New("boom")}
	r := New(f, nil)

	_, _ = r.FetchPage(context.Background(), model.FilterUnread, 1)
	f.err = nil
	_, _ = r.FetchPage(context.Background(), model.FilterUnread, 1)

	if st := r.Status(); st.State != SyncIdle || st.Error != nil {
		t.Errorf("unexpected status %+v", st)
	}
}
