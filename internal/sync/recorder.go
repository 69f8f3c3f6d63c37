package sync

import (
	"context"
	"fmt"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/notifeed/internal/logging"
	"github.com/nhle/notifeed/internal/model"
	"github.com/nhle/notifeed/internal/source"
	"github.com/nhle/notifeed/internal/store"
)

// SyncState represents the current state of the notification source.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncError
)

func (s SyncState) String() string {
	switch s {
	case SyncRunning:
		return "syncing"
	case SyncError:
		return "error"
	default:
		return "idle"
	}
}

// SyncStatus holds the fetch state of the notification source.
type SyncStatus struct {
	SourceType source.SourceType
	State      SyncState
	InFlight   int
	LastSync   time.Time
	Error      error
}

// FetchResultMsg is a tea.Msg sent when a page fetch completes.
type FetchResultMsg struct {
	Filter    model.Filter
	Page      int
	Count     int
	Duration  time.Duration
	Error     error
	AuthError *AuthErrorMsg
}

// AuthErrorMsg is a tea.Msg sent when the source returns an authentication error.
type AuthErrorMsg struct {
	SourceType source.SourceType
	Message    string
}

// journalTimeout bounds a single journal write.
const journalTimeout = 5 * time.Second

// Fetcher loads one page of notifications.
type Fetcher interface {
	Type() source.SourceType
	FetchPage(ctx context.Context, filter model.Filter, page int) (*source.Page, error)
}

// Recorder wraps a Fetcher, tracks its sync status and writes every page
// fetch to the journal. It is safe for concurrent use.
type Recorder struct {
	fetcher    Fetcher
	sourceType source.SourceType
	journal    store.Journal
	now        func() time.Time
	resultCh   chan FetchResultMsg

	mu     gosync.Mutex
	status SyncStatus
}

// New creates a Recorder. journal may be nil to skip journaling.
func New(f Fetcher, journal store.Journal) *Recorder {
	return &Recorder{
		fetcher:    f,
		sourceType: f.Type(),
		journal:    journal,
		now:        time.Now,
		resultCh:   make(chan FetchResultMsg, 16),
		status:     SyncStatus{SourceType: f.Type(), State: SyncIdle},
	}
}

// FetchPage fetches a page through the wrapped Fetcher.
func (r *Recorder) FetchPage(ctx context.Context, filter model.Filter, page int) (*source.Page, error) {
	r.begin()
	start := r.now()

	result, err := r.fetcher.FetchPage(ctx, filter, page)

	elapsed := r.now().Sub(start)
	count := 0
	if result != nil {
		count = len(result.Records)
	}
	r.finish(err)

	msg := FetchResultMsg{Filter: filter, Page: page, Count: count, Duration: elapsed, Error: err}
	if source.IsAuthError(err) {
		msg.AuthError = &AuthErrorMsg{
			SourceType: r.sourceType,
			Message: fmt.Sprintf(
				"%s: authentication failed. Set GITHUB_TOKEN or run with --login.",
				r.sourceType,
			),
		}
	}
	r.sendResult(msg)
	r.record(ctx, filter, page, count, elapsed, err)

	return result, err
}

// Status returns the current sync status.
func (r *Recorder) Status() SyncStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Type returns the wrapped source type.
func (r *Recorder) Type() source.SourceType {
	return r.sourceType
}

func (r *Recorder) begin() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.status.InFlight++
	r.status.State = SyncRunning
}

// finish updates the status once a fetch ends. The state stays running
// while other fetches are still in flight.
func (r *Recorder) finish(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status.InFlight > 0 {
		r.status.InFlight--
	}

	if err != nil {
		r.status.Error = err
	} else {
		r.status.Error = nil
		r.status.LastSync = r.now()
	}

	switch {
	case r.status.InFlight > 0:
		r.status.State = SyncRunning
	case r.status.Error != nil:
		r.status.State = SyncError
	default:
		r.status.State = SyncIdle
	}
}

func (r *Recorder) record(ctx context.Context, filter model.Filter, page, count int, elapsed time.Duration, err error) {
	if r.journal == nil {
		return
	}

	entry := model.FetchEntry{
		Filter:      filter.String(),
		Page:        page,
		RecordCount: count,
		DurationMs:  elapsed.Milliseconds(),
		FetchedAt:   r.now(),
	}
	if err != nil {
		entry.Error = err.Error()
	}

	// The fetch context may already be cancelled by its timeout.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalTimeout)
	defer cancel()

	if jerr := r.journal.RecordFetch(ctx, entry); jerr != nil {
		logging.Warn("journal write failed", "filter", filter, "page", page, "err", jerr)
	}
}

// sendResult sends a FetchResultMsg on the result channel without blocking.
func (r *Recorder) sendResult(msg FetchResultMsg) {
	select {
	case r.resultCh <- msg:
	default:
		// Drop if nobody is listening.
	}
}

// WaitForResult returns a tea.Cmd that waits for the next fetch result.
// Call it again after each FetchResultMsg to keep listening.
func (r *Recorder) WaitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-r.resultCh
		if !ok {
			return nil
		}
		return result
	}
}
