package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nhle/notifeed/internal/model"
	"github.com/nhle/notifeed/internal/source"
)

type fetchCall struct {
	filter model.Filter
	page   int
}

type fakeFetcher struct {
	pages map[int][]model.Notification
	err   error
	nilOK bool
	calls []fetchCall
}

func (f *fakeFetcher) FetchPage(ctx context.Context, filter model.Filter, page int) (*source.Page, error) {
	f.calls = append(f.calls, fetchCall{filter: filter, page: page})
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("fetch without deadline")
	}
	if f.err != nil {
		return nil, f.err
	}
	if f.nilOK {
		return nil, nil
	}
	return &source.Page{Records: f.pages[page], Page: page}, nil
}

func run(c *Controller, cmd Cmd) {
	if cmd != nil {
		c.Apply(cmd())
	}
}

func TestControllerInitialLoad(t *testing.T) {
	f := &fakeFetcher{pages: map[int][]model.Notification{1: records("a", "org/a", 3)}}
	c := NewController(f, 3)

	cmd := c.RequestFeed(model.FilterParticipating)
	if !c.State().IsInitialLoading {
		t.Fatal("expected initial loading before the fetch runs")
	}
	run(c, cmd)

	s := c.State()
	if s.IsInitialLoading || s.Len() != 3 || !s.HasMore {
		t.Fatalf("unexpected state %+v", s)
	}
	if len(f.calls) != 1 || f.calls[0] != (fetchCall{model.FilterParticipating, 1}) {
		t.Errorf("unexpected calls %v", f.calls)
	}
}

func TestControllerRequestMoreGuards(t *testing.T) {
	f := &fakeFetcher{pages: map[int][]model.Notification{
		1: records("a", "org/a", 2),
		2: records("b", "org/b", 1),
	}}
	c := NewController(f, 2)

	if c.RequestMore() != nil {
		t.Fatal("RequestMore before load should be nil")
	}

	pending := c.RequestFeed(model.FilterUnread)
	if c.RequestMore() != nil {
		t.Fatal("RequestMore while loading should be nil")
	}
	run(c, pending)

	more := c.RequestMore()
	if more == nil {
		t.Fatal("expected a load-more command")
	}
	if c.RequestMore() != nil {
		t.Fatal("RequestMore while loading more should be nil")
	}
	run(c, more)

	s := c.State()
	if s.Page != 2 || s.HasMore || s.Len() != 3 {
		t.Fatalf("unexpected state %+v", s)
	}
	if c.CanRequestMore() {
		t.Error("short page should stop pagination")
	}
	if f.calls[1].page != 2 {
		t.Errorf("expected page 2, got %d", f.calls[1].page)
	}
}

func TestControllerLoadErrorKeepsCause(t *testing.T) {
	f := &fakeFetcher{err: &source.AuthError{SourceType: source.SourceTypeGitHub, Message: "bad credentials"}}
	c := NewController(f, 20)

	run(c, c.RequestFeed(model.FilterUnread))

	err := c.State().Err
	if !IsInitialLoadError(err) {
		t.Fatalf("expected initial load error, got %v", err)
	}
	if !source.IsAuthError(err) {
		t.Error("expected auth error to be reachable")
	}
	if c.RetryMore() != nil {
		t.Error("RetryMore should ignore initial load errors")
	}
}

func TestControllerRetryMore(t *testing.T) {
	f := &fakeFetcher{pages: map[int][]model.Notification{
		1: records("a", "org/a", 2),
		2: records("b", "org/b", 2),
	}}
	c := NewController(f, 2)
	run(c, c.RequestFeed(model.FilterUnread))

	if c.RetryMore() != nil {
		t.Fatal("RetryMore without an error should be nil")
	}

	f.err = errors.New("timeout")
	run(c, c.RequestMore())
	if !IsMoreLoadError(c.State().Err) {
		t.Fatalf("expected more load error, got %v", c.State().Err)
	}
	if c.State().Len() != 2 {
		t.Fatal("failed load-more lost data")
	}

	f.err = nil
	retry := c.RetryMore()
	if retry == nil {
		t.Fatal("expected retry command")
	}
	run(c, retry)

	s := c.State()
	if s.Err != nil || s.Page != 2 || s.Len() != 4 {
		t.Errorf("unexpected state after retry %+v", s)
	}
	if last := f.calls[len(f.calls)-1]; last.page != 2 {
		t.Errorf("retry fetched page %d", last.page)
	}
}

func TestControllerDropsStaleResponse(t *testing.T) {
	f := &fakeFetcher{pages: map[int][]model.Notification{1: records("a", "org/a", 1)}}
	c := NewController(f, 20)

	first := c.RequestFeed(model.FilterUnread)
	second := c.RequestFeed(model.FilterAll)

	staleEv := first()
	run(c, second)
	c.Apply(staleEv)

	s := c.State()
	if s.Filter != model.FilterAll || s.Len() != 1 {
		t.Errorf("unexpected state %+v", s)
	}
}

func TestControllerApplyMatchesTransition(t *testing.T) {
	f := &fakeFetcher{pages: map[int][]model.Notification{
		1: records("a", "org/a", 2),
		2: records("b", "org/b", 1),
	}}
	c := NewController(f, 2)
	run(c, c.RequestFeed(model.FilterUnread))

	more := c.RequestMore()
	reload := c.RequestFeed(model.FilterUnread)
	before := c.State()

	// Both a stale success and a stale failure leave the state untouched.
	for _, ev := range []Event{
		more(),
		RequestMoreFailed{Filter: model.FilterUnread, Page: 2, Err: errors.New("late"), Token: before.moreToken},
	} {
		c.Apply(ev)
		want := Transition(before, ev)
		got := c.State()
		if got.Err != want.Err || got.IsInitialLoading != want.IsInitialLoading ||
			got.IsLoadingMore != want.IsLoadingMore || got.Page != want.Page || got.Len() != want.Len() {
			t.Errorf("Apply(%T) = %+v, Transition = %+v", ev, got, want)
		}
		if got.Err != nil || !got.IsInitialLoading || got.IsLoadingMore {
			t.Errorf("stale %T changed state: %+v", ev, got)
		}
	}

	run(c, reload)
	if s := c.State(); s.Len() != 2 || s.Page != 1 {
		t.Errorf("reload did not apply: %+v", s)
	}
}

func TestControllerRefresh(t *testing.T) {
	f := &fakeFetcher{pages: map[int][]model.Notification{1: records("a", "org/a", 1)}}
	c := NewController(f, 20)
	run(c, c.RequestFeed(model.FilterAll))

	run(c, c.Refresh())

	if got := f.calls[len(f.calls)-1]; got != (fetchCall{model.FilterAll, 1}) {
		t.Errorf("refresh fetched %+v", got)
	}
}

func TestControllerNilPage(t *testing.T) {
	f := &fakeFetcher{nilOK: true}
	c := NewController(f, 20, WithFetchTimeout(time.Second))

	run(c, c.RequestFeed(model.FilterUnread))

	err := c.State().Err
	var fe *source.FetchError
	if !errors.As(err, &fe) || !errors.Is(err, errEmptyPage) {
		t.Errorf("expected empty page fetch error, got %v", err)
	}
}
