package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nhle/notifeed/internal/logging"
	"github.com/nhle/notifeed/internal/model"
	"github.com/nhle/notifeed/internal/source"
)

// DefaultFetchTimeout bounds a single page fetch.
const DefaultFetchTimeout = 30 * time.Second

// Fetcher loads one page of notifications for a filter.
type Fetcher interface {
	FetchPage(ctx context.Context, filter model.Filter, page int) (*source.Page, error)
}

// Cmd performs a fetch and returns the event describing its outcome. It
// is safe to run on any goroutine; it does not touch the controller.
type Cmd func() Event

// Controller owns a feed State and turns presentation triggers into
// request events plus the fetch commands that answer them.
//
// A Controller is not safe for concurrent use. The owner (a Bubble Tea
// model, or a plain loop) calls RequestFeed/RequestMore/Apply from one
// goroutine and may run the returned Cmds anywhere.
type Controller struct {
	state     State
	fetcher   Fetcher
	timeout   time.Duration
	lastToken uint64
}

// Option configures a Controller.
type Option func(*Controller)

// WithFetchTimeout sets the per-fetch timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewController creates a controller for a feed with the given page size.
func NewController(f Fetcher, pageLimit int, opts ...Option) *Controller {
	c := &Controller{
		state:   NewState(pageLimit),
		fetcher: f,
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a snapshot of the current state. Callers must treat
// the Groups it references as read-only.
func (c *Controller) State() State { return c.state }

// Apply feeds an event through Transition, which alone decides whether a
// response is stale. The IsStale check here only logs the drop.
func (c *Controller) Apply(ev Event) {
	if IsStale(c.state, ev) {
		logging.Debug("dropping stale feed response", "event", fmt.Sprintf("%T", ev))
	}
	prev := c.state
	c.state = Transition(c.state, ev)
	if c.state.Err == prev.Err {
		return
	}

	if le, ok := c.state.Err.(*LoadError); ok {
		switch ev.(type) {
		case RequestFeedFailed, RequestMoreFailed:
			logging.Warn("notification fetch failed",
				"phase", le.Phase, "filter", le.Filter, "page", le.Page, "err", le.Err)
		}
	}
}

// RequestFeed switches to filter (or reloads it) and returns the fetch of
// page 1.
func (c *Controller) RequestFeed(filter model.Filter) Cmd {
	token := c.nextToken()
	c.Apply(RequestFeed{Filter: filter, Token: token})
	logging.Debug("requesting feed", "filter", filter, "token", token)

	return c.fetch(filter, 1, token, PhaseInitial)
}

// Refresh reloads the current filter from page 1. It doubles as the retry
// after an initial-load error.
func (c *Controller) Refresh() Cmd {
	return c.RequestFeed(c.state.Filter)
}

// CanRequestMore reports whether a load-more may be issued now.
func (c *Controller) CanRequestMore() bool {
	s := c.state
	return s.Loaded() && !s.IsLoading() && s.HasMore
}

// RequestMore asks for page State.Page+1. It returns nil, and changes
// nothing, when CanRequestMore is false.
func (c *Controller) RequestMore() Cmd {
	if !c.CanRequestMore() {
		return nil
	}
	return c.requestMore()
}

// RetryMore re-issues the load-more that last failed. It returns nil
// unless the current error is a load-more error and nothing is loading.
func (c *Controller) RetryMore() Cmd {
	s := c.state
	if !IsMoreLoadError(s.Err) || s.IsLoading() || !s.Loaded() {
		return nil
	}
	return c.requestMore()
}

func (c *Controller) requestMore() Cmd {
	filter := c.state.Filter
	page := c.state.Page + 1
	token := c.nextToken()
	c.Apply(RequestMore{Filter: filter, Page: page, Token: token})
	logging.Debug("requesting more", "filter", filter, "page", page, "token", token)

	return c.fetch(filter, page, token, PhaseMore)
}

func (c *Controller) nextToken() uint64 {
	c.lastToken++
	return c.lastToken
}

// fetch builds the Cmd for one page. Everything it needs is captured by
// value so it can run after the controller has moved on.
func (c *Controller) fetch(filter model.Filter, page int, token uint64, phase LoadPhase) Cmd {
	f := c.fetcher
	timeout := c.timeout

	return func() Event {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		result, err := f.FetchPage(ctx, filter, page)
		if err == nil && result == nil {
			err = &source.FetchError{Op: "fetch page", Err: errEmptyPage}
		}

		if phase == PhaseInitial {
			if err != nil {
				return RequestFeedFailed{Filter: filter, Err: err, Token: token}
			}
			return RequestFeedSucceeded{Filter: filter, Records: result.Records, Page: page, Token: token}
		}

		if err != nil {
			return RequestMoreFailed{Filter: filter, Page: page, Err: err, Token: token}
		}
		return RequestMoreSucceeded{Filter: filter, Records: result.Records, Page: page, Token: token}
	}
}

var errEmptyPage = errors.New("fetcher returned no page")
