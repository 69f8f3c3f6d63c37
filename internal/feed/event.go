package feed

import "github.com/nhle/notifeed/internal/model"

// Event is the closed set of inputs to Transition. Only the types in this
// file implement it.
type Event interface {
	isEvent()
}

// RequestFeed starts a fresh load of page 1 for Filter (mount, tab press,
// pull-to-refresh, retry after an initial-load error).
type RequestFeed struct {
	Filter model.Filter
	Token  uint64
}

// RequestFeedSucceeded carries page 1 of a fresh query.
type RequestFeedSucceeded struct {
	Filter  model.Filter
	Records []model.Notification
	Page    int
	Token   uint64
}

// RequestFeedFailed reports that the page-1 fetch failed.
type RequestFeedFailed struct {
	Filter model.Filter
	Err    error
	Token  uint64
}

// RequestMore starts a page-append fetch of Page. Callers must only issue
// it when nothing is loading and HasMore is true.
type RequestMore struct {
	Filter model.Filter
	Page   int
	Token  uint64
}

// RequestMoreSucceeded carries an appended page.
type RequestMoreSucceeded struct {
	Filter  model.Filter
	Records []model.Notification
	Page    int
	Token   uint64
}

// RequestMoreFailed reports that a page-append fetch failed.
type RequestMoreFailed struct {
	Filter model.Filter
	Page   int
	Err    error
	Token  uint64
}

func (RequestFeed) isEvent()          {}
func (RequestFeedSucceeded) isEvent() {}
func (RequestFeedFailed) isEvent()    {}
func (RequestMore) isEvent()          {}
func (RequestMoreSucceeded) isEvent() {}
func (RequestMoreFailed) isEvent()    {}
