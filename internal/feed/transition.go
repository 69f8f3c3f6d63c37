package feed

import "fmt"

// Transition returns the state that follows s after ev. It is pure: s is
// not modified and Groups slices reachable from s stay valid.
//
// Transition does not enforce caller-side guards (no RequestMore while
// loading or without HasMore). It does drop responses that are stale:
// a response is applied only if its phase is in flight and its token is
// the one of the latest request issued for that phase.
func Transition(s State, ev Event) State {
	switch ev := ev.(type) {
	case RequestFeed:
		next := NewState(s.PageLimit)
		next.Filter = ev.Filter
		next.Groups = []Group{}
		next.IsInitialLoading = true
		next.feedToken = ev.Token
		return next

	case RequestFeedSucceeded:
		if IsStale(s, ev) {
			return s
		}
		s.IsInitialLoading = false
		s.Groups = GroupByRepository(ev.Records)
		s.HasMore = s.isFullPage(len(ev.Records))
		s.Filter = ev.Filter
		s.Page = 1
		s.Err = nil
		return s

	case RequestFeedFailed:
		if IsStale(s, ev) {
			return s
		}
		s.IsInitialLoading = false
		s.Err = &LoadError{Phase: PhaseInitial, Filter: ev.Filter, Page: 1, Err: ev.Err}
		return s

	case RequestMore:
		s.IsLoadingMore = true
		s.Filter = ev.Filter
		s.moreToken = ev.Token
		return s

	case RequestMoreSucceeded:
		if IsStale(s, ev) {
			return s
		}
		s.IsLoadingMore = false
		s.Groups = Merge(s.Groups, ev.Records)
		s.HasMore = s.isFullPage(len(ev.Records))
		s.Filter = ev.Filter
		s.Page = ev.Page
		s.Err = nil
		return s

	case RequestMoreFailed:
		if IsStale(s, ev) {
			return s
		}
		s.IsLoadingMore = false
		s.Err = &LoadError{Phase: PhaseMore, Filter: ev.Filter, Page: ev.Page, Err: ev.Err}
		return s

	default:
		panic(fmt.Sprintf("feed: unhandled event %T", ev))
	}
}

// IsStale reports whether a response event no longer matches the request
// in flight for its phase. Request events are never stale.
func IsStale(s State, ev Event) bool {
	switch ev := ev.(type) {
	case RequestFeedSucceeded:
		return !s.IsInitialLoading || ev.Token != s.feedToken
	case RequestFeedFailed:
		return !s.IsInitialLoading || ev.Token != s.feedToken
	case RequestMoreSucceeded:
		return !s.IsLoadingMore || ev.Token != s.moreToken
	case RequestMoreFailed:
		return !s.IsLoadingMore || ev.Token != s.moreToken
	default:
		return false
	}
}
