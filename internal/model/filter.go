package model

import "fmt"

// Filter is one of the three disjoint notification query scopes.
type Filter string

const (
	FilterUnread        Filter = "unread"
	FilterParticipating Filter = "participating"
	FilterAll           Filter = "all"
)

// Filters returns every filter in tab order.
func Filters() []Filter {
	return []Filter{FilterUnread, FilterParticipating, FilterAll}
}

// ParseFilter converts a string into a Filter.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(s); f {
	case FilterUnread, FilterParticipating, FilterAll:
		return f, nil
	default:
		return "", fmt.Errorf("unknown filter %q: expected unread, participating or all", s)
	}
}

// Title returns the label shown on the filter tab.
func (f Filter) Title() string {
	switch f {
	case FilterUnread:
		return "Unread"
	case FilterParticipating:
		return "Participating"
	case FilterAll:
		return "All"
	default:
		return string(f)
	}
}

func (f Filter) String() string { return string(f) }

// Next returns the filter after f in tab order, wrapping around.
func (f Filter) Next() Filter {
	all := Filters()
	for i, candidate := range all {
		if candidate == f {
			return all[(i+1)%len(all)]
		}
	}
	return FilterUnread
}
