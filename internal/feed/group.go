package feed

import "github.com/nhle/notifeed/internal/model"

// Group holds every loaded notification of one repository, in arrival order.
type Group struct {
	// Key is the repository full name ("owner/name").
	Key   string
	Items []model.Notification
}

// GroupByRepository converts a flat, server-ordered sequence of
// notifications into repository groups. Groups appear in the order their
// key is first seen and items keep their arrival order. It never returns
// nil, so an empty result still reads as "loaded".
func GroupByRepository(records []model.Notification) []Group {
	return Merge([]Group{}, records)
}

// Merge appends records to existing groups: a record whose repository
// already has a group joins the end of it, otherwise a new group is added
// after all existing ones. The result equals
// GroupByRepository(append(Flatten(existing), records...)).
//
// Neither existing nor its item slices are modified; a group that
// receives records gets a fresh item slice.
func Merge(existing []Group, records []model.Notification) []Group {
	out := make([]Group, len(existing), len(existing)+len(records))
	copy(out, existing)

	index := make(map[string]int, len(out))
	for i, g := range out {
		index[g.Key] = i
	}

	touched := make(map[int]bool)
	for _, rec := range records {
		key := rec.RepositoryKey()

		i, ok := index[key]
		if !ok {
			index[key] = len(out)
			touched[len(out)] = true
			out = append(out, Group{Key: key, Items: []model.Notification{rec}})
			continue
		}

		if !touched[i] {
			items := make([]model.Notification, len(out[i].Items), len(out[i].Items)+1)
			copy(items, out[i].Items)
			out[i].Items = items
			touched[i] = true
		}
		out[i].Items = append(out[i].Items, rec)
	}

	return out
}

// Flatten returns the notifications of groups in group order.
func Flatten(groups []Group) []model.Notification {
	n := 0
	for _, g := range groups {
		n += len(g.Items)
	}

	out := make([]model.Notification, 0, n)
	for _, g := range groups {
		out = append(out, g.Items...)
	}
	return out
}
