package feedview

import (
	"fmt"
	"strings"
	"time"

	"github.com/nhle/notifeed/internal/feed"
)

// Summary renders a feed state as plain text, one repository section per
// group. It is used by the non-interactive mode.
func Summary(s feed.State, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s notifications", s.Filter.Title())
	if s.Loaded() {
		fmt.Fprintf(&b, " (%d in %d repositories, %d page(s))", s.Len(), len(s.Groups), s.Page)
	}
	b.WriteString("\n")

	switch {
	case feed.IsInitialLoadError(s.Err):
		fmt.Fprintf(&b, "error: %s\n", describeError(s.Err))
		return b.String()
	case s.IsEmpty():
		b.WriteString("No notifications.\n")
		return b.String()
	}

	for _, g := range s.Groups {
		fmt.Fprintf(&b, "\n%s\n", g.Key)
		for _, n := range g.Items {
			marker := " "
			if n.Unread {
				marker = "*"
			}
			fmt.Fprintf(&b, "  %s %s %s [%s] %s\n",
				marker, subjectLabel(n.Subject.Type), n.Subject.Title, n.Reason,
				relativeTime(n.UpdatedAt, now))
		}
	}

	if feed.IsMoreLoadError(s.Err) {
		fmt.Fprintf(&b, "\nerror loading more: %s\n", describeError(s.Err))
	} else if s.HasMore {
		b.WriteString("\nmore notifications available\n")
	}

	return b.String()
}
