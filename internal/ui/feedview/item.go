package feedview

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/notifeed/internal/feed"
	"github.com/nhle/notifeed/internal/model"
	"github.com/nhle/notifeed/internal/theme"
)

// SectionItem is the header row of a repository group.
type SectionItem struct {
	Key   string
	Count int
}

// FilterValue returns the string used for fuzzy filtering.
func (s SectionItem) FilterValue() string { return s.Key }

// NotificationItem wraps a model.Notification so it can be used in a bubbles/list.
type NotificationItem struct {
	Notification model.Notification
}

// FilterValue returns the string used for fuzzy filtering.
func (i NotificationItem) FilterValue() string { return i.Notification.Subject.Title }

// Title returns the subject title for the list.
func (i NotificationItem) Title() string { return i.Notification.Subject.Title }

// Items flattens groups into list rows: one SectionItem per group followed
// by its notifications.
func Items(groups []feed.Group) []list.Item {
	n := len(groups)
	for _, g := range groups {
		n += len(g.Items)
	}

	items := make([]list.Item, 0, n)
	for _, g := range groups {
		items = append(items, SectionItem{Key: g.Key, Count: len(g.Items)})
		for _, notif := range g.Items {
			items = append(items, NotificationItem{Notification: notif})
		}
	}
	return items
}

// ItemDelegate implements list.ItemDelegate for rendering feed rows.
type ItemDelegate struct {
	now func() time.Time
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single list row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	isSelected := index == m.Index()

	switch it := item.(type) {
	case SectionItem:
		d.renderSection(w, it, isSelected)
	case NotificationItem:
		d.renderNotification(w, it.Notification, isSelected)
	}
}

func (d ItemDelegate) renderSection(w io.Writer, s SectionItem, isSelected bool) {
	count := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(fmt.Sprintf(" (%d)", s.Count))
	line := theme.SectionHeaderStyle.Render(s.Key) + count

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	}
	fmt.Fprint(w, line)
}

func (d ItemDelegate) renderNotification(w io.Writer, n model.Notification, isSelected bool) {
	marker := " "
	if n.Unread {
		marker = lipgloss.NewStyle().Foreground(theme.ColorBlue).Render("●")
	}

	typeBadge := theme.SubjectStyle(n.Subject.Type).Render(subjectLabel(n.Subject.Type))
	reason := theme.ReasonStyle(n.Reason).Render(n.Reason)

	title := n.Subject.Title
	if !n.Unread {
		title = theme.DimmedStyle.Render(title)
	}

	now := time.Now
	if d.now != nil {
		now = d.now
	}
	timeStr := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(relativeTime(n.UpdatedAt, now()))

	line := fmt.Sprintf("%s %s %s  %s  %s", marker, typeBadge, title, reason, timeStr)

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// subjectLabel returns a short fixed-width label for a subject type.
func subjectLabel(t string) string {
	switch t {
	case model.SubjectPullRequest:
		return "PR "
	case model.SubjectIssue:
		return "ISS"
	case model.SubjectRelease:
		return "REL"
	case model.SubjectDiscussion:
		return "DSC"
	case model.SubjectCommit:
		return "CMT"
	default:
		return "···"
	}
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return fmt.Sprintf("%dw ago", int(d.Hours()/24/7))
	}
}
