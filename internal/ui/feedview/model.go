package feedview

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/notifeed/internal/feed"
	"github.com/nhle/notifeed/internal/keys"
	"github.com/nhle/notifeed/internal/model"
	"github.com/nhle/notifeed/internal/source"
	"github.com/nhle/notifeed/internal/theme"
)

// EventMsg carries the outcome of a feed fetch back into the update loop.
type EventMsg struct {
	Event feed.Event
}

// SelectedMsg is sent when the user opens a notification.
type SelectedMsg struct {
	Notification model.Notification
}

// Run wraps a feed.Cmd into a tea.Cmd. A nil feed.Cmd yields nil.
func Run(cmd feed.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() tea.Msg {
		return EventMsg{Event: cmd()}
	}
}

// chromeHeight is the tab bar plus the footer line.
const chromeHeight = 2

// Model is the notification feed view: filter tabs over a sectioned list.
type Model struct {
	ctrl          *feed.Controller
	keys          *keys.KeyMap
	list          list.Model
	spinner       spinner.Model
	defaultFilter model.Filter
	threshold     int
	width         int
	height        int
}

// New creates a feed view driving ctrl. threshold is how many rows from
// the end the cursor may get before the next page is requested.
func New(ctrl *feed.Controller, k *keys.KeyMap, defaultFilter model.Filter, threshold, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-chromeHeight)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	if threshold < 0 {
		threshold = 0
	}

	return Model{
		ctrl:          ctrl,
		keys:          k,
		list:          l,
		spinner:       sp,
		defaultFilter: defaultFilter,
		threshold:     threshold,
		width:         width,
		height:        height,
	}
}

// Init starts the spinner and requests the default filter.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		Run(m.ctrl.RequestFeed(m.defaultFilter)),
	)
}

// Update handles messages for the feed view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		m.ctrl.Apply(msg.Event)
		sync := m.syncItems()
		switch msg.Event.(type) {
		case feed.RequestFeedSucceeded, feed.RequestMoreSucceeded:
			// New rows may leave the cursor near the end without a key press.
			return m, tea.Batch(sync, m.endReached())
		}
		return m, sync

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.FilterUnread):
		return m.SetFilter(model.FilterUnread)

	case key.Matches(msg, m.keys.FilterParticipating):
		return m.SetFilter(model.FilterParticipating)

	case key.Matches(msg, m.keys.FilterAll):
		return m.SetFilter(model.FilterAll)

	case key.Matches(msg, m.keys.CycleFilter):
		return m.SetFilter(m.ctrl.State().Filter.Next())

	case key.Matches(msg, m.keys.Refresh):
		return m.Refresh()

	case key.Matches(msg, m.keys.More):
		return m.RetryMore()

	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(NotificationItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedMsg{Notification: item.Notification}
		}
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, tea.Batch(cmd, m.endReached())
}

// SetFilter switches to filter and reloads it from page 1, even when it
// is already the active filter.
func (m Model) SetFilter(filter model.Filter) (Model, tea.Cmd) {
	cmd := Run(m.ctrl.RequestFeed(filter))
	m.list.ResetSelected()
	return m, tea.Batch(cmd, m.syncItems())
}

// Refresh reloads the current filter from page 1.
func (m Model) Refresh() (Model, tea.Cmd) {
	cmd := Run(m.ctrl.Refresh())
	return m, tea.Batch(cmd, m.syncItems())
}

// LoadMore requests the next page if one may be requested now.
func (m Model) LoadMore() (Model, tea.Cmd) {
	return m, Run(m.ctrl.RequestMore())
}

// RetryMore re-issues a failed load-more.
func (m Model) RetryMore() (Model, tea.Cmd) {
	return m, Run(m.ctrl.RetryMore())
}

// endReached requests the next page once the cursor is within threshold
// rows of the end of the list.
func (m Model) endReached() tea.Cmd {
	n := len(m.list.Items())
	if n == 0 {
		return nil
	}
	if n-1-m.list.Index() > m.threshold {
		return nil
	}
	return Run(m.ctrl.RequestMore())
}

// syncItems rebuilds the list rows from the controller state, keeping the
// cursor on the same notification when it is still present.
func (m *Model) syncItems() tea.Cmd {
	selectedID := ""
	if it, ok := m.list.SelectedItem().(NotificationItem); ok {
		selectedID = it.Notification.ID
	}

	items := Items(m.ctrl.State().Groups)
	cmd := m.list.SetItems(items)

	if selectedID != "" {
		for i, it := range items {
			if ni, ok := it.(NotificationItem); ok && ni.Notification.ID == selectedID {
				m.list.Select(i)
				break
			}
		}
	}
	return cmd
}

// View renders the feed view.
func (m Model) View() string {
	s := m.ctrl.State()
	tabs := m.renderTabs(s.Filter)

	var body string
	switch {
	case s.IsInitialLoading || !s.Loaded():
		body = m.centered(m.spinner.View() + " Loading " + s.Filter.String() + " notifications...")

	case feed.IsInitialLoadError(s.Err):
		body = m.centered(
			theme.ErrorStyle.Render("Couldn't load notifications.") + "\n" +
				describeError(s.Err) + "\n\n" +
				theme.HelpStyle.Render("Press r to retry."),
		)

	case s.IsEmpty():
		body = m.centered("No notifications.\n\n" + theme.HelpStyle.Render("You're all caught up."))

	default:
		body = lipgloss.JoinVertical(lipgloss.Left, m.list.View(), m.renderFooter(s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabs, body)
}

func (m Model) renderTabs(active model.Filter) string {
	tabs := make([]string, 0, len(model.Filters()))
	for i, f := range model.Filters() {
		label := fmt.Sprintf("%d %s", i+1, f.Title())
		if f == active {
			tabs = append(tabs, theme.ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, theme.TabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderFooter(s feed.State) string {
	switch {
	case s.IsLoadingMore:
		return m.spinner.View() + " Loading more..."
	case feed.IsMoreLoadError(s.Err):
		return theme.ErrorStyle.Render("Couldn't load more: "+describeError(s.Err)) +
			theme.HelpStyle.Render("  (m to retry)")
	case !s.HasMore:
		return theme.HelpStyle.Render(fmt.Sprintf("%d notifications, end of list", s.Len()))
	default:
		return theme.HelpStyle.Render(fmt.Sprintf("%d notifications", s.Len()))
	}
}

func (m Model) centered(s string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height-1).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray).
		Render(s)
}

// describeError returns a short user-facing description of a fetch error.
func describeError(err error) string {
	var le *feed.LoadError
	if errors.As(err, &le) {
		err = le.Err
	}

	var fe *source.FetchError
	switch {
	case source.IsAuthError(err):
		return "authentication failed; check your GitHub token"
	case errors.As(err, &fe) && fe.Status != 0:
		return fmt.Sprintf("GitHub returned %d", fe.Status)
	case err != nil:
		return strings.TrimSpace(err.Error())
	default:
		return ""
	}
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-chromeHeight)
}

// State returns the feed state being rendered.
func (m Model) State() feed.State {
	return m.ctrl.State()
}
