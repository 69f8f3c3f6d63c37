package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/notifeed/internal/feed"
	"github.com/nhle/notifeed/internal/keys"
	"github.com/nhle/notifeed/internal/logging"
	"github.com/nhle/notifeed/internal/model"
	appsync "github.com/nhle/notifeed/internal/sync"
	"github.com/nhle/notifeed/internal/ui"
	"github.com/nhle/notifeed/internal/ui/command"
	"github.com/nhle/notifeed/internal/ui/detail"
	"github.com/nhle/notifeed/internal/ui/feedview"
	helpview "github.com/nhle/notifeed/internal/ui/help"
)

// loginMsg carries the result of the connection check.
type loginMsg struct {
	login string
	err   error
}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewFeed ViewState = iota
	ViewDetail
	ViewHelp
	ViewCommand
)

// Connector verifies the connection and returns the account login.
type Connector interface {
	ValidateConnection(ctx context.Context) (string, error)
}

// Options configures the root model.
type Options struct {
	DefaultFilter model.Filter
	MoreThreshold int

	// Login skips the connection check when already known.
	Login string
}

// Model is the root Bubble Tea model that manages view routing and layout.
type Model struct {
	currentView      ViewState
	previousView     ViewState
	layout           ui.Layout
	keys             *keys.KeyMap
	feedView         feedview.Model
	detail           detail.Model
	helpView         helpview.Model
	commandView      command.Model
	recorder         *appsync.Recorder
	connector        Connector
	login            string
	ready            bool
	statusMessage    string
	authErrorMessage string
}

// New creates the root application model.
func New(ctrl *feed.Controller, rec *appsync.Recorder, conn Connector, opts Options) Model {
	km := keys.DefaultKeyMap()

	return Model{
		currentView: ViewFeed,
		keys:        km,
		feedView:    feedview.New(ctrl, km, opts.DefaultFilter, opts.MoreThreshold, 80, 24),
		detail:      detail.New(km, 80, 24),
		helpView:    helpview.New(km, 80, 24),
		commandView: command.New(80, 24),
		recorder:    rec,
		connector:   conn,
		login:       opts.Login,
	}
}

// Init requests the default filter, checks the connection and starts
// listening for fetch results.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.feedView.Init()}
	if m.recorder != nil {
		cmds = append(cmds, m.recorder.WaitForResult())
	}
	if m.login == "" && m.connector != nil {
		cmds = append(cmds, m.checkConnection())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.feedView.SetSize(contentWidth, contentHeight)
		m.detail.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		return m, nil

	case loginMsg:
		if msg.err != nil {
			logging.Warn("connection check failed", "err", msg.err)
			return m, nil
		}
		m.login = msg.login
		return m, nil

	case appsync.FetchResultMsg:
		if msg.AuthError != nil {
			m.authErrorMessage = msg.AuthError.Message
		} else if msg.Error == nil {
			m.authErrorMessage = ""
		}
		if m.recorder == nil {
			return m, nil
		}
		return m, m.recorder.WaitForResult()

	case feedview.EventMsg:
		// Fetch results belong to the feed whichever view is showing.
		var cmd tea.Cmd
		m.feedView, cmd = m.feedView.Update(msg)
		return m, cmd

	case feedview.SelectedMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		m.detail.SetNotification(msg.Notification)
		return m, nil

	case detail.BackMsg:
		m.currentView = ViewFeed
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(string(msg))

	case command.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.currentView == ViewCommand {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.currentView == ViewFeed {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.Help):
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case key.Matches(msg, m.keys.Command):
			m.previousView = m.currentView
			m.currentView = ViewCommand
			return m, m.commandView.Focus()

		case key.Matches(msg, m.keys.Back):
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
		}
	}

	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewFeed:
		m.feedView, cmd = m.feedView.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	// Spinner ticks stop if they are not forwarded while another view shows.
	if _, ok := msg.(tea.KeyMsg); !ok && m.currentView != ViewFeed {
		var feedCmd tea.Cmd
		m.feedView, feedCmd = m.feedView.Update(msg)
		cmd = tea.Batch(cmd, feedCmd)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(m.headerTitle(), m.login, m.syncStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

func (m Model) headerTitle() string {
	s := m.feedView.State()
	if !s.Loaded() || s.IsInitialLoading {
		return "notifeed"
	}
	return fmt.Sprintf("notifeed · %s (%d)", s.Filter.Title(), s.Len())
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewFeed:
		return m.feedView.View()
	case ViewDetail:
		return m.detail.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// syncStatus returns a short string describing the fetch state.
func (m Model) syncStatus() string {
	if m.recorder == nil {
		return appsync.SyncIdle.String()
	}
	return m.recorder.Status().State.String()
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.authErrorMessage != "" && m.currentView == ViewFeed {
		return m.authErrorMessage
	}
	if m.statusMessage != "" && m.currentView == ViewFeed {
		return m.statusMessage
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | tab complete | esc back"
	case ViewDetail:
		return "esc back | j/k scroll"
	default:
		return "q quit | ? help | 1/2/3 filter | tab next | r refresh | : command"
	}
}

// executeCommand handles a command name from the command palette.
func (m *Model) executeCommand(name string) tea.Cmd {
	m.statusMessage = ""

	var cmd tea.Cmd
	switch name {
	case command.Unread:
		m.feedView, cmd = m.feedView.SetFilter(model.FilterUnread)
	case command.Participating:
		m.feedView, cmd = m.feedView.SetFilter(model.FilterParticipating)
	case command.All:
		m.feedView, cmd = m.feedView.SetFilter(model.FilterAll)
	case command.Refresh:
		m.feedView, cmd = m.feedView.Refresh()
	case command.More:
		if feed.IsMoreLoadError(m.feedView.State().Err) {
			m.feedView, cmd = m.feedView.RetryMore()
		} else {
			m.feedView, cmd = m.feedView.LoadMore()
		}
		if cmd == nil {
			m.statusMessage = "nothing more to load"
		}
	case command.Quit:
		return tea.Quit
	default:
		m.statusMessage = fmt.Sprintf("unknown command %q", name)
	}
	return cmd
}

// checkConnection returns a command that resolves the account login.
func (m Model) checkConnection() tea.Cmd {
	conn := m.connector
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), validateTimeout)
		defer cancel()

		login, err := conn.ValidateConnection(ctx)
		return loginMsg{login: login, err: err}
	}
}
