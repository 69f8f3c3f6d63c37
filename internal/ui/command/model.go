package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/notifeed/internal/theme"
)

// Names of the palette commands.
const (
	Unread        = "unread"
	Participating = "participating"
	All           = "all"
	Refresh       = "refresh"
	More          = "more"
	Quit          = "quit"
)

// aliases maps accepted spellings to command names.
var aliases = map[string]string{
	"u":           Unread,
	Unread:        Unread,
	"p":           Participating,
	Participating: Participating,
	"a":           All,
	All:           All,
	"r":           Refresh,
	Refresh:       Refresh,
	"reload":      Refresh,
	"m":           More,
	More:          More,
	"next":        More,
	"q":           Quit,
	Quit:          Quit,
	"exit":        Quit,
}

// Commands returns the canonical command names.
func Commands() []string {
	return []string{Unread, Participating, All, Refresh, More, Quit}
}

// Parse normalises user input to a command name. ok is false for
// unknown commands.
func Parse(input string) (name string, ok bool) {
	name, ok = aliases[strings.ToLower(strings.TrimSpace(input))]
	return name, ok
}

// CommandMsg is emitted when the user executes a command. It holds the
// canonical name, or the raw input when the command is unknown.
type CommandMsg string

// CancelMsg is emitted when the palette is dismissed.
type CancelMsg struct{}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = strings.Join(Commands(), ", ")
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	ti.SetSuggestions(Commands())
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			raw := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if raw == "" {
				return m, nil
			}
			name, ok := Parse(raw)
			if !ok {
				name = raw
			}
			return m, func() tea.Msg {
				return CommandMsg(name)
			}

		case "esc":
			m.input.Reset()
			return m, func() tea.Msg {
				return CancelMsg{}
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render("Command Palette")
	input := m.input.View()

	content := lipgloss.JoinVertical(lipgloss.Left, title, input)

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}
