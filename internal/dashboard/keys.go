package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sysmon-tui/sysmon/internal/config"
)

// KeyMap defines the dashboard key bindings.
type KeyMap struct {
	Quit       key.Binding
	Clear      key.Binding
	Pause      key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Bottom     key.Binding
	Help       key.Binding
	Close      key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear console"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause console"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end", "follow output"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close help"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Clear, k.Pause, k.ScrollUp, k.ScrollDown, k.Help}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Quit, k.Clear, k.Pause, k.Help, k.Close},
		{k.ScrollUp, k.ScrollDown, k.PageUp, k.PageDown, k.Bottom},
	}
}

// HandleKeyMsg processes keyboard input and returns the command to run.
// Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	// Help toggle takes priority
	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return true, nil
	}

	if m.showHelp && key.Matches(msg, m.keys.Close) {
		m.showHelp = false
		return true, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return true, tea.Quit

	case key.Matches(msg, m.keys.Clear):
		return true, m.requestClear()

	case key.Matches(msg, m.keys.Pause):
		if m.buffer.TogglePause() {
			m.log.Debug("console paused")
		} else {
			m.log.Debug("console resumed")
		}
		m.keys.Pause.SetHelp("p", "pause console")
		if m.buffer.Paused() {
			m.keys.Pause.SetHelp("p", "resume console")
		}
		return true, nil

	case key.Matches(msg, m.keys.ScrollUp):
		m.panel.ScrollUp(1)
		return true, nil

	case key.Matches(msg, m.keys.ScrollDown):
		m.panel.ScrollDown(1)
		return true, nil

	case key.Matches(msg, m.keys.PageUp):
		m.panel.ScrollUp(m.panel.Height())
		return true, nil

	case key.Matches(msg, m.keys.PageDown):
		m.panel.ScrollDown(m.panel.Height())
		return true, nil

	case key.Matches(msg, m.keys.Bottom):
		m.panel.GotoBottom()
		return true, nil
	}

	return false, nil
}

// requestClear clears the console. In remote mode the buffer is emptied
// only once the backend acknowledges; a second request while one is in
// flight is ignored.
func (m *Model) requestClear() tea.Cmd {
	if m.eff.ClearMode == config.ClearLocal {
		m.clearConsole()
		return nil
	}
	if m.clearing {
		return nil
	}
	m.clearing = true
	return m.clearConsoleCmd()
}
