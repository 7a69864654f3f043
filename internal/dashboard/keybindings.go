package dashboard

import tea "github.com/charmbracelet/bubbletea"

// Key bindings
const (
	KeyQuit       = "q"
	KeyQuitAlt    = "ctrl+c"
	KeyClearFeed  = "c"
	KeyLogs       = "l"
	KeyReload     = "r"
	KeyClose      = "esc"
	KeyToggleHelp = "?"
)

// HandleKeyMsg processes keyboard input. It returns false for keys it does
// not use so they can reach the log viewport.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	if key == KeyQuitAlt {
		m.quitting = true
		return true, tea.Quit
	}

	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}

	if m.showHelp && key == KeyClose {
		m.showHelp = false
		return true, nil
	}

	if m.logOpen && key == KeyClose {
		m.logOpen = false
		return true, nil
	}

	switch key {
	case KeyQuit:
		m.quitting = true
		return true, tea.Quit

	case KeyClearFeed:
		m.feed.Clear()
		return true, nil

	case KeyLogs:
		return true, m.openLog()

	case KeyReload:
		if m.logOpen {
			return true, m.openLog()
		}
	}

	return false, nil
}
