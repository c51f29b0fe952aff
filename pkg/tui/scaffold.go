package tui

import (
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mapworks-io/protool/pkg/scaffold"
)

// ScaffoldModel shows a spinner while a project is cloned and reports each
// completed step.
type ScaffoldModel struct {
	err     error
	name    string
	spinner spinner.Model
	width   int
	height  int
	mu      sync.RWMutex
	working bool
	done    bool
}

func NewScaffoldModel(name string) *ScaffoldModel {
	s := spinner.New()
	s.Style = spinnerStyle

	return &ScaffoldModel{
		name:    name,
		spinner: s,
		mu:      sync.RWMutex{},
	}
}

func (m *ScaffoldModel) Init() tea.Cmd {
	m.working = true

	return m.spinner.Tick
}

//nolint:ireturn // Third-party.
func (m *ScaffoldModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		if keyExits(msg) {
			return m, tea.Quit
		}

	case teaMsgWriteLog:
		return m, writeLog(msg, m.width)

	case scaffold.EventCopied:
		if msg.Err != nil {
			return m, tea.Printf("%s copy %s", errorMark, msg.Path)
		}

		return m, tea.Printf("%s Copied template to %s", checkMark, msg.Path)

	case scaffold.EventContainer:
		if msg.Err != nil {
			return m, tea.Printf("%s container %s", errorMark, msg.Path)
		}

		verb := "Attached"
		if msg.Created {
			verb = "Created"
		}

		return m, tea.Printf("%s %s container %s", checkMark, verb, msg.Path)

	case scaffold.EventDone:
		m.working = false

		// Allow previously sent messages to be drawn.
		preQuitCmd := tea.Tick(time.Millisecond*100, func(_ time.Time) tea.Msg {
			m.mu.Lock()
			defer m.mu.Unlock()

			m.err = msg.Err
			m.done = true

			return nil
		})

		return m, tea.Sequence(preQuitCmd, teaQuit())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m *ScaffoldModel) View() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return getErrorMessage(m.err, m.width)
	}

	if m.done {
		return doneStyle.Render("Created " + m.name + ".\n")
	}

	if m.working {
		spin := m.spinner.View() + " "
		cellsAvail := max(0, m.width-lipgloss.Width(spin))

		info := lipgloss.NewStyle().
			MaxWidth(cellsAvail).
			Render("Creating " + currentNameStyle.Render(m.name))

		cellsRemaining := max(0, m.width-lipgloss.Width(spin+info))
		gap := strings.Repeat(" ", cellsRemaining) + "\n"

		return spin + info + gap
	}

	return ""
}
