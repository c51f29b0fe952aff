package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mapworks-io/protool/pkg/bundle"
	"github.com/mapworks-io/protool/pkg/export"
)

// LayersModel tracks per-layer progress for clip and export runs. Both
// workers emit the same shape of events, so one model serves both, with
// the verb controlling how active layers are described.
type LayersModel struct {
	err             error
	verb            string
	startedLayers   []string
	completedLayers []string
	erroredLayers   []string
	spinner         spinner.Model
	progress        progress.Model
	totalLayers     int
	width           int
	height          int
	mu              sync.RWMutex
	done            bool
}

func NewClipModel() *LayersModel {
	return newLayersModel("Clipping")
}

func NewExportModel() *LayersModel {
	return newLayersModel("Exporting")
}

func newLayersModel(verb string) *LayersModel {
	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)

	s := spinner.New()
	s.Style = spinnerStyle

	return &LayersModel{
		verb:            verb,
		startedLayers:   []string{},
		completedLayers: []string{},
		erroredLayers:   []string{},
		spinner:         s,
		progress:        p,
		mu:              sync.RWMutex{},
	}
}

func (m *LayersModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.progress.SetPercent(0))
}

//nolint:ireturn // Third-party.
func (m *LayersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case tea.KeyMsg:
		if keyExits(msg) {
			return m, tea.Quit
		}

	case teaMsgWriteLog:
		return m, writeLog(msg, m.width)

	case bundle.EventSetLayerTotal:
		return m, m.setTotal(int(msg))

	case export.EventSetLayerTotal:
		return m, m.setTotal(int(msg))

	case bundle.EventClippingLayer:
		return m, m.startLayer(string(msg))

	case export.EventExportingLayer:
		return m, m.startLayer(string(msg))

	case bundle.EventClippedLayer:
		return m, m.finishLayer(msg.Layer, msg.Err)

	case export.EventExportedLayer:
		return m, m.finishLayer(msg.Layer, msg.Err)

	case bundle.EventDone:
		return m, m.finish(msg.Err)

	case export.EventDone:
		return m, m.finish(msg.Err)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case progress.FrameMsg:
		newModel, cmd := m.progress.Update(msg)
		if newModel, ok := newModel.(progress.Model); ok {
			m.progress = newModel
		}

		return m, cmd
	}

	return m, nil
}

func (m *LayersModel) setTotal(total int) tea.Cmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalLayers = total

	return nil
}

func (m *LayersModel) startLayer(layer string) tea.Cmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.startedLayers = append(m.startedLayers, layer)

	return nil
}

func (m *LayersModel) finishLayer(layer string, err error) tea.Cmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	icon := checkMark
	if err != nil {
		m.erroredLayers = append(m.erroredLayers, layer)
		icon = errorMark
	}

	m.completedLayers = append(m.completedLayers, layer)
	completedCount := len(m.completedLayers)
	progressCmd := m.progress.SetPercent(float64(completedCount) / float64(m.totalLayers))

	if m.totalLayers == completedCount {
		m.done = true

		return tea.Sequence(
			tea.Printf("%s %s", icon, layer),
			finalPause(),
			tea.Quit,
		)
	}

	return tea.Batch(
		progressCmd,
		tea.Printf("%s %s", icon, layer),
	)
}

func (m *LayersModel) finish(err error) tea.Cmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.err = err

		return tea.Sequence(finalPause(), tea.Quit)
	}

	if m.done {
		return nil
	}

	m.done = true

	return teaQuit()
}

func (m *LayersModel) View() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return getErrorMessage(m.err, m.width)
	}

	completedCount := len(m.completedLayers)

	if m.done {
		return doneStyle.Render(fmt.Sprintf("Done! Processed %d layers.\n", completedCount))
	}

	w := lipgloss.Width(strconv.Itoa(m.totalLayers))
	layerCount := fmt.Sprintf(" %*d/%*d", w, completedCount, w, m.totalLayers)

	prog := m.progress.View()
	progRendered := progressStyle.Render(prog + layerCount)
	progCellsRemaining := max(0, m.width-lipgloss.Width(progRendered))
	gap := strings.Repeat(" ", progCellsRemaining)
	progOut := progRendered + gap + "\n"

	inProgressLayers := differenceStringSlices(m.startedLayers, m.completedLayers)

	spinners := []string{}
	for _, layer := range inProgressLayers {
		spin := m.spinner.View() + " "
		cellsAvail := max(0, m.width-lipgloss.Width(spin))

		layerName := currentNameStyle.Render(layer)
		info := lipgloss.NewStyle().MaxWidth(cellsAvail).Render(m.verb + " " + layerName)

		cellsRemaining := max(0, m.width-lipgloss.Width(spin+info))
		gap := strings.Repeat(" ", cellsRemaining)

		spinners = append(spinners, spin+info+gap)
	}

	return strings.Join(spinners, "\n") + "\n" + progOut
}

func differenceStringSlices(a, b []string) []string {
	difference := []string{}

	for _, x := range a {
		if !slices.Contains(b, x) {
			difference = append(difference, x)
		}
	}

	return difference
}
