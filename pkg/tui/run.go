package tui

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mapworks-io/protool/pkg/host"
	"github.com/mapworks-io/protool/pkg/log"
	"github.com/mapworks-io/protool/pkg/paths"
)

// Scaffolder is the scaffold surface the TUI wraps.
type Scaffolder interface {
	Scaffold(templatePath, targetPath string) (host.Project, error)
	Subscribe(f func(any))
}

// Bundler is the clip surface the TUI wraps.
type Bundler interface {
	ClipMap(proj host.Project, containerPath, maskDataset string) error
	Subscribe(f func(any))
}

// Exporter is the export surface the TUI wraps.
type Exporter interface {
	ExportMap(m host.Map, outputPath string) error
	Subscribe(f func(any))
}

// runner owns the tea program shared by the operation wrappers and routes
// worker events and log output into it.
type runner struct {
	p *tea.Program
	w io.Writer
}

func newRunner(w io.Writer, logLevel string, subscribe func(func(any))) (*runner, error) {
	r := &runner{w: w}

	subscribe(r.broadcastEvent)

	handler, err := log.CreateHandler(r, logLevel, log.FormatText)
	if err != nil {
		return nil, fmt.Errorf("failed to create log handler: %w", err)
	}

	slog.SetDefault(slog.New(handler))

	return r, nil
}

func (r *runner) broadcastEvent(evt any) {
	if r.p != nil {
		r.p.Send(evt)
	}
}

func (r *runner) Write(p []byte) (int, error) {
	r.broadcastEvent(teaMsgWriteLog(string(p)))

	return len(p), nil
}

func (r *runner) run(m tea.Model, work func()) error {
	r.p = tea.NewProgram(m, tea.WithOutput(r.w))

	go work()

	if _, err := r.p.Run(); err != nil {
		return fmt.Errorf("failed to launch tui: %w", err)
	}

	return nil
}

// ScaffoldTUI runs project creation behind a ScaffoldModel.
type ScaffoldTUI struct {
	scaffolder Scaffolder
	runner     *runner
}

func NewScaffoldTUI(w io.Writer, logLevel string, s Scaffolder) (*ScaffoldTUI, error) {
	r, err := newRunner(w, logLevel, s.Subscribe)
	if err != nil {
		return nil, err
	}

	return &ScaffoldTUI{scaffolder: s, runner: r}, nil
}

func (t *ScaffoldTUI) Subscribe(f func(any)) {
	t.scaffolder.Subscribe(f)
}

func (t *ScaffoldTUI) Scaffold(templatePath, targetPath string) (host.Project, error) {
	name := strings.TrimSuffix(filepath.Base(targetPath), paths.ProjectExt)

	var (
		proj    host.Project
		workErr error
	)

	err := t.runner.run(NewScaffoldModel(name), func() {
		proj, workErr = t.scaffolder.Scaffold(templatePath, targetPath)
	})
	if err != nil {
		return nil, err
	}

	return proj, workErr
}

// BundleTUI runs map clipping behind a LayersModel.
type BundleTUI struct {
	bundler Bundler
	runner  *runner
}

func NewBundleTUI(w io.Writer, logLevel string, b Bundler) (*BundleTUI, error) {
	r, err := newRunner(w, logLevel, b.Subscribe)
	if err != nil {
		return nil, err
	}

	return &BundleTUI{bundler: b, runner: r}, nil
}

func (t *BundleTUI) Subscribe(f func(any)) {
	t.bundler.Subscribe(f)
}

func (t *BundleTUI) ClipMap(proj host.Project, containerPath, maskDataset string) error {
	var workErr error

	err := t.runner.run(NewClipModel(), func() {
		workErr = t.bundler.ClipMap(proj, containerPath, maskDataset)
	})
	if err != nil {
		return err
	}

	return workErr
}

// ExportTUI runs spreadsheet export behind a LayersModel.
type ExportTUI struct {
	exporter Exporter
	runner   *runner
}

func NewExportTUI(w io.Writer, logLevel string, e Exporter) (*ExportTUI, error) {
	r, err := newRunner(w, logLevel, e.Subscribe)
	if err != nil {
		return nil, err
	}

	return &ExportTUI{exporter: e, runner: r}, nil
}

func (t *ExportTUI) Subscribe(f func(any)) {
	t.exporter.Subscribe(f)
}

func (t *ExportTUI) ExportMap(m host.Map, outputPath string) error {
	var workErr error

	err := t.runner.run(NewExportModel(), func() {
		workErr = t.exporter.ExportMap(m, outputPath)
	})
	if err != nil {
		return err
	}

	return workErr
}
