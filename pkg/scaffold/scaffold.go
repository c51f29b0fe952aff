package scaffold

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/mapworks-io/protool/pkg/host"
)

// Scaffolder produces new projects from a template through a host handle.
// A scaffold request is consumed once; the returned project is owned by the
// caller for all subsequent edits.
type Scaffolder struct {
	host          host.Host
	containerPath string
	extraFolders  []string
	subs          []func(any)
}

func NewScaffolder(h host.Host, opts ...Option) *Scaffolder {
	s := &Scaffolder{
		host: h,
		subs: []func(any){},
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

type Option func(*Scaffolder)

// WithContainerPath sets the path of the storage container to create (or
// reuse) and assign as the project default.
func WithContainerPath(path string) Option {
	return func(s *Scaffolder) {
		s.containerPath = path
	}
}

// WithExtraFolders adds folder connections besides the home folder, in the
// given order.
func WithExtraFolders(folders ...string) Option {
	return func(s *Scaffolder) {
		s.extraFolders = append(s.extraFolders, folders...)
	}
}

// Subscribe registers f to receive scaffold progress events.
func (s *Scaffolder) Subscribe(f func(any)) {
	s.subs = append(s.subs, f)
}

func (s *Scaffolder) broadcastEvent(evt any) {
	for _, sub := range s.subs {
		sub(evt)
	}
}

// Scaffold copies the template at templatePath to targetPath, opens the
// copy, sets up its container, home folder, and connections, and persists
// it. Any step error aborts the remaining steps; the copy and folders
// already on disk are not rolled back.
func (s *Scaffolder) Scaffold(templatePath, targetPath string) (host.Project, error) {
	proj, err := s.scaffold(templatePath, targetPath)
	s.broadcastEvent(EventDone{Err: err})

	return proj, err
}

func (s *Scaffolder) scaffold(templatePath, targetPath string) (host.Project, error) {
	logger := slog.With(
		slog.String("template", templatePath),
		slog.String("target", targetPath),
	)

	exists, err := s.host.Exists(targetPath)
	if err != nil {
		return nil, fmt.Errorf("check destination: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrDestinationExists, targetPath)
	}

	logger.Debug("copying template")

	err = s.host.CopyProject(templatePath, targetPath)
	s.broadcastEvent(EventCopied{Path: targetPath, Err: err})
	if err != nil {
		return nil, fmt.Errorf("copy template: %w", err)
	}

	proj, err := s.host.OpenProject(targetPath)
	if err != nil {
		return nil, fmt.Errorf("open copy: %w", err)
	}

	if s.containerPath != "" {
		err := s.ensureContainer(proj)
		if err != nil {
			return nil, err
		}
	}

	projectFolder := filepath.Dir(targetPath)
	proj.SetHomeFolder(projectFolder)

	cs := ReconcileConnections(projectFolder, s.extraFolders)
	proj.SetConnections(cs.Connections())

	logger.Debug("persisting project")

	err = proj.Save()
	if err != nil {
		return nil, fmt.Errorf("persist project: %w", err)
	}

	return proj, nil
}

// ensureContainer creates the container if nothing exists at its path yet,
// reuses it otherwise, and assigns it as the project default either way.
func (s *Scaffolder) ensureContainer(proj host.Project) error {
	exists, err := s.host.Exists(s.containerPath)
	if err != nil {
		s.broadcastEvent(EventContainer{Path: s.containerPath, Err: err})

		return fmt.Errorf("%w: check %q: %w", ErrContainerCreation, s.containerPath, err)
	}

	if !exists {
		dir := filepath.Dir(s.containerPath)
		name := filepath.Base(s.containerPath)

		_, err := s.host.CreateContainer(dir, name)
		if err != nil {
			s.broadcastEvent(EventContainer{Path: s.containerPath, Err: err})

			return fmt.Errorf("%w: %q: %w", ErrContainerCreation, s.containerPath, err)
		}
	}

	proj.SetDefaultContainer(s.containerPath)
	s.broadcastEvent(EventContainer{Path: s.containerPath, Created: !exists})

	return nil
}
