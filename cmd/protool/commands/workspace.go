package commands

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/mapworks-io/protool/pkg/config"
	"github.com/mapworks-io/protool/pkg/paths"
)

var (
	ErrWorkspace       = errors.New("workspace error")
	ErrNoProject       = errors.New("no project found")
	ErrNoLaunchCommand = errors.New("no launch command configured")
)

// workspace bundles the resolved workspace root with its preferences.
type workspace struct {
	cfg  config.Config
	root string
}

// openWorkspace resolves the workspace root, from the flag when set and
// otherwise by walking up from the working directory, then loads the
// workspace preferences.
func openWorkspace(rootFlag string) (*workspace, error) {
	root := rootFlag
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrWorkspace, err)
		}

		root, err = paths.FindWorkspaceRoot(wd)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrWorkspace, err)
		}
	}

	cfg, err := config.LoadWorkspace(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWorkspace, err)
	}

	return &workspace{cfg: cfg, root: root}, nil
}

func (w *workspace) projectsRoot() string {
	if w.cfg.ProjectsRoot != "" {
		return w.cfg.ProjectsRoot
	}

	return paths.ProjectsRoot(w.root)
}

// resolveProjectFile returns the project file to operate on. An explicit
// path wins; otherwise the working directory must contain exactly one
// project file.
func resolveProjectFile(pathFlag string) (string, error) {
	if pathFlag != "" {
		return pathFlag, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoProject, err)
	}

	matches, err := filepath.Glob(filepath.Join(wd, "*"+paths.ProjectExt))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoProject, err)
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: no %s file in %s", ErrNoProject, paths.ProjectExt, wd)
	case 1:
		return matches[0], nil
	}

	return "", fmt.Errorf("%w: multiple %s files in %s, pass one explicitly",
		ErrNoProject, paths.ProjectExt, wd)
}

// launchProject starts the configured desktop application with the project
// file as the final argument. The process is left running detached.
func launchProject(cfg config.Config, projectFile string) error {
	if len(cfg.LaunchCommand) == 0 {
		return ErrNoLaunchCommand
	}

	args := make([]string, 0, len(cfg.LaunchCommand))
	args = append(args, cfg.LaunchCommand[1:]...)
	args = append(args, projectFile)

	cmd := exec.Command(cfg.LaunchCommand[0], args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launch %q: %w", cfg.LaunchCommand[0], err)
	}

	return nil
}
