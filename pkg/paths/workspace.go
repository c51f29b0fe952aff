package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// ProjectsDirName is the directory under the workspace root holding
	// one subdirectory per project.
	ProjectsDirName = "Projects"

	// ExportsDirName is the conventional export subfolder inside a project
	// directory.
	ExportsDirName = "_Exports"

	// ProjectExt is the extension of persisted project files.
	ProjectExt = ".mapx"

	// ContainerExt is the extension of storage containers.
	ContainerExt = ".gpkg"
)

var (
	// ErrWorkspaceNotFound indicates no ancestor directory containing a
	// Projects folder was found.
	ErrWorkspaceNotFound = errors.New("workspace root not found")

	// ErrProjectDirExists indicates the project directory already exists.
	ErrProjectDirExists = errors.New("project directory already exists")
)

// FindWorkspaceRoot walks from path upward toward the filesystem root and
// returns the first directory containing a Projects subdirectory.
func FindWorkspaceRoot(path string) (string, error) {
	pathAbs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("get absolute path: %w", err)
	}

	currentDir := pathAbs
	for {
		fi, err := os.Lstat(filepath.Join(currentDir, ProjectsDirName))
		if err == nil && fi.IsDir() {
			return currentDir, nil
		}

		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			break
		}

		currentDir = parent
	}

	return "", fmt.Errorf("%w: searched upward from %s", ErrWorkspaceNotFound, pathAbs)
}

// WorkspaceRootFromProject infers the workspace root from a project file
// path by walking up two directories, per the
// <root>/Projects/<name>/<name>.mapx convention. It does not check that the
// result exists.
func WorkspaceRootFromProject(projectFile string) string {
	return filepath.Dir(filepath.Dir(filepath.Dir(projectFile)))
}

// ProjectsRoot returns the Projects directory under the workspace root.
func ProjectsRoot(workspaceRoot string) string {
	return filepath.Join(workspaceRoot, ProjectsDirName)
}

// ProjectDir returns the directory for a named project.
func ProjectDir(projectsRoot, name string) string {
	return filepath.Join(projectsRoot, name)
}

// ProjectFile returns the project file path inside a project directory.
func ProjectFile(projectDir, name string) string {
	return filepath.Join(projectDir, name+ProjectExt)
}

// ContainerPath returns the sibling storage container path for a project.
func ContainerPath(projectDir, name string) string {
	return filepath.Join(projectDir, name+ContainerExt)
}

// ExportsDir returns the export subfolder inside a project directory.
func ExportsDir(projectDir string) string {
	return filepath.Join(projectDir, ExportsDirName)
}

// TemplateFile resolves a template project under the Projects root, where
// templates live in a folder matching their file stem.
func TemplateFile(projectsRoot, baseName string) string {
	return ProjectFile(ProjectDir(projectsRoot, baseName), baseName)
}

// CreateProjectDirs creates the project directory and its export subfolder.
// It fails with ErrProjectDirExists if the project directory is already
// present, mirroring the destination check in the scaffolder.
func CreateProjectDirs(projectsRoot, name string, extraDirs ...string) (string, error) {
	projectDir := ProjectDir(projectsRoot, name)

	_, err := os.Lstat(projectDir)
	if err == nil {
		return "", fmt.Errorf("%w: %s", ErrProjectDirExists, projectDir)
	}

	err = os.MkdirAll(projectDir, 0o750)
	if err != nil {
		return "", fmt.Errorf("create project directory: %w", err)
	}

	dirs := append([]string{ExportsDirName}, extraDirs...)
	for _, dir := range dirs {
		err := os.MkdirAll(filepath.Join(projectDir, dir), 0o750)
		if err != nil {
			return "", fmt.Errorf("create %q: %w", dir, err)
		}
	}

	return projectDir, nil
}
