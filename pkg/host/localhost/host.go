package localhost

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mapworks-io/protool/pkg/host"
	"github.com/mapworks-io/protool/pkg/paths"
	"github.com/mapworks-io/protool/pkg/syncs"
)

var ErrInvalidDataset = errors.New("invalid dataset path")

// Host implements host.Host against the local filesystem. Container writes
// are serialized per container file.
type Host struct {
	containers syncs.KeyLock
}

var _ host.Host = (*Host)(nil)

func NewHost() *Host {
	return &Host{}
}

func (h *Host) OpenProject(path string) (host.Project, error) {
	return readProject(path)
}

// CopyProject duplicates a project document. The target must not already
// exist.
func (h *Host) CopyProject(templatePath, targetPath string) error {
	src, err := os.Open(templatePath)
	if err != nil {
		return fmt.Errorf("copy project: %w", err)
	}
	defer src.Close()

	dst, err := os.OpenFile(targetPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("copy project: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("copy project: %w", err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("copy project: %w", err)
	}
	return nil
}

// Exists reports whether a path is present. Dataset paths of the form
// <container>/<table> resolve to a table lookup inside the container.
func (h *Host) Exists(path string) (bool, error) {
	if container, table, err := splitDataset(path); err == nil {
		return tableExists(container, table)
	}
	if _, err := os.Lstat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// splitDataset resolves a dataset path into its container file and table
// name. The container is the path component carrying the container
// extension, and the table is the single component after it.
func splitDataset(dataset string) (container, table string, err error) {
	marker := paths.ContainerExt + string(filepath.Separator)
	idx := strings.LastIndex(dataset, marker)
	if idx < 0 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidDataset, dataset)
	}
	container = dataset[:idx+len(paths.ContainerExt)]
	table = dataset[idx+len(marker):]
	if table == "" || strings.ContainsRune(table, filepath.Separator) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidDataset, dataset)
	}
	return container, table, nil
}
