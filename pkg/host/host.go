package host

import (
	"github.com/mapworks-io/protool/pkg/layers"
)

// Host exposes the operations the tool consumes from the desktop GIS
// application. All operations are synchronous and local; they either
// complete or fail before returning.
type Host interface {
	// OpenProject opens the project persisted at path.
	OpenProject(path string) (Project, error)

	// CopyProject duplicates the project persisted at templatePath to
	// targetPath, leaving the template untouched.
	CopyProject(templatePath, targetPath string) error

	// CreateContainer creates a new storage container named name inside
	// dir and returns its full path. The container is opaque to this tool;
	// it is created and assigned but never introspected.
	CreateContainer(dir, name string) (string, error)

	// Exists reports whether anything is persisted at path.
	Exists(path string) (bool, error)

	// Clip writes the subset of inputDataset intersecting maskDataset to
	// outputDataset.
	Clip(inputDataset, maskDataset, outputDataset string) error

	// RowCount returns the number of rows in the dataset at path.
	RowCount(dataset string) (int, error)

	// DeleteDataset removes the dataset at path.
	DeleteDataset(dataset string) error

	// Table reads the attribute table of the dataset at path.
	Table(dataset string) (*Table, error)
}

// Project is a live handle to an open project. Mutations are staged on the
// handle and only persisted by Save.
type Project interface {
	// Path returns the full path of the persisted project file.
	Path() string

	HomeFolder() string
	SetHomeFolder(dir string)

	DefaultContainer() string
	SetDefaultContainer(path string)

	// Connections returns the project's folder connections in catalog
	// display order.
	Connections() []FolderConnection

	// SetConnections replaces the project's entire connection list.
	SetConnections(conns []FolderConnection)

	// Maps returns the project's maps in the host's order. The first map
	// is the active map by convention.
	Maps() []Map

	Save() error
}

// Map is a live handle to one map inside a project.
type Map interface {
	Name() string

	// Layers returns the map's root layer nodes in draw order.
	Layers() []layers.Node

	// AddDataFromPath appends a new feature layer backed by the dataset at
	// path to the map's root.
	AddDataFromPath(dataset string) error

	// RemoveLayer detaches the given layer from the map.
	RemoveLayer(layer layers.Node) error
}

// Table is a snapshot of a dataset's attribute table. Fields preserve the
// dataset's column order; every row has one value per field.
type Table struct {
	Fields []string
	Rows   [][]any
}
