package hosttest

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/mapworks-io/protool/pkg/host"
	"github.com/mapworks-io/protool/pkg/layers"
)

var (
	ErrNotFound = errors.New("not found")
)

// Host is an in-memory host.Host. The zero value is not usable; create
// instances with NewHost.
type Host struct {
	// Projects maps project paths to handles. Templates are registered
	// here directly; CopyProject clones them under the target path.
	Projects map[string]*Project

	// Datasets maps dataset paths to attribute tables.
	Datasets map[string]*host.Table

	// ClipKeep optionally limits how many rows Clip carries over, keyed by
	// input dataset path. Absent means all rows.
	ClipKeep map[string]int

	// CreateContainerErr, when set, makes CreateContainer fail.
	CreateContainerErr error

	// Containers records container paths created or registered.
	Containers map[string]bool
}

var _ host.Host = (*Host)(nil)

func NewHost() *Host {
	return &Host{
		Projects:   map[string]*Project{},
		Datasets:   map[string]*host.Table{},
		ClipKeep:   map[string]int{},
		Containers: map[string]bool{},
	}
}

func (h *Host) OpenProject(path string) (host.Project, error) {
	p, ok := h.Projects[path]
	if !ok {
		return nil, fmt.Errorf("%w: project %q", ErrNotFound, path)
	}

	return p, nil
}

func (h *Host) CopyProject(templatePath, targetPath string) error {
	tpl, ok := h.Projects[templatePath]
	if !ok {
		return fmt.Errorf("%w: template %q", ErrNotFound, templatePath)
	}

	cp := tpl.clone()
	cp.FilePath = targetPath
	h.Projects[targetPath] = cp

	return nil
}

func (h *Host) CreateContainer(dir, name string) (string, error) {
	if h.CreateContainerErr != nil {
		return "", h.CreateContainerErr
	}

	path := filepath.Join(dir, name)
	h.Containers[path] = true

	return path, nil
}

func (h *Host) Exists(path string) (bool, error) {
	if _, ok := h.Projects[path]; ok {
		return true, nil
	}
	if _, ok := h.Datasets[path]; ok {
		return true, nil
	}

	return h.Containers[path], nil
}

func (h *Host) Clip(inputDataset, maskDataset, outputDataset string) error {
	in, ok := h.Datasets[inputDataset]
	if !ok {
		return fmt.Errorf("%w: dataset %q", ErrNotFound, inputDataset)
	}
	if _, ok := h.Datasets[maskDataset]; !ok {
		return fmt.Errorf("%w: mask %q", ErrNotFound, maskDataset)
	}

	rows := in.Rows
	if keep, ok := h.ClipKeep[inputDataset]; ok && keep < len(rows) {
		rows = rows[:keep]
	}

	h.Datasets[outputDataset] = &host.Table{
		Fields: slices.Clone(in.Fields),
		Rows:   slices.Clone(rows),
	}

	return nil
}

func (h *Host) RowCount(dataset string) (int, error) {
	t, ok := h.Datasets[dataset]
	if !ok {
		return 0, fmt.Errorf("%w: dataset %q", ErrNotFound, dataset)
	}

	return len(t.Rows), nil
}

func (h *Host) DeleteDataset(dataset string) error {
	if _, ok := h.Datasets[dataset]; !ok {
		return fmt.Errorf("%w: dataset %q", ErrNotFound, dataset)
	}

	delete(h.Datasets, dataset)

	return nil
}

func (h *Host) Table(dataset string) (*host.Table, error) {
	t, ok := h.Datasets[dataset]
	if !ok {
		return nil, fmt.Errorf("%w: dataset %q", ErrNotFound, dataset)
	}

	return t, nil
}

// Project is an in-memory host.Project.
type Project struct {
	FilePath  string
	Home      string
	Container string
	Conns     []host.FolderConnection
	MapList   []*Map
	Saves     int
}

var _ host.Project = (*Project)(nil)

func (p *Project) Path() string { return p.FilePath }
func (p *Project) HomeFolder() string { return p.Home }
func (p *Project) SetHomeFolder(dir string) { p.Home = dir }
func (p *Project) DefaultContainer() string { return p.Container }
func (p *Project) SetDefaultContainer(c string) { p.Container = c }

func (p *Project) Connections() []host.FolderConnection {
	return slices.Clone(p.Conns)
}

func (p *Project) SetConnections(conns []host.FolderConnection) {
	p.Conns = slices.Clone(conns)
}

func (p *Project) Maps() []host.Map {
	ms := make([]host.Map, 0, len(p.MapList))
	for _, m := range p.MapList {
		ms = append(ms, m)
	}

	return ms
}

func (p *Project) Save() error {
	p.Saves++

	return nil
}

func (p *Project) clone() *Project {
	c := &Project{
		FilePath:  p.FilePath,
		Home:      p.Home,
		Container: p.Container,
		Conns:     slices.Clone(p.Conns),
	}

	for _, m := range p.MapList {
		c.MapList = append(c.MapList, m.clone())
	}

	return c
}

// Map is an in-memory host.Map.
type Map struct {
	MapName string
	Roots   []layers.Node
}

var _ host.Map = (*Map)(nil)

func (m *Map) Name() string { return m.MapName }

func (m *Map) Layers() []layers.Node {
	return slices.Clone(m.Roots)
}

func (m *Map) AddDataFromPath(dataset string) error {
	m.Roots = append(m.Roots, &Layer{
		LayerName: filepath.Base(dataset),
		IsFeature: true,
		IsVisible: true,
		Source:    dataset,
	})

	return nil
}

func (m *Map) RemoveLayer(layer layers.Node) error {
	roots, removed := removeNode(m.Roots, layer)
	if !removed {
		return fmt.Errorf("%w: layer %q", ErrNotFound, layer.Name())
	}

	m.Roots = roots

	return nil
}

func (m *Map) clone() *Map {
	c := &Map{MapName: m.MapName}

	for _, root := range m.Roots {
		if tl, ok := root.(*Layer); ok {
			c.Roots = append(c.Roots, tl.clone())

			continue
		}

		c.Roots = append(c.Roots, root)
	}

	return c
}

func removeNode(nodes []layers.Node, target layers.Node) ([]layers.Node, bool) {
	for i, node := range nodes {
		if node == target {
			return slices.Delete(slices.Clone(nodes), i, i+1), true
		}

		tl, ok := node.(*Layer)
		if !ok || !tl.IsGroupLayer {
			continue
		}

		if kids, removed := removeNode(tl.Kids, target); removed {
			tl.Kids = kids

			return nodes, true
		}
	}

	return nodes, false
}
