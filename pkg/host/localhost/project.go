package localhost

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mapworks-io/protool/pkg/host"
	"github.com/mapworks-io/protool/pkg/layers"
)

var (
	ErrReadProject  = errors.New("read project")
	ErrWriteProject = errors.New("write project")
)

type projectDoc struct {
	HomeFolder       string                `json:"homeFolder,omitempty"`
	DefaultContainer string                `json:"defaultContainer,omitempty"`
	Connections      []folderConnectionDoc `json:"folderConnections,omitempty"`
	Maps             []mapDoc              `json:"maps,omitempty"`
}

type folderConnectionDoc struct {
	Path   string `json:"path"`
	Alias  string `json:"alias,omitempty"`
	IsHome bool   `json:"isHome,omitempty"`
}

type mapDoc struct {
	Name   string     `json:"name"`
	Layers []layerDoc `json:"layers,omitempty"`
}

type layerDoc struct {
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Visible    bool       `json:"visible"`
	DataSource string     `json:"dataSource,omitempty"`
	Layers     []layerDoc `json:"layers,omitempty"`
}

const (
	layerTypeGroup   = "group"
	layerTypeFeature = "feature"
	layerTypeBasemap = "basemap"
)

// Project is a host.Project backed by a JSON document on disk. Mutations
// are held in memory until Save writes the whole document back.
type Project struct {
	path string
	doc  projectDoc
	maps []*Map
}

var _ host.Project = (*Project)(nil)

func readProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadProject, err)
	}
	var doc projectDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrReadProject, path, err)
	}
	p := &Project{path: path, doc: doc}
	for i := range doc.Maps {
		p.maps = append(p.maps, &Map{
			name:   doc.Maps[i].Name,
			layers: layersFromDocs(doc.Maps[i].Layers),
		})
	}
	return p, nil
}

func (p *Project) Path() string { return p.path }

func (p *Project) HomeFolder() string { return p.doc.HomeFolder }

func (p *Project) SetHomeFolder(dir string) { p.doc.HomeFolder = dir }

func (p *Project) DefaultContainer() string { return p.doc.DefaultContainer }

func (p *Project) SetDefaultContainer(path string) { p.doc.DefaultContainer = path }

func (p *Project) Connections() []host.FolderConnection {
	conns := make([]host.FolderConnection, 0, len(p.doc.Connections))
	for _, c := range p.doc.Connections {
		conns = append(conns, host.FolderConnection{Path: c.Path, Alias: c.Alias, IsHome: c.IsHome})
	}
	return conns
}

func (p *Project) SetConnections(conns []host.FolderConnection) {
	docs := make([]folderConnectionDoc, 0, len(conns))
	for _, c := range conns {
		docs = append(docs, folderConnectionDoc{Path: c.Path, Alias: c.Alias, IsHome: c.IsHome})
	}
	p.doc.Connections = docs
}

func (p *Project) Maps() []host.Map {
	maps := make([]host.Map, 0, len(p.maps))
	for _, m := range p.maps {
		maps = append(maps, m)
	}
	return maps
}

// Save serializes the project back to its original path.
func (p *Project) Save() error {
	p.doc.Maps = p.doc.Maps[:0]
	for _, m := range p.maps {
		p.doc.Maps = append(p.doc.Maps, mapDoc{
			Name:   m.name,
			Layers: layersToDocs(m.layers),
		})
	}
	data, err := json.MarshalIndent(p.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteProject, err)
	}
	if err := os.WriteFile(p.path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteProject, err)
	}
	return nil
}

// Map is a host.Map over an in-memory layer tree.
type Map struct {
	name   string
	layers []layers.Node
}

var _ host.Map = (*Map)(nil)

func (m *Map) Name() string { return m.name }

func (m *Map) Layers() []layers.Node { return m.layers }

func (m *Map) AddDataFromPath(dataset string) error {
	_, table, err := splitDataset(dataset)
	if err != nil {
		return err
	}
	m.layers = append(m.layers, &Layer{
		name:       table,
		kind:       layerTypeFeature,
		visible:    true,
		dataSource: dataset,
	})
	return nil
}

func (m *Map) RemoveLayer(layer layers.Node) error {
	removed := false
	m.layers = removeNode(m.layers, layer, &removed)
	if !removed {
		return fmt.Errorf("layer %q not in map %q", layer.Name(), m.name)
	}
	return nil
}

func removeNode(nodes []layers.Node, target layers.Node, removed *bool) []layers.Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n == target {
			*removed = true
			continue
		}
		if l, ok := n.(*Layer); ok && l.kind == layerTypeGroup {
			l.children = removeNode(l.children, target, removed)
		}
		out = append(out, n)
	}
	return out
}

// Layer is a layers.Node loaded from a project document.
type Layer struct {
	name       string
	kind       string
	visible    bool
	dataSource string
	children   []layers.Node
}

var _ layers.Node = (*Layer)(nil)

func (l *Layer) Name() string { return l.name }

func (l *Layer) IsGroup() bool { return l.kind == layerTypeGroup }

func (l *Layer) IsFeatureLayer() bool { return l.kind == layerTypeFeature }

func (l *Layer) IsBasemap() bool { return l.kind == layerTypeBasemap }

func (l *Layer) Visible() bool { return l.visible }

func (l *Layer) Supports(c layers.Capability) bool {
	if c == layers.CapabilityDataSource {
		return l.dataSource != ""
	}
	return false
}

func (l *Layer) DataSource() string { return l.dataSource }

func (l *Layer) Children() []layers.Node { return l.children }

func layersFromDocs(docs []layerDoc) []layers.Node {
	nodes := make([]layers.Node, 0, len(docs))
	for _, d := range docs {
		nodes = append(nodes, &Layer{
			name:       d.Name,
			kind:       d.Type,
			visible:    d.Visible,
			dataSource: d.DataSource,
			children:   layersFromDocs(d.Layers),
		})
	}
	return nodes
}

func layersToDocs(nodes []layers.Node) []layerDoc {
	docs := make([]layerDoc, 0, len(nodes))
	for _, n := range nodes {
		l, ok := n.(*Layer)
		if !ok {
			continue
		}
		docs = append(docs, layerDoc{
			Name:       l.name,
			Type:       l.kind,
			Visible:    l.visible,
			DataSource: l.dataSource,
			Layers:     layersToDocs(l.children),
		})
	}
	return docs
}

// NewFeatureLayer builds a visible feature layer, for constructing project
// documents in tooling and tests.
func NewFeatureLayer(name, dataSource string) *Layer {
	return &Layer{name: name, kind: layerTypeFeature, visible: true, dataSource: dataSource}
}
