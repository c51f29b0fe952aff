package hosttest

import (
	"github.com/mapworks-io/protool/pkg/layers"
)

// Layer is a configurable layers.Node for building test trees.
type Layer struct {
	LayerName    string
	Source       string
	Kids         []layers.Node
	IsGroupLayer bool
	IsFeature    bool
	IsBase       bool
	IsVisible    bool
	NoDataSource bool
}

var _ layers.Node = (*Layer)(nil)

func (l *Layer) Name() string { return l.LayerName }
func (l *Layer) IsGroup() bool { return l.IsGroupLayer }
func (l *Layer) IsFeatureLayer() bool { return l.IsFeature }
func (l *Layer) IsBasemap() bool { return l.IsBase }
func (l *Layer) Visible() bool { return l.IsVisible }
func (l *Layer) DataSource() string { return l.Source }
func (l *Layer) Children() []layers.Node { return l.Kids }

func (l *Layer) Supports(c layers.Capability) bool {
	if c == layers.CapabilityDataSource {
		return !l.NoDataSource
	}

	return false
}

// Group builds a visible or invisible group layer with the given children.
func Group(name string, visible bool, children ...layers.Node) *Layer {
	return &Layer{
		LayerName:    name,
		IsGroupLayer: true,
		IsVisible:    visible,
		Kids:         children,
	}
}

// Feature builds a feature layer whose data source defaults to its name.
func Feature(name string, visible bool) *Layer {
	return &Layer{
		LayerName: name,
		IsFeature: true,
		IsVisible: visible,
		Source:    name,
	}
}

// Basemap builds a visible basemap layer.
func Basemap(name string) *Layer {
	return &Layer{
		LayerName: name,
		IsFeature: true,
		IsBase:    true,
		IsVisible: true,
		Source:    name,
	}
}

func (l *Layer) clone() *Layer {
	c := *l
	c.Kids = make([]layers.Node, 0, len(l.Kids))

	for _, kid := range l.Kids {
		if tl, ok := kid.(*Layer); ok {
			c.Kids = append(c.Kids, tl.clone())

			continue
		}

		c.Kids = append(c.Kids, kid)
	}

	return &c
}
