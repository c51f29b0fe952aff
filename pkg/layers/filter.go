package layers

import "fmt"

// Capability names a property a layer may or may not support. Mirrors the
// host application's string-keyed capability introspection.
type Capability string

// CapabilityDataSource marks layers that can be traversed for their backing
// dataset. Feature layers lacking it are always excluded from collection.
const CapabilityDataSource Capability = "dataSource"

// Node is a read-only view of one entry in a layer tree. Leaves are feature
// layers; internal nodes are group layers. Visible reports the node's own
// toggle only, independent of its ancestors.
type Node interface {
	Name() string
	IsGroup() bool
	IsFeatureLayer() bool
	IsBasemap() bool
	Visible() bool
	Supports(c Capability) bool
	DataSource() string
	Children() []Node
}

// Options controls which nodes Collect returns. The zero value collects
// every feature layer regardless of visibility, excluding groups.
type Options struct {
	// VisibleOnly restricts output to nodes whose effective visibility is
	// true, i.e. the node and every ancestor up to the root are visible.
	VisibleOnly bool

	// IncludeGroups adds group nodes themselves to the output when they
	// pass the visibility filter. Their descendants are collected either
	// way.
	IncludeGroups bool
}

// Collect walks the given root nodes depth-first in pre-order and returns
// the feature layers (and optionally groups) passing opts. Basemap layers
// and feature layers without the dataSource capability are never returned.
// Root nodes inherit visibility true. Returns ErrMalformedTree if a cycle
// is encountered.
func Collect(nodes []Node, opts Options) ([]Node, error) {
	var out []Node

	onPath := map[Node]struct{}{}

	err := collect(nodes, true, opts, onPath, &out)
	if err != nil {
		return nil, err
	}

	return out, nil
}

func collect(nodes []Node, parentVisible bool, opts Options, onPath map[Node]struct{}, out *[]Node) error {
	for _, node := range nodes {
		if node == nil {
			continue
		}

		if _, ok := onPath[node]; ok {
			return fmt.Errorf("%w: %q is its own ancestor", ErrMalformedTree, node.Name())
		}

		effectiveVisibility := node.Visible() && parentVisible

		if node.IsGroup() {
			if opts.IncludeGroups && (!opts.VisibleOnly || effectiveVisibility) {
				*out = append(*out, node)
			}

			// Recurse regardless of this group's own filter outcome; the
			// AND rule already excludes children of invisible groups when
			// VisibleOnly is set.
			onPath[node] = struct{}{}

			err := collect(node.Children(), effectiveVisibility, opts, onPath, out)
			if err != nil {
				return err
			}

			delete(onPath, node)

			continue
		}

		if !node.IsFeatureLayer() || node.IsBasemap() || !node.Supports(CapabilityDataSource) {
			continue
		}

		if !opts.VisibleOnly || effectiveVisibility {
			*out = append(*out, node)
		}
	}

	return nil
}
