// Package layers provides visibility-aware traversal of a map's layer tree.
//
// The traversal is a pure function over a read-only view of the host
// application's layer objects. Effective visibility is computed top-down
// during the walk, so callers always see the same result the host would
// render, regardless of how deeply a layer is nested in invisible groups.
package layers
