// Package bundle clips every feature layer of a project's first map to a
// mask dataset, swapping the originals for the clipped outputs. Empty clip
// results are dropped instead of added.
//
// This is the core of the `protool bundle` command: it turns a full
// workspace project into a hand-off copy containing only data inside the
// area of interest.
package bundle
