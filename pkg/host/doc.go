// Package host defines the narrow surface consumed from the desktop GIS
// application: project handles, maps, layer trees, dataset operations, and
// folder connections.
//
// Nothing in this package reimplements the host application. Implementations
// adapt a live host (or a file-backed stand-in, see the localhost
// subpackage) to these interfaces so the rest of the tool can stay
// independent of the host's object lifetime rules.
package host
