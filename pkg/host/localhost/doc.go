// Package localhost is a file-backed host.Host: projects are JSON
// documents, storage containers are SQLite databases laid out in the style
// of GeoPackage, and datasets are tables addressed as
// <container>/<table>.
//
// It exists so the CLI works against plain files and so integration tests
// exercise real persistence. It makes no attempt to read or write the
// desktop application's own formats.
package localhost
