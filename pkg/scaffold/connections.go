package scaffold

import (
	"path/filepath"
	"strings"

	"github.com/mapworks-io/protool/pkg/host"
)

// ConnectionSet is a validated folder connection list: exactly one entry is
// flagged home, and no entry resolves to the same normalized path as
// another. The invariants hold by construction; create instances with
// ReconcileConnections.
type ConnectionSet struct {
	homeKey string
	conns   []host.FolderConnection
}

// ReconcileConnections builds the connection list for a project from
// scratch. Prior connections on the template are intentionally discarded so
// stale inherited paths never leak into new projects.
//
// The home folder is always first and is the only home-flagged entry. Extra
// folders keep their given order; empty entries and entries resolving to an
// already-added path are silently skipped, so the home folder can never be
// duplicated as a plain connection.
func ReconcileConnections(homeFolder string, extraFolders []string) ConnectionSet {
	homeKey := normalizePath(homeFolder)

	cs := ConnectionSet{
		homeKey: homeKey,
		conns: []host.FolderConnection{{
			Path:   homeFolder,
			Alias:  "",
			IsHome: true,
		}},
	}

	seen := map[string]bool{homeKey: true}

	for _, folder := range extraFolders {
		if folder == "" {
			continue
		}

		key := normalizePath(folder)
		if seen[key] {
			continue
		}

		seen[key] = true
		cs.conns = append(cs.conns, host.FolderConnection{
			Path:   folder,
			Alias:  "",
			IsHome: false,
		})
	}

	return cs
}

// Connections returns the reconciled list in catalog display order.
func (cs ConnectionSet) Connections() []host.FolderConnection {
	out := make([]host.FolderConnection, len(cs.conns))
	copy(out, cs.conns)

	return out
}

// Home returns the home folder entry.
func (cs ConnectionSet) Home() host.FolderConnection {
	return cs.conns[0]
}

// normalizePath returns the key used for connection equality: an absolute,
// cleaned, case-folded path. Folding unconditionally matches the host
// application's behavior on its target platform, where paths compare
// case-insensitively.
func normalizePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = filepath.Clean(path)
	}

	return strings.ToLower(abs)
}
