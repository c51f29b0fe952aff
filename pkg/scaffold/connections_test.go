package scaffold_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapworks-io/protool/pkg/host"
	"github.com/mapworks-io/protool/pkg/scaffold"
)

func TestReconcileConnections(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		home   string
		extras []string
		want   []host.FolderConnection
	}{
		"home only": {
			home:   "/gis/Projects/demo",
			extras: nil,
			want: []host.FolderConnection{
				{Path: "/gis/Projects/demo", IsHome: true},
			},
		},
		"extras preserve order": {
			home:   "/gis/Projects/demo",
			extras: []string{"/gis/Projects/demo/_Exports", "/gis/Basedata"},
			want: []host.FolderConnection{
				{Path: "/gis/Projects/demo", IsHome: true},
				{Path: "/gis/Projects/demo/_Exports", IsHome: false},
				{Path: "/gis/Basedata", IsHome: false},
			},
		},
		"home duplicate skipped": {
			home:   "/proj",
			extras: []string{"/proj", "/proj/_Exports", "/PROJ"},
			want: []host.FolderConnection{
				{Path: "/proj", IsHome: true},
				{Path: "/proj/_Exports", IsHome: false},
			},
		},
		"empty entries skipped": {
			home:   "/proj",
			extras: []string{"", "/data", ""},
			want: []host.FolderConnection{
				{Path: "/proj", IsHome: true},
				{Path: "/data", IsHome: false},
			},
		},
		"repeated extras collapse to first occurrence": {
			home:   "/proj",
			extras: []string{"/data", "/Data", "/data/"},
			want: []host.FolderConnection{
				{Path: "/proj", IsHome: true},
				{Path: "/data", IsHome: false},
			},
		},
		"unnormalized home duplicate skipped": {
			home:   "/proj",
			extras: []string{"/proj/../proj"},
			want: []host.FolderConnection{
				{Path: "/proj", IsHome: true},
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cs := scaffold.ReconcileConnections(tc.home, tc.extras)
			assert.Equal(t, tc.want, cs.Connections())
		})
	}
}

func TestReconcileConnections_Invariants(t *testing.T) {
	t.Parallel()

	extras := []string{"/a", "/b", "/A", "", "/proj", "/b/c"}
	cs := scaffold.ReconcileConnections("/proj", extras)

	homes := 0
	for _, c := range cs.Connections() {
		if c.IsHome {
			homes++
			assert.Equal(t, "/proj", c.Path)
		} else {
			assert.NotEqual(t, "/proj", c.Path)
		}
	}
	assert.Equal(t, 1, homes)

	require.True(t, cs.Home().IsHome)

	// Idempotent: the same inputs always reconcile to the same list.
	again := scaffold.ReconcileConnections("/proj", extras)
	assert.Equal(t, cs.Connections(), again.Connections())
}
