package bundle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapworks-io/protool/pkg/bundle"
	"github.com/mapworks-io/protool/pkg/host"
	"github.com/mapworks-io/protool/pkg/host/hosttest"
	"github.com/mapworks-io/protool/pkg/layers"
)

const (
	container = "/gis/Projects/demo/demo.gpkg"
	mask      = "/gis/Projects/demo/demo.gpkg/search_area"
)

func newClipHost() (*hosttest.Host, *hosttest.Project) {
	h := hosttest.NewHost()

	h.Datasets["/data/roads"] = &host.Table{
		Fields: []string{"name", "surface"},
		Rows:   [][]any{{"A1", "paved"}, {"B2", "gravel"}},
	}
	h.Datasets["/data/wells"] = &host.Table{
		Fields: []string{"id"},
		Rows:   [][]any{{1}, {2}, {3}},
	}
	h.Datasets[mask] = &host.Table{
		Fields: []string{"id"},
		Rows:   [][]any{{1}},
	}

	proj := &hosttest.Project{
		FilePath: "/gis/Projects/demo/demo.mapx",
		MapList: []*hosttest.Map{{
			MapName: "Main",
			Roots: []layers.Node{
				hosttest.Group("Infrastructure", true,
					&hosttest.Layer{LayerName: "Roads", IsFeature: true, IsVisible: true, Source: "/data/roads"},
				),
				&hosttest.Layer{LayerName: "Wells", IsFeature: true, IsVisible: false, Source: "/data/wells"},
				hosttest.Basemap("Topographic"),
			},
		}},
	}
	h.Projects[proj.FilePath] = proj

	return h, proj
}

func mapLayerNames(t *testing.T, m host.Map) []string {
	t.Helper()

	collected, err := layers.Collect(m.Layers(), layers.Options{IncludeGroups: true})
	require.NoError(t, err)

	names := make([]string, 0, len(collected))
	for _, n := range collected {
		names = append(names, n.Name())
	}

	return names
}

func TestClipMap(t *testing.T) {
	t.Parallel()

	h, proj := newClipHost()

	var events []any

	b := bundle.NewBundler(h)
	b.Subscribe(func(evt any) {
		events = append(events, evt)
	})

	require.NoError(t, b.ClipMap(proj, container, mask))

	// Both feature layers were clipped into the container; the basemap was
	// never touched.
	assert.Contains(t, h.Datasets, container+"/roads")
	assert.Contains(t, h.Datasets, container+"/wells")

	// Originals removed, outputs added.
	names := mapLayerNames(t, proj.MapList[0])
	assert.NotContains(t, names, "Roads")
	assert.NotContains(t, names, "Wells")
	assert.Contains(t, names, "roads")
	assert.Contains(t, names, "wells")

	assert.Equal(t, 1, proj.Saves)

	var totals []int

	for _, evt := range events {
		if total, ok := evt.(bundle.EventSetLayerTotal); ok {
			totals = append(totals, int(total))
		}
	}
	assert.Equal(t, []int{2}, totals)

	done, ok := events[len(events)-1].(bundle.EventDone)
	require.True(t, ok)
	require.NoError(t, done.Err)
}

func TestClipMap_EmptyResultDropped(t *testing.T) {
	t.Parallel()

	h, proj := newClipHost()
	h.ClipKeep["/data/wells"] = 0

	b := bundle.NewBundler(h)
	require.NoError(t, b.ClipMap(proj, container, mask))

	// The empty output was deleted and not added back, but the original
	// layer is still removed.
	assert.NotContains(t, h.Datasets, container+"/wells")

	names := mapLayerNames(t, proj.MapList[0])
	assert.NotContains(t, names, "Wells")
	assert.NotContains(t, names, "wells")
	assert.Contains(t, names, "roads")
}

func TestClipMap_VisibleOnly(t *testing.T) {
	t.Parallel()

	h, proj := newClipHost()

	b := bundle.NewBundler(h, bundle.WithVisibleOnly(true))
	require.NoError(t, b.ClipMap(proj, container, mask))

	// Wells is invisible and was skipped entirely.
	assert.Contains(t, h.Datasets, container+"/roads")
	assert.NotContains(t, h.Datasets, container+"/wells")

	names := mapLayerNames(t, proj.MapList[0])
	assert.Contains(t, names, "Wells")
}

func TestClipMap_LayerFailureContinues(t *testing.T) {
	t.Parallel()

	h, proj := newClipHost()
	// Break one input so its clip fails.
	delete(h.Datasets, "/data/roads")

	b := bundle.NewBundler(h)

	err := b.ClipMap(proj, container, mask)
	require.ErrorIs(t, err, bundle.ErrClip)

	// The other layer was still processed and the project still saved.
	assert.Contains(t, h.Datasets, container+"/wells")
	assert.Equal(t, 1, proj.Saves)

	// The failed layer stays on the map.
	names := mapLayerNames(t, proj.MapList[0])
	assert.Contains(t, names, "Roads")
}

func TestClipMap_NoMaps(t *testing.T) {
	t.Parallel()

	h := hosttest.NewHost()
	proj := &hosttest.Project{FilePath: "/gis/Projects/empty/empty.mapx"}
	h.Projects[proj.FilePath] = proj

	b := bundle.NewBundler(h)
	require.ErrorIs(t, b.ClipMap(proj, container, mask), bundle.ErrNoMaps)
}
