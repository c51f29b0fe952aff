package export_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mapworks-io/protool/pkg/export"
	"github.com/mapworks-io/protool/pkg/host"
	"github.com/mapworks-io/protool/pkg/host/hosttest"
	"github.com/mapworks-io/protool/pkg/layers"
)

func newExportHost() (*hosttest.Host, *hosttest.Map) {
	h := hosttest.NewHost()

	h.Datasets["/data/roads"] = &host.Table{
		Fields: []string{"name", "surface"},
		Rows:   [][]any{{"A1", "paved"}, {"B2", "gravel"}},
	}
	h.Datasets["/data/wells"] = &host.Table{
		Fields: []string{"id"},
		Rows:   [][]any{{1}},
	}

	m := &hosttest.Map{
		MapName: "Main",
		Roots: []layers.Node{
			&hosttest.Layer{LayerName: "Roads", IsFeature: true, IsVisible: true, Source: "/data/roads"},
			&hosttest.Layer{LayerName: "Wells", IsFeature: true, IsVisible: false, Source: "/data/wells"},
			hosttest.Basemap("Topographic"),
		},
	}

	return h, m
}

func readColumnA(t *testing.T, path string) []string {
	t.Helper()

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)

	defer f.Close() //nolint:errcheck // Test cleanup.

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)

	out := make([]string, 0, len(rows))

	for _, row := range rows {
		if len(row) == 0 {
			out = append(out, "")

			continue
		}

		out = append(out, row[0])
	}

	return out
}

func TestExportMap_VisibleOnly(t *testing.T) {
	t.Parallel()

	h, m := newExportHost()
	out := filepath.Join(t.TempDir(), "export.xlsx")

	e := export.NewExporter(h)
	require.NoError(t, e.ExportMap(m, out))

	// Only the visible Roads layer is present: label, header, two rows.
	colA := readColumnA(t, out)
	assert.Equal(t, []string{"roads", "name", "A1", "B2"}, colA)
}

func TestExportMap_AllLayersStacked(t *testing.T) {
	t.Parallel()

	h, m := newExportHost()
	out := filepath.Join(t.TempDir(), "export.xlsx")

	e := export.NewExporter(h, export.WithVisibleOnly(false))
	require.NoError(t, e.ExportMap(m, out))

	colA := readColumnA(t, out)
	assert.Equal(t, []string{"roads", "name", "A1", "B2", "", "wells", "id", "1"}, colA)
}

func TestExportMap_BrokenLayerSkipped(t *testing.T) {
	t.Parallel()

	h, m := newExportHost()
	delete(h.Datasets, "/data/roads")

	out := filepath.Join(t.TempDir(), "export.xlsx")

	var events []any

	e := export.NewExporter(h, export.WithVisibleOnly(false))
	e.Subscribe(func(evt any) {
		events = append(events, evt)
	})

	err := e.ExportMap(m, out)
	require.ErrorIs(t, err, export.ErrLayerExport)

	// The workbook was still written with the remaining layer.
	colA := readColumnA(t, out)
	assert.Equal(t, []string{"wells", "id", "1"}, colA)

	var failed []string

	for _, evt := range events {
		if el, ok := evt.(export.EventExportedLayer); ok && el.Err != nil {
			failed = append(failed, el.Layer)
		}
	}
	assert.Equal(t, []string{"Roads"}, failed)
}

func TestExportMap_Overwrites(t *testing.T) {
	t.Parallel()

	h, m := newExportHost()
	out := filepath.Join(t.TempDir(), "export.xlsx")

	e := export.NewExporter(h)
	require.NoError(t, e.ExportMap(m, out))
	require.NoError(t, e.ExportMap(m, out))

	colA := readColumnA(t, out)
	assert.Equal(t, []string{"roads", "name", "A1", "B2"}, colA)
}
