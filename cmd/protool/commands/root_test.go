package commands_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mapworks-io/protool/cmd/protool/commands"
	"github.com/mapworks-io/protool/pkg/host"
	"github.com/mapworks-io/protool/pkg/host/localhost"
	"github.com/mapworks-io/protool/pkg/layers"
	"github.com/mapworks-io/protool/pkg/paths"
	"github.com/mapworks-io/protool/pkg/scaffold"
)

// newWorkspace lays out a workspace root with a Projects directory and a
// template project of the given name.
func newWorkspace(t *testing.T, templateName, templateDoc string) string {
	t.Helper()

	root := t.TempDir()
	templateDir := filepath.Join(root, paths.ProjectsDirName, templateName)
	require.NoError(t, os.MkdirAll(templateDir, 0o750))
	require.NoError(t, os.WriteFile(
		filepath.Join(templateDir, templateName+paths.ProjectExt),
		[]byte(templateDoc),
		0o644,
	))

	return root
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := commands.NewRootCmd("test_protool", "", "")
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()

	return stdout.String(), stderr.String(), err
}

const emptyTemplateDoc = `{
  "maps": [{"name": "Main Map"}]
}`

func TestProjectNewCmd(t *testing.T) {
	t.Parallel()

	root := newWorkspace(t, "_BaseTemplate", emptyTemplateDoc)

	stdout, stderr, err := execute(t,
		"project", "new", "Demo",
		"--no-date", "--quiet", "--root", root,
	)
	require.NoError(t, err)
	assert.Empty(t, stdout, "stdout should be empty")
	assert.Empty(t, stderr, "stderr should be empty")

	projectDir := filepath.Join(root, paths.ProjectsDirName, "Demo")
	assert.DirExists(t, filepath.Join(projectDir, paths.ExportsDirName))

	h := localhost.NewHost()
	proj, err := h.OpenProject(filepath.Join(projectDir, "Demo"+paths.ProjectExt))
	require.NoError(t, err)

	assert.Equal(t, projectDir, proj.HomeFolder())
	assert.Equal(t, filepath.Join(projectDir, "Demo"+paths.ContainerExt), proj.DefaultContainer())
	assert.FileExists(t, proj.DefaultContainer())

	conns := proj.Connections()
	require.Len(t, conns, 2)
	assert.True(t, conns[0].IsHome)
	assert.Equal(t, projectDir, conns[0].Path)
	assert.Equal(t, filepath.Join(projectDir, paths.ExportsDirName), conns[1].Path)
}

func TestProjectNewCmd_ExistingProject(t *testing.T) {
	t.Parallel()

	root := newWorkspace(t, "_BaseTemplate", emptyTemplateDoc)

	_, _, err := execute(t, "project", "new", "Demo", "--no-date", "--quiet", "--root", root)
	require.NoError(t, err)

	_, _, err = execute(t, "project", "new", "Demo", "--no-date", "--quiet", "--root", root)
	require.ErrorIs(t, err, paths.ErrProjectDirExists)
}

func TestProjectNewCmd_MissingTemplate(t *testing.T) {
	t.Parallel()

	root := newWorkspace(t, "_BaseTemplate", emptyTemplateDoc)

	_, _, err := execute(t,
		"project", "new", "Demo",
		"--no-date", "--quiet", "--root", root,
		"--template", "_Nonexistent",
	)
	require.Error(t, err)
}

func TestProjectInfoCmd(t *testing.T) {
	t.Parallel()

	root := newWorkspace(t, "_BaseTemplate", emptyTemplateDoc)

	_, _, err := execute(t, "project", "new", "Demo", "--no-date", "--quiet", "--root", root)
	require.NoError(t, err)

	projectFile := filepath.Join(root, paths.ProjectsDirName, "Demo", "Demo"+paths.ProjectExt)

	stdout, _, err := execute(t, "project", "info", projectFile)
	require.NoError(t, err)

	assert.Contains(t, stdout, "projectPath: "+projectFile)
	assert.Contains(t, stdout, "homeFolderExists: true")
	assert.Contains(t, stdout, "defaultContainerExists: true")
	assert.Contains(t, stdout, "name: Main Map")
	assert.Contains(t, stdout, "isHome: true")
}

// stageBasedata creates a container with a clippable roads table, a wells
// table outside the mask extent, and the mask itself. It returns the
// container path.
func stageBasedata(t *testing.T, root string) string {
	t.Helper()

	h := localhost.NewHost()
	baseDir := filepath.Join(root, "Basedata")
	require.NoError(t, os.MkdirAll(baseDir, 0o750))

	container, err := h.CreateContainer(baseDir, "base"+paths.ContainerExt)
	require.NoError(t, err)

	require.NoError(t, h.WriteDataset(filepath.Join(container, "roads"), &host.Table{
		Fields: []string{"name", "minx", "miny", "maxx", "maxy"},
		Rows:   [][]any{{"Main St", 1.0, 1.0, 2.0, 2.0}},
	}))
	require.NoError(t, h.WriteDataset(filepath.Join(container, "wells"), &host.Table{
		Fields: []string{"id", "minx", "miny", "maxx", "maxy"},
		Rows:   [][]any{{int64(1), 50.0, 50.0, 60.0, 60.0}},
	}))
	require.NoError(t, h.WriteDataset(filepath.Join(container, "area"), &host.Table{
		Fields: []string{"minx", "miny", "maxx", "maxy"},
		Rows:   [][]any{{0.0, 0.0, 10.0, 10.0}},
	}))

	return container
}

func layeredTemplateDoc(container string) string {
	return fmt.Sprintf(`{
  "maps": [
    {
      "name": "Main Map",
      "layers": [
        {"name": "Roads", "type": "feature", "visible": true, "dataSource": "%s/roads"},
        {"name": "Wells", "type": "feature", "visible": false, "dataSource": "%s/wells"},
        {"name": "Topographic", "type": "basemap", "visible": true, "dataSource": "basemap://topo"}
      ]
    }
  ]
}`, container, container)
}

func TestBundleCmd(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	container := stageBasedata(t, root)

	templateDir := filepath.Join(root, paths.ProjectsDirName, "_ContractorTemplate")
	require.NoError(t, os.MkdirAll(templateDir, 0o750))
	require.NoError(t, os.WriteFile(
		filepath.Join(templateDir, "_ContractorTemplate"+paths.ProjectExt),
		[]byte(layeredTemplateDoc(container)),
		0o644,
	))

	_, _, err := execute(t,
		"bundle", "Demo",
		"--no-date", "--quiet", "--root", root,
		"--mask", filepath.Join(container, "area"),
	)
	require.NoError(t, err)

	h := localhost.NewHost()
	projectDir := filepath.Join(root, paths.ProjectsDirName, "Demo")
	proj, err := h.OpenProject(filepath.Join(projectDir, "Demo"+paths.ProjectExt))
	require.NoError(t, err)

	newContainer := filepath.Join(projectDir, "Demo"+paths.ContainerExt)
	assert.Equal(t, newContainer, proj.DefaultContainer())

	// Roads intersects the mask so its clip replaces the original layer.
	// The wells clip came up empty, so both the original layer and the
	// empty output are gone. Basemaps are never clipped.
	nodes, err := layers.Collect(proj.Maps()[0].Layers(), layers.Options{})
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "roads", nodes[0].Name())
	assert.Equal(t, filepath.Join(newContainer, "roads"), nodes[0].DataSource())

	count, err := h.RowCount(filepath.Join(newContainer, "roads"))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	exists, err := h.Exists(filepath.Join(newContainer, "wells"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBundleCmd_DestinationExists(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	container := stageBasedata(t, root)

	templateDir := filepath.Join(root, paths.ProjectsDirName, "_ContractorTemplate")
	require.NoError(t, os.MkdirAll(templateDir, 0o750))
	require.NoError(t, os.WriteFile(
		filepath.Join(templateDir, "_ContractorTemplate"+paths.ProjectExt),
		[]byte(layeredTemplateDoc(container)),
		0o644,
	))

	mask := filepath.Join(container, "area")

	_, _, err := execute(t, "bundle", "Demo", "--no-date", "--quiet", "--root", root, "--mask", mask)
	require.NoError(t, err)

	_, _, err = execute(t, "bundle", "Demo", "--no-date", "--quiet", "--root", root, "--mask", mask)
	require.Error(t, err)
	require.NotErrorIs(t, err, scaffold.ErrDestinationExists,
		"the folder check fires before the project file check")
	require.ErrorIs(t, err, paths.ErrProjectDirExists)
}

func TestExportCmd(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	container := stageBasedata(t, root)

	projectDir := filepath.Join(root, paths.ProjectsDirName, "Demo")
	require.NoError(t, os.MkdirAll(projectDir, 0o750))
	projectFile := filepath.Join(projectDir, "Demo"+paths.ProjectExt)
	require.NoError(t, os.WriteFile(projectFile, []byte(layeredTemplateDoc(container)), 0o644))

	out := filepath.Join(projectDir, "demo.xlsx")

	_, _, err := execute(t,
		"export",
		"--project", projectFile,
		"--out", out,
		"--quiet",
	)
	require.NoError(t, err)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)

	defer func() {
		require.NoError(t, f.Close())
	}()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)

	// Visible layers only: the roads table with its label and header, the
	// hidden wells layer skipped.
	got := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			got = append(got, "")

			continue
		}

		got = append(got, row[0])
	}
	assert.Equal(t, []string{"roads", "name", "Main St"}, got)
}

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, commands.GetVersionString())
}

func TestRootCmd_InvalidLogLevel(t *testing.T) {
	t.Parallel()

	_, _, err := execute(t, "version", "--log_level", "nope")
	require.ErrorIs(t, err, commands.ErrLogHandlerFailed)
}
