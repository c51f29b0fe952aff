package paths_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapworks-io/protool/pkg/paths"
)

func TestFindWorkspaceRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	projectDir := filepath.Join(root, "Projects", "demo")
	require.NoError(t, os.MkdirAll(projectDir, 0o750))

	got, err := paths.FindWorkspaceRoot(projectDir)
	require.NoError(t, err)
	assert.Equal(t, root, got)

	got, err = paths.FindWorkspaceRoot(root)
	require.NoError(t, err)
	assert.Equal(t, root, got)

	_, err = paths.FindWorkspaceRoot(t.TempDir())
	require.ErrorIs(t, err, paths.ErrWorkspaceNotFound)
}

func TestWorkspaceRootFromProject(t *testing.T) {
	t.Parallel()

	got := paths.WorkspaceRootFromProject("/gis/Projects/demo/demo.mapx")
	assert.Equal(t, "/gis", got)
}

func TestLayout(t *testing.T) {
	t.Parallel()

	projectsRoot := paths.ProjectsRoot("/gis")
	assert.Equal(t, "/gis/Projects", projectsRoot)

	dir := paths.ProjectDir(projectsRoot, "demo")
	assert.Equal(t, "/gis/Projects/demo", dir)
	assert.Equal(t, "/gis/Projects/demo/demo.mapx", paths.ProjectFile(dir, "demo"))
	assert.Equal(t, "/gis/Projects/demo/demo.gpkg", paths.ContainerPath(dir, "demo"))
	assert.Equal(t, "/gis/Projects/demo/_Exports", paths.ExportsDir(dir))
	assert.Equal(t, "/gis/Projects/_BaseTemplate/_BaseTemplate.mapx",
		paths.TemplateFile(projectsRoot, "_BaseTemplate"))
}

func TestCreateProjectDirs(t *testing.T) {
	t.Parallel()

	projectsRoot := t.TempDir()

	dir, err := paths.CreateProjectDirs(projectsRoot, "demo", "Deliverables")
	require.NoError(t, err)

	assert.DirExists(t, dir)
	assert.DirExists(t, filepath.Join(dir, "_Exports"))
	assert.DirExists(t, filepath.Join(dir, "Deliverables"))

	_, err = paths.CreateProjectDirs(projectsRoot, "demo")
	require.ErrorIs(t, err, paths.ErrProjectDirExists)
}

func TestProjectName(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 8, 26, 12, 0, 0, 0, time.UTC)

	tcs := map[string]struct {
		baseName string
		withDate bool
		want     string
	}{
		"dated":              {baseName: "FortHuachuca", withDate: true, want: "20250826_FortHuachuca"},
		"undated":            {baseName: "FortHuachuca", withDate: false, want: "FortHuachuca"},
		"invalid chars":      {baseName: `Fort:Hua*chuca?`, withDate: false, want: "FortHuachuca"},
		"surrounding spaces": {baseName: "  Fort Huachuca ", withDate: true, want: "20250826_Fort Huachuca"},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, paths.ProjectName(tc.baseName, now, tc.withDate))
		})
	}
}
