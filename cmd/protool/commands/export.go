package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mapworks-io/protool/pkg/export"
	"github.com/mapworks-io/protool/pkg/host/localhost"
	"github.com/mapworks-io/protool/pkg/paths"
	"github.com/mapworks-io/protool/pkg/tui"
)

const (
	exportDesc = `This command stacks the attribute tables of a project map's feature
layers into one spreadsheet worksheet, each table preceded by its dataset
name and followed by a blank row.
`
	exportExample = `  # Export the visible layers of the project in the working directory
  protool export

  # Export every feature layer of a specific project
  protool export --project ./20250101_Demo/20250101_Demo.mapx --all-layers
`
)

var ErrExportFailed = errors.New("export failed")

// NewExportCmd returns the export command.
func NewExportCmd(arg *RootArgs) *cobra.Command {
	args := NewProjectArgs(arg)

	project := new(string)
	out := new(string)
	allLayers := new(bool)

	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Export a map's attribute tables to a spreadsheet",
		Long:    exportDesc,
		Example: exportExample,
		RunE: func(cmd *cobra.Command, _ []string) error {
			projectFile, err := resolveProjectFile(*project)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrExportFailed, err)
			}

			h := localhost.NewHost()

			proj, err := h.OpenProject(projectFile)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrExportFailed, err)
			}

			maps := proj.Maps()
			if len(maps) == 0 {
				return fmt.Errorf("%w: project has no maps: %s", ErrExportFailed, projectFile)
			}

			outputPath := *out
			if outputPath == "" {
				outputPath = defaultExportPath(projectFile)
			}

			e, err := newExporter(cmd.OutOrStdout(), args, !*allLayers)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrExportFailed, err)
			}

			if err := e.ExportMap(maps[0], outputPath); err != nil {
				return fmt.Errorf("%w: %w", ErrExportFailed, err)
			}

			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(project, "project", "p", "", "Project file (discovered from the working directory if unset)")
	cmd.Flags().StringVarP(out, "out", "O", "", "Output spreadsheet path (defaults to the project's _Exports folder)")
	cmd.Flags().BoolVar(allLayers, "all-layers", false, "Include layers that are not effectively visible")
	cmd.Flags().BoolVarP(args.quiet, "quiet", "q", false, "Run in quiet mode")

	must(cmd.MarkFlagFilename("project"))
	must(cmd.MarkFlagFilename("out"))

	return cmd
}

// defaultExportPath places the workbook next to the project, inside its
// exports folder.
func defaultExportPath(projectFile string) string {
	projectDir := filepath.Dir(projectFile)
	name := strings.TrimSuffix(filepath.Base(projectFile), paths.ProjectExt)

	return filepath.Join(paths.ExportsDir(projectDir), name+".xlsx")
}

//nolint:ireturn // Multiple concrete types.
func newExporter(w io.Writer, args *ProjectArgs, visibleOnly bool) (tui.Exporter, error) {
	e := export.NewExporter(localhost.NewHost(), export.WithVisibleOnly(visibleOnly))

	if args.GetQuiet() || !isatty.IsTerminal(os.Stdout.Fd()) {
		return e, nil
	}

	return tui.NewExportTUI(w, args.GetLogLevel(), e)
}
