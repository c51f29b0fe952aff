package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mapworks-io/protool/pkg/bundle"
	"github.com/mapworks-io/protool/pkg/host/localhost"
	"github.com/mapworks-io/protool/pkg/paths"
	"github.com/mapworks-io/protool/pkg/tui"
)

const (
	bundleDesc = `This command creates a contractor-ready project: it clones a template and
clips every feature layer of the first map to a mask dataset. Empty clip
results are dropped from the new project.
`
	bundleExample = `  # Bundle everything intersecting the mask into a new dated project
  protool bundle Huachuca --mask ./search.gpkg/area

  # Restrict the bundle to layers currently visible in the template map
  protool bundle Huachuca --mask ./search.gpkg/area --visible-only
`

	contractorTemplate = "_ContractorTemplate"
)

var ErrBundleFailed = errors.New("bundle failed")

// NewBundleCmd returns the bundle command.
func NewBundleCmd(arg *RootArgs) *cobra.Command {
	args := NewProjectArgs(arg)

	mask := new(string)
	noDate := new(bool)
	template := new(string)
	open := new(bool)
	visibleOnly := new(bool)

	cmd := &cobra.Command{
		Use:     "bundle [name]",
		Short:   "Create a project with layers clipped to a mask",
		Long:    bundleDesc,
		Example: bundleExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, posArgs []string) error {
			ws, err := openWorkspace(args.GetRoot())
			if err != nil {
				return fmt.Errorf("%w: %w", ErrBundleFailed, err)
			}

			withDate := ws.cfg.UseDatePrefix() && !*noDate
			name := paths.ProjectName(posArgs[0], time.Now(), withDate)

			proj, err := scaffoldProject(cmd.OutOrStdout(), args, ws, *template, name)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrBundleFailed, err)
			}

			b, err := newBundler(cmd.OutOrStdout(), args, *visibleOnly)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrBundleFailed, err)
			}

			containerPath := proj.DefaultContainer()

			if err := b.ClipMap(proj, containerPath, *mask); err != nil {
				return fmt.Errorf("%w: %w", ErrBundleFailed, err)
			}

			if *open {
				if err := launchProject(ws.cfg, proj.Path()); err != nil {
					return fmt.Errorf("%w: %w", ErrBundleFailed, err)
				}
			}

			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(args.root, "root", "r", "", "Workspace root (discovered from the working directory if unset)")
	if err := cmd.MarkPersistentFlagDirname("root"); err != nil {
		panic(err)
	}

	cmd.PersistentFlags().BoolVarP(args.quiet, "quiet", "q", false, "Run in quiet mode")

	cmd.Flags().StringVarP(mask, "mask", "m", "", "Dataset to clip against (required)")
	cmd.Flags().BoolVar(noDate, "no-date", false, "Skip the date prefix on the project name")
	cmd.Flags().StringVarP(template, "template", "t", contractorTemplate, "Template project name")
	cmd.Flags().BoolVarP(open, "open", "o", false, "Open the project when done")
	cmd.Flags().BoolVar(visibleOnly, "visible-only", false, "Clip only effectively visible layers")

	must(cmd.MarkFlagRequired("mask"))

	return cmd
}

//nolint:ireturn // Multiple concrete types.
func newBundler(w io.Writer, args *ProjectArgs, visibleOnly bool) (tui.Bundler, error) {
	b := bundle.NewBundler(localhost.NewHost(), bundle.WithVisibleOnly(visibleOnly))

	if args.GetQuiet() || !isatty.IsTerminal(os.Stdout.Fd()) {
		return b, nil
	}

	return tui.NewBundleTUI(w, args.GetLogLevel(), b)
}
