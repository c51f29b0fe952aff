package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mapworks-io/protool/pkg/host"
	"github.com/mapworks-io/protool/pkg/host/localhost"
	"github.com/mapworks-io/protool/pkg/layers"
	"github.com/mapworks-io/protool/pkg/paths"
	"github.com/mapworks-io/protool/pkg/scaffold"
	"github.com/mapworks-io/protool/pkg/tui"
)

const (
	projectDesc = `This command manages projects in a workspace
`
	projectExample = `  protool project <command> [arguments]...
  # Create a project from the base template
  protool project new Huachuca

  # Create a project without the date prefix, then open it
  protool project new Huachuca --no-date --open

  # Describe a project
  protool project info ./20250101_Huachuca/20250101_Huachuca.mapx
`
)

var (
	ErrProjectNewFailed  = errors.New("project new failed")
	ErrProjectInfoFailed = errors.New("project info failed")
)

// NewProjectCmd returns the project command.
func NewProjectCmd(arg *RootArgs) *cobra.Command {
	args := NewProjectArgs(arg)

	cmd := &cobra.Command{
		Use:          "project",
		Short:        "Project management",
		Long:         projectDesc,
		Example:      projectExample,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(args.root, "root", "r", "", "Workspace root (discovered from the working directory if unset)")
	if err := cmd.MarkPersistentFlagDirname("root"); err != nil {
		panic(err)
	}

	cmd.PersistentFlags().BoolVarP(args.quiet, "quiet", "q", false, "Run in quiet mode")

	cmd.AddCommand(NewProjectNewCmd(args))
	cmd.AddCommand(NewProjectInfoCmd(args))

	return cmd
}

func NewProjectNewCmd(args *ProjectArgs) *cobra.Command {
	noDate := new(bool)
	template := new(string)
	open := new(bool)

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a project from a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, posArgs []string) error {
			ws, err := openWorkspace(args.GetRoot())
			if err != nil {
				return fmt.Errorf("%w: %w", ErrProjectNewFailed, err)
			}

			templateName := *template
			if templateName == "" {
				templateName = ws.cfg.Template
			}

			withDate := ws.cfg.UseDatePrefix() && !*noDate
			name := paths.ProjectName(posArgs[0], time.Now(), withDate)

			proj, err := scaffoldProject(cmd.OutOrStdout(), args, ws, templateName, name)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrProjectNewFailed, err)
			}

			if *open {
				if err := launchProject(ws.cfg, proj.Path()); err != nil {
					return fmt.Errorf("%w: %w", ErrProjectNewFailed, err)
				}
			}

			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().BoolVar(noDate, "no-date", false, "Skip the date prefix on the project name")
	cmd.Flags().StringVarP(template, "template", "t", "", "Template project name (overrides workspace preferences)")
	cmd.Flags().BoolVarP(open, "open", "o", false, "Open the project when done")

	return cmd
}

// scaffoldProject creates the project folder layout and clones the
// template into it. It is shared by "project new" and "bundle".
func scaffoldProject(w io.Writer, args *ProjectArgs, ws *workspace, templateName, name string) (host.Project, error) {
	projectsRoot := ws.projectsRoot()

	projectDir, err := paths.CreateProjectDirs(projectsRoot, name, ws.cfg.Folders...)
	if err != nil {
		return nil, fmt.Errorf("create project folders: %w", err)
	}

	extraFolders := append([]string{paths.ExportsDir(projectDir)}, ws.cfg.ExtraConnections...)

	sc, err := newScaffolder(w, args,
		scaffold.WithContainerPath(paths.ContainerPath(projectDir, name)),
		scaffold.WithExtraFolders(extraFolders...),
	)
	if err != nil {
		return nil, err
	}

	proj, err := sc.Scaffold(
		paths.TemplateFile(projectsRoot, templateName),
		paths.ProjectFile(projectDir, name),
	)
	if err != nil {
		return nil, fmt.Errorf("scaffold project: %w", err)
	}

	return proj, nil
}

//nolint:ireturn // Multiple concrete types.
func newScaffolder(w io.Writer, args *ProjectArgs, opts ...scaffold.Option) (tui.Scaffolder, error) {
	sc := scaffold.NewScaffolder(localhost.NewHost(), opts...)

	if args.GetQuiet() || !isatty.IsTerminal(os.Stdout.Fd()) {
		return sc, nil
	}

	return tui.NewScaffoldTUI(w, args.GetLogLevel(), sc)
}

// projectInfo mirrors the environment description produced for a project:
// where it lives, what it references, and whether those references exist.
type projectInfo struct {
	ProjectPath            string           `yaml:"projectPath"`
	WorkspaceRoot          string           `yaml:"workspaceRoot"`
	HomeFolder             string           `yaml:"homeFolder"`
	HomeFolderExists       bool             `yaml:"homeFolderExists"`
	DefaultContainer       string           `yaml:"defaultContainer"`
	DefaultContainerExists bool             `yaml:"defaultContainerExists"`
	FolderConnections      []connectionInfo `yaml:"folderConnections"`
	Maps                   []mapInfo        `yaml:"maps"`
}

type connectionInfo struct {
	Path   string `yaml:"path"`
	Alias  string `yaml:"alias,omitempty"`
	IsHome bool   `yaml:"isHome"`
	Exists bool   `yaml:"exists"`
}

type mapInfo struct {
	Name          string `yaml:"name"`
	Layers        int    `yaml:"layers"`
	FeatureLayers int    `yaml:"featureLayers"`
}

func NewProjectInfoCmd(args *ProjectArgs) *cobra.Command {
	return &cobra.Command{
		Use:   "info [path]",
		Short: "Describe a project environment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, posArgs []string) error {
			pathFlag := ""
			if len(posArgs) == 1 {
				pathFlag = posArgs[0]
			}

			projectFile, err := resolveProjectFile(pathFlag)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrProjectInfoFailed, err)
			}

			info, err := describeProject(localhost.NewHost(), projectFile)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrProjectInfoFailed, err)
			}

			out, err := yaml.Marshal(info)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrProjectInfoFailed, err)
			}

			fmt.Fprint(cmd.OutOrStdout(), string(out))

			return nil
		},
		SilenceUsage: true,
	}
}

func describeProject(h host.Host, projectFile string) (*projectInfo, error) {
	proj, err := h.OpenProject(projectFile)
	if err != nil {
		return nil, err
	}

	info := &projectInfo{
		ProjectPath:      proj.Path(),
		WorkspaceRoot:    paths.WorkspaceRootFromProject(proj.Path()),
		HomeFolder:       proj.HomeFolder(),
		DefaultContainer: proj.DefaultContainer(),
	}

	if info.HomeFolder != "" {
		if info.HomeFolderExists, err = h.Exists(info.HomeFolder); err != nil {
			return nil, err
		}
	}

	if info.DefaultContainer != "" {
		if info.DefaultContainerExists, err = h.Exists(info.DefaultContainer); err != nil {
			return nil, err
		}
	}

	for _, conn := range proj.Connections() {
		exists, err := h.Exists(conn.Path)
		if err != nil {
			return nil, err
		}

		info.FolderConnections = append(info.FolderConnections, connectionInfo{
			Path:   conn.Path,
			Alias:  conn.Alias,
			IsHome: conn.IsHome,
			Exists: exists,
		})
	}

	for _, m := range proj.Maps() {
		featureLayers, err := layers.Collect(m.Layers(), layers.Options{})
		if err != nil {
			return nil, err
		}

		info.Maps = append(info.Maps, mapInfo{
			Name:          m.Name(),
			Layers:        len(m.Layers()),
			FeatureLayers: len(featureLayers),
		})
	}

	return info, nil
}

type ProjectArgs struct {
	root  *string
	quiet *bool
	*RootArgs
}

func NewProjectArgs(args *RootArgs) *ProjectArgs {
	return &ProjectArgs{
		root:     new(string),
		quiet:    new(bool),
		RootArgs: args,
	}
}

func (a *ProjectArgs) GetRoot() string {
	return *a.root
}

func (a *ProjectArgs) GetQuiet() bool {
	return *a.quiet
}
