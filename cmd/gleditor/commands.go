package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/surivin/Global-List-Editor/pkg/config"
	"github.com/surivin/Global-List-Editor/pkg/editor"
	"github.com/surivin/Global-List-Editor/pkg/executor/tui"
	"github.com/surivin/Global-List-Editor/pkg/globallist"
	"github.com/surivin/Global-List-Editor/pkg/witadmin"
)

// maxParallelExports bounds concurrent witadmin processes for export --all
const maxParallelExports = 4

func newRootCmd(a *app) *cobra.Command {
	var environment string

	root := &cobra.Command{
		Use:   "gleditor",
		Short: "Edit work item tracking global lists",
		Long: `gleditor exports the global lists of an environment with witadmin,
lets you search them and add or delete items, and imports the result back.

Run without arguments to start the interactive interface.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ed := a.newEditor(config.GetUI().RefreshDelayValue())
			return tui.NewExecutor(ed, a.logger, environment).Run(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.gleditor/config.json, or $"+config.EnvConfigPath+")")
	root.PersistentFlags().StringVar(&a.settingsPath, "settings", "", "YAML app settings with EnvironmentList, <env>Url and <env>DownloadLocation")
	root.PersistentFlags().StringVar(&a.witadminPath, "witadmin", "", "witadmin executable (default from config, or $"+config.EnvWitadmin+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	root.Flags().StringVarP(&environment, "env", "e", "", "environment to select on startup")

	root.AddCommand(
		envsCmd(),
		listsCmd(a),
		itemsCmd(a),
		addCmd(a),
		deleteCmd(a),
		exportCmd(a),
		importCmd(a),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gleditor v%s\n", version)
		},
	}
}

func envsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "envs",
		Short: "List the configured environments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			envs := config.GetEnvironments().All()
			if len(envs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No environments configured. Use 'gleditor envs add' or --settings.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderEnvironments(envs))
			return nil
		},
	}
	cmd.AddCommand(envsAddCmd(), envsImportCmd())
	return cmd
}

func renderEnvironments(envs []config.Environment) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NAME", "COLLECTION URL", "DOWNLOAD LOCATION")
	for _, env := range envs {
		t.Row(env.Name, env.URL, env.DownloadDir)
	}
	return t.Render()
}

func envsAddCmd() *cobra.Command {
	var env config.Environment

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add or update an environment and save the config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env.Name = args[0]
			if err := config.GetEnvironments().Upsert(env); err != nil {
				return err
			}
			if err := config.Global().SaveAll(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved environment %s\n", env.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&env.URL, "url", "", "collection URL")
	cmd.Flags().StringVar(&env.DownloadDir, "dir", "", "download location")
	return cmd
}

func envsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <settings.yaml>",
		Short: "Merge environments from an app settings file and save the config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadAppSettings(args[0])
			if err != nil {
				return err
			}
			if err := config.GetEnvironments().MergeAppSettings(settings); err != nil {
				return err
			}
			if err := config.Global().SaveAll(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d environment(s)\n", len(settings.EnvironmentNames()))
			return nil
		},
	}
}

func listsCmd(a *app) *cobra.Command {
	var (
		export bool
		counts bool
		search string
	)

	cmd := &cobra.Command{
		Use:   "lists <env>",
		Short: "Print the global list names of an environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := a.openEnvironment(cmd, args[0], export)
			if err != nil {
				return err
			}
			if counts {
				return printListCounts(cmd.OutOrStdout(), ed.Snapshot().DownloadLocation, search)
			}
			ed.SetListSearch(search)
			for _, l := range ed.FilteredLists() {
				fmt.Fprintln(cmd.OutOrStdout(), l.Name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&export, "export", false, "export from the environment before reading")
	cmd.Flags().BoolVarP(&counts, "counts", "c", false, "print the number of items of each list")
	cmd.Flags().StringVarP(&search, "search", "s", "", "substring or glob filter")
	cmd.AddCommand(listsAddCmd(a), listsRemoveCmd(a))
	return cmd
}

// printListCounts prints "<name>\t<items>" for the lists matching search.
func printListCounts(w io.Writer, location, search string) error {
	doc, err := globallist.Load(location)
	if err != nil {
		return err
	}
	all := doc.Lists()
	for _, name := range globallist.Filter(all.Names(), search) {
		l, _ := all.Find(name)
		fmt.Fprintf(w, "%s\t%d\n", name, len(l.Values()))
	}
	return nil
}

func listsAddCmd(a *app) *cobra.Command {
	var flags editFlags

	cmd := &cobra.Command{
		Use:   "add <env> <name>",
		Short: "Add an empty global list to the working file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editLists(cmd, args[0], flags, func(d *globallist.Document) error {
				return d.AddList(strings.TrimSpace(args[1]))
			}, "Added global list "+args[1])
		},
	}
	flags.register(cmd)
	return cmd
}

func listsRemoveCmd(a *app) *cobra.Command {
	var flags editFlags

	cmd := &cobra.Command{
		Use:   "remove <env> <name>",
		Short: "Remove a global list and its items from the working file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editLists(cmd, args[0], flags, func(d *globallist.Document) error {
				return d.RemoveList(args[1])
			}, "Removed global list "+args[1])
		},
	}
	flags.register(cmd)
	return cmd
}

// editLists applies fn to the working file of env and rereads the lists.
func (a *app) editLists(cmd *cobra.Command, env string, flags editFlags, fn func(*globallist.Document) error, done string) error {
	ed, err := a.openEnvironment(cmd, env, flags.export)
	if err != nil {
		return err
	}
	if err := globallist.Update(ed.Snapshot().DownloadLocation, fn); err != nil {
		return err
	}
	if err := ed.Reload(); err != nil {
		return err
	}
	a.logger.Infof("%s in %s", done, env)
	fmt.Fprintln(cmd.OutOrStdout(), done)
	return a.maybeApply(cmd, ed, flags)
}

func itemsCmd(a *app) *cobra.Command {
	var (
		export bool
		search string
	)

	cmd := &cobra.Command{
		Use:   "items <env> <list>",
		Short: "Print the items of a global list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := a.openList(cmd, args[0], args[1], export)
			if err != nil {
				return err
			}
			ed.SetItemSearch(search)
			for _, it := range ed.FilteredItems() {
				fmt.Fprintln(cmd.OutOrStdout(), it.Value)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&export, "export", false, "export from the environment before reading")
	cmd.Flags().StringVarP(&search, "search", "s", "", "substring or glob filter")
	return cmd
}

// openList opens env and selects list.
func (a *app) openList(cmd *cobra.Command, env, list string, export bool) (*editor.Editor, error) {
	ed, err := a.openEnvironment(cmd, env, export)
	if err != nil {
		return nil, err
	}
	if err := ed.SelectList(list); err != nil {
		return nil, err
	}
	return ed, nil
}

// editFlags are shared by add and delete
type editFlags struct {
	export bool
	apply  bool
	yes    bool
}

func (f *editFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.export, "export", false, "export from the environment before editing")
	cmd.Flags().BoolVar(&f.apply, "apply", false, "import the working file into the environment afterwards")
	cmd.Flags().BoolVarP(&f.yes, "yes", "y", false, "do not ask before importing")
}

func addCmd(a *app) *cobra.Command {
	var flags editFlags

	cmd := &cobra.Command{
		Use:   "add <env> <list> <value>",
		Short: "Add an item to a global list in the working file",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := a.openList(cmd, args[0], args[1], flags.export)
			if err != nil {
				return err
			}
			ed.SetItemSearch(args[2])
			value, err := ed.AddItem()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q to %s\n", value, args[1])
			return a.maybeApply(cmd, ed, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func deleteCmd(a *app) *cobra.Command {
	var flags editFlags

	cmd := &cobra.Command{
		Use:   "delete <env> <list> <value>",
		Short: "Delete an item from a global list in the working file, ignoring case",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := a.openList(cmd, args[0], args[1], flags.export)
			if err != nil {
				return err
			}
			ed.SetItemSearch(args[2])
			if !ed.CanDeleteItem() {
				return fmt.Errorf("%s has no item %q", args[1], args[2])
			}
			values, err := ed.DeleteItems()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s from %s\n", strings.Join(values, ", "), args[1])
			return a.maybeApply(cmd, ed, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) maybeApply(cmd *cobra.Command, ed *editor.Editor, flags editFlags) error {
	if !flags.apply {
		return nil
	}
	return a.apply(cmd, ed, flags.yes)
}

// apply imports the working file after confirming on stdin unless yes is set.
func (a *app) apply(cmd *cobra.Command, ed *editor.Editor, yes bool) error {
	state := ed.Snapshot()
	if !yes {
		ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(),
			fmt.Sprintf("Import %s into %s (%s)?", state.DownloadLocation, state.SelectedEnvironment, state.EnvironmentURL))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "Import skipped")
			return nil
		}
	}

	res, err := ed.ApplyChanges(cmd.Context())
	printResult(cmd.OutOrStdout(), res)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported into %s\n", state.SelectedEnvironment)
	return nil
}

func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func printResult(w io.Writer, res witadmin.Result) {
	if out := strings.TrimSpace(res.Stdout); out != "" {
		fmt.Fprintln(w, out)
	}
	if errOut := strings.TrimSpace(res.Stderr); errOut != "" {
		fmt.Fprintln(w, errOut)
	}
}

func importCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import <env>",
		Short: "Import the working file into the environment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := config.GetEnvironments().Lookup(args[0]); !ok {
				return fmt.Errorf("unknown environment %q", args[0])
			}
			ed := a.newEditor(0)
			ed.SelectEnvironment(args[0])
			return a.apply(cmd, ed, yes)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func exportCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "export [env...]",
		Short: "Download the entire set of global lists to <download location>/<env>_GlobalLists.xml",
		RunE: func(cmd *cobra.Command, args []string) error {
			envs := args
			if all {
				envs = config.GetEnvironments().Names()
			}
			if len(envs) == 0 {
				return errors.New("name at least one environment or use --all")
			}
			return a.exportAll(cmd, envs)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "export every configured environment")
	return cmd
}

// exportAll downloads several environments concurrently. Every environment
// is attempted, and the failures are reported together.
func (a *app) exportAll(cmd *cobra.Command, envs []string) error {
	var (
		mu   sync.Mutex
		errs []error
	)
	out := cmd.OutOrStdout()

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(maxParallelExports)
	for _, env := range envs {
		g.Go(func() error {
			ed := a.newEditor(0)
			ed.SelectEnvironment(env)

			path, _, err := ed.DownloadAll(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", env, err))
				fmt.Fprintf(out, "✗ %s: %v\n", env, err)
				return nil
			}
			fmt.Fprintf(out, "✓ %s -> %s\n", env, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return errors.Join(errs...)
}
