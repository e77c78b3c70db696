package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abdul-hamid-achik/mvctest/packages/mvc"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var modulesAvailableFlag bool

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List the modules an application loads",
	Long: `Build the application from its config and list the loaded modules in
load order, with the modules they depend on and their overlay path.

Modules are Go packages compiled into this binary; --available lists every
module the binary knows about.

Examples:
  mvctest modules -c mvctest.yaml
  mvctest modules --available`,
	RunE: modulesCommand,
}

func init() {
	modulesCmd.Flags().BoolVar(&modulesAvailableFlag, "available", false, "List the modules compiled into this binary")
}

func modulesCommand(cmd *cobra.Command, args []string) error {
	if modulesAvailableFlag {
		for _, name := range mvc.DefaultCatalog.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	app, err := buildApplication(cfg)
	if err != nil {
		return err
	}
	mm, err := app.ModuleManager()
	if err != nil {
		return err
	}

	t := newTable(cmd.OutOrStdout(), "#", "MODULE", "DEPENDS ON", "PATH")
	for i, name := range mm.GetModules() {
		var deps []string
		if m, ok := mm.GetModule(name); ok {
			if d, ok := m.(mvc.DependencyIndicator); ok {
				deps = append(deps, d.Dependencies()...)
				sort.Strings(deps)
			}
		}
		path, _ := cfg.ModulePath(name)
		t.AppendRow([]any{i + 1, color.GreenString(name), strings.Join(deps, ", "), path})
	}
	t.Render()

	if mm.LoadedFromCache() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s merged config loaded from %s\n", color.YellowString("note:"), mm.CachePath())
	}
	return nil
}
