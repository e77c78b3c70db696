package cmd

import (
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the routes of an application",
	Long: `Build the application from its config and list its routes in matching
order, with the controller and action each one dispatches to.

Examples:
  mvctest routes -c mvctest.yaml`,
	RunE: routesCommand,
}

func routesCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	app, err := buildApplication(cfg)
	if err != nil {
		return err
	}
	r, err := app.Router()
	if err != nil {
		return err
	}

	t := newTable(cmd.OutOrStdout(), "NAME", "TYPE", "ROUTE", "METHODS", "CONTROLLER", "ACTION")
	for _, route := range r.Routes() {
		methods := "*"
		if len(route.Methods) > 0 {
			methods = strings.Join(route.Methods, ",")
		}
		t.AppendRow([]any{
			color.GreenString(route.Name),
			string(route.Type),
			route.Pattern,
			methods,
			route.Defaults["controller"],
			route.Defaults["action"],
		})
	}
	t.Render()
	return nil
}
