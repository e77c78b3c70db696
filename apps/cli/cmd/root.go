package cmd

import (
	"os"

	"github.com/abdul-hamid-achik/mvctest/packages/core/config"
	"github.com/abdul-hamid-achik/mvctest/packages/logging"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFlag   string
	logLevelFlag string
	noColorFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "mvctest",
	Short: "Inspect and dispatch against an MVC application config.",
	Long: `mvctest loads an application configuration the same way controller
test fixtures do. Use it to see which modules and routes an application ends
up with, to dispatch a URL and query the rendered output, or to serve the
application while you write tests against it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(logLevelFlag)
		if err != nil {
			return err
		}
		logging.InitForCLI(level, cmd.ErrOrStderr())
		if noColorFlag {
			color.NoColor = true
			text.DisableColors()
		}
		return nil
	},
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", getEnvString("MVCTEST_CONFIG", ""), "Path to application config (env: MVCTEST_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", getEnvString("MVCTEST_LOG_LEVEL", "warn"), "Log level: debug, info, warn, error (env: MVCTEST_LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", getEnvBool("MVCTEST_NO_COLOR", false), "Disable colored output (env: MVCTEST_NO_COLOR)")

	rootCmd.AddCommand(modulesCmd)
	rootCmd.AddCommand(routesCmd)
	rootCmd.AddCommand(dispatchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
}

// loadConfig reads --config, or searches the working directory when it is
// empty.
func loadConfig() (*config.ApplicationConfig, error) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, &exitError{code: ExitConfigError, err: err}
	}
	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
