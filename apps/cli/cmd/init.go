package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/mvctest/packages/core/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	forceInit   bool
	initModules []string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize an application config",
	Long: `Initialize an application config in the current directory.

This creates:
  - mvctest.yaml                 - Application config listing the modules
  - config/autoload/global.yaml  - Overlay merged over every module's config

Examples:
  mvctest init
  mvctest init --modules Baz,Foo
  mvctest init --force`,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
	initCmd.Flags().StringSliceVarP(&initModules, "modules", "m", nil, "Modules to load after the defaults")
}

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, config.ConfigFilenames[0])
	autoloadDir := filepath.Join(cwd, "config", "autoload")
	globalFile := filepath.Join(autoloadDir, "global.yaml")

	if !forceInit {
		for _, f := range []string{configFile, globalFile} {
			if _, err := os.Stat(f); err == nil {
				return &exitError{code: ExitUsageError, err: fmt.Errorf("file already exists: %s (use --force to overwrite)", f)}
			}
		}
	}

	cfg, err := config.FromModuleList(initModules)
	if err != nil {
		return err
	}
	cfg.ModuleListenerOptions.ConfigGlobPaths = []string{"config/autoload/*.yaml"}
	cfg.ModuleListenerOptions.ConfigCacheEnabled = config.BoolPtr(false)
	cfg.ModuleListenerOptions.ConfigCacheKey = "app"

	if err := cfg.SaveConfig(configFile); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	global := config.ModuleConfig{
		ViewManager: config.ViewManagerConfig{DisplayExceptions: config.BoolPtr(true)},
	}
	data, err := yaml.Marshal(global)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(autoloadDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", autoloadDir, err)
	}
	if err := os.WriteFile(globalFile, data, 0644); err != nil {
		return fmt.Errorf("failed to create overlay file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", globalFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nApplication config initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'mvctest routes' to list the routes it ends up with.\n")
	return nil
}
