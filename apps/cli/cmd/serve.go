package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/mvctest/packages/core/config"
	"github.com/abdul-hamid-achik/mvctest/packages/coverage"
	"github.com/abdul-hamid-achik/mvctest/packages/server"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	servePortFlag     int
	serveDelayFlag    string
	serveVerboseFlag  bool
	serveWatchFlag    bool
	serveCoverageFlag string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the application over HTTP",
	Long: `Serve the application over HTTP. Every request is dispatched through a
freshly built application, the same way a controller test fixture builds one,
so the pages you click through are the pages your tests assert against.

Sessions persist between requests through a cookie, so flash messages behave
as they do in a fixture reset with persistence kept.

Examples:
  mvctest serve -c mvctest.yaml
  mvctest serve --port 3000 --watch
  mvctest serve --delay 200ms --verbose
  mvctest serve --coverage coverage.html`,
	RunE: serveCommand,
}

func init() {
	serveCmd.Flags().IntVarP(&servePortFlag, "port", "p", 8080, "Port to listen on")
	serveCmd.Flags().StringVarP(&serveDelayFlag, "delay", "d", "0", "Delay to add to all responses (e.g., 100ms, 1s)")
	serveCmd.Flags().BoolVarP(&serveVerboseFlag, "verbose", "v", false, "Log every request")
	serveCmd.Flags().BoolVarP(&serveWatchFlag, "watch", "w", false, "Reload the config when it or a module overlay changes")
	serveCmd.Flags().StringVar(&serveCoverageFlag, "coverage", "", "Write a route coverage report on shutdown (.json, .html or text)")
}

func serveCommand(cmd *cobra.Command, args []string) error {
	var delay time.Duration
	if serveDelayFlag != "0" {
		var err error
		delay, err = time.ParseDuration(serveDelayFlag)
		if err != nil {
			return &exitError{code: ExitUsageError, err: fmt.Errorf("invalid delay value %q: %w", serveDelayFlag, err)}
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	app, err := buildApplication(cfg)
	if err != nil {
		return err
	}

	opts := []server.Option{
		server.WithPort(servePortFlag),
		server.WithDelay(delay),
		server.WithVerbose(serveVerboseFlag),
	}
	var tracker *coverage.Tracker
	if serveCoverageFlag != "" {
		tracker = coverage.NewTracker()
		opts = append(opts, server.WithCoverage(tracker))
	}
	srv := server.NewServer(cfg, opts...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.StartWithContext(ctx); err != nil {
			return &exitError{code: ExitNetworkError, err: err}
		}
		return nil
	})

	if serveWatchFlag {
		path := configFlag
		if path == "" {
			path = findConfigFile()
		}
		if path == "" {
			fmt.Fprintln(cmd.ErrOrStderr(), color.YellowString("no config file found, --watch has nothing to watch"))
		} else {
			g.Go(func() error {
				return srv.Watch(ctx, path, func(c *config.ApplicationConfig) {
					fmt.Fprintf(cmd.OutOrStdout(), "Reloaded %s (modules %v)\n", path, c.Modules)
				})
			})
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Serving modules %v on http://localhost:%d (press Ctrl+C to stop)\n", cfg.Modules, servePortFlag)
	err = g.Wait()

	if tracker != nil {
		r, rerr := app.Router()
		if rerr != nil {
			return errors.Join(err, rerr)
		}
		report := tracker.Analyze(r.Routes())
		if werr := report.WriteFile(serveCoverageFlag); werr != nil {
			return errors.Join(err, werr)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Route coverage %.1f%% written to %s\n", report.CoveragePercent, serveCoverageFlag)
	}
	return err
}

// findConfigFile returns the config file LoadConfig would pick in the
// working directory, or "".
func findConfigFile() string {
	for _, name := range config.ConfigFilenames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}
