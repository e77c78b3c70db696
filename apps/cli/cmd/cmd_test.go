package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/abdul-hamid-achik/mvctest/internal/testmodules"
	"github.com/abdul-hamid-achik/mvctest/packages/core/config"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags() {
	configFlag = ""
	logLevelFlag = "warn"
	noColorFlag = true
	modulesAvailableFlag = false
	dispatchMethodFlag = "GET"
	dispatchDataFlag = nil
	dispatchXHRFlag = false
	dispatchIncludeFlag = false
	dispatchQueryFlag = ""
	dispatchXPathFlag = ""
	dispatchNamespaceFlag = map[string]string{}
	dispatchStatusFlag = 0
	dispatchRouteFlag = ""
	dispatchControllerFlag = ""
	dispatchActionFlag = ""
	dispatchTemplateFlag = ""
	dispatchOutputFlag = "console"
	dispatchVerboseFlag = false
	forceInit = false
	initModules = nil

	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	}
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(append(args, "--no-color"))
	err := rootCmd.Execute()
	return buf.String(), err
}

func writeConfig(t *testing.T, modules ...string) string {
	t.Helper()
	cfg, err := config.FromModuleList(modules)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "mvctest.yaml")
	require.NoError(t, cfg.SaveConfig(path))
	return path
}

func TestVersionCommand(t *testing.T) {
	version = "1.2.3"
	t.Cleanup(func() { version = "dev" })

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mvctest version 1.2.3")
}

func TestModulesCommand(t *testing.T) {
	out, err := execute(t, "modules", "-c", writeConfig(t, "Baz", "Foo", "Bar"))
	require.NoError(t, err)
	assert.Contains(t, out, "Router")
	assert.Contains(t, out, "Baz")
	assert.Contains(t, out, "Bar")
}

func TestModulesCommand_Available(t *testing.T) {
	out, err := execute(t, "modules", "--available")
	require.NoError(t, err)
	assert.Contains(t, out, "Baz")
	assert.Contains(t, out, "ModuleWithEvents")
}

func TestModulesCommand_UnknownModule(t *testing.T) {
	_, err := execute(t, "modules", "-c", writeConfig(t, "Unknown"))
	require.Error(t, err)
	assert.Equal(t, ExitApplicationError, exitCode(err))
	assert.Contains(t, err.Error(), "could not be initialized")
}

func TestModulesCommand_MissingConfig(t *testing.T) {
	_, err := execute(t, "modules", "-c", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, exitCode(err))
}

func TestRoutesCommand(t *testing.T) {
	out, err := execute(t, "routes", "-c", writeConfig(t, "Baz"))
	require.NoError(t, err)
	assert.Contains(t, out, "myroute")
	assert.Contains(t, out, "/tests")
	assert.Contains(t, out, "baz_index")
	assert.Contains(t, out, "/with-param/:param")
}

func TestDispatchCommand(t *testing.T) {
	out, err := execute(t, "dispatch", "/tests", "-c", writeConfig(t, "Baz"))
	require.NoError(t, err)
	assert.Contains(t, out, `<div id="content">foo</div>`)
}

func TestDispatchCommand_Query(t *testing.T) {
	cfg := writeConfig(t, "Baz")

	out, err := execute(t, "dispatch", "/tests", "-c", cfg, "-X", "POST", "-d", "num_post=2", "--query", "div.post")
	require.NoError(t, err)
	assert.Contains(t, out, "2 node(s) matched div.post")

	out, err = execute(t, "dispatch", "/register-xpath-namespace", "-c", cfg,
		"--xpath", "//atom:entry/atom:title", "--ns", "atom=http://www.w3.org/2005/Atom")
	require.NoError(t, err)
	assert.Contains(t, out, "Second entry")
	assert.Contains(t, out, "2 node(s) matched")
}

func TestDispatchCommand_Expectations(t *testing.T) {
	cfg := writeConfig(t, "Baz")

	out, err := execute(t, "dispatch", "/redirect", "-c", cfg, "-i",
		"--expect-status", "302", "--expect-route", "redirect", "--expect-action", "redirect")
	require.NoError(t, err)
	assert.Contains(t, out, "HTTP/1.1 302")
	assert.Contains(t, out, "https://www.zend.com")

	out, err = execute(t, "dispatch", "/tests", "-c", cfg, "--expect-status", "404", "--expect-route", "other")
	require.Error(t, err)
	assert.Equal(t, ExitAssertionFailure, exitCode(err))
	assert.Contains(t, out, "FAIL Failed asserting response code \"404\", actual status code is \"200\"")
	assert.Contains(t, out, `Failed asserting matched route name was "other", actual matched route name is "myroute"`)
}

func TestDispatchCommand_JUnitReport(t *testing.T) {
	out, err := execute(t, "dispatch", "/tests", "-c", writeConfig(t, "Baz"),
		"--expect-status", "200", "--expect-route", "other", "--output", "junit")
	require.Error(t, err)
	assert.Equal(t, ExitAssertionFailure, exitCode(err))
	assert.Contains(t, out, `<testsuite name="GET /tests" tests="2" failures="1"`)
	assert.Contains(t, out, `<testcase name="status 200" classname="GET /tests"></testcase>`)
	assert.NotContains(t, out, `<div id="content">`)
}

func TestDispatchCommand_UnknownOutput(t *testing.T) {
	_, err := execute(t, "dispatch", "/tests", "-c", writeConfig(t, "Baz"), "--output", "xml")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCode(err))
}

func TestDispatchCommand_ApplicationError(t *testing.T) {
	out, err := execute(t, "dispatch", "/exception", "-c", writeConfig(t, "Baz"), "--expect-status", "500")
	require.NoError(t, err)
	assert.Contains(t, out, "application error:")
	assert.Contains(t, out, "Foo error !")
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	out, err := execute(t, "init", "--modules", "Baz")
	require.NoError(t, err)
	assert.Contains(t, out, "Created:")

	cfg, err := config.LoadConfig(filepath.Join(dir, "mvctest.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Router", "Baz"}, cfg.Modules)

	_, err = execute(t, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	out, err = execute(t, "routes")
	require.NoError(t, err)
	assert.Contains(t, out, "myroute")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, exitCode(nil))
	assert.Equal(t, ExitUsageError, exitCode(errors.New("boom")))
	assert.Equal(t, ExitConfigError, exitCode(&exitError{code: ExitConfigError, err: errors.New("bad")}))
}
