package main

import (
	"github.com/abdul-hamid-achik/mvctest/apps/cli/cmd"

	// Example modules, so a fresh checkout has something to dispatch to.
	_ "github.com/abdul-hamid-achik/mvctest/internal/testmodules"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cmd.Execute(version, buildTime)
}
