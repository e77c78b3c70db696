// Package cmd implements the mvctest CLI commands using Cobra.
//
// Available commands:
//   - modules: List the modules an application config loads
//   - routes: List the routes the loaded modules contribute
//   - dispatch: Dispatch a URL, print or query the response, check expectations
//   - serve: Serve the application over HTTP, optionally reloading on change
//   - init: Create an application config in the current directory
//   - version: Show mvctest version information
//
// Modules are Go packages registered in mvc.DefaultCatalog, so the CLI only
// sees the modules compiled into its binary. Routes and templates from
// module overlays and config globs are read from disk on every run.
package cmd
