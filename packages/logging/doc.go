// Package logging provides subsystem-tagged structured logging for mvctest.
//
// It is a thin layer over log/slog. Until InitForCLI or Init is called the
// package logs nowhere, so test runs stay quiet unless a caller opts in:
//
//	logging.InitForCLI(logging.LevelDebug, os.Stderr)
//	logging.Debug("Router", "matched route %s", name)
//	logging.Warn("Fixture", "additional params are not supported for %s", method)
//	logging.Error("Application", err, "dispatch failed")
//
// Subsystems used across the module: Application, Modules, Router, Dispatch,
// View, Fixture, Loader and CLI.
package logging
