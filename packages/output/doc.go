// Package output formats the results of dispatches checked against
// expectations.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output
//   - JUnit: JUnit XML format for CI integration
//   - TAP: Test Anything Protocol format
//
// Formatters accumulate results and write summaries or whole documents on
// Flush.
package output
