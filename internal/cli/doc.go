// Package cli implements the floorplan command-line interface.
//
// This package provides commands for searching slicing floorplans, scoring
// individual expressions, re-rendering saved reports, inspecting saved runs
// and serving the HTTP API. The CLI is built using cobra and supports
// verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - anneal: Search for a minimum-area floorplan of a module catalog
//   - cost: Compute the area of one slicing expression
//   - render: Draw a report written by anneal
//   - runs: List, show and delete saved runs
//   - cache: Manage the local result cache
//   - serve: Run the HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli
