// Package pkg provides the core libraries for slicing floorplan optimization.
//
// # Overview
//
// A floorplan packs rectangular modules into a bounding box using only
// horizontal and vertical cuts. Floorplans are encoded as normalized Polish
// expressions and improved by simulated annealing over three local moves.
// The pkg directory is organized into four main areas:
//
//  1. [floorplan] - Domain logic (expressions, cost evaluation, moves, annealing)
//  2. [cache], [store] - Infrastructure (result caching, run persistence)
//  3. [io], [render] - Catalog input, report output and visualization
//  4. [pipeline], [server] - Orchestration shared by the CLI and the HTTP API
//
// # Architecture
//
// The typical data flow:
//
//	Module catalog (text or TOML)
//	         ↓
//	    [io] package (parse catalog)
//	         ↓
//	    [floorplan] package (anneal, place)
//	         ↓
//	    [render] package (plan SVG, slicing tree DOT/SVG)
//	         ↓
//	    SVG/PDF/PNG/DOT/JSON output
//
// # Quick Start
//
// Anneal a catalog and render the best floorplan:
//
//	import (
//	    "context"
//	    "github.com/matzehuels/floorplan/pkg/floorplan"
//	    "github.com/matzehuels/floorplan/pkg/io"
//	    "github.com/matzehuels/floorplan/pkg/render/plan"
//	)
//
//	// 1. Load modules
//	c, _ := io.ImportCatalog("modules.txt")
//
//	// 2. Anneal from the chain expression
//	a := floorplan.NewAnnealer(c, floorplan.DefaultSchedule())
//	res, _ := a.Run(context.Background(), floorplan.Chain(c.Names()))
//
//	// 3. Realize the best expression
//	p, _ := floorplan.Place(res.Best, c)
//
//	// 4. Render to SVG
//	svg := plan.RenderSVG(p, plan.WithDimensions())
//
// # Main Packages
//
// [floorplan] - Modules and catalogs, expression tokens and validity checks,
// the shape-function cost evaluator with Pareto pruning, the M1/M2/M3 moves,
// the annealing schedule and driver, slicing trees and placements.
//
// [errors] - Structured error codes shared by every entry point.
//
// [io] - Catalog readers (text and TOML) and the JSON run report.
//
// [render] - Format conversion (SVG to PDF/PNG).
//
//   - [render/plan]: Draw a placement as an SVG floorplan
//   - [render/tree]: Draw the slicing tree with Graphviz
//
// [cache] - Content-addressed result cache with file, Redis and null backends.
//
// [store] - Run history with file, MongoDB and null backends.
//
// [observability] - Hook registry for annealing, cache and HTTP events.
//
// [pipeline] - Complete load → anneal → render pipeline used by the CLI and
// the API. Ensures consistent caching and persistence across entry points.
//
// [config] - TOML configuration for schedules and backends.
//
// [server] - JSON HTTP API over the pipeline.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/floorplan/...          # Specific package
//	go test -run Example                 # Examples only
//
// [floorplan]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/floorplan
// [errors]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/errors
// [io]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/render
// [render/plan]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/render/plan
// [render/tree]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/render/tree
// [cache]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/store
// [observability]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/observability
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/config
// [server]: https://pkg.go.dev/github.com/matzehuels/floorplan/pkg/server
package pkg
