// Package pipeline runs a floorplan search end to end for both the CLI and
// the HTTP API, so caching, run records and artifacts behave the same no
// matter who asked.
//
// A run goes through four steps:
//
//  1. load the module catalog, from a file or from inline modules
//  2. anneal from the initial expression, answered from the cache when an
//     identical search already ran
//  3. place the best expression at its minimum-area shape
//  4. render the requested formats, optionally saving a run record
//
// For example:
//
//	runner := pipeline.NewRunner(c, nil, st, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    CatalogPath: "soc.txt",
//	    Formats:     []string{pipeline.FormatJSON, pipeline.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("soc.svg", result.Artifacts[pipeline.FormatSVG], 0o644)
//
// [Runner.Evaluate] scores a single expression without searching.
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/floorplan"
	fio "github.com/matzehuels/floorplan/pkg/io"
	"github.com/matzehuels/floorplan/pkg/store"
)

// DefaultWidth is the plan drawing width in pixels when Options.Width is
// zero.
const DefaultWidth = 800.0

// Artifact formats. The tree.* formats draw the slicing tree instead of
// the plan.
const (
	FormatJSON    = "json"
	FormatSVG     = "svg"
	FormatPNG     = "png"
	FormatPDF     = "pdf"
	FormatDOT     = "dot"
	FormatTreeSVG = "tree.svg"
	FormatTreePDF = "tree.pdf"
	FormatTreePNG = "tree.png"
)

// ValidFormats holds every format [Render] understands.
var ValidFormats = func() map[string]bool {
	m := make(map[string]bool, len(renderers))
	for f := range renderers {
		m[f] = true
	}
	return m
}()

// Options describes one pipeline run. The exported fields double as the
// JSON body of POST /v1/anneal.
type Options struct {
	// Exactly one catalog source must be set.
	CatalogPath string             `json:"catalog_path,omitempty"`
	Modules     []floorplan.Module `json:"modules,omitempty"`

	// Initial is the starting expression; empty means the chain over the
	// sorted module names.
	Initial string `json:"initial,omitempty"`

	// Schedule overrides the annealing defaults field by field.
	Schedule floorplan.Schedule `json:"schedule"`

	Formats    []string `json:"formats,omitempty"`
	Width      float64  `json:"width,omitempty"`
	Dimensions bool     `json:"dimensions,omitempty"`

	// Refresh ignores a cached result and searches again.
	Refresh bool `json:"refresh,omitempty"`
	// Save writes a run record to the runner's store.
	Save bool `json:"save,omitempty"`

	Logger   *log.Logger           `json:"-"`
	Progress func(floorplan.Stage) `json:"-"`

	validated bool
}

// Result is everything a run produced.
type Result struct {
	Catalog     *floorplan.Catalog
	CatalogHash string

	// Report holds the search summary and the placement.
	Report    *fio.Report
	Artifacts map[string][]byte

	// Run is nil unless Options.Save was set.
	Run *store.Run

	// Interrupted means the context ended the search; Report then holds
	// the best expression seen so far and nothing was cached or saved.
	Interrupted bool

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats times the pipeline steps.
type Stats struct {
	Modules    int
	LoadTime   time.Duration
	AnnealTime time.Duration
	RenderTime time.Duration
}

// CacheInfo reports which steps were served from the cache.
type CacheInfo struct {
	AnnealHit bool
}

// ValidateFormat fails with INVALID_FORMAT unless format is in
// [ValidFormats]. Names are case-sensitive.
func ValidateFormat(format string) error {
	if ValidFormats[format] {
		return nil
	}
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return errs.New(errs.ErrCodeInvalidFormat, "invalid format %q (want one of %s)", format, strings.Join(names, ", "))
}

// ValidateFormats checks each of formats. An empty list is valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the catalog source, the schedule and the
// formats, filling in defaults. Repeated calls are no-ops.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	switch {
	case o.CatalogPath == "" && len(o.Modules) == 0:
		return errs.New(errs.ErrCodeInvalidInput, "catalog_path or modules is required")
	case o.CatalogPath != "" && len(o.Modules) > 0:
		return errs.New(errs.ErrCodeInvalidInput, "catalog_path and modules are mutually exclusive")
	}

	o.Schedule = o.Schedule.WithDefaults()
	if err := o.Schedule.Validate(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetRenderDefaults selects JSON output at [DefaultWidth] and a discarding
// logger where nothing was set.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

// CatalogSource names the catalog in logs and run records: the path, or
// "inline (N modules)".
func (o *Options) CatalogSource() string {
	if o.CatalogPath != "" {
		return o.CatalogPath
	}
	return fmt.Sprintf("inline (%d modules)", len(o.Modules))
}
