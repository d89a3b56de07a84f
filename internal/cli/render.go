package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floorplan/pkg/floorplan"
	fio "github.com/matzehuels/floorplan/pkg/io"
	"github.com/matzehuels/floorplan/pkg/pipeline"
)

// renderCommand creates the render command for drawing a saved report.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [report.json]",
		Short: "Render a search report without searching again",
		Long: `Render a search report without searching again.

The render command takes a report written by 'anneal' (the .report.json file)
and draws its best floorplan in the requested formats. The report carries the
module catalog, so the original catalog file is not needed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if formatsStr == "" {
				opts.Formats = []string{pipeline.FormatSVG}
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: report path without extension)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, tree.svg, tree.pdf, tree.png (comma-separated)")
	cmd.Flags().Float64Var(&opts.Width, "width", pipeline.DefaultWidth, "plan drawing width in pixels")
	cmd.Flags().BoolVar(&opts.Dimensions, "dimensions", false, "label modules with their dimensions")

	return cmd
}

// runRender loads the report and renders it.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string) error {
	rep, err := fio.ImportReport(input)
	if err != nil {
		return fmt.Errorf("load report %s: %w", input, err)
	}
	c.Logger.Debug("loaded report", "best", rep.Best.String(), "cost", rep.BestCost)

	if rep.Placement == nil {
		cat, err := rep.CatalogOf()
		if err != nil {
			return err
		}
		if rep.Placement, err = floorplan.Place(rep.Best, cat); err != nil {
			return err
		}
	}

	opts.Logger = c.Logger
	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Rendering "+input)
	spinner.Start()
	artifacts, err := pipeline.Render(ctx, rep, opts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return err
	}
	spinner.Stop()
	prog.done("Rendered report", "formats", len(artifacts), "best", rep.Best.String())

	base := basePath(output, trimReportSuffix(input))
	paths, err := writeArtifacts(artifacts, opts.Formats, base)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s (area %.6g)", rep.Best, rep.BestCost)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// trimReportSuffix maps "chip.report.json" to "chip.json" so derived file
// names line up with those written by anneal.
func trimReportSuffix(path string) string {
	if base, ok := strings.CutSuffix(path, ".report.json"); ok && base != "" {
		return base + ".json"
	}
	return path
}
