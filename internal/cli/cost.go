package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floorplan/pkg/floorplan"
	fio "github.com/matzehuels/floorplan/pkg/io"
	"github.com/matzehuels/floorplan/pkg/render/plan"
)

// costCommand creates the cost command for scoring a single expression.
func (c *CLI) costCommand() *cobra.Command {
	var (
		svgPath    string
		noCache    bool
		dimensions bool
	)

	cmd := &cobra.Command{
		Use:   "cost [catalog] [expression...]",
		Short: "Compute the area of a slicing expression",
		Long: `Compute the minimum bounding area of one slicing expression.

The expression is postfix: module names are operands, H stacks the second
subtree on top of the first and V places it to the right. It may use any
subset of the catalog, e.g.

  floorplan cost chip.txt "alu reg V rom H"

The expression may also be given as separate arguments.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr := floorplan.ParseExpression(strings.Join(args[1:], " "))
			return c.runCost(cmd.Context(), args[0], expr, svgPath, noCache, dimensions)
		},
	}

	cmd.Flags().StringVar(&svgPath, "svg", "", "also draw the placement to this SVG file")
	cmd.Flags().BoolVar(&dimensions, "dimensions", false, "label modules with their dimensions (with --svg)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runCost loads the catalog and evaluates expr.
func (c *CLI) runCost(ctx context.Context, input string, expr floorplan.Expression, svgPath string, noCache, dimensions bool) error {
	cat, err := fio.ImportCatalog(input)
	if err != nil {
		return fmt.Errorf("load catalog %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	ev, err := runner.Evaluate(ctx, cat, expr)
	if err != nil {
		return err
	}
	prog.done("Evaluated expression", "modules", len(expr.Operands()), "area", ev.Cost)

	printSuccess("Area %s", StyleNumber.Render(formatArea(ev.Cost)))
	printKeyValue("Expression", ev.Expression.String())
	printKeyValue("Bounding box", formatBox(ev.Placement.Width, ev.Placement.Height))
	printKeyValue("Utilization", formatPercent(ev.Placement.Utilization()))

	shapes := make([]string, len(ev.Shapes))
	for i, s := range ev.Shapes {
		shapes[i] = fmt.Sprintf("%.4gx%.4g", s.W, s.H)
	}
	printKeyValue("Shapes", strings.Join(shapes, " "))

	if svgPath != "" {
		opts := []plan.SVGOption{plan.WithTitle(ev.Expression.String())}
		if dimensions {
			opts = append(opts, plan.WithDimensions())
		}
		if err := os.WriteFile(svgPath, plan.RenderSVG(ev.Placement, opts...), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", svgPath, err)
		}
		printFile(svgPath)
	}
	return nil
}
