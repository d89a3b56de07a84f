package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/floorplan/pkg/floorplan"
	"github.com/matzehuels/floorplan/pkg/pipeline"
)

// annealFlags holds the command-line flags for the anneal command.
type annealFlags struct {
	output     string
	formats    string
	expr       string
	noCache    bool
	refresh    bool
	save       bool
	watch      bool
	width      float64
	dimensions bool
	schedule   floorplan.Schedule
}

// annealCommand creates the anneal command, the main entry point of the tool.
func (c *CLI) annealCommand() *cobra.Command {
	flags := annealFlags{schedule: floorplan.DefaultSchedule()}

	cmd := &cobra.Command{
		Use:   "anneal [catalog]",
		Short: "Search for a minimum-area slicing floorplan",
		Long: `Search for a minimum-area slicing floorplan by simulated annealing.

The catalog is a text file with one "name area aspect_ratio" line per module
(blank lines and # comments are ignored), or a .toml file with [[module]]
tables. The search starts from the chain "m1 m2 V m3 V ..." over the sorted
module names unless --expr gives a starting expression.

Results are cached: the same catalog, starting expression and schedule
(including the seed) always produce the same floorplan.

Schedule flags override the [anneal] section of the config file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := pipeline.Options{
				CatalogPath: args[0],
				Initial:     flags.expr,
				Schedule:    mergeSchedule(cfg.Anneal, flags.schedule, cmd.Flags()),
				Formats:     parseFormats(flags.formats),
				Width:       flags.width,
				Dimensions:  flags.dimensions,
				Refresh:     flags.refresh,
				Save:        flags.save,
				Logger:      c.Logger,
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runAnneal(cmd.Context(), opts, flags)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output base path (default: catalog path without extension)")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): json, svg (default json,svg), png, pdf, dot, tree.svg, tree.pdf, tree.png (comma-separated)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached results and search again")
	cmd.Flags().BoolVar(&flags.save, "save", false, "record the run in the run store")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "show a live view of the temperature stages")

	// Search flags
	cmd.Flags().StringVarP(&flags.expr, "expr", "e", "", `starting expression, e.g. "a b V c H" (default: chain over sorted names)`)
	s := &flags.schedule
	cmd.Flags().Uint64Var(&s.Seed, "seed", s.Seed, "random seed")
	cmd.Flags().IntVar(&s.MovesPerModule, "moves", s.MovesPerModule, "moves per module per temperature stage")
	cmd.Flags().Float64Var(&s.CoolingRatio, "ratio", s.CoolingRatio, "temperature cooling ratio")
	cmd.Flags().Float64Var(&s.AcceptProbability, "accept", s.AcceptProbability, "initial probability of accepting an average uphill move")
	cmd.Flags().Float64Var(&s.FrozenTemperature, "frozen", s.FrozenTemperature, "temperature below which the search stops")
	cmd.Flags().Float64Var(&s.TemperatureScale, "scale", s.TemperatureScale, "initial temperature multiplier")
	cmd.Flags().Float64Var(&s.QuenchFraction, "quench-fraction", s.QuenchFraction, "fraction of T0 below which cooling speeds up")
	cmd.Flags().Float64Var(&s.QuenchRatio, "quench-ratio", s.QuenchRatio, "cooling ratio used below the quench threshold")
	cmd.Flags().IntVar(&s.ProbeMoves, "probe", s.ProbeMoves, "random moves used to estimate the initial temperature")
	cmd.Flags().Float64Var(&s.MaxRejectRatio, "max-reject", s.MaxRejectRatio, "stage reject ratio that freezes the search")

	// Render flags
	cmd.Flags().Float64Var(&flags.width, "width", pipeline.DefaultWidth, "plan drawing width in pixels")
	cmd.Flags().BoolVar(&flags.dimensions, "dimensions", false, "label modules with their dimensions")

	return cmd
}

// scheduleFlags maps flag names to the schedule field they set.
var scheduleFlags = map[string]func(dst *floorplan.Schedule, src floorplan.Schedule){
	"seed":            func(d *floorplan.Schedule, s floorplan.Schedule) { d.Seed = s.Seed },
	"moves":           func(d *floorplan.Schedule, s floorplan.Schedule) { d.MovesPerModule = s.MovesPerModule },
	"ratio":           func(d *floorplan.Schedule, s floorplan.Schedule) { d.CoolingRatio = s.CoolingRatio },
	"accept":          func(d *floorplan.Schedule, s floorplan.Schedule) { d.AcceptProbability = s.AcceptProbability },
	"frozen":          func(d *floorplan.Schedule, s floorplan.Schedule) { d.FrozenTemperature = s.FrozenTemperature },
	"scale":           func(d *floorplan.Schedule, s floorplan.Schedule) { d.TemperatureScale = s.TemperatureScale },
	"quench-fraction": func(d *floorplan.Schedule, s floorplan.Schedule) { d.QuenchFraction = s.QuenchFraction },
	"quench-ratio":    func(d *floorplan.Schedule, s floorplan.Schedule) { d.QuenchRatio = s.QuenchRatio },
	"probe":           func(d *floorplan.Schedule, s floorplan.Schedule) { d.ProbeMoves = s.ProbeMoves },
	"max-reject":      func(d *floorplan.Schedule, s floorplan.Schedule) { d.MaxRejectRatio = s.MaxRejectRatio },
}

// mergeSchedule starts from the configured schedule and applies every
// schedule flag the user set explicitly.
func mergeSchedule(base, flagged floorplan.Schedule, fs *pflag.FlagSet) floorplan.Schedule {
	out := base
	for name, set := range scheduleFlags {
		if fs.Changed(name) {
			set(&out, flagged)
		}
	}
	return out
}

// runAnneal executes the pipeline and writes the artifacts.
func (c *CLI) runAnneal(ctx context.Context, opts pipeline.Options, flags annealFlags) error {
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	start := time.Now()
	var result *pipeline.Result
	if flags.watch {
		result, err = c.runWatched(ctx, runner, opts)
	} else {
		spinner := newSpinnerWithContext(ctx, "Annealing "+opts.CatalogPath)
		opts.Progress = spinner.SetStage
		spinner.Start()
		result, err = runner.Execute(ctx, opts)
		if err != nil {
			spinner.StopWithError("Search failed")
			return err
		}
		spinner.Stop()
	}
	if err != nil {
		return err
	}
	wall := time.Since(start)

	base := basePath(flags.output, opts.CatalogPath)
	paths, err := writeArtifacts(result.Artifacts, opts.Formats, base)
	if err != nil {
		return err
	}

	printAnnealResult(result, wall)
	for _, p := range paths {
		printFile(p)
	}
	if result.Run != nil {
		printNewline()
		printNextStep("Inspect", appName+" runs show "+result.Run.ID)
	}
	if result.Interrupted {
		printWarning("Search interrupted; showing the best floorplan found so far")
		return ctx.Err()
	}
	return nil
}

// printAnnealResult prints the summary of a search.
func printAnnealResult(result *pipeline.Result, wall time.Duration) {
	rep := result.Report
	if result.Interrupted {
		printWarning("Search stopped early")
	} else {
		printSuccess("Search complete")
	}
	printSearchStats(result.Stats.Modules, rep.Stages, result.CacheInfo.AnnealHit)
	printNewline()
	printKeyValue("Initial", rep.Initial.String())
	printKeyValue("Initial area", formatArea(rep.InitialCost))
	printKeyValue("Best", rep.Best.String())
	printKeyValue("Best area", formatArea(rep.BestCost))
	if p := rep.Placement; p != nil {
		printKeyValue("Bounding box", formatBox(p.Width, p.Height)+" ("+formatPercent(p.Utilization())+" used)")
	}
	printKeyValue("Moves", fmt.Sprintf("%d (%d accepted, %d rejected)", rep.Moves, rep.Accepted, rep.Rejected))
	printKeyValue("Temperature", fmt.Sprintf("%.4g → %.4g", rep.InitialTemperature, rep.FinalTemperature))
	printKeyValue("Search time", formatMillis(rep.ElapsedMS))
	printKeyValue("Wall time", wall.Round(time.Millisecond).String())
	printNewline()
}
