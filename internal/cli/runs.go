package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/store"
)

// runsCommand creates the runs command for inspecting saved runs.
func (c *CLI) runsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect runs saved with anneal --save",
	}

	cmd.AddCommand(c.runsListCommand())
	cmd.AddCommand(c.runsShowCommand())
	cmd.AddCommand(c.runsDeleteCommand())

	return cmd
}

// openStore opens the configured run store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return cfg.OpenStore(ctx)
}

// runsListCommand creates the "runs list" subcommand.
func (c *CLI) runsListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			if len(runs) == 0 {
				printInfo("No saved runs")
				printNextStep("Save one", appName+" anneal --save <catalog>")
				return nil
			}
			fmt.Println(runsTable(runs, time.Now()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", store.DefaultListLimit, "maximum number of runs to show")
	return cmd
}

// runsShowCommand creates the "runs show" subcommand.
func (c *CLI) runsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "show [id]",
		Short:             "Show one saved run",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeRunIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			run, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if run == nil {
				return errs.New(errs.ErrCodeRunNotFound, "run %s not found", args[0])
			}

			fmt.Println(StyleTitle.Render("Run " + run.ID))
			printKeyValue("Created", run.CreatedAt.Local().Format(time.DateTime))
			printKeyValue("Catalog", run.Catalog)
			printKeyValue("Modules", fmt.Sprintf("%d", run.Modules))
			printKeyValue("Seed", fmt.Sprintf("%d", run.Seed))
			printKeyValue("Initial", run.Initial)
			printKeyValue("Initial area", formatArea(run.InitialCost))
			printKeyValue("Best", run.Best)
			printKeyValue("Best area", formatArea(run.BestCost)+" ("+formatPercent(run.Improvement())+" smaller)")
			printKeyValue("Bounding box", formatBox(run.Width, run.Height))
			printKeyValue("Stages", fmt.Sprintf("%d (%d moves)", run.Stages, run.Moves))
			printKeyValue("Search time", formatMillis(run.ElapsedMS))
			if run.Cached {
				printDetail("result served from cache")
			}
			return nil
		},
	}
}

// runsDeleteCommand creates the "runs delete" subcommand.
func (c *CLI) runsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "delete [id...]",
		Short:             "Delete saved runs",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: c.completeRunIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			for _, id := range args {
				err := st.Delete(cmd.Context(), id)
				if errors.Is(err, store.ErrNotFound) {
					printWarning("Run %s not found", id)
					continue
				}
				if err != nil {
					return err
				}
				printSuccess("Deleted run %s", id)
			}
			return nil
		},
	}
}

// runsTable renders runs as a table. now anchors the relative ages.
func runsTable(runs []*store.Run, now time.Time) string {
	rows := make([][]string, len(runs))
	for i, r := range runs {
		rows[i] = []string{
			shortID(r.ID),
			formatAge(now.Sub(r.CreatedAt)),
			r.Catalog,
			fmt.Sprintf("%d", r.Modules),
			formatArea(r.BestCost),
			formatPercent(r.Improvement()),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Age", "Catalog", "Modules", "Best area", "Gain").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			if col == 4 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// shortID abbreviates a run ID for tables.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatAge renders a duration as a short relative age.
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
