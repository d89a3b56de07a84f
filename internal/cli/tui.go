package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/floorplan/pkg/floorplan"
	"github.com/matzehuels/floorplan/pkg/pipeline"
)

// watchRows is the number of recent stages shown by the live view.
const watchRows = 12

var (
	watchDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	watchHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	watchBestStyle   = lipgloss.NewStyle().Foreground(colorGreen)
)

// =============================================================================
// Messages
// =============================================================================

// stageMsg reports a finished temperature stage.
type stageMsg floorplan.Stage

// doneMsg carries the pipeline outcome.
type doneMsg struct {
	result *pipeline.Result
	err    error
}

// =============================================================================
// AnnealModel - Live view of a running search
// =============================================================================

// AnnealModel is the bubbletea model for the --watch view.
type AnnealModel struct {
	Source   string
	Stages   []floorplan.Stage
	Best     float64
	Start    time.Time
	Stopping bool
	Done     *doneMsg

	cancel context.CancelFunc
}

// NewAnnealModel creates a model for a search over source. cancel stops
// the search when the user quits.
func NewAnnealModel(source string, cancel context.CancelFunc) AnnealModel {
	return AnnealModel{Source: source, Start: time.Now(), cancel: cancel}
}

func (m AnnealModel) Init() tea.Cmd {
	return nil
}

func (m AnnealModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if !m.Stopping && m.cancel != nil {
				m.cancel()
			}
			m.Stopping = true
		}
	case stageMsg:
		st := floorplan.Stage(msg)
		m.Stages = append(m.Stages, st)
		if len(m.Stages) > watchRows {
			m.Stages = m.Stages[len(m.Stages)-watchRows:]
		}
		m.Best = st.BestCost
	case doneMsg:
		m.Done = &msg
		return m, tea.Quit
	}
	return m, nil
}

func (m AnnealModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Annealing " + m.Source))
	b.WriteString("\n")
	status := "q stop"
	if m.Stopping {
		status = "stopping…"
	}
	b.WriteString(watchDimStyle.Render(fmt.Sprintf("%s  ·  %s elapsed", status, time.Since(m.Start).Round(100*time.Millisecond))))
	b.WriteString("\n\n")

	if len(m.Stages) == 0 {
		b.WriteString(watchDimStyle.Render("  estimating initial temperature…"))
		b.WriteString("\n")
		return b.String()
	}

	rows := make([][]string, len(m.Stages))
	for i, st := range m.Stages {
		rows[i] = []string{
			fmt.Sprintf("%d", st.Index),
			fmt.Sprintf("%.4g", st.Temperature),
			fmt.Sprintf("%.6g", st.Cost),
			fmt.Sprintf("%.6g", st.BestCost),
			fmt.Sprintf("%d", st.Moves),
			fmt.Sprintf("%.0f%%", 100*st.RejectRatio()),
		}
	}

	best := m.Best
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Stage", "Temp", "Cost", "Best", "Moves", "Reject").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return watchHeaderStyle
			}
			if col == 3 && row < len(m.Stages) && m.Stages[row].BestCost == best {
				return watchBestStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  best area %s\n", StyleNumber.Render(formatArea(best))))
	return b.String()
}

// runWatched runs the pipeline under the live view. Quitting the view
// cancels the search; the pipeline then returns the best result so far and
// the view closes once that result arrives.
func (c *CLI) runWatched(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewAnnealModel(opts.CatalogPath, cancel), tea.WithOutput(os.Stderr))

	// Keep log lines from tearing the view.
	prevLevel := c.Logger.GetLevel()
	c.Logger.SetLevel(log.WarnLevel)
	defer c.Logger.SetLevel(prevLevel)

	opts.Progress = func(st floorplan.Stage) { p.Send(stageMsg(st)) }
	go func() {
		res, err := runner.Execute(ctx, opts)
		p.Send(doneMsg{result: res, err: err})
	}()

	final, err := p.Run()
	if m, ok := final.(AnnealModel); ok && m.Done != nil {
		return m.Done.result, m.Done.err
	}
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	return nil, ctx.Err()
}
