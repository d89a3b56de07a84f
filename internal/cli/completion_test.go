package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/floorplan/pkg/store"
)

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			c := newTestCLI(t)
			root := c.RootCommand()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell})
			if err := root.ExecuteContext(context.Background()); err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(out.String(), appName) {
				t.Errorf("%s script does not mention %s", shell, appName)
			}
		})
	}
}

func TestCompletionRejectsUnknownShell(t *testing.T) {
	if err := execute(t, newTestCLI(t), "completion", "tcsh"); err == nil {
		t.Error("completion tcsh should fail")
	}
}

func TestCompleteRunIDs(t *testing.T) {
	c := newTestCLI(t)
	dir, err := store.DefaultDir()
	if err != nil {
		t.Fatal(err)
	}
	st, err := store.NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	run := store.NewRun("chip.txt")
	run.BestCost = 36
	if err := st.Save(context.Background(), run); err != nil {
		t.Fatal(err)
	}

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	got, directive := c.completeRunIDs(cmd, nil, run.ID[:4])
	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("directive = %v, want NoFileComp", directive)
	}
	if len(got) != 1 || got[0] != run.ID+"\tchip.txt area 36" {
		t.Errorf("completeRunIDs() = %q", got)
	}

	if got, _ := c.completeRunIDs(cmd, nil, "zzzz"); len(got) != 0 {
		t.Errorf("non-matching prefix gave %q", got)
	}
}
