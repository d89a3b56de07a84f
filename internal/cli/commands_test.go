package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	fio "github.com/matzehuels/floorplan/pkg/io"
	"github.com/matzehuels/floorplan/pkg/store"
)

const testCatalog = `# area ratio
alu 8 2
reg 4 1
rom 18 0.5
io  6 1.5
`

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chip.txt")
	if err := os.WriteFile(path, []byte(testCatalog), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&strings.Builder{})
	root.SetErr(&strings.Builder{})
	return root.ExecuteContext(context.Background())
}

func TestAnnealCommand(t *testing.T) {
	c := newTestCLI(t)
	catalog := writeCatalog(t)
	out := filepath.Join(t.TempDir(), "plan")

	if err := execute(t, c, "anneal", catalog, "-o", out, "-f", "json,svg,dot", "--save", "--seed", "3"); err != nil {
		t.Fatalf("anneal: %v", err)
	}

	for _, ext := range []string{".report.json", ".svg", ".dot"} {
		if info, err := os.Stat(out + ext); err != nil || info.Size() == 0 {
			t.Errorf("missing output %s: %v", out+ext, err)
		}
	}

	rep, err := fio.ImportReport(out + ".report.json")
	if err != nil {
		t.Fatalf("ImportReport: %v", err)
	}
	if rep.Schedule.Seed != 3 {
		t.Errorf("seed = %d, want 3", rep.Schedule.Seed)
	}
	if len(rep.Best.Operands()) != 4 {
		t.Errorf("best = %s, want all 4 modules", rep.Best)
	}
	if rep.RunID == "" {
		t.Fatal("--save should record a run id in the report")
	}

	dataDir, _ := store.DefaultDir()
	st, err := store.NewFileStore(dataDir)
	if err != nil {
		t.Fatal(err)
	}
	run, err := st.Get(context.Background(), rep.RunID)
	if err != nil || run == nil {
		t.Fatalf("saved run %s: %v, %v", rep.RunID, run, err)
	}
	if run.Catalog != catalog {
		t.Errorf("run catalog = %q, want %q", run.Catalog, catalog)
	}

	if err := execute(t, c, "runs", "list"); err != nil {
		t.Errorf("runs list: %v", err)
	}
	if err := execute(t, c, "runs", "show", rep.RunID); err != nil {
		t.Errorf("runs show: %v", err)
	}
	if err := execute(t, c, "runs", "delete", rep.RunID); err != nil {
		t.Errorf("runs delete: %v", err)
	}
	if run, _ := st.Get(context.Background(), rep.RunID); run != nil {
		t.Error("run should be deleted")
	}
}

func TestAnnealCommandErrors(t *testing.T) {
	c := newTestCLI(t)
	catalog := writeCatalog(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing catalog", []string{"anneal", filepath.Join(t.TempDir(), "none.txt")}, "file_not_found"},
		{"bad format", []string{"anneal", catalog, "-f", "gif"}, "invalid format"},
		{"bad expression", []string{"anneal", catalog, "--expr", "alu reg V"}, "modules"},
		{"bad ratio", []string{"anneal", catalog, "--ratio", "1.2"}, "cooling"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, c, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(strings.ToLower(err.Error()), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestCostCommand(t *testing.T) {
	c := newTestCLI(t)
	catalog := writeCatalog(t)
	svg := filepath.Join(t.TempDir(), "cost.svg")

	if err := execute(t, c, "cost", catalog, "alu", "reg", "V", "--svg", svg); err != nil {
		t.Fatalf("cost: %v", err)
	}
	data, err := os.ReadFile(svg)
	if err != nil || !strings.HasPrefix(string(data), "<svg") {
		t.Errorf("svg output = %.40q, %v", data, err)
	}

	if err := execute(t, c, "cost", catalog, "alu reg nope V V"); err == nil {
		t.Error("cost with an invalid expression should fail")
	}
}

func TestRenderCommand(t *testing.T) {
	c := newTestCLI(t)
	catalog := writeCatalog(t)
	base := filepath.Join(t.TempDir(), "chip")

	if err := execute(t, c, "anneal", catalog, "-o", base, "-f", "json", "--no-cache"); err != nil {
		t.Fatalf("anneal: %v", err)
	}
	if err := execute(t, c, "render", base+".report.json", "-f", "svg,dot"); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, ext := range []string{".svg", ".dot"} {
		if _, err := os.Stat(base + ext); err != nil {
			t.Errorf("render did not write %s: %v", base+ext, err)
		}
	}
}
