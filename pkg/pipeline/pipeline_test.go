package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/floorplan/pkg/cache"
	errs "github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/floorplan"
	fio "github.com/matzehuels/floorplan/pkg/io"
	"github.com/matzehuels/floorplan/pkg/store"
)

func scenarioModules() []floorplan.Module {
	return []floorplan.Module{
		{Name: "A", Width: 4, Height: 2},
		{Name: "B", Width: 2, Height: 2},
		{Name: "C", Width: 3, Height: 6},
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"tree.svg", false},
		{"tree.pdf", false},
		{"tree.png", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errs.Is(err, errs.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %v, want INVALID_FORMAT", tt.format, errs.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{Modules: scenarioModules()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("Formats = %v, want [json]", opts.Formats)
	}
	if opts.Width != DefaultWidth {
		t.Errorf("Width = %g, want %g", opts.Width, DefaultWidth)
	}
	if opts.Schedule != floorplan.DefaultSchedule() {
		t.Errorf("Schedule = %+v, want defaults", opts.Schedule)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}

	// Idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call: %v", err)
	}
}

func TestOptionsValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"no catalog", Options{}, errs.ErrCodeInvalidInput},
		{"both catalogs", Options{CatalogPath: "x.txt", Modules: scenarioModules()}, errs.ErrCodeInvalidInput},
		{"bad format", Options{Modules: scenarioModules(), Formats: []string{"gif"}}, errs.ErrCodeInvalidFormat},
		{"bad schedule", Options{Modules: scenarioModules(), Schedule: floorplan.Schedule{CoolingRatio: 1.5}}, errs.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errs.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestCatalogSource(t *testing.T) {
	if got := (&Options{CatalogPath: "chip.txt"}).CatalogSource(); got != "chip.txt" {
		t.Errorf("CatalogSource() = %q", got)
	}
	if got := (&Options{Modules: scenarioModules()}).CatalogSource(); got != "inline (3 modules)" {
		t.Errorf("CatalogSource() = %q", got)
	}
}

func TestInitialExpression(t *testing.T) {
	c, _ := floorplan.NewCatalog(scenarioModules()...)

	e, err := InitialExpression(c, "")
	if err != nil || e.String() != "A B V C V" {
		t.Errorf("InitialExpression(\"\") = %s, %v; want chain", e, err)
	}

	e, err = InitialExpression(c, "A B H C V")
	if err != nil || e.String() != "A B H C V" {
		t.Errorf("InitialExpression(explicit) = %s, %v", e, err)
	}

	tests := []struct {
		expr string
		code errs.Code
	}{
		{"A B", errs.ErrCodeInvalidExpression},
		{"A B V", errs.ErrCodeInvalidExpression}, // C missing
		{"A B V Z V", errs.ErrCodeUnknownModule},
	}
	for _, tt := range tests {
		if _, err := InitialExpression(c, tt.expr); !errs.Is(err, tt.code) {
			t.Errorf("InitialExpression(%q) = %v, want %s", tt.expr, err, tt.code)
		}
	}
}

func TestCatalogHashIgnoresOrder(t *testing.T) {
	m := scenarioModules()
	a, _ := floorplan.NewCatalog(m...)
	b, _ := floorplan.NewCatalog(m[2], m[0], m[1])
	if CatalogHash(a) != CatalogHash(b) {
		t.Error("catalog hash should not depend on input order")
	}

	m[0].Width = 5
	d, _ := floorplan.NewCatalog(m...)
	if CatalogHash(a) == CatalogHash(d) {
		t.Error("catalog hash should change with module dimensions")
	}
}

func TestLoadCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chip.txt")
	if err := os.WriteFile(path, []byte("# chip\nalu 8 2\nreg 4 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadCatalog(context.Background(), Options{CatalogPath: path})
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	_, err = LoadCatalog(context.Background(), Options{CatalogPath: filepath.Join(t.TempDir(), "missing.txt")})
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("LoadCatalog(missing) = %v, want FILE_NOT_FOUND", err)
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil, nil)
	defer r.Close()

	res, err := r.Execute(context.Background(), Options{
		Modules: scenarioModules(),
		Formats: []string{FormatJSON, FormatSVG, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if res.Interrupted || res.CacheInfo.AnnealHit {
		t.Errorf("unexpected flags: interrupted=%v hit=%v", res.Interrupted, res.CacheInfo.AnnealHit)
	}
	rep := res.Report
	if err := floorplan.Validate(rep.Best); err != nil {
		t.Errorf("best expression invalid: %v", err)
	}
	if rep.BestCost > rep.InitialCost {
		t.Errorf("best %g worse than initial %g", rep.BestCost, rep.InitialCost)
	}
	if rep.Placement == nil || rep.Placement.Area() != rep.BestCost {
		t.Errorf("placement missing or does not match best cost: %+v", rep.Placement)
	}
	if rep.Catalog != "inline (3 modules)" {
		t.Errorf("Catalog = %q", rep.Catalog)
	}
	if res.Run != nil {
		t.Error("run should not be saved without Options.Save")
	}

	for _, f := range []string{FormatJSON, FormatSVG, FormatDOT} {
		if len(res.Artifacts[f]) == 0 {
			t.Errorf("artifact %s is empty", f)
		}
	}
	if !bytes.HasPrefix(res.Artifacts[FormatSVG], []byte("<svg")) {
		t.Errorf("svg artifact does not start with <svg: %.40s", res.Artifacts[FormatSVG])
	}
	if !strings.Contains(string(res.Artifacts[FormatDOT]), "digraph") {
		t.Error("dot artifact should contain a digraph")
	}

	back, err := fio.ReadReport(bytes.NewReader(res.Artifacts[FormatJSON]))
	if err != nil {
		t.Fatalf("ReadReport(json artifact): %v", err)
	}
	if !back.Best.Equal(rep.Best) || back.BestCost != rep.BestCost {
		t.Errorf("json artifact = %s/%g, want %s/%g", back.Best, back.BestCost, rep.Best, rep.BestCost)
	}
}

func TestExecuteCachesResult(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil, nil)
	opts := Options{Modules: scenarioModules()}

	first, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	second, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}

	if first.CacheInfo.AnnealHit || !second.CacheInfo.AnnealHit {
		t.Errorf("AnnealHit = %v then %v, want false then true", first.CacheInfo.AnnealHit, second.CacheInfo.AnnealHit)
	}
	if !first.Report.Best.Equal(second.Report.Best) || first.Report.BestCost != second.Report.BestCost {
		t.Errorf("cached result differs: %s vs %s", first.Report.Best, second.Report.Best)
	}

	opts.Refresh = true
	third, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if third.CacheInfo.AnnealHit {
		t.Error("Refresh should bypass the cache")
	}

	opts.Refresh = false
	opts.Schedule.Seed = 7
	fourth, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("new seed Execute: %v", err)
	}
	if fourth.CacheInfo.AnnealHit {
		t.Error("a different seed must not hit the cache")
	}
}

func TestExecuteSavesRun(t *testing.T) {
	fs, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(nil, nil, fs, nil)

	res, err := r.Execute(context.Background(), Options{Modules: scenarioModules(), Save: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Run == nil {
		t.Fatal("Run should be set when Save is requested")
	}
	if res.Report.RunID != res.Run.ID {
		t.Errorf("report run id %q, want %q", res.Report.RunID, res.Run.ID)
	}

	got, err := fs.Get(context.Background(), res.Run.ID)
	if err != nil || got == nil {
		t.Fatalf("Get(%s) = %v, %v", res.Run.ID, got, err)
	}
	if got.Best != res.Report.Best.String() || got.BestCost != res.Report.BestCost {
		t.Errorf("stored run = %s/%g", got.Best, got.BestCost)
	}
	if got.Modules != 3 || got.CatalogHash != res.CatalogHash {
		t.Errorf("stored run metadata = %+v", got)
	}

	var rep fio.Report
	if err := json.Unmarshal(res.Artifacts[FormatJSON], &rep); err != nil {
		t.Fatal(err)
	}
	if rep.RunID != res.Run.ID {
		t.Errorf("json artifact run_id = %q, want %q", rep.RunID, res.Run.ID)
	}
}

func TestExecuteInterrupted(t *testing.T) {
	fc, _ := cache.NewFileCache(t.TempDir())
	fs, _ := store.NewFileStore(t.TempDir())
	r := NewRunner(fc, nil, fs, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := r.Execute(ctx, Options{Modules: scenarioModules(), Save: true, Formats: []string{FormatJSON, FormatSVG}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.Interrupted {
		t.Error("Interrupted should be set")
	}
	if res.Report.Best.String() != "A B V C V" {
		t.Errorf("best = %s, want the initial chain", res.Report.Best)
	}
	if res.Report.Placement == nil || len(res.Artifacts[FormatSVG]) == 0 {
		t.Error("interrupted run should still be placed and rendered")
	}
	if res.Run != nil {
		t.Error("interrupted run should not be saved")
	}
	if runs, _ := fs.List(context.Background(), 0); len(runs) != 0 {
		t.Errorf("store has %d runs, want 0", len(runs))
	}
	if n, _ := fc.Clear(context.Background()); n != 0 {
		t.Errorf("cache has %d entries, want 0", n)
	}
}

func TestEvaluate(t *testing.T) {
	fc, _ := cache.NewFileCache(t.TempDir())
	r := NewRunner(fc, nil, nil, nil)
	c, _ := floorplan.NewCatalog(scenarioModules()...)

	ev, err := r.Evaluate(context.Background(), c, floorplan.ParseExpression("A B V C V"))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ev.Cost != 36 {
		t.Errorf("Cost = %g, want 36", ev.Cost)
	}
	if len(ev.Shapes) == 0 || ev.Placement == nil || ev.Placement.Area() != 36 {
		t.Errorf("evaluation incomplete: %+v", ev)
	}

	again, err := r.Evaluate(context.Background(), c, floorplan.ParseExpression("A B V C V"))
	if err != nil || again.Cost != 36 {
		t.Errorf("cached Evaluate = %+v, %v", again, err)
	}

	// A subset of the catalog is allowed.
	sub, err := r.Evaluate(context.Background(), c, floorplan.ParseExpression("A B H"))
	if err != nil || sub.Cost != 12 {
		t.Errorf("Evaluate(A B H) = %+v, %v; want cost 12", sub, err)
	}

	if _, err := r.Evaluate(context.Background(), c, floorplan.ParseExpression("A B C V V")); !errs.Is(err, errs.ErrCodeInvalidExpression) {
		t.Errorf("Evaluate(non-skewed) = %v, want INVALID_EXPRESSION", err)
	}
	if _, err := r.Evaluate(context.Background(), c, floorplan.ParseExpression("A Q V")); !errs.Is(err, errs.ErrCodeUnknownModule) {
		t.Errorf("Evaluate(unknown) = %v, want UNKNOWN_MODULE", err)
	}
}

func TestRenderRequiresPlacement(t *testing.T) {
	c, _ := floorplan.NewCatalog(scenarioModules()...)
	rep := &fio.Report{Modules: c.Modules(), Best: floorplan.ParseExpression("A B V C V")}

	if _, err := Render(context.Background(), rep, Options{Formats: []string{FormatSVG}}); err == nil {
		t.Error("svg without placement should fail")
	}
	out, err := Render(context.Background(), rep, Options{Formats: []string{FormatDOT}})
	if err != nil || len(out[FormatDOT]) == 0 {
		t.Errorf("dot render = %v", err)
	}
}
