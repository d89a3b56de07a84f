package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/floorplan/pkg/cache"
	"github.com/matzehuels/floorplan/pkg/floorplan"
	fio "github.com/matzehuels/floorplan/pkg/io"
	"github.com/matzehuels/floorplan/pkg/observability"
	"github.com/matzehuels/floorplan/pkg/store"
)

// Runner encapsulates pipeline execution with caching and run persistence.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, store and logger - it
// doesn't keep pipeline results. Multiple goroutines can safely use the
// same Runner with different options; each run gets its own annealer.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store
	Logger *log.Logger
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
// If st is nil, a NullStore is used (runs are not saved).
func NewRunner(c cache.Cache, keyer cache.Keyer, st store.Store, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if st == nil {
		st = store.NewNullStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Store:  st,
		Logger: logger,
	}
}

// Execute runs the complete load → anneal → place → render pipeline.
//
// When ctx is cancelled during the search, Execute finishes the remaining
// stages with the best expression found so far and sets
// Result.Interrupted; the interrupted result is neither cached nor saved.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	c, err := LoadCatalog(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	result.Catalog = c
	result.CatalogHash = CatalogHash(c)
	result.Stats.Modules = c.Len()
	result.Stats.LoadTime = time.Since(loadStart)

	opts.Logger.Info("loaded catalog",
		"source", opts.CatalogSource(),
		"modules", c.Len(),
		"area", c.TotalArea())

	init, err := InitialExpression(c, opts.Initial)
	if err != nil {
		return nil, fmt.Errorf("initial expression: %w", err)
	}

	// Stage 2: Anneal
	annealStart := time.Now()
	rep, hit, err := r.AnnealWithCacheInfo(ctx, c, init, opts)
	switch {
	case err == nil:
	case rep != nil && ctx.Err() != nil:
		opts.Logger.Warn("search interrupted, keeping best so far", "err", err)
		result.Interrupted = true
		ctx = context.WithoutCancel(ctx)
	default:
		return nil, fmt.Errorf("anneal: %w", err)
	}
	rep.Catalog = opts.CatalogSource()
	result.Report = rep
	result.Stats.AnnealTime = time.Since(annealStart)
	result.CacheInfo.AnnealHit = hit

	opts.Logger.Info("annealed",
		"initial_cost", rep.InitialCost,
		"best_cost", rep.BestCost,
		"stages", rep.Stages,
		"cached", hit,
		"duration", result.Stats.AnnealTime)

	// Stage 3: Place
	if rep.Placement == nil {
		p, err := floorplan.Place(rep.Best, c)
		if err != nil {
			return nil, fmt.Errorf("place: %w", err)
		}
		rep.Placement = p
	}

	// Stage 4: Persist, so the JSON artifact carries the run ID.
	if opts.Save && !result.Interrupted {
		run, err := r.SaveRun(ctx, rep, result.CatalogHash, hit)
		if err != nil {
			return nil, err
		}
		result.Run = run
		opts.Logger.Info("saved run", "id", run.ID)
	}

	// Stage 5: Render
	renderStart := time.Now()
	observability.Anneal().OnRenderStart(ctx, opts.Formats)
	artifacts, err := Render(ctx, rep, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	observability.Anneal().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// AnnealWithCacheInfo searches from init with caching and returns cache hit
// info. The cache key covers the catalog contents, the initial expression
// and the full schedule (seed included), so a hit is exactly the result a
// fresh search would produce.
//
// On cancellation it returns the best-so-far report together with the
// context error.
func (r *Runner) AnnealWithCacheInfo(ctx context.Context, c *floorplan.Catalog, init floorplan.Expression, opts Options) (*fio.Report, bool, error) {
	schedule := opts.Schedule.WithDefaults()
	cacheKey := r.Keyer.ResultKey(CatalogHash(c), cache.ResultKeyOpts{
		Initial:  init.String(),
		Schedule: schedule,
	})

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var rep fio.Report
			if err := json.Unmarshal(data, &rep); err == nil {
				observability.Cache().OnCacheHit(ctx, "result")
				return &rep, true, nil
			}
			// If deserialization fails, fall through to recompute
		} else if err != nil {
			r.Logger.Warn("cache lookup failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "result")
	}

	a := floorplan.NewAnnealer(c, schedule)
	a.Progress = func(st floorplan.Stage) {
		observability.Anneal().OnStage(ctx, st.Index, st.Temperature, st.Cost, st.RejectRatio())
		if opts.Logger != nil {
			opts.Logger.Debug("stage",
				"index", st.Index,
				"temp", st.Temperature,
				"cost", st.Cost,
				"best", st.BestCost,
				"reject", st.RejectRatio())
		}
		if opts.Progress != nil {
			opts.Progress(st)
		}
	}

	observability.Anneal().OnAnnealStart(ctx, c.Len(), schedule.Seed)
	res, err := a.Run(ctx, init)
	if res != nil {
		observability.Anneal().OnAnnealComplete(ctx, res.BestCost, res.Stages, res.Elapsed, err)
	} else {
		observability.Anneal().OnAnnealComplete(ctx, 0, 0, 0, err)
	}
	if err != nil {
		if res != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			return fio.NewReport(c, schedule, res), false, err
		}
		return nil, false, err
	}

	rep := fio.NewReport(c, schedule, res)
	p, err := floorplan.Place(rep.Best, c)
	if err != nil {
		return nil, false, fmt.Errorf("place: %w", err)
	}
	rep.Placement = p

	if data, err := json.Marshal(rep); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLResult); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "result", len(data))
		}
	}
	return rep, false, nil
}

// Anneal is a convenience wrapper that calls AnnealWithCacheInfo and discards the cache hit info.
func (r *Runner) Anneal(ctx context.Context, c *floorplan.Catalog, init floorplan.Expression, opts Options) (*fio.Report, error) {
	rep, _, err := r.AnnealWithCacheInfo(ctx, c, init, opts)
	return rep, err
}

// SaveRun records rep in the store and stamps its run ID.
func (r *Runner) SaveRun(ctx context.Context, rep *fio.Report, catalogHash string, cached bool) (*store.Run, error) {
	run := store.NewRun(rep.Catalog)
	run.CatalogHash = catalogHash
	run.Modules = len(rep.Modules)
	run.Seed = rep.Schedule.Seed
	run.Initial = rep.Initial.String()
	run.Best = rep.Best.String()
	run.InitialCost = rep.InitialCost
	run.BestCost = rep.BestCost
	run.Stages = rep.Stages
	run.Moves = rep.Moves
	run.Frozen = rep.Frozen
	run.ElapsedMS = rep.ElapsedMS
	run.Cached = cached
	if rep.Placement != nil {
		run.Width, run.Height = rep.Placement.Width, rep.Placement.Height
	}

	if err := r.Store.Save(ctx, run); err != nil {
		return nil, fmt.Errorf("save run: %w", err)
	}
	rep.RunID = run.ID
	return run, nil
}

// Evaluation is the score of a single expression.
type Evaluation struct {
	Expression floorplan.Expression `json:"expression"`
	Cost       float64              `json:"cost"`
	Shapes     []floorplan.Shape    `json:"shapes"`
	Placement  *floorplan.Placement `json:"placement"`
}

// Evaluate scores e over c with caching. e may use a subset of the
// catalog.
func (r *Runner) Evaluate(ctx context.Context, c *floorplan.Catalog, e floorplan.Expression) (*Evaluation, error) {
	if err := CheckExpression(c, e); err != nil {
		return nil, err
	}

	cacheKey := r.Keyer.CostKey(CatalogHash(c), e.String())
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		var ev Evaluation
		if err := json.Unmarshal(data, &ev); err == nil {
			observability.Cache().OnCacheHit(ctx, "cost")
			return &ev, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "cost")

	ev := floorplan.NewEvaluator(c)
	shapes, err := ev.ShapeFunction(e)
	if err != nil {
		return nil, err
	}
	cost, err := ev.Cost(e)
	if err != nil {
		return nil, err
	}
	p, err := floorplan.Place(e, c)
	if err != nil {
		return nil, err
	}

	out := &Evaluation{Expression: e, Cost: cost, Shapes: shapes, Placement: p}
	if data, err := json.Marshal(out); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLCost); err == nil {
			observability.Cache().OnCacheSet(ctx, "cost", len(data))
		}
	}
	return out, nil
}

// Close releases resources held by the runner (cache and store).
func (r *Runner) Close() error {
	var errs []error
	if r.Cache != nil {
		errs = append(errs, r.Cache.Close())
	}
	if r.Store != nil {
		errs = append(errs, r.Store.Close())
	}
	return errors.Join(errs...)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
