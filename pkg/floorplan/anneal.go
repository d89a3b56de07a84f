package floorplan

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// Stage summarizes one temperature step of a run.
type Stage struct {
	Index       int     `json:"index"`
	Temperature float64 `json:"temperature"`
	Moves       int     `json:"moves"`
	Uphill      int     `json:"uphill"`
	Rejected    int     `json:"rejected"`
	Cost        float64 `json:"cost"`
	BestCost    float64 `json:"best_cost"`
}

// RejectRatio is the fraction of the stage's moves that were rejected.
func (s Stage) RejectRatio() float64 {
	if s.Moves == 0 {
		return 0
	}
	return float64(s.Rejected) / float64(s.Moves)
}

// Result is the outcome of [Annealer.Run].
type Result struct {
	Initial            Expression    `json:"initial"`
	InitialCost        float64       `json:"initial_cost"`
	Best               Expression    `json:"best"`
	BestCost           float64       `json:"best_cost"`
	InitialTemperature float64       `json:"initial_temperature"`
	FinalTemperature   float64       `json:"final_temperature"`
	Stages             int           `json:"stages"`
	Moves              int           `json:"moves"`
	Accepted           int           `json:"accepted"`
	Uphill             int           `json:"uphill"`
	Rejected           int           `json:"rejected"`
	Frozen             bool          `json:"frozen"`
	Elapsed            time.Duration `json:"elapsed"`
}

// add folds the move counters of st into r.
func (r *Result) add(st Stage) {
	r.Moves += st.Moves
	r.Accepted += st.Moves - st.Rejected
	r.Uphill += st.Uphill
	r.Rejected += st.Rejected
}

// ctxCheckInterval is how many moves a stage makes between context checks.
const ctxCheckInterval = 256

// Annealer searches for a low-cost expression by simulated annealing.
// An Annealer owns its random source and is not safe for concurrent use;
// create one per goroutine (they may share the catalog).
type Annealer struct {
	eval     *Evaluator
	schedule Schedule
	rng      *rand.Rand

	// Progress, if set, is called after every temperature stage.
	Progress func(Stage)
}

// NewAnnealer creates an annealer over c. The random source is seeded from
// s.Seed, so two annealers built with the same arguments make identical
// draws.
func NewAnnealer(c *Catalog, s Schedule) *Annealer {
	return &Annealer{
		eval:     NewEvaluator(c),
		schedule: s,
		rng:      rand.New(rand.NewPCG(s.Seed, s.Seed^0xdeadbeef)),
	}
}

// Schedule returns the constants the annealer runs with.
func (a *Annealer) Schedule() Schedule { return a.schedule }

// Accept is the Metropolis criterion: downhill moves are always taken and
// uphill moves are taken when r < exp(-delta/t). At t <= 0 only downhill
// moves pass. r must be uniform in [0, 1).
func Accept(delta, t, r float64) bool {
	if delta < 0 {
		return true
	}
	if t <= 0 {
		return false
	}
	return r < math.Exp(-delta/t)
}

// EstimateTemperature walks ProbeMoves random moves from e (on a copy) and
// derives T0 from the mean absolute cost change. Downhill moves count by
// magnitude too, which biases T0 upwards.
func (a *Annealer) EstimateTemperature(e Expression) (float64, error) {
	walk := e.Clone()
	oldCost, err := a.eval.Cost(walk)
	if err != nil {
		return 0, err
	}

	var total float64
	for range a.schedule.ProbeMoves {
		randomMove(a.rng).Apply(walk, a.rng)
		newCost, err := a.eval.Cost(walk)
		if err != nil {
			return 0, err
		}
		total += math.Abs(newCost - oldCost)
		oldCost = newCost
	}

	avg := total / float64(a.schedule.ProbeMoves)
	return -a.schedule.TemperatureScale * avg / math.Log(a.schedule.AcceptProbability), nil
}

// Run anneals from init and returns the best expression seen.
//
// init must be a valid normalized polish expression over catalog modules.
// T0 comes from a probe walk on a copy of init; the search itself starts
// from init, not from where the probe walk ended.
//
// The context is checked before every stage and every 256 moves within
// one; when it is done Run returns the best result so far together with
// ctx.Err(). Moves of an unfinished stage are counted but not reported to
// Progress.
func (a *Annealer) Run(ctx context.Context, init Expression) (*Result, error) {
	if err := a.schedule.Validate(); err != nil {
		return nil, err
	}
	if err := Validate(init); err != nil {
		return nil, err
	}

	start := time.Now()
	cur := init.Clone()
	curCost, err := a.eval.Cost(cur)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Initial:     init.Clone(),
		InitialCost: curCost,
		Best:        cur.Clone(),
		BestCost:    curCost,
	}

	t0, err := a.EstimateTemperature(cur)
	if err != nil {
		return nil, err
	}
	res.InitialTemperature = t0

	n := a.schedule.MovesPerModule * a.eval.Catalog.Len()
	t := t0
	for {
		if err := ctx.Err(); err != nil {
			res.FinalTemperature = t
			res.Elapsed = time.Since(start)
			return res, err
		}

		st := Stage{Index: res.Stages, Temperature: t}
		for st.Uphill < n && st.Moves <= 2*n {
			if st.Moves%ctxCheckInterval == ctxCheckInterval-1 {
				if err := ctx.Err(); err != nil {
					res.add(st)
					res.FinalTemperature = t
					res.Elapsed = time.Since(start)
					return res, err
				}
			}
			candidate := cur.Clone()
			randomMove(a.rng).Apply(candidate, a.rng)
			st.Moves++

			newCost, err := a.eval.Cost(candidate)
			if err != nil {
				return nil, err
			}
			delta := newCost - curCost
			if !Accept(delta, t, a.rng.Float64()) {
				st.Rejected++
				continue
			}
			if delta > 0 {
				st.Uphill++
			}
			cur, curCost = candidate, newCost
			if curCost < res.BestCost {
				res.Best = cur.Clone()
				res.BestCost = curCost
			}
		}

		st.Cost = curCost
		st.BestCost = res.BestCost
		res.add(st)
		res.Stages++
		if a.Progress != nil {
			a.Progress(st)
		}

		t = a.schedule.cool(t, t0)
		if st.RejectRatio() > a.schedule.MaxRejectRatio || t < a.schedule.FrozenTemperature {
			break
		}
	}

	res.FinalTemperature = t
	res.Frozen = true
	res.Elapsed = time.Since(start)
	return res, nil
}
