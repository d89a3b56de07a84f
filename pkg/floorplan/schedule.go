package floorplan

import (
	errs "github.com/matzehuels/floorplan/pkg/errors"
)

// Default annealing constants.
const (
	DefaultMovesPerModule    = 10
	DefaultCoolingRatio      = 0.85
	DefaultAcceptProbability = 0.99
	DefaultFrozenTemperature = 0.001
	DefaultSeed              = uint64(9)
	DefaultTemperatureScale  = 1.0
	DefaultQuenchFraction    = 0.005
	DefaultQuenchRatio       = 0.1
	DefaultProbeMoves        = 40
	DefaultMaxRejectRatio    = 0.95
)

// Upper bounds accepted by Validate. They keep a stage's move budget far
// from int overflow even for catalogs of millions of modules.
const (
	MaxMovesPerModule = 100_000
	MaxProbeMoves     = 1_000_000
)

// Schedule holds the tunable constants of the annealer.
type Schedule struct {
	// MovesPerModule scales the stage length: a stage ends after
	// MovesPerModule×modules accepted uphill moves or twice that many attempts.
	MovesPerModule int `json:"moves_per_module" toml:"moves_per_module"`

	// CoolingRatio multiplies the temperature after each stage.
	CoolingRatio float64 `json:"cooling_ratio" toml:"cooling_ratio"`

	// AcceptProbability is the target probability of accepting an average
	// uphill move at the initial temperature.
	AcceptProbability float64 `json:"accept_probability" toml:"accept_probability"`

	// FrozenTemperature stops the search once the temperature drops below it.
	FrozenTemperature float64 `json:"frozen_temperature" toml:"frozen_temperature"`

	// Seed drives every random draw of a run.
	Seed uint64 `json:"seed" toml:"seed"`

	// TemperatureScale multiplies the estimated initial temperature:
	// T0 = -TemperatureScale × avg|Δcost| / ln(AcceptProbability).
	TemperatureScale float64 `json:"temperature_scale" toml:"temperature_scale"`

	// QuenchFraction and QuenchRatio switch to fast cooling: once the
	// temperature is below QuenchFraction×T0 it is multiplied by QuenchRatio.
	QuenchFraction float64 `json:"quench_fraction" toml:"quench_fraction"`
	QuenchRatio    float64 `json:"quench_ratio" toml:"quench_ratio"`

	// ProbeMoves is the length of the random walk used to estimate T0.
	ProbeMoves int `json:"probe_moves" toml:"probe_moves"`

	// MaxRejectRatio freezes the search when a stage rejects a larger
	// fraction of its moves.
	MaxRejectRatio float64 `json:"max_reject_ratio" toml:"max_reject_ratio"`
}

// DefaultSchedule returns the tuned defaults.
func DefaultSchedule() Schedule {
	return Schedule{
		MovesPerModule:    DefaultMovesPerModule,
		CoolingRatio:      DefaultCoolingRatio,
		AcceptProbability: DefaultAcceptProbability,
		FrozenTemperature: DefaultFrozenTemperature,
		Seed:              DefaultSeed,
		TemperatureScale:  DefaultTemperatureScale,
		QuenchFraction:    DefaultQuenchFraction,
		QuenchRatio:       DefaultQuenchRatio,
		ProbeMoves:        DefaultProbeMoves,
		MaxRejectRatio:    DefaultMaxRejectRatio,
	}
}

// WithDefaults fills zero fields from DefaultSchedule, so seed 0 selects
// DefaultSeed.
func (s Schedule) WithDefaults() Schedule {
	d := DefaultSchedule()
	if s.MovesPerModule == 0 {
		s.MovesPerModule = d.MovesPerModule
	}
	if s.CoolingRatio == 0 {
		s.CoolingRatio = d.CoolingRatio
	}
	if s.AcceptProbability == 0 {
		s.AcceptProbability = d.AcceptProbability
	}
	if s.FrozenTemperature == 0 {
		s.FrozenTemperature = d.FrozenTemperature
	}
	if s.Seed == 0 {
		s.Seed = d.Seed
	}
	if s.TemperatureScale == 0 {
		s.TemperatureScale = d.TemperatureScale
	}
	if s.QuenchFraction == 0 {
		s.QuenchFraction = d.QuenchFraction
	}
	if s.QuenchRatio == 0 {
		s.QuenchRatio = d.QuenchRatio
	}
	if s.ProbeMoves == 0 {
		s.ProbeMoves = d.ProbeMoves
	}
	if s.MaxRejectRatio == 0 {
		s.MaxRejectRatio = d.MaxRejectRatio
	}
	return s
}

// Validate reports the first out-of-range constant as INVALID_CONFIG.
func (s Schedule) Validate() error {
	switch {
	case s.MovesPerModule <= 0 || s.MovesPerModule > MaxMovesPerModule:
		return errs.New(errs.ErrCodeInvalidConfig, "moves_per_module must be in [1, %d], got %d", MaxMovesPerModule, s.MovesPerModule)
	case s.CoolingRatio <= 0 || s.CoolingRatio >= 1:
		return errs.New(errs.ErrCodeInvalidConfig, "cooling_ratio must be in (0, 1), got %g", s.CoolingRatio)
	case s.AcceptProbability <= 0 || s.AcceptProbability >= 1:
		return errs.New(errs.ErrCodeInvalidConfig, "accept_probability must be in (0, 1), got %g", s.AcceptProbability)
	case s.FrozenTemperature <= 0:
		return errs.New(errs.ErrCodeInvalidConfig, "frozen_temperature must be positive, got %g", s.FrozenTemperature)
	case s.TemperatureScale <= 0:
		return errs.New(errs.ErrCodeInvalidConfig, "temperature_scale must be positive, got %g", s.TemperatureScale)
	case s.QuenchFraction < 0 || s.QuenchFraction >= 1:
		return errs.New(errs.ErrCodeInvalidConfig, "quench_fraction must be in [0, 1), got %g", s.QuenchFraction)
	case s.QuenchRatio <= 0 || s.QuenchRatio >= 1:
		return errs.New(errs.ErrCodeInvalidConfig, "quench_ratio must be in (0, 1), got %g", s.QuenchRatio)
	case s.ProbeMoves <= 0 || s.ProbeMoves > MaxProbeMoves:
		return errs.New(errs.ErrCodeInvalidConfig, "probe_moves must be in [1, %d], got %d", MaxProbeMoves, s.ProbeMoves)
	case s.MaxRejectRatio <= 0 || s.MaxRejectRatio > 1:
		return errs.New(errs.ErrCodeInvalidConfig, "max_reject_ratio must be in (0, 1], got %g", s.MaxRejectRatio)
	}
	return nil
}

// cool returns the temperature for the next stage.
func (s Schedule) cool(t, t0 float64) float64 {
	if t < s.QuenchFraction*t0 {
		return t * s.QuenchRatio
	}
	return t * s.CoolingRatio
}
