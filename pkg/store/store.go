// Package store persists annealing run records.
//
// A [Run] is the summary of one search: where the catalog came from, the
// starting and best expressions, their costs, and the search counters.
// Run history beyond the best solution is not kept.
//
// Backends:
//   - [FileStore]: JSON files under $XDG_DATA_HOME/floorplan/runs for the CLI
//   - [MongoStore]: a MongoDB collection for the HTTP server
//   - [NullStore]: discards everything
//
// # Usage
//
//	st, err := store.NewFileStore("")
//	if err != nil {
//	    return err
//	}
//	run := store.NewRun("chip.txt")
//	run.Best = res.Best.String()
//	if err := st.Save(ctx, run); err != nil {
//	    return err
//	}
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Delete when the run does not exist.
var ErrNotFound = errors.New("run not found")

// DefaultListLimit caps List when the caller passes limit <= 0.
const DefaultListLimit = 50

// Run is the persisted summary of one annealing run.
type Run struct {
	ID          string    `json:"id" bson:"_id"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	Catalog     string    `json:"catalog" bson:"catalog"`
	CatalogHash string    `json:"catalog_hash" bson:"catalog_hash"`
	Modules     int       `json:"modules" bson:"modules"`
	Seed        uint64    `json:"seed" bson:"seed"`
	Initial     string    `json:"initial" bson:"initial"`
	Best        string    `json:"best" bson:"best"`
	InitialCost float64   `json:"initial_cost" bson:"initial_cost"`
	BestCost    float64   `json:"best_cost" bson:"best_cost"`
	Width       float64   `json:"width" bson:"width"`
	Height      float64   `json:"height" bson:"height"`
	Stages      int       `json:"stages" bson:"stages"`
	Moves       int       `json:"moves" bson:"moves"`
	Frozen      bool      `json:"frozen" bson:"frozen"`
	ElapsedMS   int64     `json:"elapsed_ms" bson:"elapsed_ms"`
	Cached      bool      `json:"cached,omitempty" bson:"cached,omitempty"`
}

// NewRun creates a run record with a fresh random ID.
func NewRun(catalog string) *Run {
	return &Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Catalog:   catalog,
	}
}

// Improvement is the relative cost reduction, in [0, 1).
func (r *Run) Improvement() float64 {
	if r.InitialCost <= 0 {
		return 0
	}
	return (r.InitialCost - r.BestCost) / r.InitialCost
}

// Store is the interface for run storage backends.
type Store interface {
	// Save inserts or replaces a run.
	Save(ctx context.Context, run *Run) error

	// Get retrieves a run by ID.
	// Returns nil, nil if the run doesn't exist.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns up to limit runs, newest first.
	List(ctx context.Context, limit int) ([]*Run, error)

	// Delete removes a run. Returns ErrNotFound if it doesn't exist.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
