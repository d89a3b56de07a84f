package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	errs "github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/floorplan"
)

// Report is the JSON summary of an annealing run.
type Report struct {
	RunID              string               `json:"run_id,omitempty"`
	Catalog            string               `json:"catalog,omitempty"`
	Modules            []floorplan.Module   `json:"modules"`
	Schedule           floorplan.Schedule   `json:"schedule"`
	Initial            floorplan.Expression `json:"initial"`
	InitialCost        float64              `json:"initial_cost"`
	Best               floorplan.Expression `json:"best"`
	BestCost           float64              `json:"best_cost"`
	InitialTemperature float64              `json:"initial_temperature"`
	FinalTemperature   float64              `json:"final_temperature"`
	Stages             int                  `json:"stages"`
	Moves              int                  `json:"moves"`
	Accepted           int                  `json:"accepted"`
	Rejected           int                  `json:"rejected"`
	Frozen             bool                 `json:"frozen"`
	ElapsedMS          int64                `json:"elapsed_ms"`
	Placement          *floorplan.Placement `json:"placement,omitempty"`
}

// NewReport summarizes res over catalog c under schedule s.
func NewReport(c *floorplan.Catalog, s floorplan.Schedule, res *floorplan.Result) *Report {
	return &Report{
		Modules:            c.Modules(),
		Schedule:           s,
		Initial:            res.Initial,
		InitialCost:        res.InitialCost,
		Best:               res.Best,
		BestCost:           res.BestCost,
		InitialTemperature: res.InitialTemperature,
		FinalTemperature:   res.FinalTemperature,
		Stages:             res.Stages,
		Moves:              res.Moves,
		Accepted:           res.Accepted,
		Rejected:           res.Rejected,
		Frozen:             res.Frozen,
		ElapsedMS:          res.Elapsed.Milliseconds(),
	}
}

// CatalogOf rebuilds the module catalog stored in the report.
func (r *Report) CatalogOf() (*floorplan.Catalog, error) {
	return floorplan.NewCatalog(r.Modules...)
}

// WriteReport encodes r as indented JSON.
func WriteReport(r *Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportReport writes a report to a JSON file at path.
// This is a convenience wrapper around [WriteReport] for file-based output.
func ExportReport(r *Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteReport(r, f)
}

// ReadReport decodes a report and checks that its best expression is a
// valid expression over its modules.
func ReadReport(rd io.Reader) (*Report, error) {
	var r Report
	if err := json.NewDecoder(rd).Decode(&r); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode report")
	}
	c, err := r.CatalogOf()
	if err != nil {
		return nil, err
	}
	if err := floorplan.Validate(r.Best); err != nil {
		return nil, err
	}
	for _, op := range r.Best.Operands() {
		if _, ok := c.Get(op); !ok {
			return nil, errs.New(errs.ErrCodeUnknownModule, "report references unknown module %q", op)
		}
	}
	return &r, nil
}

// ImportReport reads a report file.
func ImportReport(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "report %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadReport(f)
}
