package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/floorplan/pkg/buildinfo"
	errs "github.com/matzehuels/floorplan/pkg/errors"
	"github.com/matzehuels/floorplan/pkg/floorplan"
	fio "github.com/matzehuels/floorplan/pkg/io"
	"github.com/matzehuels/floorplan/pkg/pipeline"
	"github.com/matzehuels/floorplan/pkg/store"
)

type costRequest struct {
	Modules    []floorplan.Module `json:"modules"`
	Expression string             `json:"expression"`
}

type annealRequest struct {
	Modules    []floorplan.Module `json:"modules"`
	Expression string             `json:"expression,omitempty"`
	Schedule   floorplan.Schedule `json:"schedule"`
	Save       bool               `json:"save,omitempty"`
	Refresh    bool               `json:"refresh,omitempty"`
}

type annealResponse struct {
	*fio.Report
	Cached      bool `json:"cached"`
	Interrupted bool `json:"interrupted,omitempty"`
}

type runsResponse struct {
	Runs []*store.Run `json:"runs"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *Server) handleCost(w http.ResponseWriter, r *http.Request) {
	var req costRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := checkModules(req.Modules); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Expression == "" {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "expression is required"))
		return
	}

	c, err := floorplan.NewCatalog(req.Modules...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ev, err := s.runner.Evaluate(r.Context(), c, floorplan.ParseExpression(req.Expression))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) handleAnneal(w http.ResponseWriter, r *http.Request) {
	var req annealRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := checkModules(req.Modules); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := checkWorkload(req.Schedule); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), pipeline.Options{
		Modules:  req.Modules,
		Initial:  req.Expression,
		Schedule: req.Schedule,
		Formats:  []string{pipeline.FormatJSON},
		Save:     req.Save,
		Refresh:  req.Refresh,
		Logger:   s.logger,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, annealResponse{
		Report:      res.Report,
		Cached:      res.CacheInfo.AnnealHit,
		Interrupted: res.Interrupted,
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}

	runs, err := s.runner.Store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if runs == nil {
		runs = []*store.Run{}
	}
	writeJSON(w, http.StatusOK, runsResponse{Runs: runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errs.ValidateRunID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	run, err := s.runner.Store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if run == nil {
		s.writeError(w, r, errs.New(errs.ErrCodeRunNotFound, "run %s not found", id))
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errs.ValidateRunID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.runner.Store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// checkModules rejects empty catalogs and catalogs above maxModules.
func checkModules(mods []floorplan.Module) error {
	if len(mods) == 0 {
		return errs.New(errs.ErrCodeInvalidInput, "modules is required")
	}
	if len(mods) > maxModules {
		return errs.New(errs.ErrCodeInvalidInput, "too many modules: %d (max %d)", len(mods), maxModules)
	}
	return nil
}

// checkWorkload bounds the per-stage and probe move budgets of a request.
// Zero fields take the defaults later and always pass.
func checkWorkload(s floorplan.Schedule) error {
	if s.MovesPerModule > maxMovesPerModule {
		return errs.New(errs.ErrCodeInvalidInput, "schedule.moves_per_module %d exceeds %d", s.MovesPerModule, maxMovesPerModule)
	}
	if s.ProbeMoves > maxProbeMoves {
		return errs.New(errs.ErrCodeInvalidInput, "schedule.probe_moves %d exceeds %d", s.ProbeMoves, maxProbeMoves)
	}
	return nil
}
