// internal/httpserver/routes_solve.go
//
// Hint and run-history routes.
//   - POST /solve         → candidates consistent with a guess history + next guess
//   - GET  /runs          → most recent solver runs (?limit=N, default 20)
//   - GET  /runs/summary  → per-policy aggregates
//   - GET  /runs/{id}     → one run

package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/internal/api"
	"github.com/robalobadob/wordle/apps/go-solver/internal/filter"
	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
)

const defaultHintLimit = 20

// mountSolve registers the hint and run routes.
func (s *Server) mountSolve(r chi.Router) {
	r.Post("/solve", s.handleSolve)
	r.Route("/runs", func(r chi.Router) {
		r.Get("/", s.handleListRuns)
		r.Get("/summary", s.handleRunSummary)
		r.Get("/{id}", s.handleGetRun)
	})
}

// handleSolve replays the history on a fresh filter and suggests a guess.
// The history is not limited by the guess budget.
func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req api.SolveReq
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, api.CodeBadJSON, err.Error())
		return
	}

	f := filter.New(s.dictionary(), filter.WithMaxRounds(0))
	for i, round := range req.History {
		fb, err := game.ParseFeedback(round.Feedback)
		if err == nil {
			err = f.Narrow(strings.ToLower(strings.TrimSpace(round.Guess)), fb)
		}
		if err != nil {
			hintRequests.WithLabelValues(api.CodeContract).Inc()
			writeError(w, http.StatusBadRequest, api.CodeContract, fmt.Sprintf("history[%d]: %v", i, err))
			return
		}
	}

	candidates := f.Candidates()
	if len(candidates) == 0 {
		hintRequests.WithLabelValues(api.CodeExhausted).Inc()
		writeError(w, http.StatusConflict, api.CodeExhausted, "no dictionary word is consistent with the history")
		return
	}
	suggestion, err := s.policy.Next(candidates)
	if err != nil {
		log.Error().Err(err).Msg("policy")
		writeError(w, http.StatusInternalServerError, api.CodeInternal, "policy failed")
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultHintLimit
	}
	res := api.SolveRes{
		Count:      len(candidates),
		Candidates: candidates[:min(limit, len(candidates))],
		Suggestion: suggestion,
		Outcome:    f.Outcome().String(),
	}
	hintRequests.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, api.CodeBadJSON, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	runs, err := s.runs.List(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("list runs")
		writeError(w, http.StatusInternalServerError, api.CodeInternal, "list failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleRunSummary(w http.ResponseWriter, r *http.Request) {
	stats, err := s.runs.Summary(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("run summary")
		writeError(w, http.StatusInternalServerError, api.CodeInternal, "summary failed")
		return
	}
	if stats == nil {
		stats = []store.Stats{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"policies": stats})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.runs.Get(r.Context(), chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, api.CodeNotFound, err.Error())
	case err != nil:
		log.Error().Err(err).Msg("get run")
		writeError(w, http.StatusInternalServerError, api.CodeInternal, "get failed")
	default:
		writeJSON(w, http.StatusOK, run)
	}
}
