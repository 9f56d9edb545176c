// internal/httpserver/routes_solve.go
//
// Solver endpoints:
//   - POST /solve      → let the bot play one game (random or given answer)
//   - GET  /runs       → recent runs (?limit=, ?kind=)
//   - GET  /runs/mine  → the caller's runs (requires auth)
//   - GET  /runs/{id}  → one run
//   - GET  /stats      → aggregate results (/stats/me for the caller)
//
// Every finished game is stored as a run owned by the caller, if any.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordlebot/internal/auth"
	"github.com/robalobadob/wordlebot/internal/game"
	"github.com/robalobadob/wordlebot/internal/solver"
	"github.com/robalobadob/wordlebot/internal/store"
	"github.com/robalobadob/wordlebot/internal/words"
)

var errBadRequest = errors.New("bad request")

func (s *Server) mountSolve(r chi.Router) {
	r.With(rateLimit(s.cfg.SolveRPS, 5)).Post("/solve", s.handleSolve)
	r.Route("/runs", func(r chi.Router) {
		r.Get("/", s.handleListRuns)
		r.With(requireAuth).Get("/mine", s.handleMyRuns)
		r.Get("/{id}", s.handleGetRun)
	})
	r.Get("/stats", s.handleStats)
	r.With(requireAuth).Get("/stats/me", s.handleMyStats)
}

// solveReq is the request payload for POST /solve.
type solveReq struct {
	Answer    string `json:"answer"`    // random catalog word when empty
	Strategy  string `json:"strategy"`  // server default when empty
	StartWord string `json:"startWord"` // server default when empty
}

// solveRes is returned by /solve and /daily.
type solveRes struct {
	Date    string          `json:"date,omitempty"`
	Run     *store.Run      `json:"run"`
	Outcome *solver.Outcome `json:"outcome"`
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	run, out, err := s.play(r.Context(), store.KindSolve, "", req)
	if err != nil {
		s.playError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, solveRes{Run: run, Outcome: out})
}

// play runs one game on a simulated board and records it.
func (s *Server) play(ctx context.Context, kind, date string, req solveReq) (*store.Run, *solver.Outcome, error) {
	strategy := s.cfg.Strategy
	if req.Strategy != "" {
		st, ok := solver.ParseStrategy(req.Strategy)
		if !ok {
			return nil, nil, fmt.Errorf("%w: unknown strategy %q", errBadRequest, req.Strategy)
		}
		strategy = st
	}
	startWord := s.cfg.StartWord
	if req.StartWord != "" {
		startWord = req.StartWord
	}

	answer := req.Answer
	if answer == "" {
		catalog, err := s.cfg.Words.Words(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("load catalog: %w", err)
		}
		answer = words.Random(catalog)
	}
	g, err := game.NewLocal(answer, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}

	start := s.cfg.Now()
	out, err := solver.New(s.cfg.Words, solver.Options{Strategy: strategy, StartWord: startWord}).Play(ctx, g)
	if err != nil {
		return nil, nil, err
	}
	truth, _ := g.Answer(ctx)
	run := store.NewRun(kind, strategy, truth, out, s.cfg.Now().Sub(start))
	run.Date = date
	if u := auth.UserFrom(ctx); u != nil {
		run.Owner = u.ID
	}
	if err := s.cfg.Store.SaveRun(ctx, run); err != nil {
		log.Warn().Err(err).Msg("save run")
	}
	return run, out, nil
}

func (s *Server) playError(w http.ResponseWriter, err error) {
	if errors.Is(err, errBadRequest) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	log.Error().Err(err).Msg("solve")
	writeError(w, http.StatusInternalServerError, "solve_failed")
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	s.listRuns(w, r, store.RunFilter{Kind: r.URL.Query().Get("kind"), Date: r.URL.Query().Get("date")})
}

func (s *Server) handleMyRuns(w http.ResponseWriter, r *http.Request) {
	s.listRuns(w, r, store.RunFilter{Owner: auth.UserFrom(r.Context()).ID, Kind: r.URL.Query().Get("kind")})
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request, f store.RunFilter) {
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			writeError(w, http.StatusBadRequest, "invalid_limit")
			return
		}
		f.Limit = n
	}
	runs, err := s.cfg.Store.ListRuns(r.Context(), f)
	if err != nil {
		log.Error().Err(err).Msg("list runs")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.cfg.Store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.stats(w, r, "")
}

func (s *Server) handleMyStats(w http.ResponseWriter, r *http.Request) {
	s.stats(w, r, auth.UserFrom(r.Context()).ID)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request, owner string) {
	st, err := s.cfg.Store.Stats(r.Context(), owner)
	if err != nil {
		log.Error().Err(err).Msg("stats")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, st)
}
