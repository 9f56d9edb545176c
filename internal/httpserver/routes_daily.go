// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily word.
// Exposes two endpoints under /daily:
//   - GET /daily             → the bot solves today's word (?strategy=, ?startWord=)
//   - GET /daily/leaderboard → best solved daily runs for today (or ?date=)
//
// The day's word is chosen deterministically from the catalog with
// HMAC(DAILY_SALT, date), so strategies can be compared on the same answer.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordlebot/internal/daily"
	"github.com/robalobadob/wordlebot/internal/store"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.With(rateLimit(s.cfg.SolveRPS, 5)).Get("/", s.handleDaily)
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	catalog, err := s.cfg.Words.Words(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("load catalog")
		writeError(w, http.StatusInternalServerError, "catalog_unavailable")
		return
	}
	d, ok := daily.Pick(s.cfg.Now(), s.cfg.DailySalt, catalog)
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "empty_catalog")
		return
	}
	q := r.URL.Query()
	run, out, err := s.play(r.Context(), store.KindDaily, d.Date, solveReq{
		Answer:    d.Word,
		Strategy:  q.Get("strategy"),
		StartWord: q.Get("startWord"),
	})
	if err != nil {
		s.playError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, solveRes{Date: d.Date, Run: run, Outcome: out})
}

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string      `json:"date"`
	Top  []store.Run `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.cfg.Now())
	}
	rows, err := s.cfg.Store.Leaderboard(r.Context(), date, 20)
	if err != nil {
		log.Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
