// internal/httpserver/server.go
//
// HTTP server wiring for wordlebot.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Hosted game endpoints (optional auth): POST /game/new, POST /game/guess, GET /game/{id}.
//   - Solver endpoints: /solve, /daily, /runs, /stats (routes_solve.go, routes_daily.go).
//   - Account endpoints: /auth/* (routes_auth.go).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Optional auth decorates requests with the caller when a valid token is present;
//     routes still run for guests.
//   - Require-auth middleware enforces presence and validity of a JWT.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordlebot/internal/auth"
	"github.com/robalobadob/wordlebot/internal/game"
	"github.com/robalobadob/wordlebot/internal/solver"
	"github.com/robalobadob/wordlebot/internal/store"
	"github.com/robalobadob/wordlebot/internal/words"
)

// Config holds the server's collaborators and solver defaults.
type Config struct {
	Words         solver.WordSource
	Store         store.Store
	Games         *store.Games
	Signer        *auth.Signer
	Strategy      solver.Strategy
	StartWord     string
	DailySalt     string
	ClientOrigin  string
	SecureCookies bool
	SolveRPS      float64 // per-client limit on solver endpoints; 0 disables
	Now           func() time.Time
}

// Server bundles the router and its dependencies.
type Server struct {
	r   *chi.Mux
	cfg Config
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg Config) *Server {
	if cfg.Words == nil {
		cfg.Words = words.NewSource("")
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemory()
	}
	if cfg.Games == nil {
		cfg.Games = store.NewGames()
	}
	if cfg.Signer == nil {
		cfg.Signer = auth.NewSigner("", 0)
	}
	if cfg.Strategy == "" {
		cfg.Strategy = solver.StrategyV2
	}
	if cfg.StartWord == "" {
		cfg.StartWord = solver.DefaultStartWord
	}
	if cfg.ClientOrigin == "" {
		cfg.ClientOrigin = "http://localhost:5173"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	s := &Server{r: chi.NewRouter(), cfg: cfg}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(accessLog)                       // one zerolog line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(30 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(cfg.ClientOrigin))          // credentials-friendly CORS
	s.r.Use(s.withOptionalAuth)              // caller in context when a token is valid

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "wordlebot",
			"endpoints": []string{"/health", "POST /solve", "/daily", "/runs", "/stats", "POST /game/new", "POST /game/guess", "/auth/*"},
		})
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	s.r.Get("/debug/words", s.handleDebugWords)

	// Hosted game: anyone (including the bot's remote client) can play.
	s.r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Post("/guess", s.handleGuess)
		r.Get("/{id}", s.handleGetGame)
	})

	s.mountSolve(s.r)
	s.mountDaily(s.r)
	s.mountAuth(s.r)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info().Msg("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

func (s *Server) handleDebugWords(w http.ResponseWriter, r *http.Request) {
	catalog, err := s.cfg.Words.Words(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("load catalog")
		writeError(w, http.StatusInternalServerError, "catalog_unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"words": len(catalog), "games": s.cfg.Games.Len()})
}

// ------------------------------ GAME ---------------------------------------

// newGameReq/Res payloads for POST /game/new.
type newGameReq struct {
	Answer string `json:"answer"` // optional fixed answer (testing)
}
type newGameRes struct {
	GameID string `json:"gameId"`
}

// handleNewGame creates a hosted game. The answer is random from the
// catalog unless one is given; guesses must be catalog words.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	catalog, err := s.cfg.Words.Words(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("load catalog")
		writeError(w, http.StatusInternalServerError, "catalog_unavailable")
		return
	}
	answer := req.Answer
	if answer == "" {
		answer = words.Random(catalog)
	}
	g, err := game.NewLocal(answer, catalog)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_answer")
		return
	}
	if err := s.cfg.Games.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, newGameRes{GameID: g.ID()})
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	Marks []game.Mark `json:"marks"`
	State string      `json:"state"` // "playing" | "won" | "lost"
}

// handleGuess applies a guess to a hosted game.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	g, err := s.cfg.Games.Get(r.Context(), req.GameID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	facts, err := g.Submit(r.Context(), req.Guess)
	switch {
	case errors.Is(err, game.ErrFinished):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, game.ErrInvalidGuess), errors.Is(err, game.ErrNotInWordList):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "guess_failed")
		return
	}
	marks := make([]game.Mark, len(facts))
	for i, f := range facts {
		marks[i] = markOf(f.Kind)
	}
	writeJSON(w, http.StatusOK, guessRes{Marks: marks, State: g.State()})
}

type gameRes struct {
	GameID  string   `json:"gameId"`
	State   string   `json:"state"`
	Guesses []string `json:"guesses"`
	Answer  string   `json:"answer,omitempty"` // only once finished
}

// handleGetGame reports a hosted game's progress.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.cfg.Games.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	res := gameRes{GameID: g.ID(), State: g.State(), Guesses: g.Guesses()}
	if res.State != "playing" {
		res.Answer, _ = g.Answer(r.Context())
	}
	writeJSON(w, http.StatusOK, res)
}

func markOf(k solver.FactKind) game.Mark {
	switch k {
	case solver.Correct:
		return game.MarkHit
	case solver.Present:
		return game.MarkPresent
	default:
		return game.MarkMiss
	}
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
