// internal/remote/client.go
//
// Game played against a hosted game server over HTTP.
// Responsibilities:
//   - Start a game (POST /game/new) and submit guesses (POST /game/guess).
//   - Translate hit/present/miss marks into solver feedback.
//   - Reveal the answer once the game is over (GET /game/{id}).
//   - Authenticate with a bearer token, optionally obtained via /auth/login.
//   - Pace submissions so consecutive guesses are at least MinDelay apart.

package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/robalobadob/wordlebot/internal/solver"
)

var (
	ErrNotStarted  = errors.New("game not started")
	ErrRejected    = errors.New("request rejected")   // 4xx other than 429
	ErrUnavailable = errors.New("server unavailable") // 5xx and 429, worth retrying
)

// Options configures a Client.
type Options struct {
	Token      string        // bearer token; may be set later with Login
	MinDelay   time.Duration // minimum gap between guesses; 0 disables pacing
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Client is a solver.Game backed by a remote server. One Client plays one
// game at a time.
type Client struct {
	base    *url.URL
	http    *http.Client
	token   string
	limiter *rate.Limiter
	log     zerolog.Logger
	gameID  string
}

// New returns a client for the server at baseURL.
func New(baseURL string, opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid game url %q", baseURL)
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	limit := rate.Inf
	if opts.MinDelay > 0 {
		limit = rate.Every(opts.MinDelay)
	}
	l := log.Logger
	if opts.Logger != nil {
		l = *opts.Logger
	}
	return &Client{
		base:    u,
		http:    hc,
		token:   opts.Token,
		limiter: rate.NewLimiter(limit, 1),
		log:     l,
	}, nil
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRes struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// Login exchanges credentials for a token used on later requests.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var res loginRes
	if err := c.do(ctx, http.MethodPost, "/auth/login", loginReq{username, password}, &res); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if res.Token == "" {
		return fmt.Errorf("login: %w: no token in response", ErrRejected)
	}
	c.token = res.Token
	return nil
}

type newGameReq struct {
	Answer string `json:"answer,omitempty"`
}

type newGameRes struct {
	GameID string `json:"gameId"`
}

// Start begins a new game. answer is optional and only honoured by
// servers that allow fixed answers.
func (c *Client) Start(ctx context.Context, answer string) (string, error) {
	var res newGameRes
	if err := c.do(ctx, http.MethodPost, "/game/new", newGameReq{Answer: answer}, &res); err != nil {
		return "", fmt.Errorf("new game: %w", err)
	}
	if res.GameID == "" {
		return "", fmt.Errorf("new game: %w: empty game id", ErrRejected)
	}
	c.gameID = res.GameID
	c.log.Info().Str("gameId", res.GameID).Msg("remote game started")
	return res.GameID, nil
}

type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}

type guessRes struct {
	Marks []string `json:"marks"`
	State string   `json:"state"`
}

// Submit sends one guess, waiting for the pacing limiter first.
func (c *Client) Submit(ctx context.Context, guess string) ([]solver.LetterFact, error) {
	if c.gameID == "" {
		return nil, fmt.Errorf("%w: %w", solver.ErrGuessRejected, ErrNotStarted)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	var res guessRes
	if err := c.do(ctx, http.MethodPost, "/game/guess", guessReq{GameID: c.gameID, Guess: guess}, &res); err != nil {
		if errors.Is(err, ErrRejected) {
			return nil, fmt.Errorf("guess %s: %w: %w", guess, solver.ErrGuessRejected, err)
		}
		return nil, fmt.Errorf("guess %s: %w", guess, err)
	}
	facts := make([]solver.LetterFact, len(res.Marks))
	for i, m := range res.Marks {
		var letter byte
		if i < len(guess) {
			letter = guess[i]
		}
		facts[i] = solver.LetterFact{Kind: solver.ParseFactKind(m), Letter: letter, Position: i + 1}
	}
	return facts, nil
}

type gameRes struct {
	GameID  string   `json:"gameId"`
	State   string   `json:"state"`
	Guesses []string `json:"guesses"`
	Answer  string   `json:"answer"`
}

// Answer asks the server for the solution of a finished game.
func (c *Client) Answer(ctx context.Context) (string, error) {
	if c.gameID == "" {
		return "", ErrNotStarted
	}
	var res gameRes
	if err := c.do(ctx, http.MethodGet, "/game/"+url.PathEscape(c.gameID), nil, &res); err != nil {
		return "", fmt.Errorf("game state: %w", err)
	}
	if res.Answer == "" {
		return "", solver.ErrAnswerUnavailable
	}
	return strings.ToUpper(res.Answer), nil
}

type errorRes struct {
	Error string `json:"error"`
}

// do sends a JSON request and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var e errorRes
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		kind := ErrRejected
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			kind = ErrUnavailable
		}
		return fmt.Errorf("%w: %d %s", kind, resp.StatusCode, e.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
