package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordlebot/internal/httpserver"
	"github.com/robalobadob/wordlebot/internal/solver"
	"github.com/robalobadob/wordlebot/internal/store"
	"github.com/robalobadob/wordlebot/internal/words"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func gameServer(t *testing.T, src solver.WordSource) *httptest.Server {
	t.Helper()
	srv := httpserver.New(httpserver.Config{Words: src, Store: store.NewMemory()})
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func newClient(t *testing.T, url string, minDelay time.Duration) *Client {
	t.Helper()
	nop := zerolog.Nop()
	c, err := New(url, Options{MinDelay: minDelay, Logger: &nop})
	require.NoError(t, err)
	return c
}

func TestSolveAgainstHostedGame(t *testing.T) {
	src := words.NewSource("")
	ts := gameServer(t, src)
	c := newClient(t, ts.URL, 0)

	_, err := c.Start(context.Background(), "CRANE")
	require.NoError(t, err)

	nop := zerolog.Nop()
	out, err := solver.New(src, solver.Options{Strategy: solver.StrategyV2, Logger: &nop, RetryDelay: time.Millisecond}).
		Play(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, solver.Solved, out.State)
	assert.Equal(t, []string{"SOARE", "CIBOL", "CRANE"}, out.Guesses)
}

func TestExhaustedGameRevealsAnswer(t *testing.T) {
	src := words.FromWords("SOARE", "BIGHT", "FIGHT", "LIGHT", "MIGHT", "NIGHT", "RIGHT", "SIGHT", "TIGHT", "WIGHT")
	ts := gameServer(t, src)
	c := newClient(t, ts.URL, 0)

	_, err := c.Start(context.Background(), "TIGHT")
	require.NoError(t, err)

	_, err = c.Answer(context.Background())
	assert.ErrorIs(t, err, solver.ErrAnswerUnavailable)

	nop := zerolog.Nop()
	out, err := solver.New(src, solver.Options{Strategy: solver.StrategyNone, Logger: &nop, RetryDelay: time.Millisecond}).
		Play(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, solver.Exhausted, out.State)
	assert.Equal(t, "TIGHT", out.Answer)
}

func TestSubmitTranslatesMarks(t *testing.T) {
	ts := gameServer(t, words.NewSource(""))
	c := newClient(t, ts.URL, 0)
	_, err := c.Start(context.Background(), "CRANE")
	require.NoError(t, err)

	facts, err := c.Submit(context.Background(), "SOARE")
	require.NoError(t, err)
	assert.Equal(t, []solver.LetterFact{
		solver.AbsentAt('S', 1),
		solver.AbsentAt('O', 2),
		solver.CorrectAt('A', 3),
		solver.PresentAt('R', 4),
		solver.CorrectAt('E', 5),
	}, facts)

	_, err = c.Submit(context.Background(), "ZZZZZ")
	assert.ErrorIs(t, err, ErrRejected)
	assert.ErrorIs(t, err, solver.ErrGuessRejected)
}

// flakyServer fronts the hosted game and answers the first `fail` guesses
// with status instead.
func flakyServer(t *testing.T, status, fail int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	inner := httpserver.New(httpserver.Config{Store: store.NewMemory()}).Router()
	var guesses atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/game/guess" && int(guesses.Add(1)) <= fail {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":"try later"}`))
			return
		}
		inner.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)
	return ts, &guesses
}

func TestServerErrorIsRetried(t *testing.T) {
	ts, guesses := flakyServer(t, http.StatusServiceUnavailable, 1)
	c := newClient(t, ts.URL, 0)
	_, err := c.Start(context.Background(), "CRANE")
	require.NoError(t, err)

	nop := zerolog.Nop()
	out, err := solver.New(words.NewSource(""), solver.Options{Strategy: solver.StrategyV2, Logger: &nop, RetryDelay: time.Millisecond}).
		Play(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, []string{"SOARE", "CIBOL", "CRANE"}, out.Guesses)
	assert.Equal(t, int32(4), guesses.Load())
}

func TestRejectedGuessIsNotResent(t *testing.T) {
	ts, guesses := flakyServer(t, http.StatusBadRequest, 10)
	c := newClient(t, ts.URL, 0)
	_, err := c.Start(context.Background(), "CRANE")
	require.NoError(t, err)

	_, err = c.Submit(context.Background(), "SOARE")
	assert.ErrorIs(t, err, ErrRejected)

	nop := zerolog.Nop()
	_, err = solver.New(words.NewSource(""), solver.Options{Logger: &nop, RetryDelay: time.Millisecond}).
		Play(context.Background(), c)
	assert.ErrorIs(t, err, solver.ErrGuessRejected)
	assert.Equal(t, int32(2), guesses.Load())
}

func TestUnavailableStatuses(t *testing.T) {
	for _, status := range []int{http.StatusInternalServerError, http.StatusTooManyRequests} {
		ts, _ := flakyServer(t, status, 1)
		c := newClient(t, ts.URL, 0)
		_, err := c.Start(context.Background(), "CRANE")
		require.NoError(t, err)

		_, err = c.Submit(context.Background(), "SOARE")
		assert.ErrorIs(t, err, ErrUnavailable, "status %d", status)
		assert.NotErrorIs(t, err, solver.ErrGuessRejected, "status %d", status)
	}
}

func TestSubmitIsPaced(t *testing.T) {
	ts := gameServer(t, words.NewSource(""))
	c := newClient(t, ts.URL, 40*time.Millisecond)
	_, err := c.Start(context.Background(), "CRANE")
	require.NoError(t, err)

	start := time.Now()
	for _, g := range []string{"SOARE", "CIBOL", "CRANE"} {
		_, err := c.Submit(context.Background(), g)
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 75*time.Millisecond)
}

func TestClientErrors(t *testing.T) {
	_, err := New("not a url", Options{})
	assert.Error(t, err)

	ts := gameServer(t, words.NewSource(""))
	c := newClient(t, ts.URL, 0)
	_, err = c.Submit(context.Background(), "CRANE")
	assert.ErrorIs(t, err, ErrNotStarted)
	_, err = c.Answer(context.Background())
	assert.ErrorIs(t, err, ErrNotStarted)

	c.gameID = "missing"
	_, err = c.Submit(context.Background(), "CRANE")
	assert.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "404")
}

func TestLogin(t *testing.T) {
	ts := gameServer(t, words.NewSource(""))
	body, _ := json.Marshal(map[string]string{"username": "player_1", "password": "hunter2hunter2"})
	resp, err := http.Post(ts.URL+"/auth/signup", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	c := newClient(t, ts.URL, 0)
	assert.ErrorIs(t, c.Login(context.Background(), "player_1", "wrong-password"), ErrRejected)
	require.NoError(t, c.Login(context.Background(), "player_1", "hunter2hunter2"))
	assert.NotEmpty(t, c.token)
}
