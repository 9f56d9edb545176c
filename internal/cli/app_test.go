package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordlebot/internal/httpserver"
	"github.com/robalobadob/wordlebot/internal/store"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{"SCOUTING_STRATEGY", "START_WORD", "VERBOSE", "WORDS_FILE", "DB_PATH", "DAILY_SALT", "RETRY_DELAY"} {
		t.Setenv(k, "")
	}
	t.Setenv("LOG_LEVEL", "disabled")

	var out bytes.Buffer
	err := New().WithIO(strings.NewReader(stdin), &out).ExecuteWithArgs(context.Background(), args)
	return out.String(), err
}

type outcomeJSON struct {
	State   string   `json:"state"`
	Word    string   `json:"word"`
	Opening string   `json:"opening"`
	Guesses []string `json:"guesses"`
}

func TestSolveCommand(t *testing.T) {
	out, err := runCLI(t, "", "solve", "--answer", "crane", "--strategy", "v2")
	require.NoError(t, err)
	assert.Contains(t, out, "1  SOARE")
	assert.Contains(t, out, "solved CRANE in 3")
}

func TestSolveCommandJSON(t *testing.T) {
	out, err := runCLI(t, "", "solve", "-a", "GIDDY", "--json")
	require.NoError(t, err)

	var got outcomeJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "solved", got.State)
	assert.Equal(t, "GIDDY", got.Word)
	assert.Equal(t, "SOARE", got.Opening)
	assert.Equal(t, []string{"SOARE", "CIBOL", "FIGHT", "GIDDY"}, got.Guesses)
}

func TestSolveRecordsRun(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	for _, k := range []string{"SCOUTING_STRATEGY", "START_WORD", "VERBOSE", "WORDS_FILE", "DAILY_SALT"} {
		t.Setenv(k, "")
	}
	t.Setenv("LOG_LEVEL", "disabled")
	t.Setenv("DB_PATH", db)

	var out bytes.Buffer
	require.NoError(t, New().WithIO(strings.NewReader(""), &out).
		ExecuteWithArgs(context.Background(), []string{"solve", "--answer", "CRANE"}))
	require.NoError(t, New().WithIO(strings.NewReader(""), &out).
		ExecuteWithArgs(context.Background(), []string{"daily", "--date", "2026-03-01"}))

	st, err := store.OpenSQLite(db)
	require.NoError(t, err)
	defer st.Close()

	runs, err := st.ListRuns(context.Background(), store.RunFilter{Kind: store.KindSolve})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "CRANE", runs[0].Answer)
	assert.Equal(t, 3, runs[0].Attempts)

	runs, err = st.ListRuns(context.Background(), store.RunFilter{Kind: store.KindDaily})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "2026-03-01", runs[0].Date)
	assert.True(t, runs[0].Won())
}

func TestAssistCommand(t *testing.T) {
	out, err := runCLI(t, "..gyg\ng....\nggggg\n", "assist")
	require.NoError(t, err)
	assert.Contains(t, out, "Guess 1: SOARE")
	assert.Contains(t, out, "solved CRANE in 3")
}

func TestAssistEndOfInput(t *testing.T) {
	_, err := runCLI(t, "..gyg\n", "assist")
	assert.Error(t, err)
}

func TestBenchCommand(t *testing.T) {
	out, err := runCLI(t, "", "bench", "-n", "5", "--parallel", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "games 5  wins 5  win rate 1.00")
}

func TestDailyCommand(t *testing.T) {
	out, err := runCLI(t, "", "daily", "--date", "2026-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "daily 2026-03-01 (#")
	assert.Contains(t, out, "solved ")

	_, err = runCLI(t, "", "daily", "--date", "yesterday")
	assert.Error(t, err)
}

func TestPlayCommand(t *testing.T) {
	ts := httptest.NewServer(httpserver.New(httpserver.Config{}).Router())
	defer ts.Close()

	out, err := runCLI(t, "", "play", "--url", ts.URL, "--answer", "CRANE", "--min-delay", "0s")
	require.NoError(t, err)
	assert.Contains(t, out, "solved CRANE in 3")
}

func TestStartWordFlagHelp(t *testing.T) {
	out, err := runCLI(t, "", "solve", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "opening word: SOARE, CARES, TARES, random")
}

func TestConfigFileErrors(t *testing.T) {
	_, err := runCLI(t, "", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "solve")
	assert.Error(t, err)
}
