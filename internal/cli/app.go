// Package cli is the wordlebot command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordlebot/internal/config"
	"github.com/robalobadob/wordlebot/internal/solver"
	"github.com/robalobadob/wordlebot/internal/store"
	"github.com/robalobadob/wordlebot/internal/words"
)

// App is the CLI application.
type App struct {
	root   *cobra.Command
	stdin  io.Reader
	stdout io.Writer

	configPath string
	cfg        *config.Config
	strategy   solver.Strategy
	source     *words.Source
}

// New creates the CLI with all subcommands.
func New() *App {
	app := &App{stdin: os.Stdin, stdout: os.Stdout}

	app.root = &cobra.Command{
		Use:   "wordlebot",
		Short: "Wordle solving bot",
		Long: `wordlebot narrows a weighted catalog of five-letter words with the
feedback of each guess, optionally spending a guess on a scouting word
when too many candidates remain.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: app.setup,
	}

	pf := app.root.PersistentFlags()
	pf.StringVarP(&app.configPath, "config", "c", "", "YAML config file (overrides env)")
	pf.String("strategy", "", "scouting strategy: always, v1, v2, none")
	pf.String("start-word", "", "opening word: "+strings.Join(solver.StartWords(), ", "))
	pf.BoolP("verbose", "v", false, "log knowledge, pattern and candidate diagnostics")
	pf.String("words", "", "word catalog CSV (defaults to the built-in list)")
	pf.String("log-level", "", "zerolog level (debug, info, warn, error, disabled)")

	app.root.AddCommand(
		app.newSolveCmd(),
		app.newAssistCmd(),
		app.newPlayCmd(),
		app.newBenchCmd(),
		app.newDailyCmd(),
		app.newServeCmd(),
	)
	return app
}

// WithIO sets custom input and output streams.
func (a *App) WithIO(stdin io.Reader, stdout io.Writer) *App {
	a.stdin, a.stdout = stdin, stdout
	a.root.SetIn(stdin)
	a.root.SetOut(stdout)
	a.root.SetErr(stdout)
	return a
}

// Execute runs the CLI until the command finishes or a signal arrives.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments.
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

// setup resolves configuration: flags > config file > environment.
func (a *App) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	fl := cmd.Flags()
	if fl.Changed("strategy") {
		cfg.Strategy, _ = fl.GetString("strategy")
	}
	if fl.Changed("start-word") {
		cfg.StartWord, _ = fl.GetString("start-word")
	}
	if fl.Changed("verbose") {
		cfg.Verbose, _ = fl.GetBool("verbose")
	}
	if fl.Changed("words") {
		cfg.WordsFile, _ = fl.GetString("words")
	}
	if fl.Changed("log-level") {
		cfg.LogLevel, _ = fl.GetString("log-level")
	}

	if lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, keeping current")
	}

	strategy, ok := solver.ParseStrategy(cfg.Strategy)
	if !ok {
		log.Warn().Str("strategy", cfg.Strategy).Msg("unknown scouting strategy, scouting disabled")
	}
	a.cfg, a.strategy = cfg, strategy
	a.source = words.NewSource(cfg.WordsFile)
	return nil
}

// newSolver builds a solver from the resolved configuration.
func (a *App) newSolver(logger *zerolog.Logger) *solver.Solver {
	return solver.New(a.source, solver.Options{
		Strategy:   a.strategy,
		StartWord:  a.cfg.StartWord,
		Verbose:    a.cfg.Verbose,
		RetryDelay: a.cfg.RetryDelay,
		Logger:     logger,
	})
}

// openStore returns the run history store, or nil when DB_PATH is unset.
func (a *App) openStore() (store.Store, error) {
	if a.cfg.DBPath == "" {
		return nil, nil
	}
	return store.OpenSQLite(a.cfg.DBPath)
}

// record saves run when a store is configured. Failures are logged only.
func (a *App) record(ctx context.Context, run *store.Run) {
	st, err := a.openStore()
	if err != nil {
		log.Error().Err(err).Msg("open run store")
		return
	}
	if st == nil {
		return
	}
	defer st.Close()
	if err := st.SaveRun(ctx, run); err != nil {
		log.Error().Err(err).Msg("save run")
		return
	}
	log.Debug().Str("id", run.ID).Str("kind", run.Kind).Msg("run recorded")
}

// report prints an outcome as text or JSON.
func (a *App) report(out *solver.Outcome, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	for _, r := range out.Rounds {
		line := fmt.Sprintf("%d  %s", r.Attempt, r.Guess)
		if r.PoolAfter > 0 || r.PoolBefore > 0 {
			line += fmt.Sprintf("  candidates %d -> %d (%.2f%% out)", r.PoolBefore, r.PoolAfter, r.DropOutPct)
		}
		if r.Scouted {
			line += "  scout next"
		}
		fmt.Fprintln(a.stdout, line)
	}
	switch out.State {
	case solver.Solved:
		fmt.Fprintf(a.stdout, "solved %s in %d\n", out.Word, out.Attempts)
	default:
		msg := fmt.Sprintf("not solved after %d", out.Attempts)
		if out.Answer != "" {
			msg += ", answer was " + out.Answer
		}
		fmt.Fprintln(a.stdout, msg)
	}
	return nil
}
