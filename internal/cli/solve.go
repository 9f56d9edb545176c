package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/robalobadob/wordlebot/internal/daily"
	"github.com/robalobadob/wordlebot/internal/game"
	"github.com/robalobadob/wordlebot/internal/store"
	"github.com/robalobadob/wordlebot/internal/words"
)

func (a *App) newSolveCmd() *cobra.Command {
	var (
		answer string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a simulated game with a known answer",
		Long: `Play one game against a local engine. The answer is random from the
catalog unless --answer is given.

Examples:
  wordlebot solve --answer crane
  wordlebot solve --strategy always --start-word random --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if answer == "" {
				catalog, err := a.source.Words(ctx)
				if err != nil {
					return err
				}
				answer = words.Random(catalog)
			}
			g, err := game.NewLocal(answer, nil)
			if err != nil {
				return err
			}
			truth, _ := g.Answer(ctx)

			start := time.Now()
			out, err := a.newSolver(nil).Play(ctx, g)
			if err != nil {
				return err
			}
			a.record(ctx, store.NewRun(store.KindSolve, a.strategy, truth, out, time.Since(start)))
			return a.report(out, asJSON)
		},
	}
	cmd.Flags().StringVarP(&answer, "answer", "a", "", "answer word (random when empty)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the outcome as JSON")
	return cmd
}

func (a *App) newAssistCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "assist",
		Short: "Suggest guesses for a game played elsewhere",
		Long: `The bot prints each guess; play it in the real game and type back the
tiles: g (correct), y (present) or . (absent), e.g. "..gyg".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			start := time.Now()
			out, err := a.newSolver(nil).Play(ctx, game.NewTerminal(a.stdin, a.stdout))
			if err != nil {
				return err
			}
			a.record(ctx, store.NewRun(store.KindAssist, a.strategy, "", out, time.Since(start)))
			return a.report(out, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the outcome as JSON")
	return cmd
}

func (a *App) newDailyCmd() *cobra.Command {
	var (
		date   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Solve the deterministic word of the day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			day := time.Now().UTC()
			if date != "" {
				d, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("invalid --date %q: %w", date, err)
				}
				day = d
			}
			catalog, err := a.source.Words(ctx)
			if err != nil {
				return err
			}
			w, ok := daily.Pick(day, a.cfg.DailySalt, catalog)
			if !ok {
				return words.ErrEmpty
			}
			g, err := game.NewLocal(w.Word, nil)
			if err != nil {
				return err
			}

			start := time.Now()
			out, err := a.newSolver(nil).Play(ctx, g)
			if err != nil {
				return err
			}
			run := store.NewRun(store.KindDaily, a.strategy, w.Word, out, time.Since(start))
			run.Date = w.Date
			a.record(ctx, run)
			if !asJSON {
				fmt.Fprintf(a.stdout, "daily %s (#%d)\n", w.Date, w.Index)
			}
			return a.report(out, asJSON)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "UTC date YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the outcome as JSON")
	return cmd
}
