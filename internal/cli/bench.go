package cli

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordlebot/internal/game"
	"github.com/robalobadob/wordlebot/internal/store"
	"github.com/robalobadob/wordlebot/internal/words"
)

type benchOptions struct {
	n        int
	all      bool
	parallel int
}

func (a *App) newBenchCmd() *cobra.Command {
	opts := &benchOptions{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Play many simulated games and summarise the results",
		Long: `Play N random catalog answers (or every catalog word with --all) and
report wins, average attempts and the attempt histogram. With DB_PATH set
every game is recorded as a bench run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.bench(cmd.Context(), opts)
		},
	}
	f := cmd.Flags()
	f.IntVarP(&opts.n, "count", "n", 100, "number of games")
	f.BoolVar(&opts.all, "all", false, "play every catalog word once")
	f.IntVarP(&opts.parallel, "parallel", "p", runtime.NumCPU(), "games played at a time")
	return cmd
}

func (a *App) bench(ctx context.Context, opts *benchOptions) error {
	catalog, err := a.source.Words(ctx)
	if err != nil {
		return err
	}
	answers := make([]string, 0, len(catalog))
	if opts.all {
		for _, e := range catalog {
			answers = append(answers, e.Word)
		}
	} else {
		for i := 0; i < opts.n; i++ {
			answers = append(answers, words.Random(catalog))
		}
	}

	st, err := a.openStore()
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	// per-game logs would drown the summary
	quiet := log.Logger.Level(zerolog.WarnLevel)
	s := a.newSolver(&quiet)

	var (
		mu    sync.Mutex
		stats store.Stats
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, opts.parallel))
	begin := time.Now()
	for _, answer := range answers {
		g.Go(func() error {
			lg, err := game.NewLocal(answer, nil)
			if err != nil {
				return err
			}
			start := time.Now()
			out, err := s.Play(ctx, lg)
			if err != nil {
				return fmt.Errorf("%s: %w", answer, err)
			}
			run := store.NewRun(store.KindBench, a.strategy, answer, out, time.Since(start))
			if st != nil {
				if err := st.SaveRun(ctx, run); err != nil {
					return err
				}
			}
			mu.Lock()
			stats.Add(*run)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	stats.Finish()

	fmt.Fprintf(a.stdout, "games %d  wins %d  win rate %.2f  avg attempts %.2f  (%s)\n",
		stats.Games, stats.Wins, stats.WinRate, stats.AvgAttempts, time.Since(begin).Round(time.Millisecond))
	keys := make([]int, 0, len(stats.Histogram))
	for k := range stats.Histogram {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		fmt.Fprintf(a.stdout, "  %d: %d\n", k, stats.Histogram[k])
	}
	return nil
}
