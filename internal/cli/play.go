package cli

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordlebot/internal/remote"
	"github.com/robalobadob/wordlebot/internal/store"
)

type playOptions struct {
	url      string
	answer   string
	username string
	password string
	token    string
	minDelay time.Duration
	asJSON   bool
}

func (a *App) newPlayCmd() *cobra.Command {
	opts := &playOptions{}
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a game hosted by a wordlebot server",
		Long: `Start a game on a remote server (see "wordlebot serve") and solve it over
HTTP. Guesses are paced at least --min-delay apart.

Examples:
  wordlebot play --url http://localhost:5175
  wordlebot play --username bot --password secret123 --min-delay 500ms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("url") {
				opts.url = a.cfg.GameURL
			}
			if !cmd.Flags().Changed("min-delay") {
				opts.minDelay = a.cfg.MinDelay
			}
			return a.play(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.url, "url", "", "game server base URL (default GAME_URL)")
	f.StringVar(&opts.answer, "answer", "", "fixed answer, when the server allows it")
	f.StringVar(&opts.username, "username", "", "log in before playing")
	f.StringVar(&opts.password, "password", "", "password for --username")
	f.StringVar(&opts.token, "token", "", "bearer token to use instead of logging in")
	f.DurationVar(&opts.minDelay, "min-delay", 0, "minimum time between guesses (default MIN_DELAY)")
	f.BoolVar(&opts.asJSON, "json", false, "print the outcome as JSON")
	cmd.MarkFlagsRequiredTogether("username", "password")
	return cmd
}

func (a *App) play(cmd *cobra.Command, opts *playOptions) error {
	ctx := cmd.Context()
	c, err := remote.New(opts.url, remote.Options{Token: opts.token, MinDelay: opts.minDelay})
	if err != nil {
		return err
	}
	if opts.username != "" {
		if err := c.Login(ctx, opts.username, opts.password); err != nil {
			return err
		}
		log.Info().Str("username", opts.username).Msg("logged in")
	}
	if _, err := c.Start(ctx, opts.answer); err != nil {
		return err
	}

	start := time.Now()
	out, err := a.newSolver(nil).Play(ctx, c)
	if err != nil {
		return err
	}
	a.record(ctx, store.NewRun(store.KindRemote, a.strategy, opts.answer, out, time.Since(start)))
	return a.report(out, opts.asJSON)
}
