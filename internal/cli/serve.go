package cli

import (
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordlebot/internal/auth"
	"github.com/robalobadob/wordlebot/internal/httpserver"
	"github.com/robalobadob/wordlebot/internal/store"
)

func (a *App) newServeCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and hosted game server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}
			st, err := a.openStore()
			if err != nil {
				return err
			}
			if st == nil {
				log.Warn().Msg("DB_PATH not set, run history is kept in memory")
				st = store.NewMemory()
			}
			defer st.Close()

			if a.cfg.JWTSecret == "" {
				log.Warn().Msg("JWT_SECRET not set, using development secret")
			}
			srv := httpserver.New(httpserver.Config{
				Words:         a.source,
				Store:         st,
				Signer:        auth.NewSigner(a.cfg.JWTSecret, 0),
				Strategy:      a.strategy,
				StartWord:     a.cfg.StartWord,
				DailySalt:     a.cfg.DailySalt,
				ClientOrigin:  a.cfg.ClientOrigin,
				SecureCookies: a.cfg.SecureCookies,
				SolveRPS:      a.cfg.SolveRPS,
			})
			log.Info().Str("port", strconv.Itoa(a.cfg.Port)).Msg("starting wordlebot server")
			return srv.Start(cmd.Context(), a.cfg.Addr())
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default PORT)")
	return cmd
}
