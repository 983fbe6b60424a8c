package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bolso-dev/bolso/internal/auth"
	"github.com/bolso-dev/bolso/internal/config"
	"github.com/bolso-dev/bolso/internal/httpapi"
	"github.com/bolso-dev/bolso/internal/ledger"
	"github.com/bolso-dev/bolso/internal/recurring"
	"github.com/bolso-dev/bolso/internal/store"
	"github.com/bolso-dev/bolso/internal/transactions"
)

func newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return runServe(cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

func runServe(cfg config.Config) error {
	log := newLogger(cfg.Log.Level)

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	authSvc := auth.NewService(st, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	txSvc := transactions.NewService(st, ledger.NewUpdater(st))
	recSvc := recurring.NewService(st)

	server := httpapi.New(st, authSvc, txSvc, recSvc, log)
	app := server.App()

	log.Info().Str("addr", cfg.Server.Addr).Str("db", cfg.Database.Path).Msg("listening")
	return app.Listen(cfg.Server.Addr)
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
