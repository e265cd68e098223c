package cli

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"schemasync/internal/api"
	"schemasync/internal/api/middleware"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the comparison over a read-only JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if a.verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			a.logger = logger

			srvCfg := api.DefaultConfig()
			srvCfg.Addr = cfg.Server.Addr
			srvCfg.RateLimit = cfg.Server.RateLimit
			if len(cfg.Server.CORSOrigins) > 0 {
				srvCfg.CORSOrigins = cfg.Server.CORSOrigins
			}

			srv := api.New(srvCfg, a.inspector(), middleware.BearerToken(cfg.Server.Token), logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "→ Listening on %s\n", srvCfg.Addr)
			fmt.Fprintf(cmd.OutOrStdout(), "→ Migrations: %s\n", cfg.MigrationsDir())
			if cfg.Server.Token == "" {
				logger.Warn("no server.token configured, the API is open to every client")
			}
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default :8080)")
	cmd.Flags().String("token", "", "bearer token required by the API")
	_ = a.viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = a.viper.BindPFlag("server.token", cmd.Flags().Lookup("token"))

	return cmd
}
