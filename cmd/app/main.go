package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"itinera/cmd/fx/auth_fx"
	"itinera/cmd/fx/config_fx"
	"itinera/cmd/fx/controllers_fx"
	"itinera/cmd/fx/db_fx"
	"itinera/cmd/fx/discovery_fx"
	"itinera/cmd/fx/memcache_fx"
	"itinera/cmd/fx/place_search_fx"
	"itinera/cmd/fx/redis_fx"
	"itinera/cmd/fx/trip_fx"
	"itinera/cmd/fx/wishlist_fx"
	"itinera/internal/infra"
	"itinera/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "itinera",
		Short:        "Travel discovery and itinerary budget API",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(
				config_fx.Module,
				db_fx.Module,
				redis_fx.Module,
				memcache_fx.Module,
				place_search_fx.Module,
				auth_fx.Module,
				discovery_fx.Module,
				wishlist_fx.Module,
				trip_fx.Module,
				controllers_fx.Module,

				fx.Provide(ProvideRouter),
				fx.Invoke(StartServer),
			)
			if err := app.Err(); err != nil {
				logger.LogError(logger.GetLogger(), "main", "serve", "fx.New", nil, err)
				return err
			}
			app.Run()
			return nil
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := infra.LoadConfig()
			logger.SetLevel(cfg.LogLevel)

			db, err := infra.InitPostgresql(cfg)
			if err != nil {
				return err
			}
			defer infra.ClosePostgresql(db)

			if err := infra.Migrate(db); err != nil {
				logger.LogError(logger.GetLogger(), "main", "migrate", "AutoMigrate", nil, err)
				return err
			}
			logger.GetLogger().Info("schema is up to date")
			return nil
		},
	}
}

func StartServer(lc fx.Lifecycle, cfg infra.Config, engine *gin.Engine) {
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: engine}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.GetLogger().Infof("Starting HTTP server at :%s", cfg.Port)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.GetLogger().Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.GetLogger().Info("Stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}
