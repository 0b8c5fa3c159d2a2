package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"finance-tracker-backend/internal/api"
	"finance-tracker-backend/internal/auth"
	"finance-tracker-backend/internal/cache"
	"finance-tracker-backend/internal/config"
	"finance-tracker-backend/internal/ledger"
	"finance-tracker-backend/internal/logging"
)

func main() {
	migrateCmd := flag.Bool("migrate", false, "Run database migrations and exit")
	seedDemo := flag.String("seed-demo", "", "Seed demo categories and transactions for the user with this email (idempotent)")
	flag.Parse()

	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := ledger.Open(ctx, cfg.DatabaseURL, cfg.DBMaxRetries, cfg.DBRetryDelay, logging.Component(log, "ledger"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	store := ledger.NewStore(db, logging.Component(log, "ledger"))
	defer store.Close()

	if err := ledger.Migrate(db, logging.Component(log, "migrate")); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
	if *migrateCmd {
		log.Info().Msg("Migration completed successfully")
		return
	}

	if *seedDemo != "" {
		if err := seed(ctx, store, cfg, *seedDemo); err != nil {
			log.Fatal().Err(err).Msg("Seeding demo data failed")
		}
		return
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if err := serve(ctx, cfg, store, log); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func seed(ctx context.Context, store *ledger.Store, cfg *config.Config, email string) error {
	user, err := store.UserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	return store.SeedDemo(ctx, user.ID, time.Now().In(cfg.Location()))
}

func serve(ctx context.Context, cfg *config.Config, store *ledger.Store, log zerolog.Logger) error {
	dashboards := cache.NewDashboards(nil, cfg.DashboardCacheTTL, logging.Component(log, "cache"))
	if redisClient, err := cache.Connect(ctx, cfg.RedisURL); err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis, continuing without dashboard cache")
	} else {
		defer redisClient.Close()
		dashboards = cache.NewDashboards(redisClient, cfg.DashboardCacheTTL, logging.Component(log, "cache"))
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := api.New(api.Options{
		Store:       store,
		Cache:       dashboards,
		Tokens:      auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL),
		Location:    cfg.Location(),
		CORSOrigins: cfg.CORSOrigins,
		LoginRate:   cfg.LoginRate,
		LoginBurst:  cfg.LoginBurst,
		Logger:      logging.Component(log, "api"),
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Server starting")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
