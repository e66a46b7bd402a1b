package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/yusufkecer/fittrack-backend/internal/db"
	"github.com/yusufkecer/fittrack-backend/internal/handler"
	"github.com/yusufkecer/fittrack-backend/internal/repository"
	"github.com/yusufkecer/fittrack-backend/internal/repository/memory"
	"github.com/yusufkecer/fittrack-backend/internal/service"
)

const demoJWTSecret = "demo_secret"

var skipMigrations bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		stores, closeStores, err := openStores(ctx)
		if err != nil {
			return err
		}
		defer closeStores()

		terra := service.NewTerraClient(cfg.TerraAPIURL, cfg.TerraDevID, cfg.TerraAPIKey, cfg.AppURL)
		wearables := service.NewWearableService(terra, stores.Users, stores.Workouts, log)

		router := handler.NewRouter(handler.Deps{
			Config:    cfg,
			Stores:    stores,
			Wearables: wearables,
			Mailer:    service.NewEmailService(cfg.ResendAPIKey, cfg.EmailFrom),
			Log:       log,
		})

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			mode := "PRODUCTION"
			if cfg.DemoMode {
				mode = "DEMO"
			}
			log.WithField("addr", srv.Addr).WithField("mode", mode).Info("server starting")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return fmt.Errorf("server error: %w", err)
		case <-ctx.Done():
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "Do not apply database migrations on startup")
}

// openStores connects MySQL, or builds the seeded in-memory stores in demo
// mode.
func openStores(ctx context.Context) (repository.Stores, func(), error) {
	if cfg.DemoMode {
		if cfg.JWTSecret == "" {
			cfg.JWTSecret = demoJWTSecret
		}
		stores := memory.New()
		if _, err := memory.SeedDemoUser(ctx, stores.Users); err != nil {
			return repository.Stores{}, nil, err
		}
		log.WithField("email", memory.DemoEmail).Warn("demo mode active, using in-memory storage")
		return stores, func() {}, nil
	}

	if cfg.JWTSecret == "" {
		return repository.Stores{}, nil, errors.New("JWT_SECRET environment variable must be set")
	}

	database, err := db.Connect(ctx, cfg, log)
	if err != nil {
		return repository.Stores{}, nil, fmt.Errorf("database connection failed: %w", err)
	}
	if !skipMigrations {
		if err := db.RunMigrations(ctx, database, log); err != nil {
			database.Close()
			return repository.Stores{}, nil, fmt.Errorf("migrations failed: %w", err)
		}
	}

	stores := repository.Stores{
		Users:       repository.NewUserRepository(database),
		ResetTokens: repository.NewResetTokenRepository(database),
		Workouts:    repository.NewWorkoutRepository(database),
		Meals:       repository.NewMealRepository(database),
		Progress:    repository.NewProgressRepository(database),
		Reminders:   repository.NewReminderRepository(database),
	}
	return stores, func() { database.Close() }, nil
}
