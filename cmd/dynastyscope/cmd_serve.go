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

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dynastyscope/dynastyscope/internal/application/sync"
	"github.com/dynastyscope/dynastyscope/internal/infrastructure/db"
	httpapi "github.com/dynastyscope/dynastyscope/internal/interfaces/http"
	"github.com/dynastyscope/dynastyscope/internal/persistence/cache"
	"github.com/dynastyscope/dynastyscope/internal/provider/sleeper"
	"github.com/dynastyscope/dynastyscope/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API server and, optionally, scheduled league syncs",
	Long: `Serve the read-only profile API backed by the configured database. When
the scheduler is enabled in config, recurring league syncs run in the same
process.

Examples:
  dynastyscope serve --config config/dynastyscope.yaml`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	manager, err := db.NewManager(cfg.Database)
	if err != nil {
		return fmt.Errorf("database setup failed: %w", err)
	}
	defer manager.Close()

	if !manager.IsEnabled() {
		return fmt.Errorf("serve requires persistence; enable database in config")
	}

	profileCache := cache.New(cfg.Redis)
	defer profileCache.Close()

	pingers := map[string]httpapi.Pinger{"database": manager}
	if profileCache != nil {
		pingers["cache"] = profileCache
	}

	handlers := httpapi.NewHandlers(manager.Repository().Profiles, profileCache, pingers)
	server := httpapi.NewServer(cfg.HTTP, handlers, httpapi.NewMetricsRegistry())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		jobs, err := scheduler.LoadConfig(cfg.Scheduler.Jobs)
		if err != nil {
			return err
		}
		service := sync.NewService(
			cfg.Sync, sleeper.NewClient(cfg.Provider),
			manager.Repository().Profiles, profileCache)
		sched = scheduler.New(ctx, service)
		if err := sched.Register(jobs); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
