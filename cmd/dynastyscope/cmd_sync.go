package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dynastyscope/dynastyscope/internal/application/sync"
	"github.com/dynastyscope/dynastyscope/internal/infrastructure/db"
	"github.com/dynastyscope/dynastyscope/internal/persistence"
	"github.com/dynastyscope/dynastyscope/internal/persistence/cache"
	"github.com/dynastyscope/dynastyscope/internal/provider/sleeper"
)

var syncCmd = &cobra.Command{
	Use:   "sync [league-id...]",
	Short: "Fetch, analyze, and store one or more leagues",
	Long: `Pull league data from the provider, run the analysis pass, and write the
resulting profiles to the configured database. Requires persistence to be
enabled in the config file.

Examples:
  dynastyscope sync 987654321 --config config/dynastyscope.yaml
  dynastyscope sync lg1 lg2 --timeout 5m`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSync,
}

var syncTimeout time.Duration

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().DurationVar(&syncTimeout, "timeout", 2*time.Minute, "Per-league sync timeout")
}

func runSync(cmd *cobra.Command, args []string) error {
	manager, err := db.NewManager(cfg.Database)
	if err != nil {
		return fmt.Errorf("database setup failed: %w", err)
	}
	defer manager.Close()

	var profiles persistence.ProfileRepo
	if manager.IsEnabled() {
		profiles = manager.Repository().Profiles
	} else {
		log.Warn().Msg("persistence disabled; sync results will not be stored")
	}

	profileCache := cache.New(cfg.Redis)
	defer profileCache.Close()

	service := sync.NewService(cfg.Sync, sleeper.NewClient(cfg.Provider), profiles, profileCache)

	for _, leagueID := range args {
		ctx, cancel := context.WithTimeout(cmd.Context(), syncTimeout)
		result, err := service.SyncLeague(ctx, leagueID)
		cancel()
		if err != nil {
			return err
		}
		fmt.Printf("synced %s: %d teams\n", leagueID, len(result.Teams))
	}
	return nil
}
