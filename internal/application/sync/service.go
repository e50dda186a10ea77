// Package sync orchestrates one full refresh of a league: fetch raw data
// from the provider, run the analysis pipeline, persist the derived profiles,
// and invalidate any cached reads. Each run is tagged with a UUID so log
// lines from concurrent league refreshes stay separable.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dynastyscope/dynastyscope/internal/application/pipeline"
	"github.com/dynastyscope/dynastyscope/internal/persistence"
	"github.com/dynastyscope/dynastyscope/internal/persistence/cache"
	"github.com/dynastyscope/dynastyscope/internal/provider/sleeper"
)

// Fetcher is the slice of the provider client the sync service needs.
type Fetcher interface {
	GetLeague(ctx context.Context, leagueID string) (*sleeper.League, error)
	GetRosters(ctx context.Context, leagueID string) ([]sleeper.Roster, error)
	GetUsers(ctx context.Context, leagueID string) ([]sleeper.User, error)
	GetTransactionWindow(ctx context.Context, leagueID string, fromWeek, toWeek int) ([]sleeper.Transaction, error)
	GetTradedPicks(ctx context.Context, leagueID string) ([]sleeper.TradedPick, error)
	GetPlayers(ctx context.Context) (map[string]sleeper.Player, error)
}

// Config holds sync orchestration settings.
type Config struct {
	// TransactionWeeks is how many league weeks of transactions to pull.
	// Sleeper pages transactions by week; the 30-day signal window needs
	// roughly five weeks of history.
	TransactionWeeks int `yaml:"transaction_weeks"`

	// PlayerDirectoryTTL bounds how long the cached player directory is
	// reused before a fresh fetch.
	PlayerDirectoryTTL time.Duration `yaml:"player_directory_ttl"`
}

// DefaultConfig returns sync defaults.
func DefaultConfig() Config {
	return Config{
		TransactionWeeks:   6,
		PlayerDirectoryTTL: 24 * time.Hour,
	}
}

// Service runs league refreshes end to end.
type Service struct {
	config   Config
	fetcher  Fetcher
	profiles persistence.ProfileRepo
	cache    *cache.ProfileCache

	players     map[string]sleeper.Player
	playersAsOf time.Time
}

// NewService wires a sync service. profiles may be nil when persistence is
// disabled; cache may be nil when caching is disabled.
func NewService(config Config, fetcher Fetcher, profiles persistence.ProfileRepo, profileCache *cache.ProfileCache) *Service {
	return &Service{
		config:   config,
		fetcher:  fetcher,
		profiles: profiles,
		cache:    profileCache,
	}
}

// SyncLeague refreshes one league and returns the computed result. The
// result is returned even when persistence fails partway, so callers can
// still serve the freshest computation.
func (s *Service) SyncLeague(ctx context.Context, leagueID string) (*pipeline.Result, error) {
	runID := uuid.New().String()
	start := time.Now()
	logger := log.With().Str("run_id", runID).Str("league_id", leagueID).Logger()

	logger.Info().Msg("league sync started")

	payload, err := s.fetch(ctx, leagueID)
	if err != nil {
		syncRuns.WithLabelValues("fetch_error").Inc()
		return nil, fmt.Errorf("sync %s: %w", leagueID, err)
	}

	input, err := sleeper.MapLeague(payload, start.UTC())
	if err != nil {
		syncRuns.WithLabelValues("map_error").Inc()
		return nil, fmt.Errorf("sync %s: %w", leagueID, err)
	}

	result := pipeline.Run(input)

	if err := s.persist(ctx, leagueID, result); err != nil {
		syncRuns.WithLabelValues("persist_error").Inc()
		logger.Error().Err(err).Msg("failed to persist league profiles")
		return &result, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateLeague(ctx, leagueID); err != nil {
			logger.Warn().Err(err).Msg("failed to invalidate league cache")
		}
	}

	syncRuns.WithLabelValues("success").Inc()
	syncDuration.Observe(time.Since(start).Seconds())
	logger.Info().
		Int("teams", len(result.Teams)).
		Dur("duration", time.Since(start)).
		Msg("league sync completed")
	return &result, nil
}

func (s *Service) fetch(ctx context.Context, leagueID string) (sleeper.LeaguePayload, error) {
	league, err := s.fetcher.GetLeague(ctx, leagueID)
	if err != nil {
		return sleeper.LeaguePayload{}, err
	}
	rosters, err := s.fetcher.GetRosters(ctx, leagueID)
	if err != nil {
		return sleeper.LeaguePayload{}, err
	}
	users, err := s.fetcher.GetUsers(ctx, leagueID)
	if err != nil {
		return sleeper.LeaguePayload{}, err
	}
	txs, err := s.fetcher.GetTransactionWindow(ctx, leagueID, 1, s.config.TransactionWeeks)
	if err != nil {
		return sleeper.LeaguePayload{}, err
	}
	picks, err := s.fetcher.GetTradedPicks(ctx, leagueID)
	if err != nil {
		return sleeper.LeaguePayload{}, err
	}
	players, err := s.playerDirectory(ctx)
	if err != nil {
		return sleeper.LeaguePayload{}, err
	}

	return sleeper.LeaguePayload{
		League:       league,
		Rosters:      rosters,
		Users:        users,
		Transactions: txs,
		TradedPicks:  picks,
		Players:      players,
	}, nil
}

// playerDirectory reuses the last directory fetch within its TTL. The
// directory is multi-megabyte and changes slowly.
func (s *Service) playerDirectory(ctx context.Context) (map[string]sleeper.Player, error) {
	if s.players != nil && time.Since(s.playersAsOf) < s.config.PlayerDirectoryTTL {
		return s.players, nil
	}
	players, err := s.fetcher.GetPlayers(ctx)
	if err != nil {
		if s.players != nil {
			log.Warn().Err(err).Msg("player directory refresh failed, reusing stale copy")
			return s.players, nil
		}
		return nil, err
	}
	s.players = players
	s.playersAsOf = time.Now()
	return players, nil
}

func (s *Service) persist(ctx context.Context, leagueID string, result pipeline.Result) error {
	if s.profiles == nil {
		return nil
	}
	for _, team := range result.Teams {
		if err := s.profiles.UpsertSignals(ctx, persistence.NewSignalsRecord(leagueID, team.Signals)); err != nil {
			return fmt.Errorf("upsert signals for %s: %w", team.TeamID, err)
		}
		if err := s.profiles.UpsertStrategy(ctx, persistence.NewStrategyRecord(leagueID, team)); err != nil {
			return fmt.Errorf("upsert strategy for %s: %w", team.TeamID, err)
		}
		if err := s.profiles.UpsertNeeds(ctx, persistence.NewNeedsRecord(leagueID, team)); err != nil {
			return fmt.Errorf("upsert needs for %s: %w", team.TeamID, err)
		}
		if err := s.profiles.UpsertCapital(ctx, persistence.NewCapitalRecord(leagueID, result.AsOf, team.Capital)); err != nil {
			return fmt.Errorf("upsert capital for %s: %w", team.TeamID, err)
		}
	}
	return nil
}
