package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynastyscope/dynastyscope/internal/persistence"
	"github.com/dynastyscope/dynastyscope/internal/provider/sleeper"
)

type stubFetcher struct {
	players     map[string]sleeper.Player
	playerCalls int
	playerErr   error
	leagueErr   error
}

func (f *stubFetcher) GetLeague(ctx context.Context, leagueID string) (*sleeper.League, error) {
	if f.leagueErr != nil {
		return nil, f.leagueErr
	}
	return &sleeper.League{
		LeagueID:        leagueID,
		Name:            "Test League",
		Season:          "2026",
		TotalRosters:    2,
		RosterPositions: []string{"QB", "RB", "WR", "TE", "FLEX", "BN"},
		ScoringSettings: map[string]float64{"rec": 1.0},
		Settings:        sleeper.LeagueSettings{DraftRounds: 3},
	}, nil
}

func (f *stubFetcher) GetRosters(ctx context.Context, leagueID string) ([]sleeper.Roster, error) {
	return []sleeper.Roster{
		{RosterID: 1, OwnerID: "u1", Players: []string{"p1"}, Starters: []string{"p1"}},
		{RosterID: 2, OwnerID: "u2", Players: []string{"p2"}, Starters: []string{"p2"}},
	}, nil
}

func (f *stubFetcher) GetUsers(ctx context.Context, leagueID string) ([]sleeper.User, error) {
	return []sleeper.User{
		{UserID: "u1", DisplayName: "alice"},
		{UserID: "u2", DisplayName: "bob"},
	}, nil
}

func (f *stubFetcher) GetTransactionWindow(ctx context.Context, leagueID string, fromWeek, toWeek int) ([]sleeper.Transaction, error) {
	return nil, nil
}

func (f *stubFetcher) GetTradedPicks(ctx context.Context, leagueID string) ([]sleeper.TradedPick, error) {
	return nil, nil
}

func (f *stubFetcher) GetPlayers(ctx context.Context) (map[string]sleeper.Player, error) {
	f.playerCalls++
	if f.playerErr != nil {
		return nil, f.playerErr
	}
	if f.players != nil {
		return f.players, nil
	}
	return map[string]sleeper.Player{}, nil
}

type recordingRepo struct {
	signals    []persistence.SignalsRecord
	strategies []persistence.StrategyRecord
	needs      []persistence.NeedsRecord
	capital    []persistence.CapitalRecord
	upsertErr  error
}

func (r *recordingRepo) UpsertSignals(ctx context.Context, rec persistence.SignalsRecord) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.signals = append(r.signals, rec)
	return nil
}

func (r *recordingRepo) UpsertStrategy(ctx context.Context, rec persistence.StrategyRecord) error {
	r.strategies = append(r.strategies, rec)
	return nil
}

func (r *recordingRepo) UpsertNeeds(ctx context.Context, rec persistence.NeedsRecord) error {
	r.needs = append(r.needs, rec)
	return nil
}

func (r *recordingRepo) UpsertCapital(ctx context.Context, rec persistence.CapitalRecord) error {
	r.capital = append(r.capital, rec)
	return nil
}

func (r *recordingRepo) Signals(ctx context.Context, leagueID, teamID string) (*persistence.SignalsRecord, error) {
	return nil, nil
}

func (r *recordingRepo) Strategy(ctx context.Context, leagueID, teamID string) (*persistence.StrategyRecord, error) {
	return nil, nil
}

func (r *recordingRepo) Needs(ctx context.Context, leagueID, teamID string) (*persistence.NeedsRecord, error) {
	return nil, nil
}

func (r *recordingRepo) LeagueNeeds(ctx context.Context, leagueID string) ([]persistence.NeedsRecord, error) {
	return r.needs, nil
}

func (r *recordingRepo) LeagueStrategies(ctx context.Context, leagueID string) ([]persistence.StrategyRecord, error) {
	return r.strategies, nil
}

func (r *recordingRepo) Capital(ctx context.Context, leagueID, teamID string) (*persistence.CapitalRecord, error) {
	return nil, nil
}

func TestSyncLeague_PersistsEveryTeam(t *testing.T) {
	repo := &recordingRepo{}
	svc := NewService(DefaultConfig(), &stubFetcher{}, repo, nil)

	result, err := svc.SyncLeague(context.Background(), "lg1")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Len(t, result.Teams, 2)
	assert.Len(t, repo.signals, 2)
	assert.Len(t, repo.strategies, 2)
	assert.Len(t, repo.needs, 2)
	assert.Len(t, repo.capital, 2)
	assert.Equal(t, "lg1", repo.signals[0].LeagueID)
}

func TestSyncLeague_FetchErrorAbortsRun(t *testing.T) {
	repo := &recordingRepo{}
	fetcher := &stubFetcher{leagueErr: errors.New("provider down")}
	svc := NewService(DefaultConfig(), fetcher, repo, nil)

	result, err := svc.SyncLeague(context.Background(), "lg1")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Empty(t, repo.signals, "nothing should persist on a failed fetch")
}

func TestSyncLeague_PersistErrorStillReturnsResult(t *testing.T) {
	repo := &recordingRepo{upsertErr: errors.New("db full")}
	svc := NewService(DefaultConfig(), &stubFetcher{}, repo, nil)

	result, err := svc.SyncLeague(context.Background(), "lg1")
	require.Error(t, err)
	require.NotNil(t, result, "fresh computation should surface even when persistence fails")
	assert.Len(t, result.Teams, 2)
}

func TestSyncLeague_NilRepoSkipsPersistence(t *testing.T) {
	svc := NewService(DefaultConfig(), &stubFetcher{}, nil, nil)

	result, err := svc.SyncLeague(context.Background(), "lg1")
	require.NoError(t, err)
	assert.Len(t, result.Teams, 2)
}

func TestPlayerDirectory_CachedWithinTTL(t *testing.T) {
	fetcher := &stubFetcher{players: map[string]sleeper.Player{"p1": {PlayerID: "p1", Position: "RB"}}}
	svc := NewService(DefaultConfig(), fetcher, nil, nil)

	_, err := svc.SyncLeague(context.Background(), "lg1")
	require.NoError(t, err)
	_, err = svc.SyncLeague(context.Background(), "lg1")
	require.NoError(t, err)

	assert.Equal(t, 1, fetcher.playerCalls, "directory should be fetched once within the TTL")
}

func TestPlayerDirectory_StaleCopyReusedOnRefreshFailure(t *testing.T) {
	fetcher := &stubFetcher{players: map[string]sleeper.Player{"p1": {PlayerID: "p1"}}}
	cfg := DefaultConfig()
	cfg.PlayerDirectoryTTL = time.Nanosecond
	svc := NewService(cfg, fetcher, nil, nil)

	_, err := svc.SyncLeague(context.Background(), "lg1")
	require.NoError(t, err)

	fetcher.playerErr = errors.New("directory unavailable")
	result, err := svc.SyncLeague(context.Background(), "lg1")
	require.NoError(t, err, "stale directory should carry the run")
	assert.Len(t, result.Teams, 2)
}
