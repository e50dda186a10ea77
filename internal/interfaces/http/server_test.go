package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynastyscope/dynastyscope/internal/persistence"
)

type fakeRepo struct {
	signals    map[string]*persistence.SignalsRecord
	strategies map[string]*persistence.StrategyRecord
	needs      map[string]*persistence.NeedsRecord
	capital    map[string]*persistence.CapitalRecord
	failReads  bool
}

func (f *fakeRepo) UpsertSignals(ctx context.Context, rec persistence.SignalsRecord) error {
	return nil
}
func (f *fakeRepo) UpsertStrategy(ctx context.Context, rec persistence.StrategyRecord) error {
	return nil
}
func (f *fakeRepo) UpsertNeeds(ctx context.Context, rec persistence.NeedsRecord) error { return nil }
func (f *fakeRepo) UpsertCapital(ctx context.Context, rec persistence.CapitalRecord) error {
	return nil
}

func (f *fakeRepo) Signals(ctx context.Context, leagueID, teamID string) (*persistence.SignalsRecord, error) {
	if f.failReads {
		return nil, errors.New("db down")
	}
	return f.signals[teamID], nil
}

func (f *fakeRepo) Strategy(ctx context.Context, leagueID, teamID string) (*persistence.StrategyRecord, error) {
	if f.failReads {
		return nil, errors.New("db down")
	}
	return f.strategies[teamID], nil
}

func (f *fakeRepo) Needs(ctx context.Context, leagueID, teamID string) (*persistence.NeedsRecord, error) {
	if f.failReads {
		return nil, errors.New("db down")
	}
	return f.needs[teamID], nil
}

func (f *fakeRepo) Capital(ctx context.Context, leagueID, teamID string) (*persistence.CapitalRecord, error) {
	if f.failReads {
		return nil, errors.New("db down")
	}
	return f.capital[teamID], nil
}

func (f *fakeRepo) LeagueNeeds(ctx context.Context, leagueID string) ([]persistence.NeedsRecord, error) {
	if f.failReads {
		return nil, errors.New("db down")
	}
	var out []persistence.NeedsRecord
	for _, rec := range f.needs {
		out = append(out, *rec)
	}
	return out, nil
}

func (f *fakeRepo) LeagueStrategies(ctx context.Context, leagueID string) ([]persistence.StrategyRecord, error) {
	if f.failReads {
		return nil, errors.New("db down")
	}
	var out []persistence.StrategyRecord
	for _, rec := range f.strategies {
		out = append(out, *rec)
	}
	return out, nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

func needsRecord(teamID, name string, positions map[string]persistence.PositionStateRecord) *persistence.NeedsRecord {
	return &persistence.NeedsRecord{
		LeagueID:  "lg1",
		TeamID:    teamID,
		TeamName:  name,
		Positions: positions,
	}
}

func populatedRepo() *fakeRepo {
	return &fakeRepo{
		signals: map[string]*persistence.SignalsRecord{
			"t1": {LeagueID: "lg1", TeamID: "t1", Adds: 5, Drops: 3, Trend: "RISING"},
		},
		strategies: map[string]*persistence.StrategyRecord{
			"t1": {LeagueID: "lg1", TeamID: "t1", Label: "CONTEND", Confidence: 0.8},
			"t2": {LeagueID: "lg1", TeamID: "t2", Label: "REBUILD", Confidence: 0.9},
		},
		needs: map[string]*persistence.NeedsRecord{
			"t1": needsRecord("t1", "Team One", map[string]persistence.PositionStateRecord{
				"WR": {State: "DESPERATE", RecentAdds: 3},
				"RB": {State: "HOARDING", Bench: 8},
			}),
			"t2": needsRecord("t2", "Team Two", map[string]persistence.PositionStateRecord{
				"RB": {State: "DESPERATE", RecentAdds: 3},
				"WR": {State: "HOARDING", Bench: 7},
			}),
		},
		capital: map[string]*persistence.CapitalRecord{
			"t1": {LeagueID: "lg1", TeamID: "t1", TotalValue: 150, Trend: "ACCUMULATING"},
		},
	}
}

// memoryCache is an in-process ProfileCache for exercising the read-through
// path without Redis.
type memoryCache struct {
	entries map[string][]byte
	sets    int
	hits    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) cacheKey(leagueID, teamID, kind string) string {
	return leagueID + ":" + teamID + ":" + kind
}

func (c *memoryCache) Get(ctx context.Context, leagueID, teamID, kind string, dest interface{}) bool {
	payload, ok := c.entries[c.cacheKey(leagueID, teamID, kind)]
	if !ok {
		return false
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false
	}
	c.hits++
	return true
}

func (c *memoryCache) Set(ctx context.Context, leagueID, teamID, kind string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[c.cacheKey(leagueID, teamID, kind)] = payload
	c.sets++
	return nil
}

func newTestServer(repo persistence.ProfileRepo, pingers map[string]Pinger) *Server {
	return NewServer(DefaultServerConfig(), NewHandlers(repo, nil, pingers), NewMetricsRegistry())
}

func newCachedTestServer(repo persistence.ProfileRepo, profileCache ProfileCache) *Server {
	return NewServer(DefaultServerConfig(), NewHandlers(repo, profileCache, nil), NewMetricsRegistry())
}

func doGET(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth_AllComponentsUp(t *testing.T) {
	s := newTestServer(populatedRepo(), map[string]Pinger{
		"database": stubPinger{},
		"cache":    stubPinger{},
	})

	rec := doGET(t, s, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "ok", resp.Components["database"])
	assert.Equal(t, "ok", resp.Components["cache"])
}

func TestHealth_DegradedWhenComponentDown(t *testing.T) {
	s := newTestServer(populatedRepo(), map[string]Pinger{
		"database": stubPinger{err: errors.New("refused")},
	})

	rec := doGET(t, s, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "unavailable", resp.Components["database"])
}

func TestTeamProfile_Found(t *testing.T) {
	s := newTestServer(populatedRepo(), nil)

	rec := doGET(t, s, "/leagues/lg1/teams/t1/profile")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var resp TeamProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "t1", resp.TeamID)
	require.NotNil(t, resp.Strategy)
	assert.Equal(t, "CONTEND", resp.Strategy.Label)
	require.NotNil(t, resp.Capital)
	assert.Equal(t, 150.0, resp.Capital.TotalValue)
}

func TestTeamProfile_NotFound(t *testing.T) {
	s := newTestServer(populatedRepo(), nil)

	rec := doGET(t, s, "/leagues/lg1/teams/ghost/profile")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "team_not_found", resp.Code)
	assert.NotEmpty(t, resp.RequestID)
}

func TestTeamProfile_StorageError(t *testing.T) {
	s := newTestServer(&fakeRepo{failReads: true}, nil)

	rec := doGET(t, s, "/leagues/lg1/teams/t1/profile")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "storage_unavailable", resp.Code)
}

func TestTradeIdeas_MutualFit(t *testing.T) {
	s := newTestServer(populatedRepo(), nil)

	rec := doGET(t, s, "/leagues/lg1/teams/t1/trades")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TradeIdeasResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Ideas)

	top := resp.Ideas[0]
	assert.Equal(t, "t2", top.TargetTeamID)
	assert.Equal(t, "Team Two", top.TargetTeamName)
	assert.Equal(t, "RB", top.Give)
	assert.Equal(t, "WR", top.Get)
	assert.InDelta(t, 0.95, top.Confidence, 0.001)
}

func TestTradeIdeas_UnknownTeam(t *testing.T) {
	s := newTestServer(populatedRepo(), nil)

	rec := doGET(t, s, "/leagues/lg1/teams/ghost/trades")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLeagueTeams_SortedListing(t *testing.T) {
	s := newTestServer(populatedRepo(), nil)

	rec := doGET(t, s, "/leagues/lg1/teams")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LeagueTeamsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Teams, 2)
	assert.Equal(t, "t1", resp.Teams[0].TeamID)
	assert.Equal(t, "Team One", resp.Teams[0].TeamName)
}

func TestNotFoundRoute(t *testing.T) {
	s := newTestServer(populatedRepo(), nil)

	rec := doGET(t, s, "/nope")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "endpoint_not_found", resp.Code)
}

func TestTeamProfile_PopulatesCacheOnMiss(t *testing.T) {
	cache := newMemoryCache()
	s := newCachedTestServer(populatedRepo(), cache)

	rec := doGET(t, s, "/leagues/lg1/teams/t1/profile")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 0, cache.hits)

	rec = doGET(t, s, "/leagues/lg1/teams/t1/profile")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 1, cache.hits)
}

func TestTeamProfile_CacheHitSkipsRepository(t *testing.T) {
	cache := newMemoryCache()
	s := newCachedTestServer(populatedRepo(), cache)
	doGET(t, s, "/leagues/lg1/teams/t1/profile")

	// Same cache, broken repository. The cached document must still serve.
	broken := newCachedTestServer(&fakeRepo{failReads: true}, cache)
	rec := doGET(t, broken, "/leagues/lg1/teams/t1/profile")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp TeamProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "t1", resp.TeamID)
	require.NotNil(t, resp.Strategy)
	assert.Equal(t, "CONTEND", resp.Strategy.Label)
}

func TestTeamProfile_ErrorsAreNotCached(t *testing.T) {
	cache := newMemoryCache()
	s := newCachedTestServer(populatedRepo(), cache)

	rec := doGET(t, s, "/leagues/lg1/teams/ghost/profile")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 0, cache.sets)
}

func TestTradeIdeas_ServedFromCache(t *testing.T) {
	cache := newMemoryCache()
	s := newCachedTestServer(populatedRepo(), cache)

	rec := doGET(t, s, "/leagues/lg1/teams/t1/trades")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, cache.sets)

	rec = doGET(t, s, "/leagues/lg1/teams/t1/trades")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, cache.hits)

	var resp TradeIdeasResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Ideas)
	assert.Equal(t, "t2", resp.Ideas[0].TargetTeamID)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(populatedRepo(), nil)

	// Generate one request so the counter vector has a sample.
	doGET(t, s, "/health")

	rec := doGET(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dynastyscope_http_requests_total")
}
