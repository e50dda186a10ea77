package sleeper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.RequestsPerSec = 1000
	cfg.Burst = 100
	cfg.RetryBackoff = time.Millisecond
	return NewClient(cfg)
}

func TestGetLeague(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/league/lg1", r.URL.Path)
		w.Write([]byte(`{"league_id":"lg1","name":"Dynasty Test","season":"2026","total_rosters":12,
			"roster_positions":["QB","RB","RB","WR","WR","TE","FLEX","BN"],
			"scoring_settings":{"rec":1.0},
			"settings":{"taxi_slots":4,"reserve_slots":2,"draft_rounds":5}}`))
	}))
	defer server.Close()

	league, err := testClient(server.URL).GetLeague(context.Background(), "lg1")
	require.NoError(t, err)
	assert.Equal(t, "lg1", league.LeagueID)
	assert.Equal(t, "2026", league.Season)
	assert.Equal(t, 12, league.TotalRosters)
	assert.Equal(t, 5, league.Settings.DraftRounds)
	assert.Equal(t, 1.0, league.ScoringSettings["rec"])
}

func TestGetRosters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/league/lg1/rosters", r.URL.Path)
		w.Write([]byte(`[{"roster_id":1,"owner_id":"u1","players":["p1","p2"],"starters":["p1"]}]`))
	}))
	defer server.Close()

	rosters, err := testClient(server.URL).GetRosters(context.Background(), "lg1")
	require.NoError(t, err)
	require.Len(t, rosters, 1)
	assert.Equal(t, 1, rosters[0].RosterID)
	assert.Equal(t, []string{"p1", "p2"}, rosters[0].Players)
}

func TestGetTransactionWindow_ConcatenatesWeeks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/league/lg1/transactions/2":
			w.Write([]byte(`[{"transaction_id":"t2","type":"waiver","status":"complete"}]`))
		case "/league/lg1/transactions/1":
			w.Write([]byte(`[{"transaction_id":"t1","type":"free_agent","status":"complete"}]`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	txs, err := testClient(server.URL).GetTransactionWindow(context.Background(), "lg1", 1, 2)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "t2", txs[0].TransactionID, "newest week should come first")
	assert.Equal(t, "t1", txs[1].TransactionID)
}

func TestGet_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"league_id":"lg1","season":"2026"}`))
	}))
	defer server.Close()

	league, err := testClient(server.URL).GetLeague(context.Background(), "lg1")
	require.NoError(t, err)
	assert.Equal(t, "lg1", league.LeagueID)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGet_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := testClient(server.URL).GetLeague(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "4xx responses should not retry")
}

func TestGet_ExhaustsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testClient(server.URL).GetLeague(context.Background(), "lg1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exhausted retries")
}
