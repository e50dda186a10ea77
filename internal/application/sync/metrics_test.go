package sync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "github.com/dynastyscope/dynastyscope/internal/interfaces/http"
)

func TestSyncMetrics_SurfaceThroughAPIHandler(t *testing.T) {
	// A completed run increments the package-level counters on the default
	// registry; the API's scrape handler must expose them alongside its own.
	svc := NewService(DefaultConfig(), &stubFetcher{}, nil, nil)
	_, err := svc.SyncLeague(context.Background(), "lg1")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	httpapi.NewMetricsRegistry().Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "dynastyscope_sync_runs_total")
	assert.Contains(t, body, "dynastyscope_sync_duration_seconds")
}
