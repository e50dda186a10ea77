package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/dynastyscope/dynastyscope/internal/domain/strategy"
	"github.com/dynastyscope/dynastyscope/internal/domain/trade"
	"github.com/dynastyscope/dynastyscope/internal/persistence"
)

// Pinger reports the health of one backing component.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProfileCache is the read-through cache the handlers consult before the
// repository. A nil *cache.ProfileCache satisfies it as a no-op.
type ProfileCache interface {
	Get(ctx context.Context, leagueID, teamID, kind string, dest interface{}) bool
	Set(ctx context.Context, leagueID, teamID, kind string, value interface{}) error
}

const (
	cacheKindProfile = "profile"
	cacheKindTrades  = "trades"
)

// Handlers serves the read-only API from stored profiles.
type Handlers struct {
	profiles persistence.ProfileRepo
	cache    ProfileCache
	pingers  map[string]Pinger
	metrics  *MetricsRegistry // set by NewServer
}

// NewHandlers creates the handler set. cache may be nil to serve straight
// from the repository; pingers maps component names to their health checks,
// nil entries are skipped.
func NewHandlers(profiles persistence.ProfileRepo, profileCache ProfileCache, pingers map[string]Pinger) *Handlers {
	return &Handlers{profiles: profiles, cache: profileCache, pingers: pingers}
}

func (h *Handlers) cacheGet(ctx context.Context, leagueID, teamID, kind string, dest interface{}) bool {
	if h.cache == nil {
		return false
	}
	return h.cache.Get(ctx, leagueID, teamID, kind, dest)
}

func (h *Handlers) cacheSet(ctx context.Context, leagueID, teamID, kind string, value interface{}) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Set(ctx, leagueID, teamID, kind, value); err != nil {
		log.Warn().Err(err).Str("league_id", leagueID).Str("team_id", teamID).
			Str("kind", kind).Msg("failed to cache response")
	}
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	components := make(map[string]string, len(h.pingers))
	status := "healthy"
	for name, p := range h.pingers {
		if p == nil {
			continue
		}
		if err := p.Ping(r.Context()); err != nil {
			components[name] = "unavailable"
			status = "degraded"
			continue
		}
		components[name] = "ok"
	}

	h.writeJSON(w, http.StatusOK, HealthResponse{
		Status:     status,
		Components: components,
		Timestamp:  time.Now().UTC(),
	})
}

// LeagueTeams handles GET /leagues/{league}/teams.
func (h *Handlers) LeagueTeams(w http.ResponseWriter, r *http.Request) {
	leagueID := mux.Vars(r)["league"]

	records, err := h.profiles.LeagueNeeds(r.Context(), leagueID)
	if err != nil {
		h.storageError(w, r, err)
		return
	}

	teams := make([]LeagueTeamEntry, 0, len(records))
	for _, rec := range records {
		teams = append(teams, LeagueTeamEntry{TeamID: rec.TeamID, TeamName: rec.TeamName})
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].TeamID < teams[j].TeamID })

	h.writeJSON(w, http.StatusOK, LeagueTeamsResponse{LeagueID: leagueID, Teams: teams})
}

// TeamProfile handles GET /leagues/{league}/teams/{team}/profile.
func (h *Handlers) TeamProfile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	leagueID, teamID := vars["league"], vars["team"]
	ctx := r.Context()

	var cached TeamProfileResponse
	if h.cacheGet(ctx, leagueID, teamID, cacheKindProfile, &cached) {
		h.writeJSON(w, http.StatusOK, cached)
		return
	}

	signals, err := h.profiles.Signals(ctx, leagueID, teamID)
	if err != nil {
		h.storageError(w, r, err)
		return
	}
	strat, err := h.profiles.Strategy(ctx, leagueID, teamID)
	if err != nil {
		h.storageError(w, r, err)
		return
	}
	needsRec, err := h.profiles.Needs(ctx, leagueID, teamID)
	if err != nil {
		h.storageError(w, r, err)
		return
	}
	capitalRec, err := h.profiles.Capital(ctx, leagueID, teamID)
	if err != nil {
		h.storageError(w, r, err)
		return
	}

	if signals == nil && strat == nil && needsRec == nil && capitalRec == nil {
		h.writeError(w, r, http.StatusNotFound, "team_not_found",
			"no stored profile for this team; has the league been synced?")
		return
	}

	resp := TeamProfileResponse{
		LeagueID: leagueID,
		TeamID:   teamID,
		Signals:  signals,
		Strategy: strat,
		Needs:    needsRec,
		Capital:  capitalRec,
	}
	h.cacheSet(ctx, leagueID, teamID, cacheKindProfile, resp)
	h.writeJSON(w, http.StatusOK, resp)
}

// TradeIdeas handles GET /leagues/{league}/teams/{team}/trades. Ideas are
// recomputed from stored need and strategy profiles on every request.
func (h *Handlers) TradeIdeas(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	leagueID, teamID := vars["league"], vars["team"]
	ctx := r.Context()

	var cached TradeIdeasResponse
	if h.cacheGet(ctx, leagueID, teamID, cacheKindTrades, &cached) {
		h.writeJSON(w, http.StatusOK, cached)
		return
	}

	needsRecs, err := h.profiles.LeagueNeeds(ctx, leagueID)
	if err != nil {
		h.storageError(w, r, err)
		return
	}
	strategyRecs, err := h.profiles.LeagueStrategies(ctx, leagueID)
	if err != nil {
		h.storageError(w, r, err)
		return
	}

	strategies := make(map[string]*strategy.Profile, len(strategyRecs))
	for _, rec := range strategyRecs {
		strategies[rec.TeamID] = &strategy.Profile{
			TeamID:     rec.TeamID,
			Label:      strategy.Label(rec.Label),
			Confidence: rec.Confidence,
			Rationale:  rec.Rationale,
		}
	}

	var requester *trade.TeamSnapshot
	others := make([]trade.TeamSnapshot, 0, len(needsRecs))
	for _, rec := range needsRecs {
		snapshot := trade.TeamSnapshot{
			TeamID:   rec.TeamID,
			Name:     rec.TeamName,
			Needs:    rec.NeedsProfile(),
			Strategy: strategies[rec.TeamID],
		}
		if rec.TeamID == teamID {
			requester = &snapshot
			continue
		}
		others = append(others, snapshot)
	}

	if requester == nil {
		h.writeError(w, r, http.StatusNotFound, "team_not_found",
			"no stored profile for this team; has the league been synced?")
		return
	}

	ideas := trade.Match(*requester, others)
	entries := make([]TradeIdeaEntry, 0, len(ideas))
	for _, idea := range ideas {
		entries = append(entries, TradeIdeaEntry{
			TargetTeamID:   idea.TargetTeamID,
			TargetTeamName: idea.TargetTeamName,
			Give:           string(idea.Give),
			Get:            string(idea.Get),
			Confidence:     idea.Confidence,
			Rationale:      idea.Rationale,
		})
	}

	resp := TradeIdeasResponse{
		LeagueID: leagueID,
		TeamID:   teamID,
		Ideas:    entries,
	}
	if h.metrics != nil {
		h.metrics.RecordTradeIdeas(leagueID, teamID, len(entries))
	}
	h.cacheSet(ctx, leagueID, teamID, cacheKindTrades, resp)
	h.writeJSON(w, http.StatusOK, resp)
}

// NotFound handles unmatched routes.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	h.writeError(w, r, http.StatusNotFound, "endpoint_not_found",
		"the requested endpoint does not exist")
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, `{"error":"json_encoding_failed"}`, http.StatusInternalServerError)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	h.writeJSON(w, status, ErrorResponse{
		Error:     http.StatusText(status),
		Message:   message,
		Code:      code,
		RequestID: requestIDFrom(r.Context()),
		Timestamp: time.Now().UTC(),
	})
}

func (h *Handlers) storageError(w http.ResponseWriter, r *http.Request, err error) {
	log.Error().Err(err).Str("request_id", requestIDFrom(r.Context())).
		Msg("profile storage read failed")
	h.writeError(w, r, http.StatusInternalServerError, "storage_unavailable",
		"profile storage is unavailable")
}
