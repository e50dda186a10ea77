package http

import (
	"time"

	"github.com/dynastyscope/dynastyscope/internal/persistence"
)

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Code      string    `json:"code"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse reports component availability.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
	Timestamp  time.Time         `json:"timestamp"`
}

// TeamProfileResponse bundles every stored artifact for one team.
type TeamProfileResponse struct {
	LeagueID string                       `json:"league_id"`
	TeamID   string                       `json:"team_id"`
	Signals  *persistence.SignalsRecord   `json:"signals,omitempty"`
	Strategy *persistence.StrategyRecord  `json:"strategy,omitempty"`
	Needs    *persistence.NeedsRecord     `json:"needs,omitempty"`
	Capital  *persistence.CapitalRecord   `json:"capital,omitempty"`
}

// LeagueTeamsResponse lists the teams with stored profiles.
type LeagueTeamsResponse struct {
	LeagueID string            `json:"league_id"`
	Teams    []LeagueTeamEntry `json:"teams"`
}

// LeagueTeamEntry is one row in the league team listing.
type LeagueTeamEntry struct {
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
}

// TradeIdeaEntry is one suggested trade in API form.
type TradeIdeaEntry struct {
	TargetTeamID   string  `json:"target_team_id"`
	TargetTeamName string  `json:"target_team_name"`
	Give           string  `json:"give"`
	Get            string  `json:"get"`
	Confidence     float64 `json:"confidence"`
	Rationale      string  `json:"rationale"`
}

// TradeIdeasResponse is the ranked idea list for one requesting team.
type TradeIdeasResponse struct {
	LeagueID string           `json:"league_id"`
	TeamID   string           `json:"team_id"`
	Ideas    []TradeIdeaEntry `json:"ideas"`
}
