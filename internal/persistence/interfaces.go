// Package persistence defines the storage collaborator contract for the
// analysis engine's derived artifacts. The engine itself never imports this
// package; the sync service hands computed profiles to a repository after a
// pass and the HTTP surface reads them back. Every write is an
// upsert-by-team: profiles are recomputed wholesale each pass and fully
// replace the prior row, never incrementally patched.
package persistence

import (
	"context"
	"time"

	"github.com/dynastyscope/dynastyscope/internal/application/pipeline"
	"github.com/dynastyscope/dynastyscope/internal/domain/capital"
	"github.com/dynastyscope/dynastyscope/internal/domain/needs"
	"github.com/dynastyscope/dynastyscope/internal/domain/roster"
	"github.com/dynastyscope/dynastyscope/internal/domain/signals"
)

// SignalsRecord is one team's windowed behavioral signals row.
type SignalsRecord struct {
	LeagueID        string             `json:"league_id" db:"league_id"`
	TeamID          string             `json:"team_id" db:"team_id"`
	AsOf            time.Time          `json:"as_of" db:"as_of"`
	WindowDays      int                `json:"window_days" db:"window_days"`
	Adds            int                `json:"adds" db:"adds"`
	Drops           int                `json:"drops" db:"drops"`
	AddsByPosition  map[string]int     `json:"adds_by_position" db:"adds_by_position"`
	DropsByPosition map[string]int     `json:"drops_by_position" db:"drops_by_position"`
	AvgAgeAdded     *float64           `json:"avg_age_added,omitempty" db:"avg_age_added"`
	AvgAgeDropped   *float64           `json:"avg_age_dropped,omitempty" db:"avg_age_dropped"`
	DaysSinceLast   *int               `json:"days_since_last,omitempty" db:"days_since_last"`
	Trend           string             `json:"trend" db:"trend"`
	CreatedAt       time.Time          `json:"created_at" db:"created_at"`
}

// StrategyRecord is one team's strategy classification row.
type StrategyRecord struct {
	LeagueID   string    `json:"league_id" db:"league_id"`
	TeamID     string    `json:"team_id" db:"team_id"`
	Label      string    `json:"label" db:"label"`
	Confidence float64   `json:"confidence" db:"confidence"`
	Rationale  string    `json:"rationale" db:"rationale"`
	ComputedAt time.Time `json:"computed_at" db:"computed_at"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// PositionStateRecord is the stored classification for one position.
type PositionStateRecord struct {
	State      string `json:"state"`
	Starters   int    `json:"starters"`
	Bench      int    `json:"bench"`
	RecentAdds int    `json:"recent_adds"`
}

// NeedsRecord is one team's positional-need profile row. Positions is stored
// as a JSON document keyed by position.
type NeedsRecord struct {
	LeagueID   string                         `json:"league_id" db:"league_id"`
	TeamID     string                         `json:"team_id" db:"team_id"`
	TeamName   string                         `json:"team_name" db:"team_name"`
	Positions  map[string]PositionStateRecord `json:"positions" db:"positions"`
	ComputedAt time.Time                      `json:"computed_at" db:"computed_at"`
	CreatedAt  time.Time                      `json:"created_at" db:"created_at"`
}

// SeasonCapitalRecord is the stored per-season pick bucket.
type SeasonCapitalRecord struct {
	Season    int     `json:"season"`
	PickCount int     `json:"pick_count"`
	Value     float64 `json:"value"`
}

// CapitalRecord is one team's draft-capital summary row.
type CapitalRecord struct {
	LeagueID      string                `json:"league_id" db:"league_id"`
	TeamID        string                `json:"team_id" db:"team_id"`
	TotalValue    float64               `json:"total_value" db:"total_value"`
	NearTermValue float64               `json:"near_term_value" db:"near_term_value"`
	Seasons       []SeasonCapitalRecord `json:"seasons" db:"seasons"`
	Trend         string                `json:"trend" db:"trend"`
	Strength      string                `json:"strength" db:"strength"`
	Comparison    string                `json:"comparison" db:"comparison"`
	ComputedAt    time.Time             `json:"computed_at" db:"computed_at"`
	CreatedAt     time.Time             `json:"created_at" db:"created_at"`
}

// ProfileRepo stores and retrieves per-team derived artifacts.
type ProfileRepo interface {
	// UpsertSignals replaces the signals row for (league, team).
	UpsertSignals(ctx context.Context, rec SignalsRecord) error

	// UpsertStrategy replaces the strategy row for (league, team).
	UpsertStrategy(ctx context.Context, rec StrategyRecord) error

	// UpsertNeeds replaces the positional-need row for (league, team).
	UpsertNeeds(ctx context.Context, rec NeedsRecord) error

	// UpsertCapital replaces the draft-capital row for (league, team).
	UpsertCapital(ctx context.Context, rec CapitalRecord) error

	// Signals returns the latest signals row, or nil when none exists.
	Signals(ctx context.Context, leagueID, teamID string) (*SignalsRecord, error)

	// Strategy returns the latest strategy row, or nil when none exists.
	Strategy(ctx context.Context, leagueID, teamID string) (*StrategyRecord, error)

	// Needs returns the latest needs row, or nil when none exists.
	Needs(ctx context.Context, leagueID, teamID string) (*NeedsRecord, error)

	// LeagueNeeds returns the needs rows for every team in a league.
	LeagueNeeds(ctx context.Context, leagueID string) ([]NeedsRecord, error)

	// LeagueStrategies returns the strategy rows for every team in a league.
	LeagueStrategies(ctx context.Context, leagueID string) ([]StrategyRecord, error)

	// Capital returns the latest capital row, or nil when none exists.
	Capital(ctx context.Context, leagueID, teamID string) (*CapitalRecord, error)
}

// Repository bundles the repo implementations behind one handle.
type Repository struct {
	Profiles ProfileRepo
}

// NewSignalsRecord flattens windowed signals into a storage row.
func NewSignalsRecord(leagueID string, w signals.Windowed) SignalsRecord {
	return SignalsRecord{
		LeagueID:        leagueID,
		TeamID:          w.TeamID,
		AsOf:            w.AsOf,
		WindowDays:      w.WindowDays,
		Adds:            w.Adds,
		Drops:           w.Drops,
		AddsByPosition:  positionCounts(w.AddsByPosition),
		DropsByPosition: positionCounts(w.DropsByPosition),
		AvgAgeAdded:     w.AvgAgeAdded,
		AvgAgeDropped:   w.AvgAgeDropped,
		DaysSinceLast:   w.DaysSinceLast,
		Trend:           string(w.Trend),
	}
}

// NewNeedsRecord flattens a positional profile into a storage row.
func NewNeedsRecord(leagueID string, p pipeline.TeamProfile) NeedsRecord {
	positions := make(map[string]PositionStateRecord, len(p.Needs.Positions))
	for pos, n := range p.Needs.Positions {
		positions[string(pos)] = PositionStateRecord{
			State:      string(n.State),
			Starters:   n.Starters,
			Bench:      n.Bench,
			RecentAdds: n.RecentAdds,
		}
	}
	return NeedsRecord{
		LeagueID:   leagueID,
		TeamID:     p.TeamID,
		TeamName:   p.Name,
		Positions:  positions,
		ComputedAt: p.Signals.AsOf,
	}
}

// NewStrategyRecord flattens a strategy profile into a storage row.
func NewStrategyRecord(leagueID string, p pipeline.TeamProfile) StrategyRecord {
	return StrategyRecord{
		LeagueID:   leagueID,
		TeamID:     p.TeamID,
		Label:      string(p.Strategy.Label),
		Confidence: p.Strategy.Confidence,
		Rationale:  p.Strategy.Rationale,
		ComputedAt: p.Signals.AsOf,
	}
}

// NewCapitalRecord flattens a capital summary into a storage row.
func NewCapitalRecord(leagueID string, computedAt time.Time, s capital.Summary) CapitalRecord {
	seasons := make([]SeasonCapitalRecord, 0, len(s.Seasons))
	for _, sc := range s.Seasons {
		seasons = append(seasons, SeasonCapitalRecord{
			Season:    sc.Season,
			PickCount: sc.PickCount,
			Value:     sc.Value,
		})
	}
	return CapitalRecord{
		LeagueID:      leagueID,
		TeamID:        s.TeamID,
		TotalValue:    s.TotalValue,
		NearTermValue: s.NearTermValue,
		Seasons:       seasons,
		Trend:         string(s.Trend),
		Strength:      string(s.Strength),
		Comparison:    s.Comparison,
		ComputedAt:    computedAt,
	}
}

// NeedsProfile rebuilds the domain profile from a stored row.
func (r NeedsRecord) NeedsProfile() needs.Profile {
	p := needs.Profile{
		TeamID:    r.TeamID,
		Positions: make(map[roster.Position]needs.PositionNeed, len(r.Positions)),
	}
	for pos, n := range r.Positions {
		p.Positions[roster.Position(pos)] = needs.PositionNeed{
			Position:   roster.Position(pos),
			State:      needs.State(n.State),
			Starters:   n.Starters,
			Bench:      n.Bench,
			RecentAdds: n.RecentAdds,
		}
	}
	return p
}

func positionCounts(in map[roster.Position]int) map[string]int {
	out := make(map[string]int, len(in))
	for pos, n := range in {
		out[string(pos)] = n
	}
	return out
}
