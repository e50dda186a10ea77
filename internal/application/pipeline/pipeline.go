// Package pipeline sequences the analysis engine over a whole league: per
// team, signal aggregation then positional-need and strategy classification,
// with draft-capital analysis folded in once league-wide totals exist. Teams
// are independent, so the per-team pass fans out across goroutines and joins
// before anything league-relative (capital comparison, trade matching) runs.
//
// The pipeline owns every derived entity for the duration of one pass and
// performs no I/O; persistence and fetching belong to the collaborators that
// call it.
package pipeline

import (
	"errors"
	"sync"
	"time"

	"github.com/dynastyscope/dynastyscope/internal/domain/capital"
	"github.com/dynastyscope/dynastyscope/internal/domain/league"
	"github.com/dynastyscope/dynastyscope/internal/domain/needs"
	"github.com/dynastyscope/dynastyscope/internal/domain/roster"
	"github.com/dynastyscope/dynastyscope/internal/domain/signals"
	"github.com/dynastyscope/dynastyscope/internal/domain/strategy"
	"github.com/dynastyscope/dynastyscope/internal/domain/thresholds"
	"github.com/dynastyscope/dynastyscope/internal/domain/trade"
)

// ErrTeamNotFound reports a requested team identifier that exists nowhere in
// the input set. This is a caller-side input error, never defaulted.
var ErrTeamNotFound = errors.New("team not found in league input")

// TeamInput is everything the engine needs about one team. A nil transaction
// log, an empty roster, or empty pick sets are normal data-sparsity
// conditions, not errors.
type TeamInput struct {
	TeamID        string
	Name          string
	Transactions  []roster.Transaction
	Roster        []roster.Spot
	OriginalPicks []roster.Pick
	CurrentPicks  []roster.Pick
}

// LeagueInput is one complete computation pass worth of league data. AsOf is
// the precomputed reference time for all windowing; the engine never reads
// the wall clock.
type LeagueInput struct {
	LeagueID      string
	Settings      league.Settings
	Teams         []TeamInput
	AsOf          time.Time
	CurrentSeason int
}

// TeamProfile bundles the derived artifacts for one team.
type TeamProfile struct {
	TeamID   string
	Name     string
	Signals  signals.Windowed
	Strategy strategy.Profile
	Needs    needs.Profile
	Capital  capital.Summary
}

// Result is the output of one league pass. Teams preserve input order.
type Result struct {
	LeagueID string
	AsOf     time.Time
	Format   league.Format
	Teams    []TeamProfile
}

// Run executes the full per-team pass for a league. Every team yields a fully
// formed profile regardless of how sparse its data is.
func Run(in LeagueInput) Result {
	format := league.Resolve(in.Settings)
	provider := thresholds.NewProvider(format)

	profiles := make([]TeamProfile, len(in.Teams))

	// Fan out: each team's aggregation and classification is independent of
	// every other team's, so the only synchronization is the join below.
	var wg sync.WaitGroup
	for i, team := range in.Teams {
		wg.Add(1)
		go func(i int, team TeamInput) {
			defer wg.Done()
			profiles[i] = analyzeTeam(team, in.AsOf, provider)
		}(i, team)
	}
	wg.Wait()

	// Capital comparison is league-relative, so it runs after the join.
	var totalCapital float64
	for _, team := range in.Teams {
		totalCapital += capital.TotalValue(team.CurrentPicks)
	}
	var leagueAvg float64
	if len(in.Teams) > 0 {
		leagueAvg = totalCapital / float64(len(in.Teams))
	}
	for i, team := range in.Teams {
		profiles[i].Capital = capital.Summarize(
			team.TeamID, team.OriginalPicks, team.CurrentPicks, in.CurrentSeason, leagueAvg)
	}

	return Result{
		LeagueID: in.LeagueID,
		AsOf:     in.AsOf,
		Format:   format,
		Teams:    profiles,
	}
}

func analyzeTeam(team TeamInput, asOf time.Time, provider *thresholds.Provider) TeamProfile {
	sig := signals.Aggregate(team.TeamID, team.Transactions, asOf)
	starters, bench := roster.CountByPosition(team.Roster)
	recentAdds := signals.PositionAdds(team.Transactions, asOf, signals.ShortWindowDays)

	return TeamProfile{
		TeamID:   team.TeamID,
		Name:     team.Name,
		Signals:  sig,
		Strategy: strategy.Classify(sig),
		Needs:    needs.Classify(team.TeamID, starters, bench, recentAdds, provider),
	}
}

// Team returns the profile for one team by identifier.
func (r Result) Team(teamID string) (TeamProfile, error) {
	for _, p := range r.Teams {
		if p.TeamID == teamID {
			return p, nil
		}
	}
	return TeamProfile{}, ErrTeamNotFound
}

// TradeIdeas runs the trade matcher for the requesting team against every
// other team in the pass.
func (r Result) TradeIdeas(teamID string) ([]trade.Idea, error) {
	var requester *trade.TeamSnapshot
	others := make([]trade.TeamSnapshot, 0, len(r.Teams))

	for _, p := range r.Teams {
		snap := snapshot(p)
		if p.TeamID == teamID {
			requester = &snap
			continue
		}
		others = append(others, snap)
	}
	if requester == nil {
		return nil, ErrTeamNotFound
	}
	return trade.Match(*requester, others), nil
}

func snapshot(p TeamProfile) trade.TeamSnapshot {
	strat := p.Strategy
	return trade.TeamSnapshot{
		TeamID:   p.TeamID,
		Name:     p.Name,
		Needs:    p.Needs,
		Strategy: &strat,
	}
}
