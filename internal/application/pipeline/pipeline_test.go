package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynastyscope/dynastyscope/internal/domain/capital"
	"github.com/dynastyscope/dynastyscope/internal/domain/league"
	"github.com/dynastyscope/dynastyscope/internal/domain/needs"
	"github.com/dynastyscope/dynastyscope/internal/domain/roster"
	"github.com/dynastyscope/dynastyscope/internal/domain/strategy"
)

var asOf = time.Date(2025, 11, 15, 12, 0, 0, 0, time.UTC)

func age(v float64) *float64 { return &v }

func leagueInput() LeagueInput {
	rebuilder := TeamInput{
		TeamID: "t1",
		Name:   "Youth Movement",
		Transactions: []roster.Transaction{
			{PlayerID: "a", Position: roster.RB, Age: age(22), Type: roster.TransactionAdd, Timestamp: asOf.AddDate(0, 0, -2)},
			{PlayerID: "b", Position: roster.RB, Age: age(23), Type: roster.TransactionAdd, Timestamp: asOf.AddDate(0, 0, -4)},
			{PlayerID: "c", Position: roster.RB, Age: age(21), Type: roster.TransactionAdd, Timestamp: asOf.AddDate(0, 0, -6)},
			{PlayerID: "d", Position: roster.WR, Age: age(29), Type: roster.TransactionDrop, Timestamp: asOf.AddDate(0, 0, -3)},
			{PlayerID: "e", Position: roster.WR, Age: age(28), Type: roster.TransactionDrop, Timestamp: asOf.AddDate(0, 0, -5)},
		},
		Roster: []roster.Spot{
			{PlayerID: "q1", Position: roster.QB, Starter: true},
			{PlayerID: "r1", Position: roster.RB, Starter: true},
			{PlayerID: "r2", Position: roster.RB, Starter: true},
			{PlayerID: "w1", Position: roster.WR, Starter: true},
			{PlayerID: "w2", Position: roster.WR, Starter: true},
			{PlayerID: "w3", Position: roster.WR},
			{PlayerID: "w4", Position: roster.WR},
			{PlayerID: "w5", Position: roster.WR},
			{PlayerID: "w6", Position: roster.WR},
			{PlayerID: "w7", Position: roster.WR},
			{PlayerID: "w8", Position: roster.WR},
			{PlayerID: "t1p", Position: roster.TE, Starter: true},
			{PlayerID: "t2p", Position: roster.TE},
		},
		CurrentPicks: []roster.Pick{
			{Season: 2026, Round: 1, OwnerID: "t1"},
			{Season: 2026, Round: 2, OwnerID: "t1"},
			{Season: 2027, Round: 1, OwnerID: "t1"},
		},
		OriginalPicks: []roster.Pick{
			{Season: 2026, Round: 1, OwnerID: "t1"},
		},
	}

	dormant := TeamInput{
		TeamID: "t2",
		Name:   "Empty Chair",
		Transactions: []roster.Transaction{
			{PlayerID: "z", Position: roster.WR, Type: roster.TransactionAdd, Timestamp: asOf.AddDate(0, 0, -40)},
		},
		Roster: []roster.Spot{
			{PlayerID: "q2", Position: roster.QB, Starter: true},
			{PlayerID: "w9", Position: roster.WR, Starter: true},
		},
	}

	return LeagueInput{
		LeagueID: "league-1",
		Settings: league.Settings{
			RosterSlots: []string{"QB", "RB", "RB", "WR", "WR", "TE", "BN", "BN", "BN", "BN"},
			TeamCount:   2,
		},
		Teams:         []TeamInput{rebuilder, dormant},
		AsOf:          asOf,
		CurrentSeason: 2026,
	}
}

func TestRun_ProducesFullProfilesForEveryTeam(t *testing.T) {
	result := Run(leagueInput())

	require.Len(t, result.Teams, 2)

	rebuilder, err := result.Team("t1")
	require.NoError(t, err)
	assert.Equal(t, strategy.Rebuild, rebuilder.Strategy.Label)
	assert.Equal(t, 5, rebuilder.Signals.TotalMoves())
	assert.Equal(t, needs.Hoarding, rebuilder.Needs.StateOf(roster.WR), "eight WRs against a hoarding boundary of five")
	assert.Equal(t, needs.Desperate, rebuilder.Needs.StateOf(roster.RB), "three short-window RB adds")
	assert.Equal(t, capital.Accumulating, rebuilder.Capital.Trend)

	dormant, err := result.Team("t2")
	require.NoError(t, err)
	assert.Equal(t, strategy.Inactive, dormant.Strategy.Label)
	assert.GreaterOrEqual(t, dormant.Strategy.Confidence, 0.7)
	assert.NotEmpty(t, dormant.Strategy.Rationale, "even a dormant team gets a fully formed profile")
}

func TestRun_CapitalComparisonUsesLeagueAverage(t *testing.T) {
	result := Run(leagueInput())

	rebuilder, err := result.Team("t1")
	require.NoError(t, err)
	assert.Equal(t, "abundant", rebuilder.Capital.Comparison,
		"all of the league's pick value sits with one team")

	dormant, err := result.Team("t2")
	require.NoError(t, err)
	assert.Equal(t, "depleted", dormant.Capital.Comparison)
}

func TestRun_Deterministic(t *testing.T) {
	in := leagueInput()
	assert.Equal(t, Run(in), Run(in), "identical inputs must produce identical results")
}

func TestTradeIdeas_UnknownTeamIsLookupFailure(t *testing.T) {
	result := Run(leagueInput())

	_, err := result.TradeIdeas("nope")
	assert.ErrorIs(t, err, ErrTeamNotFound)

	_, err = result.Team("nope")
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestTradeIdeas_MissingCounterpartDataIsNotAnError(t *testing.T) {
	result := Run(leagueInput())

	ideas, err := result.TradeIdeas("t1")
	require.NoError(t, err)
	// The dormant team is thin at RB with nothing to give back, so only
	// opportunistic candidates can exist; either way the request succeeds.
	for _, idea := range ideas {
		assert.LessOrEqual(t, idea.Confidence, 0.95)
	}
}
