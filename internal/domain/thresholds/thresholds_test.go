package thresholds

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dynastyscope/dynastyscope/internal/domain/league"
	"github.com/dynastyscope/dynastyscope/internal/domain/roster"
)

func standardFormat() league.Format {
	return league.Resolve(league.Settings{
		RosterSlots: []string{"QB", "RB", "RB", "WR", "WR", "TE", "FLEX", "FLEX"},
		TeamCount:   12,
	})
}

func TestRequirement_RBFlexAbsorption(t *testing.T) {
	p := NewProvider(standardFormat())

	req := p.Requirement(roster.RB)
	assert.Equal(t, 2, req.MinStarters)
	// 2 generic flex * 0.6 standard fill rounds to 1 absorbed slot.
	assert.Equal(t, 3, req.MaxStarters)
	assert.Equal(t, 6, req.RecommendedDepth, "RB depth runs 2x expected starters")
	assert.InDelta(t, 1.1, req.Scarcity, 1e-9)
}

func TestRequirement_WRTakesFlexComplement(t *testing.T) {
	p := NewProvider(standardFormat())

	req := p.Requirement(roster.WR)
	assert.Equal(t, 2, req.MinStarters)
	// WR absorbs the one generic flex slot RB did not.
	assert.Equal(t, 3, req.MaxStarters)
	assert.Equal(t, 5, req.RecommendedDepth, "WR depth runs 1.5x expected starters")
}

func TestRequirement_PPRShiftsFlexTowardReceivers(t *testing.T) {
	format := league.Resolve(league.Settings{
		RosterSlots:    []string{"QB", "RB", "RB", "WR", "WR", "TE", "FLEX", "FLEX", "FLEX", "FLEX"},
		ScoringWeights: map[string]float64{"rec": 1.0},
	})
	p := NewProvider(format)

	rb := p.Requirement(roster.RB)
	wr := p.Requirement(roster.WR)
	assert.Equal(t, 4, rb.MaxStarters, "4 flex * 0.5 PPR fill = 2 absorbed")
	assert.Equal(t, 4, wr.MaxStarters)
	assert.InDelta(t, 1.0, rb.Scarcity, 1e-9)
	assert.InDelta(t, 1.1, wr.Scarcity, 1e-9)
}

func TestRequirement_QBSuperflex(t *testing.T) {
	superflex := league.Resolve(league.Settings{
		RosterSlots: []string{"QB", "RB", "RB", "WR", "WR", "TE", "SUPER_FLEX"},
	})

	req := NewProvider(superflex).Requirement(roster.QB)
	assert.Equal(t, 2, req.MaxStarters)
	assert.Equal(t, 3, req.RecommendedDepth)
	assert.InDelta(t, 1.8, req.Scarcity, 1e-9, "superflex QBs carry the 1.8 scarcity multiplier")

	oneQB := NewProvider(standardFormat()).Requirement(roster.QB)
	assert.Equal(t, 1, oneQB.MaxStarters)
	assert.Equal(t, 2, oneQB.RecommendedDepth)
	assert.InDelta(t, 0.8, oneQB.Scarcity, 1e-9)
}

func TestRequirement_TEPremium(t *testing.T) {
	premium := league.Resolve(league.Settings{
		RosterSlots:    []string{"QB", "RB", "RB", "WR", "WR", "TE", "REC_FLEX"},
		ScoringWeights: map[string]float64{"bonus_rec_te": 1.0},
	})

	req := NewProvider(premium).Requirement(roster.TE)
	assert.Equal(t, 2, req.MaxStarters, "TE premium with a REC_FLEX slot inflates expected starters")
	assert.Equal(t, 4, req.RecommendedDepth)
	assert.InDelta(t, 1.4, req.Scarcity, 1e-9)

	standard := NewProvider(standardFormat()).Requirement(roster.TE)
	assert.Equal(t, 1, standard.MaxStarters)
	assert.Equal(t, 2, standard.RecommendedDepth)
	assert.InDelta(t, 0.9, standard.Scarcity, 1e-9)
}

func TestBoundaries_DerivedFromRequirement(t *testing.T) {
	b := Requirement{Position: roster.WR, RecommendedDepth: 5, Scarcity: 1.0}.Boundaries()

	assert.Equal(t, 3, b.DesperationAdds)
	assert.Equal(t, 5, b.ThinBelow)
	assert.Equal(t, 8, b.HoardingAt, "hoarding starts at ceil(1.5 * depth)")
}

func TestBoundaries_RBDesperationTriggerIsThreeInStandardScoring(t *testing.T) {
	b := NewProvider(standardFormat()).Boundaries(roster.RB)
	assert.Equal(t, 3, b.DesperationAdds, "round(3 * 1.1) = 3")
}

func TestBoundaries_WRHoardingScenario(t *testing.T) {
	// Three dedicated WR slots and no flex: depth ceil(1.5*3) = 5, hoarding
	// at ceil(1.5*5) = 8.
	format := league.Resolve(league.Settings{
		RosterSlots: []string{"QB", "RB", "RB", "WR", "WR", "WR", "TE"},
	})
	req := NewProvider(format).Requirement(roster.WR)

	assert.Equal(t, 5, req.RecommendedDepth)
	assert.Equal(t, 8, req.Boundaries().HoardingAt)
}

func TestProvider_IndependentPerLeague(t *testing.T) {
	standard := NewProvider(standardFormat())
	superflex := NewProvider(league.Resolve(league.Settings{
		RosterSlots: []string{"QB", "SUPER_FLEX"},
	}))

	assert.Equal(t, 2, standard.Boundaries(roster.QB).DesperationAdds)
	assert.Equal(t, 5, superflex.Boundaries(roster.QB).DesperationAdds,
		"two providers over different formats must not share thresholds")
}
