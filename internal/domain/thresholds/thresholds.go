// Package thresholds derives per-position numeric boundaries from a resolved
// league Format. The boundaries are an explicit parameter object handed to the
// classifiers, never package-level state, so multiple leagues can be evaluated
// concurrently without cross-contamination. Everything here is recomputed from
// the current Format on demand and never persisted.
package thresholds

import (
	"math"

	"github.com/dynastyscope/dynastyscope/internal/domain/league"
	"github.com/dynastyscope/dynastyscope/internal/domain/roster"
)

// Flex-fill ratios: the share of generic flex slots (FLEX + WRRB_FLEX) that
// running backs are expected to absorb. Receivers absorb the complement.
// Reception-heavy scoring shifts flex usage toward receivers.
const (
	rbFlexFillStandard = 0.6
	rbFlexFillPPR      = 0.5
)

// Bench-depth multipliers. Running backs carry the injury volatility, so their
// recommended depth runs twice their expected starter load; receivers half
// again. Quarterbacks and tight ends stay minimal unless a superflex or
// premium format inflates them.
const (
	rbDepthFactor = 2.0
	wrDepthFactor = 1.5
)

// Requirement captures what a league format expects of one position: starter
// load with flex absorption, recommended roster depth, and a scarcity
// multiplier (>1 means scarcer and more valuable under this league's rules).
type Requirement struct {
	Position         roster.Position
	MinStarters      int
	MaxStarters      int
	RecommendedDepth int
	Scarcity         float64
}

// Boundaries are the classification trigger points derived from a Requirement.
type Boundaries struct {
	// DesperationAdds is the 21-day add count at or above which a team reads
	// as actively desperate at the position.
	DesperationAdds int

	// ThinBelow is the roster count below which the position is thin.
	ThinBelow int

	// HoardingAt is the roster count at or above which the position is
	// hoarded.
	HoardingAt int
}

// Provider computes requirements and boundaries for one league format.
type Provider struct {
	format league.Format
}

// NewProvider creates a threshold provider bound to a resolved format.
func NewProvider(format league.Format) *Provider {
	return &Provider{format: format}
}

// Requirement computes the positional requirement for pos under the provider's
// league format.
func (p *Provider) Requirement(pos roster.Position) Requirement {
	f := p.format
	base := f.StarterCount(pos)

	req := Requirement{
		Position:    pos,
		MinStarters: base,
		Scarcity:    1.0,
	}

	rbFill := rbFlexFillStandard
	if f.IsPPR {
		rbFill = rbFlexFillPPR
	}
	generic := f.GenericFlexCount()
	rbAbsorbed := int(math.Round(float64(generic) * rbFill))

	switch pos {
	case roster.QB:
		req.MaxStarters = base + f.SuperflexCount
		req.RecommendedDepth = req.MaxStarters + 1
		if f.IsSuperflex {
			req.Scarcity = 1.8
		} else {
			req.Scarcity = 0.8
		}
	case roster.RB:
		req.MaxStarters = base + rbAbsorbed
		req.RecommendedDepth = int(math.Ceil(rbDepthFactor * float64(req.MaxStarters)))
		req.Scarcity = 1.1
		if f.IsPPR {
			req.Scarcity = 1.0
		}
	case roster.WR:
		req.MaxStarters = base + (generic - rbAbsorbed) + f.RecFlexCount
		req.RecommendedDepth = int(math.Ceil(wrDepthFactor * float64(req.MaxStarters)))
		req.Scarcity = 1.0
		if f.IsPPR {
			req.Scarcity = 1.1
		}
	case roster.TE:
		req.MaxStarters = base
		if f.IsTEPremium && f.RecFlexCount > 0 {
			req.MaxStarters++
		}
		req.RecommendedDepth = req.MaxStarters + 1
		req.Scarcity = 0.9
		if f.IsTEPremium {
			req.RecommendedDepth = req.MaxStarters + 2
			req.Scarcity = 1.4
		}
	default:
		req.MaxStarters = base
		req.RecommendedDepth = base
	}

	return req
}

// Boundaries computes the desperation/thin/hoarding trigger points for pos.
func (p *Provider) Boundaries(pos roster.Position) Boundaries {
	return p.Requirement(pos).Boundaries()
}

// Boundaries derives the classification trigger points from a requirement:
// desperation at round(3x scarcity) short-window adds, thin below the
// recommended depth, hoarding at ceil(1.5x recommended depth).
func (r Requirement) Boundaries() Boundaries {
	return Boundaries{
		DesperationAdds: int(math.Round(3 * r.Scarcity)),
		ThinBelow:       r.RecommendedDepth,
		HoardingAt:      int(math.Ceil(1.5 * float64(r.RecommendedDepth))),
	}
}
