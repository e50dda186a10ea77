// Package needs classifies a team's roster depth at each tracked position
// into one of four states. Like the strategy classifier this is an ordered
// rule chain with first-match-wins semantics: desperation is checked before
// the static depth states because a thin roster with recent adds is an active
// need signal, not merely a depth observation.
package needs

import (
	"github.com/dynastyscope/dynastyscope/internal/domain/roster"
	"github.com/dynastyscope/dynastyscope/internal/domain/thresholds"
)

// State is the per-position depth classification.
type State string

const (
	Desperate State = "DESPERATE"
	Thin      State = "THIN"
	Stable    State = "STABLE"
	Hoarding  State = "HOARDING"
)

// Second desperation path: a roster severely under the thin boundary reads as
// desperate on lighter add volume than the primary trigger demands.
const severeThinAdds = 2

// PositionNeed is the classification for one position, carrying the counts it
// was derived from.
type PositionNeed struct {
	Position   roster.Position
	State      State
	Starters   int
	Bench      int
	RecentAdds int
}

// Profile maps each tracked position to its need state for one team.
type Profile struct {
	TeamID    string
	Positions map[roster.Position]PositionNeed
}

// StateOf returns the classified state at pos, or Stable when the position is
// not tracked in the profile.
func (p Profile) StateOf(pos roster.Position) State {
	if n, ok := p.Positions[pos]; ok {
		return n.State
	}
	return Stable
}

// SurplusPositions returns the positions classified Hoarding, in canonical
// order.
func (p Profile) SurplusPositions() []roster.Position {
	var out []roster.Position
	for _, pos := range roster.TrackedPositions {
		if p.StateOf(pos) == Hoarding {
			out = append(out, pos)
		}
	}
	return out
}

// NeedPositions returns the positions classified Desperate or Thin, in
// canonical order.
func (p Profile) NeedPositions() []roster.Position {
	var out []roster.Position
	for _, pos := range roster.TrackedPositions {
		if s := p.StateOf(pos); s == Desperate || s == Thin {
			out = append(out, pos)
		}
	}
	return out
}

// ClassifyPosition runs the ordered rule chain for one position given its
// starter count, bench count, short-window add count, and the league-derived
// boundaries.
func ClassifyPosition(starters, bench, recentAdds int, b thresholds.Boundaries) State {
	total := starters + bench
	switch {
	case recentAdds >= b.DesperationAdds:
		return Desperate
	case total < b.ThinBelow-1 && recentAdds >= severeThinAdds:
		return Desperate
	case total < b.ThinBelow:
		return Thin
	case total >= b.HoardingAt:
		return Hoarding
	default:
		return Stable
	}
}

// Classify builds the full positional profile for one team. starters and
// bench are current roster counts per position; recentAdds is the
// short-window add count per position.
func Classify(teamID string, starters, bench, recentAdds map[roster.Position]int, provider *thresholds.Provider) Profile {
	p := Profile{
		TeamID:    teamID,
		Positions: make(map[roster.Position]PositionNeed, len(roster.TrackedPositions)),
	}
	for _, pos := range roster.TrackedPositions {
		n := PositionNeed{
			Position:   pos,
			Starters:   starters[pos],
			Bench:      bench[pos],
			RecentAdds: recentAdds[pos],
		}
		n.State = ClassifyPosition(n.Starters, n.Bench, n.RecentAdds, provider.Boundaries(pos))
		p.Positions[pos] = n
	}
	return p
}
