// Package trade pairs teams with complementary positional surpluses and
// needs. The matcher is a pure nested iteration over read-only profile
// snapshots taken at call time; it never touches live team state, so callers
// may run it concurrently across requesting teams.
package trade

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dynastyscope/dynastyscope/internal/domain/needs"
	"github.com/dynastyscope/dynastyscope/internal/domain/roster"
	"github.com/dynastyscope/dynastyscope/internal/domain/strategy"
)

const (
	maxIdeas          = 10
	confidenceCeiling = 0.95

	// Base confidence for a mutual-surplus match versus an opportunistic
	// offer where the counterpart has nothing obvious to give back.
	mutualBase        = 0.85
	opportunisticBase = 0.7

	// Boost applied when the counterpart's need at the give position is
	// desperate rather than merely thin.
	desperateBoost = 0.1
)

// Idea is one ranked trade suggestion for the requesting team. It stores only
// identifiers and denormalized names of the target team; ideas are ephemeral
// and recomputed on demand.
type Idea struct {
	TargetTeamID   string
	TargetTeamName string
	Give           roster.Position
	Get            roster.Position
	Confidence     float64
	Rationale      string
}

// TeamSnapshot is the read-only per-team input to the matcher. Strategy is
// optional; when both sides carry one the rationale gains a compatibility
// sentence. A snapshot whose Needs profile has no positions is treated as
// missing and skipped, never as zero-need.
type TeamSnapshot struct {
	TeamID   string
	Name     string
	Needs    needs.Profile
	Strategy *strategy.Profile
}

func (t TeamSnapshot) hasProfile() bool {
	return len(t.Needs.Positions) > 0
}

// Match computes ranked trade suggestions for the requesting team against
// every other team in the league. The result is sorted by descending
// confidence (stable, so ties keep discovery order) and capped at ten ideas.
func Match(requester TeamSnapshot, others []TeamSnapshot) []Idea {
	if !requester.hasProfile() {
		return nil
	}

	surplus := requester.Needs.SurplusPositions()
	needSet := requester.Needs.NeedPositions()
	if len(surplus) == 0 || len(needSet) == 0 {
		return nil
	}

	needLookup := make(map[roster.Position]bool, len(needSet))
	for _, pos := range needSet {
		needLookup[pos] = true
	}

	var ideas []Idea
	seen := make(map[string]bool)

	for _, other := range others {
		if other.TeamID == requester.TeamID || !other.hasProfile() {
			continue
		}

		for _, give := range surplus {
			counterState := other.Needs.StateOf(give)
			if counterState != needs.Desperate && counterState != needs.Thin {
				continue
			}

			boost := 0.0
			if counterState == needs.Desperate {
				boost = desperateBoost
			}

			// Mutual match: the counterpart hoards something the
			// requester needs.
			for _, get := range other.Needs.SurplusPositions() {
				if !needLookup[get] {
					continue
				}
				key := ideaKey(other.TeamID, give, get)
				if seen[key] {
					continue
				}
				seen[key] = true
				ideas = append(ideas, Idea{
					TargetTeamID:   other.TeamID,
					TargetTeamName: other.Name,
					Give:           give,
					Get:            get,
					Confidence:     clamp(mutualBase + boost),
					Rationale:      mutualRationale(requester, other, give, get, counterState),
				})
			}

			// Opportunistic match: the counterpart is desperate at the
			// requester's surplus, so surface an ask at every requester
			// need even without a reciprocal surplus. Intentionally
			// overgenerates; see the matcher notes in DESIGN.md.
			if counterState != needs.Desperate {
				continue
			}
			for _, get := range needSet {
				key := ideaKey(other.TeamID, give, get)
				if seen[key] {
					continue
				}
				seen[key] = true
				ideas = append(ideas, Idea{
					TargetTeamID:   other.TeamID,
					TargetTeamName: other.Name,
					Give:           give,
					Get:            get,
					Confidence:     clamp(opportunisticBase + boost),
					Rationale:      opportunisticRationale(requester, other, give, get),
				})
			}
		}
	}

	sort.SliceStable(ideas, func(i, j int) bool {
		return ideas[i].Confidence > ideas[j].Confidence
	})
	if len(ideas) > maxIdeas {
		ideas = ideas[:maxIdeas]
	}
	return ideas
}

func ideaKey(teamID string, give, get roster.Position) string {
	return teamID + "|" + string(give) + "|" + string(get)
}

func clamp(conf float64) float64 {
	if conf > confidenceCeiling {
		return confidenceCeiling
	}
	return conf
}

func mutualRationale(requester, other TeamSnapshot, give, get roster.Position, counterState needs.State) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s is %s at %s and hoarding %s; your %s surplus covers their gap and their %s depth covers yours.",
		other.Name, strings.ToLower(string(counterState)), give, get, give, get)
	if c := strategyComment(requester.Strategy, other.Strategy); c != "" {
		b.WriteString(" ")
		b.WriteString(c)
	}
	return b.String()
}

func opportunisticRationale(requester, other TeamSnapshot, give, get roster.Position) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s is desperate at %s; offer %s depth and ask for %s help even without an obvious surplus on their side.",
		other.Name, give, give, get)
	if c := strategyComment(requester.Strategy, other.Strategy); c != "" {
		b.WriteString(" ")
		b.WriteString(c)
	}
	return b.String()
}

// strategyComment frames contender-versus-rebuilder pairings when both sides
// carry a strategy profile.
func strategyComment(req, other *strategy.Profile) string {
	if req == nil || other == nil {
		return ""
	}
	switch {
	case req.Label == strategy.Contend && other.Label == strategy.Rebuild:
		return "They are rebuilding while you push to contend, so a veteran-for-youth package fits both timelines."
	case req.Label == strategy.Rebuild && other.Label == strategy.Contend:
		return "They are contending while you rebuild, so target their young depth for your win-now pieces."
	case req.Label == strategy.Contend && other.Label == strategy.Contend:
		return "Both sides are contending, so expect a positional swap rather than a timeline trade."
	default:
		return ""
	}
}
