// Package capital values a team's draft-pick ownership and classifies its
// pick-trading pattern from a snapshot comparison between the picks a team
// originally held and the picks it holds now.
package capital

import (
	"math"
	"sort"

	"github.com/dynastyscope/dynastyscope/internal/domain/roster"
)

// Valuation horizons. The summary reports value concentrated in the next
// three seasons; the trading-pattern comparison looks at the next two.
const (
	summaryHorizonYears = 3
	tradeHorizonYears   = 2
	earlyRoundMax       = 2
)

// Trading-pattern trigger magnitudes: one early-round pick or two near-term
// picks either direction tips the pattern off balanced.
const (
	earlyDeltaTrigger   = 1
	nearDeltaTrigger    = 2
	strongNearDeltaMagn = 3
)

// Trend tags the pick-trading pattern.
type Trend string

const (
	Accumulating Trend = "ACCUMULATING"
	Balanced     Trend = "BALANCED"
	Selling      Trend = "SELLING"
)

// Strength qualifies how pronounced the trend is.
type Strength string

const (
	Strong   Strength = "STRONG"
	Moderate Strength = "MODERATE"
	Weak     Strength = "WEAK"
)

// SeasonCapital is the pick count and valuation for one draft season.
type SeasonCapital struct {
	Season    int
	PickCount int
	Value     float64
}

// Summary is the draft-capital analysis for one team.
type Summary struct {
	TeamID        string
	TotalValue    float64
	Seasons       []SeasonCapital
	NearTermValue float64
	Trend         Trend
	Strength      Strength

	// Comparison buckets TotalValue against the league average; empty when
	// no average was supplied.
	Comparison string
}

// PickValue returns the deterministic valuation for one pick. Number is the
// slot within the round (1-based); a nil number (a future pick whose slot is
// undetermined) values at the round midpoint.
func PickValue(round int, number *int) float64 {
	if round < 1 {
		return 0
	}
	switch round {
	case 1:
		if number == nil {
			return 75 // midpoint of the 100..50 range
		}
		return math.Max(100-4*float64(*number-1), 50)
	case 2:
		if number == nil {
			return 37.5
		}
		return math.Max(50-2*float64(*number-1), 25)
	case 3:
		return 15
	case 4:
		return 8
	default:
		return 3
	}
}

// TotalValue sums the valuation of a pick set.
func TotalValue(picks []roster.Pick) float64 {
	var total float64
	for _, p := range picks {
		total += PickValue(p.Round, p.Number)
	}
	return total
}

// CompareToAverage buckets a team's capital against the league average.
func CompareToAverage(total, leagueAvg float64) string {
	if leagueAvg <= 0 {
		return ""
	}
	ratio := total / leagueAvg
	switch {
	case ratio >= 1.5:
		return "abundant"
	case ratio >= 1.2:
		return "above-average"
	case ratio >= 0.8:
		return "average"
	case ratio >= 0.5:
		return "below-average"
	default:
		return "depleted"
	}
}

// Summarize analyzes a team's draft capital. original is the pick set the
// team held before any trades, current the set it holds now; currentSeason
// anchors the near-term horizons. leagueAvg of zero skips the comparison.
func Summarize(teamID string, original, current []roster.Pick, currentSeason int, leagueAvg float64) Summary {
	s := Summary{TeamID: teamID}

	bySeason := make(map[int]*SeasonCapital)
	for _, p := range current {
		v := PickValue(p.Round, p.Number)
		s.TotalValue += v
		if p.Season >= currentSeason && p.Season < currentSeason+summaryHorizonYears {
			s.NearTermValue += v
		}
		sc, ok := bySeason[p.Season]
		if !ok {
			sc = &SeasonCapital{Season: p.Season}
			bySeason[p.Season] = sc
		}
		sc.PickCount++
		sc.Value += v
	}

	s.Seasons = make([]SeasonCapital, 0, len(bySeason))
	for _, sc := range bySeason {
		s.Seasons = append(s.Seasons, *sc)
	}
	sort.Slice(s.Seasons, func(i, j int) bool { return s.Seasons[i].Season < s.Seasons[j].Season })

	s.Trend, s.Strength = classifyTrading(original, current, currentSeason)
	s.Comparison = CompareToAverage(s.TotalValue, leagueAvg)

	return s
}

// classifyTrading compares the original and current pick sets over the trade
// horizon. A net gain of at least one early-round pick or two near-term picks
// reads as accumulating, the mirror-image loss as selling, anything else as
// balanced. Balanced is always weak strength.
func classifyTrading(original, current []roster.Pick, currentSeason int) (Trend, Strength) {
	nearDelta := countNearTerm(current, currentSeason) - countNearTerm(original, currentSeason)
	earlyDelta := countEarlyRound(current) - countEarlyRound(original)

	var trend Trend
	switch {
	case earlyDelta >= earlyDeltaTrigger || nearDelta >= nearDeltaTrigger:
		trend = Accumulating
	case earlyDelta <= -earlyDeltaTrigger || nearDelta <= -nearDeltaTrigger:
		trend = Selling
	default:
		return Balanced, Weak
	}

	strength := Moderate
	if abs(nearDelta) >= strongNearDeltaMagn {
		strength = Strong
	}
	return trend, strength
}

func countNearTerm(picks []roster.Pick, currentSeason int) int {
	n := 0
	for _, p := range picks {
		if p.Season >= currentSeason && p.Season < currentSeason+tradeHorizonYears {
			n++
		}
	}
	return n
}

func countEarlyRound(picks []roster.Pick) int {
	n := 0
	for _, p := range picks {
		if p.Round >= 1 && p.Round <= earlyRoundMax {
			n++
		}
	}
	return n
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
