// Package league resolves raw league settings into a normalized Format the
// threshold provider and classifiers key off. Resolution is deterministic and
// failure-free: absent or malformed input yields zero counts and false flags.
package league

import "github.com/dynastyscope/dynastyscope/internal/domain/roster"

// Sleeper-style roster slot names as they appear in the settings record.
const (
	slotFlex      = "FLEX"       // RB/WR/TE
	slotWRRBFlex  = "WRRB_FLEX"  // RB/WR
	slotRecFlex   = "REC_FLEX"   // WR/TE
	slotSuperflex = "SUPER_FLEX" // QB/RB/WR/TE
	slotBench     = "BN"
	slotTaxi      = "TAXI"
	slotReserve   = "IR"
)

// Scoring weight keys the resolver inspects.
const (
	weightReception = "rec"
	weightTEBonus   = "bonus_rec_te"
)

// Settings is the raw league settings record from the upstream provider.
type Settings struct {
	RosterSlots    []string
	ScoringWeights map[string]float64
	TeamCount      int

	// Explicit slot counts; when positive they override whatever the slot
	// list implies (some providers report bench size only here).
	BenchSlots   int
	TaxiSlots    int
	ReserveSlots int
}

// Format is the normalized league configuration. Built once per league sync
// and treated as immutable until the next settings fetch.
type Format struct {
	TeamCount int

	// Dedicated starter slots per position, exact slot-type matches only.
	Starters map[roster.Position]int

	// Flex slot counts by variant. SuperflexCount subsumes any slot usable
	// by the maximum position set (QB included).
	FlexCount      int
	WRRBFlexCount  int
	RecFlexCount   int
	SuperflexCount int

	BenchCount   int
	TaxiCount    int
	ReserveCount int

	// Scoring-format flags, derived from the weight mapping and slot list.
	// Never settable independently of the inputs.
	RecWeight   float64
	IsPPR       bool
	IsHalfPPR   bool
	IsTEPremium bool
	IsSuperflex bool
}

// StarterCount returns the dedicated starter slots for a position.
func (f Format) StarterCount(pos roster.Position) int {
	return f.Starters[pos]
}

// GenericFlexCount returns the flex slots a running back or wide receiver can
// fill (FLEX plus WRRB_FLEX).
func (f Format) GenericFlexCount() int {
	return f.FlexCount + f.WRRBFlexCount
}

// Resolve normalizes a raw settings record into a Format. Unrecognized slot
// names are ignored; a nil slot list or weight map resolves to an empty
// standard-scoring format rather than an error.
func Resolve(s Settings) Format {
	f := Format{
		TeamCount: s.TeamCount,
		Starters:  make(map[roster.Position]int),
	}

	for _, slot := range s.RosterSlots {
		switch slot {
		case string(roster.QB), string(roster.RB), string(roster.WR),
			string(roster.TE), string(roster.K), string(roster.DEF):
			f.Starters[roster.Position(slot)]++
		case slotFlex:
			f.FlexCount++
		case slotWRRBFlex:
			f.WRRBFlexCount++
		case slotRecFlex:
			f.RecFlexCount++
		case slotSuperflex:
			f.SuperflexCount++
		case slotBench:
			f.BenchCount++
		case slotTaxi:
			f.TaxiCount++
		case slotReserve:
			f.ReserveCount++
		}
	}

	if s.BenchSlots > 0 {
		f.BenchCount = s.BenchSlots
	}
	if s.TaxiSlots > 0 {
		f.TaxiCount = s.TaxiSlots
	}
	if s.ReserveSlots > 0 {
		f.ReserveCount = s.ReserveSlots
	}

	f.RecWeight = s.ScoringWeights[weightReception]
	f.IsPPR = f.RecWeight >= 0.5
	f.IsHalfPPR = f.RecWeight > 0 && f.RecWeight < 0.5
	f.IsTEPremium = s.ScoringWeights[weightTEBonus] > 0
	f.IsSuperflex = f.SuperflexCount >= 1

	return f
}
