// Package strategy labels a team's managerial posture from its windowed
// behavioral signals. Classification is a strict-priority rule chain: rules
// are evaluated top to bottom and the first match wins. The order encodes a
// business-priority ordering (dormancy dominates age patterns, age swings
// dominate raw volume), so the chain is an explicit ordered list rather than
// nested conditionals and each rule is testable on its own.
package strategy

import (
	"fmt"
	"math"

	"github.com/dynastyscope/dynastyscope/internal/domain/signals"
)

// Label is the behavioral strategy classification.
type Label string

const (
	Rebuild  Label = "REBUILD"
	Contend  Label = "CONTEND"
	Tinker   Label = "TINKER"
	Inactive Label = "INACTIVE"
)

// Profile is the classification result for one team. Confidence is always in
// [0,1]. Rationale interpolates the specific numbers that triggered the
// matched rule; it is part of the contract, not cosmetic.
type Profile struct {
	TeamID     string
	Label      Label
	Confidence float64
	Rationale  string
}

// Rule age boundaries. Added players at or below the youth line alongside
// dropped veterans reads as a rebuild; the mirror image reads as a contend
// push.
const (
	dormantDays = 21

	rebuildAddAgeMax  = 24.0
	rebuildDropAgeMin = 26.0
	youthVolumeAgeMax = 23.0

	contendAddAgeMin   = 26.0
	contendDropAgeMax  = 24.0
	vetVolumeAgeMin    = 27.0
	directionMoveCount = 3

	churnMoveCount = 8
)

type rule struct {
	name    string
	matches func(sig signals.Windowed) bool
	build   func(sig signals.Windowed) (Label, float64, string)
}

// chain is the decision-priority order. Do not reorder: dormancy and zero
// activity must dominate every age-pattern rule, and the paired age-swing
// rules must run before their volume fallbacks.
var chain = []rule{
	{
		name: "dormant",
		matches: func(sig signals.Windowed) bool {
			return sig.DaysSinceLast != nil && *sig.DaysSinceLast >= dormantDays
		},
		build: func(sig signals.Windowed) (Label, float64, string) {
			days := *sig.DaysSinceLast
			conf := math.Min(0.7+0.01*float64(days-dormantDays), 0.99)
			return Inactive, conf,
				fmt.Sprintf("no roster moves in %d days", days)
		},
	},
	{
		name: "no-moves",
		matches: func(sig signals.Windowed) bool {
			return sig.TotalMoves() == 0
		},
		build: func(sig signals.Windowed) (Label, float64, string) {
			return Inactive, 0.8,
				fmt.Sprintf("zero transactions in the last %d days", sig.WindowDays)
		},
	},
	{
		name: "age-data-gap",
		matches: func(sig signals.Windowed) bool {
			return sig.AvgAgeAdded == nil || sig.AvgAgeDropped == nil
		},
		build: func(sig signals.Windowed) (Label, float64, string) {
			return Tinker, 0.5,
				fmt.Sprintf("%d moves but not enough age data to read a direction", sig.TotalMoves())
		},
	},
	{
		name: "youth-swing",
		matches: func(sig signals.Windowed) bool {
			return *sig.AvgAgeAdded <= rebuildAddAgeMax && *sig.AvgAgeDropped >= rebuildDropAgeMin
		},
		build: func(sig signals.Windowed) (Label, float64, string) {
			added, dropped := *sig.AvgAgeAdded, *sig.AvgAgeDropped
			conf := math.Min(0.7+0.05*(dropped-added), 0.95)
			return Rebuild, conf,
				fmt.Sprintf("adding young players (avg %.1f) while dropping veterans (avg %.1f)", added, dropped)
		},
	},
	{
		name: "youth-volume",
		matches: func(sig signals.Windowed) bool {
			return *sig.AvgAgeAdded <= youthVolumeAgeMax && sig.TotalMoves() >= directionMoveCount
		},
		build: func(sig signals.Windowed) (Label, float64, string) {
			return Rebuild, 0.65,
				fmt.Sprintf("%d moves skewing young (avg age added %.1f)", sig.TotalMoves(), *sig.AvgAgeAdded)
		},
	},
	{
		name: "veteran-swing",
		matches: func(sig signals.Windowed) bool {
			return *sig.AvgAgeAdded >= contendAddAgeMin && *sig.AvgAgeDropped <= contendDropAgeMax
		},
		build: func(sig signals.Windowed) (Label, float64, string) {
			added, dropped := *sig.AvgAgeAdded, *sig.AvgAgeDropped
			conf := math.Min(0.7+0.05*(added-dropped), 0.95)
			return Contend, conf,
				fmt.Sprintf("adding veterans (avg %.1f) while dropping youth (avg %.1f)", added, dropped)
		},
	},
	{
		name: "veteran-volume",
		matches: func(sig signals.Windowed) bool {
			return *sig.AvgAgeAdded >= vetVolumeAgeMin && sig.TotalMoves() >= directionMoveCount
		},
		build: func(sig signals.Windowed) (Label, float64, string) {
			return Contend, 0.65,
				fmt.Sprintf("%d moves skewing veteran (avg age added %.1f)", sig.TotalMoves(), *sig.AvgAgeAdded)
		},
	},
	{
		name: "churn",
		matches: func(sig signals.Windowed) bool {
			return sig.TotalMoves() >= churnMoveCount
		},
		build: func(sig signals.Windowed) (Label, float64, string) {
			return Tinker, 0.7,
				fmt.Sprintf("high activity (%d moves) with mixed ages", sig.TotalMoves())
		},
	},
	{
		name:    "default",
		matches: func(signals.Windowed) bool { return true },
		build: func(sig signals.Windowed) (Label, float64, string) {
			return Tinker, 0.6,
				fmt.Sprintf("%d moves with no clear direction", sig.TotalMoves())
		},
	},
}

// Classify runs the rule chain over one team's windowed signals. The trailing
// default rule guarantees a fully formed profile for every input, including a
// team with no transactions at all.
func Classify(sig signals.Windowed) Profile {
	for _, r := range chain {
		if !r.matches(sig) {
			continue
		}
		label, conf, rationale := r.build(sig)
		return Profile{
			TeamID:     sig.TeamID,
			Label:      label,
			Confidence: conf,
			Rationale:  rationale,
		}
	}
	// Unreachable: the default rule always matches.
	return Profile{TeamID: sig.TeamID, Label: Tinker, Confidence: 0.6}
}
