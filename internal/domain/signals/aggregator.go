// Package signals reduces a team's transaction log into fixed-window
// behavioral signals. The reduction is pure and idempotent: the same log and
// reference time always produce the same output, and every run recomputes the
// signals wholesale rather than patching a prior value.
package signals

import (
	"time"

	"github.com/dynastyscope/dynastyscope/internal/domain/roster"
)

// Window sizes in days. The long window feeds strategy classification, the
// short window feeds positional-need classification.
const (
	WindowDays      = 30
	ShortWindowDays = 21
)

// Activity trend boundaries over the long window.
const (
	risingMoveCount  = 10
	fallingMoveCount = 2
)

// Trend tags the team's activity level over the long window.
type Trend string

const (
	TrendInactive Trend = "INACTIVE"
	TrendRising   Trend = "RISING"
	TrendFalling  Trend = "FALLING"
	TrendStable   Trend = "STABLE"
)

// Windowed holds one team's aggregated behavioral signals. Average ages are
// nil when no moved player of that direction had a known age; DaysSinceLast is
// nil when the log shows no activity at all.
type Windowed struct {
	TeamID     string
	AsOf       time.Time
	WindowDays int

	Adds            int
	Drops           int
	AddsByPosition  map[roster.Position]int
	DropsByPosition map[roster.Position]int

	AvgAgeAdded   *float64
	AvgAgeDropped *float64

	DaysSinceLast *int
	Trend         Trend
}

// TotalMoves returns adds plus drops inside the window.
func (w Windowed) TotalMoves() int {
	return w.Adds + w.Drops
}

// Aggregate reduces a team's transaction log into long-window signals as of
// the given reference time. The log may extend beyond the window; entries
// outside it are excluded from counts and averages but still inform
// DaysSinceLast, so a team whose last move predates the window is reported as
// stale rather than never-active.
func Aggregate(teamID string, log []roster.Transaction, asOf time.Time) Windowed {
	w := Windowed{
		TeamID:          teamID,
		AsOf:            asOf,
		WindowDays:      WindowDays,
		AddsByPosition:  make(map[roster.Position]int),
		DropsByPosition: make(map[roster.Position]int),
	}

	cutoff := asOf.AddDate(0, 0, -WindowDays)

	var (
		addAgeSum, dropAgeSum     float64
		addAgeCount, dropAgeCount int
		lastActivity              time.Time
	)

	for _, tx := range log {
		if tx.Timestamp.After(asOf) {
			continue
		}
		if tx.Timestamp.After(lastActivity) {
			lastActivity = tx.Timestamp
		}
		if !tx.Timestamp.After(cutoff) {
			continue
		}

		switch tx.Type {
		case roster.TransactionAdd:
			w.Adds++
			w.AddsByPosition[tx.Position]++
			if tx.Age != nil {
				addAgeSum += *tx.Age
				addAgeCount++
			}
		case roster.TransactionDrop:
			w.Drops++
			w.DropsByPosition[tx.Position]++
			if tx.Age != nil {
				dropAgeSum += *tx.Age
				dropAgeCount++
			}
		}
	}

	// Unknown ages are excluded from the average, never treated as zero. A
	// window where no moved player has a known age reports a nil average.
	if addAgeCount > 0 {
		avg := addAgeSum / float64(addAgeCount)
		w.AvgAgeAdded = &avg
	}
	if dropAgeCount > 0 {
		avg := dropAgeSum / float64(dropAgeCount)
		w.AvgAgeDropped = &avg
	}

	if !lastActivity.IsZero() {
		days := int(asOf.Sub(lastActivity).Hours() / 24)
		if days < 0 {
			days = 0
		}
		w.DaysSinceLast = &days
	}

	w.Trend = classifyTrend(w.TotalMoves())

	return w
}

// PositionAdds counts adds per position over a trailing window of the given
// length. Used with ShortWindowDays to feed the positional-need classifier.
func PositionAdds(log []roster.Transaction, asOf time.Time, windowDays int) map[roster.Position]int {
	counts := make(map[roster.Position]int)
	cutoff := asOf.AddDate(0, 0, -windowDays)
	for _, tx := range log {
		if tx.Type != roster.TransactionAdd {
			continue
		}
		if tx.Timestamp.After(asOf) || !tx.Timestamp.After(cutoff) {
			continue
		}
		counts[tx.Position]++
	}
	return counts
}

func classifyTrend(totalMoves int) Trend {
	switch {
	case totalMoves == 0:
		return TrendInactive
	case totalMoves >= risingMoveCount:
		return TrendRising
	case totalMoves <= fallingMoveCount:
		return TrendFalling
	default:
		return TrendStable
	}
}
