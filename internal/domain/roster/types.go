// Package roster defines the plain input records the analysis engine consumes:
// transactions, roster spots, and draft picks. Records arrive pre-filtered from
// the upstream league provider; nothing in this package performs I/O.
package roster

import "time"

// Position identifies a roster position slot type.
type Position string

const (
	QB  Position = "QB"
	RB  Position = "RB"
	WR  Position = "WR"
	TE  Position = "TE"
	K   Position = "K"
	DEF Position = "DEF"
)

// TrackedPositions are the positions the classifiers reason about, in canonical
// iteration order. Kickers and defenses carry no strategic depth signal and are
// counted but never classified.
var TrackedPositions = []Position{QB, RB, WR, TE}

// Tracked reports whether p participates in need classification.
func (p Position) Tracked() bool {
	switch p {
	case QB, RB, WR, TE:
		return true
	}
	return false
}

// TransactionType tags the direction of a roster move.
type TransactionType string

const (
	TransactionAdd  TransactionType = "ADD"
	TransactionDrop TransactionType = "DROP"
)

// Transaction is one waiver or free-agent roster move. Age is nil when the
// upstream provider has no birthdate on file for the player.
type Transaction struct {
	PlayerID  string
	Position  Position
	Age       *float64
	Type      TransactionType
	Timestamp time.Time
}

// Spot is one rostered player in the current roster snapshot.
type Spot struct {
	PlayerID string
	Position Position
	Starter  bool
}

// Pick is one draft-pick ownership record. Number is nil for future picks whose
// slot is not yet determined. OriginalOwnerID is empty when the pick has never
// been traded.
type Pick struct {
	Season          int
	Round           int
	Number          *int
	OwnerID         string
	OriginalOwnerID string
}

// CountByPosition splits a roster snapshot into starter and bench counts per
// position.
func CountByPosition(spots []Spot) (starters, bench map[Position]int) {
	starters = make(map[Position]int)
	bench = make(map[Position]int)
	for _, s := range spots {
		if s.Starter {
			starters[s.Position]++
		} else {
			bench[s.Position]++
		}
	}
	return starters, bench
}
