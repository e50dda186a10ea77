// Package sleeper fetches league data from a Sleeper-compatible fantasy API
// and maps it into the records the analysis engine consumes. All retry,
// rate-limit, and circuit-breaker behavior lives here; the engine downstream
// never performs network I/O.
package sleeper

// League is the raw league settings payload.
type League struct {
	LeagueID        string             `json:"league_id"`
	Name            string             `json:"name"`
	Season          string             `json:"season"`
	TotalRosters    int                `json:"total_rosters"`
	RosterPositions []string           `json:"roster_positions"`
	ScoringSettings map[string]float64 `json:"scoring_settings"`
	Settings        LeagueSettings     `json:"settings"`
}

// LeagueSettings carries the numeric league knobs the engine cares about.
type LeagueSettings struct {
	TaxiSlots    int `json:"taxi_slots"`
	ReserveSlots int `json:"reserve_slots"`
	DraftRounds  int `json:"draft_rounds"`
}

// Roster is one team's current roster snapshot.
type Roster struct {
	RosterID int      `json:"roster_id"`
	OwnerID  string   `json:"owner_id"`
	Players  []string `json:"players"`
	Starters []string `json:"starters"`
}

// User is a league member; team display names live here.
type User struct {
	UserID      string            `json:"user_id"`
	DisplayName string            `json:"display_name"`
	Metadata    map[string]string `json:"metadata"`
}

// TeamName returns the custom team name when set, falling back to the
// display name.
func (u User) TeamName() string {
	if name := u.Metadata["team_name"]; name != "" {
		return name
	}
	return u.DisplayName
}

// Transaction is one raw league transaction. Adds and Drops map player ID to
// the roster that gained or lost the player.
type Transaction struct {
	TransactionID string         `json:"transaction_id"`
	Type          string         `json:"type"` // "waiver", "free_agent", "trade", "commissioner"
	Status        string         `json:"status"`
	Adds          map[string]int `json:"adds"`
	Drops         map[string]int `json:"drops"`
	StatusUpdated int64          `json:"status_updated"` // unix millis
}

// TradedPick is one traded draft-pick record. RosterID is the original
// owner's roster; OwnerID is who holds the pick now.
type TradedPick struct {
	Season          string `json:"season"`
	Round           int    `json:"round"`
	RosterID        int    `json:"roster_id"`
	PreviousOwnerID int    `json:"previous_owner_id"`
	OwnerID         int    `json:"owner_id"`
}

// Player is one entry from the player directory.
type Player struct {
	PlayerID string   `json:"player_id"`
	Position string   `json:"position"`
	Age      *float64 `json:"age"`
	FullName string   `json:"full_name"`
}
