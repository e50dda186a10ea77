package sleeper

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/dynastyscope/dynastyscope/internal/application/pipeline"
	"github.com/dynastyscope/dynastyscope/internal/domain/league"
	"github.com/dynastyscope/dynastyscope/internal/domain/roster"
)

// transactionStatusComplete filters out pending and failed waiver claims.
const transactionStatusComplete = "complete"

// LeaguePayload bundles every raw fetch needed for one engine pass.
type LeaguePayload struct {
	League       *League
	Rosters      []Roster
	Users        []User
	Transactions []Transaction
	TradedPicks  []TradedPick
	Players      map[string]Player
}

// MapLeague converts a raw provider payload into the engine's input form.
// AsOf anchors all transaction windowing; callers pass the fetch time so a
// replayed payload yields identical results. Players missing from the
// directory keep their IDs but carry no position or age.
func MapLeague(p LeaguePayload, asOf time.Time) (pipeline.LeagueInput, error) {
	if p.League == nil {
		return pipeline.LeagueInput{}, fmt.Errorf("league payload missing league record")
	}

	season, err := strconv.Atoi(p.League.Season)
	if err != nil {
		return pipeline.LeagueInput{}, fmt.Errorf("unparseable league season %q: %w", p.League.Season, err)
	}

	namesByOwner := make(map[string]string, len(p.Users))
	for _, u := range p.Users {
		namesByOwner[u.UserID] = u.TeamName()
	}

	txByRoster := mapTransactions(p.Transactions, p.Players)
	draftRounds := p.League.Settings.DraftRounds
	if draftRounds <= 0 {
		draftRounds = 4
	}

	teams := make([]pipeline.TeamInput, 0, len(p.Rosters))
	ordered := make([]Roster, len(p.Rosters))
	copy(ordered, p.Rosters)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].RosterID < ordered[j].RosterID })

	for _, r := range ordered {
		teamID := teamIDFor(r.RosterID)
		name := namesByOwner[r.OwnerID]
		if name == "" {
			name = teamID
		}

		original := originalPicks(r.RosterID, season, draftRounds)
		current := applyTradedPicks(original, r.RosterID, p.TradedPicks, season, draftRounds)

		teams = append(teams, pipeline.TeamInput{
			TeamID:        teamID,
			Name:          name,
			Transactions:  txByRoster[r.RosterID],
			Roster:        mapRoster(r, p.Players),
			OriginalPicks: original,
			CurrentPicks:  current,
		})
	}

	return pipeline.LeagueInput{
		LeagueID: p.League.LeagueID,
		Settings: league.Settings{
			RosterSlots:    p.League.RosterPositions,
			ScoringWeights: p.League.ScoringSettings,
			TeamCount:      p.League.TotalRosters,
			TaxiSlots:      p.League.Settings.TaxiSlots,
			ReserveSlots:   p.League.Settings.ReserveSlots,
		},
		Teams:         teams,
		AsOf:          asOf,
		CurrentSeason: season,
	}, nil
}

// teamIDFor derives the stable team identifier from a roster slot.
func teamIDFor(rosterID int) string {
	return fmt.Sprintf("roster_%d", rosterID)
}

func mapRoster(r Roster, players map[string]Player) []roster.Spot {
	started := make(map[string]bool, len(r.Starters))
	for _, id := range r.Starters {
		started[id] = true
	}

	spots := make([]roster.Spot, 0, len(r.Players))
	for _, id := range r.Players {
		spots = append(spots, roster.Spot{
			PlayerID: id,
			Position: roster.Position(players[id].Position),
			Starter:  started[id],
		})
	}
	return spots
}

// mapTransactions turns raw waiver and free-agent records into per-roster
// add/drop entries. Trades and commissioner moves carry no strategy signal
// for the classifier, so they are skipped. One raw transaction fans out to
// one entry per player moved.
func mapTransactions(txs []Transaction, players map[string]Player) map[int][]roster.Transaction {
	out := make(map[int][]roster.Transaction)
	for _, tx := range txs {
		if tx.Status != transactionStatusComplete {
			continue
		}
		if tx.Type != "waiver" && tx.Type != "free_agent" {
			continue
		}
		ts := time.UnixMilli(tx.StatusUpdated).UTC()
		for playerID, rosterID := range tx.Adds {
			out[rosterID] = append(out[rosterID], moveFor(playerID, roster.TransactionAdd, ts, players))
		}
		for playerID, rosterID := range tx.Drops {
			out[rosterID] = append(out[rosterID], moveFor(playerID, roster.TransactionDrop, ts, players))
		}
	}
	for rosterID := range out {
		moves := out[rosterID]
		sort.SliceStable(moves, func(i, j int) bool { return moves[i].Timestamp.Before(moves[j].Timestamp) })
	}
	return out
}

func moveFor(playerID string, kind roster.TransactionType, ts time.Time, players map[string]Player) roster.Transaction {
	p := players[playerID]
	return roster.Transaction{
		PlayerID:  playerID,
		Position:  roster.Position(p.Position),
		Age:       p.Age,
		Type:      kind,
		Timestamp: ts,
	}
}

// originalPicks builds the endowment every roster starts each draft with:
// one pick per round for the current season and the two after it. Pick
// numbers stay nil until draft order is set, which the valuation model
// treats as a round midpoint.
func originalPicks(rosterID, currentSeason, rounds int) []roster.Pick {
	owner := teamIDFor(rosterID)
	picks := make([]roster.Pick, 0, rounds*3)
	for season := currentSeason; season < currentSeason+3; season++ {
		for round := 1; round <= rounds; round++ {
			picks = append(picks, roster.Pick{
				Season:  season,
				Round:   round,
				OwnerID: owner,
			})
		}
	}
	return picks
}

// applyTradedPicks rebuilds a roster's current pick set from the original
// endowment plus the league's traded-pick ledger: picks traded away leave,
// picks acquired arrive tagged with their original owner.
func applyTradedPicks(original []roster.Pick, rosterID int, traded []TradedPick, currentSeason, rounds int) []roster.Pick {
	away := make(map[string]bool)
	for _, tp := range traded {
		season, err := strconv.Atoi(tp.Season)
		if err != nil || season < currentSeason || season >= currentSeason+3 || tp.Round > rounds {
			continue
		}
		if tp.RosterID == rosterID && tp.OwnerID != rosterID {
			away[pickKey(season, tp.Round)] = true
		}
	}

	current := make([]roster.Pick, 0, len(original))
	for _, pick := range original {
		if !away[pickKey(pick.Season, pick.Round)] {
			current = append(current, pick)
		}
	}

	for _, tp := range traded {
		season, err := strconv.Atoi(tp.Season)
		if err != nil || season < currentSeason || season >= currentSeason+3 || tp.Round > rounds {
			continue
		}
		if tp.OwnerID == rosterID && tp.RosterID != rosterID {
			current = append(current, roster.Pick{
				Season:          season,
				Round:           tp.Round,
				OwnerID:         teamIDFor(rosterID),
				OriginalOwnerID: teamIDFor(tp.RosterID),
			})
		}
	}

	sort.SliceStable(current, func(i, j int) bool {
		if current[i].Season != current[j].Season {
			return current[i].Season < current[j].Season
		}
		return current[i].Round < current[j].Round
	})
	return current
}

func pickKey(season, round int) string {
	return fmt.Sprintf("%d:%d", season, round)
}
