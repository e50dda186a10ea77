// Package fixture loads league snapshots from JSON files so the engine can
// run without a provider or database. Fixture files are also the replay
// format: a league captured to disk analyzes identically forever because the
// as-of time is stored in the file.
package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dynastyscope/dynastyscope/internal/application/pipeline"
	"github.com/dynastyscope/dynastyscope/internal/domain/league"
	"github.com/dynastyscope/dynastyscope/internal/domain/roster"
)

// File is the on-disk league snapshot document.
type File struct {
	LeagueID      string      `json:"league_id"`
	AsOf          time.Time   `json:"as_of"`
	CurrentSeason int         `json:"current_season"`
	Settings      settingsDoc `json:"settings"`
	Teams         []teamDoc   `json:"teams"`
}

type settingsDoc struct {
	RosterSlots    []string           `json:"roster_slots"`
	ScoringWeights map[string]float64 `json:"scoring_weights"`
	TeamCount      int                `json:"team_count"`
	BenchSlots     int                `json:"bench_slots"`
	TaxiSlots      int                `json:"taxi_slots"`
	ReserveSlots   int                `json:"reserve_slots"`
}

type teamDoc struct {
	TeamID        string           `json:"team_id"`
	Name          string           `json:"name"`
	Transactions  []transactionDoc `json:"transactions"`
	Roster        []spotDoc        `json:"roster"`
	OriginalPicks []pickDoc        `json:"original_picks"`
	CurrentPicks  []pickDoc        `json:"current_picks"`
}

type transactionDoc struct {
	PlayerID  string    `json:"player_id"`
	Position  string    `json:"position"`
	Age       *float64  `json:"age,omitempty"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

type spotDoc struct {
	PlayerID string `json:"player_id"`
	Position string `json:"position"`
	Starter  bool   `json:"starter"`
}

type pickDoc struct {
	Season          int    `json:"season"`
	Round           int    `json:"round"`
	Number          *int   `json:"number,omitempty"`
	OwnerID         string `json:"owner_id"`
	OriginalOwnerID string `json:"original_owner_id,omitempty"`
}

// Load reads and validates a fixture file into engine input.
func Load(path string) (pipeline.LeagueInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pipeline.LeagueInput{}, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}

	var doc File
	if err := json.Unmarshal(data, &doc); err != nil {
		return pipeline.LeagueInput{}, fmt.Errorf("failed to parse fixture %s: %w", path, err)
	}
	return doc.Input()
}

// Input converts the document to engine input.
func (f File) Input() (pipeline.LeagueInput, error) {
	if f.LeagueID == "" {
		return pipeline.LeagueInput{}, fmt.Errorf("fixture has no league_id")
	}
	if f.AsOf.IsZero() {
		return pipeline.LeagueInput{}, fmt.Errorf("fixture has no as_of time")
	}
	if len(f.Teams) == 0 {
		return pipeline.LeagueInput{}, fmt.Errorf("fixture has no teams")
	}

	teams := make([]pipeline.TeamInput, 0, len(f.Teams))
	for i, t := range f.Teams {
		if t.TeamID == "" {
			return pipeline.LeagueInput{}, fmt.Errorf("fixture team %d has no team_id", i)
		}
		team := pipeline.TeamInput{
			TeamID: t.TeamID,
			Name:   t.Name,
		}
		for _, tx := range t.Transactions {
			kind := roster.TransactionType(tx.Type)
			if kind != roster.TransactionAdd && kind != roster.TransactionDrop {
				return pipeline.LeagueInput{}, fmt.Errorf(
					"fixture team %s has transaction with unknown type %q", t.TeamID, tx.Type)
			}
			team.Transactions = append(team.Transactions, roster.Transaction{
				PlayerID:  tx.PlayerID,
				Position:  roster.Position(tx.Position),
				Age:       tx.Age,
				Type:      kind,
				Timestamp: tx.Timestamp,
			})
		}
		for _, spot := range t.Roster {
			team.Roster = append(team.Roster, roster.Spot{
				PlayerID: spot.PlayerID,
				Position: roster.Position(spot.Position),
				Starter:  spot.Starter,
			})
		}
		team.OriginalPicks = picks(t.OriginalPicks)
		team.CurrentPicks = picks(t.CurrentPicks)
		teams = append(teams, team)
	}

	return pipeline.LeagueInput{
		LeagueID: f.LeagueID,
		Settings: league.Settings{
			RosterSlots:    f.Settings.RosterSlots,
			ScoringWeights: f.Settings.ScoringWeights,
			TeamCount:      f.Settings.TeamCount,
			BenchSlots:     f.Settings.BenchSlots,
			TaxiSlots:      f.Settings.TaxiSlots,
			ReserveSlots:   f.Settings.ReserveSlots,
		},
		Teams:         teams,
		AsOf:          f.AsOf,
		CurrentSeason: f.CurrentSeason,
	}, nil
}

func picks(docs []pickDoc) []roster.Pick {
	out := make([]roster.Pick, 0, len(docs))
	for _, d := range docs {
		out = append(out, roster.Pick{
			Season:          d.Season,
			Round:           d.Round,
			Number:          d.Number,
			OwnerID:         d.OwnerID,
			OriginalOwnerID: d.OriginalOwnerID,
		})
	}
	return out
}
