// Package postgres implements the persistence contract on PostgreSQL via
// sqlx. Rows are keyed (league_id, team_id) and every write is an
// ON CONFLICT upsert so a recomputed profile fully replaces the prior one.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dynastyscope/dynastyscope/internal/persistence"
)

// profileRepo implements persistence.ProfileRepo for PostgreSQL
type profileRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewProfileRepo creates a new PostgreSQL profile repository
func NewProfileRepo(db *sqlx.DB, timeout time.Duration) persistence.ProfileRepo {
	return &profileRepo{
		db:      db,
		timeout: timeout,
	}
}

// UpsertSignals replaces the windowed-signals row for (league, team)
func (r *profileRepo) UpsertSignals(ctx context.Context, rec persistence.SignalsRecord) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	addsJSON, err := json.Marshal(rec.AddsByPosition)
	if err != nil {
		return fmt.Errorf("failed to marshal adds breakdown: %w", err)
	}
	dropsJSON, err := json.Marshal(rec.DropsByPosition)
	if err != nil {
		return fmt.Errorf("failed to marshal drops breakdown: %w", err)
	}

	query := `
		INSERT INTO team_signals
		(league_id, team_id, as_of, window_days, adds, drops,
		 adds_by_position, drops_by_position, avg_age_added, avg_age_dropped,
		 days_since_last, trend)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (league_id, team_id) DO UPDATE SET
			as_of = EXCLUDED.as_of,
			window_days = EXCLUDED.window_days,
			adds = EXCLUDED.adds,
			drops = EXCLUDED.drops,
			adds_by_position = EXCLUDED.adds_by_position,
			drops_by_position = EXCLUDED.drops_by_position,
			avg_age_added = EXCLUDED.avg_age_added,
			avg_age_dropped = EXCLUDED.avg_age_dropped,
			days_since_last = EXCLUDED.days_since_last,
			trend = EXCLUDED.trend`

	_, err = r.db.ExecContext(ctx, query,
		rec.LeagueID, rec.TeamID, rec.AsOf, rec.WindowDays, rec.Adds, rec.Drops,
		addsJSON, dropsJSON, rec.AvgAgeAdded, rec.AvgAgeDropped,
		rec.DaysSinceLast, rec.Trend)
	if err != nil {
		return fmt.Errorf("failed to upsert signals: %w", err)
	}
	return nil
}

// UpsertStrategy replaces the strategy row for (league, team)
func (r *profileRepo) UpsertStrategy(ctx context.Context, rec persistence.StrategyRecord) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO team_strategy
		(league_id, team_id, label, confidence, rationale, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (league_id, team_id) DO UPDATE SET
			label = EXCLUDED.label,
			confidence = EXCLUDED.confidence,
			rationale = EXCLUDED.rationale,
			computed_at = EXCLUDED.computed_at`

	_, err := r.db.ExecContext(ctx, query,
		rec.LeagueID, rec.TeamID, rec.Label, rec.Confidence, rec.Rationale, rec.ComputedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert strategy: %w", err)
	}
	return nil
}

// UpsertNeeds replaces the positional-need row for (league, team)
func (r *profileRepo) UpsertNeeds(ctx context.Context, rec persistence.NeedsRecord) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	positionsJSON, err := json.Marshal(rec.Positions)
	if err != nil {
		return fmt.Errorf("failed to marshal positions: %w", err)
	}

	query := `
		INSERT INTO team_needs
		(league_id, team_id, team_name, positions, computed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (league_id, team_id) DO UPDATE SET
			team_name = EXCLUDED.team_name,
			positions = EXCLUDED.positions,
			computed_at = EXCLUDED.computed_at`

	_, err = r.db.ExecContext(ctx, query,
		rec.LeagueID, rec.TeamID, rec.TeamName, positionsJSON, rec.ComputedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert needs: %w", err)
	}
	return nil
}

// UpsertCapital replaces the draft-capital row for (league, team)
func (r *profileRepo) UpsertCapital(ctx context.Context, rec persistence.CapitalRecord) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	seasonsJSON, err := json.Marshal(rec.Seasons)
	if err != nil {
		return fmt.Errorf("failed to marshal seasons: %w", err)
	}

	query := `
		INSERT INTO team_capital
		(league_id, team_id, total_value, near_term_value, seasons,
		 trend, strength, comparison, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (league_id, team_id) DO UPDATE SET
			total_value = EXCLUDED.total_value,
			near_term_value = EXCLUDED.near_term_value,
			seasons = EXCLUDED.seasons,
			trend = EXCLUDED.trend,
			strength = EXCLUDED.strength,
			comparison = EXCLUDED.comparison,
			computed_at = EXCLUDED.computed_at`

	_, err = r.db.ExecContext(ctx, query,
		rec.LeagueID, rec.TeamID, rec.TotalValue, rec.NearTermValue, seasonsJSON,
		rec.Trend, rec.Strength, rec.Comparison, rec.ComputedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert capital: %w", err)
	}
	return nil
}

// Signals returns the latest signals row for (league, team)
func (r *profileRepo) Signals(ctx context.Context, leagueID, teamID string) (*persistence.SignalsRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT league_id, team_id, as_of, window_days, adds, drops,
		       adds_by_position, drops_by_position, avg_age_added,
		       avg_age_dropped, days_since_last, trend, created_at
		FROM team_signals
		WHERE league_id = $1 AND team_id = $2`

	row := r.db.QueryRowxContext(ctx, query, leagueID, teamID)

	var rec persistence.SignalsRecord
	var addsJSON, dropsJSON []byte
	err := row.Scan(&rec.LeagueID, &rec.TeamID, &rec.AsOf, &rec.WindowDays,
		&rec.Adds, &rec.Drops, &addsJSON, &dropsJSON,
		&rec.AvgAgeAdded, &rec.AvgAgeDropped, &rec.DaysSinceLast,
		&rec.Trend, &rec.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query signals: %w", err)
	}

	if err := json.Unmarshal(addsJSON, &rec.AddsByPosition); err != nil {
		return nil, fmt.Errorf("failed to unmarshal adds breakdown: %w", err)
	}
	if err := json.Unmarshal(dropsJSON, &rec.DropsByPosition); err != nil {
		return nil, fmt.Errorf("failed to unmarshal drops breakdown: %w", err)
	}
	return &rec, nil
}

// Strategy returns the latest strategy row for (league, team)
func (r *profileRepo) Strategy(ctx context.Context, leagueID, teamID string) (*persistence.StrategyRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT league_id, team_id, label, confidence, rationale, computed_at, created_at
		FROM team_strategy
		WHERE league_id = $1 AND team_id = $2`

	var rec persistence.StrategyRecord
	err := r.db.GetContext(ctx, &rec, query, leagueID, teamID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query strategy: %w", err)
	}
	return &rec, nil
}

// Needs returns the latest needs row for (league, team)
func (r *profileRepo) Needs(ctx context.Context, leagueID, teamID string) (*persistence.NeedsRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT league_id, team_id, team_name, positions, computed_at, created_at
		FROM team_needs
		WHERE league_id = $1 AND team_id = $2`

	row := r.db.QueryRowxContext(ctx, query, leagueID, teamID)
	rec, err := scanNeeds(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// LeagueNeeds returns the needs rows for every team in a league
func (r *profileRepo) LeagueNeeds(ctx context.Context, leagueID string) ([]persistence.NeedsRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT league_id, team_id, team_name, positions, computed_at, created_at
		FROM team_needs
		WHERE league_id = $1
		ORDER BY team_id`

	rows, err := r.db.QueryxContext(ctx, query, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to query league needs: %w", err)
	}
	defer rows.Close()

	var records []persistence.NeedsRecord
	for rows.Next() {
		rec, err := scanNeeds(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// LeagueStrategies returns the strategy rows for every team in a league
func (r *profileRepo) LeagueStrategies(ctx context.Context, leagueID string) ([]persistence.StrategyRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT league_id, team_id, label, confidence, rationale, computed_at, created_at
		FROM team_strategy
		WHERE league_id = $1
		ORDER BY team_id`

	var records []persistence.StrategyRecord
	if err := r.db.SelectContext(ctx, &records, query, leagueID); err != nil {
		return nil, fmt.Errorf("failed to query league strategies: %w", err)
	}
	return records, nil
}

// Capital returns the latest capital row for (league, team)
func (r *profileRepo) Capital(ctx context.Context, leagueID, teamID string) (*persistence.CapitalRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT league_id, team_id, total_value, near_term_value, seasons,
		       trend, strength, comparison, computed_at, created_at
		FROM team_capital
		WHERE league_id = $1 AND team_id = $2`

	row := r.db.QueryRowxContext(ctx, query, leagueID, teamID)

	var rec persistence.CapitalRecord
	var seasonsJSON []byte
	err := row.Scan(&rec.LeagueID, &rec.TeamID, &rec.TotalValue, &rec.NearTermValue,
		&seasonsJSON, &rec.Trend, &rec.Strength, &rec.Comparison,
		&rec.ComputedAt, &rec.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query capital: %w", err)
	}

	if err := json.Unmarshal(seasonsJSON, &rec.Seasons); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seasons: %w", err)
	}
	return &rec, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanNeeds(row rowScanner) (*persistence.NeedsRecord, error) {
	var rec persistence.NeedsRecord
	var positionsJSON []byte
	err := row.Scan(&rec.LeagueID, &rec.TeamID, &rec.TeamName,
		&positionsJSON, &rec.ComputedAt, &rec.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan needs row: %w", err)
	}
	if err := json.Unmarshal(positionsJSON, &rec.Positions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal positions: %w", err)
	}
	return &rec, nil
}
