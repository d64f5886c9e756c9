package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"calendrette/internal/domain/period"
)

// PostgresPeriodCollection stores each owner's cycle records as rows of the
// periods table, keyed by user_id.
type PostgresPeriodCollection struct {
	db *sql.DB
}

func NewPostgresPeriodCollection(db *sql.DB) *PostgresPeriodCollection {
	return &PostgresPeriodCollection{db: db}
}

func (c *PostgresPeriodCollection) List(ctx context.Context, ownerID string) ([]period.Record, error) {
	userID, err := parseOwner(ownerID)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, start_date, predicted_date, created_at
               FROM periods
               WHERE user_id = $1
               ORDER BY created_at DESC, id DESC`
	rows, err := c.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying periods: %w", err)
	}
	defer rows.Close()
	return scanPeriods(rows)
}

// Helper to scan multiple rows
func scanPeriods(rows *sql.Rows) ([]period.Record, error) {
	records := make([]period.Record, 0)
	for rows.Next() {
		var id int64
		r := period.Record{}
		if err := rows.Scan(&id, &r.StartDate, &r.PredictedDate, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning period row: %w", err)
		}
		r.ID = strconv.FormatInt(id, 10)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating period rows: %w", err)
	}
	return records, nil
}

func (c *PostgresPeriodCollection) Append(ctx context.Context, ownerID string, r period.Record) (string, error) {
	userID, err := parseOwner(ownerID)
	if err != nil {
		return "", err
	}

	query := `INSERT INTO periods (user_id, start_date, predicted_date, created_at)
               VALUES ($1, $2, $3, $4)
               RETURNING id`
	var id int64
	if err := c.db.QueryRowContext(ctx, query, userID, r.StartDate, r.PredictedDate, r.CreatedAt).Scan(&id); err != nil {
		return "", fmt.Errorf("error appending period: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

// Delete removes one row. IDs that are not numeric cannot exist, so they
// are treated like missing rows.
func (c *PostgresPeriodCollection) Delete(ctx context.Context, ownerID string, id string) error {
	userID, err := parseOwner(ownerID)
	if err != nil {
		return err
	}
	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil
	}

	if _, err := c.db.ExecContext(ctx, `DELETE FROM periods WHERE id = $1 AND user_id = $2`, rowID, userID); err != nil {
		return fmt.Errorf("error deleting period %d: %w", rowID, err)
	}
	return nil
}

func parseOwner(ownerID string) (int64, error) {
	userID, err := strconv.ParseInt(ownerID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid principal id %q: %w", ownerID, err)
	}
	return userID, nil
}
