// ABOUTME: History record CRUD operations for SQLite storage.
// ABOUTME: Timestamps are stored as epoch milliseconds.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/harperreed/bmi/internal/models"
)

// Insert stores a record under a fresh auto-assigned id.
func (d *DB) Insert(ctx context.Context, r *models.Record) (int64, error) {
	query := `
		INSERT INTO bmi_history (timestamp, bmi, category, age, gender, weight, height)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := d.db.ExecContext(ctx, query,
		r.Timestamp.UnixMilli(),
		r.BMI,
		r.Category,
		r.Age,
		r.Gender,
		r.Weight,
		r.Height,
	)
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}
	d.log.Debug("inserted record", "id", id, "bmi", r.BMI)
	return id, nil
}

// ListAll retrieves every record, most recent first.
func (d *DB) ListAll(ctx context.Context) ([]*models.Record, error) {
	query := `
		SELECT id, timestamp, bmi, category, age, gender, weight, height
		FROM bmi_history
		ORDER BY timestamp DESC, id DESC
	`
	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Delete removes a record by id.
func (d *DB) Delete(ctx context.Context, id int64) error {
	result, err := d.db.ExecContext(ctx, "DELETE FROM bmi_history WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete record %d: %w", id, ErrNotFound)
	}

	d.log.Debug("deleted record", "id", id)
	return nil
}

// DeleteAll removes every record in one statement.
func (d *DB) DeleteAll(ctx context.Context) error {
	result, err := d.db.ExecContext(ctx, "DELETE FROM bmi_history")
	if err != nil {
		return fmt.Errorf("delete all records: %w", err)
	}
	affected, _ := result.RowsAffected()
	d.log.Debug("deleted all records", "count", affected)
	return nil
}

// scanRecords scans multiple rows into a slice of Records.
func scanRecords(rows *sql.Rows) ([]*models.Record, error) {
	var records []*models.Record

	for rows.Next() {
		var r models.Record
		var millis int64

		err := rows.Scan(&r.ID, &millis, &r.BMI, &r.Category, &r.Age, &r.Gender, &r.Weight, &r.Height)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r.Timestamp = time.UnixMilli(millis)

		records = append(records, &r)
	}

	return records, rows.Err()
}
