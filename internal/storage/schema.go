// ABOUTME: SQLite schema migrations for the bmi_history table.
// ABOUTME: Applied with sql-migrate from an in-memory migration source.
package storage

import (
	"fmt"

	migrate "github.com/rubenv/sql-migrate"
)

const migrationDialect = "sqlite3"

var migrations = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "0001_bmi_history",
			Up: []string{
				`CREATE TABLE IF NOT EXISTS bmi_history (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					timestamp INTEGER NOT NULL,
					bmi REAL NOT NULL,
					category TEXT NOT NULL,
					age INTEGER NOT NULL,
					gender TEXT NOT NULL,
					weight TEXT NOT NULL,
					height TEXT NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_bmi_history_timestamp ON bmi_history(timestamp DESC)`,
			},
			Down: []string{
				`DROP INDEX IF EXISTS idx_bmi_history_timestamp`,
				`DROP TABLE IF EXISTS bmi_history`,
			},
		},
	},
}

// initSchema applies pending migrations.
func (d *DB) initSchema() error {
	n, err := migrate.Exec(d.db, migrationDialect, migrations, migrate.Up)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	if n > 0 {
		d.log.Info("applied schema migrations", "count", n)
	}
	return nil
}

// SchemaVersion returns the id of the most recently applied migration.
func (d *DB) SchemaVersion() (string, error) {
	records, err := migrate.GetMigrationRecords(d.db, migrationDialect)
	if err != nil {
		return "", fmt.Errorf("read migration records: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}
	return records[len(records)-1].Id, nil
}
