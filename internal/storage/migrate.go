// ABOUTME: Data migration between BMI history backends.
// ABOUTME: Copies records oldest first so destination ids follow save order.
package storage

import (
	"context"
	"fmt"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Records int
}

// MigrateData copies all records from src to dst.
// Timestamps and values are preserved; dst assigns new ids.
func MigrateData(ctx context.Context, src, dst Table) (*MigrateSummary, error) {
	summary := &MigrateSummary{}

	records, err := src.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source records: %w", err)
	}

	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		if _, err := dst.Insert(ctx, r); err != nil {
			return nil, fmt.Errorf("insert record %d: %w", r.ID, err)
		}
		summary.Records++
	}

	return summary, nil
}
