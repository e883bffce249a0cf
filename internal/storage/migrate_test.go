// ABOUTME: Tests for data migration between storage backends.
// ABOUTME: Covers sqlite-to-badger, badger-to-sqlite and empty sources.
package storage

import (
	"context"
	"testing"
	"time"
)

func TestMigrateDataSQLiteToBadger(t *testing.T) {
	ctx := context.Background()
	src := setupTestDB(t)
	dst := setupTestBadger(t)

	base := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		r := newTestRecord(20+float64(i), base.Add(time.Duration(i)*24*time.Hour))
		if _, err := src.Insert(ctx, r); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	summary, err := MigrateData(ctx, src, dst)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Records != 3 {
		t.Errorf("summary.Records = %d, want 3", summary.Records)
	}

	want, _ := src.ListAll(ctx)
	got, err := dst.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d records, got %d", len(want), len(got))
	}
	for i := range want {
		if !got[i].SameValue(want[i]) || !got[i].Timestamp.Equal(want[i].Timestamp) {
			t.Errorf("record %d mismatch: got %+v, want %+v", i, got[i], want[i])
		}
	}

	// Oldest record is copied first and gets the lowest id.
	if got[len(got)-1].ID >= got[0].ID {
		t.Errorf("expected oldest record to have the lowest id, got %d vs %d", got[len(got)-1].ID, got[0].ID)
	}
}

func TestMigrateDataBadgerToSQLite(t *testing.T) {
	ctx := context.Background()
	src := setupTestBadger(t)
	dst := setupTestDB(t)

	if _, err := src.Insert(ctx, newTestRecord(31.2, time.Now())); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	summary, err := MigrateData(ctx, src, dst)
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Records != 1 {
		t.Errorf("summary.Records = %d, want 1", summary.Records)
	}

	got, _ := dst.ListAll(ctx)
	if len(got) != 1 || got[0].BMI != 31.2 {
		t.Errorf("unexpected destination contents: %v", got)
	}
}

func TestMigrateDataEmpty(t *testing.T) {
	summary, err := MigrateData(context.Background(), setupTestDB(t), setupTestBadger(t))
	if err != nil {
		t.Fatalf("MigrateData failed: %v", err)
	}
	if summary.Records != 0 {
		t.Errorf("summary.Records = %d, want 0", summary.Records)
	}
}
