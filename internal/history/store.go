// ABOUTME: Reactive BMI history store over a storage.Table.
// ABOUTME: Serializes writes, caches the newest-first listing and pushes it to subscribers.
package history

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harperreed/bmi/internal/bmi"
	"github.com/harperreed/bmi/internal/models"
	"github.com/harperreed/bmi/internal/storage"
)

var (
	// ErrStorageFailure wraps any error reported by the backing table.
	ErrStorageFailure = errors.New("storage failure")

	// ErrNothingToUndo is returned by Undo when no deletion is pending.
	ErrNothingToUndo = errors.New("nothing to undo")
)

// Store owns the persisted history. All mutation goes through its methods.
type Store struct {
	table storage.Table
	log   *log.Logger
	now   func() time.Time

	// mu serializes writes and guards the cached listing.
	mu          sync.Mutex
	records     []models.Record
	lastDeleted *models.Record

	// subMu guards subs. Lock order is mu before subMu.
	subMu sync.Mutex
	subs  map[uuid.UUID]*Subscription
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger. A nil logger is ignored.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the time source used for new records.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a Store and loads the current listing from table.
func New(ctx context.Context, table storage.Table, opts ...Option) (*Store, error) {
	s := &Store{
		table: table,
		log:   log.New(io.Discard),
		now:   time.Now,
		subs:  make(map[uuid.UUID]*Subscription),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.refreshLocked(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Insert saves a new record stamped with the current time.
func (s *Store) Insert(ctx context.Context, bmiValue float64, category string, age int, gender, weight, height string) (int64, error) {
	r := &models.Record{
		Timestamp: s.now(),
		BMI:       bmiValue,
		Category:  category,
		Age:       age,
		Gender:    gender,
		Weight:    weight,
		Height:    height,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(ctx, r)
}

// Save persists a calculation result with its input labels.
func (s *Store) Save(ctx context.Context, res bmi.Result, in bmi.Input) (int64, error) {
	r := models.NewRecord(res, in).WithTimestamp(s.now())
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(ctx, r)
}

// InsertExisting re-inserts a record under a new id, keeping every other
// field including the original timestamp.
func (s *Store) InsertExisting(ctx context.Context, r *models.Record) (int64, error) {
	cp := *r
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(ctx, &cp)
}

func (s *Store) insertLocked(ctx context.Context, r *models.Record) (int64, error) {
	// Backends keep millisecond precision.
	r.Timestamp = r.Timestamp.Truncate(time.Millisecond)
	r.ID = 0

	id, err := s.table.Insert(ctx, r)
	if err != nil {
		s.log.Error("insert failed", "err", err)
		return 0, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	r.ID = id
	s.log.Debug("saved record", "id", id, "category", r.Category)

	return id, s.refreshLocked(ctx)
}

// Delete removes one record and returns it. Deleting an id that no longer
// exists is a no-op returning (nil, nil). The removed record becomes the
// undo candidate. The record is read from the table, not the cache, so
// rows written by other processes are restorable too.
func (s *Store) Delete(ctx context.Context, id int64) (*models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.table.ListAll(ctx)
	if err != nil {
		s.log.Error("list failed", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	var removed *models.Record
	for _, r := range list {
		if r.ID == id {
			cp := *r
			removed = &cp
			break
		}
	}
	if removed == nil {
		s.log.Debug("delete of missing record ignored", "id", id)
		return nil, s.refreshLocked(ctx)
	}

	if err := s.table.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.log.Debug("record removed concurrently", "id", id)
			return nil, s.refreshLocked(ctx)
		}
		s.log.Error("delete failed", "id", id, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}

	s.lastDeleted = removed
	return removed, s.refreshLocked(ctx)
}

// Undo restores the most recently deleted record under a new id.
func (s *Store) Undo(ctx context.Context) (*models.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastDeleted == nil {
		return nil, ErrNothingToUndo
	}
	restored := *s.lastDeleted
	if _, err := s.insertLocked(ctx, &restored); err != nil {
		return nil, err
	}
	s.lastDeleted = nil
	return &restored, nil
}

// CanUndo reports whether a deleted record is waiting to be restored.
func (s *Store) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDeleted != nil
}

// DeleteAll removes every record. Calling it on an empty store is a no-op.
func (s *Store) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.table.DeleteAll(ctx); err != nil {
		s.log.Error("delete all failed", "err", err)
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	s.lastDeleted = nil
	s.log.Debug("cleared history")
	return s.refreshLocked(ctx)
}

// Refresh reloads the listing from the table, picking up writes made by
// other processes sharing the same database. Subscribers are notified only
// when the listing changed.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.table.ListAll(ctx)
	if err != nil {
		s.log.Error("list failed", "err", err)
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	if sameListing(s.records, list) {
		return nil
	}
	s.log.Debug("listing changed externally", "records", len(list))
	s.setLocked(list)
	return nil
}

// Watch refreshes the listing every interval until ctx is done. Refresh
// errors are logged and retried on the next tick.
func (s *Store) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
				s.log.Warn("refresh failed", "err", err)
			}
		}
	}
}

// Snapshot returns a copy of the current newest-first listing.
func (s *Store) Snapshot() []models.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// Latest returns the newest record, if any.
func (s *Store) Latest() (models.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) == 0 {
		return models.Record{}, false
	}
	return s.records[0], true
}

func (s *Store) copyLocked() []models.Record {
	out := make([]models.Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) refreshLocked(ctx context.Context) error {
	list, err := s.table.ListAll(ctx)
	if err != nil {
		s.log.Error("list failed", "err", err)
		return fmt.Errorf("%w: %w", ErrStorageFailure, err)
	}
	s.setLocked(list)
	return nil
}

func (s *Store) setLocked(list []*models.Record) {
	records := make([]models.Record, len(list))
	for i, r := range list {
		records[i] = *r
	}
	s.records = records
	s.publishLocked()
}

func sameListing(cached []models.Record, list []*models.Record) bool {
	if len(cached) != len(list) {
		return false
	}
	for i, r := range list {
		c := cached[i]
		if c.ID != r.ID || !c.Timestamp.Equal(r.Timestamp) || !c.SameValue(r) {
			return false
		}
	}
	return true
}

// Close releases every subscription. The table is owned by the caller.
func (s *Store) Close() {
	s.subMu.Lock()
	subs := make([]*Subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
}
