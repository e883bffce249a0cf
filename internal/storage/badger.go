// ABOUTME: Badger key-value backend for BMI history records.
// ABOUTME: Big-endian id keys under a type prefix, ids issued by a badger Sequence.
package storage

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	badger "github.com/dgraph-io/badger/v3"
	"github.com/harperreed/bmi/internal/models"
)

const (
	RecordPrefix = "record:"
	sequenceKey  = "seq:record"
	seqBandwidth = 64
)

// BadgerStore keeps history records in an embedded badger database.
type BadgerStore struct {
	db  *badger.DB
	seq *badger.Sequence
	log *log.Logger
	mu  sync.Mutex
}

// Compile-time check that BadgerStore implements Table.
var _ Table = (*BadgerStore)(nil)

// OpenBadger opens a badger store in dir. An empty dir opens an in-memory store.
// Badger takes an exclusive directory lock, so only one process can open dir
// at a time. A held lock is reported as ErrLocked.
func OpenBadger(dir string, opts ...Option) (*BadgerStore, error) {
	o := buildOptions(opts)

	bopts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		bopts = bopts.WithInMemory(true)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		if isDirLocked(err) {
			return nil, fmt.Errorf("open badger %s: %w (stop the running bmi shell or mcp server, or use the sqlite backend)", dir, ErrLocked)
		}
		return nil, fmt.Errorf("open badger: %w", err)
	}

	seq, err := db.GetSequence([]byte(sequenceKey), seqBandwidth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open id sequence: %w", err)
	}

	o.logger.Debug("opened badger history", "dir", dir)
	return &BadgerStore{db: db, seq: seq, log: o.logger}, nil
}

func isDirLocked(err error) bool {
	return strings.Contains(err.Error(), "Cannot acquire directory lock")
}

// Close releases the id sequence and closes the database.
func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.seq != nil {
		errs = append(errs, s.seq.Release())
		s.seq = nil
	}
	if s.db != nil {
		errs = append(errs, s.db.Close())
		s.db = nil
	}
	return errors.Join(errs...)
}

func recordKey(id int64) []byte {
	key := make([]byte, len(RecordPrefix)+8)
	copy(key, RecordPrefix)
	binary.BigEndian.PutUint64(key[len(RecordPrefix):], uint64(id))
	return key
}

// Insert stores a record under the next sequence id.
func (s *BadgerStore) Insert(_ context.Context, r *models.Record) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.seq.Next()
	if err != nil {
		return 0, fmt.Errorf("insert record: next id: %w", err)
	}
	// Sequences start at zero; ids start at one.
	id := int64(next) + 1

	stored := *r
	stored.ID = id
	data, err := json.Marshal(&stored)
	if err != nil {
		return 0, fmt.Errorf("insert record: marshal: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(id), data)
	})
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}

	s.log.Debug("inserted record", "id", id, "bmi", r.BMI)
	return id, nil
}

// ListAll returns every record, most recent first.
func (s *BadgerStore) ListAll(_ context.Context) ([]*models.Record, error) {
	var records []*models.Record
	prefix := []byte(RecordPrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			var r models.Record
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			})
			if err != nil {
				return fmt.Errorf("decode %x: %w", it.Item().Key(), err)
			}
			records = append(records, &r)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].Timestamp.After(records[j].Timestamp)
		}
		return records[i].ID > records[j].ID
	})
	return records, nil
}

// Delete removes a record by id.
func (s *BadgerStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := recordKey(id)
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("delete record %d: %w", id, err)
	}

	s.log.Debug("deleted record", "id", id)
	return nil
}

// DeleteAll drops every record key in one operation.
func (s *BadgerStore) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.DropPrefix([]byte(RecordPrefix)); err != nil {
		return fmt.Errorf("delete all records: %w", err)
	}
	s.log.Debug("deleted all records")
	return nil
}
