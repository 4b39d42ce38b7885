// Package badgerstore is a record store on BadgerDB.
//
// Each record is stored as JSON under "str:<sha256 of value>", so keys stay
// fixed-size however long the value is and the hash is unique by construction.
package badgerstore

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	log "github.com/sirupsen/logrus"

	"github.com/hpungsan/sift/internal/analysis"
	"github.com/hpungsan/sift/internal/errors"
	"github.com/hpungsan/sift/internal/record"
)

const recordPrefix = "str:"

// Options configures Open.
type Options struct {
	// Dir is the data directory; created if missing. Ignored when InMemory.
	Dir string

	// InMemory keeps all data in memory (tests).
	InMemory bool
}

// Store implements the record store on a Badger database.
type Store struct {
	db *badger.DB
}

// logAdapter routes Badger's internal logging through logrus.
type logAdapter struct {
	entry *log.Entry
}

var _ badger.Logger = (*logAdapter)(nil)

func (l *logAdapter) Errorf(msg string, items ...any) {
	l.entry.Errorf(strings.TrimSpace(msg), items...)
}

func (l *logAdapter) Warningf(msg string, items ...any) {
	l.entry.Warnf(strings.TrimSpace(msg), items...)
}

// Badger reports routine compaction and startup at info; keep it at debug.
func (l *logAdapter) Infof(msg string, items ...any) {
	l.entry.Debugf(strings.TrimSpace(msg), items...)
}

func (l *logAdapter) Debugf(msg string, items ...any) {
	l.entry.Debugf(strings.TrimSpace(msg), items...)
}

// Open opens (or creates) a Badger store.
func Open(opts Options) (*Store, error) {
	var bopts badger.Options

	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Dir == "" {
			return nil, fmt.Errorf("badger directory is required")
		}
		if err := os.MkdirAll(opts.Dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create badger directory: %w", err)
		}
		info, err := os.Stat(opts.Dir)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", opts.Dir)
		}
		bopts = badger.DefaultOptions(opts.Dir)
	}

	bopts.Logger = &logAdapter{entry: log.WithField("component", "badger")}
	bopts.Compression = options.None

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	return &Store{db: db}, nil
}

// recordKey derives the storage key for an exact value.
func recordKey(value string) []byte {
	return []byte(recordPrefix + analysis.Hash(value))
}

// withTx runs fn in a transaction that is always discarded afterwards;
// fn must Commit to persist writes.
func (s *Store) withTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := s.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}

// Create stores rec unless its value is already present.
func (s *Store) Create(ctx context.Context, rec *record.Record) error {
	if err := ctx.Err(); err != nil {
		return errors.NewCancelled("create")
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return errors.NewInternal(err)
	}
	key := recordKey(rec.Value)

	err = s.withTx(func(tx *badger.Txn) error {
		_, err := tx.Get(key)
		if err == nil {
			return errors.NewAlreadyExists(rec.Value)
		}
		if !stderrors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := tx.Set(key, data); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	// A concurrent create of the same key committed first.
	if stderrors.Is(err, badger.ErrConflict) {
		return errors.NewAlreadyExists(rec.Value)
	}
	return wrap(err)
}

// Get returns the record with the exact value.
func (s *Store) Get(ctx context.Context, value string) (*record.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelled("get")
	}

	var rec *record.Record
	err := s.withTx(func(tx *badger.Txn) error {
		var err error
		rec, err = readRecord(tx, recordKey(value))
		return err
	}, false)
	if err != nil {
		return nil, wrap(err)
	}
	if rec == nil {
		return nil, errors.NewNotFound(value)
	}
	return rec, nil
}

// Exists reports whether the exact value is stored.
func (s *Store) Exists(ctx context.Context, value string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, errors.NewCancelled("exists")
	}

	found := false
	err := s.withTx(func(tx *badger.Txn) error {
		_, err := tx.Get(recordKey(value))
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	}, false)
	if err != nil {
		return false, wrap(err)
	}
	return found, nil
}

// Delete removes the record with the exact value.
func (s *Store) Delete(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return errors.NewCancelled("delete")
	}

	key := recordKey(value)
	err := s.withTx(func(tx *badger.Txn) error {
		if _, err := tx.Get(key); err != nil {
			if stderrors.Is(err, badger.ErrKeyNotFound) {
				return errors.NewNotFound(value)
			}
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if stderrors.Is(err, badger.ErrConflict) {
		// Lost a race with another delete of the same value.
		return errors.NewNotFound(value)
	}
	return wrap(err)
}

// List returns every record sorted by ID.
func (s *Store) List(ctx context.Context) ([]*record.Record, error) {
	records := make([]*record.Record, 0)

	err := s.withTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return errors.NewCancelled("list")
			}
			var rec record.Record
			if err := iter.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}
			records = append(records, &rec)
		}
		return nil
	}, false)
	if err != nil {
		return nil, wrap(err)
	}

	slices.SortFunc(records, func(a, b *record.Record) int {
		return strings.Compare(a.ID, b.ID)
	})
	return records, nil
}

// Count walks the record keys without loading values.
func (s *Store) Count(ctx context.Context) (int, error) {
	n := 0
	err := s.withTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return errors.NewCancelled("count")
			}
			n++
		}
		return nil
	}, false)
	if err != nil {
		return 0, wrap(err)
	}
	return n, nil
}

// Ping reports an error once the database is closed.
func (s *Store) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return fmt.Errorf("badger database is closed")
	}
	return ctx.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// readRecord returns the record at key, or nil when absent.
func readRecord(tx *badger.Txn, key []byte) (*record.Record, error) {
	item, err := tx.Get(key)
	if err != nil {
		if stderrors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var rec record.Record
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// wrap passes SiftErrors through and converts anything else to INTERNAL.
func wrap(err error) error {
	if err == nil {
		return nil
	}
	var sErr *errors.SiftError
	if stderrors.As(err, &sErr) {
		return sErr
	}
	return errors.NewInternal(err)
}
