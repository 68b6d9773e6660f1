package badgerstore

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/poiesic/strategit/core"
	"github.com/poiesic/strategit/ledger"
)

const (
	recordKeyPrefix = "stratrec:"
	recordIDSeq     = "stratrecseq"

	defaultSequenceBandwidth = 100
)

// Store implements ledger.Store on top of BadgerDB.
type Store struct {
	db     *badger.DB
	idSeq  *badger.Sequence
	logger *slog.Logger
}

var _ ledger.Store = (*Store)(nil)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens a record store at the given path, creating the directory if
// needed. Pass inMemory=true for an ephemeral store (used in tests).
func Open(filePath string, inMemory bool) (*Store, error) {
	var opts badger.Options

	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		info, err := os.Stat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				if err := os.MkdirAll(filePath, 0755); err != nil {
					return nil, err
				}
				info, err = os.Stat(filePath)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%s is not a directory", filePath)
		}
		opts = badger.DefaultOptions(filePath)
	}

	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	idSeq, err := db.GetSequence([]byte(recordIDSeq), defaultSequenceBandwidth)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		idSeq:  idSeq,
		logger: slog.Default().With("component", "badgerstore"),
	}, nil
}

// makeRecordKey generates a key whose lexicographic order matches the
// sequence order.
func makeRecordKey(id uint64) []byte {
	prefix := []byte(recordKeyPrefix)
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], id)
	return buf
}

// Append persists a single record under the next sequence key.
func (s *Store) Append(record core.StrategyRecord) error {
	if s.db.IsClosed() {
		return ledger.ErrStoreClosed
	}

	id, err := s.idSeq.Next()
	if err != nil {
		return err
	}

	value, err := msgpack.Marshal(record)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *badger.Txn) error {
		return tx.Set(makeRecordKey(id), value)
	})
}

// LoadAll returns all persisted records in append order.
func (s *Store) LoadAll() ([]core.StrategyRecord, error) {
	if s.db.IsClosed() {
		return nil, ledger.ErrStoreClosed
	}

	var records []core.StrategyRecord
	err := s.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recordKeyPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			item := iter.Item()
			err := item.Value(func(val []byte) error {
				var record core.StrategyRecord
				if err := msgpack.Unmarshal(val, &record); err != nil {
					return fmt.Errorf("%w: key %q: %v", ledger.ErrCorruptRecord, item.Key(), err)
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// Close releases the sequence and closes the database.
func (s *Store) Close() error {
	if err := s.idSeq.Release(); err != nil {
		s.logger.Warn("failed to release record sequence", "error", err)
	}
	return s.db.Close()
}
