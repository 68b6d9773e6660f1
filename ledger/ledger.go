package ledger

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/strategit/core"
)

// Ledger is an append-only, concurrency-safe history of strategy records.
// Reads return snapshot copies and never block appends for longer than the
// copy takes.
type Ledger struct {
	mu      sync.RWMutex
	records []core.StrategyRecord
	store   Store
	logger  *slog.Logger
}

// Option configures a Ledger.
type Option func(*Ledger) error

// WithStore attaches a durable store. Existing records in the store are
// loaded into memory when the ledger is created, and every subsequent
// append is mirrored to the store.
func WithStore(store Store) Option {
	return func(l *Ledger) error {
		l.store = store
		return nil
	}
}

// WithLogger sets the logger used for non-fatal persistence warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// New creates a Ledger. If a store is attached, previously persisted
// records are loaded before the ledger becomes usable.
func New(opts ...Option) (*Ledger, error) {
	l := &Ledger{
		logger: slog.Default().With("component", "ledger"),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	if l.store != nil {
		records, err := l.store.LoadAll()
		if err != nil {
			return nil, fmt.Errorf("loading persisted records: %w", err)
		}
		l.records = records
		if len(records) > 0 {
			l.logger.Info("loaded persisted strategy records", "count", len(records))
		}
	}

	return l, nil
}

// Record validates and appends one outcome to the history. The weights are
// cloned so later mutation by the caller cannot corrupt history. A store
// failure is logged but does not reject the in-memory append.
func (l *Ledger) Record(features core.QueryFeatures, weights core.WeightVector, metrics core.PerformanceMetrics) (core.StrategyRecord, error) {
	if err := core.ValidateFeatures(features); err != nil {
		return core.StrategyRecord{}, err
	}
	if err := weights.Validate(); err != nil {
		return core.StrategyRecord{}, err
	}
	if err := core.ValidateMetrics(metrics); err != nil {
		return core.StrategyRecord{}, err
	}

	record := core.StrategyRecord{
		Features:  features,
		Weights:   weights.Clone(),
		Metrics:   metrics,
		Timestamp: time.Now().UTC(),
	}

	l.mu.Lock()
	l.records = append(l.records, record)
	size := len(l.records)
	l.mu.Unlock()

	if l.store != nil {
		if err := l.store.Append(record); err != nil {
			l.logger.Warn("failed to persist strategy record", "error", err, "size", size)
		}
	}

	return record, nil
}

// Size returns the number of recorded outcomes.
func (l *Ledger) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Sample returns a copy of the most recent window records. A window of
// zero or less, or one larger than the history, returns the full history.
func (l *Ledger) Sample(window int) []core.StrategyRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	start := 0
	if window > 0 && window < len(l.records) {
		start = len(l.records) - window
	}

	out := make([]core.StrategyRecord, len(l.records)-start)
	copy(out, l.records[start:])
	return out
}

// Since returns a copy of all records at index n and beyond. It is used to
// pick up only the records appended after a previous observation of Size.
func (l *Ledger) Since(n int) []core.StrategyRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n < 0 {
		n = 0
	}
	if n >= len(l.records) {
		return nil
	}

	out := make([]core.StrategyRecord, len(l.records)-n)
	copy(out, l.records[n:])
	return out
}

// Snapshot returns a copy of the full history.
func (l *Ledger) Snapshot() []core.StrategyRecord {
	return l.Sample(0)
}

// Restore replaces the in-memory history with the given records. It is
// used when rehydrating from a predictor snapshot and does not write to
// the attached store, since the records originate from one.
func (l *Ledger) Restore(records []core.StrategyRecord) {
	copied := make([]core.StrategyRecord, len(records))
	copy(copied, records)

	l.mu.Lock()
	l.records = copied
	l.mu.Unlock()
}

// Close closes the attached store, if any.
func (l *Ledger) Close() error {
	if l.store == nil {
		return nil
	}
	return l.store.Close()
}
