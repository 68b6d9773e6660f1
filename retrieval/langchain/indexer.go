package langchain

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// IndexerConfig tunes bulk indexing.
type IndexerConfig struct {
	// BatchSize is the number of documents embedded per call.
	BatchSize int
	// ReportInterval reports progress every N documents.
	ReportInterval int
	// MaxRetries is the attempt limit per batch.
	MaxRetries int
	// RetryDelay is the base delay for exponential backoff.
	RetryDelay time.Duration
}

// DefaultIndexerConfig returns the standard bulk indexing settings.
func DefaultIndexerConfig() IndexerConfig {
	return IndexerConfig{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Indexer loads document corpora into a dense backend in batches, with
// retry on transient embedder failures and progress reporting for long
// runs.
type Indexer struct {
	backend *DenseBackend
	config  IndexerConfig
	out     io.Writer
	logger  *slog.Logger
}

// NewIndexer creates an Indexer writing progress to out.
func NewIndexer(backend *DenseBackend, config IndexerConfig, out io.Writer, logger *slog.Logger) *Indexer {
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultIndexerConfig().BatchSize
	}
	if config.ReportInterval <= 0 {
		config.ReportInterval = DefaultIndexerConfig().ReportInterval
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = DefaultIndexerConfig().MaxRetries
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = DefaultIndexerConfig().RetryDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{
		backend: backend,
		config:  config,
		out:     out,
		logger:  logger.With("component", "indexer"),
	}
}

// Run indexes all documents. A batch that keeps failing after retries
// aborts the run; documents from completed batches stay indexed.
func (ix *Indexer) Run(ctx context.Context, docs []Document) error {
	start := time.Now()
	indexed := 0
	lastReported := 0

	for begin := 0; begin < len(docs); begin += ix.config.BatchSize {
		end := begin + ix.config.BatchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[begin:end]

		err := retryWithBackoff(ctx, func() error {
			return ix.backend.AddDocuments(ctx, batch...)
		}, ix.config.MaxRetries, ix.config.RetryDelay)
		if err != nil {
			return fmt.Errorf("indexing batch at offset %d: %w", begin, err)
		}

		indexed = end
		if indexed-lastReported >= ix.config.ReportInterval || indexed == len(docs) {
			elapsed := time.Since(start)
			rate := float64(indexed) / elapsed.Seconds()
			fmt.Fprintf(ix.out, "\rIndexed: %d/%d (%.1f docs/s)", indexed, len(docs), rate)
			lastReported = indexed
		}
	}
	fmt.Fprintln(ix.out)

	ix.logger.Info("indexing complete", "documents", indexed, "elapsed", time.Since(start))
	return nil
}

// retryWithBackoff retries an operation with exponential backoff,
// doubling the delay after each failed attempt. The last error is
// returned when all attempts fail.
func retryWithBackoff(ctx context.Context, operation func() error, maxAttempts int, baseDelay time.Duration) error {
	var lastErr error
	delay := baseDelay
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("operation succeeded after retry", "attempt", attempt)
			}
			return nil
		}
		slog.Debug("operation failed, will retry", "attempt", attempt, "maxAttempts", maxAttempts, "error", lastErr)

		if attempt == maxAttempts {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
	return lastErr
}
