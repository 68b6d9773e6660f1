package resource

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/poiesic/strategit/core"
)

const (
	defaultInterval    = time.Second
	defaultHistorySize = 100
	defaultStopTimeout = 5 * time.Second
)

// StatusLevel classifies one resource's utilization.
type StatusLevel string

const (
	StatusNormal   StatusLevel = "normal"
	StatusWarning  StatusLevel = "warning"
	StatusCritical StatusLevel = "critical"
)

// Thresholds holds the warning/critical boundaries per resource, in
// utilization percent.
type Thresholds struct {
	CPUWarning     float64
	CPUCritical    float64
	MemoryWarning  float64
	MemoryCritical float64
	GPUWarning     float64
	GPUCritical    float64
}

// DefaultThresholds returns the standard boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CPUWarning:     80,
		CPUCritical:    95,
		MemoryWarning:  85,
		MemoryCritical: 95,
		GPUWarning:     80,
		GPUCritical:    95,
	}
}

// StatusReport classifies each monitored resource.
type StatusReport struct {
	CPU    StatusLevel
	Memory StatusLevel
	GPU    StatusLevel
}

// Monitor samples system resources on a fixed interval into a bounded
// history ring.
type Monitor struct {
	interval    time.Duration
	stopTimeout time.Duration
	thresholds  Thresholds
	ring        *snapshotRing
	sampleFn    func() core.ResourceSnapshot
	logger      *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Monitor.
type Option func(*Monitor) error

// WithInterval sets the sampling interval. Default is one second.
func WithInterval(interval time.Duration) Option {
	return func(m *Monitor) error {
		if interval <= 0 {
			interval = defaultInterval
		}
		m.interval = interval
		return nil
	}
}

// WithHistorySize sets the snapshot ring capacity. Default is 100.
func WithHistorySize(size int) Option {
	return func(m *Monitor) error {
		if size < 1 {
			size = defaultHistorySize
		}
		m.ring = newSnapshotRing(size)
		return nil
	}
}

// WithThresholds overrides the status classification boundaries.
func WithThresholds(thresholds Thresholds) Option {
	return func(m *Monitor) error {
		m.thresholds = thresholds
		return nil
	}
}

// WithGPUSampler plugs in a GPU metric source. Default reports zeros.
func WithGPUSampler(gpu GPUSampler) Option {
	return func(m *Monitor) error {
		m.sampleFn = newSystemSampler(gpu).sample
		return nil
	}
}

// WithSampleFunc replaces the whole metric collection function. Used by
// tests to feed synthetic snapshots.
func WithSampleFunc(fn func() core.ResourceSnapshot) Option {
	return func(m *Monitor) error {
		if fn != nil {
			m.sampleFn = fn
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Monitor) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewMonitor creates a stopped monitor.
func NewMonitor(opts ...Option) (*Monitor, error) {
	m := &Monitor{
		interval:    defaultInterval,
		stopTimeout: defaultStopTimeout,
		thresholds:  DefaultThresholds(),
		ring:        newSnapshotRing(defaultHistorySize),
		sampleFn:    newSystemSampler(nil).sample,
		logger:      slog.Default().With("component", "resource-monitor"),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Start launches the sampling loop. It returns ErrAlreadyRunning if the
// loop is active. The loop exits when ctx is canceled or Stop is called.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		return ErrAlreadyRunning
	}

	loopCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.done = make(chan struct{})

	go m.loop(loopCtx, m.done)

	m.logger.Info("resource monitoring started", "interval", m.interval)
	return nil
}

// Stop cancels the loop and waits for it to exit, bounded by the stop
// timeout.
func (m *Monitor) Stop() error {
	m.mu.Lock()
	cancel := m.cancel
	done := m.done
	m.cancel = nil
	m.done = nil
	m.mu.Unlock()

	if cancel == nil {
		return ErrNotRunning
	}
	cancel()

	select {
	case <-done:
		m.logger.Info("resource monitoring stopped")
		return nil
	case <-time.After(m.stopTimeout):
		return ErrStopTimeout
	}
}

func (m *Monitor) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	// Take one sample up front so Current has data immediately.
	m.ring.push(m.sampleFn())

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.ring.push(m.sampleFn())
		}
	}
}

// Current returns the latest snapshot, sampling on demand when the loop
// has not produced one yet.
func (m *Monitor) Current() core.ResourceSnapshot {
	if snapshot, ok := m.ring.latest(); ok {
		return snapshot
	}
	return m.sampleFn()
}

// History returns all snapshots within the window, oldest first.
func (m *Monitor) History(window time.Duration) []core.ResourceSnapshot {
	return m.ring.window(window)
}

// HistorySize returns the number of retained snapshots.
func (m *Monitor) HistorySize() int {
	return m.ring.size()
}

// Status classifies the latest snapshot against the thresholds.
func (m *Monitor) Status() StatusReport {
	return m.Classify(m.Current())
}

// Classify applies the thresholds to an arbitrary snapshot.
func (m *Monitor) Classify(snapshot core.ResourceSnapshot) StatusReport {
	return StatusReport{
		CPU:    classify(snapshot.CPUPercent, m.thresholds.CPUWarning, m.thresholds.CPUCritical),
		Memory: classify(snapshot.MemoryPercent, m.thresholds.MemoryWarning, m.thresholds.MemoryCritical),
		GPU:    classify(snapshot.GPUPercent, m.thresholds.GPUWarning, m.thresholds.GPUCritical),
	}
}

func classify(value, warning, critical float64) StatusLevel {
	switch {
	case value >= critical:
		return StatusCritical
	case value >= warning:
		return StatusWarning
	default:
		return StatusNormal
	}
}
