// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package strategit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/poiesic/strategit/cache"
	"github.com/poiesic/strategit/core"
	"github.com/poiesic/strategit/features"
	"github.com/poiesic/strategit/fusion"
	"github.com/poiesic/strategit/ledger"
	"github.com/poiesic/strategit/optimizer"
	"github.com/poiesic/strategit/predictor"
	"github.com/poiesic/strategit/resource"
	"github.com/poiesic/strategit/retrieval"
)

const (
	defaultQueryCacheEntries   = 1000
	defaultQueryCacheBytes     = 64 << 20
	defaultBackendCacheEntries = 1000
	defaultBackendCacheBytes   = 64 << 20

	// candidateTilt shifts weight toward one backend when building
	// strategy variants around the predicted vector.
	candidateTilt = 0.1
)

// QueryOptions tunes one Process call. The zero value uses the engine
// defaults.
type QueryOptions struct {
	// TopK is the requested result count before dynamic sizing.
	TopK int

	// Objective overrides the engine's default optimization objective.
	Objective optimizer.Objective

	// SubQueries are decompositions of the query supplied by the
	// caller; more than two widen the result target.
	SubQueries []string
}

// Result is the outcome of one decision pipeline run.
type Result struct {
	Query      string
	Features   core.QueryFeatures
	Prediction predictor.Prediction
	Strategy   core.StrategyOption
	Mode       resource.Mode
	Advisories []resource.Advisory
	Passages   []core.RetrievedPassage
	CacheHit   bool
}

// EngineStats is a point-in-time analytics snapshot.
type EngineStats struct {
	QueryCache   cache.Stats
	BackendCache cache.Stats
	LedgerSize   int
	Trained      bool
	Mode         resource.Mode
	Resource     resource.StatusReport
}

// Engine is the facade over the full decision pipeline: feature
// extraction, strategy prediction, constrained optimization, resource
// adaptation, caching and multi-backend fusion.
type Engine struct {
	extractor    *features.Extractor
	ledger       *ledger.Ledger
	predictor    *predictor.Predictor
	optimizer    *optimizer.Optimizer
	monitor      *resource.Monitor
	adjuster     *resource.Adjuster
	fuser        *fusion.Fuser
	queryCache   *cache.QueryCache[[]core.RetrievedPassage]
	backendCache *cache.BackendCache

	mu       sync.RWMutex
	backends map[core.Backend]retrieval.Backend

	objective optimizer.Objective
	logger    *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	logger              *slog.Logger
	store               ledger.Store
	objective           optimizer.Objective
	fusionConfig        *fusion.Config
	monitorOpts         []resource.Option
	backends            []retrieval.Backend
	queryCacheEntries   int
	queryCacheBytes     int64
	backendCacheEntries int
	backendCacheBytes   int64
}

// WithLogger sets the logger shared by all components.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithLedgerStore persists strategy records through the given store.
func WithLedgerStore(store ledger.Store) EngineOption {
	return func(o *engineOptions) {
		o.store = store
	}
}

// WithObjective sets the default optimization objective. Balanced if
// not set.
func WithObjective(objective optimizer.Objective) EngineOption {
	return func(o *engineOptions) {
		o.objective = objective
	}
}

// WithFusionConfig overrides the fusion pipeline tuning.
func WithFusionConfig(cfg fusion.Config) EngineOption {
	return func(o *engineOptions) {
		o.fusionConfig = &cfg
	}
}

// WithMonitorOptions passes options through to the resource monitor.
func WithMonitorOptions(opts ...resource.Option) EngineOption {
	return func(o *engineOptions) {
		o.monitorOpts = append(o.monitorOpts, opts...)
	}
}

// WithBackend registers a retrieval backend under its own name.
func WithBackend(backend retrieval.Backend) EngineOption {
	return func(o *engineOptions) {
		o.backends = append(o.backends, backend)
	}
}

// WithQueryCacheLimits bounds the fused-result cache.
func WithQueryCacheLimits(maxEntries int, maxBytes int64) EngineOption {
	return func(o *engineOptions) {
		o.queryCacheEntries = maxEntries
		o.queryCacheBytes = maxBytes
	}
}

// WithBackendCacheLimits bounds the per-backend passage cache.
func WithBackendCacheLimits(maxEntries int, maxBytes int64) EngineOption {
	return func(o *engineOptions) {
		o.backendCacheEntries = maxEntries
		o.backendCacheBytes = maxBytes
	}
}

func NewEngine(opts ...EngineOption) (*Engine, error) {
	// Apply options
	options := &engineOptions{
		objective:           optimizer.ObjectiveBalanced,
		queryCacheEntries:   defaultQueryCacheEntries,
		queryCacheBytes:     defaultQueryCacheBytes,
		backendCacheEntries: defaultBackendCacheEntries,
		backendCacheBytes:   defaultBackendCacheBytes,
	}
	for _, opt := range opts {
		opt(options)
	}
	logger := options.logger
	if logger == nil {
		logger = slog.Default()
	}

	extractor, err := features.NewExtractor()
	if err != nil {
		return nil, err
	}

	ledgerOpts := []ledger.Option{ledger.WithLogger(logger)}
	if options.store != nil {
		ledgerOpts = append(ledgerOpts, ledger.WithStore(options.store))
	}
	led, err := ledger.New(ledgerOpts...)
	if err != nil {
		return nil, err
	}

	pred, err := predictor.New(led, predictor.WithLogger(logger))
	if err != nil {
		led.Close()
		return nil, err
	}

	opt, err := optimizer.New(optimizer.WithLogger(logger))
	if err != nil {
		pred.Close()
		led.Close()
		return nil, err
	}

	monitorOpts := append([]resource.Option{resource.WithLogger(logger)}, options.monitorOpts...)
	mon, err := resource.NewMonitor(monitorOpts...)
	if err != nil {
		pred.Close()
		led.Close()
		return nil, err
	}

	fuserOpts := []fusion.Option{fusion.WithLogger(logger)}
	if options.fusionConfig != nil {
		fuserOpts = append(fuserOpts, fusion.WithConfig(*options.fusionConfig))
	}
	fus, err := fusion.New(fuserOpts...)
	if err != nil {
		pred.Close()
		led.Close()
		return nil, err
	}

	queryCache, err := cache.NewQueryCache[[]core.RetrievedPassage](options.queryCacheEntries, options.queryCacheBytes)
	if err != nil {
		pred.Close()
		led.Close()
		return nil, err
	}
	backendCache, err := cache.NewBackendCache(options.backendCacheEntries, options.backendCacheBytes)
	if err != nil {
		pred.Close()
		led.Close()
		return nil, err
	}

	e := &Engine{
		extractor:    extractor,
		ledger:       led,
		predictor:    pred,
		optimizer:    opt,
		monitor:      mon,
		adjuster:     resource.NewAdjuster(logger),
		fuser:        fus,
		queryCache:   queryCache,
		backendCache: backendCache,
		backends:     make(map[core.Backend]retrieval.Backend),
		objective:    options.objective,
		logger:       logger.With("component", "engine"),
	}
	for _, b := range options.backends {
		e.backends[b.Name()] = &cachingBackend{inner: b, cache: backendCache}
	}
	return e, nil
}

// Start launches the background resource monitor. The engine works
// without it; Process then samples resources on demand.
func (e *Engine) Start(ctx context.Context) error {
	return e.monitor.Start(ctx)
}

// RegisterBackend adds or replaces a retrieval backend.
func (e *Engine) RegisterBackend(backend retrieval.Backend) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.backends[backend.Name()] = &cachingBackend{inner: backend, cache: e.backendCache}
}

// Process runs the full decision pipeline for one query.
func (e *Engine) Process(ctx context.Context, query string, opts QueryOptions) (*Result, error) {
	return e.ProcessWithMonitor(ctx, query, opts, &noopMonitor{})
}

// ProcessWithMonitor runs the pipeline notifying the monitor at each
// stage.
func (e *Engine) ProcessWithMonitor(ctx context.Context, query string, opts QueryOptions, dm DecisionMonitor) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	dm.Start(query)

	feats := e.extractor.Extract(query)
	dm.AfterFeatureExtraction(feats)

	prediction, err := e.predictor.Predict(feats)
	if err != nil {
		return nil, fmt.Errorf("predict strategy: %w", err)
	}
	dm.AfterPrediction(prediction)

	snapshot := e.monitor.Current()
	report := e.monitor.Classify(snapshot)
	advisories := e.adjuster.React(snapshot)
	dm.AfterResourceCheck(snapshot, report, advisories)

	objective := opts.Objective
	if objective == "" {
		objective = e.objective
	}
	candidates := e.candidateSet(prediction.Weights, report)
	strategy, err := e.optimizer.Optimize(feats, candidates, objective, e.constraintsForMode())
	if err != nil {
		return nil, fmt.Errorf("optimize strategy: %w", err)
	}
	dm.AfterOptimization(strategy)

	result := &Result{
		Query:      query,
		Features:   feats,
		Prediction: prediction,
		Strategy:   strategy,
		Mode:       e.adjuster.Mode(),
		Advisories: advisories,
	}

	if passages, ok := e.queryCache.Get(query, strategy.Weights); ok {
		result.Passages = passages
		result.CacheHit = true
		dm.CacheHit(passages)
		dm.Finish(result)
		return result, nil
	}

	passages, err := e.fuser.Fuse(ctx, fusion.Input{
		Query:      query,
		Features:   feats,
		Weights:    strategy.Weights,
		Backends:   e.backendSet(),
		TopK:       opts.TopK,
		SubQueries: opts.SubQueries,
		Keywords:   e.extractor.Keywords(query),
		Entities:   e.extractor.Entities(query),
	})
	if err != nil {
		return nil, fmt.Errorf("fuse results: %w", err)
	}
	dm.AfterFusion(passages)

	e.queryCache.Set(query, strategy.Weights, passages, cache.PassagesSize(passages))
	result.Passages = passages
	dm.Finish(result)
	return result, nil
}

// RecordOutcome feeds the observed performance of a completed query back
// into the ledger and schedules retraining when due.
func (e *Engine) RecordOutcome(result *Result, metrics core.PerformanceMetrics) (core.StrategyRecord, error) {
	record, err := e.ledger.Record(result.Features, result.Strategy.Weights, metrics)
	if err != nil {
		return core.StrategyRecord{}, err
	}
	e.predictor.Observe()
	return record, nil
}

// SetMode switches the resource adaptation mode.
func (e *Engine) SetMode(mode resource.Mode) {
	e.adjuster.SetMode(mode)
}

// SaveModel writes the predictor's model and history to path.
func (e *Engine) SaveModel(path string) error {
	return e.predictor.SaveSnapshot(path)
}

// LoadModel restores a previously saved predictor snapshot.
func (e *Engine) LoadModel(path string) error {
	return e.predictor.LoadSnapshot(path)
}

// Stats reports cache, ledger, model and resource state.
func (e *Engine) Stats() EngineStats {
	return EngineStats{
		QueryCache:   e.queryCache.Stats(),
		BackendCache: e.backendCache.Stats(),
		LedgerSize:   e.ledger.Size(),
		Trained:      e.predictor.Trained(),
		Mode:         e.adjuster.Mode(),
		Resource:     e.monitor.Status(),
	}
}

// ClearCaches drops all cached fused and per-backend results.
func (e *Engine) ClearCaches() {
	e.queryCache.Clear()
	e.backendCache.Clear()
}

func (e *Engine) Close() error {
	// Stop the monitor first so no samples land during teardown.
	if err := e.monitor.Stop(); err != nil && !errors.Is(err, resource.ErrNotRunning) {
		e.logger.Error("error stopping resource monitor", "err", err)
	}

	e.predictor.Close()

	if err := e.ledger.Close(); err != nil {
		e.logger.Error("error closing strategy ledger", "err", err)
		return err
	}
	return nil
}

// candidateSet builds the strategy candidates for one query: the
// predicted vector plus variants tilted toward dense and keyword
// retrieval, all adjusted for current resource pressure.
func (e *Engine) candidateSet(predicted core.WeightVector, report resource.StatusReport) []core.WeightVector {
	dense := predicted.Clone()
	dense[core.BackendDense] += candidateTilt
	dense.Normalize()

	keyword := predicted.Clone()
	keyword[core.BackendKeyword] += candidateTilt
	keyword.Normalize()

	candidates := []core.WeightVector{predicted.Clone(), dense, keyword}
	for i := range candidates {
		candidates[i] = e.adjuster.AdjustWeights(candidates[i], report)
	}
	return candidates
}

// constraintsForMode narrows the default resource envelope to the
// current mode's tolerances.
func (e *Engine) constraintsForMode() optimizer.Constraints {
	constraints := optimizer.DefaultConstraints()
	profile := e.adjuster.Profile()
	if profile.MaxLatencyMillis > 0 {
		constraints.MaxLatencyMillis = profile.MaxLatencyMillis
	}
	return constraints
}

func (e *Engine) backendSet() map[core.Backend]retrieval.Backend {
	e.mu.RLock()
	defer e.mu.RUnlock()
	set := make(map[core.Backend]retrieval.Backend, len(e.backends))
	for name, backend := range e.backends {
		set[name] = backend
	}
	return set
}

// cachingBackend wraps a retrieval backend with the shared per-backend
// passage cache.
type cachingBackend struct {
	inner retrieval.Backend
	cache *cache.BackendCache
}

var _ retrieval.Backend = (*cachingBackend)(nil)

func (c *cachingBackend) Name() core.Backend {
	return c.inner.Name()
}

func (c *cachingBackend) Search(ctx context.Context, query string, topK int) ([]core.RetrievedPassage, error) {
	if passages, ok := c.cache.Get(query, c.Name(), topK); ok {
		return passages, nil
	}
	passages, err := c.inner.Search(ctx, query, topK)
	if err != nil {
		return nil, err
	}
	c.cache.Set(query, c.Name(), topK, passages)
	return passages, nil
}
