package predictor

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/strategit/core"
)

const (
	// minRecordsForLearned gates the learned strategy.
	minRecordsForLearned = 50

	// retrainEvery triggers a background fit at exact multiples.
	retrainEvery = 20
)

// History is the slice of the ledger the predictor needs.
type History interface {
	Size() int
	Snapshot() []core.StrategyRecord
}

// Prediction is the outcome of a single strategy decision.
type Prediction struct {
	Weights        core.WeightVector
	Confidence     float64
	PredictedScore float64 // composite performance estimate, [0,1]
	Rationale      string
	Learned        bool
}

// Predictor selects retrieval weights for query features, learning from
// the outcome history as it grows.
type Predictor struct {
	history History
	pool    *ants.Pool
	logger  *slog.Logger

	mu    sync.RWMutex
	model ridgeModel
}

// Option configures a Predictor.
type Option func(*Predictor) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Predictor) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// New creates a Predictor over the given history. A single-worker pool
// serializes background retraining.
func New(history History, opts ...Option) (*Predictor, error) {
	if history == nil {
		return nil, fmt.Errorf("history is required")
	}

	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, err
	}

	p := &Predictor{
		history: history,
		pool:    pool,
		logger:  slog.Default().With("component", "predictor"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			pool.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Predict chooses a weight vector for the given features. The learned
// model is used once the history holds at least minRecordsForLearned
// records and a fit has succeeded; otherwise, or on any model failure,
// the rule-based strategy answers.
func (p *Predictor) Predict(features core.QueryFeatures) (Prediction, error) {
	if err := core.ValidateFeatures(features); err != nil {
		return Prediction{}, err
	}

	vec := vectorize(features)

	if p.ready() {
		p.mu.RLock()
		weights, werr := p.model.predictWeights(vec)
		confidence := p.model.Confidence
		p.mu.RUnlock()

		if werr == nil {
			return Prediction{
				Weights:        weights,
				Confidence:     confidence,
				PredictedScore: p.predictedScore(vec),
				Rationale:      rationale(features, weights, true),
				Learned:        true,
			}, nil
		}
		p.logger.Warn("learned prediction failed, using rule-based strategy", "error", werr)
	}

	weights := ruleBasedWeights(features)
	return Prediction{
		Weights:        weights,
		Confidence:     ruleConfidence,
		PredictedScore: p.predictedScore(vec),
		Rationale:      rationale(features, weights, false),
		Learned:        false,
	}, nil
}

// Observe must be called after every ledger append. At exact multiples of
// retrainEvery it schedules a background retrain over a snapshot of the
// history.
func (p *Predictor) Observe() {
	size := p.history.Size()
	if size == 0 || size%retrainEvery != 0 {
		return
	}

	err := p.pool.Submit(func() {
		if rerr := p.Retrain(); rerr != nil {
			p.logger.Warn("background retrain failed", "error", rerr, "history", size)
		}
	})
	if err != nil {
		p.logger.Warn("failed to schedule retrain", "error", err)
	}
}

// Retrain fits the model synchronously over the current history snapshot.
// The live model is only replaced when the fit succeeds.
func (p *Predictor) Retrain() error {
	records := p.history.Snapshot()

	var next ridgeModel
	if err := next.fit(records); err != nil {
		return err
	}

	p.mu.Lock()
	p.model = next
	p.mu.Unlock()

	p.logger.Info("model retrained", "records", len(records), "confidence", next.Confidence)
	return nil
}

// Trained reports whether a model fit has succeeded.
func (p *Predictor) Trained() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.model.Trained
}

// Close releases the retraining pool.
func (p *Predictor) Close() {
	p.pool.Release()
}

// ready reports whether the learned strategy may answer.
func (p *Predictor) ready() bool {
	return p.Trained() && p.history.Size() >= minRecordsForLearned
}

// predictedScore estimates the composite performance for the features, or
// returns a neutral 0.5 before any model exists.
func (p *Predictor) predictedScore(vec []float64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.model.Trained {
		return 0.5
	}
	score, err := p.model.predictComposite(vec)
	if err != nil {
		return 0.5
	}
	return score
}

// rationale builds a short human-readable explanation of the decision.
func rationale(features core.QueryFeatures, weights core.WeightVector, learned bool) string {
	var parts []string

	if learned {
		parts = append(parts, "learned from outcome history")
	} else {
		parts = append(parts, fmt.Sprintf("%s question defaults", features.QuestionType))
	}

	if features.ComplexityScore > complexityShiftThreshold {
		parts = append(parts, "high complexity favors dense retrieval")
	}
	if features.EntityCount > entityShiftThreshold {
		parts = append(parts, "many entities favor keyword retrieval")
	}

	parts = append(parts, fmt.Sprintf("dominant backend %s", weights.Dominant()))
	return strings.Join(parts, "; ")
}
