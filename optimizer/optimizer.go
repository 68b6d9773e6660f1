package optimizer

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/poiesic/strategit/core"
)

// Objective names a scoring profile over the five performance dimensions.
type Objective string

const (
	ObjectiveAccuracy     Objective = "accuracy"
	ObjectiveSpeed        Objective = "speed"
	ObjectiveCost         Objective = "cost"
	ObjectiveBalanced     Objective = "balanced"
	ObjectiveSatisfaction Objective = "satisfaction"
)

// dimensionWeights distributes scoring weight across the dimensions.
type dimensionWeights struct {
	accuracy     float64
	latency      float64
	cost         float64
	memory       float64
	satisfaction float64
}

var defaultObjectiveWeights = map[Objective]dimensionWeights{
	ObjectiveAccuracy:     {accuracy: 0.6, latency: 0.1, cost: 0.1, memory: 0.1, satisfaction: 0.1},
	ObjectiveSpeed:        {accuracy: 0.2, latency: 0.5, cost: 0.1, memory: 0.1, satisfaction: 0.1},
	ObjectiveCost:         {accuracy: 0.2, latency: 0.1, cost: 0.5, memory: 0.1, satisfaction: 0.1},
	ObjectiveBalanced:     {accuracy: 0.3, latency: 0.2, cost: 0.2, memory: 0.1, satisfaction: 0.2},
	ObjectiveSatisfaction: {accuracy: 0.2, latency: 0.2, cost: 0.1, memory: 0.1, satisfaction: 0.4},
}

// Constraints bounds the predicted resource usage of a candidate.
type Constraints struct {
	MaxLatencyMillis float64
	MaxCostPerQuery  float64
	MaxMemoryMB      float64
	MaxAPICalls      int
}

// DefaultConstraints returns the standard resource envelope.
func DefaultConstraints() Constraints {
	return Constraints{
		MaxLatencyMillis: 5000,
		MaxCostPerQuery:  0.1,
		MaxMemoryMB:      1000,
		MaxAPICalls:      10,
	}
}

// Normalization ceilings for score computation.
const (
	latencyCeilingMillis = 10000.0
	costCeiling          = 1.0
	memoryCeilingMB      = 2000.0

	// infeasiblePenalty halves the score of constraint violators; they
	// stay in the running so Optimize always has an answer.
	infeasiblePenalty = 0.5
)

// Optimizer scores candidate strategies under configurable objectives.
type Optimizer struct {
	mu      sync.RWMutex
	weights map[Objective]dimensionWeights
	logger  *slog.Logger
}

// Option configures an Optimizer.
type Option func(*Optimizer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Optimizer) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// New creates an Optimizer with the default objective presets.
func New(opts ...Option) (*Optimizer, error) {
	weights := make(map[Objective]dimensionWeights, len(defaultObjectiveWeights))
	for k, v := range defaultObjectiveWeights {
		weights[k] = v
	}

	o := &Optimizer{
		weights: weights,
		logger:  slog.Default().With("component", "optimizer"),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// SetObjectiveWeights replaces the dimension weights for one objective.
// The weights are normalized to sum to 1.
func (o *Optimizer) SetObjectiveWeights(objective Objective, accuracy, latency, cost, memory, satisfaction float64) error {
	total := accuracy + latency + cost + memory + satisfaction
	if total <= 0 {
		return fmt.Errorf("%w: non-positive weight total", ErrUnknownObjective)
	}

	o.mu.Lock()
	o.weights[objective] = dimensionWeights{
		accuracy:     accuracy / total,
		latency:      latency / total,
		cost:         cost / total,
		memory:       memory / total,
		satisfaction: satisfaction / total,
	}
	o.mu.Unlock()

	o.logger.Info("objective weights updated", "objective", objective)
	return nil
}

// Evaluate predicts performance and checks feasibility for every
// candidate, preserving input order. Names follow candidate positions.
func (o *Optimizer) Evaluate(features core.QueryFeatures, candidates []core.WeightVector, constraints Constraints) []core.StrategyOption {
	options := make([]core.StrategyOption, len(candidates))
	for i, weights := range candidates {
		predicted := PredictPerformance(features, weights)
		options[i] = core.StrategyOption{
			Name:      fmt.Sprintf("strategy_%d", i),
			Weights:   weights,
			Predicted: predicted,
			Feasible:  feasible(predicted, constraints),
		}
	}
	return options
}

// Optimize selects the highest-scoring candidate under the objective.
// Infeasible candidates are halved rather than dropped; ties keep the
// earlier candidate. An internal panic is recovered and the first
// candidate returned unmodified.
func (o *Optimizer) Optimize(features core.QueryFeatures, candidates []core.WeightVector, objective Objective, constraints Constraints) (selected core.StrategyOption, err error) {
	if len(candidates) == 0 {
		return core.StrategyOption{}, ErrNoCandidates
	}

	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("optimization panicked, returning first candidate", "panic", r)
			selected = core.StrategyOption{
				Name:    "strategy_0",
				Weights: candidates[0],
			}
			err = nil
		}
	}()

	o.mu.RLock()
	weights, ok := o.weights[objective]
	o.mu.RUnlock()
	if !ok {
		return core.StrategyOption{}, fmt.Errorf("%w: %q", ErrUnknownObjective, objective)
	}

	options := o.Evaluate(features, candidates, constraints)

	best := 0
	bestScore := -1.0
	for i := range options {
		options[i].Score = score(options[i], weights)
		if options[i].Score > bestScore {
			bestScore = options[i].Score
			best = i
		}
	}

	o.logger.Debug("strategy selected",
		"name", options[best].Name,
		"objective", objective,
		"score", options[best].Score,
		"feasible", options[best].Feasible)

	return options[best], nil
}

// score normalizes the predicted dimensions and applies the objective's
// dimension weights, halving infeasible candidates.
func score(option core.StrategyOption, weights dimensionWeights) float64 {
	perf := option.Predicted

	normLatency := 1 - perf.LatencyMillis/latencyCeilingMillis
	if normLatency < 0 {
		normLatency = 0
	}
	normCost := 1 - perf.Cost/costCeiling
	if normCost < 0 {
		normCost = 0
	}
	normMemory := 1 - perf.MemoryMB/memoryCeilingMB
	if normMemory < 0 {
		normMemory = 0
	}

	s := weights.accuracy*perf.Accuracy +
		weights.latency*normLatency +
		weights.cost*normCost +
		weights.memory*normMemory +
		weights.satisfaction*perf.UserSatisfaction

	if !option.Feasible {
		s *= infeasiblePenalty
	}
	return s
}

func feasible(perf core.PerformanceDimensions, constraints Constraints) bool {
	if perf.LatencyMillis > constraints.MaxLatencyMillis {
		return false
	}
	if perf.Cost > constraints.MaxCostPerQuery {
		return false
	}
	if perf.MemoryMB > constraints.MaxMemoryMB {
		return false
	}
	if perf.APICalls > constraints.MaxAPICalls {
		return false
	}
	return true
}
