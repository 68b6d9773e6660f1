package predictor

import "github.com/poiesic/strategit/core"

const (
	// ruleConfidence is reported for every rule-based prediction.
	ruleConfidence = 0.7

	complexityShiftThreshold = 0.7
	entityShiftThreshold     = 3
	shiftAmount              = 0.1
)

// defaultStrategies maps question types to their baseline weight vectors.
var defaultStrategies = map[core.QuestionType]core.WeightVector{
	core.QuestionFactual:     {core.BackendKeyword: 0.7, core.BackendDense: 0.2, core.BackendWeb: 0.1},
	core.QuestionReasoning:   {core.BackendKeyword: 0.3, core.BackendDense: 0.6, core.BackendWeb: 0.1},
	core.QuestionComparison:  {core.BackendKeyword: 0.4, core.BackendDense: 0.4, core.BackendWeb: 0.2},
	core.QuestionEnumeration: {core.BackendKeyword: 0.6, core.BackendDense: 0.3, core.BackendWeb: 0.1},
	core.QuestionGeneral:     {core.BackendKeyword: 0.4, core.BackendDense: 0.4, core.BackendWeb: 0.2},
}

// ruleBasedWeights derives a weight vector from per-type defaults plus two
// adjustments: complex queries shift weight toward dense retrieval, and
// entity-heavy queries shift weight toward keyword retrieval. Each shift
// is taken equally from the other two backends.
func ruleBasedWeights(features core.QueryFeatures) core.WeightVector {
	base, ok := defaultStrategies[features.QuestionType]
	if !ok {
		base = defaultStrategies[core.QuestionGeneral]
	}
	weights := base.Clone()

	if features.ComplexityScore > complexityShiftThreshold {
		shiftToward(weights, core.BackendDense)
	}
	if features.EntityCount > entityShiftThreshold {
		shiftToward(weights, core.BackendKeyword)
	}

	weights.Normalize()
	return weights
}

// shiftToward moves shiftAmount of weight to target, taken equally from
// the remaining backends, clamping each donor at zero.
func shiftToward(weights core.WeightVector, target core.Backend) {
	donation := shiftAmount / float64(len(core.Backends)-1)
	for _, backend := range core.Backends {
		if backend == target {
			weights[backend] += shiftAmount
			continue
		}
		weights[backend] -= donation
		if weights[backend] < 0 {
			weights[backend] = 0
		}
	}
}
