package core

import "time"

// Backend identifies one retrieval method.
type Backend string

const (
	// BackendKeyword is lexical/keyword search.
	BackendKeyword Backend = "keyword"
	// BackendDense is dense/semantic embedding search.
	BackendDense Backend = "dense"
	// BackendWeb is external web search.
	BackendWeb Backend = "web"
)

// Backends lists all known backends in canonical order.
// The order is stable so that feature vectors and cache keys are deterministic.
var Backends = []Backend{BackendKeyword, BackendDense, BackendWeb}

// QuestionType classifies a query by the kind of answer it expects.
type QuestionType string

const (
	QuestionFactual     QuestionType = "factual"
	QuestionReasoning   QuestionType = "reasoning"
	QuestionComparison  QuestionType = "comparison"
	QuestionEnumeration QuestionType = "enumeration"
	QuestionGeneral     QuestionType = "general"
)

// QuestionTypes lists all question types in canonical order.
var QuestionTypes = []QuestionType{
	QuestionFactual,
	QuestionReasoning,
	QuestionComparison,
	QuestionEnumeration,
	QuestionGeneral,
}

// Complexity buckets a query's complexity score for sizing decisions.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// QueryFeatures is an immutable per-query feature summary produced
// by the feature extractor.
type QueryFeatures struct {
	ComplexityScore    float64      // [0,1]
	EntityCount        int          // capitalized multi-char tokens, or NER output
	TokenCount         int          // whitespace tokens
	QuestionType       QuestionType
	TemporalIndicators int          // count of temporal keywords
	SemanticDensity    float64      // fraction of non-stopword tokens, [0,1]
	AmbiguityScore     float64      // pronoun/placeholder density, [0,1]
}

// Complexity buckets the complexity score: >= 0.7 complex, <= 0.3 simple,
// moderate otherwise.
func (f QueryFeatures) Complexity() Complexity {
	switch {
	case f.ComplexityScore >= 0.7:
		return ComplexityComplex
	case f.ComplexityScore <= 0.3:
		return ComplexitySimple
	default:
		return ComplexityModerate
	}
}

// PerformanceMetrics is a realized outcome observed after a query completed.
type PerformanceMetrics struct {
	Accuracy         float64 // [0,1]
	LatencySeconds   float64 // >= 0
	Cost             float64 // >= 0, unit cost (API spend etc.)
	UserSatisfaction float64 // [0,1]
}

// StrategyRecord ties the features of a query to the weights that were chosen
// for it and the outcome that was observed. Records are owned exclusively by
// the ledger, appended once and never mutated.
type StrategyRecord struct {
	Features  QueryFeatures
	Weights   WeightVector
	Metrics   PerformanceMetrics
	Timestamp time.Time
}

// PerformanceDimensions is a predicted, ephemeral performance estimate
// produced by the optimizer's analytic models.
type PerformanceDimensions struct {
	Accuracy         float64 // [0,1]
	LatencyMillis    float64
	Cost             float64
	MemoryMB         float64
	UserSatisfaction float64 // [0,1]
	APICalls         int
}

// StrategyOption is one candidate weight vector under evaluation during a
// single Optimize call.
type StrategyOption struct {
	Name      string
	Weights   WeightVector
	Predicted PerformanceDimensions
	Feasible  bool
	Score     float64
}

// ResourceSnapshot is one observation of machine resource usage.
// Snapshots are produced on a fixed interval and are read-only to consumers.
type ResourceSnapshot struct {
	CPUPercent        float64 // [0,100]
	MemoryPercent     float64 // [0,100]
	MemoryAvailableMB float64
	GPUPercent        float64 // [0,100], zero when no GPU source
	GPUMemoryMB       float64
	NetworkIOMBs      float64
	DiskIOMBs         float64
	Timestamp         time.Time
}

// RetrievedPassage is one passage returned by a backend, carrying the scores
// assigned at each fusion stage. Ephemeral per query.
type RetrievedPassage struct {
	Content        string
	Title          string
	Backend        Backend
	RawScore       float64 // score as reported by the backend
	CombinedScore  float64 // raw score scaled by backend weight, or RRF score
	RelevanceScore float64 // query word overlap
	DiversityScore float64
	FinalScore     float64
	Metadata       map[string]string
}
