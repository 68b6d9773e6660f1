package predictor

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/poiesic/strategit/core"
)

const (
	// ridgeLambda is the L2 regularization strength.
	ridgeLambda = 1.0

	// minWeight is the floor applied to predicted weights before
	// renormalization, so no backend is ever fully silenced.
	minWeight = 0.01

	// minFitRecords is the smallest history a fit will accept.
	minFitRecords = 10
)

// ridgeModel is a standardized ridge regression with one output column per
// backend weight plus one for the composite performance score. All fields
// are exported for snapshot serialization.
type ridgeModel struct {
	Means []float64
	Stds  []float64

	// Coefs is (featureDim+1) x (len(core.Backends)+1): standardized
	// features plus a bias row, weight columns in core.Backends order
	// followed by the composite column.
	Coefs [][]float64

	// Confidence is derived from the training residuals of the weight
	// columns.
	Confidence float64

	Trained bool
}

// fit runs ridge regression over the record history. The previous model
// state is only replaced on success.
func (m *ridgeModel) fit(records []core.StrategyRecord) error {
	if len(records) < minFitRecords {
		return fmt.Errorf("%w: have %d records, need %d", ErrInsufficientData, len(records), minFitRecords)
	}

	rows := len(records)
	outputs := len(core.Backends) + 1

	raw := make([][]float64, rows)
	targets := mat.NewDense(rows, outputs, nil)
	for i, record := range records {
		raw[i] = vectorize(record.Features)
		for j, backend := range core.Backends {
			targets.Set(i, j, record.Weights[backend])
		}
		targets.Set(i, outputs-1, compositeScore(record.Metrics))
	}

	means, stds := standardizationParams(raw)
	design := mat.NewDense(rows, featureDim+1, nil)
	for i, vec := range raw {
		for j := range vec {
			design.Set(i, j, (vec[j]-means[j])/stds[j])
		}
		design.Set(i, featureDim, 1) // bias
	}

	// Solve (X'X + lambda*I) B = X'Y.
	var gram mat.Dense
	gram.Mul(design.T(), design)
	n, _ := gram.Dims()
	for i := 0; i < n; i++ {
		gram.Set(i, i, gram.At(i, i)+ridgeLambda)
	}

	var moment mat.Dense
	moment.Mul(design.T(), targets)

	var beta mat.Dense
	if err := beta.Solve(&gram, &moment); err != nil {
		return fmt.Errorf("solving ridge system: %w", err)
	}

	coefs := make([][]float64, featureDim+1)
	for i := range coefs {
		coefs[i] = make([]float64, outputs)
		for j := 0; j < outputs; j++ {
			coefs[i][j] = beta.At(i, j)
		}
	}

	m.Means = means
	m.Stds = stds
	m.Coefs = coefs
	m.Confidence = trainingConfidence(design, &beta, targets)
	m.Trained = true
	return nil
}

// predictWeights maps a feature vector to a normalized weight vector with
// every backend floored at minWeight.
func (m *ridgeModel) predictWeights(vec []float64) (core.WeightVector, error) {
	out, err := m.predict(vec)
	if err != nil {
		return nil, err
	}

	weights := make(core.WeightVector, len(core.Backends))
	for j, backend := range core.Backends {
		w := out[j]
		if w < minWeight || math.IsNaN(w) {
			w = minWeight
		}
		weights[backend] = w
	}
	weights.Normalize()
	return weights, nil
}

// predictComposite estimates the composite performance score for a feature
// vector, clamped to [0,1].
func (m *ridgeModel) predictComposite(vec []float64) (float64, error) {
	out, err := m.predict(vec)
	if err != nil {
		return 0, err
	}
	score := out[len(out)-1]
	if math.IsNaN(score) {
		return 0, fmt.Errorf("%w: non-finite composite prediction", ErrNotTrained)
	}
	return clamp01(score), nil
}

func (m *ridgeModel) predict(vec []float64) ([]float64, error) {
	if !m.Trained {
		return nil, ErrNotTrained
	}
	if len(vec) != featureDim || len(m.Means) != featureDim {
		return nil, fmt.Errorf("%w: feature width mismatch", ErrNotTrained)
	}

	outputs := len(m.Coefs[0])
	out := make([]float64, outputs)
	for j := 0; j < outputs; j++ {
		sum := m.Coefs[featureDim][j] // bias
		for i := 0; i < featureDim; i++ {
			sum += (vec[i] - m.Means[i]) / m.Stds[i] * m.Coefs[i][j]
		}
		out[j] = sum
	}
	return out, nil
}

// standardizationParams computes per-column mean and standard deviation.
// Constant columns get a std of 1 so standardization is a no-op for them.
func standardizationParams(raw [][]float64) ([]float64, []float64) {
	means := make([]float64, featureDim)
	stds := make([]float64, featureDim)

	for _, vec := range raw {
		for j := range vec {
			means[j] += vec[j]
		}
	}
	for j := range means {
		means[j] /= float64(len(raw))
	}

	for _, vec := range raw {
		for j := range vec {
			d := vec[j] - means[j]
			stds[j] += d * d
		}
	}
	for j := range stds {
		stds[j] = math.Sqrt(stds[j] / float64(len(raw)))
		if stds[j] == 0 {
			stds[j] = 1
		}
	}

	return means, stds
}

// trainingConfidence turns the RMSE of the weight columns into a
// confidence in [0.5, 0.95]: tight fits approach the cap, poor fits drop
// toward the rule-based level.
func trainingConfidence(design *mat.Dense, beta *mat.Dense, targets *mat.Dense) float64 {
	var fitted mat.Dense
	fitted.Mul(design, beta)

	rows, _ := targets.Dims()
	weightCols := len(core.Backends)

	var sse float64
	for i := 0; i < rows; i++ {
		for j := 0; j < weightCols; j++ {
			d := fitted.At(i, j) - targets.At(i, j)
			sse += d * d
		}
	}
	rmse := math.Sqrt(sse / float64(rows*weightCols))

	confidence := 1 - rmse
	if confidence > 0.95 {
		confidence = 0.95
	}
	if confidence < 0.5 {
		confidence = 0.5
	}
	return confidence
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
