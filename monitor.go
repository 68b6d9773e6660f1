package strategit

import (
	"github.com/poiesic/strategit/core"
	"github.com/poiesic/strategit/predictor"
	"github.com/poiesic/strategit/resource"
)

// DecisionMonitor provides hooks to observe the decision pipeline.
// Implement this interface to track intermediate steps while a query is
// processed.
type DecisionMonitor interface {
	Start(query string)
	AfterFeatureExtraction(features core.QueryFeatures)
	AfterPrediction(prediction predictor.Prediction)
	AfterResourceCheck(snapshot core.ResourceSnapshot, report resource.StatusReport, advisories []resource.Advisory)
	AfterOptimization(selected core.StrategyOption)
	CacheHit(passages []core.RetrievedPassage)
	AfterFusion(passages []core.RetrievedPassage)
	Finish(result *Result)
}

// noopMonitor is a no-op implementation of DecisionMonitor
type noopMonitor struct{}

var _ DecisionMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                              {}
func (n *noopMonitor) AfterFeatureExtraction(_ core.QueryFeatures) {}
func (n *noopMonitor) AfterPrediction(_ predictor.Prediction)      {}
func (n *noopMonitor) AfterResourceCheck(_ core.ResourceSnapshot, _ resource.StatusReport, _ []resource.Advisory) {
}
func (n *noopMonitor) AfterOptimization(_ core.StrategyOption) {}
func (n *noopMonitor) CacheHit(_ []core.RetrievedPassage)      {}
func (n *noopMonitor) AfterFusion(_ []core.RetrievedPassage)   {}
func (n *noopMonitor) Finish(_ *Result)                        {}
