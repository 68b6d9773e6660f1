package optimizer

import "github.com/poiesic/strategit/core"

// ParetoSet returns the candidates not dominated by any other, preserving
// input order. Dominance compares accuracy, latency, cost and user
// satisfaction; memory and API calls are constraint concerns, not
// dominance dimensions.
func ParetoSet(options []core.StrategyOption) []core.StrategyOption {
	var efficient []core.StrategyOption
	for i := range options {
		dominated := false
		for j := range options {
			if i != j && dominates(options[j], options[i]) {
				dominated = true
				break
			}
		}
		if !dominated {
			efficient = append(efficient, options[i])
		}
	}
	return efficient
}

// Range is a [min, max] pair over one predicted dimension.
type Range struct {
	Min float64
	Max float64
}

// TradeoffReport summarizes the spread of predicted performance across a
// candidate set plus the names of the Pareto-efficient members.
type TradeoffReport struct {
	Accuracy        Range
	LatencyMillis   Range
	Cost            Range
	Satisfaction    Range
	ParetoEfficient []string
}

// Tradeoffs computes a TradeoffReport for the candidate set. An empty set
// yields a zero report.
func Tradeoffs(options []core.StrategyOption) TradeoffReport {
	if len(options) == 0 {
		return TradeoffReport{}
	}

	report := TradeoffReport{
		Accuracy:      singleton(options[0].Predicted.Accuracy),
		LatencyMillis: singleton(options[0].Predicted.LatencyMillis),
		Cost:          singleton(options[0].Predicted.Cost),
		Satisfaction:  singleton(options[0].Predicted.UserSatisfaction),
	}
	for _, option := range options[1:] {
		widen(&report.Accuracy, option.Predicted.Accuracy)
		widen(&report.LatencyMillis, option.Predicted.LatencyMillis)
		widen(&report.Cost, option.Predicted.Cost)
		widen(&report.Satisfaction, option.Predicted.UserSatisfaction)
	}

	for _, option := range ParetoSet(options) {
		report.ParetoEfficient = append(report.ParetoEfficient, option.Name)
	}
	return report
}

// dominates reports whether a is at least as good as b on every dominance
// dimension and strictly better on at least one.
func dominates(a, b core.StrategyOption) bool {
	pa, pb := a.Predicted, b.Predicted

	allBetterOrEqual := pa.Accuracy >= pb.Accuracy &&
		pa.LatencyMillis <= pb.LatencyMillis &&
		pa.Cost <= pb.Cost &&
		pa.UserSatisfaction >= pb.UserSatisfaction

	atLeastOneBetter := pa.Accuracy > pb.Accuracy ||
		pa.LatencyMillis < pb.LatencyMillis ||
		pa.Cost < pb.Cost ||
		pa.UserSatisfaction > pb.UserSatisfaction

	return allBetterOrEqual && atLeastOneBetter
}

func singleton(v float64) Range {
	return Range{Min: v, Max: v}
}

func widen(r *Range, v float64) {
	if v < r.Min {
		r.Min = v
	}
	if v > r.Max {
		r.Max = v
	}
}
