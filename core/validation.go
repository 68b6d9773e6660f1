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


package core

import "fmt"

// ValidateFeatures validates a QueryFeatures value according to domain rules.
//
// Validation rules:
//   - ComplexityScore, SemanticDensity, AmbiguityScore must be in [0,1]
//   - EntityCount, TokenCount, TemporalIndicators must be non-negative
//   - QuestionType must be one of the known types
func ValidateFeatures(f QueryFeatures) error {
	if f.ComplexityScore < 0 || f.ComplexityScore > 1 {
		return fmt.Errorf("%w: complexity score %v out of [0,1]", ErrInvalidFeatures, f.ComplexityScore)
	}
	if f.SemanticDensity < 0 || f.SemanticDensity > 1 {
		return fmt.Errorf("%w: semantic density %v out of [0,1]", ErrInvalidFeatures, f.SemanticDensity)
	}
	if f.AmbiguityScore < 0 || f.AmbiguityScore > 1 {
		return fmt.Errorf("%w: ambiguity score %v out of [0,1]", ErrInvalidFeatures, f.AmbiguityScore)
	}
	if f.EntityCount < 0 || f.TokenCount < 0 || f.TemporalIndicators < 0 {
		return fmt.Errorf("%w: negative count", ErrInvalidFeatures)
	}
	if !isKnownQuestionType(f.QuestionType) {
		return fmt.Errorf("%w: unknown question type %q", ErrInvalidFeatures, f.QuestionType)
	}
	return nil
}

// ValidateMetrics validates a realized outcome.
//
// Validation rules:
//   - Accuracy and UserSatisfaction must be in [0,1]
//   - LatencySeconds and Cost must be non-negative
func ValidateMetrics(m PerformanceMetrics) error {
	if m.Accuracy < 0 || m.Accuracy > 1 {
		return fmt.Errorf("%w: accuracy %v out of [0,1]", ErrInvalidMetrics, m.Accuracy)
	}
	if m.UserSatisfaction < 0 || m.UserSatisfaction > 1 {
		return fmt.Errorf("%w: user satisfaction %v out of [0,1]", ErrInvalidMetrics, m.UserSatisfaction)
	}
	if m.LatencySeconds < 0 {
		return fmt.Errorf("%w: negative latency", ErrInvalidMetrics)
	}
	if m.Cost < 0 {
		return fmt.Errorf("%w: negative cost", ErrInvalidMetrics)
	}
	return nil
}

func isKnownQuestionType(qt QuestionType) bool {
	for _, known := range QuestionTypes {
		if qt == known {
			return true
		}
	}
	return false
}
