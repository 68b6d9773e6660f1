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

import "errors"

// Domain validation errors
var (
	// ErrInvalidWeights indicates a weight vector failed validation.
	ErrInvalidWeights = errors.New("invalid weight vector")

	// ErrInvalidMetrics indicates a PerformanceMetrics value failed validation.
	ErrInvalidMetrics = errors.New("invalid performance metrics")

	// ErrInvalidFeatures indicates a QueryFeatures value failed validation.
	ErrInvalidFeatures = errors.New("invalid query features")
)
