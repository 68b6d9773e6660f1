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


// Package predictor chooses retrieval weight vectors for queries.
//
// Two strategies coexist behind one interface. The rule-based strategy
// maps question types to default weight vectors and applies small shifts
// for complex or entity-heavy queries. The learned strategy fits a ridge
// regression over the recorded outcome history and predicts weights from
// query features directly.
//
// The learned strategy is only consulted once enough history has
// accumulated and a model has been trained. Retraining happens in the
// background on a worker pool so recording outcomes never blocks on a
// model fit. Any failure in the learned path falls back to the rule-based
// strategy rather than surfacing an error to the caller.
package predictor
