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


// Package optimizer performs multi-objective selection between candidate
// weight vectors.
//
// Each candidate's performance is predicted with small analytic models
// (accuracy, latency, cost, memory, satisfaction, API calls), checked
// against resource constraints, and scored under a named objective.
// Infeasible candidates are penalized rather than discarded, so there is
// always a winner. A Pareto analysis over the predicted dimensions is
// available as a diagnostic.
package optimizer
