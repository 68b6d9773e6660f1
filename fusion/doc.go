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


// Package fusion merges multi-backend retrieval results into one ranked,
// deduplicated, diverse passage list.
//
// The pipeline invokes every backend with positive weight, scales raw
// scores by backend weight (or applies reciprocal rank fusion), drops
// near-duplicates by token-set Jaccard similarity, rescores passages on
// relevance, entity, keyword and question-pattern dimensions, and applies
// a greedy diversity pass. A failing backend contributes nothing; the
// pipeline only errs on misuse, never on backend failure.
package fusion
