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


// Package features extracts per-query feature summaries used to choose a
// retrieval strategy: complexity, entity and token counts, question type,
// temporal indicators, semantic density, and ambiguity.
//
// Extraction is heuristic by design — keyword lists and capitalization
// patterns, not models — so it is cheap enough to run on every query and
// never fails. Entity extraction is the one pluggable slot: supply a real
// NER implementation through WithEntityExtractor when available.
package features
