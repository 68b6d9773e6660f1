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


// Package cache provides size-bounded LRU caches for retrieval results.
//
// The base Cache layers byte accounting over an LRU: eviction happens
// before an insert would exceed either the entry cap or the byte cap, and
// an item larger than the whole byte budget is simply not retained.
//
// QueryCache keys full pipeline results by query text plus the weight
// vector that produced them; BackendCache keys raw per-backend result
// lists by query, backend and result count. Both are instance-scoped and
// wired into the engine explicitly.
package cache
