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


// Package retrieval defines the backend interfaces the fusion layer
// consumes.
//
// A Backend answers a query with scored passages; implementations wrap a
// lexical index, a dense vector store, a web search API, or anything
// else. The mock subpackage provides deterministic test doubles; the
// langchain subpackage provides a dense backend over a langchaingo
// embedder.
package retrieval
