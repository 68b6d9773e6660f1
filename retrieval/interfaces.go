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


package retrieval

import (
	"context"

	"github.com/poiesic/strategit/core"
)

// Backend retrieves passages for a query. Implementations must be safe
// for concurrent use.
type Backend interface {
	// Name identifies which retrieval method this backend implements.
	Name() core.Backend

	// Search returns up to topK passages scored by relevance. The
	// returned passages carry the backend's raw scores; downstream
	// fusion re-scores them.
	Search(ctx context.Context, query string, topK int) ([]core.RetrievedPassage, error)
}

// Generator produces an answer from a query and its supporting passages.
// It is consumed by callers assembling a full RAG flow; nothing in this
// module invokes it.
type Generator interface {
	Generate(ctx context.Context, query string, passages []core.RetrievedPassage) (string, error)
}
