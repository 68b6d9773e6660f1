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


package ledger

import "github.com/poiesic/strategit/core"

// Store is the durable backing for a Ledger. Implementations must be
// safe for concurrent use.
type Store interface {
	// Append persists a single record.
	Append(record core.StrategyRecord) error

	// LoadAll returns all persisted records in append order.
	LoadAll() ([]core.StrategyRecord, error)

	// Close releases store resources.
	Close() error
}
