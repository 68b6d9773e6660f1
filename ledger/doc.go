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


// Package ledger maintains the append-only history of strategy decisions
// and their observed outcomes.
//
// The ledger is the training substrate for the learned predictor: each
// completed retrieval contributes one StrategyRecord pairing the query
// features and chosen weights with the performance that resulted. Records
// are held in memory and optionally mirrored to a durable Store so that
// accumulated experience survives restarts.
//
// All read methods return snapshot copies, so callers can iterate without
// holding any lock while writers continue to append.
package ledger
