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


// Package resource watches machine utilization and adapts retrieval
// strategy to it.
//
// A Monitor samples CPU, memory, network and disk usage on a fixed
// interval into a bounded ring of snapshots. GPU metrics come from a
// pluggable GPUSampler since no portable GPU source exists; the default
// reports zeros. A metric source that fails degrades its fields to zero
// rather than dropping the snapshot.
//
// The Adjuster holds an optimization mode with per-mode constraints,
// reacts to utilization with mode switches and advisories, and cuts
// retrieval weights for the expensive backends when a resource goes
// critical.
package resource
