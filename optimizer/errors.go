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


package optimizer

import "errors"

var (
	// ErrNoCandidates indicates Optimize was called with no candidates.
	ErrNoCandidates = errors.New("no candidate strategies")

	// ErrUnknownObjective indicates an objective with no weight preset.
	ErrUnknownObjective = errors.New("unknown optimization objective")
)
