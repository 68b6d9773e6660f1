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


package resource

import "errors"

var (
	// ErrAlreadyRunning indicates Start was called on a running monitor.
	ErrAlreadyRunning = errors.New("monitor already running")

	// ErrNotRunning indicates Stop was called on a stopped monitor.
	ErrNotRunning = errors.New("monitor not running")

	// ErrStopTimeout indicates the monitor loop did not exit in time.
	ErrStopTimeout = errors.New("monitor stop timed out")
)
