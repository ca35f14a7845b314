/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/
package apis

import "time"

// Config carries read-only knobs that influence declaration, resolution and
// activation. It is passed by value and should be treated as immutable.
type Config struct {
	// Strict rejects duplicate declarations and activations that would shadow
	// a natively defined method, unless the caller passes Force.
	Strict bool

	// MaxUnwrap limits container unwrapping depth (ptr/slice/array/chan/map)
	// when a target is normalized to its nearest named type.
	MaxUnwrap int

	// MaxDepth limits how many ancestry levels the resolver walks above the
	// lookup type. Acts as a guard against pathological lineage graphs.
	MaxDepth int

	// CacheTTL is how long a computed ancestry stays memoized.
	// Zero disables memoization.
	CacheTTL time.Duration

	// CacheCleanup is the interval at which expired ancestry entries are purged.
	CacheCleanup time.Duration
}
