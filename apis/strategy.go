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

import "reflect"

// Strategy is a pluggable ancestry step. A Resolver asks every strategy, in
// order, for the direct parents of a type and merges the answers.
type Strategy interface {
	// Parents returns the direct ancestors of t, nearest-first.
	// A strategy that has nothing to say about t returns nil.
	Parents(t reflect.Type, cfg Config) []reflect.Type
}

// Descendant lets a type describe its own ancestry. The method is called on
// a freshly allocated zero value, so it must not depend on instance state.
type Descendant interface {
	PatchAncestors() []reflect.Type
}
