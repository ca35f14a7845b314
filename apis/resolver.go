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

// Resolver walks ancestry and finds declared bundles.
// Implementations must be safe for concurrent use.
type Resolver interface {
	// Ancestry returns t followed by its ancestors, nearest-first and
	// without duplicates. It returns nil if t cannot be normalized.
	Ancestry(t reflect.Type) []reflect.Type

	// Resolve searches the ancestry of t for a bundle declaring name.
	// The first match wins; from is the ancestor it was declared on.
	Resolve(t reflect.Type, name string) (b *Bundle, from reflect.Type, ok bool)
}
