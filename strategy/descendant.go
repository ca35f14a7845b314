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
package strategy

import (
	"reflect"

	"dirpx.dev/patchx/apis"
)

var descendantType = reflect.TypeFor[apis.Descendant]()

// NewDescendantStrategy creates an apis.Strategy that asks types implementing
// apis.Descendant for their ancestors.
func NewDescendantStrategy() apis.Strategy {
	return &descendantStrategy{}
}

// descendantStrategy is the self-describing fast path: if t (or *t)
// implements apis.Descendant, its PatchAncestors() are the parents.
type descendantStrategy struct{}

// Ensure descendantStrategy implements apis.Strategy.
var _ apis.Strategy = (*descendantStrategy)(nil)

// Parents calls PatchAncestors on a fresh zero value of t.
func (*descendantStrategy) Parents(t reflect.Type, _ apis.Config) []reflect.Type {
	// Interfaces cannot be instantiated.
	if t == nil || t.Kind() == reflect.Interface {
		return nil
	}
	if !reflect.PointerTo(t).Implements(descendantType) {
		return nil
	}
	d := reflect.New(t).Interface().(apis.Descendant)
	return d.PatchAncestors()
}
