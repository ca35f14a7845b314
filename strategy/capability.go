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

// NewCapabilityStrategy creates an apis.Strategy that treats interfaces
// carrying declarations as ancestors of the types implementing them.
func NewCapabilityStrategy(reg apis.Registry) apis.Strategy {
	return &capabilityStrategy{reg: reg}
}

// capabilityStrategy lets a patch declared on an interface reach every type
// that implements it, with or without a pointer receiver.
type capabilityStrategy struct {
	reg apis.Registry
}

// Ensure capabilityStrategy implements apis.Strategy.
var _ apis.Strategy = (*capabilityStrategy)(nil)

// Parents returns the declared interfaces t satisfies, in declaration order.
func (s *capabilityStrategy) Parents(t reflect.Type, _ apis.Config) []reflect.Type {
	if t == nil || s.reg == nil {
		return nil
	}
	var out []reflect.Type
	for _, c := range s.reg.Capabilities() {
		if c == t {
			continue
		}
		if t.Implements(c) || (t.Kind() != reflect.Interface && reflect.PointerTo(t).Implements(c)) {
			out = append(out, c)
		}
	}
	return out
}
