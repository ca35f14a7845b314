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
	"sync"

	"dirpx.dev/patchx/apis"
	uref "dirpx.dev/patchx/utils/reflect"
)

// NewEmbedStrategy creates an apis.Strategy that treats embedded struct
// fields as ancestors, in field order.
func NewEmbedStrategy() apis.Strategy {
	return embedStrategy{}
}

// embedStrategy is the reflection fallback: Go composition is ancestry.
// struct{ Base } and struct{ *Base } both make Base a parent.
type embedStrategy struct{}

// Ensure embedStrategy implements apis.Strategy.
var _ apis.Strategy = (*embedStrategy)(nil)

// embeddedCache caches embedded parents by type. Struct layouts never change,
// so entries never go stale.
var embeddedCache sync.Map // key: reflect.Type, val: []reflect.Type

// Parents returns the embedded named types of t.
func (embedStrategy) Parents(t reflect.Type, _ apis.Config) []reflect.Type {
	if t == nil {
		return nil
	}
	if v, ok := embeddedCache.Load(t); ok {
		return v.([]reflect.Type)
	}
	parents := uref.Embedded(t)
	embeddedCache.Store(t, parents)
	return parents
}
