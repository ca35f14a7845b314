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
package reflect

import "reflect"

// Embedded returns the named types embedded in struct t, in field order.
// Pointer embeddings (struct{ *Base }) yield Base. Embedded interfaces are
// included. Non-struct types have no embeddings.
func Embedded(t reflect.Type) []reflect.Type {
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	var out []reflect.Type
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}
		ft := f.Type
		if ft.Kind() == reflect.Ptr && ft.Name() == "" {
			ft = ft.Elem()
		}
		if ft.Name() == "" {
			continue
		}
		out = append(out, ft)
	}
	return out
}
