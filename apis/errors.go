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

import (
	"fmt"
	"reflect"
)

// Error attaches the failing operation and (type, name) pair to a sentinel.
// Use errors.Is against the sentinel and errors.As to read the pair.
type Error struct {
	// Op is the operation that failed: "declare", "derive", "patch", "scope" or "call".
	Op string
	// Type is the declaring or lookup type, if known.
	Type reflect.Type
	// Name is the operation name, if any.
	Name string
	// Err is the underlying sentinel.
	Err error
}

func (e *Error) Error() string {
	switch {
	case e.Type == nil && e.Name == "":
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Type == nil:
		return fmt.Sprintf("%s #%s: %v", e.Op, e.Name, e.Err)
	case e.Name == "":
		return fmt.Sprintf("%s %s: %v", e.Op, e.Type, e.Err)
	}
	return fmt.Sprintf("%s %s#%s: %v", e.Op, e.Type, e.Name, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
