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

// Registry stores declared bundles keyed by (declaring type, name), plus
// explicitly declared lineage. There is no way to remove a declaration.
type Registry interface {
	// Declare builds a bundle from def and binds every name in it to the
	// nearest named type of t. In strict mode an existing binding for any of
	// the names fails the whole declaration unless force is set.
	Declare(t reflect.Type, def Definition, force bool) (*Bundle, error)
	// Bind stores an existing bundle under (e.Type, e.Name), replacing any
	// prior binding. Builders use it to migrate declarations.
	Bind(e Entry) error
	// Lookup returns the bundle bound to (t, name), without walking ancestry.
	Lookup(t reflect.Type, name string) (*Bundle, bool)

	// Derive appends parents to the declared lineage of t.
	Derive(t reflect.Type, parents ...reflect.Type) error
	// Parents returns the declared lineage of t, nearest-first.
	Parents(t reflect.Type) []reflect.Type

	// Capabilities returns the interface types that carry declarations,
	// in first-declaration order.
	Capabilities() []reflect.Type

	// Entries returns a snapshot of all bindings in declaration order.
	Entries() []Entry
	// Lineages returns a snapshot of all declared lineage.
	Lineages() []Lineage
	// Count returns the number of bindings.
	Count() int
	// Version increases on every successful Declare, Bind or Derive.
	Version() uint64
}

// Entry is a single (type, name) binding in a Registry snapshot.
type Entry struct {
	// Type is the declaring type.
	Type reflect.Type
	// Name is the operation name.
	Name string
	// Bundle is the bound bundle.
	Bundle *Bundle
}

// Lineage is the declared parent list of a type.
type Lineage struct {
	Type    reflect.Type
	Parents []reflect.Type
}
