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
	"errors"
	"reflect"
	"slices"
	"strings"
)

// ErrNoSuper is returned by Call.Super when nothing follows the current
// implementation in the dispatch chain.
var ErrNoSuper = errors.New("patchx(apis): no implementation to delegate to")

// Func is a single operation implementation carried by a bundle.
type Func func(c *Call) (any, error)

// Definition maps operation names to implementations. It is the input of a
// declaration; the registry copies it into an immutable Bundle.
type Definition map[string]Func

// Bundle is the immutable unit of declaration and installation. Activating
// any one of its names installs all of them.
type Bundle struct {
	typ   reflect.Type
	funcs map[string]Func
	names []string
}

// NewBundle copies def into a bundle declared on t.
func NewBundle(t reflect.Type, def Definition) *Bundle {
	b := &Bundle{
		typ:   t,
		funcs: make(map[string]Func, len(def)),
		names: make([]string, 0, len(def)),
	}
	for name, fn := range def {
		b.funcs[name] = fn
		b.names = append(b.names, name)
	}
	slices.Sort(b.names)
	return b
}

// Type returns the declaring type.
func (b *Bundle) Type() reflect.Type { return b.typ }

// Names returns the operation names in lexical order.
func (b *Bundle) Names() []string { return slices.Clone(b.names) }

// Func returns the implementation of name.
func (b *Bundle) Func(name string) (Func, bool) {
	fn, ok := b.funcs[name]
	return fn, ok
}

// Defines reports whether the bundle implements name.
func (b *Bundle) Defines(name string) bool {
	_, ok := b.funcs[name]
	return ok
}

// String renders the bundle as "pkg.Type{a,b}".
func (b *Bundle) String() string {
	return b.typ.String() + "{" + strings.Join(b.names, ",") + "}"
}

// Call is the invocation context handed to a Func.
type Call struct {
	// Self is the receiver the operation was invoked on.
	Self any
	// Type is the lookup type of Self.
	Type reflect.Type
	// Name is the invoked operation.
	Name string
	// Args are the call arguments.
	Args []any

	next func(args []any) (any, error)
}

// NewCall builds a Call. next invokes the following implementation in the
// dispatch chain and may be nil.
func NewCall(self any, t reflect.Type, name string, args []any, next func([]any) (any, error)) *Call {
	return &Call{Self: self, Type: t, Name: name, Args: args, next: next}
}

// Arg returns the i-th argument, or nil if out of range.
func (c *Call) Arg(i int) any {
	if i < 0 || i >= len(c.Args) {
		return nil
	}
	return c.Args[i]
}

// Super delegates to the next implementation with the same arguments.
func (c *Call) Super() (any, error) {
	return c.SuperWith(c.Args...)
}

// SuperWith delegates to the next implementation with args.
func (c *Call) SuperWith(args ...any) (any, error) {
	if c.next == nil {
		return nil, ErrNoSuper
	}
	return c.next(args)
}
