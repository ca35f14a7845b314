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
package registry

import (
	"errors"
	"reflect"
	"slices"
	"sync"

	"dirpx.dev/patchx/apis"
	"dirpx.dev/patchx/config"
	uref "dirpx.dev/patchx/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("patchx(registry): nil reflect.Type provided")
	// ErrEmptyName is returned when a definition contains an empty name.
	ErrEmptyName = errors.New("patchx(registry): empty name provided")
	// ErrEmptyDefinition is returned when a definition has no operations.
	ErrEmptyDefinition = errors.New("patchx(registry): empty definition")
	// ErrNilFunc is returned when a definition maps a name to a nil func.
	ErrNilFunc = errors.New("patchx(registry): nil func provided")
	// ErrNilBundle is returned by Bind when the entry carries no bundle.
	ErrNilBundle = errors.New("patchx(registry): nil bundle provided")
	// ErrAlreadyPatched indicates an attempt to declare a second patch for
	// the same (type, name) pair without force.
	ErrAlreadyPatched = errors.New("patchx(registry): method already has a patch")
	// ErrCyclicAncestry is returned when a type is derived from itself.
	ErrCyclicAncestry = errors.New("patchx(registry): type cannot derive from itself")
)

// New constructs a Registry that normalizes types according to cfg.
// Only Strict and MaxUnwrap are used here.
func New(cfg apis.Config) apis.Registry {
	if cfg.MaxUnwrap <= 0 {
		cfg.MaxUnwrap = config.DefaultMaxUnwrap
	}
	return &registry{
		cfg:     cfg,
		patches: make(map[reflect.Type]map[string]*apis.Bundle),
		parents: make(map[reflect.Type][]reflect.Type),
	}
}

// registry is a mutex-guarded nested map: declaring type, then name.
type registry struct {
	// cfg is the configuration used for normalization and strictness.
	cfg apis.Config
	// mu guards every field below.
	mu sync.RWMutex
	// patches maps declaring type -> name -> bundle.
	patches map[reflect.Type]map[string]*apis.Bundle
	// order records declaring types in first-declaration order.
	order []reflect.Type
	// parents maps a type to its declared lineage.
	parents map[reflect.Type][]reflect.Type
	// lineage records derived types in first-derive order.
	lineage []reflect.Type
	// count tracks the number of bindings.
	count int
	// version increases on every mutation.
	version uint64
}

// Declare binds every name of def to the nearest named type of t.
// The declaration is all-or-nothing.
func (r *registry) Declare(t reflect.Type, def apis.Definition, force bool) (*apis.Bundle, error) {
	// Validate inputs early.
	if t == nil {
		return nil, &apis.Error{Op: "declare", Err: ErrNilType}
	}
	if len(def) == 0 {
		return nil, &apis.Error{Op: "declare", Type: t, Err: ErrEmptyDefinition}
	}
	for name, fn := range def {
		if name == "" {
			return nil, &apis.Error{Op: "declare", Type: t, Err: ErrEmptyName}
		}
		if fn == nil {
			return nil, &apis.Error{Op: "declare", Type: t, Name: name, Err: ErrNilFunc}
		}
	}

	nt, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return nil, &apis.Error{Op: "declare", Type: t, Err: err}
	}
	b := apis.NewBundle(nt, def)

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cfg.Strict && !force {
		for _, name := range b.Names() {
			if _, ok := r.patches[nt][name]; ok {
				return nil, &apis.Error{Op: "declare", Type: nt, Name: name, Err: ErrAlreadyPatched}
			}
		}
	}
	for _, name := range b.Names() {
		r.bind(nt, name, b)
	}
	r.version++
	return b, nil
}

// Bind stores e.Bundle under (e.Type, e.Name) unconditionally.
func (r *registry) Bind(e apis.Entry) error {
	if e.Type == nil {
		return &apis.Error{Op: "declare", Err: ErrNilType}
	}
	if e.Name == "" {
		return &apis.Error{Op: "declare", Type: e.Type, Err: ErrEmptyName}
	}
	if e.Bundle == nil {
		return &apis.Error{Op: "declare", Type: e.Type, Name: e.Name, Err: ErrNilBundle}
	}
	nt, err := uref.Normalize(e.Type, r.cfg)
	if err != nil {
		return &apis.Error{Op: "declare", Type: e.Type, Err: err}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.bind(nt, e.Name, e.Bundle)
	r.version++
	return nil
}

// bind stores b under (t, name). Caller holds r.mu.
func (r *registry) bind(t reflect.Type, name string, b *apis.Bundle) {
	m, ok := r.patches[t]
	if !ok {
		m = make(map[string]*apis.Bundle)
		r.patches[t] = m
		r.order = append(r.order, t)
	}
	if _, exists := m[name]; !exists {
		r.count++
	}
	m[name] = b
}

// Lookup returns the bundle bound to (t, name).
func (r *registry) Lookup(t reflect.Type, name string) (*apis.Bundle, bool) {
	if t == nil || name == "" {
		return nil, false
	}
	nt, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.patches[nt][name]
	return b, ok
}

// Derive appends parents to the declared lineage of t. Duplicates are
// ignored; deriving a type from itself fails.
func (r *registry) Derive(t reflect.Type, parents ...reflect.Type) error {
	if t == nil {
		return &apis.Error{Op: "derive", Err: ErrNilType}
	}
	nt, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return &apis.Error{Op: "derive", Type: t, Err: err}
	}
	nps := make([]reflect.Type, 0, len(parents))
	for _, p := range parents {
		if p == nil {
			return &apis.Error{Op: "derive", Type: nt, Err: ErrNilType}
		}
		np, err := uref.Normalize(p, r.cfg)
		if err != nil {
			return &apis.Error{Op: "derive", Type: p, Err: err}
		}
		if np == nt {
			return &apis.Error{Op: "derive", Type: nt, Err: ErrCyclicAncestry}
		}
		nps = append(nps, np)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.parents[nt]
	if !ok {
		r.lineage = append(r.lineage, nt)
	}
	for _, np := range nps {
		if !slices.Contains(cur, np) {
			cur = append(cur, np)
		}
	}
	r.parents[nt] = cur
	r.version++
	return nil
}

// Parents returns the declared lineage of t.
func (r *registry) Parents(t reflect.Type) []reflect.Type {
	if t == nil {
		return nil
	}
	nt, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.parents[nt])
}

// Capabilities returns declaring interface types in first-declaration order.
func (r *registry) Capabilities() []reflect.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []reflect.Type
	for _, t := range r.order {
		if t.Kind() == reflect.Interface {
			out = append(out, t)
		}
	}
	return out
}

// Entries returns bindings grouped by declaring type in first-declaration
// order, names in lexical order.
func (r *registry) Entries() []apis.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries := make([]apis.Entry, 0, r.count)
	for _, t := range r.order {
		m := r.patches[t]
		names := make([]string, 0, len(m))
		for name := range m {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			entries = append(entries, apis.Entry{Type: t, Name: name, Bundle: m[name]})
		}
	}
	return entries
}

// Lineages returns declared lineage in first-derive order.
func (r *registry) Lineages() []apis.Lineage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]apis.Lineage, 0, len(r.lineage))
	for _, t := range r.lineage {
		out = append(out, apis.Lineage{Type: t, Parents: slices.Clone(r.parents[t])})
	}
	return out
}

// Count returns the number of bindings.
func (r *registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Version returns the mutation counter.
func (r *registry) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}
