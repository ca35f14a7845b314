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
package patchx

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"dirpx.dev/patchx/apis"
)

// installation is one bundle installed on one application target by one
// activation. Uninstall removes installations by identity, so overlapping
// activations of the same bundle restore independently.
type installation struct {
	id     uuid.UUID
	bundle *apis.Bundle
}

// scope holds the bundles installed on one application target, oldest first.
type scope struct {
	mu      sync.RWMutex
	entries []*installation
	// dead marks a scope dropped from the Patcher; pushes must retry on a
	// fresh scope.
	dead bool
}

// push appends bundles as new installations tagged with id. It reports false
// if the scope was retired concurrently.
func (s *scope) push(id uuid.UUID, bundles []*apis.Bundle) ([]*installation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dead {
		return nil, false
	}
	ins := make([]*installation, len(bundles))
	for i, b := range bundles {
		ins[i] = &installation{id: id, bundle: b}
	}
	s.entries = append(s.entries, ins...)
	return ins, true
}

// remove drops exactly the given installations and reports how many were
// removed and whether the scope is now empty and retired.
func (s *scope) remove(ins []*installation) (removed int, retired bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = slices.DeleteFunc(s.entries, func(e *installation) bool {
		if slices.Contains(ins, e) {
			removed++
			return true
		}
		return false
	})
	if len(s.entries) == 0 {
		s.dead = true
		retired = true
	}
	return removed, retired
}

// funcs returns implementations of name, newest installation first.
func (s *scope) funcs(name string) []apis.Func {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []apis.Func
	for i := len(s.entries) - 1; i >= 0; i-- {
		if fn, ok := s.entries[i].bundle.Func(name); ok {
			out = append(out, fn)
		}
	}
	return out
}

// bundles returns installed bundles, newest first.
func (s *scope) bundles() []*apis.Bundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*apis.Bundle, 0, len(s.entries))
	for i := len(s.entries) - 1; i >= 0; i-- {
		out = append(out, s.entries[i].bundle)
	}
	return out
}

// install pushes bundles onto the scope of key, creating it if needed.
func (p *Patcher) install(key any, id uuid.UUID, bundles []*apis.Bundle) []*installation {
	for {
		v, _ := p.scopes.LoadOrStore(key, &scope{})
		sc := v.(*scope)
		if ins, ok := sc.push(id, bundles); ok {
			return ins
		}
		// Retired between load and push; drop it and retry on a fresh one.
		p.scopes.CompareAndDelete(key, sc)
	}
}

// uninstall removes ins from the scope of key and retires an emptied scope,
// so instance targets are not retained once their last patch is gone.
func (p *Patcher) uninstall(key any, ins []*installation) int {
	v, ok := p.scopes.Load(key)
	if !ok {
		return 0
	}
	sc := v.(*scope)
	removed, retired := sc.remove(ins)
	if retired {
		p.scopes.CompareAndDelete(key, sc)
	}
	return removed
}

// scopeOf returns the scope of key, if any.
func (p *Patcher) scopeOf(key any) (*scope, bool) {
	v, ok := p.scopes.Load(key)
	if !ok {
		return nil, false
	}
	return v.(*scope), true
}
