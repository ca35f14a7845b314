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
package resolver

import (
	"reflect"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"

	gocache "github.com/patrickmn/go-cache"

	"dirpx.dev/patchx/apis"
	"dirpx.dev/patchx/config"
	uref "dirpx.dev/patchx/utils/reflect"
)

// New constructs an apis.Resolver over reg that asks the given strategies, in
// order, for the parents of each type. Nil strategies are ignored. The
// returned resolver is safe for concurrent use provided strategies are.
func New(cfg apis.Config, reg apis.Registry, strategies ...apis.Strategy) apis.Resolver {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = config.DefaultMaxDepth
	}
	// Filter out nils to avoid nil-interface panics on call sites.
	out := make([]apis.Strategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			out = append(out, s)
		}
	}
	c := &chain{cfg: cfg, reg: reg, strats: out}
	if cfg.CacheTTL > 0 {
		c.memo = gocache.New(cfg.CacheTTL, cfg.CacheCleanup)
	}
	return c
}

// chain is an order-preserving resolver over a set of strategies.
type chain struct {
	cfg    apis.Config
	reg    apis.Registry
	strats []apis.Strategy
	// memo maps "version/typeID" to a computed ancestry. Nil when disabled.
	memo *gocache.Cache
	// ids interns types so cache keys never collide between same-named
	// types declared in different scopes.
	ids    sync.Map // key: reflect.Type, val: uint64
	nextID atomic.Uint64
}

// Ancestry walks strategies breadth-first from t: t first, then its direct
// parents in strategy order, then theirs, each type at most once.
func (r *chain) Ancestry(t reflect.Type) []reflect.Type {
	nt, err := uref.Normalize(t, r.cfg)
	if err != nil {
		return nil
	}

	var key string
	if r.memo != nil {
		key = r.key(nt)
		if v, ok := r.memo.Get(key); ok {
			return slices.Clone(v.([]reflect.Type))
		}
	}

	out := []reflect.Type{nt}
	seen := map[reflect.Type]struct{}{nt: {}}
	frontier := []reflect.Type{nt}
	for depth := 0; len(frontier) > 0 && depth < r.cfg.MaxDepth; depth++ {
		var next []reflect.Type
		for _, f := range frontier {
			for _, s := range r.strats {
				for _, p := range s.Parents(f, r.cfg) {
					np, err := uref.Normalize(p, r.cfg)
					if err != nil {
						continue
					}
					if _, dup := seen[np]; dup {
						continue
					}
					seen[np] = struct{}{}
					out = append(out, np)
					next = append(next, np)
				}
			}
		}
		frontier = next
	}

	if r.memo != nil {
		r.memo.Set(key, out, gocache.DefaultExpiration)
		return slices.Clone(out)
	}
	return out
}

// Resolve returns the first bundle declaring name along t's ancestry.
func (r *chain) Resolve(t reflect.Type, name string) (*apis.Bundle, reflect.Type, bool) {
	if r.reg == nil || name == "" {
		return nil, nil, false
	}
	for _, a := range r.Ancestry(t) {
		if b, ok := r.reg.Lookup(a, name); ok {
			return b, a, true
		}
	}
	return nil, nil, false
}

// key builds the memo key for t under the current registry version, so any
// declaration or derivation invalidates every memoized ancestry.
func (r *chain) key(t reflect.Type) string {
	var ver uint64
	if r.reg != nil {
		ver = r.reg.Version()
	}
	return strconv.FormatUint(ver, 10) + "/" + strconv.FormatUint(r.typeID(t), 10)
}

// typeID returns a process-unique id for t.
func (r *chain) typeID(t reflect.Type) uint64 {
	if v, ok := r.ids.Load(t); ok {
		return v.(uint64)
	}
	v, _ := r.ids.LoadOrStore(t, r.nextID.Add(1))
	return v.(uint64)
}
