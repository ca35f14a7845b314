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
package builder

import (
	"dirpx.dev/patchx/apis"
	"dirpx.dev/patchx/registry"
	"dirpx.dev/patchx/resolver"
	"dirpx.dev/patchx/strategy"
)

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildRegistry builds a new apis.Registry for cfg. If a previous registry is
// provided, its bindings and lineage are replayed into the new one; entries
// the new configuration cannot normalize are dropped.
func (b *builder) BuildRegistry(cfg apis.Config, prev apis.Registry) apis.Registry {
	nreg := registry.New(cfg)
	if prev != nil {
		for _, e := range prev.Entries() {
			_ = nreg.Bind(e)
		}
		for _, l := range prev.Lineages() {
			_ = nreg.Derive(l.Type, l.Parents...)
		}
	}
	return nreg
}

// BuildResolver builds a new apis.Resolver over reg. Ancestry is asked of the
// strategies in this order: self-described, derived, embedded, capabilities.
// The previous resolver is discarded along with its memo.
func (b *builder) BuildResolver(cfg apis.Config, reg apis.Registry, _ apis.Resolver) apis.Resolver {
	return resolver.New(cfg, reg,
		strategy.NewDescendantStrategy(),
		strategy.NewRegistryStrategy(reg),
		strategy.NewEmbedStrategy(),
		strategy.NewCapabilityStrategy(reg),
	)
}
