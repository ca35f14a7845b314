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
package builder_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/patchx/apis"
	"dirpx.dev/patchx/builder"
	"dirpx.dev/patchx/config"
)

type base struct{}
type derived struct{ base }
type sibling struct{}

func fn(v any) apis.Func {
	return func(*apis.Call) (any, error) { return v, nil }
}

// TestBuildRegistry_Basic asserts that BuildRegistry returns a non-nil,
// working Registry even without a previous one.
func TestBuildRegistry_Basic(t *testing.T) {
	b := builder.New()

	reg := b.BuildRegistry(config.DefaultConfig(), nil)
	require.NotNil(t, reg)

	bundle, err := reg.Declare(reflect.TypeOf(base{}), apis.Definition{"x": fn(1)}, false)
	require.NoError(t, err)

	got, ok := reg.Lookup(reflect.TypeOf(base{}), "x")
	require.True(t, ok)
	assert.Same(t, bundle, got)
	assert.Equal(t, 1, reg.Count())
}

// TestBuildRegistry_Migrates verifies declarations and lineage survive a rebuild.
func TestBuildRegistry_Migrates(t *testing.T) {
	b := builder.New()
	old := b.BuildRegistry(config.DefaultConfig(), nil)

	bundle, err := old.Declare(reflect.TypeOf(base{}), apis.Definition{"x": fn(1), "y": fn(2)}, false)
	require.NoError(t, err)
	require.NoError(t, old.Derive(reflect.TypeOf(sibling{}), reflect.TypeOf(base{})))

	nreg := b.BuildRegistry(config.NewConfig(config.WithStrict(false)), old)
	assert.Equal(t, old.Entries(), nreg.Entries())
	assert.Equal(t, old.Lineages(), nreg.Lineages())

	got, ok := nreg.Lookup(reflect.TypeOf(base{}), "y")
	require.True(t, ok)
	assert.Same(t, bundle, got, "bundles are carried over, not rebuilt")
}

// TestBuildResolver_StrategyOrder checks the builder wires every ancestry
// strategy: embedded parents and derived lineage both resolve.
func TestBuildResolver_StrategyOrder(t *testing.T) {
	b := builder.New()
	cfg := config.DefaultConfig()
	reg := b.BuildRegistry(cfg, nil)
	require.NoError(t, reg.Derive(reflect.TypeOf(sibling{}), reflect.TypeOf(derived{})))

	res := b.BuildResolver(cfg, reg, nil)
	require.NotNil(t, res)

	got := res.Ancestry(reflect.TypeOf(&sibling{}))
	want := []reflect.Type{reflect.TypeOf(sibling{}), reflect.TypeOf(derived{}), reflect.TypeOf(base{})}
	assert.Equal(t, want, got)

	_, err := reg.Declare(reflect.TypeOf(base{}), apis.Definition{"x": fn("base")}, false)
	require.NoError(t, err)
	bundle, from, ok := res.Resolve(reflect.TypeOf(sibling{}), "x")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(base{}), from)
	assert.Equal(t, []string{"x"}, bundle.Names())
}
