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
package registry_test

import (
	"errors"
	"reflect"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"dirpx.dev/patchx/apis"
	"dirpx.dev/patchx/config"
	"dirpx.dev/patchx/registry"
)

// A few named types to avoid anonymous/unnamed pitfalls.
type T0 struct{}
type T1 struct{}
type T2 struct{}
type T3 struct{}
type T4 struct{}
type T5 struct{}
type T6 struct{}
type T7 struct{}
type T8 struct{}
type T9 struct{}

var allTypes = []reflect.Type{
	reflect.TypeOf(T0{}), reflect.TypeOf(T1{}), reflect.TypeOf(T2{}),
	reflect.TypeOf(T3{}), reflect.TypeOf(T4{}), reflect.TypeOf(T5{}),
	reflect.TypeOf(T6{}), reflect.TypeOf(T7{}), reflect.TypeOf(T8{}),
	reflect.TypeOf(T9{}),
}

// TestConcurrentDeclareAndLookup verifies that Declare/Lookup/Entries/Count
// are race-free and that strict uniqueness holds under contention: exactly one
// declaration per (type, name) wins.
func TestConcurrentDeclareAndLookup(t *testing.T) {
	reg := registry.New(config.DefaultConfig())

	var wins atomic.Int64
	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 4

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i, tt := range allTypes {
				def := apis.Definition{"op" + strconv.Itoa(i): fn(id)}
				_, err := reg.Declare(tt, def, false)
				switch {
				case err == nil:
					wins.Add(1)
				case !errors.Is(err, registry.ErrAlreadyPatched):
					t.Errorf("declare %v: %v", tt, err)
					return
				}
				_, _ = reg.Lookup(tt, "op"+strconv.Itoa(i))
				_ = reg.Count()
				_ = reg.Entries()
			}
		}(w)
	}
	wg.Wait()

	if got := wins.Load(); got != int64(len(allTypes)) {
		t.Fatalf("winning declarations = %d, want %d", got, len(allTypes))
	}
	if reg.Count() != len(allTypes) {
		t.Fatalf("count mismatch: got %d want %d", reg.Count(), len(allTypes))
	}
	for i, tt := range allTypes {
		if _, ok := reg.Lookup(tt, "op"+strconv.Itoa(i)); !ok {
			t.Fatalf("missing binding for %v", tt)
		}
	}
}

// TestEntriesSnapshot ensures Entries returns a stable copy.
func TestEntriesSnapshot(t *testing.T) {
	reg := registry.New(config.DefaultConfig())

	_, _ = reg.Declare(reflect.TypeOf(T0{}), apis.Definition{"a": fn(0)}, false)
	_, _ = reg.Declare(reflect.TypeOf(T1{}), apis.Definition{"a": fn(1)}, false)

	snap := reg.Entries()
	_, _ = reg.Declare(reflect.TypeOf(T2{}), apis.Definition{"a": fn(2)}, false)

	if reg.Count() != 3 {
		t.Fatalf("count: got %d want 3", reg.Count())
	}
	if len(snap) != 2 {
		t.Fatalf("snapshot length changed unexpectedly: %d", len(snap))
	}
}

// This ensures the interface is satisfied; not a test but a compile-time check.
var _ apis.Registry = registry.New(config.DefaultConfig())
