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
package strategy_test

import (
	"reflect"
	"runtime"
	"sync"
	"testing"

	"dirpx.dev/patchx/apis"
	"dirpx.dev/patchx/config"
	"dirpx.dev/patchx/registry"
	"dirpx.dev/patchx/strategy"
)

// Local test types.
type Animal struct{}
type Walker struct{}
type Dog struct {
	Animal
	*Walker
	Name string
}

// Puppy describes its own ancestry.
type Puppy struct{}

func (*Puppy) PatchAncestors() []reflect.Type {
	return []reflect.Type{reflect.TypeOf(Dog{})}
}

type Barker interface{ Bark() string }
type Loud interface{ Barker }

func (Dog) Bark() string { return "woof" }

// Ensure the local type actually satisfies apis.Descendant (compile-time).
var _ apis.Descendant = (*Puppy)(nil)

func TestDescendantStrategy_Parents(t *testing.T) {
	s := strategy.NewDescendantStrategy()
	conf := config.DefaultConfig()

	got := s.Parents(reflect.TypeOf(Puppy{}), conf)
	if len(got) != 1 || got[0] != reflect.TypeOf(Dog{}) {
		t.Fatalf("Parents(Puppy) = %v, want [Dog]", got)
	}
	if got := s.Parents(reflect.TypeOf(Dog{}), conf); got != nil {
		t.Fatalf("Parents(Dog) = %v, want nil", got)
	}
	if got := s.Parents(reflect.TypeFor[Barker](), conf); got != nil {
		t.Fatalf("Parents(Barker) = %v, want nil for interfaces", got)
	}
	if got := s.Parents(nil, conf); got != nil {
		t.Fatalf("Parents(nil) = %v, want nil", got)
	}
}

func TestRegistryStrategy_Parents(t *testing.T) {
	conf := config.DefaultConfig()
	reg := registry.New(conf)
	if err := reg.Derive(reflect.TypeOf(Puppy{}), reflect.TypeOf(Animal{})); err != nil {
		t.Fatalf("Derive: %v", err)
	}

	s := strategy.NewRegistryStrategy(reg)
	got := s.Parents(reflect.TypeOf(&Puppy{}), conf)
	if len(got) != 1 || got[0] != reflect.TypeOf(Animal{}) {
		t.Fatalf("Parents(*Puppy) = %v, want [Animal]", got)
	}
	if got := s.Parents(reflect.TypeOf(Dog{}), conf); len(got) != 0 {
		t.Fatalf("Parents(Dog) = %v, want none", got)
	}
	if got := strategy.NewRegistryStrategy(nil).Parents(reflect.TypeOf(Dog{}), conf); got != nil {
		t.Fatalf("nil registry: got %v, want nil", got)
	}
}

func TestEmbedStrategy_Parents(t *testing.T) {
	s := strategy.NewEmbedStrategy()
	conf := config.DefaultConfig()

	want := []reflect.Type{reflect.TypeOf(Animal{}), reflect.TypeOf(Walker{})}
	// Twice: the second call is served from the cache.
	for range 2 {
		got := s.Parents(reflect.TypeOf(Dog{}), conf)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("Parents(Dog) = %v, want %v", got, want)
		}
	}
	if got := s.Parents(reflect.TypeOf(0), conf); len(got) != 0 {
		t.Fatalf("Parents(int) = %v, want none", got)
	}
}

func TestCapabilityStrategy_Parents(t *testing.T) {
	conf := config.DefaultConfig()
	reg := registry.New(conf)
	fn := func(*apis.Call) (any, error) { return nil, nil }

	s := strategy.NewCapabilityStrategy(reg)
	if got := s.Parents(reflect.TypeOf(Dog{}), conf); len(got) != 0 {
		t.Fatalf("no capabilities declared: got %v", got)
	}

	_, _ = reg.Declare(reflect.TypeFor[Loud](), apis.Definition{"shout": fn}, false)
	_, _ = reg.Declare(reflect.TypeFor[Barker](), apis.Definition{"growl": fn}, false)
	_, _ = reg.Declare(reflect.TypeFor[error](), apis.Definition{"wrap": fn}, false)

	got := s.Parents(reflect.TypeOf(Dog{}), conf)
	want := []reflect.Type{reflect.TypeFor[Loud](), reflect.TypeFor[Barker]()}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Parents(Dog) = %v, want %v", got, want)
	}

	// Interfaces compose through embedding, never through themselves.
	got = s.Parents(reflect.TypeFor[Loud](), conf)
	if !reflect.DeepEqual(got, []reflect.Type{reflect.TypeFor[Barker]()}) {
		t.Fatalf("Parents(Loud) = %v, want [Barker]", got)
	}
}

func TestEmbedStrategy_Concurrent(t *testing.T) {
	s := strategy.NewEmbedStrategy()
	conf := config.DefaultConfig()
	types := []reflect.Type{reflect.TypeOf(Dog{}), reflect.TypeOf(Puppy{}), reflect.TypeOf(Animal{})}

	workers := runtime.GOMAXPROCS(0) * 4
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				tt := types[i%len(types)]
				got := s.Parents(tt, conf)
				if tt == types[0] && len(got) != 2 {
					t.Errorf("Parents(Dog) = %v", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}
