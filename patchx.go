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
	"log/slog"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"dirpx.dev/patchx/apis"
	"dirpx.dev/patchx/metrics"
	uref "dirpx.dev/patchx/utils/reflect"
)

// Patcher owns declared patches, resolves them along ancestry and installs
// them on types or instances. The zero value is not usable; call New.
// A Patcher is safe for concurrent use.
type Patcher struct {
	// buildMu serializes SetConfig against declarations so a rebuild never
	// drops a concurrent declaration.
	buildMu sync.RWMutex
	// st is the current config/registry/resolver snapshot.
	st atomic.Pointer[state]
	// scopes maps an application target (reflect.Type or instance pointer)
	// to its installed bundles.
	scopes sync.Map // key: any, val: *scope

	log *slog.Logger
	met *metrics.Metrics
}

// state is an immutable snapshot; writers build a new one and swap it in.
type state struct {
	cfg apis.Config
	reg apis.Registry
	res apis.Resolver
	bld apis.Builder
}

// New constructs a Patcher. Without options it is strict, logs nowhere and
// registers no metrics.
func New(opts ...Option) *Patcher {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	reg := o.bld.BuildRegistry(o.cfg, nil)
	if reg == nil {
		panic(ErrNilRegistry)
	}
	res := o.bld.BuildResolver(o.cfg, reg, nil)
	if res == nil {
		panic(ErrNilResolver)
	}

	p := &Patcher{log: o.log, met: metrics.New(o.reg)}
	p.st.Store(&state{cfg: o.cfg, reg: reg, res: res, bld: o.bld})
	return p
}

// Config returns the current configuration.
func (p *Patcher) Config() apis.Config {
	return p.st.Load().cfg
}

// SetConfig rebuilds registry and resolver for cfg. Declarations and lineage
// are migrated by the builder; installed patches stay in place.
func (p *Patcher) SetConfig(cfg apis.Config) {
	p.buildMu.Lock()
	defer p.buildMu.Unlock()

	old := p.st.Load()
	nreg := old.bld.BuildRegistry(cfg, old.reg)
	if nreg == nil {
		panic(ErrNilRegistry)
	}
	nres := old.bld.BuildResolver(cfg, nreg, old.res)
	if nres == nil {
		panic(ErrNilResolver)
	}
	p.st.Store(&state{cfg: cfg, reg: nreg, res: nres, bld: old.bld})
	p.log.Debug("patcher reconfigured", "strict", cfg.Strict, "entries", nreg.Count())
}

// Declare registers def as one bundle on the nearest named type of t.
//
// In strict mode a name that already has a patch on t fails the whole
// declaration with ErrAlreadyPatched; Force replaces instead.
func (p *Patcher) Declare(t reflect.Type, def apis.Definition, flags ...Flag) error {
	p.buildMu.RLock()
	defer p.buildMu.RUnlock()

	b, err := p.st.Load().reg.Declare(t, def, hasFlag(flags, Force))
	if err != nil {
		p.met.Failed("declare", reason(err))
		return err
	}
	p.met.Declared(b.Type().String(), len(b.Names()))
	p.log.Debug("patch declared", "type", b.Type().String(), "names", b.Names())
	return nil
}

// DeclareFor is Declare for the type parameter T.
func DeclareFor[T any](p *Patcher, def apis.Definition, flags ...Flag) error {
	return p.Declare(reflect.TypeFor[T](), def, flags...)
}

// Derive declares parents of t, nearest-first, for ancestry resolution.
func (p *Patcher) Derive(t reflect.Type, parents ...reflect.Type) error {
	p.buildMu.RLock()
	defer p.buildMu.RUnlock()

	if err := p.st.Load().reg.Derive(t, parents...); err != nil {
		p.met.Failed("derive", reason(err))
		return err
	}
	p.log.Debug("lineage derived", "type", t.String(), "parents", len(parents))
	return nil
}

// Patch installs the patches named by names on target until the process
// exits.
//
// A reflect.Type target patches the type: every instance sees the patches
// through Call. Any other target must be a non-nil pointer and only that
// instance sees them. Every name is resolved, and checked against native
// methods in strict mode, before anything is installed.
func (p *Patcher) Patch(target any, names []string, flags ...Flag) error {
	tg, bundles, err := p.prepare("patch", target, names, flags)
	if err != nil {
		p.met.Failed("patch", reason(err))
		return err
	}
	id := uuid.New()
	p.install(tg.key, id, bundles)
	p.met.Installed(len(bundles))
	p.met.Activated(metrics.FormPermanent)
	p.log.Debug("patches installed", "activation", id, "type", tg.lookup.String(),
		"instance", tg.instance, "bundles", describe(bundles), "form", metrics.FormPermanent)
	return nil
}

// Scope installs the patches named by names on target, runs fn, and then
// uninstalls exactly those patches. The restore also happens when fn returns
// an error or panics; fn's error or panic reaches the caller unchanged.
func (p *Patcher) Scope(target any, names []string, fn func() error, flags ...Flag) error {
	if fn == nil {
		p.met.Failed("scope", "invalid")
		return &Error{Op: "scope", Err: ErrNilScope}
	}
	_, err := ScopeValue(p, target, names, func() (struct{}, error) {
		return struct{}{}, fn()
	}, flags...)
	return err
}

// ScopeValue is Scope for callbacks that produce a value.
func ScopeValue[T any](p *Patcher, target any, names []string, fn func() (T, error), flags ...Flag) (T, error) {
	var zero T
	if fn == nil {
		p.met.Failed("scope", "invalid")
		return zero, &Error{Op: "scope", Err: ErrNilScope}
	}
	tg, bundles, err := p.prepare("scope", target, names, flags)
	if err != nil {
		p.met.Failed("scope", reason(err))
		return zero, err
	}

	id := uuid.New()
	ins := p.install(tg.key, id, bundles)
	p.met.Installed(len(ins))
	p.met.Activated(metrics.FormScoped)
	p.log.Debug("patches installed", "activation", id, "type", tg.lookup.String(),
		"instance", tg.instance, "bundles", describe(bundles), "form", metrics.FormScoped)

	defer func() {
		n := p.uninstall(tg.key, ins)
		p.met.Uninstalled(n)
		p.log.Debug("patches restored", "activation", id, "type", tg.lookup.String(), "removed", n)
	}()
	return fn()
}

// Ancestry returns the lookup order for t, nearest-first.
func (p *Patcher) Ancestry(t reflect.Type) []reflect.Type {
	return p.st.Load().res.Ancestry(t)
}

// Active returns the bundles currently installed directly on target,
// newest first. Bundles installed on ancestors are not included. A target
// that could never carry patches fails with the same error Patch would
// return.
func (p *Patcher) Active(target any) ([]*apis.Bundle, error) {
	tg, err := p.classify("active", target, p.st.Load().cfg)
	if err != nil {
		return nil, err
	}
	sc, ok := p.scopeOf(tg.key)
	if !ok {
		return nil, nil
	}
	return sc.bundles(), nil
}

// Entries returns a snapshot of all declarations.
func (p *Patcher) Entries() []apis.Entry {
	return p.st.Load().reg.Entries()
}

// target is a classified activation target.
type target struct {
	// key is the application target: a normalized reflect.Type or the
	// instance pointer itself.
	key any
	// lookup is the type whose ancestry is searched.
	lookup reflect.Type
	// instance reports whether key is an instance.
	instance bool
}

// classify splits target into application key and lookup type.
func (p *Patcher) classify(op string, t any, cfg apis.Config) (target, error) {
	if t == nil {
		return target{}, &Error{Op: op, Err: ErrNilTarget}
	}
	if rt, ok := t.(reflect.Type); ok {
		nt, err := uref.Normalize(rt, cfg)
		if err != nil {
			return target{}, &Error{Op: op, Type: rt, Err: err}
		}
		return target{key: nt, lookup: nt}, nil
	}

	v := reflect.ValueOf(t)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return target{}, &Error{Op: op, Type: v.Type(), Err: ErrUnaddressable}
	}
	nt, err := instanceType(v.Type())
	if err != nil {
		return target{}, &Error{Op: op, Type: v.Type(), Err: err}
	}
	// Distinct zero-size allocations may share an address.
	if nt.Size() == 0 {
		return target{}, &Error{Op: op, Type: nt, Err: ErrZeroSizeInstance}
	}
	return target{key: t, lookup: nt, instance: true}, nil
}

// instanceType returns the named type of an instance of type rt: T for both
// T and *T. Unnamed containers such as *[]T or map[K]V are rejected.
func instanceType(rt reflect.Type) (reflect.Type, error) {
	if rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	if rt.Name() == "" {
		return nil, ErrTypeNotNamed
	}
	return rt, nil
}

// prepare resolves every name before anything is installed.
func (p *Patcher) prepare(op string, t any, names []string, flags []Flag) (target, []*apis.Bundle, error) {
	s := p.st.Load()
	tg, err := p.classify(op, t, s.cfg)
	if err != nil {
		return target{}, nil, err
	}
	if len(names) == 0 {
		return target{}, nil, &Error{Op: op, Type: tg.lookup, Err: ErrNoNames}
	}

	strict := s.cfg.Strict && !hasFlag(flags, Force)
	bundles := make([]*apis.Bundle, 0, len(names))
	for _, name := range names {
		b, _, ok := s.res.Resolve(tg.lookup, name)
		if !ok {
			return target{}, nil, &Error{Op: op, Type: tg.lookup, Name: name, Err: ErrMissingPatch}
		}
		if slices.Contains(bundles, b) {
			continue
		}
		// The whole bundle gets installed, so every name it carries is
		// checked, not only the requested ones.
		if strict {
			for _, defined := range b.Names() {
				if uref.HasMethod(tg.lookup, defined) {
					return target{}, nil, &Error{Op: op, Type: tg.lookup, Name: defined, Err: ErrAlreadyDefined}
				}
			}
		}
		bundles = append(bundles, b)
	}
	return tg, bundles, nil
}

// describe renders bundles for logs.
func describe(bundles []*apis.Bundle) []string {
	out := make([]string, len(bundles))
	for i, b := range bundles {
		out[i] = b.String()
	}
	return out
}
