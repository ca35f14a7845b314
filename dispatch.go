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
	"reflect"

	"dirpx.dev/patchx/apis"
	"dirpx.dev/patchx/metrics"
	uref "dirpx.dev/patchx/utils/reflect"
)

// link is one implementation in a dispatch chain.
type link struct {
	fn     apis.Func
	source string
}

// Call invokes the operation name on target through installed patches.
//
// The chain is: patches installed on the instance (newest first), then for
// each type in the ancestry of target's type the patches installed on that
// type (newest first), then target's native exported method of that name.
// The ancestry walk stops at the nearest type that defines the method
// natively, promoted methods included, so a type patch on an ancestor never
// overrides a method its descendant defines.
// A patch may delegate down the chain with apis.Call.Super.
func (p *Patcher) Call(target any, name string, args ...any) (any, error) {
	links, lookup, err := p.chain(target, name)
	if err != nil {
		p.met.Failed("call", reason(err))
		return nil, err
	}
	p.met.Dispatched(links[0].source)
	return invoke(target, lookup, name, links, args)
}

// Responds reports whether Call(target, name) would find an implementation.
func (p *Patcher) Responds(target any, name string) bool {
	_, _, err := p.chain(target, name)
	return err == nil
}

// chain collects the implementations of name visible from target.
func (p *Patcher) chain(target any, name string) ([]link, reflect.Type, error) {
	if target == nil {
		return nil, nil, &Error{Op: "call", Name: name, Err: ErrNilTarget}
	}
	if _, ok := target.(reflect.Type); ok {
		return nil, nil, &Error{Op: "call", Name: name, Err: ErrNotInstance}
	}
	if name == "" {
		return nil, nil, &Error{Op: "call", Err: ErrEmptyName}
	}

	s := p.st.Load()
	v := reflect.ValueOf(target)
	lookup, err := instanceType(v.Type())
	if err != nil {
		return nil, nil, &Error{Op: "call", Type: v.Type(), Name: name, Err: err}
	}

	var links []link
	// Only pointers carry a singleton scope, and only pointers are safe keys.
	if v.Kind() == reflect.Ptr && !v.IsNil() {
		if sc, ok := p.scopeOf(target); ok {
			for _, fn := range sc.funcs(name) {
				links = append(links, link{fn: fn, source: metrics.SourceInstance})
			}
		}
	}
	hasNative := v.MethodByName(name).IsValid()
	for _, a := range s.res.Ancestry(lookup) {
		if sc, ok := p.scopeOf(a); ok {
			for _, fn := range sc.funcs(name) {
				links = append(links, link{fn: fn, source: metrics.SourceType})
			}
		}
		// The nearest type that defines the method natively ends the walk:
		// patches on more distant ancestors never shadow it.
		if hasNative && uref.HasMethod(a, name) {
			break
		}
	}
	if hasNative {
		links = append(links, link{fn: native(name), source: metrics.SourceNative})
	}

	if len(links) == 0 {
		return nil, lookup, &Error{Op: "call", Type: lookup, Name: name, Err: ErrNoSuchOperation}
	}
	return links, lookup, nil
}

// invoke runs the head of links; Super continues with the tail.
func invoke(self any, t reflect.Type, name string, links []link, args []any) (any, error) {
	if len(links) == 0 {
		return nil, &Error{Op: "call", Type: t, Name: name, Err: ErrNoSuchOperation}
	}
	next := func(a []any) (any, error) {
		return invoke(self, t, name, links[1:], a)
	}
	return links[0].fn(apis.NewCall(self, t, name, args, next))
}

// native adapts the receiver's own method to a chain link.
func native(name string) apis.Func {
	return func(c *apis.Call) (any, error) {
		return uref.CallMethod(c.Self, name, c.Args)
	}
}
