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
// Package patchx provides a registry of named overrides ("patches") that can
// be activated on a type or on a single instance, either permanently or for
// the duration of a callback.
//
// Go method sets are fixed at compile time, so patchx does not rewrite
// methods. Patched behavior is observed through an explicit dispatch point,
// Patcher.Call, which consults installed patches before falling through to
// the receiver's native exported method.
//
// # Design
//
// A Patcher holds a read-mostly snapshot (state) of three things:
//
//   - Config: strictness, normalization depth, ancestry depth and memo
//     lifetime (see package config).
//
//   - Registry: a mapping from (declaring type, operation name) to Bundle,
//     plus explicitly declared lineage. A Bundle is the unit of declaration
//     and installation: activating one of its names installs all of them.
//     Declarations are never removed.
//
//   - Resolver: answers "which bundle implements this name for this type?"
//     by walking the type's ancestry nearest-first. Ancestry is assembled by
//     strategies, in priority order:
//     1. The type implements apis.Descendant and names its own parents.
//     2. Parents declared with Patcher.Derive.
//     3. Embedded struct fields, in field order.
//     4. Interfaces carrying declarations that the type implements.
//     The first bundle found wins, so patches on a derived type shadow
//     patches of the same name on its ancestors.
//
// Installed patches live outside the snapshot, in one scope per application
// target. A reflect.Type target installs on the type and is visible to every
// instance; a pointer target installs on that instance alone. Instance targets
// must point to a named type of non-zero size, since zero-size values may
// share an address. A type patch on an ancestor only reaches descendants that
// do not define the method themselves.
//
// # Usage
//
//	p := patchx.New()
//
//	_ = patchx.DeclareFor[Number](p, apis.Definition{
//		"double": func(c *apis.Call) (any, error) {
//			return 2 * c.Self.(*Number).V, nil
//		},
//	})
//
//	n := &Number{V: 21}
//	v, err := patchx.ScopeValue(p, n, []string{"double"}, func() (any, error) {
//		return p.Call(n, "double") // 42
//	})
//
//	_, err = p.Call(n, "double") // ErrNoSuchOperation: restored
//
// # Strictness
//
// In strict mode (the default) Declare rejects a second patch for the same
// (type, name) with ErrAlreadyPatched, and activation rejects a name the
// lookup type natively defines with ErrAlreadyDefined. The check covers every
// name of each bundle being installed, not only the requested ones. Passing
// Force lifts the check for that call. With strict mode off both checks are
// skipped.
//
// Activation is all-or-nothing: every name is resolved and checked before any
// bundle is installed, so a failed activation leaves the target untouched.
//
// # Concurrency model
//
// Declarations are serialized by the registry lock. Each application target
// has its own lock held only while installing or uninstalling, never while a
// scoped callback runs, so callbacks may activate further patches on the
// same target. Uninstall removes exactly the installations it made, which
// keeps overlapping scopes on one target from clobbering each other.
//
// Instances patched permanently are retained by the Patcher; instances
// patched in scope are released when their last scope exits.
package patchx
