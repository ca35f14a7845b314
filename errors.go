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
	"errors"

	"dirpx.dev/patchx/apis"
	"dirpx.dev/patchx/registry"
	uref "dirpx.dev/patchx/utils/reflect"
)

// Error carries the failing operation and the (type, name) pair.
type Error = apis.Error

var (
	// ErrAlreadyPatched is returned by Declare when (type, name) already has
	// a patch and neither Force nor non-strict mode allows replacing it.
	ErrAlreadyPatched = registry.ErrAlreadyPatched
	// ErrMissingPatch is returned by Patch and Scope when no patch for a name
	// is declared anywhere in the lookup type's ancestry.
	ErrMissingPatch = errors.New("patchx: no patch declared")
	// ErrAlreadyDefined is returned by Patch and Scope in strict mode when the
	// lookup type natively defines the method and Force is not set.
	ErrAlreadyDefined = errors.New("patchx: method natively defined")
	// ErrNoSuchOperation is returned by Call when neither a patch nor a
	// native method implements the name.
	ErrNoSuchOperation = errors.New("patchx: no such operation")

	// ErrNilTarget is returned when the target is nil.
	ErrNilTarget = errors.New("patchx: nil target")
	// ErrUnaddressable is returned when an instance target is not a non-nil pointer.
	ErrUnaddressable = errors.New("patchx: instance target must be a non-nil pointer")
	// ErrZeroSizeInstance is returned when an instance target points to a
	// zero-size value, whose address need not be unique.
	ErrZeroSizeInstance = errors.New("patchx: instance target has zero size")
	// ErrNotInstance is returned by Call when given a reflect.Type.
	ErrNotInstance = errors.New("patchx: call target must be an instance")
	// ErrNoNames is returned when an activation names no patches.
	ErrNoNames = errors.New("patchx: no patch names given")
	// ErrNilScope is returned when the scoped form is given a nil callback.
	ErrNilScope = errors.New("patchx: nil scope callback")

	// ErrNilType is re-exported from the registry.
	ErrNilType = registry.ErrNilType
	// ErrEmptyName is re-exported from the registry.
	ErrEmptyName = registry.ErrEmptyName
	// ErrEmptyDefinition is re-exported from the registry.
	ErrEmptyDefinition = registry.ErrEmptyDefinition
	// ErrNilFunc is re-exported from the registry.
	ErrNilFunc = registry.ErrNilFunc
	// ErrCyclicAncestry is re-exported from the registry.
	ErrCyclicAncestry = registry.ErrCyclicAncestry
	// ErrTypeNotNamed is returned when a target has no nearest named type.
	ErrTypeNotNamed = uref.ErrReflectTypeNotNamed

	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("patchx: builder returned nil registry")
	// ErrNilResolver is returned when a builder returns a nil resolver.
	ErrNilResolver = errors.New("patchx: builder returned nil resolver")
)

// reason maps an error to a short metrics label.
func reason(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyPatched):
		return "duplicate"
	case errors.Is(err, ErrMissingPatch):
		return "missing"
	case errors.Is(err, ErrAlreadyDefined):
		return "defined"
	case errors.Is(err, ErrNoSuchOperation):
		return "undefined"
	default:
		return "invalid"
	}
}
