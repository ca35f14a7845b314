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
package reflect

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrMethodNotFound is returned by CallMethod when v has no such method.
	ErrMethodNotFound = errors.New("reflect: method not found")
	// ErrArgCount is returned when the argument count does not fit the method.
	ErrArgCount = errors.New("reflect: wrong number of arguments")
	// ErrArgType is returned when an argument cannot be assigned or converted.
	ErrArgType = errors.New("reflect: argument type mismatch")
)

var errorType = reflect.TypeFor[error]()

// HasMethod reports whether t natively defines the exported method name,
// either in its value or in its pointer method set.
func HasMethod(t reflect.Type, name string) bool {
	if t == nil || name == "" {
		return false
	}
	if _, ok := t.MethodByName(name); ok {
		return true
	}
	if t.Kind() == reflect.Interface || t.Kind() == reflect.Ptr {
		return false
	}
	_, ok := reflect.PointerTo(t).MethodByName(name)
	return ok
}

// CallMethod invokes the method name on v with args.
//
// Arguments are assigned, or converted when assignment is impossible; a nil
// argument becomes the zero value of the parameter type. Results collapse as
// follows: a trailing error is returned as the error; zero remaining values
// yield nil, one yields that value, several yield []any.
func CallMethod(v any, name string, args []any) (any, error) {
	if v == nil {
		return nil, ErrMethodNotFound
	}
	m := reflect.ValueOf(v).MethodByName(name)
	if !m.IsValid() {
		return nil, fmt.Errorf("%w: %T.%s", ErrMethodNotFound, v, name)
	}
	in, err := callArgs(m.Type(), args)
	if err != nil {
		return nil, fmt.Errorf("%T.%s: %w", v, name, err)
	}
	return collapse(m.Type(), m.Call(in))
}

// callArgs converts args into reflect values fitting the signature mt.
func callArgs(mt reflect.Type, args []any) ([]reflect.Value, error) {
	n := mt.NumIn()
	if mt.IsVariadic() {
		if len(args) < n-1 {
			return nil, fmt.Errorf("%w: got %d, want at least %d", ErrArgCount, len(args), n-1)
		}
	} else if len(args) != n {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrArgCount, len(args), n)
	}

	in := make([]reflect.Value, len(args))
	for i, a := range args {
		var pt reflect.Type
		if mt.IsVariadic() && i >= n-1 {
			pt = mt.In(n - 1).Elem()
		} else {
			pt = mt.In(i)
		}
		if a == nil {
			in[i] = reflect.Zero(pt)
			continue
		}
		av := reflect.ValueOf(a)
		switch {
		case av.Type().AssignableTo(pt):
			in[i] = av
		case av.Type().ConvertibleTo(pt):
			in[i] = av.Convert(pt)
		default:
			return nil, fmt.Errorf("%w: argument %d is %s, want %s", ErrArgType, i, av.Type(), pt)
		}
	}
	return in, nil
}

// collapse folds method results into a single value and an error.
func collapse(mt reflect.Type, out []reflect.Value) (any, error) {
	var err error
	if k := mt.NumOut(); k > 0 && mt.Out(k-1) == errorType {
		if e := out[k-1]; !e.IsNil() {
			err = e.Interface().(error)
		}
		out = out[:k-1]
	}
	switch len(out) {
	case 0:
		return nil, err
	case 1:
		return out[0].Interface(), err
	}
	vals := make([]any, len(out))
	for i, o := range out {
		vals[i] = o.Interface()
	}
	return vals, err
}
