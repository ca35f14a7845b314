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

	"github.com/prometheus/client_golang/prometheus"

	"dirpx.dev/patchx/apis"
	"dirpx.dev/patchx/builder"
	"dirpx.dev/patchx/config"
	"dirpx.dev/patchx/internal/logging"
)

// Option configures a Patcher at construction.
type Option func(*options)

type options struct {
	cfg apis.Config
	bld apis.Builder
	log *slog.Logger
	reg prometheus.Registerer
}

func defaultOptions() options {
	return options{
		cfg: config.DefaultConfig(),
		bld: builder.New(),
		log: logging.NewNop(),
	}
}

// WithConfig sets the configuration.
func WithConfig(cfg apis.Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithBuilder replaces the builder of registry and resolver. Nil is ignored.
func WithBuilder(b apis.Builder) Option {
	return func(o *options) {
		if b != nil {
			o.bld = b
		}
	}
}

// WithLogger sets the logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithRegisterer registers the Patcher's collectors on r.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(o *options) {
		o.reg = r
	}
}

// Flag modifies a single Declare or activation call.
type Flag uint8

const (
	// Force lets Declare replace an existing patch and lets activation
	// shadow a natively defined method.
	Force Flag = 1 << iota
)

func hasFlag(flags []Flag, f Flag) bool {
	for _, x := range flags {
		if x&f != 0 {
			return true
		}
	}
	return false
}
