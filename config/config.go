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
package config

import (
	"time"

	"dirpx.dev/patchx/apis"
)

const (
	// DefaultStrict represents the default for Strict.
	// Duplicate declarations and shadowing activations fail unless forced.
	DefaultStrict = true
	// DefaultMaxUnwrap represents the default for MaxUnwrap.
	// A value of 8 should be sufficient for all practical purposes.
	DefaultMaxUnwrap = 8
	// DefaultMaxDepth represents the default for MaxDepth.
	DefaultMaxDepth = 16
	// DefaultCacheTTL represents the default for CacheTTL.
	DefaultCacheTTL = 10 * time.Minute
	// DefaultCacheCleanup represents the default for CacheCleanup.
	DefaultCacheCleanup = 30 * time.Minute
)

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure limits are valid.
	if cfg.MaxUnwrap < 0 {
		cfg.MaxUnwrap = DefaultMaxUnwrap
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.CacheTTL < 0 {
		cfg.CacheTTL = 0
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		Strict:       DefaultStrict,
		MaxUnwrap:    DefaultMaxUnwrap,
		MaxDepth:     DefaultMaxDepth,
		CacheTTL:     DefaultCacheTTL,
		CacheCleanup: DefaultCacheCleanup,
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithStrict sets the Strict option.
func WithStrict(strict bool) Option {
	return func(c *apis.Config) {
		c.Strict = strict
	}
}

// WithMaxUnwrap sets the MaxUnwrap option.
// A negative value resets to the default.
func WithMaxUnwrap(max int) Option {
	return func(c *apis.Config) {
		if max < 0 {
			c.MaxUnwrap = DefaultMaxUnwrap
			return
		}
		c.MaxUnwrap = max
	}
}

// WithMaxDepth sets the MaxDepth option.
// A non-positive value resets to the default.
func WithMaxDepth(depth int) Option {
	return func(c *apis.Config) {
		if depth <= 0 {
			c.MaxDepth = DefaultMaxDepth
			return
		}
		c.MaxDepth = depth
	}
}

// WithCacheTTL sets the CacheTTL option. Zero disables ancestry memoization.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *apis.Config) {
		c.CacheTTL = ttl
	}
}

// WithCacheCleanup sets the CacheCleanup option.
func WithCacheCleanup(every time.Duration) Option {
	return func(c *apis.Config) {
		c.CacheCleanup = every
	}
}
