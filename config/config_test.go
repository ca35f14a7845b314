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
package config_test

import (
	"testing"
	"time"

	"dirpx.dev/patchx/config"
)

func TestDefaultConfigValues(t *testing.T) {
	got := config.DefaultConfig()

	if got.Strict != config.DefaultStrict {
		t.Fatalf("Strict = %v, want %v", got.Strict, config.DefaultStrict)
	}
	if got.MaxUnwrap != config.DefaultMaxUnwrap {
		t.Fatalf("MaxUnwrap = %d, want %d", got.MaxUnwrap, config.DefaultMaxUnwrap)
	}
	if got.MaxDepth != config.DefaultMaxDepth {
		t.Fatalf("MaxDepth = %d, want %d", got.MaxDepth, config.DefaultMaxDepth)
	}
	if got.CacheTTL != config.DefaultCacheTTL {
		t.Fatalf("CacheTTL = %v, want %v", got.CacheTTL, config.DefaultCacheTTL)
	}
	if got.CacheCleanup != config.DefaultCacheCleanup {
		t.Fatalf("CacheCleanup = %v, want %v", got.CacheCleanup, config.DefaultCacheCleanup)
	}
}

func TestNewConfig_NoOptions_EqualsDefault(t *testing.T) {
	def := config.DefaultConfig()
	got := config.NewConfig()
	if got != def {
		t.Fatalf("NewConfig() = %+v, want default %+v", got, def)
	}
}

func TestWithStrict(t *testing.T) {
	c := config.NewConfig(config.WithStrict(false))
	if c.Strict {
		t.Fatalf("Strict = %v, want false", c.Strict)
	}

	c2 := config.NewConfig(config.WithStrict(true))
	if !c2.Strict {
		t.Fatalf("Strict = %v, want true", c2.Strict)
	}
}

func TestWithMaxUnwrap_Positive(t *testing.T) {
	c := config.NewConfig(config.WithMaxUnwrap(3))
	if c.MaxUnwrap != 3 {
		t.Fatalf("MaxUnwrap = %d, want 3", c.MaxUnwrap)
	}
}

func TestWithMaxUnwrap_Negative_ResetsToDefault(t *testing.T) {
	c := config.NewConfig(config.WithMaxUnwrap(-1))
	if c.MaxUnwrap != config.DefaultMaxUnwrap {
		t.Fatalf("MaxUnwrap = %d, want default %d", c.MaxUnwrap, config.DefaultMaxUnwrap)
	}
}

func TestWithMaxDepth(t *testing.T) {
	if c := config.NewConfig(config.WithMaxDepth(2)); c.MaxDepth != 2 {
		t.Fatalf("MaxDepth = %d, want 2", c.MaxDepth)
	}
	if c := config.NewConfig(config.WithMaxDepth(0)); c.MaxDepth != config.DefaultMaxDepth {
		t.Fatalf("MaxDepth = %d, want default %d", c.MaxDepth, config.DefaultMaxDepth)
	}
}

func TestWithCacheTTL(t *testing.T) {
	if c := config.NewConfig(config.WithCacheTTL(0)); c.CacheTTL != 0 {
		t.Fatalf("CacheTTL = %v, want 0 (disabled)", c.CacheTTL)
	}
	if c := config.NewConfig(config.WithCacheTTL(-time.Second)); c.CacheTTL != 0 {
		t.Fatalf("CacheTTL = %v, want negative clamped to 0", c.CacheTTL)
	}
	if c := config.NewConfig(config.WithCacheCleanup(time.Minute)); c.CacheCleanup != time.Minute {
		t.Fatalf("CacheCleanup = %v, want 1m", c.CacheCleanup)
	}
}

func TestOptionsOrder_LastWins(t *testing.T) {
	c := config.NewConfig(
		config.WithStrict(false),
		config.WithStrict(true),
		config.WithMaxUnwrap(2),
		config.WithMaxUnwrap(5),
		config.WithMaxDepth(1),
		config.WithMaxDepth(4),
	)

	if !c.Strict {
		t.Errorf("Strict = %v, want true (last option wins)", c.Strict)
	}
	if c.MaxUnwrap != 5 {
		t.Errorf("MaxUnwrap = %d, want 5 (last option wins)", c.MaxUnwrap)
	}
	if c.MaxDepth != 4 {
		t.Errorf("MaxDepth = %d, want 4 (last option wins)", c.MaxDepth)
	}
}

func TestNewConfig_Guardrails_MaxUnwrapZeroAllowed(t *testing.T) {
	// Only negative values are reset here; Normalize treats zero as the default.
	c := config.NewConfig(config.WithMaxUnwrap(0))
	if c.MaxUnwrap != 0 {
		t.Fatalf("MaxUnwrap = %d, want 0", c.MaxUnwrap)
	}
}
