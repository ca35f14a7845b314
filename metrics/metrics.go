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
// Package metrics exposes Prometheus collectors for declaration, activation
// and dispatch activity of a patchx.Patcher.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Activation forms.
const (
	FormPermanent = "permanent"
	FormScoped    = "scoped"
)

// Dispatch sources.
const (
	SourceInstance = "instance"
	SourceType     = "type"
	SourceNative   = "native"
)

// Metrics groups the collectors. The zero value is not usable; call New.
type Metrics struct {
	declarations *prometheus.CounterVec
	activations  *prometheus.CounterVec
	failures     *prometheus.CounterVec
	installed    prometheus.Gauge
	dispatch     *prometheus.CounterVec
}

// New creates the collectors and registers them on reg. A nil reg leaves them
// unregistered but still usable. Collectors already registered by another
// Metrics on the same reg are shared.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		declarations: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "patchx",
			Name:      "declarations_total",
			Help:      "Operation names bound by successful declarations.",
		}, []string{"type"})),
		activations: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "patchx",
			Name:      "activations_total",
			Help:      "Successful activations by form.",
		}, []string{"form"})),
		failures: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "patchx",
			Name:      "failures_total",
			Help:      "Rejected declarations and activations by operation and reason.",
		}, []string{"op", "reason"})),
		installed: register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "patchx",
			Name:      "installed_bundles",
			Help:      "Bundles currently installed across all targets.",
		})),
		dispatch: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "patchx",
			Name:      "dispatch_total",
			Help:      "Dispatched calls by the source of the first implementation.",
		}, []string{"source"})),
	}
}

// register registers c on reg, reusing an identical collector if present.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if reg == nil {
		return c
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}

// Declared records n names bound on typ.
func (m *Metrics) Declared(typ string, n int) {
	m.declarations.WithLabelValues(typ).Add(float64(n))
}

// Activated records a successful activation.
func (m *Metrics) Activated(form string) {
	m.activations.WithLabelValues(form).Inc()
}

// Failed records a rejected operation.
func (m *Metrics) Failed(op, reason string) {
	m.failures.WithLabelValues(op, reason).Inc()
}

// Installed records n bundles installed.
func (m *Metrics) Installed(n int) {
	m.installed.Add(float64(n))
}

// Uninstalled records n bundles removed.
func (m *Metrics) Uninstalled(n int) {
	m.installed.Sub(float64(n))
}

// Dispatched records a dispatched call.
func (m *Metrics) Dispatched(source string) {
	m.dispatch.WithLabelValues(source).Inc()
}
