// Copyright 2025 Wachportal Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CompositionRuns counts completed menu composition passes.
	CompositionRuns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wachportal",
		Subsystem: "menu",
		Name:      "composition_runs_total",
		Help:      "Number of completed menu composition passes.",
	})

	// CompositionDropped counts composition triggers dropped by the
	// single-slot guard while a pass was in flight.
	CompositionDropped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wachportal",
		Subsystem: "menu",
		Name:      "composition_dropped_total",
		Help:      "Number of composition triggers dropped while a pass was running.",
	})

	// HandshakeRetriesExhausted counts auth handshakes that gave up after
	// the bounded retry budget.
	HandshakeRetriesExhausted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wachportal",
		Subsystem: "channel",
		Name:      "handshake_retries_exhausted_total",
		Help:      "Number of auth handshakes abandoned after the retry budget.",
	})
)
