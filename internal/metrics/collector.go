// Copyright (C) 2025 safecloset
//
// This file is part of SafeCloset.
//
// SafeCloset is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// SafeCloset is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with SafeCloset. If not, see <https://www.gnu.org/licenses/>.

// Package metrics exposes the Prometheus counters and histogram SafeCloset
// emits for drawer operations, matching spec §5's observation that
// Argon2 key derivation is the dominant per-trial cost.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry is SafeCloset's own collector registry, rather than the
// global default, so tests can spin up isolated instances without
// "duplicate metrics collector registration" panics.
var Registry = prometheus.NewRegistry()

var (
	DrawersCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "safecloset_drawers_created_total",
		Help: "Number of drawers created by the user; decoy drawers are not counted.",
	})

	DrawersOpenedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "safecloset_drawers_opened_total",
		Help: "Number of successful drawer opens across all depths.",
	})

	AuthFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "safecloset_auth_failures_total",
		Help: "Number of passphrase trials that failed to open any drawer.",
	})

	SavesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "safecloset_saves_total",
		Help: "Number of closet save operations, labeled by outcome.",
	}, []string{"outcome"})

	KeyDerivationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "safecloset_key_derivation_seconds",
		Help:    "Duration of drawer create and open operations, dominated by Argon2 key derivation.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
	})
)

func init() {
	Registry.MustRegister(
		DrawersCreatedTotal,
		DrawersOpenedTotal,
		AuthFailuresTotal,
		SavesTotal,
		KeyDerivationSeconds,
	)
}

// RecordKeyDerivation observes the duration of one key-deriving
// operation, which may include several Argon2 derivations.
func RecordKeyDerivation(d time.Duration) {
	KeyDerivationSeconds.Observe(d.Seconds())
}

// RecordSave increments the save counter for outcome "ok" or "error".
func RecordSave(err error) {
	if err != nil {
		SavesTotal.WithLabelValues("error").Inc()
		return
	}
	SavesTotal.WithLabelValues("ok").Inc()
}
