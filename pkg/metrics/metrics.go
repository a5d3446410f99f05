// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-recovery.
//
// go-recovery is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package metrics provides Prometheus instrumentation for recovery
// operations: setups performed, shares submitted, and the terminal
// outcome of each recovery attempt.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the Prometheus namespace for all recovery metrics.
	Namespace = "recovery"

	// LabelStatus labels attempt outcomes.
	LabelStatus = "status"

	// Status values for completed attempts.
	StatusVerified = "verified"
	StatusFailed   = "failed"
)

var (
	// SetupsTotal counts recovery configurations created.
	SetupsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "setups_total",
			Help:      "Total number of recovery setups performed",
		},
	)

	// AttemptsTotal counts recovery attempts by terminal status.
	AttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "attempts_total",
			Help:      "Total number of recovery attempts by terminal status",
		},
		[]string{LabelStatus},
	)

	// SharesSubmittedTotal counts guardian share submissions accepted
	// during recovery attempts.
	SharesSubmittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "shares_submitted_total",
			Help:      "Total number of guardian share submissions accepted",
		},
	)
)

// enabled gates metric recording; disabled by default so library users
// who do not run Prometheus pay nothing.
var enabled atomic.Bool

// Enable turns on metric recording.
func Enable() {
	enabled.Store(true)
}

// Disable turns off metric recording.
func Disable() {
	enabled.Store(false)
}

// IsEnabled reports whether metric recording is active.
func IsEnabled() bool {
	return enabled.Load()
}

// RecordSetup increments the setup counter.
func RecordSetup() {
	if IsEnabled() {
		SetupsTotal.Inc()
	}
}

// RecordShareSubmitted increments the share submission counter.
func RecordShareSubmitted() {
	if IsEnabled() {
		SharesSubmittedTotal.Inc()
	}
}

// RecordAttempt records the terminal status of a recovery attempt.
// Status should be StatusVerified or StatusFailed.
func RecordAttempt(status string) {
	if IsEnabled() {
		AttemptsTotal.WithLabelValues(status).Inc()
	}
}
