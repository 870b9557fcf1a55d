// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ledger"

// PayrollOperations counts payroll mutations by operation and outcome (ok, rejected, error).
var PayrollOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "payroll",
	Name:      "operations_total",
	Help:      "Total payroll operations by outcome.",
}, []string{"operation", "outcome"})

// ReverseReconciliations counts transaction deletions by source kind and reversal outcome.
var ReverseReconciliations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "reconcile",
	Name:      "reversals_total",
	Help:      "Total reverse reconciliations triggered by transaction deletion.",
}, []string{"kind", "outcome"})

// LegacyTagFallbacks counts deletions resolved by guessing the employee's most recent time log.
var LegacyTagFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "reconcile",
	Name:      "legacy_fallbacks_total",
	Help:      "Total legacy description tags resolved through the most-recent-month fallback.",
}, []string{"kind"})

// BulkPostings counts bulk payroll transactions by action (created, updated).
var BulkPostings = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "payroll",
	Name:      "bulk_postings_total",
	Help:      "Total bulk payroll transactions written.",
}, []string{"action"})

// StreamSubscribers tracks open ledger stream connections.
var StreamSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "stream",
	Name:      "subscribers",
	Help:      "Current number of ledger stream subscribers.",
})
