// Package metrics defines all custom Prometheus metrics for the landing-cost
// API. It is the single source of truth for metric names, labels, and help
// strings. Registration happens at import time via promauto against the
// default registry, which the /metrics endpoint exposes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "landingcost"

// AllocationsTotal counts completed allocation runs.
// Labels:
//   - method: the effective allocation method (e.g. "CHARGEABLE_WEIGHT")
//   - outcome: "ok" or "blocked" (missing FX rate)
var AllocationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "allocations_total",
		Help:      "Total number of allocation runs, by effective method and outcome.",
	},
	[]string{"method", "outcome"},
)

// AllocationDuration measures a full allocation pass, request decode to
// response encode.
// Label:
//   - method: the effective allocation method
var AllocationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "allocation_duration_seconds",
		Help:      "Duration of a full allocation computation.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"method"},
)

// AllocationWarningsTotal counts warnings attached to allocation output.
// Label:
//   - code: the warning code (e.g. "MISSING_DIMENSIONS")
var AllocationWarningsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "allocation_warnings_total",
		Help:      "Total number of warnings emitted across allocation runs, by code.",
	},
	[]string{"code"},
)

// CostWritesTotal counts cost-line mutations.
// Labels:
//   - op: "create", "update", or "delete"
//   - category: the cost category (e.g. "FREIGHT")
var CostWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cost_writes_total",
		Help:      "Total number of cost-line writes, by operation and category.",
	},
	[]string{"op", "category"},
)

// CartonWritesTotal counts carton mutations.
// Label:
//   - op: "create", "update", "delete", or "bulk_dimensions"
var CartonWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "carton_writes_total",
		Help:      "Total number of carton writes, by operation.",
	},
	[]string{"op"},
)

// ExportsTotal counts CSV exports of allocation results.
var ExportsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exports_total",
		Help:      "Total number of allocation CSV exports served.",
	},
)
