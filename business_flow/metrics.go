package businessflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Adjustment component writes partitioned by the resolved role
	adjustmentWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_adjustment_writes_total",
			Help: "Total number of adjustment component writes processed",
		},
		[]string{"role"},
	)

	// Category-wide re-basing operations
	rebaseOperationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricing_rebase_operations_total",
			Help: "Total number of category-wide base price re-basing operations",
		},
	)

	// City price rows touched by re-basing operations
	rebaseRowsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricing_rebase_rows_total",
			Help: "Total number of city price rows touched by re-basing operations",
		},
	)

	// Effective price reads (single and batched)
	effectivePriceReadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricing_effective_price_reads_total",
			Help: "Total number of effective price reads served",
		},
	)

	// City price cache lookups partitioned by result (hit/miss)
	cityPriceCacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_city_price_cache_requests_total",
			Help: "Total number of city price cache lookups",
		},
		[]string{"result"},
	)
)
