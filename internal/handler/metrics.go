package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vyrodovalexey/library-inventory/internal/model"
)

// Inventory gauges exposed on /metrics.
var (
	itemsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "library_items_total",
			Help: "Number of items in the inventory",
		},
	)

	itemsAvailable = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "library_items_available",
			Help: "Number of items currently available for borrowing",
		},
	)

	itemsBorrowed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "library_items_borrowed",
			Help: "Number of items currently borrowed",
		},
	)
)

// updateItemGauges refreshes the inventory gauges from a stats snapshot.
func updateItemGauges(stats model.Stats) {
	itemsTotal.Set(float64(stats.Total))
	itemsAvailable.Set(float64(stats.Available))
	itemsBorrowed.Set(float64(stats.Borrowed))
}
