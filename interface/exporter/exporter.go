package exporter

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	METRIC_ERROR_COUNT     = "error_count"
	METRIC_TICK_COUNT      = "tick_count"
	METRIC_EXPANSION_COUNT = "expansion_count"

	METRIC_EPOCH              = "epoch"
	METRIC_PRICE              = "price"
	METRIC_CIRCULATING_SUPPLY = "circulating_supply"
	METRIC_SEIGNIORAGE_SAVED  = "seigniorage_saved"
	METRIC_TOTAL_STAKED       = "total_staked"
)

var (
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
)

func Init() {

	// --- Static metrics: not depended on running configuration

	counters = make(map[string]prometheus.Counter)
	gauges = make(map[string]prometheus.Gauge)

	counterDescriptions := map[string]string{
		METRIC_ERROR_COUNT:     "Counts failed operations",
		METRIC_TICK_COUNT:      "Counts completed policy ticks",
		METRIC_EXPANSION_COUNT: "Counts ticks that minted seigniorage",
	}
	for name, help := range counterDescriptions {
		counter := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "based",
			Subsystem: "treasury",
			Name:      name,
			Help:      help,
		})
		prometheus.MustRegister(counter)
		counters[name] = counter
	}

	gaugeDescriptions := map[string]string{
		METRIC_EPOCH:              "Current treasury epoch",
		METRIC_PRICE:              "Latest consulted stable price",
		METRIC_CIRCULATING_SUPPLY: "Circulating stable supply",
		METRIC_SEIGNIORAGE_SAVED:  "Stable reserve earmarked for bond redemption",
		METRIC_TOTAL_STAKED:       "Share tokens staked in the forge",
	}
	for name, help := range gaugeDescriptions {
		gauge := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "based",
			Subsystem: "treasury",
			Name:      name,
			Help:      help,
		})
		prometheus.MustRegister(gauge)
		gauges[name] = gauge
	}
}

func GetCounter(name string) prometheus.Counter {
	return counters[name]
}

func IncErrorCount() {
	counters[METRIC_ERROR_COUNT].Inc()
}

func IncTickCount() {
	counters[METRIC_TICK_COUNT].Inc()
}

func IncExpansionCount() {
	counters[METRIC_EXPANSION_COUNT].Inc()
}

func SetGauge(name string, value float64) {
	gauges[name].Set(value)
}
