package world

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus-метрики подсистемы мира. Регистрируются в глобальном
// регистре один раз при загрузке пакета.
var (
	zonesGenerated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "world",
		Name:      "zones_generated_total",
		Help:      "Общее число сгенерированных зон.",
	})

	generateDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "world",
		Name:      "generate_duration_seconds",
		Help:      "Длительность генерации мира.",
		Buckets:   prometheus.DefBuckets,
	})

	zonesLoaded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "world",
		Name:      "zones_loaded_total",
		Help:      "Общее число загрузок зон.",
	})

	zonesUnloaded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "world",
		Name:      "zones_unloaded_total",
		Help:      "Общее число выгрузок зон.",
	})

	loadedZonesGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "world",
		Name:      "zones_loaded",
		Help:      "Количество материализованных зон в данный момент.",
	})
)

func init() {
	prometheus.MustRegister(zonesGenerated, generateDuration, zonesLoaded, zonesUnloaded, loadedZonesGauge)
}
