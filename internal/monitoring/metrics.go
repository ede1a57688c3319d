package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Pipeline metrics
	evaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "structurebot_evaluations_total",
			Help: "Total number of full pipeline evaluation cycles",
		},
		[]string{"symbol"},
	)

	degradedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "structurebot_degraded_results_total",
			Help: "Total number of degraded engine results",
		},
		[]string{"component", "reason"},
	)

	// Market metrics
	currentPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "structurebot_current_price",
			Help: "Last observed price of the trading symbol",
		},
		[]string{"symbol"},
	)

	currentRegime = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "structurebot_current_regime",
			Help: "Current market regime as its enum value",
		},
		[]string{"symbol"},
	)

	regimeConfidence = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "structurebot_regime_confidence",
			Help: "Confidence of the current regime classification",
		},
		[]string{"symbol"},
	)

	// Decision metrics
	entryScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "structurebot_entry_score",
			Help: "Last entry score per direction",
		},
		[]string{"symbol", "direction"},
	)

	triggersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "structurebot_triggers_total",
			Help: "Total number of matched entry triggers",
		},
		[]string{"symbol", "type"},
	)

	exitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "structurebot_exits_total",
			Help: "Total number of exit signals",
		},
		[]string{"symbol", "exit_type"},
	)

	finalLeverage = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "structurebot_final_leverage",
			Help: "Leverage selected by the rules engine",
		},
		[]string{"symbol"},
	)
)

func init() {
	prometheus.MustRegister(evaluationsTotal)
	prometheus.MustRegister(degradedTotal)
	prometheus.MustRegister(currentPrice)
	prometheus.MustRegister(currentRegime)
	prometheus.MustRegister(regimeConfidence)
	prometheus.MustRegister(entryScore)
	prometheus.MustRegister(triggersTotal)
	prometheus.MustRegister(exitsTotal)
	prometheus.MustRegister(finalLeverage)
}

// MetricsHandler exposes the Prometheus endpoint. The core never opens a
// listener itself; the embedding app mounts this where it wants.
type MetricsHandler struct{}

func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordEvaluation counts one full pipeline cycle.
func RecordEvaluation(symbol string) {
	evaluationsTotal.WithLabelValues(symbol).Inc()
}

// RecordDegraded counts a degraded engine result by component and reason.
func RecordDegraded(component, reason string) {
	degradedTotal.WithLabelValues(component, reason).Inc()
}

// UpdatePrice updates the last observed price.
func UpdatePrice(symbol string, price float64) {
	currentPrice.WithLabelValues(symbol).Set(price)
}

// UpdateRegime records the regime enum value and its confidence.
func UpdateRegime(symbol string, regimeValue int, confidence float64) {
	currentRegime.WithLabelValues(symbol).Set(float64(regimeValue))
	regimeConfidence.WithLabelValues(symbol).Set(confidence)
}

// UpdateEntryScore records the last entry score for a direction.
func UpdateEntryScore(symbol, direction string, score float64) {
	entryScore.WithLabelValues(symbol, direction).Set(score)
}

// RecordTrigger counts a matched entry trigger.
func RecordTrigger(symbol, triggerType string) {
	triggersTotal.WithLabelValues(symbol, triggerType).Inc()
}

// RecordExit counts an exit signal.
func RecordExit(symbol, exitType string) {
	exitsTotal.WithLabelValues(symbol, exitType).Inc()
}

// UpdateLeverage records the leverage chosen by the rules engine.
func UpdateLeverage(symbol string, leverage float64) {
	finalLeverage.WithLabelValues(symbol).Set(leverage)
}
