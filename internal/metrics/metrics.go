package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	propagationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "plan13_propagations_total",
			Help: "Total number of successful orbit propagations.",
		},
	)

	propagationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plan13_propagation_errors_total",
			Help: "Total number of failed orbit propagations by reason.",
		},
		[]string{"reason"},
	)

	keplerIterations = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "plan13_kepler_iterations",
			Help:    "Newton-Raphson iterations needed to solve Kepler's equation.",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 7, 8, 12, 16, 25},
		},
	)

	passesFoundTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "plan13_passes_found_total",
			Help: "Total number of passes found by the pass predictor.",
		},
	)

	trackedSatellites = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "plan13_tracked_satellites",
			Help: "Number of satellites with a usable orbit model.",
		},
	)

	trackerUpdatesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "plan13_tracker_updates_total",
			Help: "Total number of tracker update cycles.",
		},
	)

	elementsAgeSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "plan13_elements_age_seconds",
			Help: "Age of the loaded element dataset in seconds.",
		},
	)
)

func init() {
	prometheus.MustRegister(propagationsTotal)
	prometheus.MustRegister(propagationErrorsTotal)
	prometheus.MustRegister(keplerIterations)
	prometheus.MustRegister(passesFoundTotal)
	prometheus.MustRegister(trackedSatellites)
	prometheus.MustRegister(trackerUpdatesTotal)
	prometheus.MustRegister(elementsAgeSeconds)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordPropagation records one successful propagation and the Kepler
// iteration count it took.
func RecordPropagation(iterations int) {
	propagationsTotal.Inc()
	keplerIterations.Observe(float64(iterations))
}

// RecordPropagationError records one failed propagation.
func RecordPropagationError(reason string) {
	propagationErrorsTotal.WithLabelValues(reason).Inc()
}

// RecordPassesFound records passes returned by one prediction run.
func RecordPassesFound(n int) {
	passesFoundTotal.Add(float64(n))
}

// SetTrackedSatellites sets the number of satellites with orbit models.
func SetTrackedSatellites(n int) {
	trackedSatellites.Set(float64(n))
}

// RecordTrackerUpdate records one tracker update cycle.
func RecordTrackerUpdate() {
	trackerUpdatesTotal.Inc()
}

// SetElementsAge publishes the age of the current element dataset.
func SetElementsAge(seconds float64) {
	elementsAgeSeconds.Set(seconds)
}
