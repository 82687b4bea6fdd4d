package evaluation

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus metrics of evaluations. A nil *Metrics
// records nothing.
type Metrics struct {
	runsTotal  *prometheus.CounterVec
	running    prometheus.Gauge
	steps      prometheus.Counter
	wallTime   *prometheus.HistogramVec
	simTime    prometheus.Histogram
	lastResult prometheus.Gauge
}

// NewMetrics creates the evaluation metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "neurosim",
			Subsystem: "evaluation",
			Name:      "runs_total",
			Help:      "Total number of finished evaluations",
		}, []string{"status"}),

		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "neurosim",
			Subsystem: "evaluation",
			Name:      "running",
			Help:      "Number of evaluations in progress",
		}),

		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "neurosim",
			Subsystem: "evaluation",
			Name:      "control_steps_total",
			Help:      "Total number of control steps simulated",
		}),

		wallTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "neurosim",
			Subsystem: "evaluation",
			Name:      "wall_time_seconds",
			Help:      "Wall clock duration of evaluations",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"status"}),

		simTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "neurosim",
			Subsystem: "evaluation",
			Name:      "simulated_seconds",
			Help:      "Simulated time of evaluations",
			Buckets:   prometheus.LinearBuckets(0, 1, 11),
		}),

		lastResult: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "neurosim",
			Subsystem: "evaluation",
			Name:      "last_fitness",
			Help:      "Fitness of the most recent successful evaluation",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.runsTotal, m.running, m.steps, m.wallTime, m.simTime, m.lastResult,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) runStarted() {
	if m == nil {
		return
	}

	m.running.Inc()
}

func (m *Metrics) stepDone() {
	if m == nil {
		return
	}

	m.steps.Inc()
}

func (m *Metrics) runFinished(res Result) {
	if m == nil {
		return
	}

	status := res.Status.String()

	m.running.Dec()
	m.runsTotal.WithLabelValues(status).Inc()
	m.wallTime.WithLabelValues(status).Observe(res.WallTime.Seconds())
	m.simTime.Observe(float64(res.SimTime))

	if !res.Failed() {
		m.lastResult.Set(res.Fitness)
	}
}
