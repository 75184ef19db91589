package supervisor

import "github.com/prometheus/client_golang/prometheus"

var (
	probesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "llamad",
			Subsystem: "supervisor",
			Name:      "probes_total",
			Help:      "Health probes issued against the supervised server, by outcome",
		},
		[]string{"outcome"},
	)

	startupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "llamad",
			Subsystem: "supervisor",
			Name:      "startups_total",
			Help:      "Subprocess start attempts, by result",
		},
		[]string{"result"},
	)

	stopsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "llamad",
			Subsystem: "supervisor",
			Name:      "stops_total",
			Help:      "Subprocess terminations performed by the supervisor",
		},
	)

	startupDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "llamad",
			Subsystem: "supervisor",
			Name:      "startup_duration_seconds",
			Help:      "Time from spawn to readiness for successful startups",
			Buckets:   prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(probesTotal, startupsTotal, stopsTotal, startupDuration)
}
