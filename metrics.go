package main

import "github.com/prometheus/client_golang/prometheus"

// Service counters, registered with the default registry at startup and
// served on /metrics.
type serviceMetrics struct {
	Fetches      *prometheus.CounterVec // labels: backend
	DecodeErrors prometheus.Counter
	Renders      *prometheus.CounterVec // labels: product
	MaskedGates  prometheus.Counter
}

var metrics = newServiceMetrics()

func newServiceMetrics() *serviceMetrics {
	m := &serviceMetrics{
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "radqc",
			Name:      "volume_fetches_total",
			Help:      "Volume scan fetches by storage backend.",
		}, []string{"backend"}),
		DecodeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "radqc",
			Name:      "decode_errors_total",
			Help:      "Archive decode failures.",
		}),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "radqc",
			Name:      "renders_total",
			Help:      "Sweep renders by product.",
		}, []string{"product"}),
		MaskedGates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "radqc",
			Name:      "masked_gates_total",
			Help:      "Gates flagged as not weather by the QC mask.",
		}),
	}
	prometheus.MustRegister(m.Fetches, m.DecodeErrors, m.Renders, m.MaskedGates)
	return m
}
