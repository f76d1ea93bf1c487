package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reportsGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "healthify",
			Name:      "reports_generated_total",
			Help:      "Reports persisted, by period.",
		},
		[]string{"period"},
	)

	reportsRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "healthify",
			Name:      "reports_insufficient_data_total",
			Help:      "Report generations rejected because the window held no records.",
		},
	)

	adviceRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "healthify",
			Name:      "advice_requests_total",
			Help:      "Advice request transitions.",
		},
		[]string{"event"},
	)
)
