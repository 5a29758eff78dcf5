package issuer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	paymentsAuthorized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "issuer_payments_authorized_total",
		Help: "Payments authorized by the pipeline",
	})

	paymentsDeclined = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "issuer_payments_declined_total",
		Help: "Payments declined by the pipeline",
	}, []string{"reason"})

	messagesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "issuer_messages_dropped_total",
		Help: "Inbound envelopes dropped before the pipeline ran",
	})

	pipelineFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "issuer_pipeline_failures_total",
		Help: "Pipeline runs aborted by infrastructure failures",
	})
)
