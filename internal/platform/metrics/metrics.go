package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// applicationTransitions cuenta transiciones de solicitudes.
	// Labels: status (pending, approved, rejected), cause (submit, decision, cascade)
	applicationTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pet_adoption",
		Subsystem: "applications",
		Name:      "transitions_total",
		Help:      "Adoption application state transitions",
	}, []string{"status", "cause"})

	// workflowRejections cuenta operaciones rechazadas por el workflow.
	// Labels: op (submit, update_status), reason (not_found, conflict, invalid_state, forbidden, validation)
	workflowRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pet_adoption",
		Subsystem: "applications",
		Name:      "rejected_operations_total",
		Help:      "Workflow operations refused before any write",
	}, []string{"op", "reason"})

	// notifications cuenta envíos por tipo y resultado.
	// Labels: kind, result (sent, retried, failed, dropped)
	notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pet_adoption",
		Subsystem: "notify",
		Name:      "messages_total",
		Help:      "Outbound notification outcomes",
	}, []string{"kind", "result"})

	notifyQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "pet_adoption",
		Subsystem: "notify",
		Name:      "queue_depth",
		Help:      "Messages waiting in the notification outbox",
	})

	notifySendLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pet_adoption",
		Subsystem: "notify",
		Name:      "send_duration_seconds",
		Help:      "Latency of a single gateway send attempt",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"kind"})
)

func RecordTransition(status, cause string, n int) {
	if n <= 0 {
		return
	}
	applicationTransitions.WithLabelValues(status, cause).Add(float64(n))
}

func RecordWorkflowRejection(op, reason string) {
	workflowRejections.WithLabelValues(op, reason).Inc()
}

func RecordNotification(kind, result string) {
	notifications.WithLabelValues(kind, result).Inc()
}

func ObserveSend(kind string, seconds float64) {
	notifySendLatency.WithLabelValues(kind).Observe(seconds)
}

func SetQueueDepth(n int) {
	notifyQueueDepth.Set(float64(n))
}

// Handler expone el registry por defecto en /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
