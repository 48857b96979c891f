// Package metrics exposes Prometheus instrumentation for the triage pipeline.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"taskdesk/pkg/llm"
)

// Recorder holds the pipeline's Prometheus collectors.
type Recorder struct {
	messagesTotal      *prometheus.CounterVec
	llmRequestsTotal   *prometheus.CounterVec
	llmRequestDuration *prometheus.HistogramVec
	ticketsTotal       *prometheus.CounterVec
	pendingGauge       prometheus.Gauge
}

// NewRecorder registers collectors on the default registry.
func NewRecorder() *Recorder {
	return NewRecorderWith(prometheus.DefaultRegisterer)
}

// NewRecorderWith registers collectors on the given registry. Tests pass a
// fresh registry to avoid duplicate-registration panics.
func NewRecorderWith(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		messagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "triage_messages_total",
				Help: "Total messages by terminal outcome",
			},
			[]string{"outcome"},
		),
		llmRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "triage_llm_requests_total",
				Help: "Total LLM requests by model and status",
			},
			[]string{"model", "status", "error_type"},
		),
		llmRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "triage_llm_request_duration_seconds",
				Help:    "Duration of LLM requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"model"},
		),
		ticketsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "triage_tickets_total",
				Help: "Total ticket filing attempts by status",
			},
			[]string{"status"},
		),
		pendingGauge: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "triage_pending_confirmations",
				Help: "Number of confirmations currently awaiting a user decision",
			},
		),
	}
}

// ObserveMessage counts one terminal message outcome.
func (r *Recorder) ObserveMessage(outcome string) {
	r.messagesTotal.WithLabelValues(outcome).Inc()
}

// ObserveTicket counts one ticket filing attempt.
func (r *Recorder) ObserveTicket(success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	r.ticketsTotal.WithLabelValues(status).Inc()
}

// SetPending reports the current number of outstanding confirmations.
func (r *Recorder) SetPending(n int) {
	r.pendingGauge.Set(float64(n))
}

// LLMMiddleware instruments every completion call with request count and
// duration. Applied outermost in the client middleware chain so retries
// count as a single observed request.
func (r *Recorder) LLMMiddleware() llm.Middleware {
	return func(next llm.Client) llm.Client {
		return llm.WrapClient(
			func(ctx context.Context, req llm.CompletionRequest) (llm.CompletionResponse, error) {
				start := time.Now()
				resp, err := next.Complete(ctx, req)
				duration := time.Since(start)

				model := next.ModelName()
				status := "success"
				errorType := ""
				if err != nil {
					status = "error"
					errorType = llm.Classify(err).String()
				}
				r.llmRequestsTotal.WithLabelValues(model, status, errorType).Inc()
				r.llmRequestDuration.WithLabelValues(model).Observe(duration.Seconds())

				return resp, err
			},
			next.ModelName,
		)
	}
}
