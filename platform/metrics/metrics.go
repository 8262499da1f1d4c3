package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hubersonokou-collab/okousmarthub-sub002/platform/observability"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "route", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "route"},
	)

	paymentReconciliationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_reconciliations_total",
			Help: "Provider statuses applied to transactions, by entry point and resulting status",
		},
		[]string{"channel", "status"},
	)

	creditDeductionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_credit_deductions_total",
			Help: "Credit deductions after AI actions, by action and result",
		},
		[]string{"action", "result"},
	)

	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Payment notifications handled by the notification service, by result",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(paymentReconciliationsTotal)
	prometheus.MustRegister(creditDeductionsTotal)
	prometheus.MustRegister(notificationsTotal)
}

// HTTPMiddleware считает запросы и время ответа по шаблону маршрута chi
func HTTPMiddleware(service string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			route := observability.RoutePattern(r)
			if route == "" {
				route = "unmatched"
			}
			httpRequestsTotal.WithLabelValues(service, r.Method, route, strconv.Itoa(wrapped.status)).Inc()
			httpRequestDuration.WithLabelValues(service, r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// Handler отдаёт метрики в формате Prometheus
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordReconciliation учитывает применение статуса провайдера (channel = webhook|verify)
func RecordReconciliation(channel, status string) {
	paymentReconciliationsTotal.WithLabelValues(channel, status).Inc()
}

// RecordCreditDeduction учитывает результат списания кредитов (result = ok|failed)
func RecordCreditDeduction(action, result string) {
	creditDeductionsTotal.WithLabelValues(action, result).Inc()
}

// RecordNotification учитывает обработку события оплаты (result = sent|duplicate|failed|dlq)
func RecordNotification(result string) {
	notificationsTotal.WithLabelValues(result).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
