package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderwala_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orderwala_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	orderOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderwala_order_operations_total",
			Help: "Total number of order operations",
		},
		[]string{"operation", "status"},
	)

	deliveryAssignments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderwala_delivery_assignments_total",
			Help: "Delivery accept attempts by outcome",
		},
		[]string{"result"},
	)

	notificationsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orderwala_notifications_total",
			Help: "Notification events by delivery path",
		},
		[]string{"type", "path"},
	)
)

// ObserveHTTPRequest 记录一次 HTTP 请求
func ObserveHTTPRequest(method, path, status string, seconds float64) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(seconds)
}

// RecordOrderOperation 记录订单操作指标
func RecordOrderOperation(operation string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	orderOperations.WithLabelValues(operation, status).Inc()
}

// RecordDeliveryAssignment 记录接单结果：won / lost / rejected
func RecordDeliveryAssignment(result string) {
	deliveryAssignments.WithLabelValues(result).Inc()
}

// RecordNotification 记录通知投递路径：queued / inline / failed
func RecordNotification(eventType, path string) {
	notificationsPublished.WithLabelValues(eventType, path).Inc()
}

// Handler 指标暴露端点
func Handler() http.Handler {
	return promhttp.Handler()
}
