package bot

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for the bot's interaction with users and the remote service.
type Metrics struct {
	MessagesProcessed  prometheus.Counter
	CallbacksProcessed prometheus.Counter
	OrdersPlaced       prometheus.Counter
	OrdersSent         prometheus.Counter
	BookingsCreated    prometheus.Counter
	BookingsRejected   prometheus.Counter
	ErrorsTotal        prometheus.Counter
	APICallDuration    *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		MessagesProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "resto_bot_messages_processed_total",
			Help: "Total number of processed messages",
		}),

		CallbacksProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "resto_bot_callbacks_processed_total",
			Help: "Total number of processed callback queries",
		}),

		OrdersPlaced: promauto.NewCounter(prometheus.CounterOpts{
			Name: "resto_bot_orders_placed_total",
			Help: "Orders confirmed by the remote service",
		}),

		OrdersSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "resto_bot_orders_sent_total",
			Help: "Pending orders moved to Sent",
		}),

		BookingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "resto_bot_bookings_created_total",
			Help: "Bookings confirmed by the remote service",
		}),

		BookingsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "resto_bot_bookings_rejected_total",
			Help: "Bookings refused via the soft-rejection payload",
		}),

		ErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "resto_bot_errors_total",
			Help: "Total number of errors surfaced to users",
		}),

		APICallDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "resto_bot_api_call_duration_seconds",
			Help:    "Duration of remote service calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}
