package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		paymentsInitiatedTotal,
		paymentsTotal,
		paymentsRevenueTotal,
		notificationsTotal,
	)
}

var (
	paymentsInitiatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payments_initiated_total",
			Help: "Prepare-payment requests accepted by the gateway.",
		},
	)

	paymentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_total",
			Help: "Transaction status transitions applied (paid/canceled).",
		},
		[]string{"status"},
	)

	paymentsRevenueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_revenue_total",
			Help: "The total monetary value of paid transactions, labeled by currency.",
		},
		[]string{"currency"},
	)

	notificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_notifications_total",
			Help: "Gateway notifications by reconciliation outcome (applied/duplicate/unknown_tx/unrecognized_status/rejected).",
		},
		[]string{"outcome"},
	)
)

func IncPaymentInitiated() {
	paymentsInitiatedTotal.Inc()
}

func IncPayment(status string) {
	paymentsTotal.WithLabelValues(norm(status)).Inc()
}

func AddPaymentRevenue(currency string, amount int64) {
	paymentsRevenueTotal.WithLabelValues(norm(currency)).Add(float64(amount))
}

func IncNotification(outcome string) {
	notificationsTotal.WithLabelValues(norm(outcome)).Inc()
}
