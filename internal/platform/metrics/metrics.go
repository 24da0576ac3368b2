package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "partner_dispatch"

var (
	once sync.Once

	offersReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offers_received_total",
			Help:      "Incoming booking offers applied to the store, by delivery channel.",
		},
		[]string{"channel"},
	)

	offersDuplicate = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offers_duplicate_total",
			Help:      "Offers ignored because the same booking was already active, by channel.",
		},
		[]string{"channel"},
	)

	offerDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offer_decisions_total",
			Help:      "Partner decisions over offers, by decision and outcome.",
		},
		[]string{"decision", "outcome"},
	)

	ringerActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ringer_active",
			Help:      "1 while the incoming booking alert is playing.",
		},
	)

	bookingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_transitions_total",
			Help:      "Booking status transitions attempted, by target status and outcome.",
		},
		[]string{"to", "outcome"},
	)

	paymentPolls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_polls_total",
			Help:      "Payment status polls, by observed status.",
		},
		[]string{"status"},
	)

	liveConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_channel_connected",
			Help:      "1 while the live channel is connected.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			offersReceived,
			offersDuplicate,
			offerDecisions,
			ringerActive,
			bookingTransitions,
			paymentPolls,
			liveConnected,
		)
	})
}

func IncOfferReceived(channel string) {
	offersReceived.WithLabelValues(channel).Inc()
}

func IncOfferDuplicate(channel string) {
	offersDuplicate.WithLabelValues(channel).Inc()
}

func IncOfferDecision(decision, outcome string) {
	offerDecisions.WithLabelValues(decision, outcome).Inc()
}

func SetRingerActive(active bool) {
	ringerActive.Set(boolToFloat(active))
}

func IncBookingTransition(to, outcome string) {
	bookingTransitions.WithLabelValues(to, outcome).Inc()
}

func IncPaymentPoll(status string) {
	paymentPolls.WithLabelValues(status).Inc()
}

func SetLiveConnected(connected bool) {
	liveConnected.Set(boolToFloat(connected))
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
