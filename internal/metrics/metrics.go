package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "voltbook",
			Name:      "bookings_created_total",
			Help:      "Bookings accepted by the lifecycle engine.",
		},
	)

	bookingConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "voltbook",
			Name:      "booking_conflicts_total",
			Help:      "Booking requests rejected because the slot was taken.",
		},
	)

	bookingsCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "voltbook",
			Name:      "bookings_cancelled_total",
			Help:      "Bookings cancelled by their owner.",
		},
	)

	walletTransactions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "voltbook",
			Name:      "wallet_transactions_total",
			Help:      "Recorded wallet ledger entries by type.",
		},
		[]string{"type"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingsCreated, bookingConflicts, bookingsCancelled, walletTransactions)
	})
}

// IncBookingCreated counts an accepted booking.
func IncBookingCreated() { bookingsCreated.Inc() }

// IncBookingConflict counts a slot-taken rejection.
func IncBookingConflict() { bookingConflicts.Inc() }

// IncBookingCancelled counts a cancellation.
func IncBookingCancelled() { bookingsCancelled.Inc() }

// IncWalletTransaction counts a ledger entry for a transaction type.
func IncWalletTransaction(txType string) { walletTransactions.WithLabelValues(txType).Inc() }
