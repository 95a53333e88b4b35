package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "starbook_bookings_created_total",
		Help: "Bookings committed with a ledger debit",
	})

	BookingsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "starbook_bookings_rejected_total",
		Help: "Booking requests rejected before commit",
	}, []string{"reason"})

	DepositsApproved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "starbook_deposits_approved_total",
		Help: "Deposits approved with a ledger credit",
	})

	TxRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "starbook_tx_retries_total",
		Help: "Coordinator transaction retries after lock conflicts",
	})

	WsPushes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "starbook_ws_pushes_total",
		Help: "WebSocket events pushed, by event type",
	}, []string{"type"})

	WsClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "starbook_ws_clients",
		Help: "Currently registered WebSocket channels",
	})
)
