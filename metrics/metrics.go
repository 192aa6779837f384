package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "battleship_connections_active",
			Help: "Currently connected websocket clients",
		},
	)
	EventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "battleship_events_total",
			Help: "Inbound events by route tag",
		},
		[]string{"type"},
	)
	RoomsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "battleship_rooms_created_total",
			Help: "Rooms created since start",
		},
	)
)

func init() {
	prometheus.MustRegister(ConnectionsActive)
	prometheus.MustRegister(EventsTotal)
	prometheus.MustRegister(RoomsCreated)
}
