package counters

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var framesSent = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ocpp",
	Name:      "frames_sent_total",
	Help:      "Total number of wire frames sent by message type.",
}, []string{"station_id", "type"})

var framesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ocpp",
	Name:      "frames_received_total",
	Help:      "Total number of wire frames received by message type.",
}, []string{"station_id", "type"})

var callTimeouts = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ocpp",
	Name:      "call_timeouts_total",
	Help:      "Pending calls resolved by deadline instead of a response.",
}, []string{"station_id", "action"})

var protocolErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ocpp",
	Name:      "protocol_errors_total",
	Help:      "Dropped frames: malformed, unknown or duplicate unique ids.",
}, []string{"station_id"})

var activeTransactionsGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "station",
	Name:      "transactions_active",
	Help:      "Number of active transactions on the simulated station.",
}, []string{"station_id"})

var offlineQueueGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "station",
	Name:      "offline_queue_depth",
	Help:      "Transaction events queued while the connection is down.",
}, []string{"station_id"})

func CountFrameSent(stationId, frameType string) {
	if len(stationId) == 0 {
		return
	}
	framesSent.With(prometheus.Labels{"station_id": stationId, "type": frameType}).Inc()
}

func CountFrameReceived(stationId, frameType string) {
	if len(stationId) == 0 {
		return
	}
	framesReceived.With(prometheus.Labels{"station_id": stationId, "type": frameType}).Inc()
}

func CountCallTimeout(stationId, action string) {
	if len(stationId) == 0 || len(action) == 0 {
		return
	}
	callTimeouts.With(prometheus.Labels{"station_id": stationId, "action": action}).Inc()
}

func CountProtocolError(stationId string) {
	if len(stationId) == 0 {
		return
	}
	protocolErrors.With(prometheus.Labels{"station_id": stationId}).Inc()
}

func ObserveTransactions(stationId string, count int) {
	if len(stationId) == 0 {
		return
	}
	activeTransactionsGauge.With(prometheus.Labels{"station_id": stationId}).Set(float64(count))
}

func ObserveOfflineQueue(stationId string, depth int) {
	if len(stationId) == 0 {
		return
	}
	offlineQueueGauge.With(prometheus.Labels{"station_id": stationId}).Set(float64(depth))
}
