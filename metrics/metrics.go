// Package metrics exposes Prometheus instrumentation for a running
// gateway, adapted from golang-io-mqtt's stat.go Stat struct to the
// MQTT-SN gateway's own counters.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Gateway holds every counter/gauge a gateway.Engine reports. The zero
// value is unusable; construct with New.
type Gateway struct {
	ActiveInstances   prometheus.Gauge
	TopicRegistered   prometheus.Counter
	PacketsReceived   prometheus.Counter
	PacketsSent       prometheus.Counter
	RetryExhausted    prometheus.Counter
	PublishQueueDepth prometheus.Gauge
	PublishQueueDrops prometheus.Counter
}

// New constructs a Gateway's counters. Register must be called once
// before they are observable via promhttp.
func New() *Gateway {
	return &Gateway{
		ActiveInstances:   prometheus.NewGauge(prometheus.GaugeOpts{Name: "mqttsn_gateway_active_instances", Help: "Number of occupied client instance slots"}),
		TopicRegistered:   prometheus.NewCounter(prometheus.CounterOpts{Name: "mqttsn_gateway_topics_registered_total", Help: "Total topic ids allocated by the gateway registry"}),
		PacketsReceived:   prometheus.NewCounter(prometheus.CounterOpts{Name: "mqttsn_gateway_packets_received_total", Help: "Total MQTT-SN packets received"}),
		PacketsSent:       prometheus.NewCounter(prometheus.CounterOpts{Name: "mqttsn_gateway_packets_sent_total", Help: "Total MQTT-SN packets sent"}),
		RetryExhausted:    prometheus.NewCounter(prometheus.CounterOpts{Name: "mqttsn_gateway_retry_exhausted_total", Help: "Total client instances deregistered as lost (keepalive expiry or retry exhaustion)"}),
		PublishQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{Name: "mqttsn_gateway_publish_queue_depth", Help: "Current depth of the internal local fan-out queue"}),
		PublishQueueDrops: prometheus.NewCounter(prometheus.CounterOpts{Name: "mqttsn_gateway_publish_queue_drops_total", Help: "Total packets dropped from the publish queue on overflow"}),
	}
}

// Register registers every collector with the default Prometheus
// registry, mirroring stat.go's Stat.Register.
func (g *Gateway) Register() {
	prometheus.MustRegister(
		g.ActiveInstances,
		g.TopicRegistered,
		g.PacketsReceived,
		g.PacketsSent,
		g.RetryExhausted,
		g.PublishQueueDepth,
		g.PublishQueueDrops,
	)
}
