// Package gateway implements the MQTT-SN gateway session manager
// (SPEC_FULL.md §4.3): a fixed-size client instance table, a fixed-size
// topic-id registry, PUBLISH fan-out in both directions, and bridging to
// an upstream MQTT broker.
package gateway

import (
	"log"
	"time"

	"github.com/mqttsn-go/gateway"
	"github.com/mqttsn-go/gateway/metrics"
	"github.com/mqttsn-go/gateway/packet"
)

// Transport is the nonblocking datagram collaborator the engine is driven
// over. transport.UDP and transport.Memory both satisfy it structurally.
type Transport interface {
	ReadPacket() ([]byte, mqttsn.Address)
	WritePacket(data []byte, dest mqttsn.Address) (int, error)
	Broadcast(data []byte) (int, error)
}

// Broker is the upstream MQTT adapter collaborator (SPEC_FULL.md §6).
type Broker interface {
	RegisterHandlers(onConnect func(bool), onPublish func(topic string, payload []byte, qos byte, retain bool))
	Publish(topic string, payload []byte, qos byte, retain bool) error
	Subscribe(topic string, qos byte) error
	Unsubscribe(topic string) error
	Connected() bool
}

type connectEvent struct{ connected bool }

type publishEvent struct {
	topic   string
	payload []byte
	qos     byte
	retain  bool
}

// Engine owns the client instance table and topic registry for one
// gateway. It is driven by calling Loop periodically with a monotonic
// clock reading; it is not safe for concurrent use (SPEC_FULL.md §5),
// except that the Broker's callbacks are marshaled onto the next Loop
// call via buffered channels rather than touching engine state directly.
type Engine struct {
	Transport Transport
	Broker    Broker
	GwID      byte

	instances [mqttsn.MaxNumClients]Instance
	topics    topicRegistry
	queue     publishQueue

	upstreamConnected bool

	connectEvents chan connectEvent
	publishEvents chan publishEvent

	metrics *metrics.Gateway
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithMetrics attaches a metrics.Gateway; counters and gauges are updated
// as the engine runs. Without it, metrics calls are simply skipped.
func WithMetrics(m *metrics.Gateway) Option {
	return func(e *Engine) { e.metrics = m }
}

// New constructs an Engine bound to t and b. If b is non-nil its
// callbacks are registered immediately.
func New(t Transport, b Broker, gwID byte, opts ...Option) *Engine {
	e := &Engine{
		Transport:     t,
		Broker:        b,
		GwID:          gwID,
		connectEvents: make(chan connectEvent, 16),
		publishEvents: make(chan publishEvent, mqttsn.MaxQueuedPublish),
	}
	for _, opt := range opts {
		opt(e)
	}
	if b != nil {
		b.RegisterHandlers(e.onUpstreamConnect, e.onUpstreamPublish)
	}
	return e
}

// onUpstreamConnect and onUpstreamPublish run on whatever goroutine the
// Broker implementation calls them from (paho's network loop, typically);
// they only ever enqueue, never touch engine state, per SPEC_FULL.md §5.
func (e *Engine) onUpstreamConnect(connected bool) {
	select {
	case e.connectEvents <- connectEvent{connected}:
	default:
		log.Printf("[GATEWAY_CONNECT_EVENT_DROPPED] connected=%v", connected)
	}
}

func (e *Engine) onUpstreamPublish(topic string, payload []byte, qos byte, retain bool) {
	select {
	case e.publishEvents <- publishEvent{topic, payload, qos, retain}:
	default:
		log.Printf("[GATEWAY_PUBLISH_EVENT_DROPPED] topic=%s", topic)
	}
}

// Loop drains inbound datagrams, drains upstream callback events, services
// each occupied instance's liveness, and fans out the internal publish
// queue. It returns the upstream broker's current connectedness.
func (e *Engine) Loop(now time.Time) bool {
	e.drainUpstreamEvents(now)

	for {
		data, src := e.Transport.ReadPacket()
		if data == nil {
			break
		}
		pkt, err := packet.Decode(data)
		if err != nil {
			continue
		}
		if e.metrics != nil {
			e.metrics.PacketsReceived.Inc()
		}
		e.dispatch(pkt, src, now)
	}

	active := 0
	for i := range e.instances {
		e.checkStatus(&e.instances[i], now)
		if e.instances[i].ClientID != nil {
			active++
		}
	}
	if e.metrics != nil {
		e.metrics.ActiveInstances.Set(float64(active))
		e.metrics.PublishQueueDepth.Set(float64(len(e.queue.items)))
	}

	e.fanOut()

	if e.Broker == nil {
		return e.upstreamConnected
	}
	return e.Broker.Connected()
}

func (e *Engine) drainUpstreamEvents(now time.Time) {
	for {
		select {
		case ev := <-e.connectEvents:
			e.handleUpstreamConnect(ev.connected)
		case ev := <-e.publishEvents:
			e.handleUpstreamPublish(ev, now)
		default:
			return
		}
	}
}

// handleUpstreamConnect re-issues every aggregated upstream subscription
// on a false->true transition (SPEC_FULL.md §4.3 on_connect).
func (e *Engine) handleUpstreamConnect(connected bool) {
	if connected && !e.upstreamConnected {
		for i := range e.topics.mappings {
			m := &e.topics.mappings[i]
			if len(m.Name) > 0 && m.SubscribedUpstream && e.Broker != nil {
				_ = e.Broker.Subscribe(string(m.Name), m.SubQoS)
			}
		}
	}
	e.upstreamConnected = connected
	log.Printf("[GATEWAY_UPSTREAM_CONNECTED] connected=%v", connected)
}

// handleUpstreamPublish builds a PUBLISH for an inbound broker delivery
// and pushes it onto the internal queue for the next fan-out step.
func (e *Engine) handleUpstreamPublish(ev publishEvent, now time.Time) {
	tid, allocated := e.topics.idFor([]byte(ev.topic))
	if tid == 0 {
		log.Printf("[GATEWAY_TOPIC_REGISTRY_FULL] topic=%s", ev.topic)
		return
	}
	if allocated && e.metrics != nil {
		e.metrics.TopicRegistered.Inc()
	}
	pkt := &packet.PUBLISH{Flags: packet.Flags{QoS: ev.qos, Retain: ev.retain}, TopicID: tid, Data: ev.payload}
	data, err := packet.Encode(pkt)
	if err != nil {
		return
	}
	if dropped := e.queue.push(data, tid); dropped && e.metrics != nil {
		e.metrics.PublishQueueDrops.Inc()
	}
}

// fanOut drains the internal publish queue, writing each original packet
// to every instance currently subscribed to its topic id.
func (e *Engine) fanOut() {
	for _, item := range e.queue.drain() {
		for i := range e.instances {
			inst := &e.instances[i]
			if inst.ClientID == nil {
				continue
			}
			if inst.hasSub(item.topicID) {
				e.send(item.data, inst.Address)
			}
		}
	}
}

// send writes one packet to dest, counting it in PacketsSent.
func (e *Engine) send(data []byte, dest mqttsn.Address) {
	_, _ = e.Transport.WritePacket(data, dest)
	if e.metrics != nil {
		e.metrics.PacketsSent.Inc()
	}
}

// broadcast writes one packet to every reachable peer, counting it once.
func (e *Engine) broadcast(data []byte) {
	_, _ = e.Transport.Broadcast(data)
	if e.metrics != nil {
		e.metrics.PacketsSent.Inc()
	}
}

func (e *Engine) findInstance(addr mqttsn.Address) *Instance {
	for i := range e.instances {
		if e.instances[i].ClientID != nil && e.instances[i].Address.Equal(addr) {
			return &e.instances[i]
		}
	}
	return nil
}

func (e *Engine) allocInstance() *Instance {
	for i := range e.instances {
		if e.instances[i].ClientID == nil {
			return &e.instances[i]
		}
	}
	return nil
}

func (e *Engine) deregister(inst *Instance) {
	*inst = Instance{}
	log.Printf("[GATEWAY_CLIENT_LOST]")
}

// checkStatus implements SPEC_FULL.md §4.3's per-instance liveness check.
func (e *Engine) checkStatus(inst *Instance, now time.Time) {
	if inst.ClientID == nil {
		return
	}
	if now.Sub(inst.LastIn) > time.Duration(1.5*float64(inst.Keepalive)) {
		inst.Status = StatusLost
		if e.metrics != nil {
			e.metrics.RetryExhausted.Inc()
		}
		e.deregister(inst)
		return
	}
	if inst.inflight == nil {
		return
	}
	if now.Sub(inst.inflight.timer) < mqttsn.TRetry {
		return
	}
	inst.inflight.counter++
	if inst.inflight.counter > mqttsn.NRetry {
		inst.Status = StatusLost
		if e.metrics != nil {
			e.metrics.RetryExhausted.Inc()
		}
		e.deregister(inst)
		return
	}
	e.send(inst.inflight.payload, inst.Address)
	inst.inflight.timer = now
}
