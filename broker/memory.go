package broker

import "sync"

// Memory is an in-process Broker used by gateway engine tests to observe
// exactly which Subscribe/Unsubscribe/Publish calls the gateway issues,
// without a real MQTT broker (SPEC_FULL.md §8 scenario S6 needs this
// kind of call-log assertion).
type Memory struct {
	mu sync.Mutex

	onConnect func(bool)
	onPublish func(topic string, payload []byte, qos byte, retain bool)

	connected bool

	Subscribed   []SubscribeCall
	Unsubscribed []string
	Published    []PublishCall
}

type SubscribeCall struct {
	Topic string
	QoS   byte
}

type PublishCall struct {
	Topic   string
	Payload []byte
	QoS     byte
	Retain  bool
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) RegisterHandlers(onConnect func(bool), onPublish func(topic string, payload []byte, qos byte, retain bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onConnect = onConnect
	m.onPublish = onPublish
}

func (m *Memory) Publish(topic string, payload []byte, qos byte, retain bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, PublishCall{topic, payload, qos, retain})
	return nil
}

func (m *Memory) Subscribe(topic string, qos byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Subscribed = append(m.Subscribed, SubscribeCall{topic, qos})
	return nil
}

func (m *Memory) Unsubscribe(topic string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Unsubscribed = append(m.Unsubscribed, topic)
	return nil
}

func (m *Memory) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// SetConnected drives the onConnect callback as a real broker would on a
// connection-state transition.
func (m *Memory) SetConnected(v bool) {
	m.mu.Lock()
	m.connected = v
	cb := m.onConnect
	m.mu.Unlock()
	if cb != nil {
		cb(v)
	}
}

// DeliverUpstream simulates an inbound PUBLISH arriving from the broker.
func (m *Memory) DeliverUpstream(topic string, payload []byte, qos byte, retain bool) {
	m.mu.Lock()
	cb := m.onPublish
	m.mu.Unlock()
	if cb != nil {
		cb(topic, payload, qos, retain)
	}
}
