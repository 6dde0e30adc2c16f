// Package broker defines the upstream MQTT adapter collaborator the
// gateway engine bridges PUBLISH traffic through (SPEC_FULL.md §6), plus a
// concrete implementation over github.com/eclipse/paho.mqtt.golang.
package broker

// Broker is the upstream MQTT adapter collaborator. Implementations
// deliver connection-state changes and inbound application messages via
// the callbacks installed through RegisterHandlers; gateway.Engine is the
// only intended caller and always does so from its own loop goroutine.
type Broker interface {
	// RegisterHandlers installs the gateway's callbacks. onConnect fires
	// whenever the broker's connection state changes; onPublish fires for
	// every inbound PUBLISH that matches a live upstream subscription.
	RegisterHandlers(onConnect func(connected bool), onPublish func(topic string, payload []byte, qos byte, retain bool))

	// Publish forwards a client's PUBLISH upstream.
	Publish(topic string, payload []byte, qos byte, retain bool) error

	// Subscribe requests upstream delivery of topic at qos.
	Subscribe(topic string, qos byte) error

	// Unsubscribe cancels a prior Subscribe.
	Unsubscribe(topic string) error

	// Connected reports the last connection state observed.
	Connected() bool
}
