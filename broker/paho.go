package broker

import (
	"log"
	"sync/atomic"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Paho is a Broker backed by the eclipse/paho.mqtt.golang client, the same
// dependency golang-io/mqtt's own cmd/paho-client scaffold and
// alibo-simple-mqtt-network-lab/go-backend/main.go pull in for the real
// upstream broker connection.
type Paho struct {
	client    paho.Client
	connected atomic.Bool

	onConnect func(bool)
	onPublish func(topic string, payload []byte, qos byte, retain bool)
}

// NewPaho configures a client for brokerURL (e.g. "tcp://127.0.0.1:1883")
// with clientID. It does not dial: the first connection attempt is issued
// by Connect. Connection-state changes surface through onConnect.
func NewPaho(brokerURL, clientID string) *Paho {
	b := &Paho{}
	opts := paho.NewClientOptions().
		AddBroker(brokerURL).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetCleanSession(true)

	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		log.Printf("[BROKER_CONNECTION_LOST] %v", err)
		b.setConnected(false)
	})
	opts.SetOnConnectHandler(func(_ paho.Client) {
		log.Printf("[BROKER_CONNECTED] %s", brokerURL)
		b.setConnected(true)
	})

	b.client = paho.NewClient(opts)
	return b
}

// Connect issues the initial connection attempt. Errors are logged, not
// returned: per SPEC_FULL.md §7 send/connect failures are recovered by
// retry, not propagated as fatal errors.
func (b *Paho) Connect() {
	token := b.client.Connect()
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			log.Printf("[BROKER_CONNECT_ERROR] %v", err)
		}
	}()
}

func (b *Paho) setConnected(v bool) {
	b.connected.Store(v)
	if b.onConnect != nil {
		b.onConnect(v)
	}
}

func (b *Paho) RegisterHandlers(onConnect func(bool), onPublish func(topic string, payload []byte, qos byte, retain bool)) {
	b.onConnect = onConnect
	b.onPublish = onPublish
}

// Publish, Subscribe and Unsubscribe are fire-and-forget: the gateway's
// Engine.Loop calls these from its own cooperative goroutine and must
// never suspend on broker I/O (SPEC_FULL.md §5), so each token's Wait
// happens on a separate goroutine, same as Connect above.

func (b *Paho) Publish(topic string, payload []byte, qos byte, retain bool) error {
	token := b.client.Publish(topic, qos, retain, payload)
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			log.Printf("[BROKER_PUBLISH_ERROR] topic=%s %v", topic, err)
		}
	}()
	return nil
}

func (b *Paho) Subscribe(topic string, qos byte) error {
	token := b.client.Subscribe(topic, qos, func(_ paho.Client, msg paho.Message) {
		if b.onPublish != nil {
			b.onPublish(msg.Topic(), msg.Payload(), msg.Qos(), msg.Retained())
		}
	})
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			log.Printf("[BROKER_SUBSCRIBE_ERROR] topic=%s %v", topic, err)
		}
	}()
	return nil
}

func (b *Paho) Unsubscribe(topic string) error {
	token := b.client.Unsubscribe(topic)
	go func() {
		token.Wait()
		if err := token.Error(); err != nil {
			log.Printf("[BROKER_UNSUBSCRIBE_ERROR] topic=%s %v", topic, err)
		}
	}()
	return nil
}

func (b *Paho) Connected() bool {
	return b.connected.Load()
}
