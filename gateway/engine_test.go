package gateway

import (
	"testing"
	"time"

	"github.com/mqttsn-go/gateway/broker"
	"github.com/mqttsn-go/gateway/packet"
	"github.com/mqttsn-go/gateway/transport"
)

func connectFrom(t *testing.T, bus *transport.Bus, e *Engine, clientAddr, clientID string) *transport.Memory {
	t.Helper()
	peer := bus.NewPeer(stringAddr(clientAddr))
	data, _ := packet.Encode(&packet.CONNECT{Duration: 30, ClientID: []byte(clientID)})
	peer.WritePacket(data, stringAddr("gw"))
	return peer
}

func stringAddr(s string) []byte { return []byte(s) }

// TestEngine_ConnectCongestion covers S5: with a one-slot client table,
// a second distinct address gets CONGESTION and the registry is
// unaffected.
func TestEngine_ConnectCongestion(t *testing.T) {
	bus := transport.NewBus()
	gw := bus.NewPeer(stringAddr("gw"))
	e := New(gw, nil, 1)

	// Simulate MAX_NUM_CLIENTS=1 by pre-occupying every slot but one, with
	// a keepalive long enough that the liveness check keeps the fillers.
	for i := 1; i < len(e.instances); i++ {
		e.instances[i].ClientID = []byte("filler")
		e.instances[i].Keepalive = time.Hour
		e.instances[i].LastIn = time.Unix(0, 0)
	}

	c1 := connectFrom(t, bus, e, "c1", "sensor-1")
	e.Loop(time.Unix(0, 0))
	data, _ := c1.ReadPacket()
	ack1 := mustDecode(t, data).(*packet.CONNACK)
	if ack1.ReturnCode != packet.RCAccepted {
		t.Fatalf("first client rc = %d, want ACCEPTED", ack1.ReturnCode)
	}

	c2 := connectFrom(t, bus, e, "c2", "sensor-2")
	e.Loop(time.Unix(0, 0))
	data2, _ := c2.ReadPacket()
	ack2 := mustDecode(t, data2).(*packet.CONNACK)
	if ack2.ReturnCode != packet.RCCongestion {
		t.Fatalf("second client rc = %d, want CONGESTION", ack2.ReturnCode)
	}
	if e.findInstance(stringAddr("c2")) != nil {
		t.Fatalf("second client must not occupy a slot")
	}
}

func mustDecode(t *testing.T, data []byte) packet.Packet {
	t.Helper()
	p, err := packet.Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return p
}

func subscribeFrom(peer *transport.Memory, topic string, qos byte) {
	data, _ := packet.Encode(&packet.SUBSCRIBE{Flags: packet.Flags{QoS: qos}, TopicName: []byte(topic)})
	peer.WritePacket(data, stringAddr("gw"))
}

// TestEngine_SubscriptionAggregation covers S6 and P8: upstream
// SUBSCRIBE fires only for the first subscriber or a strictly higher qos,
// and upstream UNSUBSCRIBE only once the last subscriber leaves.
func TestEngine_SubscriptionAggregation(t *testing.T) {
	bus := transport.NewBus()
	gw := bus.NewPeer(stringAddr("gw"))
	mem := broker.NewMemory()
	e := New(gw, mem, 1)

	c1 := connectFrom(t, bus, e, "c1", "one")
	c2 := connectFrom(t, bus, e, "c2", "two")
	e.Loop(time.Unix(0, 0))
	c1.ReadPacket()
	c2.ReadPacket()

	subscribeFrom(c1, "t", 0)
	subscribeFrom(c2, "t", 0)
	e.Loop(time.Unix(1, 0))
	c1.ReadPacket()
	c2.ReadPacket()

	if len(mem.Subscribed) != 1 {
		t.Fatalf("upstream subscribe count = %d, want 1", len(mem.Subscribed))
	}

	subscribeFrom(c1, "t", 1)
	e.Loop(time.Unix(2, 0))
	c1.ReadPacket()
	if len(mem.Subscribed) != 2 {
		t.Fatalf("upstream subscribe count after higher qos = %d, want 2", len(mem.Subscribed))
	}
	if mem.Subscribed[1].QoS != 1 {
		t.Fatalf("second upstream subscribe qos = %d, want 1", mem.Subscribed[1].QoS)
	}

	unsub, _ := packet.Encode(&packet.UNSUBSCRIBE{TopicName: []byte("t")})
	c1.WritePacket(unsub, stringAddr("gw"))
	e.Loop(time.Unix(3, 0))
	c1.ReadPacket()
	if len(mem.Unsubscribed) != 0 {
		t.Fatalf("upstream unsubscribe fired too early: %v", mem.Unsubscribed)
	}

	c2.WritePacket(unsub, stringAddr("gw"))
	e.Loop(time.Unix(4, 0))
	c2.ReadPacket()
	if len(mem.Unsubscribed) != 1 || mem.Unsubscribed[0] != "t" {
		t.Fatalf("upstream unsubscribe = %v, want one entry \"t\"", mem.Unsubscribed)
	}
}

// TestEngine_LostClientDeregistersSlot covers S7: 46s of silence with a
// 30s keepalive frees the instance slot.
func TestEngine_LostClientDeregistersSlot(t *testing.T) {
	bus := transport.NewBus()
	gw := bus.NewPeer(stringAddr("gw"))
	e := New(gw, nil, 1)

	c1 := connectFrom(t, bus, e, "c1", "sensor-1")
	start := time.Unix(0, 0)
	e.Loop(start)
	c1.ReadPacket()

	if e.findInstance(stringAddr("c1")) == nil {
		t.Fatalf("instance should be registered")
	}

	e.Loop(start.Add(46 * time.Second))
	if e.findInstance(stringAddr("c1")) != nil {
		t.Fatalf("instance should have been deregistered after 46s silence")
	}
}
