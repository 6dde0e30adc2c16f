package transport

import (
	"testing"

	"github.com/mqttsn-go/gateway"
)

func TestMemoryBus_UnicastAndBroadcast(t *testing.T) {
	bus := NewBus()
	a := bus.NewPeer(mqttsn.Address("a"))
	b := bus.NewPeer(mqttsn.Address("b"))
	c := bus.NewPeer(mqttsn.Address("c"))

	t.Run("unicast delivers to one peer only", func(t *testing.T) {
		if _, err := a.WritePacket([]byte("hello"), mqttsn.Address("b")); err != nil {
			t.Fatalf("WritePacket: %v", err)
		}
		data, src := b.ReadPacket()
		if string(data) != "hello" || !src.Equal(mqttsn.Address("a")) {
			t.Fatalf("got data=%q src=%q", data, src)
		}
		if data, _ := c.ReadPacket(); data != nil {
			t.Fatalf("c should not have received anything, got %q", data)
		}
	})

	t.Run("broadcast reaches every other peer, not self", func(t *testing.T) {
		if _, err := a.Broadcast([]byte("gwinfo")); err != nil {
			t.Fatalf("Broadcast: %v", err)
		}
		if data, _ := b.ReadPacket(); string(data) != "gwinfo" {
			t.Fatalf("b got %q", data)
		}
		if data, _ := c.ReadPacket(); string(data) != "gwinfo" {
			t.Fatalf("c got %q", data)
		}
		if data, _ := a.ReadPacket(); data != nil {
			t.Fatalf("a should not receive its own broadcast, got %q", data)
		}
	})

	t.Run("read with nothing pending returns nil", func(t *testing.T) {
		if data, src := a.ReadPacket(); data != nil || src != nil {
			t.Fatalf("got data=%q src=%q, want nil,nil", data, src)
		}
	})

	t.Run("write to unreachable address is a silent drop", func(t *testing.T) {
		n, err := a.WritePacket([]byte("x"), mqttsn.Address("ghost"))
		if err != nil {
			t.Fatalf("err = %v, want nil", err)
		}
		if n != 0 {
			t.Fatalf("n = %d, want 0", n)
		}
	})
}
