package transport

import (
	"testing"
	"time"
)

func TestUDP_UnicastRoundTrip(t *testing.T) {
	a, err := NewUDP("127.0.0.1:0", "127.0.0.1:19999")
	if err != nil {
		t.Fatalf("NewUDP a: %v", err)
	}
	defer a.Close()
	b, err := NewUDP("127.0.0.1:0", "127.0.0.1:19999")
	if err != nil {
		t.Fatalf("NewUDP b: %v", err)
	}
	defer b.Close()

	if _, err := a.WritePacket([]byte("ping"), b.LocalAddr()); err != nil {
		t.Fatalf("WritePacket: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	var data []byte
	for time.Now().Before(deadline) {
		if data, _ = b.ReadPacket(); data != nil {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if string(data) != "ping" {
		t.Fatalf("got %q, want %q", data, "ping")
	}
}

func TestUDP_ReadPacketNonBlockingWhenEmpty(t *testing.T) {
	a, err := NewUDP("127.0.0.1:0", "127.0.0.1:19999")
	if err != nil {
		t.Fatalf("NewUDP: %v", err)
	}
	defer a.Close()
	if data, src := a.ReadPacket(); data != nil || src != nil {
		t.Fatalf("got data=%q src=%q, want nil,nil", data, src)
	}
}
