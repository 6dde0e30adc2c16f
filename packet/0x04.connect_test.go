package packet

import (
	"bytes"
	"testing"
)

func TestCONNECT_RoundTrip(t *testing.T) {
	cases := []struct {
		name string
		pkt  CONNECT
	}{
		{"clean session", CONNECT{Flags: Flags{CleanSession: true}, Duration: 30, ClientID: []byte("sensor-01")}},
		{"no client id", CONNECT{Flags: Flags{}, Duration: 10, ClientID: nil}},
		{"max client id", CONNECT{Flags: Flags{Will: true}, Duration: 300, ClientID: bytes.Repeat([]byte("a"), MaxClientIDLen)}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := c.pkt.Pack(&buf); err != nil {
				t.Fatalf("Pack: %v", err)
			}
			if buf.Bytes()[0] != byte(buf.Len()) {
				t.Fatalf("header length %d != packet length %d", buf.Bytes()[0], buf.Len())
			}
			buf.Next(2) // strip header, Unpack takes body only
			var got CONNECT
			if err := got.Unpack(&buf); err != nil {
				t.Fatalf("Unpack: %v", err)
			}
			if got.Flags != c.pkt.Flags || got.Duration != c.pkt.Duration || !bytes.Equal(got.ClientID, c.pkt.ClientID) {
				t.Fatalf("got %+v, want %+v", got, c.pkt)
			}
		})
	}
}

func TestCONNECT_ClientIDTruncatedOnPack(t *testing.T) {
	pkt := CONNECT{ClientID: bytes.Repeat([]byte("x"), MaxClientIDLen+10)}
	var buf bytes.Buffer
	if err := pkt.Pack(&buf); err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if buf.Len()-HeaderLen-4 != MaxClientIDLen {
		t.Fatalf("packed client id length = %d, want %d", buf.Len()-HeaderLen-4, MaxClientIDLen)
	}
}

func TestCONNECT_ProtocolIDMismatch(t *testing.T) {
	body := bytes.NewBuffer([]byte{0x00, 0x02, 0x00, 0x1e})
	var pkt CONNECT
	if err := pkt.Unpack(body); err != ErrProtocolIDMismatch {
		t.Fatalf("err = %v, want ErrProtocolIDMismatch", err)
	}
}

func TestCONNECT_ClientIDTooLongOnUnpack(t *testing.T) {
	body := bytes.NewBuffer(append([]byte{0x00, ProtocolID, 0x00, 0x1e}, bytes.Repeat([]byte("a"), MaxClientIDLen+1)...))
	var pkt CONNECT
	if err := pkt.Unpack(body); err != ErrClientIDTooLong {
		t.Fatalf("err = %v, want ErrClientIDTooLong", err)
	}
}
