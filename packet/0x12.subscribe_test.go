package packet

import (
	"bytes"
	"testing"
)

func TestSUBSCRIBE_RoundTrip(t *testing.T) {
	t.Run("by name", func(t *testing.T) {
		pkt := SUBSCRIBE{Flags: Flags{QoS: 1, TopicIDType: TopicIDTypeNormal}, MsgID: 5, TopicName: []byte("led")}
		var buf bytes.Buffer
		if err := pkt.Pack(&buf); err != nil {
			t.Fatalf("Pack: %v", err)
		}
		var got SUBSCRIBE
		body := bytes.NewBuffer(buf.Bytes()[HeaderLen:])
		if err := got.Unpack(body); err != nil {
			t.Fatalf("Unpack: %v", err)
		}
		if got.MsgID != pkt.MsgID || !bytes.Equal(got.TopicName, pkt.TopicName) || got.TopicID != 0 {
			t.Fatalf("got %+v, want %+v", got, pkt)
		}
	})

	t.Run("predefined id", func(t *testing.T) {
		pkt := SUBSCRIBE{Flags: Flags{TopicIDType: TopicIDTypePredefined}, MsgID: 9, TopicID: 42}
		var buf bytes.Buffer
		if err := pkt.Pack(&buf); err != nil {
			t.Fatalf("Pack: %v", err)
		}
		var got SUBSCRIBE
		body := bytes.NewBuffer(buf.Bytes()[HeaderLen:])
		if err := got.Unpack(body); err != nil {
			t.Fatalf("Unpack: %v", err)
		}
		if got.TopicID != 42 || got.TopicName != nil {
			t.Fatalf("got %+v, want topic id 42 and nil name", got)
		}
	})
}
