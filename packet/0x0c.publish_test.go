package packet

import (
	"bytes"
	"testing"
)

// TestPUBLISH_ScenarioS1 is the codec round-trip scenario from
// SPEC_FULL.md §8 S1, adjusted to the byte-accurate framed length (the
// prose example's length nibble does not match its own byte count; this
// test asserts the invariant the spec itself requires: packet[0] ==
// len(packet), see P2).
func TestPUBLISH_ScenarioS1(t *testing.T) {
	pkt := PUBLISH{Flags: Flags{QoS: 0}, TopicID: 7, MsgID: 0, Data: []byte{0x01}}
	var buf bytes.Buffer
	if err := pkt.Pack(&buf); err != nil {
		t.Fatalf("Pack: %v", err)
	}
	want := []byte{0x08, KindPUBLISH, 0x00, 0x00, 0x07, 0x00, 0x00, 0x01}
	if !bytes.Equal(buf.Bytes(), want) {
		t.Fatalf("packed = % x, want % x", buf.Bytes(), want)
	}

	body := bytes.NewBuffer(buf.Bytes()[HeaderLen:])
	var got PUBLISH
	if err := got.Unpack(body); err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if got.Flags != pkt.Flags || got.TopicID != pkt.TopicID || got.MsgID != pkt.MsgID || !bytes.Equal(got.Data, pkt.Data) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, pkt)
	}
}

func TestPUBLISH_DataTruncatedToMsgLen(t *testing.T) {
	pkt := PUBLISH{TopicID: 1, Data: bytes.Repeat([]byte{0xAB}, 64)}
	var buf bytes.Buffer
	if err := pkt.Pack(&buf); err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if buf.Len() > MaxMsgLen {
		t.Fatalf("packed length %d exceeds MaxMsgLen %d", buf.Len(), MaxMsgLen)
	}
	if int(buf.Bytes()[0]) != buf.Len() {
		t.Fatalf("header length %d != actual %d", buf.Bytes()[0], buf.Len())
	}
}

func TestPUBLISH_BodyTooShort(t *testing.T) {
	var pkt PUBLISH
	if err := pkt.Unpack(bytes.NewBuffer([]byte{0x00, 0x00, 0x01})); err != ErrBodyTooShort {
		t.Fatalf("err = %v, want ErrBodyTooShort", err)
	}
}
