package packet

import (
	"testing"
)

func TestDecodeDispatch(t *testing.T) {
	cases := []struct {
		name string
		pkt  Packet
	}{
		{"ADVERTISE", &ADVERTISE{GwID: 1, Duration: 900}},
		{"SEARCHGW", &SEARCHGW{Radius: 1}},
		{"GWINFO", &GWINFO{GwID: 1}},
		{"CONNACK", &CONNACK{ReturnCode: RCAccepted}},
		{"REGACK", &REGACK{TopicID: 3, MsgID: 1, ReturnCode: RCAccepted}},
		{"PUBACK", &PUBACK{TopicID: 3, MsgID: 0, ReturnCode: RCAccepted}},
		{"SUBACK", &SUBACK{TopicID: 3, MsgID: 1, ReturnCode: RCAccepted}},
		{"UNSUBACK", &UNSUBACK{MsgID: 1}},
		{"PINGREQ", &PINGREQ{}},
		{"PINGRESP", &PINGRESP{}},
		{"DISCONNECT", &DISCONNECT{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			encoded, err := Encode(c.pkt)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if encoded[0] != byte(len(encoded)) {
				t.Fatalf("P2 violated: header length %d != actual %d", encoded[0], len(encoded))
			}
			if len(encoded) < 2 || len(encoded) > 255 {
				t.Fatalf("P2 violated: length %d out of [2,255]", len(encoded))
			}
			decoded, err := Decode(encoded)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if decoded.Kind() != c.pkt.Kind() {
				t.Fatalf("kind = %#x, want %#x", decoded.Kind(), c.pkt.Kind())
			}
		})
	}
}

func TestDecodeUnknownKind(t *testing.T) {
	if _, err := Decode([]byte{3, 0x7F, 0x00}); err != ErrUnknownKind {
		t.Fatalf("err = %v, want ErrUnknownKind", err)
	}
}

func TestDecodeLengthMismatch(t *testing.T) {
	if _, err := Decode([]byte{10, KindPINGREQ}); err != ErrBodyLengthMismatch {
		t.Fatalf("err = %v, want ErrBodyLengthMismatch", err)
	}
}

func TestKindName(t *testing.T) {
	if KindName(KindPUBLISH) != "PUBLISH" {
		t.Fatalf("KindName(PUBLISH) = %q", KindName(KindPUBLISH))
	}
	if KindName(0xFE) != "UNKNOWN" {
		t.Fatalf("KindName(0xFE) = %q, want UNKNOWN", KindName(0xFE))
	}
}
