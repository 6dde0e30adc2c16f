package packet

import (
	"bytes"
	"io"
)

// Packet is the common interface implemented by every MQTT-SN message
// record. Kind returns the wire type code; Pack writes the full framed
// packet (header + body); Unpack consumes a body with the header already
// stripped off by Decode.
type Packet interface {
	Kind() byte
	Pack(w io.Writer) error
	Unpack(body *bytes.Buffer) error
}

// Decode parses one complete MQTT-SN packet out of data, which must hold
// exactly one datagram (the transport is message-oriented: one read yields
// one packet, per SPEC_FULL.md §6's Transport contract). Malformed or
// unrecognised packets return an error; callers drop them per §7.
func Decode(data []byte) (Packet, error) {
	buf := bytes.NewBuffer(data)
	length, kind, err := ParseHeader(buf)
	if err != nil {
		return nil, err
	}
	if int(length) != len(data) {
		return nil, ErrBodyLengthMismatch
	}

	var pkt Packet
	switch kind {
	case KindADVERTISE:
		pkt = &ADVERTISE{}
	case KindSEARCHGW:
		pkt = &SEARCHGW{}
	case KindGWINFO:
		pkt = &GWINFO{}
	case KindCONNECT:
		pkt = &CONNECT{}
	case KindCONNACK:
		pkt = &CONNACK{}
	case KindREGISTER:
		pkt = &REGISTER{}
	case KindREGACK:
		pkt = &REGACK{}
	case KindPUBLISH:
		pkt = &PUBLISH{}
	case KindPUBACK:
		pkt = &PUBACK{}
	case KindSUBSCRIBE:
		pkt = &SUBSCRIBE{}
	case KindSUBACK:
		pkt = &SUBACK{}
	case KindUNSUBSCRIBE:
		pkt = &UNSUBSCRIBE{}
	case KindUNSUBACK:
		pkt = &UNSUBACK{}
	case KindPINGREQ:
		pkt = &PINGREQ{}
	case KindPINGRESP:
		pkt = &PINGRESP{}
	case KindDISCONNECT:
		pkt = &DISCONNECT{}
	default:
		return nil, ErrUnknownKind
	}
	return pkt, pkt.Unpack(buf)
}

// Encode packs p into a single byte slice ready for the transport.
func Encode(p Packet) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)
	if err := p.Pack(buf); err != nil {
		return nil, err
	}
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}
