package packet

import (
	"bytes"
	"encoding/binary"
	"io"
)

// ProtocolID is the only value the protocol_id field of CONNECT may carry.
const ProtocolID byte = 0x01

// CONNECT opens a session with a gateway. ClientID is truncated on Pack to
// MaxClientIDLen and rejected on Unpack if the wire value is longer.
type CONNECT struct {
	Flags    Flags
	Duration uint16
	ClientID []byte
}

func (pkt *CONNECT) Kind() byte { return KindCONNECT }

func (pkt *CONNECT) Pack(w io.Writer) error {
	clientID := pkt.ClientID
	if len(clientID) > MaxClientIDLen {
		clientID = clientID[:MaxClientIDLen]
	}
	body := make([]byte, 4, 4+len(clientID))
	body[0] = pkt.Flags.Pack()
	body[1] = ProtocolID
	binary.BigEndian.PutUint16(body[2:4], pkt.Duration)
	body = append(body, clientID...)
	if err := (Header{Type: KindCONNECT}).Pack(w, len(body)); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

func (pkt *CONNECT) Unpack(body *bytes.Buffer) error {
	if body.Len() < 4 {
		return ErrBodyTooShort
	}
	pkt.Flags = UnpackFlags(body.Next(1)[0])
	if protocolID := body.Next(1)[0]; protocolID != ProtocolID {
		return ErrProtocolIDMismatch
	}
	pkt.Duration = binary.BigEndian.Uint16(body.Next(2))
	if body.Len() > MaxClientIDLen {
		return ErrClientIDTooLong
	}
	pkt.ClientID = append([]byte(nil), body.Bytes()...)
	return nil
}
