package packet

import (
	"bytes"
	"encoding/binary"
	"io"
)

// PUBACK acknowledges a PUBLISH. Reserved for QoS 1/2 use; the core never
// emits one for its own QoS 0 traffic but a peer sending it is parsed.
type PUBACK struct {
	TopicID    uint16
	MsgID      uint16
	ReturnCode byte
}

func (pkt *PUBACK) Kind() byte { return KindPUBACK }

func (pkt *PUBACK) Pack(w io.Writer) error {
	body := make([]byte, 5)
	binary.BigEndian.PutUint16(body[0:2], pkt.TopicID)
	binary.BigEndian.PutUint16(body[2:4], pkt.MsgID)
	body[4] = pkt.ReturnCode
	if err := (Header{Type: KindPUBACK}).Pack(w, len(body)); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

func (pkt *PUBACK) Unpack(body *bytes.Buffer) error {
	if body.Len() < 5 {
		return ErrBodyTooShort
	}
	pkt.TopicID = binary.BigEndian.Uint16(body.Next(2))
	pkt.MsgID = binary.BigEndian.Uint16(body.Next(2))
	pkt.ReturnCode = body.Next(1)[0]
	return nil
}
