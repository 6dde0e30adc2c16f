package packet

import (
	"bytes"
	"encoding/binary"
	"io"
)

// SUBACK completes a SUBSCRIBE round trip; Flags carries the granted QoS.
type SUBACK struct {
	Flags      Flags
	TopicID    uint16
	MsgID      uint16
	ReturnCode byte
}

func (pkt *SUBACK) Kind() byte { return KindSUBACK }

func (pkt *SUBACK) Pack(w io.Writer) error {
	body := make([]byte, 6)
	body[0] = pkt.Flags.Pack()
	binary.BigEndian.PutUint16(body[1:3], pkt.TopicID)
	binary.BigEndian.PutUint16(body[3:5], pkt.MsgID)
	body[5] = pkt.ReturnCode
	if err := (Header{Type: KindSUBACK}).Pack(w, len(body)); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

func (pkt *SUBACK) Unpack(body *bytes.Buffer) error {
	if body.Len() < 6 {
		return ErrBodyTooShort
	}
	pkt.Flags = UnpackFlags(body.Next(1)[0])
	pkt.TopicID = binary.BigEndian.Uint16(body.Next(2))
	pkt.MsgID = binary.BigEndian.Uint16(body.Next(2))
	pkt.ReturnCode = body.Next(1)[0]
	return nil
}
