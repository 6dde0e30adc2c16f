package packet

import (
	"bytes"
	"encoding/binary"
	"io"
)

// REGACK completes a REGISTER round trip.
type REGACK struct {
	TopicID    uint16
	MsgID      uint16
	ReturnCode byte
}

func (pkt *REGACK) Kind() byte { return KindREGACK }

func (pkt *REGACK) Pack(w io.Writer) error {
	body := make([]byte, 5)
	binary.BigEndian.PutUint16(body[0:2], pkt.TopicID)
	binary.BigEndian.PutUint16(body[2:4], pkt.MsgID)
	body[4] = pkt.ReturnCode
	if err := (Header{Type: KindREGACK}).Pack(w, len(body)); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

func (pkt *REGACK) Unpack(body *bytes.Buffer) error {
	if body.Len() < 5 {
		return ErrBodyTooShort
	}
	pkt.TopicID = binary.BigEndian.Uint16(body.Next(2))
	pkt.MsgID = binary.BigEndian.Uint16(body.Next(2))
	pkt.ReturnCode = body.Next(1)[0]
	return nil
}
