package packet

import (
	"bytes"
	"encoding/binary"
	"io"
)

// UNSUBACK completes an UNSUBSCRIBE round trip.
type UNSUBACK struct {
	MsgID uint16
}

func (pkt *UNSUBACK) Kind() byte { return KindUNSUBACK }

func (pkt *UNSUBACK) Pack(w io.Writer) error {
	body := make([]byte, 2)
	binary.BigEndian.PutUint16(body, pkt.MsgID)
	if err := (Header{Type: KindUNSUBACK}).Pack(w, len(body)); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

func (pkt *UNSUBACK) Unpack(body *bytes.Buffer) error {
	if body.Len() < 2 {
		return ErrBodyTooShort
	}
	pkt.MsgID = binary.BigEndian.Uint16(body.Next(2))
	return nil
}
