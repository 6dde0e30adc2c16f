package packet

import (
	"bytes"
	"io"
)

// CONNACK answers CONNECT with one of the RC* return codes.
type CONNACK struct {
	ReturnCode byte
}

func (pkt *CONNACK) Kind() byte { return KindCONNACK }

func (pkt *CONNACK) Pack(w io.Writer) error {
	if err := (Header{Type: KindCONNACK}).Pack(w, 1); err != nil {
		return err
	}
	_, err := w.Write([]byte{pkt.ReturnCode})
	return err
}

func (pkt *CONNACK) Unpack(body *bytes.Buffer) error {
	if body.Len() < 1 {
		return ErrBodyTooShort
	}
	pkt.ReturnCode = body.Next(1)[0]
	return nil
}
