package packet

import (
	"bytes"
	"encoding/binary"
	"io"
)

// ADVERTISE is broadcast periodically by a gateway to announce its
// presence; duration is the interval (seconds) until the next ADVERTISE.
type ADVERTISE struct {
	GwID     byte
	Duration uint16
}

func (pkt *ADVERTISE) Kind() byte { return KindADVERTISE }

func (pkt *ADVERTISE) Pack(w io.Writer) error {
	body := make([]byte, 3)
	body[0] = pkt.GwID
	binary.BigEndian.PutUint16(body[1:], pkt.Duration)
	if err := (Header{Type: KindADVERTISE}).Pack(w, len(body)); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

func (pkt *ADVERTISE) Unpack(body *bytes.Buffer) error {
	if body.Len() < 3 {
		return ErrBodyTooShort
	}
	pkt.GwID = body.Next(1)[0]
	pkt.Duration = binary.BigEndian.Uint16(body.Next(2))
	return nil
}
