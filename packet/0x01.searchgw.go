package packet

import (
	"bytes"
	"io"
)

// SEARCHGW is broadcast by a client discovering gateways; radius bounds
// how far (in broadcast hops, transport-defined) the search should reach.
type SEARCHGW struct {
	Radius byte
}

func (pkt *SEARCHGW) Kind() byte { return KindSEARCHGW }

func (pkt *SEARCHGW) Pack(w io.Writer) error {
	if err := (Header{Type: KindSEARCHGW}).Pack(w, 1); err != nil {
		return err
	}
	_, err := w.Write([]byte{pkt.Radius})
	return err
}

func (pkt *SEARCHGW) Unpack(body *bytes.Buffer) error {
	if body.Len() < 1 {
		return ErrBodyTooShort
	}
	pkt.Radius = body.Next(1)[0]
	return nil
}
