package packet

import (
	"bytes"
	"io"
)

// GWINFO answers SEARCHGW. GwAdd is empty when the gateway itself is
// replying (the source address identifies it); a non-empty GwAdd is used
// when a client relays information about a gateway it already knows.
type GWINFO struct {
	GwID  byte
	GwAdd []byte
}

func (pkt *GWINFO) Kind() byte { return KindGWINFO }

func (pkt *GWINFO) Pack(w io.Writer) error {
	gwAdd := pkt.GwAdd
	if len(gwAdd) > GWAddrLen {
		gwAdd = gwAdd[:GWAddrLen]
	}
	body := append([]byte{pkt.GwID}, gwAdd...)
	if err := (Header{Type: KindGWINFO}).Pack(w, len(body)); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

func (pkt *GWINFO) Unpack(body *bytes.Buffer) error {
	if body.Len() < 1 {
		return ErrBodyTooShort
	}
	pkt.GwID = body.Next(1)[0]
	if body.Len() > 0 {
		pkt.GwAdd = append([]byte(nil), body.Bytes()...)
	} else {
		pkt.GwAdd = nil
	}
	return nil
}
