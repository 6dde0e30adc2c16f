package packet

import (
	"bytes"
	"io"
)

// PINGREQ keeps a session alive. ClientID is only present when a sleeping
// client is checking for buffered messages, which this core does not
// implement (see SPEC_FULL.md §10.4); it still round-trips.
type PINGREQ struct {
	ClientID []byte
}

func (pkt *PINGREQ) Kind() byte { return KindPINGREQ }

func (pkt *PINGREQ) Pack(w io.Writer) error {
	clientID := pkt.ClientID
	if len(clientID) > MaxClientIDLen {
		clientID = clientID[:MaxClientIDLen]
	}
	if err := (Header{Type: KindPINGREQ}).Pack(w, len(clientID)); err != nil {
		return err
	}
	_, err := w.Write(clientID)
	return err
}

func (pkt *PINGREQ) Unpack(body *bytes.Buffer) error {
	if body.Len() == 0 {
		pkt.ClientID = nil
		return nil
	}
	pkt.ClientID = append([]byte(nil), body.Bytes()...)
	return nil
}
