package packet

import (
	"bytes"
	"encoding/binary"
	"io"
)

// DISCONNECT ends a session. Duration is nonzero only when a client is
// requesting the ASLEEP state (not implemented by this core; see
// SPEC_FULL.md §10.4) with a wake interval; zero means "no duration field".
type DISCONNECT struct {
	Duration uint16
}

func (pkt *DISCONNECT) Kind() byte { return KindDISCONNECT }

func (pkt *DISCONNECT) Pack(w io.Writer) error {
	if pkt.Duration == 0 {
		return (Header{Type: KindDISCONNECT}).Pack(w, 0)
	}
	body := make([]byte, 2)
	binary.BigEndian.PutUint16(body, pkt.Duration)
	if err := (Header{Type: KindDISCONNECT}).Pack(w, len(body)); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

func (pkt *DISCONNECT) Unpack(body *bytes.Buffer) error {
	if body.Len() == 0 {
		pkt.Duration = 0
		return nil
	}
	if body.Len() < 2 {
		return ErrBodyTooShort
	}
	pkt.Duration = binary.BigEndian.Uint16(body.Next(2))
	return nil
}
