package packet

import (
	"bytes"
	"encoding/binary"
	"io"
)

// PUBLISH carries application data under a previously registered topic id.
// Only QoS 0 is exercised by this core (see SPEC_FULL.md §1 Non-goals);
// MsgID is 0 for QoS 0 and the codec still round-trips nonzero values so a
// future QoS 1/2 ladder has a wire-compatible home.
type PUBLISH struct {
	Flags   Flags
	TopicID uint16
	MsgID   uint16
	Data    []byte
}

func (pkt *PUBLISH) Kind() byte { return KindPUBLISH }

func (pkt *PUBLISH) Pack(w io.Writer) error {
	data := pkt.Data
	maxData := MaxMsgLen - HeaderLen - 5
	if len(data) > maxData {
		data = data[:maxData]
	}
	body := make([]byte, 5, 5+len(data))
	body[0] = pkt.Flags.Pack()
	binary.BigEndian.PutUint16(body[1:3], pkt.TopicID)
	binary.BigEndian.PutUint16(body[3:5], pkt.MsgID)
	body = append(body, data...)
	if err := (Header{Type: KindPUBLISH}).Pack(w, len(body)); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

func (pkt *PUBLISH) Unpack(body *bytes.Buffer) error {
	if body.Len() < 5 {
		return ErrBodyTooShort
	}
	pkt.Flags = UnpackFlags(body.Next(1)[0])
	pkt.TopicID = binary.BigEndian.Uint16(body.Next(2))
	pkt.MsgID = binary.BigEndian.Uint16(body.Next(2))
	pkt.Data = append([]byte(nil), body.Bytes()...)
	return nil
}
