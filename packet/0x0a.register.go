package packet

import (
	"bytes"
	"encoding/binary"
	"io"
)

// REGISTER asks the peer to assign (or announce) a topic id for TopicName.
// Sent by a client registering a pub-topic, and by a gateway announcing an
// id it assigned on the upstream side. TopicID is 0 when the sender does
// not yet know the id (the client case); nonzero when the gateway informs
// the client of an id it picked.
type REGISTER struct {
	TopicID   uint16
	MsgID     uint16
	TopicName []byte
}

func (pkt *REGISTER) Kind() byte { return KindREGISTER }

func (pkt *REGISTER) Pack(w io.Writer) error {
	name := pkt.TopicName
	if len(name) > MaxTopicNameLen {
		name = name[:MaxTopicNameLen]
	}
	body := make([]byte, 4, 4+len(name))
	binary.BigEndian.PutUint16(body[0:2], pkt.TopicID)
	binary.BigEndian.PutUint16(body[2:4], pkt.MsgID)
	body = append(body, name...)
	if err := (Header{Type: KindREGISTER}).Pack(w, len(body)); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

func (pkt *REGISTER) Unpack(body *bytes.Buffer) error {
	if body.Len() < 4 {
		return ErrBodyTooShort
	}
	pkt.TopicID = binary.BigEndian.Uint16(body.Next(2))
	pkt.MsgID = binary.BigEndian.Uint16(body.Next(2))
	pkt.TopicName = append([]byte(nil), body.Bytes()...)
	return nil
}
