package packet

import (
	"bytes"
	"encoding/binary"
	"io"
)

// UNSUBSCRIBE mirrors SUBSCRIBE's trailing-field encoding; see its doc
// comment for the TopicIDType split.
type UNSUBSCRIBE struct {
	Flags     Flags
	MsgID     uint16
	TopicName []byte
	TopicID   uint16
}

func (pkt *UNSUBSCRIBE) Kind() byte { return KindUNSUBSCRIBE }

func (pkt *UNSUBSCRIBE) Pack(w io.Writer) error {
	body := make([]byte, 3)
	body[0] = pkt.Flags.Pack()
	binary.BigEndian.PutUint16(body[1:3], pkt.MsgID)
	if pkt.Flags.TopicIDType == TopicIDTypeNormal {
		name := pkt.TopicName
		if len(name) > MaxTopicNameLen+2 {
			name = name[:MaxTopicNameLen+2]
		}
		body = append(body, name...)
	} else {
		tid := make([]byte, 2)
		binary.BigEndian.PutUint16(tid, pkt.TopicID)
		body = append(body, tid...)
	}
	if err := (Header{Type: KindUNSUBSCRIBE}).Pack(w, len(body)); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

func (pkt *UNSUBSCRIBE) Unpack(body *bytes.Buffer) error {
	if body.Len() < 3 {
		return ErrBodyTooShort
	}
	pkt.Flags = UnpackFlags(body.Next(1)[0])
	pkt.MsgID = binary.BigEndian.Uint16(body.Next(2))
	if pkt.Flags.TopicIDType == TopicIDTypeNormal {
		pkt.TopicName = append([]byte(nil), body.Bytes()...)
		pkt.TopicID = 0
	} else {
		if body.Len() < 2 {
			return ErrBodyTooShort
		}
		pkt.TopicID = binary.BigEndian.Uint16(body.Next(2))
		pkt.TopicName = nil
	}
	return nil
}
