package packet

import (
	"bytes"
	"encoding/binary"
	"io"
)

// Topic id type codes carried in Flags.TopicIDType.
const (
	TopicIDTypeNormal    uint8 = 0x0
	TopicIDTypePredefined uint8 = 0x1
	TopicIDTypeShortName  uint8 = 0x2
)

// SUBSCRIBE requests delivery of a topic. When Flags.TopicIDType is
// TopicIDTypeNormal the trailing field is TopicName; otherwise it is a
// 2-byte TopicID (predefined id or packed short name). This core only
// originates and accepts the normal (by-name) form; the other encodings
// round-trip but are not acted on (see SPEC_FULL.md §1 Non-goals).
type SUBSCRIBE struct {
	Flags     Flags
	MsgID     uint16
	TopicName []byte
	TopicID   uint16
}

func (pkt *SUBSCRIBE) Kind() byte { return KindSUBSCRIBE }

func (pkt *SUBSCRIBE) Pack(w io.Writer) error {
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
	if err := (Header{Type: KindSUBSCRIBE}).Pack(w, len(body)); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

func (pkt *SUBSCRIBE) Unpack(body *bytes.Buffer) error {
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
