package packet

import (
	"bytes"
	"io"
)

// PINGRESP answers PINGREQ. Empty body.
type PINGRESP struct{}

func (pkt *PINGRESP) Kind() byte { return KindPINGRESP }

func (pkt *PINGRESP) Pack(w io.Writer) error {
	return (Header{Type: KindPINGRESP}).Pack(w, 0)
}

func (pkt *PINGRESP) Unpack(_ *bytes.Buffer) error {
	return nil
}
