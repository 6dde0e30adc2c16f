package packet

import (
	"bytes"
	"testing"
)

func TestHeaderPack(t *testing.T) {
	t.Run("typical body", func(t *testing.T) {
		var buf bytes.Buffer
		if err := (Header{Type: KindPINGRESP}).Pack(&buf, 0); err != nil {
			t.Fatalf("Pack: %v", err)
		}
		if got := buf.Bytes(); !bytes.Equal(got, []byte{2, KindPINGRESP}) {
			t.Fatalf("got % x, want % x", got, []byte{2, KindPINGRESP})
		}
	})

	t.Run("body too large", func(t *testing.T) {
		var buf bytes.Buffer
		err := (Header{Type: KindPUBLISH}).Pack(&buf, 254)
		if err != ErrPacketTooLong {
			t.Fatalf("err = %v, want ErrPacketTooLong", err)
		}
	})
}

func TestParseHeader(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		buf := bytes.NewBuffer([]byte{8, KindPUBLISH, 1, 2, 3, 4, 5, 6})
		length, kind, err := ParseHeader(buf)
		if err != nil {
			t.Fatalf("ParseHeader: %v", err)
		}
		if length != 8 || kind != KindPUBLISH {
			t.Fatalf("length=%d kind=%d", length, kind)
		}
		if buf.Len() != 6 {
			t.Fatalf("buf.Len() = %d, want 6", buf.Len())
		}
	})

	t.Run("too short", func(t *testing.T) {
		buf := bytes.NewBuffer([]byte{8})
		if _, _, err := ParseHeader(buf); err != ErrHeaderTooShort {
			t.Fatalf("err = %v, want ErrHeaderTooShort", err)
		}
	})

	for _, reserved := range []byte{0, 1} {
		reserved := reserved
		t.Run("reserved length byte", func(t *testing.T) {
			buf := bytes.NewBuffer([]byte{reserved, KindPUBLISH})
			if _, _, err := ParseHeader(buf); err != ErrReservedLength {
				t.Fatalf("err = %v, want ErrReservedLength", err)
			}
		})
	}
}
