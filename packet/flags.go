package packet

// Flags is the one-byte bitfield carried by CONNECT, PUBLISH, SUBSCRIBE,
// SUBACK and UNSUBSCRIBE:
//
//	bit:  7    6    5    4    3      2 1       0
//	     DUP  QoS  QoS Retain Will  CleanSession  (continued below)
//
// Layout (MSB to LSB): Dup(1) QoS(2) Retain(1) Will(1) CleanSession(1) TopicIDType(2).
type Flags struct {
	Dup          bool
	QoS          uint8 // 0-3, stored in 2 bits; values 2/3 are protocol-reserved for this core but round-trip faithfully
	Retain       bool
	Will         bool
	CleanSession bool
	TopicIDType  uint8 // 0=normal topic id, 1=predefined, 2=short name; 2 bits
}

func (f Flags) Pack() byte {
	var b byte
	if f.Dup {
		b |= 1 << 7
	}
	b |= (f.QoS & 0x3) << 5
	if f.Retain {
		b |= 1 << 4
	}
	if f.Will {
		b |= 1 << 3
	}
	if f.CleanSession {
		b |= 1 << 2
	}
	b |= f.TopicIDType & 0x3
	return b
}

func UnpackFlags(b byte) Flags {
	return Flags{
		Dup:          b&(1<<7) != 0,
		QoS:          (b >> 5) & 0x3,
		Retain:       b&(1<<4) != 0,
		Will:         b&(1<<3) != 0,
		CleanSession: b&(1<<2) != 0,
		TopicIDType:  b & 0x3,
	}
}
