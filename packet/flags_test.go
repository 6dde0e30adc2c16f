package packet

import "testing"

func TestFlagsRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		in   Flags
	}{
		{"zero", Flags{}},
		{"dup+qos2+retain", Flags{Dup: true, QoS: 2, Retain: true}},
		{"will+clean", Flags{Will: true, CleanSession: true}},
		{"short-name", Flags{TopicIDType: TopicIDTypeShortName}},
		{"all-bits", Flags{Dup: true, QoS: 3, Retain: true, Will: true, CleanSession: true, TopicIDType: 0x3}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := UnpackFlags(c.in.Pack())
			if got != c.in {
				t.Fatalf("round-trip mismatch: got %+v, want %+v", got, c.in)
			}
		})
	}
}

func TestFlagsPackBits(t *testing.T) {
	f := Flags{Dup: true, QoS: 1, Retain: true, Will: true, CleanSession: true, TopicIDType: 0x1}
	got := f.Pack()
	want := byte(1<<7 | 1<<5 | 1<<4 | 1<<3 | 1<<2 | 0x1)
	if got != want {
		t.Fatalf("Pack() = %08b, want %08b", got, want)
	}
}
