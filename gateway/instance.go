package gateway

import (
	"time"

	"github.com/mqttsn-go/gateway"
	"github.com/mqttsn-go/gateway/packet"
)

// Status is a client instance's liveness state (SPEC_FULL.md §3).
type Status int

const (
	StatusDisconnected Status = iota
	StatusActive
	StatusLost
)

func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "DISCONNECTED"
	case StatusActive:
		return "ACTIVE"
	case StatusLost:
		return "LOST"
	default:
		return "UNKNOWN"
	}
}

// topicSlot is one entry of an instance's fixed-size pub or sub topic
// list. An empty Name marks the slot free.
type topicSlot struct {
	Name  []byte
	TID   uint16
	Flags packet.Flags
}

type instanceInflight struct {
	kind    byte
	payload []byte
	timer   time.Time
	counter int
}

// Instance is one client's registration with this gateway (SPEC_FULL.md
// §3's "Gateway client instance"). An empty ClientID marks the slot free
// (I4).
type Instance struct {
	ClientID  []byte
	Address   mqttsn.Address
	Flags     packet.Flags
	Keepalive time.Duration
	LastIn    time.Time
	Status    Status

	inflight *instanceInflight

	PubTopics [mqttsn.MaxInstanceTopics]topicSlot
	SubTopics [mqttsn.MaxInstanceTopics]topicSlot
}

func (inst *Instance) pubSlotFor(tid uint16) *topicSlot {
	for i := range inst.PubTopics {
		if len(inst.PubTopics[i].Name) > 0 && inst.PubTopics[i].TID == tid {
			return &inst.PubTopics[i]
		}
	}
	return nil
}

func (inst *Instance) freePubSlot() *topicSlot {
	for i := range inst.PubTopics {
		if len(inst.PubTopics[i].Name) == 0 {
			return &inst.PubTopics[i]
		}
	}
	return nil
}

func (inst *Instance) subSlotFor(tid uint16) *topicSlot {
	for i := range inst.SubTopics {
		if len(inst.SubTopics[i].Name) > 0 && inst.SubTopics[i].TID == tid {
			return &inst.SubTopics[i]
		}
	}
	return nil
}

func (inst *Instance) freeSubSlot() *topicSlot {
	for i := range inst.SubTopics {
		if len(inst.SubTopics[i].Name) == 0 {
			return &inst.SubTopics[i]
		}
	}
	return nil
}

func (inst *Instance) hasSub(tid uint16) bool {
	return inst.subSlotFor(tid) != nil
}

func (inst *Instance) removeSubSlot(tid uint16) {
	if slot := inst.subSlotFor(tid); slot != nil {
		*slot = topicSlot{}
	}
}
