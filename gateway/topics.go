package gateway

import (
	"bytes"

	"github.com/mqttsn-go/gateway"
	"github.com/mqttsn-go/gateway/packet"
)

// topicMapping is one entry of the gateway's fixed-size topic-name
// registry (SPEC_FULL.md §3's "Gateway topic mapping"). An empty Name
// marks the slot free.
type topicMapping struct {
	Name               []byte
	TID                uint16
	SubscribedUpstream bool
	SubQoS             byte
}

// topicRegistry is the fixed-size array backing gateway-wide topic id
// allocation (SPEC_FULL.md §4.3). Slot index i, when occupied, always
// carries tid = i+1, which by construction skips both reserved sentinels
// (0 and 0xFFFF) since the array has MaxGatewayTopics <= 0xFFFE slots.
type topicRegistry struct {
	mappings [mqttsn.MaxGatewayTopics]topicMapping
}

// idFor returns name's existing topic id, allocating a new slot on first
// use (mqttsn_gateway.py's _get_topic_id: lookup, then allocate). Returns
// 0 if name exceeds the wire length ceiling or the registry is full.
// allocated reports whether this call created a fresh mapping.
func (r *topicRegistry) idFor(name []byte) (tid uint16, allocated bool) {
	if len(name) > packet.MaxTopicNameLen {
		return 0, false
	}
	for i := range r.mappings {
		if len(r.mappings[i].Name) > 0 && bytes.Equal(r.mappings[i].Name, name) {
			return r.mappings[i].TID, false
		}
	}
	for i := range r.mappings {
		if len(r.mappings[i].Name) == 0 {
			r.mappings[i].Name = append([]byte(nil), name...)
			r.mappings[i].TID = uint16(i + 1)
			return r.mappings[i].TID, true
		}
	}
	return 0, false
}

// lookup returns name's topic id without allocating, or 0 if unknown.
func (r *topicRegistry) lookup(name []byte) uint16 {
	for i := range r.mappings {
		if len(r.mappings[i].Name) > 0 && bytes.Equal(r.mappings[i].Name, name) {
			return r.mappings[i].TID
		}
	}
	return 0
}

func (r *topicRegistry) byID(tid uint16) *topicMapping {
	for i := range r.mappings {
		if len(r.mappings[i].Name) > 0 && r.mappings[i].TID == tid {
			return &r.mappings[i]
		}
	}
	return nil
}

func (r *topicRegistry) nameFor(tid uint16) []byte {
	if m := r.byID(tid); m != nil {
		return m.Name
	}
	return nil
}

type queueItem struct {
	data    []byte
	topicID uint16
}

// publishQueue is the bounded FIFO backing local fan-out (SPEC_FULL.md
// §4.3/§5): oldest entry is dropped to make room when full.
type publishQueue struct {
	items []queueItem
}

// push appends an entry, dropping the oldest when full. dropped reports
// whether an entry was discarded to make room.
func (q *publishQueue) push(data []byte, topicID uint16) (dropped bool) {
	if len(q.items) >= mqttsn.MaxQueuedPublish {
		q.items = q.items[1:]
		dropped = true
	}
	q.items = append(q.items, queueItem{data: data, topicID: topicID})
	return dropped
}

func (q *publishQueue) drain() []queueItem {
	items := q.items
	q.items = nil
	return items
}
