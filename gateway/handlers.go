package gateway

import (
	"log"
	"time"

	"github.com/mqttsn-go/gateway"
	"github.com/mqttsn-go/gateway/packet"
)

// dispatch routes one decoded inbound packet (SPEC_FULL.md §4.4): a
// well-formed packet is looked up by type code and handled; unknown
// types are silently dropped.
func (e *Engine) dispatch(pkt packet.Packet, src mqttsn.Address, now time.Time) {
	switch p := pkt.(type) {
	case *packet.SEARCHGW:
		e.handleSearchGW(p)
	case *packet.CONNECT:
		e.handleConnect(p, src, now)
	case *packet.REGISTER:
		e.handleRegister(p, src, now)
	case *packet.SUBSCRIBE:
		e.handleSubscribe(p, src, now)
	case *packet.UNSUBSCRIBE:
		e.handleUnsubscribe(p, src, now)
	case *packet.PUBLISH:
		e.handlePublish(p, src, now)
	case *packet.PINGREQ:
		e.handlePingreq(p, src, now)
	}
}

func (e *Engine) handleSearchGW(_ *packet.SEARCHGW) {
	data, err := packet.Encode(&packet.GWINFO{GwID: e.GwID})
	if err != nil {
		return
	}
	e.broadcast(data)
}

// handleConnect implements SPEC_FULL.md §4.3's CONNECT contract: an
// existing instance for the source address is overwritten in place
// (re-registration, per §9's recorded Open-Question decision); otherwise
// a free slot is allocated, or CONGESTION if none remains.
func (e *Engine) handleConnect(pkt *packet.CONNECT, src mqttsn.Address, now time.Time) {
	if len(pkt.ClientID) == 0 {
		return
	}
	inst := e.findInstance(src)
	if inst == nil {
		inst = e.allocInstance()
		if inst == nil {
			e.sendConnack(src, packet.RCCongestion)
			return
		}
	}
	inst.ClientID = append([]byte(nil), pkt.ClientID...)
	inst.Address = append(mqttsn.Address(nil), src...)
	inst.Flags = pkt.Flags
	inst.Keepalive = time.Duration(pkt.Duration) * time.Second
	if inst.Keepalive == 0 {
		inst.Keepalive = mqttsn.DefaultKeepAlive
	}
	inst.LastIn = now
	inst.inflight = nil
	inst.PubTopics = [mqttsn.MaxInstanceTopics]topicSlot{}
	inst.SubTopics = [mqttsn.MaxInstanceTopics]topicSlot{}
	inst.Status = StatusActive
	log.Printf("[GATEWAY_CONNECT] client_id=%s addr=%s", inst.ClientID, src)
	e.sendConnack(src, packet.RCAccepted)
}

func (e *Engine) sendConnack(dest mqttsn.Address, rc byte) {
	data, err := packet.Encode(&packet.CONNACK{ReturnCode: rc})
	if err != nil {
		return
	}
	e.send(data, dest)
}

func (e *Engine) handleRegister(pkt *packet.REGISTER, src mqttsn.Address, now time.Time) {
	inst := e.findInstance(src)
	if inst == nil || pkt.TopicID != 0 {
		return
	}
	inst.LastIn = now
	tid, allocated := e.topics.idFor(pkt.TopicName)
	if tid == 0 {
		return // registry full or name too long: dropped without a reply (§7)
	}
	if allocated && e.metrics != nil {
		e.metrics.TopicRegistered.Inc()
	}
	slot := inst.pubSlotFor(tid)
	if slot == nil {
		slot = inst.freePubSlot()
		if slot == nil {
			e.sendRegack(src, tid, pkt.MsgID, packet.RCCongestion)
			return
		}
		slot.Name = append([]byte(nil), pkt.TopicName...)
		slot.TID = tid
	}
	e.sendRegack(src, tid, pkt.MsgID, packet.RCAccepted)
}

func (e *Engine) sendRegack(dest mqttsn.Address, tid, msgID uint16, rc byte) {
	data, err := packet.Encode(&packet.REGACK{TopicID: tid, MsgID: msgID, ReturnCode: rc})
	if err != nil {
		return
	}
	e.send(data, dest)
}

func (e *Engine) handleSubscribe(pkt *packet.SUBSCRIBE, src mqttsn.Address, now time.Time) {
	inst := e.findInstance(src)
	if inst == nil {
		return
	}
	inst.LastIn = now
	if pkt.Flags.TopicIDType != packet.TopicIDTypeNormal {
		e.sendSuback(src, pkt.Flags, 0, pkt.MsgID, packet.RCNotSupported)
		return
	}
	tid, allocated := e.topics.idFor(pkt.TopicName)
	if tid == 0 {
		e.sendSuback(src, pkt.Flags, 0, pkt.MsgID, packet.RCCongestion)
		return
	}
	if allocated && e.metrics != nil {
		e.metrics.TopicRegistered.Inc()
	}
	slot := inst.subSlotFor(tid)
	if slot == nil {
		slot = inst.freeSubSlot()
		if slot == nil {
			e.sendSuback(src, pkt.Flags, tid, pkt.MsgID, packet.RCCongestion)
			return
		}
		slot.Name = append([]byte(nil), pkt.TopicName...)
		slot.TID = tid
	}
	slot.Flags = pkt.Flags
	e.sendSuback(src, pkt.Flags, tid, pkt.MsgID, packet.RCAccepted)
	e.addSubscription(tid, pkt.Flags.QoS)
}

func (e *Engine) sendSuback(dest mqttsn.Address, flags packet.Flags, tid, msgID uint16, rc byte) {
	data, err := packet.Encode(&packet.SUBACK{Flags: flags, TopicID: tid, MsgID: msgID, ReturnCode: rc})
	if err != nil {
		return
	}
	e.send(data, dest)
}

// addSubscription implements SPEC_FULL.md §4.3's aggregation rule: the
// first subscriber triggers an upstream SUBSCRIBE; a later one only
// re-subscribes when it asks for strictly higher qos (P8).
func (e *Engine) addSubscription(tid uint16, qos byte) {
	m := e.topics.byID(tid)
	if m == nil {
		return
	}
	if !m.SubscribedUpstream {
		if e.Broker != nil {
			if err := e.Broker.Subscribe(string(m.Name), qos); err != nil {
				log.Printf("[GATEWAY_UPSTREAM_SUBSCRIBE_ERROR] topic=%s %v", m.Name, err)
			}
		}
		m.SubscribedUpstream = true
		m.SubQoS = qos
		return
	}
	if qos > m.SubQoS {
		if e.Broker != nil {
			if err := e.Broker.Subscribe(string(m.Name), qos); err != nil {
				log.Printf("[GATEWAY_UPSTREAM_SUBSCRIBE_ERROR] topic=%s %v", m.Name, err)
			}
		}
		m.SubQoS = qos
	}
}

func (e *Engine) handleUnsubscribe(pkt *packet.UNSUBSCRIBE, src mqttsn.Address, now time.Time) {
	inst := e.findInstance(src)
	if inst == nil {
		return
	}
	inst.LastIn = now
	var tid uint16
	if pkt.Flags.TopicIDType == packet.TopicIDTypeNormal {
		tid = e.topics.lookup(pkt.TopicName)
	} else {
		tid = pkt.TopicID
	}
	if tid != 0 {
		inst.removeSubSlot(tid)
	}
	e.sendUnsuback(src, pkt.MsgID)
	if tid != 0 && !e.anySubscribed(tid) {
		e.deleteSubscription(tid)
	}
}

func (e *Engine) sendUnsuback(dest mqttsn.Address, msgID uint16) {
	data, err := packet.Encode(&packet.UNSUBACK{MsgID: msgID})
	if err != nil {
		return
	}
	e.send(data, dest)
}

func (e *Engine) anySubscribed(tid uint16) bool {
	for i := range e.instances {
		if e.instances[i].ClientID != nil && e.instances[i].hasSub(tid) {
			return true
		}
	}
	return false
}

// deleteSubscription implements the other half of P8: an upstream
// UNSUBSCRIBE is issued only once the last client subscriber is gone.
func (e *Engine) deleteSubscription(tid uint16) {
	m := e.topics.byID(tid)
	if m == nil || !m.SubscribedUpstream {
		return
	}
	if e.Broker != nil {
		if err := e.Broker.Unsubscribe(string(m.Name)); err != nil {
			log.Printf("[GATEWAY_UPSTREAM_UNSUBSCRIBE_ERROR] topic=%s %v", m.Name, err)
		}
	}
	m.SubscribedUpstream = false
	m.SubQoS = 0
}

func (e *Engine) handlePublish(pkt *packet.PUBLISH, src mqttsn.Address, now time.Time) {
	inst := e.findInstance(src)
	if inst == nil {
		return
	}
	inst.LastIn = now
	if pkt.MsgID != 0 {
		return
	}
	name := e.topics.nameFor(pkt.TopicID)
	if name == nil {
		return
	}
	if e.Broker != nil && e.Broker.Connected() {
		if err := e.Broker.Publish(string(name), pkt.Data, pkt.Flags.QoS, pkt.Flags.Retain); err != nil {
			log.Printf("[GATEWAY_UPSTREAM_PUBLISH_ERROR] topic=%s %v", name, err)
		}
		return
	}
	data, err := packet.Encode(pkt)
	if err != nil {
		return
	}
	if dropped := e.queue.push(data, pkt.TopicID); dropped && e.metrics != nil {
		e.metrics.PublishQueueDrops.Inc()
	}
}

func (e *Engine) handlePingreq(_ *packet.PINGREQ, src mqttsn.Address, now time.Time) {
	inst := e.findInstance(src)
	if inst == nil {
		return
	}
	inst.LastIn = now
	data, err := packet.Encode(&packet.PINGRESP{})
	if err != nil {
		return
	}
	e.send(data, src)
}
