package client

import (
	"time"

	"github.com/mqttsn-go/gateway"
	"github.com/mqttsn-go/gateway/packet"
)

// dispatch routes one decoded inbound packet. Broadcast message types
// (ADVERTISE, SEARCHGW, GWINFO) are accepted from any source; everything
// else must come from CurrGateway or is silently dropped (SPEC_FULL.md §4.2
// reply-matching rule (a): wrong source).
func (s *Session) dispatch(pkt packet.Packet, src mqttsn.Address, now time.Time) {
	switch p := pkt.(type) {
	case *packet.ADVERTISE:
		s.handleAdvertise(p, src)
		return
	case *packet.SEARCHGW:
		s.handleSearchGW(now)
		return
	case *packet.GWINFO:
		s.handleGWInfo(p, src, now)
		return
	}

	if s.CurrGateway == nil || !src.Equal(s.CurrGateway.GwAddr) {
		return
	}

	switch p := pkt.(type) {
	case *packet.CONNACK:
		s.handleConnack(p, now)
	case *packet.REGACK:
		s.handleRegack(p, now)
	case *packet.SUBACK:
		s.handleSuback(p, now)
	case *packet.UNSUBACK:
		s.handleUnsuback(p, now)
	case *packet.PUBLISH:
		s.handlePublish(p, now)
	case *packet.PINGRESP:
		s.handlePingresp(now)
	}
}

func (s *Session) handleAdvertise(p *packet.ADVERTISE, src mqttsn.Address) {
	for _, g := range s.Gateways {
		if g.GwID == p.GwID {
			g.Available = true
			return
		}
	}
	s.Gateways = append(s.Gateways, &GatewayInfo{GwID: p.GwID, GwAddr: src, Available: true})
}

// handleSearchGW observes a peer's SEARCHGW broadcast and, per
// SPEC_FULL.md §5, restarts our own pending discovery delay so that many
// clients searching at once don't all broadcast in lockstep.
func (s *Session) handleSearchGW(now time.Time) {
	if s.State == StateSearching && s.SearchGWPending {
		s.SearchGWDeadline = now.Add(randDuration(mqttsn.TSearchGW))
	}
}

func (s *Session) handleGWInfo(p *packet.GWINFO, src mqttsn.Address, now time.Time) {
	for _, g := range s.Gateways {
		if g.GwID == p.GwID {
			return
		}
	}
	addr := src
	if len(p.GwAdd) > 0 {
		addr = mqttsn.Address(p.GwAdd)
	}
	s.Gateways = append(s.Gateways, &GatewayInfo{GwID: p.GwID, GwAddr: addr, Available: true})
	// We've gotten a GWINFO but stay in SEARCHING until the app calls
	// Connect (mqttsn_client.py's _handle_gwinfo deliberately skips the
	// DISCONNECTED transition here).
	s.SearchGWPending = false
}

func (s *Session) handleConnack(p *packet.CONNACK, now time.Time) {
	if s.inflight == nil || s.inflight.kind != packet.KindCONNECT {
		return
	}
	s.inflight = nil
	s.LastIn = now
	if p.ReturnCode == packet.RCAccepted {
		s.State = StateActive
		s.LastOut = now
		s.PingRespPending = false
		if s.CurrGateway != nil {
			s.CurrGateway.Available = true
		}
		return
	}
	// CONNECTING -> DISCONNECTED on a rejecting return_code: this is the
	// one reply-matching exception that consumes inflight even though the
	// return code isn't ACCEPTED (SPEC_FULL.md §4.2's transition table).
	s.State = StateDisconnected
}

func (s *Session) handleRegack(p *packet.REGACK, now time.Time) {
	if s.inflight == nil || s.inflight.kind != packet.KindREGISTER || p.MsgID != s.inflight.msgID {
		return
	}
	if p.ReturnCode != packet.RCAccepted {
		return // silently dropped: inflight stays armed for retry
	}
	idx := s.inflight.topicIndex
	if idx >= 0 && idx < len(s.PubTopics) {
		s.PubTopics[idx].TID = p.TopicID
	}
	s.inflight = nil
	s.LastIn = now
}

func (s *Session) handleSuback(p *packet.SUBACK, now time.Time) {
	if s.inflight == nil || s.inflight.kind != packet.KindSUBSCRIBE || p.MsgID != s.inflight.msgID {
		return
	}
	if p.ReturnCode != packet.RCAccepted {
		return
	}
	idx := s.inflight.topicIndex
	if idx >= 0 && idx < len(s.SubTopics) {
		s.SubTopics[idx].TID = p.TopicID
	}
	s.inflight = nil
	s.LastIn = now
}

func (s *Session) handleUnsuback(p *packet.UNSUBACK, now time.Time) {
	if s.inflight == nil || s.inflight.kind != packet.KindUNSUBSCRIBE || p.MsgID != s.inflight.msgID {
		return
	}
	idx := s.inflight.topicIndex
	if idx >= 0 && idx < len(s.SubTopics) {
		s.SubTopics = append(s.SubTopics[:idx], s.SubTopics[idx+1:]...)
	}
	s.inflight = nil
	s.LastIn = now
}

// handlePublish delivers an inbound PUBLISH. Only QoS 0 is handled
// (SPEC_FULL.md Non-goals): a nonzero msg_id is dropped.
func (s *Session) handlePublish(p *packet.PUBLISH, now time.Time) {
	s.LastIn = now
	if p.MsgID != 0 {
		return
	}
	for _, t := range s.SubTopics {
		if t.TID == p.TopicID {
			if s.onMessage != nil {
				s.onMessage(t.Name, p.Data, p.Flags)
			}
			return
		}
	}
}

func (s *Session) handlePingresp(now time.Time) {
	s.PingRespPending = false
	s.LastIn = now
}
