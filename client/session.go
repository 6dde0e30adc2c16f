// Package client implements the MQTT-SN client session state machine
// (SPEC_FULL.md §3, §4.2): discovery, connect, register, subscribe,
// publish, keep-alive and single-in-flight retry, all driven by a caller
// that calls Loop periodically with a monotonic clock reading.
package client

import (
	"bytes"
	"math/rand"
	"time"

	"github.com/mqttsn-go/gateway"
	"github.com/mqttsn-go/gateway/packet"
)

// Transport is the nonblocking datagram collaborator a Session is driven
// over. transport.UDP and transport.Memory both satisfy it structurally.
type Transport interface {
	ReadPacket() ([]byte, mqttsn.Address)
	WritePacket(data []byte, dest mqttsn.Address) (int, error)
	Broadcast(data []byte) (int, error)
}

// MessageHandler receives inbound QoS-0 PUBLISH deliveries.
type MessageHandler func(topicName []byte, data []byte, flags packet.Flags)

// GatewayInfo is a gateway-info record (SPEC_FULL.md §3).
type GatewayInfo struct {
	GwID      byte
	GwAddr    mqttsn.Address
	Available bool
}

// PubTopic is a client-side pub-topic entry. TID of 0 means unassigned.
type PubTopic struct {
	Name []byte
	TID  uint16
}

// SubTopic is a client-side sub-topic entry. TID of 0 means the SUBACK has
// not arrived yet (I6).
type SubTopic struct {
	Name  []byte
	TID   uint16
	Flags packet.Flags
}

// SubscribeRequest names a topic to subscribe with its requested flags.
type SubscribeRequest struct {
	Name  []byte
	Flags packet.Flags
}

type inflightRequest struct {
	kind       byte
	msgID      uint16
	payload    []byte
	timer      time.Time
	counter    int
	topicIndex int // index into PubTopics/SubTopics this request concerns, -1 if none
}

// Session is one client's connection to (at most) one gateway at a time.
// It is not safe for concurrent use: the caller must serialize Connect,
// RegisterTopics, SubscribeTopics, Publish, Unsubscribe, Disconnect and
// Loop, the same single-threaded-cooperative model as the gateway engine
// (SPEC_FULL.md §5).
type Session struct {
	Transport Transport
	ClientID  []byte
	State     State

	Gateways    []*GatewayInfo
	CurrGateway *GatewayInfo

	inflight *inflightRequest

	Keepalive       time.Duration
	LastIn          time.Time
	LastOut         time.Time
	PingRespPending bool
	PingReqTimer    time.Time

	SearchGWPending  bool
	SearchGWDeadline time.Time

	NextMsgID uint16

	PubTopics []*PubTopic
	SubTopics []*SubTopic

	onMessage    MessageHandler
	cleanSession bool

	lastGwID     byte
	lastFlags    packet.Flags
	lastDuration uint16
}

// New constructs a Session bound to transport, applying opts in order.
func New(t Transport, opts ...Option) *Session {
	s := &Session{
		Transport: t,
		State:     StateLost,
		Keepalive: mqttsn.DefaultKeepAlive,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddGateways seeds the candidate gateway list.
func (s *Session) AddGateways(gws ...*GatewayInfo) {
	s.Gateways = append(s.Gateways, gws...)
}

// OnMessage registers the inbound-PUBLISH delivery callback.
func (s *Session) OnMessage(cb MessageHandler) {
	s.onMessage = cb
}

func (s *Session) nextMsgID() uint16 {
	s.NextMsgID++
	if s.NextMsgID == 0 { // I2: never observe 0 on the wire
		s.NextMsgID = 1
	}
	return s.NextMsgID
}

// selectGateway implements the gwid==0/reset-availability rule from
// SPEC_FULL.md §4.2's connect() description.
func (s *Session) selectGateway(gwid byte) *GatewayInfo {
	if len(s.Gateways) == 0 {
		return nil
	}
	find := func() *GatewayInfo {
		for _, g := range s.Gateways {
			if gwid == 0 && g.Available {
				return g
			}
			if gwid != 0 && g.GwID == gwid {
				return g
			}
		}
		return nil
	}
	if g := find(); g != nil {
		return g
	}
	for _, g := range s.Gateways {
		g.Available = true
	}
	return find()
}

// Connect selects a gateway and issues CONNECT. now is the caller-supplied
// monotonic clock reading (SPEC_FULL.md §9: "do not rely on wall-clock").
func (s *Session) Connect(now time.Time, gwid byte, flags packet.Flags, duration uint16) bool {
	gw := s.selectGateway(gwid)
	if gw == nil {
		return false
	}
	flags.CleanSession = s.cleanSession
	s.CurrGateway = gw
	s.lastGwID, s.lastFlags, s.lastDuration = gwid, flags, duration
	s.Keepalive = time.Duration(duration) * time.Second
	if s.Keepalive == 0 {
		s.Keepalive = mqttsn.DefaultKeepAlive
	}

	pkt := &packet.CONNECT{Flags: flags, Duration: duration, ClientID: s.ClientID}
	data, err := packet.Encode(pkt)
	if err != nil {
		return false
	}
	if _, err := s.Transport.WritePacket(data, gw.GwAddr); err != nil {
		return false
	}
	s.inflight = &inflightRequest{kind: packet.KindCONNECT, payload: data, timer: now, topicIndex: -1}
	s.State = StateConnecting
	s.LastOut = now
	return true
}

// RegisterTopics installs names as the pub-topic list (on first call, or
// when the list shape changes) and drives one REGISTER at a time until
// every entry has a topic id. Returns true once all are assigned.
func (s *Session) RegisterTopics(now time.Time, names [][]byte) bool {
	if len(s.PubTopics) != len(names) {
		s.PubTopics = make([]*PubTopic, len(names))
		for i, n := range names {
			s.PubTopics[i] = &PubTopic{Name: append([]byte(nil), n...)}
		}
	}
	pending := -1
	for i, t := range s.PubTopics {
		if t.TID == 0 {
			pending = i
			break
		}
	}
	if pending < 0 {
		return true
	}
	if s.inflight != nil {
		return false
	}
	pkt := &packet.REGISTER{TopicID: 0, MsgID: s.nextMsgID(), TopicName: s.PubTopics[pending].Name}
	data, err := packet.Encode(pkt)
	if err != nil {
		return false
	}
	if _, err := s.Transport.WritePacket(data, s.CurrGateway.GwAddr); err != nil {
		return false
	}
	s.inflight = &inflightRequest{kind: packet.KindREGISTER, msgID: pkt.MsgID, payload: data, timer: now, topicIndex: pending}
	s.LastOut = now
	return false
}

// SubscribeTopics is RegisterTopics's symmetric counterpart, driving
// SUBSCRIBE/SUBACK one entry at a time.
func (s *Session) SubscribeTopics(now time.Time, reqs []SubscribeRequest) bool {
	if len(s.SubTopics) != len(reqs) {
		s.SubTopics = make([]*SubTopic, len(reqs))
		for i, r := range reqs {
			s.SubTopics[i] = &SubTopic{Name: append([]byte(nil), r.Name...), Flags: r.Flags}
		}
	}
	pending := -1
	for i, t := range s.SubTopics {
		if t.TID == 0 {
			pending = i
			break
		}
	}
	if pending < 0 {
		return true
	}
	if s.inflight != nil {
		return false
	}
	topic := s.SubTopics[pending]
	flags := topic.Flags
	flags.TopicIDType = packet.TopicIDTypeNormal
	pkt := &packet.SUBSCRIBE{Flags: flags, MsgID: s.nextMsgID(), TopicName: topic.Name}
	data, err := packet.Encode(pkt)
	if err != nil {
		return false
	}
	if _, err := s.Transport.WritePacket(data, s.CurrGateway.GwAddr); err != nil {
		return false
	}
	s.inflight = &inflightRequest{kind: packet.KindSUBSCRIBE, msgID: pkt.MsgID, payload: data, topicIndex: pending, timer: now}
	s.LastOut = now
	return false
}

// Publish emits a QoS-0 or QoS-1/2 PUBLISH for a topic already assigned a
// topic id by RegisterTopics. It never sets msg_inflight (I1: publish
// doesn't occupy the single-flight slot).
func (s *Session) Publish(now time.Time, topicName []byte, data []byte, flags packet.Flags) bool {
	if s.State != StateActive || s.CurrGateway == nil {
		return false
	}
	idx := -1
	for i, t := range s.PubTopics {
		if bytes.Equal(t.Name, topicName) {
			idx = i
			break
		}
	}
	if idx < 0 || s.PubTopics[idx].TID == 0 {
		return false
	}
	var msgID uint16
	if flags.QoS > 0 {
		msgID = s.nextMsgID()
	}
	pkt := &packet.PUBLISH{Flags: flags, TopicID: s.PubTopics[idx].TID, MsgID: msgID, Data: data}
	encoded, err := packet.Encode(pkt)
	if err != nil {
		return false
	}
	if _, err := s.Transport.WritePacket(encoded, s.CurrGateway.GwAddr); err != nil {
		return false
	}
	s.LastOut = now
	return true
}

// Unsubscribe emits UNSUBSCRIBE for a known sub-topic. Removing an unknown
// name is idempotent (returns true, no packet sent) per SPEC_FULL.md §9's
// recorded decision on delete_sub_topic.
func (s *Session) Unsubscribe(now time.Time, topicName []byte, flags packet.Flags) bool {
	idx := -1
	for i, t := range s.SubTopics {
		if bytes.Equal(t.Name, topicName) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return true
	}
	if s.inflight != nil {
		return false
	}
	flags.TopicIDType = packet.TopicIDTypeNormal
	pkt := &packet.UNSUBSCRIBE{Flags: flags, MsgID: s.nextMsgID(), TopicName: s.SubTopics[idx].Name}
	data, err := packet.Encode(pkt)
	if err != nil {
		return false
	}
	if _, err := s.Transport.WritePacket(data, s.CurrGateway.GwAddr); err != nil {
		return false
	}
	s.inflight = &inflightRequest{kind: packet.KindUNSUBSCRIBE, msgID: pkt.MsgID, payload: data, topicIndex: idx, timer: now}
	s.LastOut = now
	return false
}

// Disconnect emits DISCONNECT and moves to StateDisconnected immediately;
// it does not wait for any acknowledgement (the protocol has none).
func (s *Session) Disconnect(now time.Time) bool {
	pkt := &packet.DISCONNECT{}
	data, err := packet.Encode(pkt)
	if err == nil && s.CurrGateway != nil {
		_, _ = s.Transport.WritePacket(data, s.CurrGateway.GwAddr)
	}
	s.State = StateDisconnected
	s.inflight = nil
	s.LastOut = now
	return true
}

// SearchGW starts a discovery cycle: the SEARCHGW broadcast is delayed by
// a random interval uniform on [0, T_SEARCHGW) (SPEC_FULL.md §5).
func (s *Session) SearchGW(now time.Time) {
	s.State = StateSearching
	s.SearchGWDeadline = now.Add(randDuration(mqttsn.TSearchGW))
	s.SearchGWPending = true
}

func randDuration(max time.Duration) time.Duration {
	return time.Duration(rand.Float64() * float64(max))
}

func (s *Session) toLost() {
	s.State = StateLost
	if s.CurrGateway != nil {
		s.CurrGateway.Available = false
	}
	s.inflight = nil
	s.PingRespPending = false
}

// Loop is the drive step: it drains inbound packets, services the
// single-in-flight retry timer, and runs the current state's handler. It
// must be called periodically with a monotonic clock reading.
func (s *Session) Loop(now time.Time) {
	for {
		data, src := s.Transport.ReadPacket()
		if data == nil {
			break
		}
		pkt, err := packet.Decode(data)
		if err != nil {
			continue // malformed: silently dropped, SPEC_FULL.md §7
		}
		s.dispatch(pkt, src, now)
	}
	before := s.State
	s.serviceInflightRetry(now)
	if s.State == StateLost && before != StateLost {
		return // retry exhausted this pass; lostTick reconnects on the next Loop
	}
	switch s.State {
	case StateSearching:
		s.searchingTick(now)
	case StateLost:
		s.lostTick(now)
	case StateActive:
		s.activeTick(now)
	}
}

func (s *Session) serviceInflightRetry(now time.Time) {
	if s.inflight == nil {
		return
	}
	if now.Sub(s.inflight.timer) < mqttsn.TRetry {
		return
	}
	s.inflight.counter++
	if s.inflight.counter > mqttsn.NRetry {
		s.toLost()
		return
	}
	if s.CurrGateway != nil {
		_, _ = s.Transport.WritePacket(s.inflight.payload, s.CurrGateway.GwAddr)
	}
	s.inflight.timer = now
}

func (s *Session) searchingTick(now time.Time) {
	if !s.SearchGWPending || now.Before(s.SearchGWDeadline) {
		return
	}
	data, err := packet.Encode(&packet.SEARCHGW{Radius: 1})
	if err != nil {
		return
	}
	_, _ = s.Transport.Broadcast(data)
	s.SearchGWPending = false
}

func (s *Session) lostTick(now time.Time) {
	if s.CurrGateway == nil {
		return
	}
	s.Connect(now, s.lastGwID, s.lastFlags, s.lastDuration)
}

func (s *Session) activeTick(now time.Time) {
	lostDeadline := s.LastIn.Add(time.Duration(1.5 * float64(s.Keepalive)))
	if now.After(lostDeadline) {
		s.toLost()
		return
	}
	if s.PingRespPending {
		if now.Sub(s.PingReqTimer) >= mqttsn.TRetry {
			s.sendPingReq(now)
		}
		return
	}
	if now.Sub(s.LastOut) >= s.Keepalive || now.Sub(s.LastIn) >= s.Keepalive {
		s.sendPingReq(now)
	}
}

func (s *Session) sendPingReq(now time.Time) {
	data, err := packet.Encode(&packet.PINGREQ{})
	if err != nil || s.CurrGateway == nil {
		return
	}
	_, _ = s.Transport.WritePacket(data, s.CurrGateway.GwAddr)
	s.LastOut = now
	s.PingRespPending = true
	s.PingReqTimer = now
}
