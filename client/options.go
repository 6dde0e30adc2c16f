package client

import (
	"time"
)

// Option configures a Session at construction, the same functional-options
// shape golang-io-mqtt's options.go uses for its Client.
type Option func(*Session)

// ClientID sets the session's client identifier (truncated to
// packet.MaxClientIDLen on the wire).
func ClientID(id string) Option {
	return func(s *Session) { s.ClientID = []byte(id) }
}

// Keepalive overrides mqttsn.DefaultKeepAlive.
func Keepalive(d time.Duration) Option {
	return func(s *Session) { s.Keepalive = d }
}

// CleanSession sets the clean_session flag CONNECT carries.
func CleanSession(v bool) Option {
	return func(s *Session) { s.cleanSession = v }
}

// Gateways seeds the candidate gateway list.
func Gateways(gws ...*GatewayInfo) Option {
	return func(s *Session) { s.Gateways = append(s.Gateways, gws...) }
}

// OnMessage registers the inbound-PUBLISH delivery callback.
func OnMessage(cb MessageHandler) Option {
	return func(s *Session) { s.onMessage = cb }
}
