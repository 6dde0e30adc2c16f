// Package mqttsn holds the types shared by every other package in this
// module: the opaque transport address and the protocol-wide timing and
// capacity constants. Nothing here performs I/O; see transport, broker,
// client and gateway for the collaborators and engines built on top.
package mqttsn

import (
	"bytes"
	"time"
)

// Address identifies a transport peer. Equality is bytewise; the transport
// implementation owns the concrete encoding (e.g. a UDP host:port packed
// into bytes) and the core never inspects it beyond comparison.
type Address []byte

func (a Address) Equal(b Address) bool {
	return bytes.Equal(a, b)
}

func (a Address) String() string {
	return string(a)
}

// Protocol-wide constants (see SPEC_FULL.md §6).
const (
	DefaultKeepAlive = 30 * time.Second
	TRetry           = 5 * time.Second
	NRetry           = 3
	TSearchGW        = 5 * time.Second

	MaxInstanceTopics = 10
	MaxGatewayTopics  = 60
	MaxNumClients     = 10
	MaxQueuedPublish  = 64
)
