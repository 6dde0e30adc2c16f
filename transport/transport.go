// Package transport defines the datagram collaborator the client and
// gateway engines drive from their loop() methods (SPEC_FULL.md §6), plus
// a concrete UDP implementation.
package transport

import "github.com/mqttsn-go/gateway"

// Transport is the nonblocking datagram collaborator. One ReadPacket call
// yields at most one MQTT-SN packet; a nil slice means "nothing pending".
// Implementations must never block the caller's loop().
type Transport interface {
	// ReadPacket returns the next queued datagram and its source address,
	// or (nil, nil) if none is available right now.
	ReadPacket() ([]byte, mqttsn.Address)

	// WritePacket sends data to dest and returns the number of bytes
	// written. A short write or error is treated as a drop by callers;
	// the retry timer is the recovery path, not this return value.
	WritePacket(data []byte, dest mqttsn.Address) (int, error)

	// Broadcast sends data to every peer reachable on the local segment.
	Broadcast(data []byte) (int, error)

	// LocalAddr reports this endpoint's own address, used by
	// implementations (and tests) to filter self-addressed broadcasts.
	LocalAddr() mqttsn.Address
}
