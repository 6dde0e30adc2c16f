// Package packet implements the MQTT-SN wire codec: one struct per message
// kind, each able to Pack itself onto a writer and Unpack itself from a
// body buffer with the two-byte header already stripped. Decode handles
// the header and the type-code dispatch for a whole datagram.
package packet
