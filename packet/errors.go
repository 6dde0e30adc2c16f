package packet

import "errors"

// Errors returned by the codec. ErrPacketTooLong comes from Pack; all the
// others come from decoding and mean "malformed or out-of-context packet";
// per the protocol's error model the caller drops the packet silently
// rather than surfacing these up the stack.
var (
	ErrHeaderTooShort    = errors.New("packet: header shorter than 2 bytes")
	ErrReservedLength    = errors.New("packet: length byte 0 or 1 is reserved")
	ErrBodyLengthMismatch = errors.New("packet: body length does not match header length")
	ErrBodyTooShort      = errors.New("packet: body shorter than the fixed fields require")
	ErrProtocolIDMismatch = errors.New("packet: CONNECT protocol_id is not 0x01")
	ErrClientIDTooLong   = errors.New("packet: client_id exceeds MQTTSN_MAX_CLIENTID_LEN")
	ErrPacketTooLong     = errors.New("packet: packed length exceeds MQTTSN_MAX_MSG_LEN")
	ErrUnknownKind       = errors.New("packet: unrecognised message type code")
)
