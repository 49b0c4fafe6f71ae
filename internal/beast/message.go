// Package beast implements the Beast binary wire format used to carry
// Mode S frames between tools: a sync byte, a type byte, a 48-bit 12 MHz
// timestamp, a signal level byte and the frame payload, with 0x1A bytes
// escaped by doubling.
package beast

// Beast wire constants
const (
	SyncByte       = 0x1A // message start, escaped by doubling elsewhere
	TypeModeAC     = 0x31 // Mode A/C (2 byte payload)
	TypeModeSShort = 0x32 // Mode S short (7 byte payload)
	TypeModeSLong  = 0x33 // Mode S long (14 byte payload)
	TypeStatus     = 0x34 // status/keepalive (2 byte payload)
)

// payloadLength returns the unescaped payload size for a message type,
// or 0 for unknown types.
func payloadLength(msgType byte) int {
	switch msgType {
	case TypeModeAC, TypeStatus:
		return 2
	case TypeModeSShort:
		return 7
	case TypeModeSLong:
		return 14
	default:
		return 0
	}
}

// Message is one decoded Beast message.
type Message struct {
	Type      byte
	Timestamp uint64 // 48-bit counter, 12 MHz
	Signal    byte
	Data      []byte
}

// ICAO extracts the 24-bit address from a Mode S payload.
func (m *Message) ICAO() uint32 {
	if m.Type != TypeModeSShort && m.Type != TypeModeSLong {
		return 0
	}
	if len(m.Data) < 4 {
		return 0
	}
	return uint32(m.Data[1])<<16 | uint32(m.Data[2])<<8 | uint32(m.Data[3])
}

// DF extracts the downlink format from a Mode S payload.
func (m *Message) DF() byte {
	if m.Type != TypeModeSShort && m.Type != TypeModeSLong {
		return 0
	}
	if len(m.Data) < 1 {
		return 0
	}
	return (m.Data[0] >> 3) & 0x1F
}
