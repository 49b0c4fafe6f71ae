package beast

import "fmt"

// Encode wraps one message payload in Beast wire format. The timestamp
// is the low 48 bits of a 12 MHz counter, written big-endian. Every
// 0x1A byte after the sync/type header is escaped by doubling.
func Encode(msgType byte, timestamp uint64, signal byte, data []byte) ([]byte, error) {
	want := payloadLength(msgType)
	if want == 0 {
		return nil, fmt.Errorf("beast: unknown message type 0x%02x", msgType)
	}
	if len(data) != want {
		return nil, fmt.Errorf("beast: type 0x%02x payload must be %d bytes, got %d", msgType, want, len(data))
	}

	out := make([]byte, 0, 2+7+want+4)
	out = append(out, SyncByte, msgType)

	var header [7]byte
	for i := 0; i < 6; i++ {
		header[i] = byte(timestamp >> (40 - 8*i))
	}
	header[6] = signal

	out = appendEscaped(out, header[:])
	out = appendEscaped(out, data)
	return out, nil
}

// appendEscaped appends data, doubling every 0x1A byte.
func appendEscaped(dst, data []byte) []byte {
	for _, b := range data {
		if b == SyncByte {
			dst = append(dst, SyncByte, SyncByte)
			continue
		}
		dst = append(dst, b)
	}
	return dst
}
