package beast

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func TestEncode(t *testing.T) {
	t.Run("Mode S long", func(t *testing.T) {
		data := []byte{
			0x92, 0xAB, 0xCD, 0xEF, 0x88, 0xB5, 0x00, 0x11,
			0x22, 0x33, 0x44, 0x55, 0x66, 0x77,
		}
		out, err := Encode(TypeModeSLong, 0x010203040506, 0x60, data)
		require.NoError(t, err)

		expected := append([]byte{
			SyncByte, TypeModeSLong,
			0x01, 0x02, 0x03, 0x04, 0x05, 0x06,
			0x60,
		}, data...)
		assert.Equal(t, expected, out)
	})

	t.Run("Escapes 0x1A in timestamp and payload", func(t *testing.T) {
		data := []byte{
			0x1A, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			0x00, 0x00, 0x00, 0x00, 0x00, 0x1A,
		}
		out, err := Encode(TypeModeSLong, 0x1A, 0x1A, data)
		require.NoError(t, err)

		expected := []byte{
			SyncByte, TypeModeSLong,
			0x00, 0x00, 0x00, 0x00, 0x00, 0x1A, 0x1A, // timestamp
			0x1A, 0x1A, // signal
			0x1A, 0x1A, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			0x00, 0x00, 0x00, 0x00, 0x00, 0x1A, 0x1A,
		}
		assert.Equal(t, expected, out)
	})

	t.Run("Unknown type", func(t *testing.T) {
		_, err := Encode(0x47, 0, 0, make([]byte, 14))
		assert.ErrorContains(t, err, "unknown message type")
	})

	t.Run("Wrong payload length", func(t *testing.T) {
		_, err := Encode(TypeModeSLong, 0, 0, make([]byte, 7))
		assert.ErrorContains(t, err, "must be 14 bytes")
	})
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		msgType   byte
		timestamp uint64
		signal    byte
		data      []byte
	}{
		{
			name:      "Mode S long",
			msgType:   TypeModeSLong,
			timestamp: 0x0000DEADBEEF,
			signal:    0x42,
			data: []byte{
				0x92, 0xAB, 0xCD, 0xEF, 0x88, 0xB5, 0x00, 0x11,
				0x22, 0x33, 0x44, 0x55, 0x66, 0x77,
			},
		},
		{
			name:      "Mode S short",
			msgType:   TypeModeSShort,
			timestamp: 1,
			signal:    0xFF,
			data:      []byte{0x5D, 0x48, 0x44, 0x12, 0x34, 0x56, 0x78},
		},
		{
			name:      "Payload full of escape bytes",
			msgType:   TypeModeSLong,
			timestamp: 0x1A1A1A1A1A1A,
			signal:    0x1A,
			data: []byte{
				0x1A, 0x1A, 0x1A, 0x1A, 0x1A, 0x1A, 0x1A, 0x1A,
				0x1A, 0x1A, 0x1A, 0x1A, 0x1A, 0x1A,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wire, err := Encode(tt.msgType, tt.timestamp, tt.signal, tt.data)
			require.NoError(t, err)

			decoder := NewDecoder(newTestLogger())
			messages := decoder.Decode(wire)
			require.Len(t, messages, 1)

			msg := messages[0]
			assert.Equal(t, tt.msgType, msg.Type)
			assert.Equal(t, tt.timestamp, msg.Timestamp)
			assert.Equal(t, tt.signal, msg.Signal)
			assert.Equal(t, tt.data, msg.Data)
		})
	}
}

func TestDecoderChunkedInput(t *testing.T) {
	data := []byte{
		0x92, 0xAB, 0xCD, 0xEF, 0x88, 0xB5, 0x00, 0x11,
		0x22, 0x33, 0x44, 0x55, 0x66, 0x77,
	}
	wire, err := Encode(TypeModeSLong, 12345, 0x10, data)
	require.NoError(t, err)

	decoder := NewDecoder(newTestLogger())
	var messages []*Message
	for i := 0; i < len(wire); i++ {
		messages = append(messages, decoder.Decode(wire[i:i+1])...)
	}

	require.Len(t, messages, 1)
	assert.Equal(t, data, messages[0].Data)
	assert.Equal(t, uint64(12345), messages[0].Timestamp)
}

func TestDecoderSkipsGarbageAndTruncation(t *testing.T) {
	data := []byte{
		0x92, 0xAB, 0xCD, 0xEF, 0x88, 0xB5, 0x00, 0x11,
		0x22, 0x33, 0x44, 0x55, 0x66, 0x77,
	}
	wire, err := Encode(TypeModeSLong, 99, 0x20, data)
	require.NoError(t, err)

	stream := []byte{0x00, 0xFF, 0x31}                     // garbage before sync
	stream = append(stream, SyncByte, TypeModeSLong, 0x92) // truncated message
	stream = append(stream, wire...)                       // complete message
	stream = append(stream, SyncByte)                      // trailing partial

	decoder := NewDecoder(newTestLogger())
	messages := decoder.Decode(stream)

	require.Len(t, messages, 1)
	assert.Equal(t, data, messages[0].Data)
}

func TestDecoderGarbageFlood(t *testing.T) {
	data := []byte{
		0x92, 0xAB, 0xCD, 0xEF, 0x88, 0xB5, 0x00, 0x11,
		0x22, 0x33, 0x44, 0x55, 0x66, 0x77,
	}
	wire, err := Encode(TypeModeSLong, 7, 0x30, data)
	require.NoError(t, err)

	decoder := NewDecoder(newTestLogger())

	// Kilobytes of garbage, including stray syncs with unknown type
	// bytes, must decode to nothing and leave no residue that blocks
	// the next real message.
	garbage := make([]byte, 8192)
	for i := range garbage {
		garbage[i] = byte(i % 16)
		if i%97 == 0 {
			garbage[i] = SyncByte
		}
	}
	assert.Empty(t, decoder.Decode(garbage))
	assert.LessOrEqual(t, len(decoder.buffer), 1, "at most a trailing sync byte is retained")

	messages := decoder.Decode(wire)
	require.Len(t, messages, 1)
	assert.Equal(t, data, messages[0].Data)
}

func TestMessageAccessors(t *testing.T) {
	msg := &Message{
		Type: TypeModeSLong,
		Data: []byte{
			0x92, 0xAB, 0xCD, 0xEF, 0x88, 0xB5, 0x00, 0x11,
			0x22, 0x33, 0x44, 0x55, 0x66, 0x77,
		},
	}
	assert.Equal(t, uint32(0xABCDEF), msg.ICAO())
	assert.Equal(t, byte(18), msg.DF())

	status := &Message{Type: TypeStatus, Data: []byte{0x01, 0x02}}
	assert.Zero(t, status.ICAO())
	assert.Zero(t, status.DF())
}
