package beast

import (
	"bytes"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Decoder is a streaming Beast wire decoder. Input may arrive in
// arbitrary chunks; partial messages are buffered until completed.
type Decoder struct {
	logger *logrus.Logger
	buffer []byte
}

// NewDecoder creates a streaming decoder.
func NewDecoder(logger *logrus.Logger) *Decoder {
	return &Decoder{
		logger: logger,
		buffer: make([]byte, 0, 4096),
	}
}

// Decode appends data to the internal buffer and returns every complete
// message found. Garbage before a sync byte is discarded; a message cut
// short by the next sync is dropped with a debug log.
func (d *Decoder) Decode(data []byte) []*Message {
	d.buffer = append(d.buffer, data...)

	var messages []*Message
	for {
		syncIndex := bytes.IndexByte(d.buffer, SyncByte)
		if syncIndex == -1 {
			d.buffer = d.buffer[:0]
			break
		}
		if syncIndex > 0 {
			d.buffer = d.buffer[syncIndex:]
		}

		if len(d.buffer) < 2 {
			break
		}

		msgType := d.buffer[1]
		want := payloadLength(msgType)
		if want == 0 {
			d.logger.WithFields(logrus.Fields{
				"message_type": fmt.Sprintf("0x%02x", msgType),
			}).Debug("Unknown beast message type, skipping sync byte")
			d.buffer = d.buffer[1:]
			continue
		}

		body, consumed, status := unescape(d.buffer[2:], 7+want)
		switch status {
		case unescapeIncomplete:
			// Wait for more input.
			return messages

		case unescapeTruncated:
			d.logger.WithFields(logrus.Fields{
				"message_type": fmt.Sprintf("0x%02x", msgType),
			}).Debug("Truncated beast message, resyncing")
			d.buffer = d.buffer[1:]
			continue
		}

		var timestamp uint64
		for i := 0; i < 6; i++ {
			timestamp = timestamp<<8 | uint64(body[i])
		}

		messages = append(messages, &Message{
			Type:      msgType,
			Timestamp: timestamp,
			Signal:    body[6],
			Data:      body[7:],
		})
		d.buffer = d.buffer[2+consumed:]
	}

	return messages
}

const (
	unescapeComplete = iota
	unescapeIncomplete
	unescapeTruncated
)

// unescape reads want logical bytes from data, collapsing doubled 0x1A
// bytes. A lone 0x1A followed by anything else marks the start of the
// next message, meaning the current one was cut short.
func unescape(data []byte, want int) (body []byte, consumed int, status int) {
	body = make([]byte, 0, want)
	i := 0
	for len(body) < want {
		if i >= len(data) {
			return nil, 0, unescapeIncomplete
		}
		b := data[i]
		if b == SyncByte {
			if i+1 >= len(data) {
				return nil, 0, unescapeIncomplete
			}
			if data[i+1] != SyncByte {
				return nil, 0, unescapeTruncated
			}
			i++
		}
		body = append(body, b)
		i++
	}
	return body, i, unescapeComplete
}
