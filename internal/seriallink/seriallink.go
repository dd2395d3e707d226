// Package seriallink drives the serial link to the controller hub:
// framing Records onto the wire, buffering and decoding whatever has
// arrived since the last tick, and tracking the ping/connection
// timers that decide whether the link is considered alive. Grounded
// on the original firmware's communication/esp_com.{hpp,cpp}, adapted
// from its byte-at-a-time Arduino Serial loop to a buffered,
// tick-driven pull over hal.Stream, and on the teacher's
// services/bridge/bridge.go framedReader/framedWriter idiom for the
// buffer/consume shape.
package seriallink

import (
	"bytes"

	"lsh-core/debug"
	"lsh-core/internal/hal"
	"lsh-core/internal/wire"
)

// PingIntervalMs is the minimum spacing between outbound pings (spec §6).
const PingIntervalMs = 10000

// ConnectionTimeoutMs is how long the link is still considered up
// after the last valid inbound record.
const ConnectionTimeoutMs = PingIntervalMs + 200

// readChunkSize bounds how many bytes are pulled from the stream per
// Poll call, mirroring the original's fixed RAW_INPUT_BUFFER_SIZE.
const readChunkSize = 256

// Framer encodes/decodes wire.Record against one of the two framings
// (LF-terminated JSON text, or length-implicit MessagePack binary).
// Decode must consume only the bytes of one complete record from the
// front of buf and return ok=true, or leave buf untouched and return
// ok=false when the next record isn't fully buffered yet.
type Framer interface {
	Encode(rec wire.Record) ([]byte, error)
	Decode(buf *bytes.Buffer) (rec wire.Record, ok bool, err error)
	BootFrame() []byte
	PingFrame() []byte
}

// SerialLink owns the read buffer and the send/receive activity
// timers for one serial connection. Every timing-sensitive method
// takes the scheduler's tick-cached "now" rather than reading a clock
// itself, matching actuator/clickable/indicator.
type SerialLink struct {
	stream hal.Stream
	framer Framer

	buf     bytes.Buffer
	readTmp [readChunkSize]byte

	lastSentAt         uint32
	lastReceivedAt     uint32
	firstValidReceived bool
}

// New constructs a SerialLink over stream, framed by framer.
func New(stream hal.Stream, framer Framer) *SerialLink {
	return &SerialLink{stream: stream, framer: framer}
}

// Send encodes and writes one record, updating the send timer.
func (s *SerialLink) Send(rec wire.Record, now uint32) error {
	b, err := s.framer.Encode(rec)
	if err != nil {
		return err
	}
	if _, err := s.stream.Write(b); err != nil {
		return err
	}
	s.lastSentAt = now
	return nil
}

// SendBoot writes the byte-exact BOOT frame directly, bypassing the
// general encoder so its bytes never depend on field-ordering
// guarantees.
func (s *SerialLink) SendBoot(now uint32) error {
	if _, err := s.stream.Write(s.framer.BootFrame()); err != nil {
		return err
	}
	s.lastSentAt = now
	return nil
}

// SendPing writes the byte-exact PING frame, only meaningful to call
// when CanPing reports true.
func (s *SerialLink) SendPing(now uint32) error {
	if _, err := s.stream.Write(s.framer.PingFrame()); err != nil {
		return err
	}
	s.lastSentAt = now
	return nil
}

// Poll performs one non-blocking read from the underlying stream,
// appends it to the internal buffer, and decodes as many complete
// records as are now available. Must be called exactly once per
// scheduler tick (spec §4.9 step 5).
func (s *SerialLink) Poll(now uint32) ([]wire.Record, error) {
	n, err := s.stream.Read(s.readTmp[:])
	if err != nil {
		return nil, err
	}
	if n > 0 {
		s.buf.Write(s.readTmp[:n])
	}

	var recs []wire.Record
	for {
		rec, ok, err := s.framer.Decode(&s.buf)
		if err != nil {
			debug.Printf("seriallink: decode error: %v", err)
			continue
		}
		if !ok {
			break
		}
		s.firstValidReceived = true
		s.lastReceivedAt = now
		recs = append(recs, rec)
	}
	return recs, nil
}

// CanPing reports whether enough time has passed since the last send
// to justify a ping (spec §4.7, original's EspCom::canPing).
func (s *SerialLink) CanPing(now uint32) bool {
	return now-s.lastSentAt > PingIntervalMs
}

// IsConnected reports whether a valid record has ever been received
// and the most recent one arrived within the connection timeout.
func (s *SerialLink) IsConnected(now uint32) bool {
	return s.firstValidReceived && now-s.lastReceivedAt < ConnectionTimeoutMs
}

// LastReceivedAt returns the tick timestamp of the last successfully
// decoded record, used to gate the post-receive send-state quiet
// window (spec §4.9 step 5). Zero if nothing has ever been received.
func (s *SerialLink) LastReceivedAt() uint32 { return s.lastReceivedAt }
