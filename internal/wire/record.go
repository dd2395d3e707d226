// Package wire defines the serial link's on-the-wire records (spec
// §6): short-keyed objects shared by both the LF-terminated JSON
// framing and the MessagePack binary framing. One struct definition
// serves both, tagged for `encoding/json` and for
// github.com/vmihailenco/msgpack/v5.
package wire

// Command is the "p" field: the record's command byte.
type Command uint8

const (
	DeviceDetails     Command = 1
	ActuatorsState    Command = 2
	NetworkClick      Command = 3
	Boot              Command = 4
	Ping              Command = 5
	RequestDetails    Command = 10
	RequestState      Command = 11
	SetState          Command = 12
	SetSingleActuator Command = 13
	NetworkClickAck   Command = 14
	Failover          Command = 15
	FailoverClick     Command = 16
)

// ClickKind is the "t" field on NETWORK_CLICK-family records.
type ClickKind uint8

const (
	Long      ClickKind = 1
	SuperLong ClickKind = 2
)

// Record is the union of every field any wire message may carry.
// Validation-by-convention (spec §4.8): a field omitted from an
// inbound message decodes to its zero value, and 0 is a reserved
// invalid sentinel for P, I, and T — callers MUST treat a zero there
// as "absent" and reject accordingly.
type Record struct {
	P Command   `json:"p" msgpack:"p"`
	N string    `json:"n,omitempty" msgpack:"n,omitempty"`
	A []uint8   `json:"a,omitempty" msgpack:"a,omitempty"`
	B []uint8   `json:"b,omitempty" msgpack:"b,omitempty"`
	S StateVal  `json:"s,omitempty" msgpack:"s,omitempty"`
	I uint8     `json:"i,omitempty" msgpack:"i,omitempty"`
	T ClickKind `json:"t,omitempty" msgpack:"t,omitempty"`
	C uint8     `json:"c,omitempty" msgpack:"c,omitempty"`
}

// StateVal is the "s" field, which the wire protocol overloads as
// either a scalar (SET_SINGLE_ACTUATOR, REQUEST_STATE-style single
// reads) or a vector (ACTUATORS_STATE, SET_STATE). It always decodes
// to the vector form here; a scalar on the wire decodes to a
// single-element slice via custom (Un)MarshalJSON below, so callers
// only ever handle one shape.
type StateVal []uint8

// Static byte-exact payloads (spec §6): pre-encoded so BOOT/PING never
// depend on the encoder producing stable field ordering.
var (
	BootTextFrame  = []byte("{\"p\":4}\n")
	PingTextFrame  = []byte("{\"p\":5}\n")
	BootBinaryFrame = []byte{0x81, 0xA1, 0x70, 0x04}
	PingBinaryFrame = []byte{0x81, 0xA1, 0x70, 0x05}
)
