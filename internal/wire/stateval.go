package wire

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// MarshalJSON always emits the vector form: every record this device
// emits uses "s" as an array (ACTUATORS_STATE). Scalar "s" only ever
// appears on inbound SET_SINGLE_ACTUATOR records, handled by
// UnmarshalJSON below.
func (s StateVal) MarshalJSON() ([]byte, error) {
	// Widened first: encoding/json writes a []uint8 as a base64 string.
	vec := make([]int, len(s))
	for i, v := range s {
		vec[i] = int(v)
	}
	return json.Marshal(vec)
}

// UnmarshalJSON accepts either a JSON array ("s":[0,1]) or a bare
// scalar ("s":1), normalizing both to the vector form.
func (s *StateVal) UnmarshalJSON(b []byte) error {
	var vec []uint8
	if err := json.Unmarshal(b, &vec); err == nil {
		*s = vec
		return nil
	}
	var scalar uint8
	if err := json.Unmarshal(b, &scalar); err != nil {
		return fmt.Errorf("state value is neither a scalar nor an array: %w", err)
	}
	*s = StateVal{scalar}
	return nil
}

// EncodeMsgpack mirrors MarshalJSON: always the vector form, written as
// an array of integers (msgpack would write a []uint8 as bin data).
func (s StateVal) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(len(s)); err != nil {
		return err
	}
	for _, v := range s {
		if err := enc.EncodeUint(uint64(v)); err != nil {
			return err
		}
	}
	return nil
}

// DecodeMsgpack mirrors UnmarshalJSON: accepts a scalar or an array.
func (s *StateVal) DecodeMsgpack(dec *msgpack.Decoder) error {
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	switch x := v.(type) {
	case []any:
		vec := make([]uint8, len(x))
		for i, e := range x {
			vec[i] = toUint8(e)
		}
		*s = vec
	case int8:
		*s = StateVal{uint8(x)}
	case int64:
		*s = StateVal{uint8(x)}
	case uint64:
		*s = StateVal{uint8(x)}
	default:
		return fmt.Errorf("unexpected msgpack type %T for state value", v)
	}
	return nil
}

func toUint8(v any) uint8 {
	switch x := v.(type) {
	case int8:
		return uint8(x)
	case int64:
		return uint8(x)
	case uint64:
		return uint8(x)
	default:
		return 0
	}
}
