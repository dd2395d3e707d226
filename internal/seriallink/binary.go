package seriallink

import (
	"bytes"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"lsh-core/internal/wire"
)

// BinaryFramer implements Framer as back-to-back MessagePack values
// (the CONFIG_MSG_PACK build of the original firmware), with no
// length prefix or delimiter: MessagePack's own type tags make every
// value self-delimiting.
//
// Each Decode call decodes from a bytes.Reader over buf's unread bytes
// and removes bytes from buf only once a whole value has decoded, so a
// value that is still arriving stays in buf for the next call.
type BinaryFramer struct{}

func (f *BinaryFramer) Encode(rec wire.Record) ([]byte, error) {
	return msgpack.Marshal(rec)
}

func (f *BinaryFramer) Decode(buf *bytes.Buffer) (wire.Record, bool, error) {
	if buf.Len() == 0 {
		return wire.Record{}, false, nil
	}
	r := bytes.NewReader(buf.Bytes())
	var rec wire.Record
	if err := msgpack.NewDecoder(r).Decode(&rec); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return wire.Record{}, false, nil
		}
		// Malformed value: discard everything buffered and start fresh,
		// mirroring the original's "empty the buffer" response to a
		// deserialization error.
		buf.Reset()
		return wire.Record{}, false, err
	}
	buf.Next(buf.Len() - r.Len())
	return rec, true, nil
}

func (f *BinaryFramer) BootFrame() []byte { return wire.BootBinaryFrame }
func (f *BinaryFramer) PingFrame() []byte { return wire.PingBinaryFrame }
