package seriallink

import (
	"bytes"
	"encoding/json"

	"lsh-core/internal/wire"
)

// TextFramer implements Framer as LF-terminated JSON objects, the
// default (non CONFIG_MSG_PACK) build of the original firmware.
type TextFramer struct{}

func (TextFramer) Encode(rec wire.Record) ([]byte, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// Decode scans for the first LF in buf. Everything up to it is one
// candidate record; a malformed record is dropped (consumed) rather
// than left to block the buffer forever, matching the original's
// "log the error and reset bytesRead" behaviour. A lone empty line is
// silently skipped, matching "ignore a standalone newline".
func (TextFramer) Decode(buf *bytes.Buffer) (wire.Record, bool, error) {
	for {
		b := buf.Bytes()
		idx := bytes.IndexByte(b, '\n')
		if idx < 0 {
			return wire.Record{}, false, nil
		}
		line := make([]byte, idx)
		copy(line, b[:idx])
		buf.Next(idx + 1)

		if len(line) == 0 {
			continue
		}
		var rec wire.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return wire.Record{}, false, err
		}
		return rec, true, nil
	}
}

func (TextFramer) BootFrame() []byte { return wire.BootTextFrame }
func (TextFramer) PingFrame() []byte { return wire.PingTextFrame }
