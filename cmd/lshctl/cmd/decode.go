package cmd

import (
	"bytes"
	"io"

	"lsh-core/internal/seriallink"
	"lsh-core/internal/wire"
)

// framer returns the seriallink.Framer the --binary flag selects,
// reusing the exact same encode/decode logic the device itself runs
// rather than re-implementing the wire format here.
func framer() seriallink.Framer {
	if binaryFraming {
		return &seriallink.BinaryFramer{}
	}
	return seriallink.TextFramer{}
}

// recordStream decodes a blocking Connection into a channel of
// records, one goroutine reading and decoding. lshctl is the part of
// this module where goroutines are used, since it is a host console,
// not the single-threaded engine (SPEC §5).
func recordStream(conn Connection) (<-chan wire.Record, <-chan error) {
	records := make(chan wire.Record, 64)
	errs := make(chan error, 1)
	f := framer()

	go func() {
		defer close(records)
		var buf bytes.Buffer
		tmp := make([]byte, 256)
		for {
			n, err := conn.Read(tmp)
			if n > 0 {
				buf.Write(tmp[:n])
				for {
					rec, ok, decErr := f.Decode(&buf)
					if decErr != nil {
						continue
					}
					if !ok {
						break
					}
					records <- rec
				}
			}
			if err != nil {
				if err != io.EOF {
					errs <- err
				}
				return
			}
		}
	}()

	return records, errs
}
