package seriallink

import (
	"bytes"
	"testing"

	"lsh-core/internal/wire"
)

type fakeStream struct {
	toRead [][]byte
	sent   [][]byte
}

func (f *fakeStream) Read(p []byte) (int, error) {
	if len(f.toRead) == 0 {
		return 0, nil
	}
	chunk := f.toRead[0]
	n := copy(p, chunk)
	if n < len(chunk) {
		f.toRead[0] = chunk[n:]
	} else {
		f.toRead = f.toRead[1:]
	}
	return n, nil
}

func (f *fakeStream) Write(p []byte) (int, error) {
	cp := append([]byte(nil), p...)
	f.sent = append(f.sent, cp)
	return len(p), nil
}

func TestTextFramerRoundTrip(t *testing.T) {
	rec := wire.Record{P: wire.SetSingleActuator, I: 2, S: wire.StateVal{1}}
	f := TextFramer{}
	b, err := f.Encode(rec)
	if err != nil {
		t.Fatal(err)
	}
	if b[len(b)-1] != '\n' {
		t.Fatal("expected LF-terminated frame")
	}
	buf := bytes.NewBuffer(b)
	got, ok, err := f.Decode(buf)
	if err != nil || !ok {
		t.Fatalf("expected a decoded record, got ok=%v err=%v", ok, err)
	}
	if got.P != rec.P || got.I != rec.I {
		t.Fatalf("round-trip mismatch: got %+v want %+v", got, rec)
	}
}

func TestTextFramerPartialBuffer(t *testing.T) {
	f := TextFramer{}
	buf := bytes.NewBufferString(`{"p":5`)
	_, ok, err := f.Decode(buf)
	if ok || err != nil {
		t.Fatalf("expected no record yet, got ok=%v err=%v", ok, err)
	}
	if buf.String() != `{"p":5` {
		t.Fatal("partial buffer must be left untouched")
	}
}

func TestTextFramerSkipsBlankLines(t *testing.T) {
	f := TextFramer{}
	buf := bytes.NewBufferString("\n\n{\"p\":5}\n")
	rec, ok, err := f.Decode(buf)
	if err != nil || !ok {
		t.Fatalf("expected blank lines skipped and the record decoded, got ok=%v err=%v", ok, err)
	}
	if rec.P != wire.Ping {
		t.Fatalf("expected Ping, got %v", rec.P)
	}
}

func TestBinaryFramerRoundTrip(t *testing.T) {
	rec := wire.Record{P: wire.NetworkClick, I: 4, T: wire.Long, C: 1}
	f := &BinaryFramer{}
	b, err := f.Encode(rec)
	if err != nil {
		t.Fatal(err)
	}
	buf := bytes.NewBuffer(b)
	got, ok, err := f.Decode(buf)
	if err != nil || !ok {
		t.Fatalf("expected a decoded record, got ok=%v err=%v", ok, err)
	}
	if got.P != rec.P || got.I != rec.I || got.T != rec.T || got.C != rec.C {
		t.Fatalf("round-trip mismatch: got %+v want %+v", got, rec)
	}
}

func TestBinaryFramerWaitsForFullValue(t *testing.T) {
	rec := wire.Record{P: wire.ActuatorsState, S: wire.StateVal{0, 1, 0, 1, 1}}
	f := &BinaryFramer{}
	b, err := f.Encode(rec)
	if err != nil {
		t.Fatal(err)
	}
	half := len(b) / 2
	buf := bytes.NewBuffer(append([]byte(nil), b[:half]...))
	_, ok, err := f.Decode(buf)
	if ok || err != nil {
		t.Fatalf("expected to wait for the rest of the value, got ok=%v err=%v", ok, err)
	}
	buf.Write(b[half:])
	got, ok, err := f.Decode(buf)
	if err != nil || !ok {
		t.Fatalf("expected the completed value to decode, got ok=%v err=%v", ok, err)
	}
	if got.P != rec.P || len(got.S) != len(rec.S) {
		t.Fatalf("round-trip mismatch after completion: got %+v want %+v", got, rec)
	}
}

func TestSerialLinkPollDecodesRecord(t *testing.T) {
	stream := &fakeStream{toRead: [][]byte{[]byte(`{"p":5}` + "\n")}}
	link := New(stream, TextFramer{})

	recs, err := link.Poll(1000)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].P != wire.Ping {
		t.Fatalf("expected one decoded Ping record, got %+v", recs)
	}
	if !link.IsConnected(1000) {
		t.Fatal("expected link connected after a valid record")
	}
}

func TestSerialLinkPollNoDataReturnsEmpty(t *testing.T) {
	stream := &fakeStream{}
	link := New(stream, TextFramer{})

	recs, err := link.Poll(500)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no records, got %+v", recs)
	}
	if link.IsConnected(500) {
		t.Fatal("link must not be connected before any valid record arrives")
	}
}

func TestCanPingRespectsInterval(t *testing.T) {
	stream := &fakeStream{}
	link := New(stream, TextFramer{})

	if err := link.SendBoot(0); err != nil {
		t.Fatal(err)
	}
	if link.CanPing(PingIntervalMs) {
		t.Fatal("must not yet be able to ping exactly at the interval boundary")
	}
	if !link.CanPing(PingIntervalMs + 1) {
		t.Fatal("expected to be able to ping once the interval has elapsed")
	}
	if len(stream.sent) != 1 {
		t.Fatalf("expected exactly one sent frame from SendBoot, got %d", len(stream.sent))
	}
}

func TestIsConnectedTimesOut(t *testing.T) {
	stream := &fakeStream{toRead: [][]byte{[]byte(`{"p":5}` + "\n")}}
	link := New(stream, TextFramer{})

	if _, err := link.Poll(0); err != nil {
		t.Fatal(err)
	}
	if !link.IsConnected(ConnectionTimeoutMs - 1) {
		t.Fatal("expected still connected just before the timeout")
	}
	if link.IsConnected(ConnectionTimeoutMs + 1) {
		t.Fatal("expected disconnected after the timeout elapses")
	}
}
