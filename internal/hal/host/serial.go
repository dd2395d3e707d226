//go:build !(rp2040 || rp2350)

package host

import (
	"time"

	"go.bug.st/serial"
)

// SerialStream is a hal.Stream over a real host serial port, for
// Linux-SBC deployments that talk to the bridge over e.g. /dev/serial0
// instead of a TinyGo-managed UART. Read waits at most the 5 ms read
// timeout set by OpenSerial when nothing is buffered, so the engine's
// drain never stalls for longer than that.
type SerialStream struct {
	port serial.Port
}

// OpenSerial opens device at baud and puts it in non-blocking read
// mode (a short read timeout, so Read returns promptly with whatever
// is already available instead of stalling the super-loop).
func OpenSerial(device string, baud int) (*SerialStream, error) {
	port, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, err
	}
	if err := port.SetReadTimeout(5 * time.Millisecond); err != nil {
		port.Close()
		return nil, err
	}
	return &SerialStream{port: port}, nil
}

func (s *SerialStream) Read(p []byte) (int, error)  { return s.port.Read(p) }
func (s *SerialStream) Write(p []byte) (int, error) { return s.port.Write(p) }
func (s *SerialStream) Close() error                { return s.port.Close() }
