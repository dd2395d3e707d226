package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gorilla/websocket"
	"go.bug.st/serial"
)

// Connection is a byte-stream to a running lsh-node, serial or
// websocket, grounded on the teacher pack's Thermoquad-heliostat
// cmd/connection.go Connection/SerialConnection/WebSocketConnection
// split.
type Connection interface {
	io.Reader
	io.Writer
	io.Closer
}

type serialConnection struct{ port serial.Port }

func (s *serialConnection) Read(p []byte) (int, error)  { return s.port.Read(p) }
func (s *serialConnection) Write(p []byte) (int, error) { return s.port.Write(p) }
func (s *serialConnection) Close() error                { return s.port.Close() }

func openSerialConnection(portName string, baud int) (Connection, error) {
	mode := &serial.Mode{BaudRate: baud}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", portName, err)
	}
	return &serialConnection{port: port}, nil
}

type wsConnection struct {
	conn      *websocket.Conn
	buf       []byte
	bufOffset int
}

func (w *wsConnection) Read(p []byte) (int, error) {
	if w.bufOffset < len(w.buf) {
		n := copy(p, w.buf[w.bufOffset:])
		w.bufOffset += n
		return n, nil
	}
	for {
		messageType, data, err := w.conn.ReadMessage()
		if err != nil {
			return 0, err
		}
		if messageType != websocket.BinaryMessage && messageType != websocket.TextMessage {
			continue
		}
		w.buf = data
		w.bufOffset = 0
		n := copy(p, w.buf)
		w.bufOffset = n
		return n, nil
	}
}

func (w *wsConnection) Write(p []byte) (int, error) {
	if err := w.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *wsConnection) Close() error { return w.conn.Close() }

func openWebSocketConnection(url string) (Connection, error) {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	conn, resp, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket connect failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("websocket connect failed: %w", err)
	}
	return &wsConnection{conn: conn}, nil
}

// openConnection opens whichever transport the persistent flags name.
func openConnection() (Connection, string, error) {
	if wsURL != "" {
		conn, err := openWebSocketConnection(wsURL)
		if err != nil {
			return nil, "", err
		}
		return conn, fmt.Sprintf("websocket: %s", wsURL), nil
	}
	if portName != "" {
		conn, err := openSerialConnection(portName, baudRate)
		if err != nil {
			return nil, "", err
		}
		return conn, fmt.Sprintf("serial: %s @ %d baud", portName, baudRate), nil
	}
	return nil, "", fmt.Errorf("either --port or --ws must be specified")
}
