package pixoo

import (
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	serial "go.bug.st/serial.v1"
)

// ─── Transports ─────────────────────────────────────────────────────────────────
//
// The Pixoo exposes a Bluetooth serial port profile and nothing else. It
// can be reached through a raw RFCOMM socket, through a bound tty such as
// /dev/rfcomm0, or through a serial-to-TCP bridge. All of them are plain
// byte streams; the device never writes back anything we read.

const (
	// DefaultRFCOMMChannel is the SPP channel of the device.
	DefaultRFCOMMChannel = 1

	// DefaultBaudRate is used for tty transports. Bluetooth ttys ignore it.
	DefaultBaudRate = 115200
)

// Network names accepted by Dial.
const (
	NetworkRFCOMM = "rfcomm"
	NetworkSerial = "serial"
	NetworkTCP    = "tcp"
)

// Transport is a write-only byte stream to the device.
type Transport interface {
	// Write sends one complete frame.
	Write(frame []byte) error
	// Close releases the link.
	Close() error
}

// TransportOptions holds the link parameters used by Dial.
type TransportOptions struct {
	Timeout  time.Duration
	Channel  int // RFCOMM channel
	BaudRate int // serial baud rate
}

// Dial opens a transport.
//
//	t, err := pixoo.Dial("rfcomm", "11:75:58:AA:BB:CC", pixoo.TransportOptions{Channel: 1})
//	t, err := pixoo.Dial("serial", "/dev/rfcomm0", pixoo.TransportOptions{})
//	t, err := pixoo.Dial("tcp", "192.168.1.20:7777", pixoo.TransportOptions{})
func Dial(network, address string, opts TransportOptions) (Transport, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Channel <= 0 {
		opts.Channel = DefaultRFCOMMChannel
	}
	if opts.BaudRate <= 0 {
		opts.BaudRate = DefaultBaudRate
	}

	switch strings.ToLower(network) {
	case NetworkRFCOMM, "":
		return dialRFCOMM(address, opts.Channel)
	case NetworkSerial:
		return dialSerial(address, opts.BaudRate)
	case NetworkTCP:
		return dialTCP(address, opts.Timeout)
	default:
		return nil, &TransportError{Op: "dial", Err: fmt.Errorf("unknown network %q", network)}
	}
}

// ─── TCP ────────────────────────────────────────────────────────────────────────

type tcpTransport struct {
	conn net.Conn
}

func dialTCP(address string, timeout time.Duration) (Transport, error) {
	conn, err := net.DialTimeout("tcp", address, timeout)
	if err != nil {
		return nil, &TransportError{Op: "dial tcp", Err: err}
	}
	return &tcpTransport{conn: conn}, nil
}

func (t *tcpTransport) Write(frame []byte) error {
	if _, err := t.conn.Write(frame); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	return nil
}

func (t *tcpTransport) Close() error {
	return t.conn.Close()
}

// ─── Serial ─────────────────────────────────────────────────────────────────────

type serialTransport struct {
	port serial.Port
}

func dialSerial(device string, baud int) (Transport, error) {
	mode := &serial.Mode{BaudRate: baud}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, &TransportError{Op: "open serial", Err: err}
	}
	return &serialTransport{port: port}, nil
}

func (t *serialTransport) Write(frame []byte) error {
	if _, err := t.port.Write(frame); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	return nil
}

func (t *serialTransport) Close() error {
	return t.port.Close()
}

// ─── Recorder ───────────────────────────────────────────────────────────────────

// Recorder is an in-memory transport keeping a copy of every frame.
// FailAfter, when positive, makes the write with that 1-based number fail.
type Recorder struct {
	mu        sync.Mutex
	frames    [][]byte
	closed    bool
	FailAfter int
}

// Write records frame.
func (r *Recorder) Write(frame []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return &TransportError{Op: "write", Err: io.ErrClosedPipe}
	}
	if r.FailAfter > 0 && len(r.frames)+1 >= r.FailAfter {
		return &TransportError{Op: "write", Err: io.ErrShortWrite}
	}
	r.frames = append(r.frames, append([]byte(nil), frame...))
	return nil
}

// Close marks the recorder closed.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Frames returns the recorded frames in write order.
func (r *Recorder) Frames() [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]byte, len(r.frames))
	copy(out, r.frames)
	return out
}

// ─── Hex Dump ───────────────────────────────────────────────────────────────────

// HexDumper writes every frame as an upper-case hex line, prefixed with the
// command name. Used for dry runs.
type HexDumper struct {
	W io.Writer
}

// Write prints frame.
func (h *HexDumper) Write(frame []byte) error {
	name := "?"
	if cmd, _, err := DecodeFrame(frame); err == nil {
		name = cmd.String()
	}
	if _, err := fmt.Fprintf(h.W, "%-20s %s\n", name, strings.ToUpper(hex.EncodeToString(frame))); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	return nil
}

// Close does nothing.
func (h *HexDumper) Close() error { return nil }
