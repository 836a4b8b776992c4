//go:build linux

package pixoo

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

type rfcommTransport struct {
	f *os.File
}

// dialRFCOMM connects a Bluetooth RFCOMM stream socket to the device.
// Connect blocks until the link is up or the kernel gives up.
func dialRFCOMM(address string, channel int) (Transport, error) {
	addr, err := parseBDAddr(address)
	if err != nil {
		return nil, &TransportError{Op: "dial rfcomm", Err: err}
	}

	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_STREAM, unix.BTPROTO_RFCOMM)
	if err != nil {
		return nil, &TransportError{Op: "socket", Err: err}
	}

	sa := &unix.SockaddrRFCOMM{Addr: addr, Channel: uint8(channel)}
	if err := unix.Connect(fd, sa); err != nil {
		unix.Close(fd)
		return nil, &TransportError{Op: "connect", Err: fmt.Errorf("%s channel %d: %w", address, channel, err)}
	}

	return &rfcommTransport{f: os.NewFile(uintptr(fd), "rfcomm:"+address)}, nil
}

func (t *rfcommTransport) Write(frame []byte) error {
	if _, err := t.f.Write(frame); err != nil {
		return &TransportError{Op: "write", Err: err}
	}
	return nil
}

func (t *rfcommTransport) Close() error {
	return t.f.Close()
}

// parseBDAddr parses "11:22:33:44:55:66". The kernel expects the bytes of a
// Bluetooth address in reverse order.
func parseBDAddr(s string) ([6]uint8, error) {
	var out [6]uint8
	hw, err := net.ParseMAC(s)
	if err != nil || len(hw) != 6 {
		return out, fmt.Errorf("invalid bluetooth address %q", s)
	}
	for i := 0; i < 6; i++ {
		out[i] = hw[5-i]
	}
	return out, nil
}
