//go:build !linux

package pixoo

import "errors"

func dialRFCOMM(address string, channel int) (Transport, error) {
	return nil, &TransportError{Op: "dial rfcomm", Err: errors.New("rfcomm sockets are only supported on linux, use the serial network")}
}
