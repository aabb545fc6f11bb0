// Package serialport binds the fixed contract the hardware framer needs
// (read bytes, write bytes, close) to a real serial device.
package serialport

import (
	"io"

	"go.bug.st/serial"
)

// Port is everything the framer and controller need from a serial device.
// Kept narrow on purpose so tests can satisfy it with an in-memory pipe.
type Port interface {
	io.Reader
	io.Writer
	io.Closer
}

// Open opens path at 115200 baud, 8 data bits, no parity, one stop bit, no
// flow control -- the fixed wire configuration the device family requires.
func Open(path string) (Port, error) {
	mode := &serial.Mode{
		BaudRate: 115200,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	return serial.Open(path, mode)
}
