// Package hardware frames the Monome grid's binary serial protocol into
// decoded events and tracks the one piece of shared device state (grid
// size) that the protocol reports asynchronously.
package hardware

import (
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
)

// EventKind tags the variant carried by an Event.
type EventKind int

const (
	EventKeyUp EventKind = iota
	EventKeyDown
	EventSizeReport
)

// Event is a decoded hardware message. For KeyUp and KeyDown, X and Y are
// the key's grid coordinates; for SizeReport they are the grid's width and
// height.
type Event struct {
	Kind EventKind
	X, Y int
}

// Size is the grid's dimensions as last reported by the device.
type Size struct {
	X, Y int
}

// DefaultSize is used until the device reports its real size.
var DefaultSize = Size{X: 8, Y: 8}

// Framer reads a byte stream from a serial-like Port, splits it into
// fixed-width frames by leading opcode, and emits decoded Events. It is the
// sole writer of the shared Size fact; sessions only ever read it.
type Framer struct {
	port io.ReadWriter
	log  *slog.Logger

	size atomic.Value // holds Size

	buf []byte
}

// New wraps port. The returned Framer does not start reading until Run is
// called.
func New(port io.ReadWriter, log *slog.Logger) *Framer {
	f := &Framer{port: port, log: log}
	f.size.Store(DefaultSize)
	return f
}

// Size returns the most recently reported grid size, or DefaultSize if the
// device has not reported one yet.
func (f *Framer) Size() Size {
	return f.size.Load().(Size)
}

// Init sends the two query frames the device needs on open: a sys-id
// request and a size request. Responses arrive asynchronously through Run.
func (f *Framer) Init() error {
	if _, err := f.port.Write([]byte{byte(QuerySysID)}); err != nil {
		return err
	}
	_, err := f.port.Write([]byte{byte(QuerySize)})
	return err
}

// Run reads from the port until it errors, decoding frames and sending each
// decoded Event to events. io.EOF is returned to the caller, which decides
// whether to terminate the process; every other read error is treated as
// transient, logged and retried.
func (f *Framer) Run(events chan<- Event) error {
	read := make([]byte, 512)
	for {
		n, err := f.port.Read(read)
		if n > 0 {
			f.buf = append(f.buf, read[:n]...)
			f.drain(events)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return err
			}
			f.log.Debug("serial read error, retrying", "error", err)
			continue
		}
	}
}

// drain consumes complete frames from the internal buffer, dropping any
// leading byte that doesn't match a known opcode and resynchronizing on the
// next one. Partial frames stay buffered for the next Read.
func (f *Framer) drain(events chan<- Event) {
	for len(f.buf) > 0 {
		op := Opcode(f.buf[0])
		n, known := frameLen[op]
		if !known {
			f.buf = f.buf[1:]
			continue
		}
		if len(f.buf) < n {
			return
		}
		frame := f.buf[:n]
		f.buf = f.buf[n:]
		f.decode(op, frame, events)
	}
}

func (f *Framer) decode(op Opcode, frame []byte, events chan<- Event) {
	switch op {
	case OpSysIDResponse:
		// payload format unspecified; nothing to do.
	case OpSizeReport:
		size := Size{X: int(frame[1]), Y: int(frame[2])}
		f.size.Store(size)
		events <- Event{Kind: EventSizeReport, X: size.X, Y: size.Y}
	case OpKeyUp:
		events <- Event{Kind: EventKeyUp, X: int(frame[1]), Y: int(frame[2])}
	case OpKeyDown:
		events <- Event{Kind: EventKeyDown, X: int(frame[1]), Y: int(frame[2])}
	}
}
