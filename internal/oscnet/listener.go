package oscnet

import (
	"net"

	"github.com/hypebeast/go-osc/osc"
)

// Listener binds a UDP socket for receive-only OSC traffic and exposes the
// concrete port it ended up bound to -- needed because sessions bind
// ephemeral ports and must report the one the OS actually chose.
type Listener struct {
	conn net.PacketConn
}

// Listen binds addr (e.g. "0.0.0.0:12002" or "0.0.0.0:0" for an ephemeral
// port).
func Listen(addr string) (*Listener, error) {
	conn, err := net.ListenPacket("udp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{conn: conn}, nil
}

// Port returns the UDP port this listener is bound to.
func (l *Listener) Port() int {
	return l.conn.LocalAddr().(*net.UDPAddr).Port
}

// Serve dispatches incoming packets to dispatcher until the listener is
// closed. Packets are dispatched one at a time, in arrival order, on the
// calling goroutine; packets that fail to parse are dropped. It blocks;
// callers run it in its own goroutine.
func (l *Listener) Serve(dispatcher osc.Dispatcher) error {
	buf := make([]byte, 65535)
	for {
		n, _, err := l.conn.ReadFrom(buf)
		if err != nil {
			return err
		}
		packet, err := osc.ParsePacket(string(buf[:n]))
		if err != nil {
			continue
		}
		dispatcher.Dispatch(packet)
	}
}

// Close releases the underlying socket.
func (l *Listener) Close() error {
	return l.conn.Close()
}

// NewDispatcher is a thin re-export so callers only need to import oscnet,
// not the codec package directly, for the common wiring path.
func NewDispatcher() *osc.StandardDispatcher {
	return osc.NewStandardDispatcher()
}
