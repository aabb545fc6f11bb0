// Package oscnet binds the daemon's session and discovery traffic to the
// OSC Codec dependency (github.com/hypebeast/go-osc/osc): one memoized
// sender per destination and a thin listener wrapper that hands back the
// concrete UDP port a session was bound to.
package oscnet

import (
	"fmt"
	"net"
	"sync"

	"github.com/hypebeast/go-osc/osc"
)

// Sender keeps one *osc.Client per (host, port) destination and reuses it.
type Sender struct {
	mu      sync.Mutex
	clients map[string]*osc.Client
}

// NewSender returns an empty Sender.
func NewSender() *Sender {
	return &Sender{clients: make(map[string]*osc.Client)}
}

// Send delivers msg to host:port, creating and caching a client for that
// destination on first use.
func (s *Sender) Send(host string, port int, msg *osc.Message) error {
	return s.client(host, port).Send(msg)
}

func (s *Sender) client(host string, port int) *osc.Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := destKey(host, port)
	c, ok := s.clients[key]
	if !ok {
		c = osc.NewClient(host, port)
		s.clients[key] = c
	}
	return c
}

func destKey(host string, port int) string {
	return net.JoinHostPort(host, fmt.Sprint(port))
}
