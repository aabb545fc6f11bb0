// Package session implements the per-client session table: creation,
// reconfiguration, and the /sys/info dump, matching the serialosc
// reference's client-session contract. It is driven exclusively from the
// Bridge Controller's single dispatch goroutine and holds no lock of its
// own.
package session

import (
	"fmt"
	"log/slog"

	"github.com/hypebeast/go-osc/osc"

	"github.com/monome-tools/gridbridge/internal/hardware"
	"github.com/monome-tools/gridbridge/internal/oscnet"
)

// Registry holds every live session, keyed by "host:port" of the
// announcing client.
type Registry struct {
	sysID  string
	sender *oscnet.Sender
	log    *slog.Logger

	sessions map[string]*Session
}

// NewRegistry returns an empty Registry that sends confirmations and
// replies through sender.
func NewRegistry(sysID string, sender *oscnet.Sender, log *slog.Logger) *Registry {
	return &Registry{
		sysID:    sysID,
		sender:   sender,
		log:      log,
		sessions: make(map[string]*Session),
	}
}

func clientKey(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}

// All returns every live session. The returned slice aliases the registry's
// internal sessions and must only be read from the dispatch goroutine.
func (r *Registry) All() []*Session {
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}

// Lookup returns the session for a client address, if one exists.
func (r *Registry) Lookup(clientHost string, clientPort int) (*Session, bool) {
	s, ok := r.sessions[clientKey(clientHost, clientPort)]
	return s, ok
}

// EnsureSession returns the existing session for (clientHost, clientPort),
// or creates one by binding a fresh ephemeral UDP port. listener is non-nil
// only when a new session was created; the caller must start serving it.
func (r *Registry) EnsureSession(clientHost string, clientPort int) (sess *Session, listener *oscnet.Listener, err error) {
	key := clientKey(clientHost, clientPort)
	if s, ok := r.sessions[key]; ok {
		return s, nil, nil
	}

	l, err := oscnet.Listen("0.0.0.0:0")
	if err != nil {
		return nil, nil, err
	}

	s := &Session{
		Prefix:     "/monome",
		DeviceHost: clientHost,
		DevicePort: clientPort,
		SysPort:    l.Port(),
		ClientHost: clientHost,
		ClientPort: clientPort,
	}
	r.sessions[key] = s
	r.log.Debug("session created", "client", key, "sys_port", s.SysPort)
	return s, l, nil
}

// SendDiscoveryReply sends /serialosc/device to the session's original
// announcing address. Called after every EnsureSession, so a client that
// announces itself again gets the reply again, with the same SysPort.
func (r *Registry) SendDiscoveryReply(s *Session) error {
	msg := osc.NewMessage("/serialosc/device")
	msg.Append(r.sysID)
	msg.Append("monome")
	msg.Append(int32(s.SysPort))
	return r.sender.Send(s.ClientHost, s.ClientPort, msg)
}

// UpdatePort validates and applies /sys/port. An invalid port leaves
// DevicePort unchanged and sends no confirmation.
func (r *Registry) UpdatePort(s *Session, newPort int) error {
	if !IsGoodPort(newPort) {
		r.log.Debug("dropped /sys/port with invalid port", "port", newPort)
		return nil
	}
	s.DevicePort = newPort
	msg := osc.NewMessage("/sys/port")
	msg.Append(int32(s.DevicePort))
	return r.sender.Send(s.DeviceHost, s.DevicePort, msg)
}

// UpdateHost applies /sys/host and confirms with typetag 's' -- the
// reference sends 'i' here, which is a bug; this deliberately sends the
// string instead.
func (r *Registry) UpdateHost(s *Session, newHost string) error {
	s.DeviceHost = newHost
	msg := osc.NewMessage("/sys/host")
	msg.Append(s.DeviceHost)
	return r.sender.Send(s.DeviceHost, s.DevicePort, msg)
}

// UpdatePrefix applies /sys/prefix. No confirmation is sent, matching the
// reference (only port and host changes are confirmed).
func (r *Registry) UpdatePrefix(s *Session, newPrefix string) {
	s.Prefix = newPrefix
}

// SendInfo emits the six /sys/* messages of a /sys/info dump, in order, to
// the session's current device endpoint.
func (r *Registry) SendInfo(s *Session, size hardware.Size) error {
	send := func(msg *osc.Message) error {
		return r.sender.Send(s.DeviceHost, s.DevicePort, msg)
	}

	id := osc.NewMessage("/sys/id")
	id.Append(r.sysID)
	if err := send(id); err != nil {
		return err
	}

	sz := osc.NewMessage("/sys/size")
	sz.Append(int32(size.X))
	sz.Append(int32(size.Y))
	if err := send(sz); err != nil {
		return err
	}

	host := osc.NewMessage("/sys/host")
	host.Append(s.DeviceHost)
	if err := send(host); err != nil {
		return err
	}

	port := osc.NewMessage("/sys/port")
	port.Append(int32(s.DevicePort))
	if err := send(port); err != nil {
		return err
	}

	prefix := osc.NewMessage("/sys/prefix")
	prefix.Append(s.Prefix)
	if err := send(prefix); err != nil {
		return err
	}

	rotation := osc.NewMessage("/sys/rotation")
	rotation.Append(int32(0))
	return send(rotation)
}
