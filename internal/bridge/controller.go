// Package bridge wires the Serial Framer, the OSC transport, and the
// Session Registry into the daemon's top-level behavior: discovery routing
// and per-session dispatch, all funneled through one goroutine so handlers
// run to completion without yielding mid-message.
package bridge

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/hypebeast/go-osc/osc"

	"github.com/monome-tools/gridbridge/internal/hardware"
	"github.com/monome-tools/gridbridge/internal/oscnet"
	"github.com/monome-tools/gridbridge/internal/serialport"
	"github.com/monome-tools/gridbridge/internal/session"
	"github.com/monome-tools/gridbridge/internal/translator"
)

// DefaultDiscoveryAddr is the fixed UDP endpoint clients announce
// themselves on, matching the serialosc reference's well-known discovery
// port.
const DefaultDiscoveryAddr = "0.0.0.0:12002"

type discoveryMsg struct {
	host string
	port int
}

type sessionMsg struct {
	sess *session.Session
	msg  *osc.Message
}

// Controller is the top-level daemon value: it owns the serial port, the
// discovery socket, and every session's socket, and is the only component
// that catches errors.
type Controller struct {
	port   serialport.Port
	framer *hardware.Framer

	registry *session.Registry
	sender   *oscnet.Sender
	log      *slog.Logger

	discoveryListener *oscnet.Listener

	hwEvents        chan hardware.Event
	sessionEvents   chan sessionMsg
	discoveryEvents chan discoveryMsg
}

// New builds a Controller around an already-open serial port. sysID is the
// short identifier the daemon reports to clients (default "monome").
func New(port serialport.Port, sysID string, log *slog.Logger) *Controller {
	sender := oscnet.NewSender()
	return &Controller{
		port:            port,
		framer:          hardware.New(port, log),
		registry:        session.NewRegistry(sysID, sender, log),
		sender:          sender,
		log:             log,
		hwEvents:        make(chan hardware.Event, 64),
		sessionEvents:   make(chan sessionMsg, 64),
		discoveryEvents: make(chan discoveryMsg, 64),
	}
}

// Listen initializes the framer, binds the discovery socket at
// discoveryAddr, and starts the discovery socket's reader. Call Dispatch
// afterward to run the event loop; it starts the serial reader.
func (c *Controller) Listen(discoveryAddr string) error {
	if err := c.framer.Init(); err != nil {
		return fmt.Errorf("priming serial device: %w", err)
	}

	l, err := oscnet.Listen(discoveryAddr)
	if err != nil {
		return fmt.Errorf("binding discovery socket: %w", err)
	}
	c.discoveryListener = l

	d := oscnet.NewDispatcher()
	if err := d.AddMsgHandler("/serialosc/list", c.handleDiscovery); err != nil {
		return fmt.Errorf("registering discovery handler: %w", err)
	}
	go func() {
		if err := c.discoveryListener.Serve(d); err != nil {
			c.log.Debug("discovery socket closed", "error", err)
		}
	}()

	return nil
}

// DiscoveryPort returns the UDP port the discovery socket is bound to.
func (c *Controller) DiscoveryPort() int {
	return c.discoveryListener.Port()
}

// Dispatch runs the central event loop until the serial link fails. It
// starts the framer's read loop itself and blocks until that loop returns.
func (c *Controller) Dispatch() error {
	fatal := make(chan error, 1)
	go func() { fatal <- c.framer.Run(c.hwEvents) }()

	for {
		select {
		case err := <-fatal:
			return fmt.Errorf("serial link closed: %w", err)
		case ev := <-c.hwEvents:
			c.dispatchHardware(ev)
		case sm := <-c.sessionEvents:
			c.dispatchSession(sm)
		case d := <-c.discoveryEvents:
			c.handleEnsureSession(d)
		}
	}
}

func (c *Controller) handleDiscovery(msg *osc.Message) {
	host, ok := oscnet.StringArg(msg.Arguments, 0)
	if !ok {
		return
	}
	port, ok := oscnet.Int32Arg(msg.Arguments, 1)
	if !ok || !session.IsGoodPort(port) {
		return
	}
	c.discoveryEvents <- discoveryMsg{host: host, port: port}
}

func (c *Controller) dispatchHardware(ev hardware.Event) {
	switch ev.Kind {
	case hardware.EventSizeReport:
		// already absorbed into the framer's shared size; nothing to forward.
	case hardware.EventKeyUp, hardware.EventKeyDown:
		c.fanOutKeyEvent(ev)
	}
}

// fanOutKeyEvent delivers one key event to every live session before the
// next hardware event is processed.
func (c *Controller) fanOutKeyEvent(ev hardware.Event) {
	for _, s := range c.registry.All() {
		addr := translator.KeyEventAddress(s.Prefix)
		args := translator.KeyEventArgs(ev.Kind, ev.X, ev.Y)

		msg := osc.NewMessage(addr)
		msg.Append(args[0])
		msg.Append(args[1])
		msg.Append(args[2])

		if err := c.sender.Send(s.DeviceHost, s.DevicePort, msg); err != nil {
			c.log.Debug("key event send failed", "session", s.SysPort, "error", err)
		}
	}
}

func (c *Controller) handleEnsureSession(d discoveryMsg) {
	s, listener, err := c.registry.EnsureSession(d.host, d.port)
	if err != nil {
		c.log.Error("failed to bind session socket", "client", d.host, "error", err)
		return
	}
	if listener != nil {
		go c.serveSession(s, listener)
	}
	if err := c.registry.SendDiscoveryReply(s); err != nil {
		c.log.Debug("discovery reply send failed", "client", d.host, "error", err)
	}
}

func (c *Controller) serveSession(s *session.Session, l *oscnet.Listener) {
	d := oscnet.NewDispatcher()
	d.AddMsgHandler("*", func(msg *osc.Message) {
		c.sessionEvents <- sessionMsg{sess: s, msg: msg}
	})
	if err := l.Serve(d); err != nil {
		c.log.Debug("session socket closed", "session", s.SysPort, "error", err)
	}
}

// dispatchSession handles one message already known to belong to sess:
// /sys/* messages are handled here, everything else is a grid message.
func (c *Controller) dispatchSession(sm sessionMsg) {
	s, msg := sm.sess, sm.msg

	switch msg.Address {
	case "/sys/port":
		if p, ok := oscnet.Int32Arg(msg.Arguments, 0); ok {
			c.logErr(c.registry.UpdatePort(s, p))
		}
	case "/sys/host":
		if h, ok := oscnet.StringArg(msg.Arguments, 0); ok {
			c.logErr(c.registry.UpdateHost(s, h))
		}
	case "/sys/prefix":
		if p, ok := oscnet.StringArg(msg.Arguments, 0); ok {
			c.registry.UpdatePrefix(s, p)
		}
	case "/sys/info":
		c.logErr(c.registry.SendInfo(s, c.framer.Size()))
	default:
		c.dispatchGridMessage(s, msg)
	}
}

func (c *Controller) dispatchGridMessage(s *session.Session, msg *osc.Message) {
	if !strings.HasPrefix(msg.Address, s.Prefix) {
		return
	}
	stripped := strings.TrimPrefix(msg.Address, s.Prefix)
	args := oscnet.Ints(msg.Arguments)

	bytes, ok := translator.ToHardware(stripped, args)
	if !ok {
		return
	}
	if _, err := c.port.Write(bytes); err != nil {
		c.log.Debug("serial write failed", "address", msg.Address, "error", err)
	}
}

func (c *Controller) logErr(err error) {
	if err != nil {
		c.log.Debug("send failed", "error", err)
	}
}
