package session

// Session is per-client state: its OSC address prefix, the device-facing
// endpoint device-originated OSC is sent to, and the ephemeral UDP port
// dedicated to this client. All fields are owned by the Bridge Controller's
// single dispatch goroutine -- Session itself does no locking; the session
// table is mutated only by that goroutine.
type Session struct {
	Prefix     string
	DeviceHost string
	DevicePort int
	SysPort    int

	// ClientHost/ClientPort are the address the client originally
	// announced itself from. They never change; they exist only to
	// deliver the /serialosc/device reply.
	ClientHost string
	ClientPort int
}

// IsGoodPort reports whether n is a valid, assignable UDP port. Replaces
// the exception-for-control-flow the reference used on bad ports.
func IsGoodPort(n int) bool {
	return n > 0 && n < 65536
}
