package hardware

// Opcode is the leading byte of a hardware message, identifying its type
// and implying its total length.
type Opcode byte

const (
	OpSysIDResponse Opcode = 0x01
	OpSizeReport    Opcode = 0x03
	OpKeyUp         Opcode = 0x20
	OpKeyDown       Opcode = 0x21

	// QuerySysID and QuerySize are the two frames the framer writes on
	// open to prime the device into announcing itself.
	QuerySysID Opcode = 0x01
	QuerySize  Opcode = 0x05
)

// frameLen gives the total byte length of a frame given its leading opcode.
// Opcode 0x01's real payload format is undocumented here; it is recognized
// as a zero-payload frame purely so it doesn't get treated as garbage and
// force a resync.
var frameLen = map[Opcode]int{
	OpSysIDResponse: 1,
	OpSizeReport:    3,
	OpKeyUp:         3,
	OpKeyDown:       3,
}
