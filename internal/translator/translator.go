// Package translator is the stateless, total mapping between OSC messages
// and the grid's binary serial protocol, in both directions.
package translator

import "github.com/monome-tools/gridbridge/internal/hardware"

// encoder turns an already-stripped-of-prefix OSC address's integer
// arguments into the bytes to write to the serial device. It returns nil if
// there are fewer arguments than the address needs; extra arguments beyond
// a fixed-width payload are ignored.
type encoder func(args []int) []byte

var table = map[string]encoder{
	"/grid/led/set":         encodeLedSet,
	"/grid/led/all":         encodeLedAll,
	"/grid/led/map":         encodeLedMap,
	"/grid/led/row":         encodeLedRow,
	"/grid/led/col":         encodeLedCol,
	"/grid/led/intensity":   encodeIntensity,
	"/grid/led/level/set":   encodeLevelSet,
	"/grid/led/level/all":   encodeLevelAll,
	"/grid/led/level/map":   encodeLevelMap,
	"/grid/led/level/row":   encodeLevelRow,
	"/grid/led/level/col":   encodeLevelCol,
}

// ToHardware translates a stripped OSC address and its integer arguments
// into the byte sequence to write to the serial device. ok is false for an
// unknown address or a short argument list; callers must silently drop in
// that case, per the protocol's no-error-reply contract.
func ToHardware(strippedAddr string, args []int) (bytes []byte, ok bool) {
	enc, known := table[strippedAddr]
	if !known {
		return nil, false
	}
	b := enc(args)
	if b == nil {
		return nil, false
	}
	return b, true
}

func encodeLedSet(args []int) []byte {
	if len(args) < 3 {
		return nil
	}
	op := byte(0x10)
	if args[2] != 0 {
		op = 0x11
	}
	return []byte{op, byte(args[0]), byte(args[1])}
}

func encodeLedAll(args []int) []byte {
	if len(args) < 1 {
		return nil
	}
	op := byte(0x12)
	if args[0] != 0 {
		op = 0x13
	}
	return []byte{op}
}

func encodeLedMap(args []int) []byte {
	if len(args) < 10 {
		return nil
	}
	return prefixed(0x14, args, 8)
}

func encodeLedRow(args []int) []byte {
	if len(args) < 2 {
		return nil
	}
	return prefixed(0x15, args, len(args)-2)
}

func encodeLedCol(args []int) []byte {
	if len(args) < 2 {
		return nil
	}
	return prefixed(0x16, args, len(args)-2)
}

func encodeIntensity(args []int) []byte {
	if len(args) < 1 {
		return nil
	}
	return []byte{0x17, byte(args[0])}
}

func encodeLevelSet(args []int) []byte {
	if len(args) < 3 {
		return nil
	}
	return []byte{0x18, byte(args[0]), byte(args[1]), byte(args[2])}
}

func encodeLevelAll(args []int) []byte {
	if len(args) < 1 {
		return nil
	}
	return []byte{0x19, byte(args[0])}
}

func encodeLevelMap(args []int) []byte {
	if len(args) < 66 {
		return nil
	}
	return prefixed(0x1a, args, 64)
}

func encodeLevelRow(args []int) []byte {
	if len(args) < 10 {
		return nil
	}
	return prefixed(0x1b, args, 8)
}

func encodeLevelCol(args []int) []byte {
	if len(args) < 10 {
		return nil
	}
	return prefixed(0x1c, args, 8)
}

// prefixed builds "op, x, y, payload...[:n]" truncating every value to a
// byte, per the spec's no-range-validation rule.
func prefixed(op byte, args []int, n int) []byte {
	out := make([]byte, 0, 3+n)
	out = append(out, op, byte(args[0]), byte(args[1]))
	for _, v := range args[2 : 2+n] {
		out = append(out, byte(v))
	}
	return out
}

// KeyEventAddress is the OSC address a key event is published under for a
// session with the given prefix.
func KeyEventAddress(prefix string) string {
	return prefix + "/grid/key"
}

// KeyEventArgs returns the (x, y, state) argument triple for a hardware key
// event, state being 1 for key-down and 0 for key-up.
func KeyEventArgs(kind hardware.EventKind, x, y int) [3]int32 {
	state := int32(0)
	if kind == hardware.EventKeyDown {
		state = 1
	}
	return [3]int32{int32(x), int32(y), state}
}
