package oscnet

// StringArg returns args[i] narrowed to a string, and whether that
// succeeded. Malformed or short argument lists are the caller's problem to
// drop, per the protocol's no-error-reply contract.
func StringArg(args []interface{}, i int) (string, bool) {
	if i >= len(args) {
		return "", false
	}
	s, ok := args[i].(string)
	return s, ok
}

// Int32Arg returns args[i] narrowed to an int, tolerant of any OSC numeric
// typetag ('i', 'h', 'f', 'd') a lenient client might send.
func Int32Arg(args []interface{}, i int) (int, bool) {
	if i >= len(args) {
		return 0, false
	}
	return toInt(args[i])
}

// Ints narrows an entire OSC argument list to ints, dropping any argument
// that isn't numeric. Used to feed the translator's variable-length LED
// messages.
func Ints(args []interface{}) []int {
	out := make([]int, 0, len(args))
	for _, a := range args {
		if v, ok := toInt(a); ok {
			out = append(out, v)
		}
	}
	return out
}

func toInt(a interface{}) (int, bool) {
	switch v := a.(type) {
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float32:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
