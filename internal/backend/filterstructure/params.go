package filterstructure

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber coerces a raw token to a number. Surrounding whitespace is
// ignored and NaN is rejected.
func ParseNumber(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// CoerceArgs checks raw against the declared kinds of filter and converts
// every number argument.
func CoerceArgs(filter *Filter, raw []string) (Args, error) {
	expected := len(filter.Arguments)
	if len(raw) != expected {
		plural := ""
		if expected != 1 {
			plural = "s"
		}
		return nil, TypeError("`%s` expects %d argument%s, but got %d", filter.Name, expected, plural, len(raw))
	}

	args := make(Args, expected)
	for i, kind := range filter.Arguments {
		switch kind {
		case ArgNumber:
			v, ok := ParseNumber(raw[i])
			if !ok {
				return nil, TypeError("`%s` is not a number", raw[i])
			}
			args[i] = Arg{Kind: ArgNumber, Number: v}
		default:
			args[i] = Arg{Kind: ArgString, String: raw[i]}
		}
	}
	return args, nil
}
