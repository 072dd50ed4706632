package decimate

import (
	"fmt"
	"math"
)

// Method is a stop-criterion method name accepted on the CLI boundary.
type Method string

const (
	MethodPercent Method = "percent"
	MethodMax     Method = "max"
)

// ErrUnknownMethod is returned by TargetTriangleCount for any method string
// other than "percent" or "max".
var ErrUnknownMethod = fmt.Errorf("unknown method, want %q or %q", MethodPercent, MethodMax)

// TargetTriangleCount translates a method and limit into a target live
// triangle count T*, given the initial live triangle count T0.
func TargetTriangleCount(method Method, limit float64, t0 int) (int, error) {
	switch method {
	case MethodPercent:
		target := int(math.Floor(float64(t0) * (1 - limit)))
		if target < 0 {
			target = 0
		}
		return target, nil
	case MethodMax:
		target := t0 - int(limit)
		if target < 0 {
			target = 0
		}
		return target, nil
	default:
		return 0, fmt.Errorf("%q: %w", method, ErrUnknownMethod)
	}
}
