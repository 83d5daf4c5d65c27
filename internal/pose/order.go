package pose

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/posereplay/internal/mocap"
)

// Order is the component layout of a quaternion inside a configuration vector.
type Order int

const (
	XYZW Order = iota
	WXYZ
)

func (o Order) String() string {
	switch o {
	case XYZW:
		return "xyzw"
	case WXYZ:
		return "wxyz"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "xyzw":
		return XYZW, nil
	case "wxyz":
		return WXYZ, nil
	}
	return 0, &mocap.ConfigError{Field: "quaternion order", Value: s, Reason: "want xyzw or wxyz"}
}

// Put writes q into dst[0:4] using order o.
func (o Order) Put(dst []float64, q mgl64.Quat) {
	if o == WXYZ {
		dst[0], dst[1], dst[2], dst[3] = q.W, q.V[0], q.V[1], q.V[2]
		return
	}
	dst[0], dst[1], dst[2], dst[3] = q.V[0], q.V[1], q.V[2], q.W
}

// Get reads a quaternion laid out in order o from src[0:4].
func (o Order) Get(src []float64) mgl64.Quat {
	if o == WXYZ {
		return mgl64.Quat{W: src[0], V: mgl64.Vec3{src[1], src[2], src[3]}}
	}
	return mgl64.Quat{W: src[3], V: mgl64.Vec3{src[0], src[1], src[2]}}
}
