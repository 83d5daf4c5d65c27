package pose

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/posereplay/internal/mocap"
)

type Convention int

const (
	Extrinsic Convention = iota
	Intrinsic
)

func (c Convention) String() string {
	switch c {
	case Extrinsic:
		return "extrinsic"
	case Intrinsic:
		return "intrinsic"
	default:
		return fmt.Sprintf("Convention(%d)", int(c))
	}
}

func ParseConvention(s string) (Convention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "extrinsic", "xyz":
		return Extrinsic, nil
	case "intrinsic":
		return Intrinsic, nil
	}
	return 0, &mocap.ConfigError{Field: "euler convention", Value: s, Reason: "want extrinsic or intrinsic"}
}

var (
	axisX = mgl64.Vec3{1, 0, 0}
	axisY = mgl64.Vec3{0, 1, 0}
	axisZ = mgl64.Vec3{0, 0, 1}
)

// EulerToQuat converts roll, pitch, yaw (radians about x, y, z) into a unit quaternion.
func EulerToQuat(roll, pitch, yaw float64, c Convention) mgl64.Quat {
	qx := mgl64.QuatRotate(roll, axisX)
	qy := mgl64.QuatRotate(pitch, axisY)
	qz := mgl64.QuatRotate(yaw, axisZ)

	var q mgl64.Quat
	if c == Intrinsic {
		q = qx.Mul(qy).Mul(qz)
	} else {
		q = qz.Mul(qy).Mul(qx)
	}
	return q.Normalize()
}

// QuatToEuler recovers a (roll, pitch, yaw) triple for q under convention c.
// Pitch is returned in [-pi/2, pi/2]; near gimbal lock roll and yaw are not
// unique but the composed rotation is preserved.
func QuatToEuler(q mgl64.Quat, c Convention) (roll, pitch, yaw float64) {
	m := q.Normalize().Mat4()

	if c == Intrinsic {
		pitch = math.Asin(clamp(m.At(0, 2), -1, 1))
		roll = math.Atan2(-m.At(1, 2), m.At(2, 2))
		yaw = math.Atan2(-m.At(0, 1), m.At(0, 0))
		return
	}

	pitch = math.Asin(clamp(-m.At(2, 0), -1, 1))
	roll = math.Atan2(m.At(2, 1), m.At(2, 2))
	yaw = math.Atan2(m.At(1, 0), m.At(0, 0))
	return
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
