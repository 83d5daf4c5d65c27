package pose

import (
	"github.com/san-kum/posereplay/internal/mocap"
)

// DefaultZOffset compensates for the motion source measuring base height
// 5 cm above the model's ground plane.
const DefaultZOffset = 0.05

// Decoder turns motion frames into configuration vectors. The zero value
// decodes extrinsic Euler angles into xyzw quaternions without a height
// correction; use NewDecoder for the calibrated defaults.
type Decoder struct {
	Convention Convention
	Order      Order
	ZOffset    float64
}

func NewDecoder() Decoder {
	return Decoder{Convention: Extrinsic, Order: XYZW, ZOffset: DefaultZOffset}
}

// Decode builds the configuration for f. dof is the model's degree of
// freedom count and must equal len(f)+1.
func (d Decoder) Decode(f mocap.Frame, dof int) (mocap.Configuration, error) {
	if len(f) < mocap.BaseFrameDim || f.ConfigDim() != dof {
		return nil, &mocap.DimensionError{
			Expected: dof - 1,
			Actual:   len(f),
			Row:      -1,
			Msg:      "frame width does not match model",
		}
	}

	q := make(mocap.Configuration, dof)
	d.DecodeInto(q, f)
	return q, nil
}

// DecodeInto writes the configuration for f into dst without validating
// widths. dst must have length len(f)+1.
func (d Decoder) DecodeInto(dst mocap.Configuration, f mocap.Frame) {
	copy(dst[:mocap.BasePositionDim], f.Position())
	dst[2] -= d.ZOffset

	e := f.Euler()
	rot := EulerToQuat(e[0], e[1], e[2], d.Convention)
	d.Order.Put(dst[mocap.BasePositionDim:mocap.BaseConfigDim], rot)

	copy(dst[mocap.BaseConfigDim:], f.Joints())
}
