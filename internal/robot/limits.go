package robot

import (
	"math"

	"github.com/san-kum/posereplay/internal/mocap"
)

// Limited reports whether the joint declares a usable position range.
// Continuous joints and joints without a <limit> element are unbounded.
func (j Joint) Limited() bool {
	return (j.Type == Revolute || j.Type == Prismatic) && j.Upper > j.Lower
}

// LimitViolation summarizes the frames in which one joint leaves its range.
type LimitViolation struct {
	Joint        string
	Column       int
	Lower, Upper float64
	Count        int
	// First is the row index of the first offending frame.
	First int
	// Worst is the sample furthest outside the range.
	Worst float64
}

// CheckLimits scans motion frames against joint limits, one result per
// joint that leaves its range. Frames use the floating-base layout, so
// joint slot k is frame column BaseFrameDim+k.
func (m *Model) CheckLimits(frames []mocap.Frame) []LimitViolation {
	var out []LimitViolation
	for _, j := range m.Joints {
		if j.Index < 0 || !j.Limited() {
			continue
		}
		col := mocap.BaseFrameDim + j.Index - m.baseDim()

		v := LimitViolation{Joint: j.Name, Column: col, Lower: j.Lower, Upper: j.Upper, First: -1}
		excess := 0.0
		for row, f := range frames {
			if col >= len(f) {
				break
			}
			x := f[col]
			d := math.Max(j.Lower-x, x-j.Upper)
			if d <= 0 {
				continue
			}
			if v.Count == 0 {
				v.First = row
			}
			v.Count++
			if d > excess {
				excess, v.Worst = d, x
			}
		}
		if v.Count > 0 {
			out = append(out, v)
		}
	}
	return out
}
