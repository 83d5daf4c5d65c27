package robot

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/posereplay/internal/mocap"
	"github.com/san-kum/posereplay/internal/pose"
)

// Skeleton holds world positions of every link, in Model.Links order.
// Parents[i] is the index of link i's parent link, -1 for the root.
type Skeleton struct {
	Names   []string
	Points  []mgl64.Vec3
	Parents []int
}

// Forward places every link in the world frame for configuration q, whose
// base quaternion is laid out in order.
func (m *Model) Forward(q mocap.Configuration, order pose.Order) (*Skeleton, error) {
	if len(q) != m.DOF() {
		return nil, &mocap.DimensionError{Expected: m.DOF(), Actual: len(q), Row: -1, Msg: "configuration length"}
	}

	n := len(m.Links)
	sk := &Skeleton{
		Names:   m.Links,
		Points:  make([]mgl64.Vec3, n),
		Parents: make([]int, n),
	}

	world := make(map[string]mgl64.Mat4, n)
	index := make(map[string]int, n)

	base := mgl64.Ident4()
	if m.FloatingBase {
		p := q.Position()
		rot := order.Get(q.Quaternion()).Normalize()
		base = mgl64.Translate3D(p[0], p[1], p[2]).Mul4(rot.Mat4())
	}
	world[m.Root] = base
	index[m.Root] = 0
	sk.Points[0] = base.Col(3).Vec3()
	sk.Parents[0] = -1

	// Joints are stored depth first, so every parent is placed before its child.
	for _, j := range m.Joints {
		t := world[j.Parent].Mul4(j.Origin)
		if j.Index >= 0 {
			t = t.Mul4(j.motion(q[j.Index]))
		}
		world[j.Child] = t

		i := len(index)
		index[j.Child] = i
		sk.Points[i] = t.Col(3).Vec3()
		sk.Parents[i] = index[j.Parent]
	}
	return sk, nil
}

func (j Joint) motion(v float64) mgl64.Mat4 {
	if j.Type == Prismatic {
		d := j.Axis.Mul(v)
		return mgl64.Translate3D(d[0], d[1], d[2])
	}
	return mgl64.HomogRotate3D(v, j.Axis)
}
