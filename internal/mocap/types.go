package mocap

const (
	BasePositionDim = 3
	EulerDim        = 3
	QuaternionDim   = 4

	// BaseFrameDim is the number of leading frame samples describing the base.
	BaseFrameDim = BasePositionDim + EulerDim
	// BaseConfigDim is the number of leading configuration values describing the base.
	BaseConfigDim = BasePositionDim + QuaternionDim
)

// Frame is one sampled time step of recorded motion.
type Frame []float64

func (f Frame) Position() []float64 { return f[:BasePositionDim] }
func (f Frame) Euler() []float64    { return f[BasePositionDim:BaseFrameDim] }
func (f Frame) Joints() []float64   { return f[BaseFrameDim:] }

// ConfigDim returns the configuration length a frame of this width decodes into.
func (f Frame) ConfigDim() int { return len(f) + QuaternionDim - EulerDim }

// Configuration is the full ordered set of degree-of-freedom values for one pose.
type Configuration []float64

func (q Configuration) Position() []float64   { return q[:BasePositionDim] }
func (q Configuration) Quaternion() []float64 { return q[BasePositionDim:BaseConfigDim] }
func (q Configuration) Joints() []float64     { return q[BaseConfigDim:] }

// Table is an ordered sequence of frames. Row order is playback order.
type Table struct {
	Columns []string
	Frames  []Frame
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Frames)
}

// Width returns the number of samples per row, or 0 for an empty table.
func (t *Table) Width() int {
	if t.Len() == 0 {
		return 0
	}
	return len(t.Frames[0])
}

// Column extracts one sample column across all frames.
func (t *Table) Column(i int) ([]float64, error) {
	if i < 0 || i >= t.Width() {
		return nil, &DimensionError{Expected: t.Width(), Actual: i, Row: -1, Msg: "column index out of range"}
	}
	out := make([]float64, t.Len())
	for r, f := range t.Frames {
		out[r] = f[i]
	}
	return out, nil
}

// Validate checks that the table is non-empty, rectangular and wide enough
// to carry a floating base.
func (t *Table) Validate() error {
	if t.Len() == 0 {
		return ErrEmptyTable
	}
	w := t.Width()
	if w < BaseFrameDim {
		return &DimensionError{Expected: BaseFrameDim, Actual: w, Row: 0, Msg: "row too short for a floating base"}
	}
	for i, f := range t.Frames {
		if len(f) != w {
			return &DimensionError{Expected: w, Actual: len(f), Row: i, Msg: "ragged motion table"}
		}
	}
	return nil
}
