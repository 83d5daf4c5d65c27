package motion

import (
	"fmt"
	"math"

	"github.com/san-kum/posereplay/internal/mocap"
)

// ColumnStats describes one column of a motion table.
type ColumnStats struct {
	Index int
	Name  string
	Min   float64
	Max   float64
	Mean  float64
}

// Summarize computes per-column statistics in column order.
func Summarize(tbl *mocap.Table) []ColumnStats {
	w := tbl.Width()
	stats := make([]ColumnStats, w)
	for i := range stats {
		stats[i] = ColumnStats{Index: i, Name: ColumnName(tbl, i), Min: math.Inf(1), Max: math.Inf(-1)}
	}

	for _, f := range tbl.Frames {
		for i, v := range f {
			s := &stats[i]
			s.Min = math.Min(s.Min, v)
			s.Max = math.Max(s.Max, v)
			s.Mean += v
		}
	}

	n := float64(tbl.Len())
	for i := range stats {
		if n > 0 {
			stats[i].Mean /= n
		}
	}
	return stats
}

// ColumnName returns the header name of column i, falling back to the
// role the column plays in a frame.
func ColumnName(tbl *mocap.Table, i int) string {
	if i < len(tbl.Columns) && tbl.Columns[i] != "" {
		return tbl.Columns[i]
	}
	switch {
	case i < mocap.BasePositionDim:
		return [...]string{"base_x", "base_y", "base_z"}[i]
	case i < mocap.BaseFrameDim:
		return [...]string{"base_roll", "base_pitch", "base_yaw"}[i-mocap.BasePositionDim]
	default:
		return fmt.Sprintf("joint_%d", i-mocap.BaseFrameDim)
	}
}
