package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera orbits a target point. World z is up on screen; the camera looks
// along +y when Yaw and Pitch are zero.
type Camera struct {
	Target   mgl64.Vec3
	Yaw      float64
	Pitch    float64
	Zoom     float64
	Distance float64
	// Extent is the world height, in meters, that fills the view at zoom 1.
	Extent float64
}

func NewCamera() *Camera {
	return &Camera{Zoom: 1, Distance: 4, Extent: 2}
}

func (c *Camera) Orbit(d float64) { c.Yaw += d }
func (c *Camera) Tilt(d float64) {
	c.Pitch = math.Max(-math.Pi/2, math.Min(math.Pi/2, c.Pitch+d))
}
func (c *Camera) ZoomIn()  { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// Project maps a world point to dot coordinates on a w by h canvas.
// It returns the screen position, the depth, and whether the point is
// in front of the camera and on screen.
func (c *Camera) Project(p mgl64.Vec3, w, h int) (int, int, float64, bool) {
	rot := mgl64.Rotate3DX(c.Pitch).Mul3(mgl64.Rotate3DZ(-c.Yaw))
	v := rot.Mul3x1(p.Sub(c.Target))

	depth := c.Distance + v[1]
	if depth <= 0.05 {
		return 0, 0, depth, false
	}

	scale := c.Zoom * (c.Distance / depth) * float64(min(w, h)) / c.Extent
	sx := w/2 + int(math.Round(v[0]*scale))
	sy := h/2 - int(math.Round(v[2]*scale))
	return sx, sy, depth, sx >= 0 && sx < w && sy >= 0 && sy < h
}
