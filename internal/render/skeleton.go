package render

import (
	"github.com/san-kum/posereplay/internal/robot"
)

// DrawSkeleton draws every link as a segment from its parent, plus a
// ground line under the root.
func DrawSkeleton(c *Canvas, cam *Camera, sk *robot.Skeleton) {
	w, h := c.Dots()

	type pt struct {
		x, y int
		ok   bool
	}
	pts := make([]pt, len(sk.Points))
	for i, p := range sk.Points {
		x, y, _, ok := cam.Project(p, w, h)
		pts[i] = pt{x, y, ok}
	}

	for i, parent := range sk.Parents {
		if parent < 0 {
			continue
		}
		a, b := pts[parent], pts[i]
		if a.ok || b.ok {
			c.DrawLine(a.x, a.y, b.x, b.y)
		}
	}

	if len(pts) > 0 && pts[0].ok {
		c.Disc(pts[0].x, pts[0].y)
	}

	if len(sk.Points) > 0 {
		root := sk.Points[0]
		for dx := -0.5; dx <= 0.5; dx += 0.05 {
			g := root
			g[0] += dx
			g[2] = 0
			if x, y, _, ok := cam.Project(g, w, h); ok {
				c.Set(x, y)
			}
		}
	}
}
