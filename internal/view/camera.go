package view

import "math"

const (
	MinZoom = 0.25
	MaxZoom = 16
)

// Camera maps plan space (y up, origin at the level's bottom left) to
// screen pixels. X and Y are the plan point shown at the viewport's top
// left corner.
type Camera struct {
	X, Y float64
	Zoom float64
	Left float64 // screen x where the viewport starts
}

func (c *Camera) zoom() float64 {
	if c.Zoom <= 0 {
		return 1
	}
	return c.Zoom
}

// ToScreen converts a plan point.
func (c *Camera) ToScreen(x, y float64) (float64, float64) {
	z := c.zoom()
	return c.Left + (x-c.X)*z, (c.Y-y)*z
}

// ToPlan is the inverse of ToScreen.
func (c *Camera) ToPlan(sx, sy float64) (float64, float64) {
	z := c.zoom()
	return (sx-c.Left)/z + c.X, c.Y - sy/z
}

// RectToScreen returns the top left corner and size of r on screen.
func (c *Camera) RectToScreen(r Rect) (x, y, w, h float64) {
	z := c.zoom()
	x, y = c.ToScreen(r.X, r.Y+r.H)
	return x, y, r.W * z, r.H * z
}

// Pan moves the view by a screen-space delta.
func (c *Camera) Pan(dx, dy float64) {
	z := c.zoom()
	c.X -= dx / z
	c.Y += dy / z
}

// ZoomAt multiplies the zoom by factor, keeping the plan point under the
// screen position fixed.
func (c *Camera) ZoomAt(factor, sx, sy float64) {
	px, py := c.ToPlan(sx, sy)
	c.Zoom = math.Min(MaxZoom, math.Max(MinZoom, c.zoom()*factor))
	nx, ny := c.ToScreen(px, py)
	c.Pan(sx-nx, sy-ny)
}

// Fit centers a levelW by levelH level inside a viewport of the given size.
func (c *Camera) Fit(levelW, levelH, viewW, viewH float64) {
	if levelW <= 0 || levelH <= 0 || viewW <= 0 || viewH <= 0 {
		c.Zoom = 1
		c.X, c.Y = 0, levelH
		return
	}
	z := math.Min(viewW/levelW, viewH/levelH) * 0.9
	c.Zoom = math.Min(MaxZoom, math.Max(MinZoom, z))
	c.X = levelW/2 - viewW/(2*c.Zoom)
	c.Y = levelH/2 + viewH/(2*c.Zoom)
}
