// Package physics turns the solid int grid cells of a plan into static
// Chipmunk collision shapes.
package physics

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/ldtkscene/scene"
)

const (
	CollisionTypeSolid cp.CollisionType = iota + 1
	CollisionTypeSensor
)

// DefaultFriction is used when a solid cell's output has no friction field.
const DefaultFriction = 0.8

// Rect is a block of cells. X and Y are the bottom left cell.
type Rect struct {
	X, Y int
	W, H int
}

// Collider is one static box added to the space.
type Collider struct {
	Layer    string
	Depth    int
	Rect     Rect
	BB       cp.BB
	Friction float64
	Sensor   bool
	Shape    *cp.Shape
}

// MergeCells covers the given cells of a w by h grid with as few
// rectangles as the greedy row-then-column sweep finds. Cells outside the
// grid are ignored.
func MergeCells(cells []scene.TilePos, w, h int) []Rect {
	if w <= 0 || h <= 0 || len(cells) == 0 {
		return nil
	}
	solid := make([]bool, w*h)
	for _, c := range cells {
		if c.X < 0 || c.Y < 0 || c.X >= w || c.Y >= h {
			continue
		}
		solid[c.Y*w+c.X] = true
	}

	visited := make([]bool, w*h)
	open := func(x, y int) bool {
		idx := y*w + x
		return solid[idx] && !visited[idx]
	}

	var rects []Rect
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !open(x, y) {
				continue
			}

			rw := 0
			for x2 := x; x2 < w && open(x2, y); x2++ {
				rw++
			}

			rh := 1
		heightLoop:
			for y2 := y + 1; y2 < h; y2++ {
				for x2 := x; x2 < x+rw; x2++ {
					if !open(x2, y2) {
						break heightLoop
					}
				}
				rh++
			}

			for yy := y; yy < y+rh; yy++ {
				for xx := x; xx < x+rw; xx++ {
					visited[yy*w+xx] = true
				}
			}
			rects = append(rects, Rect{X: x, Y: y, W: rw, H: rh})
		}
	}
	return rects
}

type colliderGroup struct {
	friction float64
	sensor   bool
}

// BuildSpace creates a space holding one static box per merged block of
// solid cells. Cells only merge with cells of the same layer, friction and
// sensor flag. Boxes are in plan pixel space, y up.
func BuildSpace(plan *scene.Plan) (*cp.Space, []Collider) {
	space := cp.NewSpace()
	if plan == nil {
		return space, nil
	}

	var colliders []Collider
	for i := range plan.Layers {
		layer := &plan.Layers[i]
		if len(layer.Cells) == 0 {
			continue
		}

		var order []colliderGroup
		groups := make(map[colliderGroup][]scene.TilePos)
		for _, cell := range layer.Cells {
			if !cell.Output.Solid {
				continue
			}
			key := colliderGroup{
				friction: friction(cell.Output.Fields),
				sensor:   sensor(cell.Output.Fields),
			}
			if _, ok := groups[key]; !ok {
				order = append(order, key)
			}
			groups[key] = append(groups[key], cell.Cell.Pos)
		}

		gs := float64(layer.GridSize)
		offX, offY := layer.Transform.Translation.X, layer.Transform.Translation.Y
		for _, key := range order {
			for _, r := range MergeCells(groups[key], layer.GridWidth, layer.GridHeight) {
				bb := cp.BB{
					L: offX + float64(r.X)*gs,
					B: offY + float64(r.Y)*gs,
					R: offX + float64(r.X+r.W)*gs,
					T: offY + float64(r.Y+r.H)*gs,
				}
				shape := cp.NewBox2(space.StaticBody, bb, 0)
				shape.SetFriction(key.friction)
				if key.sensor {
					shape.SetSensor(true)
					shape.SetCollisionType(CollisionTypeSensor)
				} else {
					shape.SetCollisionType(CollisionTypeSolid)
				}
				space.AddShape(shape)

				colliders = append(colliders, Collider{
					Layer:    layer.Identifier,
					Depth:    layer.Depth,
					Rect:     r,
					BB:       bb,
					Friction: key.friction,
					Sensor:   key.sensor,
					Shape:    shape,
				})
			}
		}
	}
	return space, colliders
}

func friction(fields map[string]any) float64 {
	switch v := fields["friction"].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return DefaultFriction
}

func sensor(fields map[string]any) bool {
	v, _ := fields["sensor"].(bool)
	return v
}
