package viz

import (
	"math"
	"sort"
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Camera projects world coordinates onto the terminal canvas with a simple
// perspective divide.
type Camera struct {
	Distance   float64
	RotX, RotY float64
	Zoom       float64
}

func NewCamera() *Camera {
	return &Camera{Distance: 6, RotX: -0.5, RotY: 0.6, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(8, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.2, c.Zoom/1.2) }

func (c *Camera) rotate(p Vec3) Vec3 {
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	return p
}

// Project returns sub-pixel canvas coordinates plus depth; ok is false for
// points behind the camera.
func (c *Camera) Project(p Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.rotate(p).Scale(c.Zoom)
	if rot.Z >= c.Distance-0.1 {
		return 0, 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot.Z)
	minDim := math.Min(float64(sw), float64(sh))
	px := minDim / 3.0
	sx := int(rot.X*scale*px) + sw/2
	sy := int(-rot.Y*scale*px) + sh/2
	return sx, sy, rot.Z, true
}

type Edge struct {
	Start, End Vec3
}

// Wireframe is a bag of edges; degenerate edges are points.
type Wireframe struct {
	Edges []Edge
}

func NewWireframe() *Wireframe           { return &Wireframe{} }
func (w *Wireframe) AddEdge(s, e Vec3)   { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) AddPoint(p Vec3)     { w.Edges = append(w.Edges, Edge{p, p}) }
func (w *Wireframe) Append(o *Wireframe) { w.Edges = append(w.Edges, o.Edges...) }

type projected struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render draws the wireframe onto the canvas back to front.
func Render(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	sw, sh := c.Width*2, c.Height*4
	proj := make([]projected, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, ok1 := cam.Project(e.Start, sw, sh)
		x2, y2, d2, ok2 := cam.Project(e.End, sw, sh)
		if ok1 || ok2 {
			proj = append(proj, projected{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		if e.x1 == e.x2 && e.y1 == e.y2 {
			c.Set(e.x1, e.y1)
		} else {
			c.Line(e.x1, e.y1, e.x2, e.y2)
		}
	}
}

// AxesWireframe marks the eta, invariant and strain axes of the unit scene.
func AxesWireframe(l float64) *Wireframe {
	w := NewWireframe()
	o := Vec3{-1, -1, 0}
	w.AddEdge(o, o.Add(Vec3{l, 0, 0}))
	w.AddEdge(o, o.Add(Vec3{0, l, 0}))
	w.AddEdge(o, o.Add(Vec3{0, 0, l}))
	return w
}
