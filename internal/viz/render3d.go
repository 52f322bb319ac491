package viz

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/cardsim/internal/dynamo"
)

// Card face size in world units.
const (
	CardWidth  = 3.5
	CardHeight = 2.0
)

// Camera orbits a target point and projects world space onto a canvas.
type Camera struct {
	Target   mgl64.Vec3
	Distance float64
	Yaw      float64
	Pitch    float64
	Zoom     float64
	Near     float64
}

func NewCamera() *Camera {
	return &Camera{Target: mgl64.Vec3{0, 2, 0}, Distance: 12, Pitch: -0.25, Zoom: 1, Near: 0.1}
}

func (c *Camera) Orbit(dyaw, dpitch float64) {
	c.Yaw = math.Remainder(c.Yaw+dyaw, 2*math.Pi)
	c.Pitch = dynamo.Clamp(c.Pitch+dpitch, -1.2, 1.2)
}

func (c *Camera) ZoomIn()  { c.Zoom = math.Min(4, c.Zoom*1.2) }
func (c *Camera) ZoomOut() { c.Zoom = math.Max(0.25, c.Zoom/1.2) }

func (c *Camera) view() mgl64.Mat3 {
	return mgl64.Rotate3DX(c.Pitch).Mul3(mgl64.Rotate3DY(c.Yaw))
}

// Project maps p to sub-pixel coordinates on an sw x sh surface. It returns
// the depth along the view axis and whether the point lands on screen.
func (c *Camera) Project(p mgl64.Vec3, sw, sh int) (int, int, float64, bool) {
	r := c.view().Mul3x1(p.Sub(c.Target)).Mul(c.Zoom)
	depth := c.Distance - r.Z()
	if depth <= c.Near {
		return 0, 0, 0, false
	}
	scale := c.Distance / depth
	unit := float64(min(sw, sh)) / 8
	sx := int(math.Round(r.X()*scale*unit)) + sw/2
	sy := int(math.Round(-r.Y()*scale*unit)) + sh/2
	return sx, sy, depth, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End mgl64.Vec3
}

// Scene is a flat list of edges and points drawn back to front.
type Scene struct {
	Edges  []Edge
	Points []mgl64.Vec3
}

func (s *Scene) Reset() {
	s.Edges = s.Edges[:0]
	s.Points = s.Points[:0]
}

// CardCorners returns the four face corners of a card posed by tr, counter
// clockwise from bottom-left.
func CardCorners(tr dynamo.Transform) [4]mgl64.Vec3 {
	q := mgl64.AnglesToQuat(tr.Rotation.X(), tr.Rotation.Y(), tr.Rotation.Z(), mgl64.XYZ)
	hw, hh := CardWidth/2*tr.Scale, CardHeight/2*tr.Scale
	local := [4]mgl64.Vec3{{-hw, -hh, 0}, {hw, -hh, 0}, {hw, hh, 0}, {-hw, hh, 0}}
	var out [4]mgl64.Vec3
	for i, v := range local {
		out[i] = q.Rotate(v).Add(tr.Position)
	}
	return out
}

// AddCard outlines the card. The back face gets a cross so a flip reads in
// a wireframe.
func (s *Scene) AddCard(tr dynamo.Transform, flipped bool) {
	c := CardCorners(tr)
	for i := range c {
		s.Edges = append(s.Edges, Edge{c[i], c[(i+1)%4]})
	}
	if flipped {
		s.Edges = append(s.Edges, Edge{c[0], c[2]}, Edge{c[1], c[3]})
	}
}

// AddParticles adds every live particle from a packed position slice.
func (s *Scene) AddParticles(positions []float32, count int) {
	for i := 0; i < count && 3*i+2 < len(positions); i++ {
		s.Points = append(s.Points, mgl64.Vec3{
			float64(positions[3*i]), float64(positions[3*i+1]), float64(positions[3*i+2]),
		})
	}
}

type projected struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render draws the scene onto the canvas, farthest first.
func Render(c *Canvas, s *Scene, cam *Camera) {
	if c == nil || s == nil || cam == nil {
		return
	}
	cw, ch := c.Width*2, c.Height*4
	proj := make([]projected, 0, len(s.Edges)+len(s.Points))
	for _, e := range s.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, cw, ch)
		x2, y2, d2, v2 := cam.Project(e.End, cw, ch)
		if (v1 || v2) && d1 > 0 && d2 > 0 {
			proj = append(proj, projected{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	for _, p := range s.Points {
		if x, y, d, ok := cam.Project(p, cw, ch); ok {
			proj = append(proj, projected{x, y, x, y, d})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth > proj[j].depth })
	for _, e := range proj {
		if e.x1 == e.x2 && e.y1 == e.y2 {
			c.Set(e.x1, e.y1)
			continue
		}
		c.DrawLine(e.x1, e.y1, e.x2, e.y2)
	}
}

// Bounds returns the cell-space bounding box of the card on a canvas of
// w x h cells.
func (c *Camera) Bounds(tr dynamo.Transform, w, h int) (x0, y0, x1, y1 int, ok bool) {
	x0, y0, x1, y1 = math.MaxInt, math.MaxInt, math.MinInt, math.MinInt
	for _, p := range CardCorners(tr) {
		sx, sy, d, _ := c.Project(p, w*2, h*4)
		if d <= 0 {
			return 0, 0, 0, 0, false
		}
		x0, x1 = min(x0, sx/2), max(x1, sx/2)
		y0, y1 = min(y0, sy/4), max(y1, sy/4)
	}
	return x0, y0, x1, y1, true
}
