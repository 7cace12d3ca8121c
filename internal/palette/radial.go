package palette

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"sync/atomic"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/erinpentecost/hsbpalette/internal/hue"
)

// Radial maps hue to the angle around the center of an inscribed disk and
// saturation to the distance from the center.
//
// Angles follow image coordinates: hue 0 points along +x, hue 0.25 along +y
// (down).
type Radial struct {
	geom atomic.Pointer[radialGeometry]
}

// radialGeometry is an immutable snapshot of the derived disk geometry.
type radialGeometry struct {
	size           Size
	diameter       float64
	radius         float64
	midX, midY     float64
	ceiledDiameter int
}

var _ Palette = (*Radial)(nil)

func NewRadial(size Size) *Radial {
	p := &Radial{}
	p.SetSize(size)
	return p
}

func (p *Radial) SetSize(size Size) {
	size = size.sanitize()
	diameter := min(size.Width, size.Height)
	p.geom.Store(&radialGeometry{
		size:           size,
		diameter:       diameter,
		radius:         diameter / 2,
		midX:           diameter/2 + min(0, (size.Width-diameter)/2),
		midY:           diameter/2 + min(0, (size.Height-diameter)/2),
		ceiledDiameter: int(math.Ceil(diameter)),
	})
}

func (p *Radial) geometry() *radialGeometry {
	if g := p.geom.Load(); g != nil {
		return g
	}
	return &radialGeometry{}
}

func (p *Radial) Size() Size {
	return p.geometry().size
}

func (p *Radial) Diameter() float64 {
	return p.geometry().diameter
}

func (p *Radial) Radius() float64 {
	return p.geometry().radius
}

// Center returns the center of the disk.
func (p *Radial) Center() Point {
	g := p.geometry()
	return Point{X: g.midX, Y: g.midY}
}

// PixelSize returns the integer edge length of the rendered images.
func (p *Radial) PixelSize() int {
	return p.geometry().ceiledDiameter
}

// Sample returns hue, saturation and the coverage mask under point. The
// mask is 1 inside the disk and 0 outside; saturation stays at 1 beyond the
// edge.
func (p *Radial) Sample(point Point) (h, s, alpha float64) {
	return p.geometry().sample(point)
}

func (g *radialGeometry) sample(point Point) (h, s, alpha float64) {
	if g.radius <= 0 {
		return 0, 0, 1
	}
	dx := (point.X - g.midX) / g.radius
	dy := (point.Y - g.midY) / g.radius
	distance := math.Sqrt(dx*dx + dy*dy)
	if !(distance > 0) {
		return 0, 0, 1
	}

	// acos covers half a turn; the sign of dy picks the half.
	h = math.Acos(max(-1, min(1, dx/distance))) / (2 * math.Pi)
	if dy < 0 {
		h = 1 - h
	}
	alpha = 1
	if distance > 1 {
		alpha = 0
	}
	return h, min(1, distance), alpha
}

func (p *Radial) HueAndSaturation(point Point) (h, s float64) {
	h, s, _ = p.Sample(point)
	return h, s
}

func (p *Radial) ModifyColor(c hue.HSB, point Point) hue.HSB {
	h, s := p.HueAndSaturation(point)
	return c.WithHueAndSaturation(h, s)
}

// PositionAndAlpha returns the point for c's hue and saturation and c's
// brightness as the foreground alpha.
func (p *Radial) PositionAndAlpha(c hue.HSB) (Point, float64) {
	g := p.geometry()
	angle := 2 * math.Pi * c.H
	return Point{
		X: g.midX + g.radius*c.S*math.Cos(angle),
		Y: g.midY + g.radius*c.S*math.Sin(angle),
	}, c.B
}

// ClosestValidPoint returns point if it lies on the disk, otherwise its
// projection onto the rim along the ray from the center.
func (p *Radial) ClosestValidPoint(point Point) Point {
	g := p.geometry()
	dx := point.X - g.midX
	dy := point.Y - g.midY
	distance := math.Hypot(dx, dy)
	if distance <= g.radius {
		return point
	}
	return Point{
		X: g.midX + g.radius*(dx/distance),
		Y: g.midY + g.radius*(dy/distance),
	}
}

// RenderForeground renders the color wheel into a square image of the
// ceiled diameter. Pixels outside the disk are fully transparent.
func (p *Radial) RenderForeground(ctx context.Context) (*image.NRGBA, error) {
	g := p.geometry()
	n := g.ceiledDiameter
	pix, err := rasterize(ctx, n, n, func(x, y int) color.NRGBA {
		h, s, alpha := g.sample(Point{X: float64(x), Y: float64(y)})
		c := hue.New(h, s, 1)
		c.A = alpha
		return c.NRGBA()
	})
	if err != nil {
		return nil, fmt.Errorf("render radial foreground %s: %w", g.size, err)
	}
	return imageOrEmpty("radial foreground", pix, n, n), nil
}

// RenderBackground renders an anti-aliased black disk on a transparent
// square of the ceiled diameter.
func (p *Radial) RenderBackground() *image.NRGBA {
	g := p.geometry()
	n := g.ceiledDiameter
	img := image.NewNRGBA(image.Rect(0, 0, n, n))
	if n == 0 {
		return img
	}

	z := vector.NewRasterizer(n, n)
	z.DrawOp = draw.Src
	addCircle(z, float32(g.midX), float32(g.midY), float32(g.radius))
	z.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{})
	return img
}

// kappa places cubic Bézier control points so that four segments
// approximate a circle.
const kappa = 0.5522847498

func addCircle(z *vector.Rasterizer, cx, cy, r float32) {
	k := kappa * r
	z.MoveTo(cx+r, cy)
	z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	z.ClosePath()
}
