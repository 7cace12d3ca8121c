package palette

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync/atomic"

	"golang.org/x/image/draw"

	"github.com/erinpentecost/hsbpalette/internal/hue"
)

// Rectangular maps hue to the x axis and saturation to the y axis, with
// full saturation at the top edge.
type Rectangular struct {
	geom atomic.Pointer[rectGeometry]
}

// rectGeometry is an immutable snapshot of a rectangular palette's bounds.
type rectGeometry struct {
	size      Size
	intWidth  int
	intHeight int
}

var _ Palette = (*Rectangular)(nil)

func NewRectangular(size Size) *Rectangular {
	p := &Rectangular{}
	p.SetSize(size)
	return p
}

func (p *Rectangular) SetSize(size Size) {
	size = size.sanitize()
	p.geom.Store(&rectGeometry{
		size:      size,
		intWidth:  int(size.Width),
		intHeight: int(size.Height),
	})
}

func (p *Rectangular) geometry() *rectGeometry {
	if g := p.geom.Load(); g != nil {
		return g
	}
	return &rectGeometry{}
}

func (p *Rectangular) Size() Size {
	return p.geometry().size
}

// PixelSize returns the integer dimensions of the rendered images.
func (p *Rectangular) PixelSize() (w, h int) {
	g := p.geometry()
	return g.intWidth, g.intHeight
}

func (p *Rectangular) HueAndSaturation(point Point) (h, s float64) {
	return p.geometry().hueAndSaturation(point)
}

func (g *rectGeometry) hueAndSaturation(point Point) (h, s float64) {
	return ratio(point.X, g.size.Width), 1 - ratio(point.Y, g.size.Height)
}

// ratio returns v/extent clamped to [0, 1]. A zero extent maps everything
// at or before the origin to 0 and everything past it to 1.
func ratio(v, extent float64) float64 {
	if extent <= 0 {
		if v > 0 {
			return 1
		}
		return 0
	}
	return clamp01(v / extent)
}

func (p *Rectangular) ModifyColor(c hue.HSB, point Point) hue.HSB {
	h, s := p.HueAndSaturation(point)
	return c.WithHueAndSaturation(h, s)
}

// PositionAndAlpha returns the point for c's hue and saturation. The alpha is
// c's brightness: the gradient itself is rendered at full brightness and
// fades over the black background as brightness drops.
func (p *Rectangular) PositionAndAlpha(c hue.HSB) (Point, float64) {
	size := p.geometry().size
	return Point{
		X: c.H * size.Width,
		Y: size.Height - c.S*size.Height,
	}, c.B
}

func (p *Rectangular) ClosestValidPoint(point Point) Point {
	size := p.geometry().size
	return Point{
		X: min(size.Width, max(0, point.X)),
		Y: min(size.Height, max(0, point.Y)),
	}
}

func (p *Rectangular) RenderForeground(ctx context.Context) (*image.NRGBA, error) {
	g := p.geometry()
	pix, err := rasterize(ctx, g.intWidth, g.intHeight, func(x, y int) color.NRGBA {
		h, s := g.hueAndSaturation(Point{X: float64(x), Y: float64(y)})
		return hue.New(h, s, 1).NRGBA()
	})
	if err != nil {
		return nil, fmt.Errorf("render rectangular foreground %s: %w", g.size, err)
	}
	return imageOrEmpty("rectangular foreground", pix, g.intWidth, g.intHeight), nil
}

func (p *Rectangular) RenderBackground() *image.NRGBA {
	g := p.geometry()
	img := image.NewNRGBA(image.Rect(0, 0, g.intWidth, g.intHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	return img
}
