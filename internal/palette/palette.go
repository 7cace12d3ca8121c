// Package palette maps points of a color palette to hue and saturation and
// back, and renders the palette gradients into RGBA images.
//
// Two geometries are supported: a rectangle with hue along x and saturation
// along y, and a disk with hue as the angle and saturation as the distance
// from the center. Brightness is never encoded by position; hosting widgets
// draw the foreground over the black background with alpha equal to the
// selected brightness.
package palette

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/erinpentecost/hsbpalette/internal/hue"
)

var ErrUnknownShape = errors.New("unknown palette shape")

// Size is the extent of a palette in points.
type Size struct {
	Width, Height float64
}

func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}

// Scale returns s with both dimensions multiplied by f.
func (s Size) Scale(f float64) Size {
	return Size{Width: s.Width * f, Height: s.Height * f}
}

// sanitize replaces negative and non-finite dimensions with 0.
func (s Size) sanitize() Size {
	fix := func(v float64) float64 {
		if math.IsInf(v, 0) || !(v > 0) {
			return 0
		}
		return v
	}
	return Size{Width: fix(s.Width), Height: fix(s.Height)}
}

// Point is a location in the palette's local coordinate space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Palette is implemented by every palette geometry.
type Palette interface {
	// SetSize changes the bounds and recomputes all derived geometry.
	SetSize(size Size)
	Size() Size

	// HueAndSaturation returns the hue and saturation under point.
	HueAndSaturation(point Point) (h, s float64)
	// ModifyColor returns c with hue and saturation taken from point.
	ModifyColor(c hue.HSB, point Point) hue.HSB
	// PositionAndAlpha returns where c sits on the palette and the alpha
	// the foreground should be drawn with.
	PositionAndAlpha(c hue.HSB) (Point, float64)
	// ClosestValidPoint projects point onto the palette.
	ClosestValidPoint(point Point) Point

	// RenderForeground renders the hue/saturation gradient at full
	// brightness.
	RenderForeground(ctx context.Context) (*image.NRGBA, error)
	// RenderBackground renders the black backing shape.
	RenderBackground() *image.NRGBA
}

// Shape names a palette geometry.
type Shape string

const (
	ShapeRectangular Shape = "rectangular"
	ShapeRadial      Shape = "radial"
)

// Shapes lists every supported geometry.
var Shapes = []Shape{ShapeRectangular, ShapeRadial}

// ParseShape validates a shape name.
func ParseShape(s string) (Shape, error) {
	for _, shape := range Shapes {
		if string(shape) == s {
			return shape, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownShape, s)
}

// New creates a palette of the given shape and size.
func New(shape Shape, size Size) (Palette, error) {
	switch shape {
	case ShapeRectangular:
		return NewRectangular(size), nil
	case ShapeRadial:
		return NewRadial(size), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownShape, shape)
	}
}

func clamp01(v float64) float64 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
