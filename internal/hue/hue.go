// Package hue holds the HSB color value shared by the palettes and the
// conversions between it and Go's image/color types.
package hue

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// HSB represents a color in HSB (hue, saturation, brightness) color space.
// All components, alpha included, are in [0, 1].
type HSB struct {
	H, S, B, A float64
}

// New returns an opaque HSB color.
func New(h, s, b float64) HSB {
	return HSB{H: h, S: s, B: b, A: 1}
}

// WithHueAndSaturation returns a copy of c with hue and saturation replaced.
// Brightness and alpha are kept.
func (c HSB) WithHueAndSaturation(h, s float64) HSB {
	c.H = h
	c.S = s
	return c
}

// RGB converts c to red, green and blue components in [0, 1].
func (c HSB) RGB() (r, g, b float64) {
	// colorful.Hsv expects degrees in [0, 360); a hue of exactly 1 wraps to 0.
	deg := math.Mod(clamp01(c.H)*360, 360)
	col := colorful.Hsv(deg, clamp01(c.S), clamp01(c.B))
	return col.R, col.G, col.B
}

// NRGBA converts c to a non-premultiplied 8-bit color.
func (c HSB) NRGBA() color.NRGBA {
	r, g, b := c.RGB()
	return color.NRGBA{
		R: ToUint8(r),
		G: ToUint8(g),
		B: ToUint8(b),
		A: ToUint8(c.A),
	}
}

// RGBA implements color.Color.
func (c HSB) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// Hex formats the color (alpha ignored) as #rrggbb.
func (c HSB) Hex() string {
	n := c.NRGBA()
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}

func (c HSB) String() string {
	return fmt.Sprintf("hsb(%.4f, %.4f, %.4f, %.4f)", c.H, c.S, c.B, c.A)
}

// Model converts any color.Color to HSB.
var Model = color.ModelFunc(func(c color.Color) color.Color {
	if h, ok := c.(HSB); ok {
		return h
	}
	return FromColor(c)
})

// FromColor converts a color.Color to HSB.
func FromColor(c color.Color) HSB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	col := colorful.Color{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
	}
	h, s, v := col.Hsv()
	return HSB{H: h / 360, S: s, B: v, A: float64(n.A) / 255}
}

// ParseHex parses #rgb or #rrggbb into an opaque HSB color.
func ParseHex(s string) (HSB, error) {
	col, err := colorful.Hex(s)
	if err != nil {
		return HSB{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	h, sat, v := col.Hsv()
	return New(h/360, sat, v), nil
}

// ToUint8 quantizes a [0, 1] component to a byte, rounding to nearest.
func ToUint8(v float64) uint8 {
	v = math.Round(v * 255)
	if !(v > 0) {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Average calculates the average color of the pixels of img inside r.
// Hue is averaged as a vector so that it wraps around correctly; each
// pixel's hue vector is weighted by its saturation since the hue of a grey
// pixel carries no information.
func Average(img image.Image, r image.Rectangle) HSB {
	r = r.Intersect(img.Bounds())

	var sumX, sumY, sumS, sumB, sumA float64
	count := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := FromColor(img.At(x, y))

			rad := c.H * 2 * math.Pi
			sumX += c.S * math.Cos(rad)
			sumY += c.S * math.Sin(rad)
			sumS += c.S
			sumB += c.B
			sumA += c.A
			count++
		}
	}

	if count == 0 {
		return HSB{}
	}

	n := float64(count)
	h := 0.0
	if sumX != 0 || sumY != 0 {
		h = math.Atan2(sumY, sumX) / (2 * math.Pi)
		if h < 0 {
			h += 1
		}
	}
	return HSB{H: h, S: sumS / n, B: sumB / n, A: sumA / n}
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
