// Package preview turns palettes into finished images: a single layer or the
// composite a color picker shows for a given brightness, optionally
// supersampled.
package preview

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"time"

	"golang.org/x/image/draw"

	"github.com/erinpentecost/hsbpalette/internal/hue"
	"github.com/erinpentecost/hsbpalette/internal/palette"
)

var ErrUnknownLayer = errors.New("unknown layer")

// Layer selects what gets rendered.
type Layer string

const (
	LayerForeground Layer = "foreground"
	LayerBackground Layer = "background"
	LayerComposite  Layer = "composite"
)

var Layers = []Layer{LayerForeground, LayerBackground, LayerComposite}

func ParseLayer(s string) (Layer, error) {
	for _, l := range Layers {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLayer, s)
}

// Compose draws the foreground over the background with the foreground's
// alpha scaled by brightness, the way a picker darkens its palette.
func Compose(ctx context.Context, p palette.Palette, brightness float64) (*image.NRGBA, error) {
	bg := p.RenderBackground()
	fg, err := p.RenderForeground(ctx)
	if err != nil {
		return nil, err
	}

	out := image.NewNRGBA(bg.Bounds().Union(fg.Bounds()))
	draw.Draw(out, bg.Bounds(), bg, bg.Bounds().Min, draw.Src)
	mask := image.NewUniform(color.Alpha{A: hue.ToUint8(brightness)})
	draw.DrawMask(out, fg.Bounds(), fg, fg.Bounds().Min, mask, image.Point{}, draw.Over)
	return out, nil
}

// Options describes a single rendering.
type Options struct {
	Shape palette.Shape
	Size  palette.Size
	Layer Layer
	// Brightness only affects the composite layer.
	Brightness float64
	// Supersample renders at Supersample times the size and scales down.
	// Values below 2 render directly.
	Supersample int
}

// Render renders one layer of a palette.
func Render(ctx context.Context, opts Options) (*image.NRGBA, error) {
	start := time.Now()
	factor := max(1, opts.Supersample)

	target, err := palette.New(opts.Shape, opts.Size)
	if err != nil {
		return nil, err
	}
	p := target
	if factor > 1 {
		p, _ = palette.New(opts.Shape, opts.Size.Scale(float64(factor)))
	}

	var img *image.NRGBA
	switch opts.Layer {
	case LayerForeground:
		img, err = p.RenderForeground(ctx)
	case LayerBackground:
		img = p.RenderBackground()
	case LayerComposite:
		img, err = Compose(ctx, p, opts.Brightness)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayer, opts.Layer)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s %s: %w", opts.Shape, opts.Layer, err)
	}

	w, h := pixelSize(target)
	img, err = (&Downscale{Width: w, Height: h}).Process(img)
	if err != nil {
		return nil, fmt.Errorf("downscale %s %s: %w", opts.Shape, opts.Layer, err)
	}

	palette.Logger().Debug("rendered layer",
		"shape", opts.Shape, "layer", opts.Layer, "size", opts.Size,
		"supersample", factor, "elapsed", time.Since(start))
	return img, nil
}

// pixelSize is the size of every layer p renders.
func pixelSize(p palette.Palette) (w, h int) {
	switch p := p.(type) {
	case *palette.Radial:
		n := p.PixelSize()
		return n, n
	case *palette.Rectangular:
		return p.PixelSize()
	}
	size := p.Size()
	return int(size.Width), int(size.Height)
}
