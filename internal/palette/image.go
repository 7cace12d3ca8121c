package palette

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

var ErrInvalidBuffer = errors.New("invalid pixel buffer")

// NewImage wraps a row-major, non-premultiplied RGBA byte buffer of w×h
// pixels in an image. pix is used directly, not copied.
func NewImage(pix []byte, w, h int) (*image.NRGBA, error) {
	if w < 0 || h < 0 {
		return nil, fmt.Errorf("%w: negative size %dx%d", ErrInvalidBuffer, w, h)
	}
	if len(pix) != 4*w*h {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d pixels", ErrInvalidBuffer, len(pix), w, h)
	}
	return &image.NRGBA{
		Pix:    pix,
		Stride: 4 * w,
		Rect:   image.Rect(0, 0, w, h),
	}, nil
}

// imageOrEmpty builds the image for a rendered buffer. A buffer that cannot
// be turned into an image is logged and replaced by an empty image: a
// missing gradient is a visual problem, not a fatal one.
func imageOrEmpty(name string, pix []byte, w, h int) *image.NRGBA {
	img, err := NewImage(pix, w, h)
	if err != nil {
		Logger().Warn("palette image construction failed",
			"layer", name, "error", err)
		return image.NewNRGBA(image.Rectangle{})
	}
	return img
}

// shader returns the color of the pixel at column x, row y.
type shader func(x, y int) color.NRGBA

// rasterize evaluates shade for every pixel of a w×h buffer. Rows are
// shaded concurrently; each goroutine writes only its own row.
func rasterize(ctx context.Context, w, h int, shade shader) ([]byte, error) {
	start := time.Now()
	pix := make([]byte, 4*w*h)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for y := range h {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			row := pix[4*y*w : 4*(y+1)*w]
			for x := range w {
				c := shade(x, y)
				i := 4 * x
				row[i+0] = c.R
				row[i+1] = c.G
				row[i+2] = c.B
				row[i+3] = c.A
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	Logger().Debug("rasterized", "width", w, "height", h, "elapsed", time.Since(start))
	return pix, nil
}
