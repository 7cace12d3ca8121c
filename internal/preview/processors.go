package preview

import (
	"image"

	"golang.org/x/image/draw"
)

type Processor interface {
	Process(src *image.NRGBA) (*image.NRGBA, error)
}

// Downscale resamples an image to Width×Height with Catmull-Rom filtering.
// It smooths the hard edge of the radial mask when the palette was rendered
// supersampled.
type Downscale struct {
	Width, Height int
}

func (p *Downscale) Process(src *image.NRGBA) (*image.NRGBA, error) {
	b := src.Bounds()
	if b.Dx() == p.Width && b.Dy() == p.Height {
		return src, nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, max(0, p.Width), max(0, p.Height)))
	if dst.Bounds().Empty() || b.Empty() {
		return dst, nil
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst, nil
}
