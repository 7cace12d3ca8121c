package texture

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/dblezek/tga"
	"golang.org/x/image/bmp"
)

// Encode writes m into w using format f.
func Encode(w io.Writer, m image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, m)
	case BMP:
		return bmp.Encode(w, m)
	case TGA:
		return tga.Encode(w, m)
	case DDS:
		return EncodeDDS(w, m)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// Decode reads an image in format f from r.
func Decode(r io.Reader, f Format) (image.Image, error) {
	switch f {
	case PNG:
		return png.Decode(r)
	case BMP:
		return bmp.Decode(r)
	case TGA:
		return tga.Decode(r)
	case DDS:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read dds: %w", err)
		}
		return DecodeDDS(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}

// WriteFile encodes m to path, choosing the format from the extension.
func WriteFile(path string, m image.Image) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	if err := Encode(out, m, f); err != nil {
		out.Close()
		return fmt.Errorf("encode %q: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %q: %w", path, err)
	}
	return nil
}

// ReadFile decodes the image at path, choosing the format from the
// extension.
func ReadFile(path string) (image.Image, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer in.Close()

	img, err := Decode(in, f)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", path, err)
	}
	return img, nil
}
