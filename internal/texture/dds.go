package texture

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"math/bits"

	"github.com/mauserzjeh/dxt"
	"golang.org/x/image/draw"
)

const (
	ddsMagic      = "DDS "
	ddsHeaderSize = 124
	ddsPfOffset   = 72 // pixel format, relative to the header
	ddsPfSize     = 32
	ddsDataOffset = len(ddsMagic) + ddsHeaderSize

	ddsdCaps        = 0x1
	ddsdHeight      = 0x2
	ddsdWidth       = 0x4
	ddsdPitch       = 0x8
	ddsdPixelFormat = 0x1000

	ddpfAlphaPixels = 0x1
	ddpfFourCC      = 0x4
	ddpfRGB         = 0x40

	ddsCapsTexture = 0x1000

	// maxDecodedBytes caps the RGBA buffer a header may ask for.
	maxDecodedBytes = 1 << 30
)

var errEmptyImage = errors.New("dds: empty image")

// EncodeDDS writes m as an uncompressed 32-bit DDS with straight alpha. The
// channel masks put the bytes of every pixel in R, G, B, A order.
func EncodeDDS(w io.Writer, m image.Image) error {
	b := m.Bounds()
	if b.Empty() {
		return errEmptyImage
	}

	src, ok := m.(*image.NRGBA)
	if !ok {
		src = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(src, src.Bounds(), m, b.Min, draw.Src)
	}
	width, height := src.Rect.Dx(), src.Rect.Dy()

	var header [ddsHeaderSize]byte
	put := func(off int, v uint32) {
		binary.LittleEndian.PutUint32(header[off:], v)
	}
	put(0, ddsHeaderSize)
	put(4, ddsdCaps|ddsdHeight|ddsdWidth|ddsdPitch|ddsdPixelFormat)
	put(8, uint32(height))
	put(12, uint32(width))
	put(16, uint32(4*width))

	pf := ddsPfOffset
	put(pf+0, ddsPfSize)
	put(pf+4, ddpfRGB|ddpfAlphaPixels)
	put(pf+12, 32)
	put(pf+16, 0x000000FF)
	put(pf+20, 0x0000FF00)
	put(pf+24, 0x00FF0000)
	put(pf+28, 0xFF000000)

	put(104, ddsCapsTexture)

	if _, err := io.WriteString(w, ddsMagic); err != nil {
		return err
	}
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	for y := range height {
		off := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		if _, err := w.Write(src.Pix[off : off+4*width]); err != nil {
			return err
		}
	}
	return nil
}

// DecodeDDS decodes DXT1, DXT3, DXT5 and uncompressed 24/32-bit DDS data.
func DecodeDDS(data []byte) (*image.NRGBA, error) {
	if len(data) < ddsDataOffset {
		return nil, fmt.Errorf("dds: data too short for header: %d < %d", len(data), ddsDataOffset)
	}
	if string(data[:len(ddsMagic)]) != ddsMagic {
		return nil, errors.New("dds: missing magic")
	}

	hdr := data[len(ddsMagic):ddsDataOffset]
	height := binary.LittleEndian.Uint32(hdr[8:])
	width := binary.LittleEndian.Uint32(hdr[12:])
	pf := hdr[ddsPfOffset : ddsPfOffset+ddsPfSize]
	pfFlags := binary.LittleEndian.Uint32(pf[4:])
	fourCC := string(pf[8:12])
	bitCount := binary.LittleEndian.Uint32(pf[12:])

	if width == 0 || height == 0 {
		return nil, fmt.Errorf("dds: empty dimensions %dx%d", width, height)
	}
	if uint64(width)*uint64(height) > maxDecodedBytes/4 {
		return nil, fmt.Errorf("dds: dimensions %dx%d exceed the %d byte decode limit", width, height, maxDecodedBytes)
	}

	pix := data[ddsDataOffset:]
	if len(pix) == 0 {
		return nil, errors.New("dds: no image data")
	}

	var (
		rgba []byte
		err  error
	)
	if pfFlags&ddpfFourCC != 0 {
		if err := checkBlocks(fourCC, len(pix), int(width), int(height)); err != nil {
			return nil, err
		}
	}

	switch {
	case pfFlags&ddpfFourCC != 0 && fourCC == "DXT1":
		rgba, err = dxt.DecodeDXT1(pix, uint(width), uint(height))
	case pfFlags&ddpfFourCC != 0 && fourCC == "DXT3":
		rgba, err = dxt.DecodeDXT3(pix, uint(width), uint(height))
	case pfFlags&ddpfFourCC != 0 && fourCC == "DXT5":
		rgba, err = dxt.DecodeDXT5(pix, uint(width), uint(height))
	case pfFlags&ddpfFourCC != 0:
		return nil, fmt.Errorf("dds: unsupported FourCC %q", fourCC)
	case bitCount == 24 || bitCount == 32:
		rgba, err = decodeUncompressed(pix, int(width), int(height), int(bitCount), pf)
	default:
		return nil, fmt.Errorf("dds: unsupported bit count %d", bitCount)
	}
	if err != nil {
		return nil, fmt.Errorf("dds: decode: %w", err)
	}

	if want := int(width) * int(height) * 4; len(rgba) != want {
		return nil, fmt.Errorf("dds: decoded %d bytes, want %d", len(rgba), want)
	}
	img := image.NewNRGBA(image.Rect(0, 0, int(width), int(height)))
	copy(img.Pix, rgba)
	return img, nil
}

// checkBlocks verifies that data holds every 4x4 block of a DXT image.
func checkBlocks(fourCC string, n, width, height int) error {
	blockSize := 16
	switch fourCC {
	case "DXT1":
		blockSize = 8
	case "DXT3", "DXT5":
	default:
		return nil
	}
	if need := ((width + 3) / 4) * ((height + 3) / 4) * blockSize; n < need {
		return fmt.Errorf("dds: %s data too small: %d < %d", fourCC, n, need)
	}
	return nil
}

// channel extracts one 8-bit channel from a packed pixel.
type channel struct {
	shift   int
	present bool
}

func newChannel(mask uint32) channel {
	if mask == 0 {
		return channel{}
	}
	return channel{shift: bits.TrailingZeros32(mask), present: true}
}

func (c channel) get(v uint32, fallback byte) byte {
	if !c.present {
		return fallback
	}
	return byte(v >> c.shift)
}

// decodeUncompressed unpacks 24 or 32-bit pixels using the masks of the
// pixel format. Missing masks default to BGR(A) order.
func decodeUncompressed(data []byte, width, height, bitCount int, pf []byte) ([]byte, error) {
	bpp := bitCount / 8
	if need := width * height * bpp; len(data) < need {
		return nil, fmt.Errorf("uncompressed data too small: %d < %d", len(data), need)
	}

	rMask := binary.LittleEndian.Uint32(pf[16:])
	gMask := binary.LittleEndian.Uint32(pf[20:])
	bMask := binary.LittleEndian.Uint32(pf[24:])
	aMask := binary.LittleEndian.Uint32(pf[28:])
	if rMask == 0 && gMask == 0 && bMask == 0 {
		rMask, gMask, bMask = 0x00FF0000, 0x0000FF00, 0x000000FF
	}
	if binary.LittleEndian.Uint32(pf[4:])&ddpfAlphaPixels == 0 || bpp < 4 {
		aMask = 0
	}
	r, g, b, a := newChannel(rMask), newChannel(gMask), newChannel(bMask), newChannel(aMask)

	out := make([]byte, width*height*4)
	var buf [4]byte
	for i := range width * height {
		buf = [4]byte{}
		copy(buf[:], data[i*bpp:(i+1)*bpp])
		v := binary.LittleEndian.Uint32(buf[:])
		out[4*i+0] = r.get(v, 0)
		out[4*i+1] = g.get(v, 0)
		out[4*i+2] = b.get(v, 0)
		out[4*i+3] = a.get(v, 0xFF)
	}
	return out, nil
}
