package palette

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erinpentecost/hsbpalette/internal/hue"
)

func TestRadial_Geometry(t *testing.T) {
	tests := []struct {
		name     string
		size     Size
		diameter float64
		center   Point
		pixels   int
	}{
		{"square", Size{200, 200}, 200, Point{100, 100}, 200},
		{"wide", Size{300, 200}, 200, Point{100, 100}, 200},
		{"tall", Size{50, 80}, 50, Point{25, 25}, 50},
		{"fractional", Size{10.5, 12}, 10.5, Point{5.25, 5.25}, 11},
		{"empty", Size{}, 0, Point{}, 0},
		{"negative", Size{-5, 10}, 0, Point{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewRadial(tt.size)
			require.Equal(t, tt.diameter, p.Diameter())
			require.Equal(t, tt.diameter/2, p.Radius())
			require.Equal(t, tt.center, p.Center())
			require.Equal(t, tt.pixels, p.PixelSize())
		})
	}
}

func TestRadial_SetSizeRecomputes(t *testing.T) {
	p := NewRadial(Size{200, 200})
	p.SetSize(Size{40, 60})

	require.Equal(t, Size{40, 60}, p.Size())
	require.Equal(t, 40.0, p.Diameter())
	require.Equal(t, Point{20, 20}, p.Center())
	require.Equal(t, 40, p.PixelSize())
}

func TestRadial_Sample(t *testing.T) {
	p := NewRadial(Size{200, 200})

	tests := []struct {
		name  string
		point Point
		hue   float64
		sat   float64
		alpha float64
	}{
		{"center", Point{100, 100}, 0, 0, 1},
		{"right edge", Point{200, 100}, 0, 1, 1},
		{"bottom edge", Point{100, 200}, 0.25, 1, 1},
		{"left edge", Point{0, 100}, 0.5, 1, 1},
		{"top edge", Point{100, 0}, 0.75, 1, 1},
		{"half way right", Point{150, 100}, 0, 0.5, 1},
		{"outside corner", Point{0, 0}, 0.625, 1, 0},
		{"far outside", Point{1000, 100}, 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s, alpha := p.Sample(tt.point)
			require.InDelta(t, tt.hue, h, 1e-12)
			require.InDelta(t, tt.sat, s, 1e-12)
			require.Equal(t, tt.alpha, alpha)
		})
	}
}

func TestRadial_CenterIsExact(t *testing.T) {
	p := NewRadial(Size{123, 77})
	h, s, alpha := p.Sample(p.Center())
	require.Equal(t, 0.0, h)
	require.Equal(t, 0.0, s)
	require.Equal(t, 1.0, alpha)
}

func TestRadial_ZeroRadius(t *testing.T) {
	p := NewRadial(Size{0, 100})
	h, s, alpha := p.Sample(Point{10, 10})
	require.Equal(t, 0.0, h)
	require.Equal(t, 0.0, s)
	require.Equal(t, 1.0, alpha)
	require.Equal(t, Point{}, p.ClosestValidPoint(Point{10, 10}))
}

func TestRadial_Ranges(t *testing.T) {
	p := NewRadial(Size{90, 60})
	center := p.Center()
	r := p.Radius()

	for y := -20.0; y <= 80; y += 1.5 {
		for x := -20.0; x <= 110; x += 1.5 {
			pt := Point{x, y}
			h, s, alpha := p.Sample(pt)
			require.GreaterOrEqual(t, h, 0.0)
			require.LessOrEqual(t, h, 1.0)
			require.GreaterOrEqual(t, s, 0.0)
			require.LessOrEqual(t, s, 1.0)

			if dist(pt, center) > r {
				require.Equal(t, 1.0, s, "saturation at %v", pt)
				require.Equal(t, 0.0, alpha, "mask at %v", pt)
			} else {
				require.Equal(t, 1.0, alpha, "mask at %v", pt)
			}
		}
	}
}

func TestRadial_ModifyColor(t *testing.T) {
	p := NewRadial(Size{200, 200})
	got := p.ModifyColor(hue.HSB{H: 0.9, S: 0.1, B: 0.7, A: 0.5}, Point{100, 150})

	require.InDelta(t, 0.25, got.H, 1e-12)
	require.InDelta(t, 0.5, got.S, 1e-12)
	require.Equal(t, 0.7, got.B)
	require.Equal(t, 0.5, got.A)
}

func TestRadial_PositionAndAlpha(t *testing.T) {
	p := NewRadial(Size{200, 200})

	pt, alpha := p.PositionAndAlpha(hue.HSB{H: 0.5, S: 1, B: 0.25})
	require.InDelta(t, 0, pt.X, 1e-9)
	require.InDelta(t, 100, pt.Y, 1e-9)
	require.Equal(t, 0.25, alpha)

	pt, _ = p.PositionAndAlpha(hue.HSB{H: 0.3, S: 0})
	require.Equal(t, p.Center(), pt)
}

func TestRadial_RoundTrip(t *testing.T) {
	for _, size := range []Size{{200, 200}, {321, 123}, {10, 10}} {
		t.Run(size.String(), func(t *testing.T) {
			testRoundTrip(t, NewRadial(size), true)
		})
	}
}

func TestRadial_ClosestValidPoint(t *testing.T) {
	p := NewRadial(Size{200, 200})
	center := p.Center()

	inside := []Point{{100, 100}, {150, 120}, {200, 100}, {100, 0}}
	for _, pt := range inside {
		require.Equal(t, pt, p.ClosestValidPoint(pt))
	}

	outside := []Point{{300, 100}, {0, 0}, {-50, 260}, {199, 199}}
	for _, pt := range outside {
		got := p.ClosestValidPoint(pt)
		require.InDelta(t, p.Radius(), dist(got, center), 1e-9, "%v -> %v", pt, got)

		// Same direction from the center.
		cross := (pt.X-center.X)*(got.Y-center.Y) - (pt.Y-center.Y)*(got.X-center.X)
		require.InDelta(t, 0, cross, 1e-6)
		dot := (pt.X-center.X)*(got.X-center.X) + (pt.Y-center.Y)*(got.Y-center.Y)
		require.Greater(t, dot, 0.0)
	}
}

func TestRadial_RenderForeground(t *testing.T) {
	p := NewRadial(Size{20.5, 30})
	n := p.PixelSize()
	require.Equal(t, 21, n)

	img, err := p.RenderForeground(context.Background())
	require.NoError(t, err)
	require.Len(t, img.Pix, 4*n*n)

	center := p.Center()
	for y := range n {
		for x := range n {
			a := img.NRGBAAt(x, y).A
			if dist(Point{float64(x), float64(y)}, center) <= p.Radius() {
				require.Equal(t, uint8(255), a, "alpha at %d,%d", x, y)
			} else {
				require.Equal(t, uint8(0), a, "alpha at %d,%d", x, y)
			}
		}
	}
}

func TestRadial_RenderForeground_Colors(t *testing.T) {
	p := NewRadial(Size{20, 20})
	img, err := p.RenderForeground(context.Background())
	require.NoError(t, err)

	want := func(x, y int) hue.HSB {
		h, s, _ := p.Sample(Point{float64(x), float64(y)})
		return hue.New(h, s, 1)
	}

	// Pixel columns are x and rows are y.
	require.Equal(t, want(19, 10).NRGBA(), img.NRGBAAt(19, 10))
	require.Equal(t, want(10, 19).NRGBA(), img.NRGBAAt(10, 19))
	require.Equal(t, uint8(255), img.NRGBAAt(19, 10).R, "hue 0 is red")
	require.Equal(t, uint8(255), img.NRGBAAt(10, 10).G, "center is white")
	require.Equal(t, uint8(255), img.NRGBAAt(10, 10).B, "center is white")
}

func TestRadial_RenderBackground(t *testing.T) {
	p := NewRadial(Size{40, 60})

	img := p.RenderBackground()
	require.Equal(t, 40, img.Bounds().Dx())
	require.Equal(t, 40, img.Bounds().Dy())

	center := img.NRGBAAt(20, 20)
	require.Equal(t, uint8(255), center.A)
	require.Equal(t, uint8(0), center.R)
	require.Equal(t, uint8(0), img.NRGBAAt(0, 0).A)
	require.Equal(t, uint8(0), img.NRGBAAt(39, 39).A)

	require.Empty(t, NewRadial(Size{}).RenderBackground().Pix)
}

func TestRadial_ConcurrentResize(t *testing.T) {
	p := NewRadial(Size{32, 32})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 50 {
			p.SetSize(Size{float64(16 + i%32), 40})
		}
	}()
	go func() {
		defer wg.Done()
		for range 10 {
			img, err := p.RenderForeground(context.Background())
			if !assert.NoError(t, err) {
				return
			}
			b := img.Bounds()
			assert.Equal(t, b.Dx(), b.Dy())
			assert.Len(t, img.Pix, 4*b.Dx()*b.Dy())
		}
	}()
	wg.Wait()
}
