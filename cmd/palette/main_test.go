package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erinpentecost/hsbpalette/internal/hue"
	"github.com/erinpentecost/hsbpalette/internal/palette"
	"github.com/erinpentecost/hsbpalette/internal/preview"
	"github.com/erinpentecost/hsbpalette/internal/texture"
)

func testJobs() []renderJob {
	return []renderJob{
		{
			Name:        "wheel",
			Shape:       palette.ShapeRadial,
			Size:        palette.Size{Width: 24, Height: 30},
			Brightness:  0.5,
			Supersample: 2,
			Format:      texture.BMP,
			Layers:      preview.Layers,
		},
		{
			Name:        "strip",
			Shape:       palette.ShapeRectangular,
			Size:        palette.Size{Width: 40, Height: 10},
			Brightness:  1,
			Supersample: 1,
			Format:      texture.DDS,
			Layers:      []preview.Layer{preview.LayerForeground},
		},
	}
}

func TestRunJobs(t *testing.T) {
	dir := t.TempDir()

	entries, err := runJobs(context.Background(), dir, testJobs(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Sorted by name.
	require.Equal(t, "strip", entries[0].Name)
	require.Equal(t, "wheel", entries[1].Name)

	require.Equal(t, 24.0, entries[1].Diameter)
	require.Equal(t, &palette.Point{X: 12, Y: 12}, entries[1].Center)
	require.Len(t, entries[1].Files, 3)
	require.Nil(t, entries[0].Center)

	img, err := texture.ReadFile(filepath.Join(dir, entries[1].Files[preview.LayerComposite]))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 24, 24), img.Bounds())

	img, err = texture.ReadFile(filepath.Join(dir, "strip_foreground.dds"))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 40, 10), img.Bounds())
	r, g, b, a := img.At(0, 0).RGBA()
	require.Equal(t, [4]uint32{0xffff, 0, 0, 0xffff}, [4]uint32{r, g, b, a})
}

func TestRunJobs_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runJobs(ctx, t.TempDir(), testJobs(), 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestWriteManifest(t *testing.T) {
	dir := t.TempDir()
	entries, err := runJobs(context.Background(), dir, testJobs()[:1], 1)
	require.NoError(t, err)

	path := filepath.Join(dir, manifestName)
	require.NoError(t, writeManifest(path, entries))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var got struct {
		Palettes []struct {
			Name     string             `json:"name"`
			Shape    string             `json:"shape"`
			Diameter float64            `json:"diameter"`
			Center   map[string]float64 `json:"center"`
			Files    map[string]string  `json:"files"`
		} `json:"palettes"`
	}
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Len(t, got.Palettes, 1)
	require.Equal(t, "radial", got.Palettes[0].Shape)
	require.Equal(t, 24.0, got.Palettes[0].Diameter)
	require.Equal(t, map[string]float64{"x": 12, "y": 12}, got.Palettes[0].Center)
	require.Equal(t, "wheel_foreground.bmp", got.Palettes[0].Files["foreground"])
}

func TestPick(t *testing.T) {
	p := palette.NewRectangular(palette.Size{Width: 200, Height: 100})

	r := pick(p, palette.Point{X: 300, Y: -20}, 0.5)
	require.Equal(t, palette.Point{X: 200, Y: 0}, r.Clamped)
	require.Equal(t, hue.HSB{H: 1, S: 1, B: 0.5, A: 1}, r.Color)

	var buf bytes.Buffer
	printPick(&buf, r)
	require.Contains(t, buf.String(), "clamped:")
	require.Contains(t, buf.String(), "#800000")
}

func TestLocate(t *testing.T) {
	p := palette.NewRadial(palette.Size{Width: 200, Height: 200})
	c, err := hue.ParseHex("#ff0000")
	require.NoError(t, err)

	r := locate(p, c)
	require.InDelta(t, 200, r.Point.X, 1e-9)
	require.InDelta(t, 100, r.Point.Y, 1e-9)
	require.Equal(t, 1.0, r.Alpha)

	var buf bytes.Buffer
	printLocate(&buf, r)
	require.Contains(t, buf.String(), "#ff0000")
}

func TestSampleImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	for y := range 3 {
		for x := range 3 {
			img.SetNRGBA(x, y, color.NRGBA{0, 0, 255, 255})
		}
	}

	pt, err := parsePixel("1,1")
	require.NoError(t, err)
	c, err := sampleImage(img, pt, 1)
	require.NoError(t, err)
	require.InDelta(t, 2.0/3, c.H, 1e-9)

	_, err = sampleImage(img, image.Pt(5, 5), 0)
	require.Error(t, err)
	_, err = parsePixel("one,two")
	require.Error(t, err)
}

func BenchmarkRender(b *testing.B) {
	jobs := testJobs()
	dir := b.TempDir()
	for b.Loop() {
		if _, err := runJobs(b.Context(), dir, jobs, 4); err != nil {
			b.Fatal(err)
		}
	}
}
