package main

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.coder.com/cli"

	"github.com/erinpentecost/hsbpalette/internal/hue"
	"github.com/erinpentecost/hsbpalette/internal/palette"
	"github.com/erinpentecost/hsbpalette/internal/texture"
)

type locateCmd struct {
	logFlags
	geometryFlags

	color     string
	imagePath string
	at        string
	radius    int
}

func (c *locateCmd) Spec() cli.CommandSpec {
	return cli.CommandSpec{
		Name:  "locate",
		Usage: "(--color HEX | --image PATH --at X,Y) [flags]",
		Desc:  "Print where a color sits on a palette and the foreground alpha for its brightness.",
	}
}

func (c *locateCmd) RegisterFlags(fl *pflag.FlagSet) {
	c.logFlags.register(fl)
	c.geometryFlags.register(fl)
	fl.StringVar(&c.color, "color", "", "color as #rgb or #rrggbb")
	fl.StringVar(&c.imagePath, "image", "", "sample the color from this image (png, bmp, tga, dds)")
	fl.StringVar(&c.at, "at", "", "pixel to sample, as x,y")
	fl.IntVar(&c.radius, "radius", 0, "average a (2r+1)² window around the sampled pixel")
}

func (c *locateCmd) Run(fl *pflag.FlagSet) {
	c.logFlags.setup()
	p, err := c.geometryFlags.palette()
	if err != nil {
		fatal(err)
	}
	col, err := c.sourceColor()
	if err != nil {
		fatal(err)
	}
	printLocate(os.Stdout, locate(p, col))
}

func (c *locateCmd) sourceColor() (hue.HSB, error) {
	switch {
	case c.color != "" && c.imagePath != "":
		return hue.HSB{}, errors.New("--color and --image are mutually exclusive")
	case c.color != "":
		return hue.ParseHex(c.color)
	case c.imagePath != "":
		img, err := texture.ReadFile(c.imagePath)
		if err != nil {
			return hue.HSB{}, err
		}
		pt, err := parsePixel(c.at)
		if err != nil {
			return hue.HSB{}, err
		}
		return sampleImage(img, pt, c.radius)
	default:
		return hue.HSB{}, errors.New("one of --color or --image is required")
	}
}

func parsePixel(s string) (image.Point, error) {
	var pt image.Point
	if _, err := fmt.Sscanf(s, "%d,%d", &pt.X, &pt.Y); err != nil {
		return pt, fmt.Errorf("parse pixel %q: %w", s, err)
	}
	return pt, nil
}

// sampleImage averages the pixels within radius of pt.
func sampleImage(img image.Image, pt image.Point, radius int) (hue.HSB, error) {
	if !pt.In(img.Bounds()) {
		return hue.HSB{}, fmt.Errorf("pixel %v outside image bounds %v", pt, img.Bounds())
	}
	if radius < 0 {
		return hue.HSB{}, fmt.Errorf("radius %d must not be negative", radius)
	}
	window := image.Rect(pt.X-radius, pt.Y-radius, pt.X+radius+1, pt.Y+radius+1)
	return hue.Average(img, window), nil
}

type locateResult struct {
	Color hue.HSB
	Point palette.Point
	Alpha float64
}

func locate(p palette.Palette, c hue.HSB) locateResult {
	pt, alpha := p.PositionAndAlpha(c)
	return locateResult{Color: c, Point: p.ClosestValidPoint(pt), Alpha: alpha}
}

func printLocate(w io.Writer, r locateResult) {
	fmt.Fprintf(w, "color: %s %v\n", r.Color.Hex(), r.Color)
	fmt.Fprintf(w, "point: %v\n", r.Point)
	fmt.Fprintf(w, "alpha: %.4f\n", r.Alpha)
}
