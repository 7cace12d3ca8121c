package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.coder.com/cli"

	"github.com/erinpentecost/hsbpalette/internal/hue"
	"github.com/erinpentecost/hsbpalette/internal/palette"
)

type pickCmd struct {
	logFlags
	geometryFlags

	x, y       float64
	brightness float64
}

func (c *pickCmd) Spec() cli.CommandSpec {
	return cli.CommandSpec{
		Name:  "pick",
		Usage: "--x X --y Y [flags]",
		Desc:  "Print the color under a point of a palette. Points outside the palette are clamped first.",
	}
}

func (c *pickCmd) RegisterFlags(fl *pflag.FlagSet) {
	c.logFlags.register(fl)
	c.geometryFlags.register(fl)
	fl.Float64Var(&c.x, "x", 0, "point x")
	fl.Float64Var(&c.y, "y", 0, "point y")
	fl.Float64Var(&c.brightness, "brightness", 1, "brightness of the picked color")
}

func (c *pickCmd) Run(fl *pflag.FlagSet) {
	c.logFlags.setup()
	p, err := c.geometryFlags.palette()
	if err != nil {
		fatal(err)
	}
	printPick(os.Stdout, pick(p, palette.Point{X: c.x, Y: c.y}, c.brightness))
}

type pickResult struct {
	Point   palette.Point
	Clamped palette.Point
	Color   hue.HSB
}

// pick clamps point onto p and reads the color there.
func pick(p palette.Palette, point palette.Point, brightness float64) pickResult {
	clamped := p.ClosestValidPoint(point)
	return pickResult{
		Point:   point,
		Clamped: clamped,
		Color:   p.ModifyColor(hue.New(0, 0, brightness), clamped),
	}
}

func printPick(w io.Writer, r pickResult) {
	fmt.Fprintf(w, "point:      %v\n", r.Point)
	if r.Clamped != r.Point {
		fmt.Fprintf(w, "clamped:    %v\n", r.Clamped)
	}
	fmt.Fprintf(w, "hue:        %.4f\n", r.Color.H)
	fmt.Fprintf(w, "saturation: %.4f\n", r.Color.S)
	fmt.Fprintf(w, "brightness: %.4f\n", r.Color.B)
	fmt.Fprintf(w, "color:      %s\n", r.Color.Hex())
}
