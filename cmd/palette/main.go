// Command palette renders hue/saturation palettes and maps between palette
// positions and colors.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
	"go.coder.com/cli"

	"github.com/erinpentecost/hsbpalette/internal/palette"
)

type rootCmd struct{}

func (r *rootCmd) Spec() cli.CommandSpec {
	return cli.CommandSpec{
		Name:  "palette",
		Usage: "[subcommand] [flags]",
		Desc:  "Render hue/saturation palettes and map between palette points and colors.",
	}
}

func (r *rootCmd) Run(fl *pflag.FlagSet) {
	if fl.Usage != nil {
		fl.Usage()
	}
	os.Exit(2)
}

func (r *rootCmd) Subcommands() []cli.Command {
	return []cli.Command{
		&renderCmd{},
		&pickCmd{},
		&locateCmd{},
	}
}

// logFlags is embedded by every subcommand.
type logFlags struct {
	verbose bool
}

func (l *logFlags) register(fl *pflag.FlagSet) {
	fl.BoolVarP(&l.verbose, "verbose", "v", false, "log debug output")
}

func (l *logFlags) setup() {
	level := slog.LevelInfo
	if l.verbose {
		level = slog.LevelDebug
	}
	palette.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// geometryFlags select a palette.
type geometryFlags struct {
	shape  string
	width  float64
	height float64
}

func (g *geometryFlags) register(fl *pflag.FlagSet) {
	fl.StringVar(&g.shape, "shape", string(palette.ShapeRadial), "palette shape: rectangular or radial")
	fl.Float64Var(&g.width, "width", 256, "palette width")
	fl.Float64Var(&g.height, "height", 256, "palette height")
}

func (g *geometryFlags) palette() (palette.Palette, error) {
	shape, err := palette.ParseShape(g.shape)
	if err != nil {
		return nil, err
	}
	return palette.New(shape, palette.Size{Width: g.width, Height: g.height})
}

func fatal(err error) {
	fmt.Printf("FAILED: %v\n", err)
	os.Exit(33)
}

func main() {
	cli.RunRoot(&rootCmd{})
}
