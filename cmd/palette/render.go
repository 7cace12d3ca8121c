package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/pflag"
	"go.coder.com/cli"
	"golang.org/x/sync/errgroup"

	"github.com/erinpentecost/hsbpalette/internal/palette"
	"github.com/erinpentecost/hsbpalette/internal/preview"
	"github.com/erinpentecost/hsbpalette/internal/texture"
)

const manifestName = "palettes.json"

type renderCmd struct {
	logFlags
	geometryFlags

	jobsPath    string
	outDir      string
	threads     int
	name        string
	brightness  float64
	supersample int
	format      string
	layers      []string
}

func (c *renderCmd) Spec() cli.CommandSpec {
	return cli.CommandSpec{
		Name:  "render",
		Usage: "[flags]",
		Desc:  "Render palette layers to image files, from flags or a YAML job file.",
	}
}

func (c *renderCmd) RegisterFlags(fl *pflag.FlagSet) {
	c.logFlags.register(fl)
	c.geometryFlags.register(fl)
	fl.StringVar(&c.jobsPath, "jobs", "", "YAML job file; replaces the single-job flags")
	fl.StringVarP(&c.outDir, "out", "o", "", "output directory (default: job file output, or .)")
	fl.IntVar(&c.threads, "threads", 4, "jobs rendered concurrently")
	fl.StringVar(&c.name, "name", "", "output file stem (default: the shape)")
	fl.Float64Var(&c.brightness, "brightness", 1, "brightness of the composite layer")
	fl.IntVar(&c.supersample, "supersample", 1, "render N times larger and scale down")
	fl.StringVar(&c.format, "format", string(texture.PNG), "png, bmp, tga or dds")
	fl.StringSliceVar(&c.layers, "layer", nil, "layers to render (default: all)")
}

func (c *renderCmd) Run(fl *pflag.FlagSet) {
	c.logFlags.setup()
	if err := c.run(context.Background()); err != nil {
		fatal(err)
	}
}

func (c *renderCmd) run(ctx context.Context) error {
	jf, err := c.jobFile()
	if err != nil {
		return err
	}
	jobs, err := jf.compile()
	if err != nil {
		return err
	}

	outDir := c.outDir
	if outDir == "" {
		outDir = jf.Output
	}
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory %q: %w", outDir, err)
	}

	entries, err := runJobs(ctx, outDir, jobs, c.threads)
	if err != nil {
		return err
	}
	return writeManifest(filepath.Join(outDir, manifestName), entries)
}

// jobFile returns the job file named by --jobs, or a single job built from
// the flags.
func (c *renderCmd) jobFile() (*jobFile, error) {
	if c.jobsPath != "" {
		return loadJobFile(c.jobsPath)
	}
	name := c.name
	if name == "" {
		name = c.shape
	}
	return &jobFile{Jobs: []jobSpec{{
		Name:        name,
		Shape:       c.shape,
		Width:       c.width,
		Height:      c.height,
		Brightness:  &c.brightness,
		Supersample: c.supersample,
		Format:      c.format,
		Layers:      c.layers,
	}}}, nil
}

// manifestEntry describes one rendered palette for consumers of the images.
type manifestEntry struct {
	Name     string                   `json:"name"`
	Shape    palette.Shape            `json:"shape"`
	Width    float64                  `json:"width"`
	Height   float64                  `json:"height"`
	Diameter float64                  `json:"diameter,omitempty"`
	Center   *palette.Point           `json:"center,omitempty"`
	Files    map[preview.Layer]string `json:"files"`
}

func newManifestEntry(job renderJob) (manifestEntry, error) {
	p, err := palette.New(job.Shape, job.Size)
	if err != nil {
		return manifestEntry{}, err
	}
	e := manifestEntry{
		Name:   job.Name,
		Shape:  job.Shape,
		Width:  job.Size.Width,
		Height: job.Size.Height,
		Files:  map[preview.Layer]string{},
	}
	if r, ok := p.(*palette.Radial); ok {
		center := r.Center()
		e.Diameter = r.Diameter()
		e.Center = &center
	}
	return e, nil
}

// runJobs renders every layer of every job into outDir.
func runJobs(ctx context.Context, outDir string, jobs []renderJob, threads int) ([]manifestEntry, error) {
	var (
		mux     sync.Mutex
		entries []manifestEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, threads))
	for _, job := range jobs {
		g.Go(func() error {
			entry, err := renderJobLayers(gctx, outDir, job)
			if err != nil {
				return fmt.Errorf("render job %q: %w", job.Name, err)
			}
			mux.Lock()
			defer mux.Unlock()
			entries = append(entries, entry)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(entries, func(a, b manifestEntry) int {
		return strings.Compare(a.Name, b.Name)
	})
	return entries, nil
}

func renderJobLayers(ctx context.Context, outDir string, job renderJob) (manifestEntry, error) {
	entry, err := newManifestEntry(job)
	if err != nil {
		return entry, err
	}
	for _, layer := range job.Layers {
		img, err := preview.Render(ctx, preview.Options{
			Shape:       job.Shape,
			Size:        job.Size,
			Layer:       layer,
			Brightness:  job.Brightness,
			Supersample: job.Supersample,
		})
		if err != nil {
			return entry, err
		}

		name := job.fileName(layer)
		fullPath := filepath.Join(outDir, name)
		palette.Logger().Info("writing palette", "job", job.Name, "layer", layer, "path", fullPath)
		if err := texture.WriteFile(fullPath, img); err != nil {
			return entry, err
		}
		entry.Files[layer] = name
	}
	return entry, nil
}

func writeManifest(path string, entries []manifestEntry) error {
	container := struct {
		Palettes []manifestEntry `json:"palettes"`
	}{
		Palettes: entries,
	}
	raw, err := json.MarshalIndent(container, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o666); err != nil {
		return fmt.Errorf("write manifest %q: %w", path, err)
	}
	return nil
}
