package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/erinpentecost/hsbpalette/internal/palette"
	"github.com/erinpentecost/hsbpalette/internal/preview"
	"github.com/erinpentecost/hsbpalette/internal/texture"
)

// jobFile is the YAML document accepted by "palette render --jobs".
type jobFile struct {
	Output string    `yaml:"output"`
	Jobs   []jobSpec `yaml:"jobs"`
}

type jobSpec struct {
	Name        string   `yaml:"name"`
	Shape       string   `yaml:"shape"`
	Width       float64  `yaml:"width"`
	Height      float64  `yaml:"height"`
	Brightness  *float64 `yaml:"brightness"`
	Supersample int      `yaml:"supersample"`
	Format      string   `yaml:"format"`
	Layers      []string `yaml:"layers"`
}

// renderJob is a validated jobSpec.
type renderJob struct {
	Name        string
	Shape       palette.Shape
	Size        palette.Size
	Brightness  float64
	Supersample int
	Format      texture.Format
	Layers      []preview.Layer
}

func parseJobFile(raw []byte) (*jobFile, error) {
	var jf jobFile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&jf); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}
	if len(jf.Jobs) == 0 {
		return nil, errors.New("no jobs defined")
	}
	return &jf, nil
}

func loadJobFile(path string) (*jobFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	jf, err := parseJobFile(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", path, err)
	}
	return jf, nil
}

// compile validates every job and fills in defaults.
func (jf *jobFile) compile() ([]renderJob, error) {
	seen := map[string]bool{}
	jobs := make([]renderJob, 0, len(jf.Jobs))
	for i, spec := range jf.Jobs {
		job, err := spec.compile()
		if err != nil {
			return nil, fmt.Errorf("job %d (%q): %w", i, spec.Name, err)
		}
		if seen[job.Name] {
			return nil, fmt.Errorf("job %d: duplicate name %q", i, job.Name)
		}
		seen[job.Name] = true
		jobs = append(jobs, job)
	}
	return jobs, nil
}

func (s jobSpec) compile() (renderJob, error) {
	job := renderJob{
		Name:        s.Name,
		Size:        palette.Size{Width: s.Width, Height: s.Height},
		Brightness:  1,
		Supersample: 1,
		Format:      texture.PNG,
		Layers:      preview.Layers,
	}

	if s.Name == "" || strings.ContainsAny(s.Name, `/\`) {
		return job, fmt.Errorf("invalid name %q", s.Name)
	}

	var err error
	if job.Shape, err = palette.ParseShape(s.Shape); err != nil {
		return job, err
	}
	if !(s.Width > 0) || !(s.Height > 0) {
		return job, fmt.Errorf("size %s must be positive", job.Size)
	}
	if s.Brightness != nil {
		if !(*s.Brightness >= 0 && *s.Brightness <= 1) {
			return job, fmt.Errorf("brightness %g outside [0, 1]", *s.Brightness)
		}
		job.Brightness = *s.Brightness
	}
	switch {
	case s.Supersample < 0:
		return job, fmt.Errorf("supersample %d must not be negative", s.Supersample)
	case s.Supersample > 0:
		job.Supersample = s.Supersample
	}
	if s.Format != "" {
		if job.Format, err = texture.ParseFormat(s.Format); err != nil {
			return job, err
		}
	}
	if len(s.Layers) > 0 {
		job.Layers = nil
		for _, name := range s.Layers {
			layer, err := preview.ParseLayer(name)
			if err != nil {
				return job, err
			}
			job.Layers = append(job.Layers, layer)
		}
	}
	return job, nil
}

// fileName is the output name of one layer of the job.
func (j renderJob) fileName(layer preview.Layer) string {
	return fmt.Sprintf("%s_%s%s", j.Name, layer, j.Format.Ext())
}
