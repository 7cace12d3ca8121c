// Package texture reads and writes palette images in the formats the
// renderer supports.
package texture

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var ErrUnknownFormat = errors.New("unknown image format")

type Format string

const (
	PNG Format = "png"
	BMP Format = "bmp"
	TGA Format = "tga"
	// DDS is written as uncompressed 32-bit RGBA. DXT1/3/5 can be read.
	DDS Format = "dds"
)

var Formats = []Format{PNG, BMP, TGA, DDS}

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// ParseFormat parses a format name, ignoring case and a leading dot.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimPrefix(s, "."))
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}
