// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/gobuffalo/packr"
	"github.com/pierrec/lz4"
	"gopkg.in/yaml.v3"
)

// Format selects how a report is rendered.
type Format string

// Known formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for a format name that is not recognised.
var ErrUnknownFormat = errors.New("unknown report format")

// ParseFormat maps a case-insensitive format name onto a Format.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Templates holds the text renderings.
var Templates = packr.NewBox("./templates")

const reportTemplate = "report.tmpl"

// Section selects the part of a report to render.
type Section string

// Renderable sections, SectionAll is the whole report.
const (
	SectionAll        Section = "report"
	SectionExtensions Section = "extensions"
	SectionLayers     Section = "layers"
	SectionDevices    Section = "devices"
)

// Render writes r to w in the given format.
func Render(w io.Writer, r *Report, format Format) error {
	return RenderSection(w, r, format, SectionAll)
}

// RenderSection writes one section of r to w in the given format.
func RenderSection(w io.Writer, r *Report, format Format, section Section) error {
	var v interface{}
	switch section {
	case SectionAll:
		v = r
	case SectionExtensions:
		v = r.Extensions
	case SectionLayers:
		v = r.Layers
	case SectionDevices:
		v = r.Devices
	default:
		return fmt.Errorf("unknown report section %q", string(section))
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatText:
		tmpl, err := textTemplate(w)
		if err != nil {
			return err
		}
		if section == SectionAll {
			return tmpl.Execute(w, r)
		}
		return tmpl.ExecuteTemplate(w, string(section), r)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}

func textTemplate(w io.Writer) (*template.Template, error) {
	src, err := Templates.FindString(reportTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", reportTemplate, err)
	}

	heading := lipgloss.NewRenderer(w).NewStyle().Bold(true)
	return template.New(reportTemplate).Funcs(template.FuncMap{
		"heading": func(s string) string { return heading.Render(s) },
		"join":    strings.Join,
	}).Parse(src)
}

// compressedWriter flushes the lz4 frame before closing the file.
type compressedWriter struct {
	*lz4.Writer
	f *os.File
}

func (c *compressedWriter) Close() error {
	if err := c.Writer.Close(); err != nil {
		c.f.Close()
		return err
	}
	return c.f.Close()
}

// Create opens path for writing a report. Paths ending in ".lz4" get an
// lz4 frame compressed stream.
func Create(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".lz4") {
		return f, nil
	}
	return &compressedWriter{Writer: lz4.NewWriter(f), f: f}, nil
}
