package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/chatnow/internal/render"
	"github.com/ppiankov/chatnow/internal/result"
)

// Format represents the export format type.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
)

// ExportMetadata contains metadata about the export.
type ExportMetadata struct {
	GeneratedAt    time.Time `json:"generatedAt" yaml:"generatedAt"`
	ChatnowVersion string    `json:"chatnowVersion" yaml:"chatnowVersion"`
}

// Exporter handles exporting replies in various formats.
type Exporter struct {
	Format   Format
	Metadata ExportMetadata
}

// DetectFormat detects the export format from the file extension.
func DetectFormat(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".html", ".htm":
		return FormatHTML
	case ".md", ".markdown":
		return FormatMarkdown
	default:
		return FormatText
	}
}

// Export writes the reply in the exporter's format.
func (e *Exporter) Export(r *result.Reply, w io.Writer) error {
	if r == nil {
		return fmt.Errorf("nothing to export")
	}
	switch e.Format {
	case FormatJSON:
		return exportJSON(r, e.Metadata, w)
	case FormatYAML:
		return exportYAML(r, e.Metadata, w)
	case FormatMarkdown:
		return exportMarkdown(r, e.Metadata, w)
	case FormatHTML:
		return exportHTML(r, e.Metadata, w)
	case FormatText:
		return exportText(r, w)
	default:
		return fmt.Errorf("unsupported format: %s", e.Format)
	}
}

// exportText writes the reply as it reads on screen, without styling.
func exportText(r *result.Reply, w io.Writer) error {
	_, err := io.WriteString(w, render.Plain(r.Segments)+"\n")
	return err
}

// WithTimestamp adds a timestamp suffix to the filename so repeated exports do not overwrite each other.
func WithTimestamp(path string, t time.Time) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	timestamp := t.Format("2006-01-02T15-04-05Z")
	return fmt.Sprintf("%s-%s%s", base, timestamp, ext)
}

// ToFile writes r to a timestamped variant of path, picking the format from
// its extension. It returns the path actually written.
func ToFile(r *result.Reply, path string, meta ExportMetadata) (string, error) {
	target := WithTimestamp(path, meta.GeneratedAt)
	exporter := Exporter{Format: DetectFormat(path), Metadata: meta}

	var buf bytes.Buffer
	if err := exporter.Export(r, &buf); err != nil {
		return "", err
	}
	if err := os.WriteFile(target, buf.Bytes(), 0o600); err != nil {
		return "", fmt.Errorf("write %s: %w", target, err)
	}
	return target, nil
}
