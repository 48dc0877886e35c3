package report

import (
	"io"

	"github.com/nao1215/stressband/internal/model"
)

// Writer renders a profile summary in a text format.
type Writer interface {
	// Write outputs the summary to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(summary *model.Summary) (int, error)
}

// Format names an output format of the report command and endpoints.
type Format string

const (
	// FormatPDF is the one-page PDF report.
	FormatPDF Format = "pdf"

	// FormatMarkdown is the Markdown summary.
	FormatMarkdown Format = "markdown"

	// FormatJSON is the JSON summary.
	FormatJSON Format = "json"
)

// Extension returns the file extension, dot included, for f.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatJSON:
		return ".json"
	default:
		return ".pdf"
	}
}

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	switch f {
	case FormatPDF, FormatMarkdown, FormatJSON:
		return true
	default:
		return false
	}
}

// NewWriter returns the text Writer for f, or nil for FormatPDF and
// unknown formats.
func NewWriter(f Format, output io.Writer) Writer {
	switch f {
	case FormatMarkdown:
		return NewMarkdownWriter(output)
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint())
	default:
		return nil
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
