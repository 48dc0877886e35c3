package layout

import (
	"errors"
	"fmt"
)

// ErrOverflow is returned by Flow.Place when a row would be drawn below the
// bottom limit of the page. Rows are never truncated silently.
var ErrOverflow = errors.New("layout overflows the page")

// Style selects the font variant and size of a cell.
type Style struct {
	// Size is the font size in points. Zero means the flow's DefaultSize.
	Size float64

	// Bold selects the bold variant of the font.
	Bold bool
}

// Cell is one run of text on a row.
type Cell struct {
	// X is the absolute horizontal position of the text start.
	X float64

	// Text is the content to draw.
	Text string

	// Style is the font style of the cell.
	Style Style
}

// Row is a line of cells sharing one baseline.
type Row struct {
	// Cells are drawn on the row baseline. A row without cells is a spacer.
	Cells []Cell

	// Advance is how far the cursor moves down after the row.
	Advance float64
}

// Text returns a single-cell row.
func Text(x float64, text string, style Style, advance float64) Row {
	return Row{Cells: []Cell{{X: x, Text: text, Style: style}}, Advance: advance}
}

// Pair returns a row with a label cell and a value cell.
func Pair(labelX float64, label string, labelStyle Style, valueX float64, value string, valueStyle Style, advance float64) Row {
	return Row{
		Cells: []Cell{
			{X: labelX, Text: label, Style: labelStyle},
			{X: valueX, Text: value, Style: valueStyle},
		},
		Advance: advance,
	}
}

// Gap returns a spacer row.
func Gap(advance float64) Row {
	return Row{Advance: advance}
}

// Flow is an ordered sequence of rows starting at Top.
type Flow struct {
	// Top is the baseline of the first row.
	Top float64

	// Bottom is the lowest baseline a row with cells may use.
	Bottom float64

	// DefaultSize replaces a zero Style.Size.
	DefaultSize float64

	rows []Row
}

// NewFlow returns an empty flow whose first baseline is top.
func NewFlow(top, bottom, defaultSize float64) *Flow {
	return &Flow{Top: top, Bottom: bottom, DefaultSize: defaultSize}
}

// Add appends rows to the flow.
func (f *Flow) Add(rows ...Row) *Flow {
	f.rows = append(f.rows, rows...)
	return f
}

// DrawFunc draws one cell on the given baseline. The style passed in has its
// size already resolved against the flow's DefaultSize.
type DrawFunc func(cell Cell, baseline float64) error

// Place walks the rows from Top and calls draw for every cell.
// It returns the cursor position after the last row.
func (f *Flow) Place(draw DrawFunc) (float64, error) {
	y := f.Top
	for i, row := range f.rows {
		if len(row.Cells) > 0 && y < f.Bottom {
			return y, fmt.Errorf("%w: row %d at y=%.2f is below %.2f", ErrOverflow, i, y, f.Bottom)
		}
		for _, cell := range row.Cells {
			if cell.Style.Size == 0 {
				cell.Style.Size = f.DefaultSize
			}
			if err := draw(cell, y); err != nil {
				return y, err
			}
		}
		y -= row.Advance
	}
	return y, nil
}

// Baselines returns the baseline of every row without drawing anything.
func (f *Flow) Baselines() []float64 {
	out := make([]float64, len(f.rows))
	y := f.Top
	for i, row := range f.rows {
		out[i] = y
		y -= row.Advance
	}
	return out
}
