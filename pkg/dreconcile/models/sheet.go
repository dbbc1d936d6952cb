package models

// SheetRow is one decoded worksheet row, densely padded with empty cells
// up to the highest referenced column.
type SheetRow struct {
	// R is the row number declared in the sheet (1-based).
	R int `json:"r"`
	// Cells holds the values by zero-based column position.
	Cells []Cell `json:"c"`
}

// Cell returns the value at a zero-based column, or an empty cell past the end.
func (r SheetRow) Cell(col int) Cell {
	if col < 0 || col >= len(r.Cells) {
		return EmptyCell()
	}
	return r.Cells[col]
}

// SheetData represents one decoded worksheet part.
type SheetData struct {
	// Name is the sheet name declared in the workbook manifest.
	Name string `json:"name"`
	// Path is the archive part the sheet was read from.
	Path string `json:"path"`
	// Dimension is the declared used range (e.g. "A1:F120"), if any.
	Dimension string `json:"dimension,omitempty"`
	// Rows contains the rows in document order.
	Rows []SheetRow `json:"rows,omitempty"`
}
