package models

// SheetSummary describes one declared sheet and what decoding it yields.
type SheetSummary struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Path is the resolved worksheet part.
	Path string `json:"path"`
	// Dimension is the declared used range.
	Dimension string `json:"dimension,omitempty"`
	// Bounds is the range actually covered by non-empty cells.
	Bounds string `json:"bounds,omitempty"`
	// Density is the share of cells inside Bounds that hold a value.
	Density float64 `json:"density"`
	// DimensionMismatch is set when Dimension is unparsable or differs
	// from Bounds.
	DimensionMismatch bool `json:"dimension_mismatch,omitempty"`
	// RawRows is the number of decoded rows, header included.
	RawRows int `json:"raw_rows"`
	// Records is the number of objectified data rows.
	Records int `json:"records"`
}

// WorkbookInventory lists every declared sheet of a workbook.
type WorkbookInventory struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// SharedStrings is the size of the shared-string table.
	SharedStrings int `json:"shared_strings"`
	// Sheets follows workbook declaration order.
	Sheets []SheetSummary `json:"sheets"`
}
