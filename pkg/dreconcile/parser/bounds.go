package parser

import "github.com/ukaji3/dreconcile-go/pkg/dreconcile/models"

// DataBounds finds the bounding box of cells that hold a value.
// ok is false when no cell holds a value.
func DataBounds(rows []models.SheetRow) (bounds models.CellRange, ok bool) {
	for _, row := range rows {
		for colIdx, cell := range row.Cells {
			if !cell.HasValue() {
				continue
			}
			col := colIdx + 1
			if !ok {
				bounds = models.CellRange{R1: row.R, C1: col, R2: row.R, C2: col}
				ok = true
				continue
			}
			if row.R < bounds.R1 {
				bounds.R1 = row.R
			}
			if row.R > bounds.R2 {
				bounds.R2 = row.R
			}
			if col < bounds.C1 {
				bounds.C1 = col
			}
			if col > bounds.C2 {
				bounds.C2 = col
			}
		}
	}
	return bounds, ok
}

// Density returns the share of cells inside bounds that hold a value.
func Density(rows []models.SheetRow, bounds models.CellRange) float64 {
	total := (bounds.R2 - bounds.R1 + 1) * (bounds.C2 - bounds.C1 + 1)
	if total <= 0 {
		return 0
	}

	count := 0
	for _, row := range rows {
		if row.R < bounds.R1 || row.R > bounds.R2 {
			continue
		}
		for col := bounds.C1; col <= bounds.C2; col++ {
			if row.Cell(col - 1).HasValue() {
				count++
			}
		}
	}
	return float64(count) / float64(total)
}
