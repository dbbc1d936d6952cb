package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/models"
)

// ParseCellRef splits a reference like "$BA$12" into a 1-based column and row.
func ParseCellRef(ref string) (col, row int, err error) {
	ref = strings.ReplaceAll(strings.TrimSpace(ref), "$", "")

	split := strings.IndexFunc(ref, func(r rune) bool { return r >= '0' && r <= '9' })
	if split <= 0 {
		return 0, 0, fmt.Errorf("invalid cell reference %q", ref)
	}

	col = ColumnIndex(ref[:split]) + 1
	if col < 1 || col > MaxColumns {
		return 0, 0, fmt.Errorf("invalid column in cell reference %q", ref)
	}
	row, err = strconv.Atoi(ref[split:])
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("invalid row in cell reference %q", ref)
	}
	return col, row, nil
}

// ParseRange parses a range such as "A1:D10", "'Sheet 1'!$A$1:$D$10" or a
// single cell "A1". It returns the sheet name, if present, and the range.
func ParseRange(ref string) (string, models.CellRange, error) {
	var sheet string
	ref = strings.TrimSpace(ref)

	// Split by ! to separate sheet name and range
	if idx := strings.LastIndex(ref, "!"); idx >= 0 {
		sheet = strings.Trim(ref[:idx], "'")
		ref = ref[idx+1:]
	}

	parts := strings.Split(ref, ":")
	if len(parts) > 2 {
		return sheet, models.CellRange{}, fmt.Errorf("invalid range %q", ref)
	}

	c1, r1, err := ParseCellRef(parts[0])
	if err != nil {
		return sheet, models.CellRange{}, err
	}
	c2, r2 := c1, r1
	if len(parts) == 2 {
		if c2, r2, err = ParseCellRef(parts[1]); err != nil {
			return sheet, models.CellRange{}, err
		}
	}

	return sheet, models.CellRange{R1: r1, C1: c1, R2: r2, C2: c2}, nil
}
