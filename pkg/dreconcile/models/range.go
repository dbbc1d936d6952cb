package models

import (
	"fmt"
	"strings"
)

// CellRange represents cell coordinate bounds.
type CellRange struct {
	// R1 is the start row (1-based).
	R1 int `json:"r1"`
	// C1 is the start column (1-based).
	C1 int `json:"c1"`
	// R2 is the end row (1-based, inclusive).
	R2 int `json:"r2"`
	// C2 is the end column (1-based, inclusive).
	C2 int `json:"c2"`
}

// String renders the range in A1 notation, e.g. "A1:D10".
func (r CellRange) String() string {
	return fmt.Sprintf("%s%d:%s%d", ColumnName(r.C1), r.R1, ColumnName(r.C2), r.R2)
}

// ColumnName converts a 1-based column number to its letters (1 -> "A", 27 -> "AA").
func ColumnName(col int) string {
	if col < 1 {
		return ""
	}
	var b strings.Builder
	var letters []byte
	for col > 0 {
		col--
		letters = append(letters, byte('A'+col%26))
		col /= 26
	}
	for i := len(letters) - 1; i >= 0; i-- {
		b.WriteByte(letters[i])
	}
	return b.String()
}
