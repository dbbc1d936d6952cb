// Package models defines data structures for ledger extraction and reconciliation.
package models

import (
	"encoding/json"
	"strconv"
)

// CellKind tells how a decoded cell value should be read.
type CellKind int

const (
	// CellEmpty is an absent cell or a cell without a value element.
	CellEmpty CellKind = iota
	// CellNumber is a value that coerced to a float.
	CellNumber
	// CellText is a literal or shared string.
	CellText
)

// Cell is a single decoded worksheet value.
type Cell struct {
	Kind   CellKind
	Number float64
	Text   string
}

// EmptyCell returns a cell with no value.
func EmptyCell() Cell { return Cell{Kind: CellEmpty} }

// NumberCell returns a numeric cell.
func NumberCell(f float64) Cell { return Cell{Kind: CellNumber, Number: f} }

// TextCell returns a text cell.
func TextCell(s string) Cell { return Cell{Kind: CellText, Text: s} }

// IsBlank reports whether the cell is absent, an empty string or numeric zero.
func (c Cell) IsBlank() bool {
	switch c.Kind {
	case CellNumber:
		return c.Number == 0
	case CellText:
		return c.Text == ""
	default:
		return true
	}
}

// HasValue reports whether the cell holds a number (zero included) or non-empty text.
func (c Cell) HasValue() bool {
	switch c.Kind {
	case CellNumber:
		return true
	case CellText:
		return c.Text != ""
	default:
		return false
	}
}

// String returns the cell as text. Numbers use the shortest representation.
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellText:
		return c.Text
	default:
		return ""
	}
}

// MarshalJSON encodes the cell as a bare number, string or null.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case CellNumber:
		return json.Marshal(c.Number)
	case CellText:
		return json.Marshal(c.Text)
	default:
		return []byte("null"), nil
	}
}

func marshalCellMap(m map[string]Cell) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}
