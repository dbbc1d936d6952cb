package parser

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/models"
)

// MaxColumns is the widest row the decoder accepts (column XFD).
const MaxColumns = 16384

// Worksheet is a decoded worksheet part.
type Worksheet struct {
	// Dimension is the declared used range, if the part carries one.
	Dimension string
	// Rows are in document order.
	Rows []models.SheetRow
}

// DecodeWorksheet converts worksheet markup into ordered rows. Shared-string
// cells are resolved against shared; an index that cannot be resolved yields
// empty text.
func DecodeWorksheet(data []byte, shared []string) (*Worksheet, error) {
	ws := &Worksheet{}
	decoder := xml.NewDecoder(bytes.NewReader(data))
	inSheetData := false
	lastRow := 0

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "dimension":
				ws.Dimension = attrValue(t, "ref")
			case "sheetData":
				inSheetData = true
			case "row":
				if !inSheetData {
					continue
				}
				row, err := parseRow(decoder, t, shared)
				if err != nil {
					return nil, err
				}
				if row.R == 0 {
					row.R = lastRow + 1
				}
				lastRow = row.R
				ws.Rows = append(ws.Rows, row)
			}
		case xml.EndElement:
			if t.Name.Local == "sheetData" {
				inSheetData = false
			}
		}
	}

	return ws, nil
}

// parseRow reads the cells of one row element.
func parseRow(decoder *xml.Decoder, start xml.StartElement, shared []string) (models.SheetRow, error) {
	var row models.SheetRow
	if r, err := strconv.Atoi(attrValue(start, "r")); err == nil {
		row.R = r
	}

	for {
		token, err := decoder.Token()
		if err != nil {
			return row, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local != "c" {
				if err := decoder.Skip(); err != nil {
					return row, err
				}
				continue
			}
			col, value, err := parseCell(decoder, t, shared)
			if err != nil {
				return row, err
			}
			// Cells without a reference follow the previous one.
			if col < 0 {
				col = len(row.Cells)
			}
			if col >= MaxColumns {
				return row, fmt.Errorf("cell %q: column beyond %d", attrValue(t, "r"), MaxColumns)
			}
			for len(row.Cells) <= col {
				row.Cells = append(row.Cells, models.EmptyCell())
			}
			row.Cells[col] = value
		case xml.EndElement:
			return row, nil
		}
	}
}

// parseCell reads one c element and returns its zero-based column and value.
func parseCell(decoder *xml.Decoder, start xml.StartElement, shared []string) (int, models.Cell, error) {
	col := ColumnIndex(attrValue(start, "r"))
	cellType := attrValue(start, "t")

	var raw, inline string
	var hasInline bool
	for {
		token, err := decoder.Token()
		if err != nil {
			return col, models.Cell{}, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "v":
				if raw, err = readElementText(decoder); err != nil {
					return col, models.Cell{}, err
				}
			case "is":
				if inline, err = readElementText(decoder); err != nil {
					return col, models.Cell{}, err
				}
				hasInline = true
			default:
				if err := decoder.Skip(); err != nil {
					return col, models.Cell{}, err
				}
			}
		case xml.EndElement:
			return col, resolveValue(cellType, raw, inline, hasInline, shared), nil
		}
	}
}

func resolveValue(cellType, raw, inline string, hasInline bool, shared []string) models.Cell {
	if cellType == "inlineStr" && hasInline {
		return models.TextCell(inline)
	}
	if raw == "" {
		return models.EmptyCell()
	}
	if cellType == "s" {
		idx, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || idx < 0 || idx >= len(shared) {
			return models.TextCell("")
		}
		return models.TextCell(shared[idx])
	}
	return parseValue(raw)
}

// parseValue attempts to parse a raw value as a number.
// Returns a numeric cell, or a text cell holding the original string.
func parseValue(s string) models.Cell {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return models.TextCell(s)
	}
	return models.NumberCell(f)
}

// ColumnIndex converts the letters of a cell reference to a zero-based column.
// Letters are read as a base-26 number with digits A=1 … Z=26, so "A" is 0,
// "Z" is 25, "AA" is 26 and "BA" is 52. A reference without letters yields -1.
func ColumnIndex(ref string) int {
	idx := 0
	for _, ch := range ref {
		switch {
		case ch >= 'A' && ch <= 'Z':
			idx = idx*26 + int(ch-'A'+1)
		case ch >= 'a' && ch <= 'z':
			idx = idx*26 + int(ch-'a'+1)
		}
		if idx > MaxColumns {
			return idx - 1
		}
	}
	return idx - 1
}

// readElementText reads text content until the current element ends.
func readElementText(decoder *xml.Decoder) (string, error) {
	var text strings.Builder
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return text.String(), err
		}
		switch t := token.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return text.String(), nil
}

func attrValue(se xml.StartElement, local string) string {
	for _, attr := range se.Attr {
		if attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}
