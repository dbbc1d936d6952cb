package parser

import (
	"strings"

	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/models"
)

// HeaderLabels projects the header row to trimmed labels. Positions whose
// header is blank keep an empty label so that indices still line up with
// the data rows.
func HeaderLabels(row models.SheetRow) []string {
	labels := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		if c.IsBlank() {
			continue
		}
		labels[i] = strings.TrimSpace(c.String())
	}
	return labels
}

// Objectify pairs the first row (the header) with every following row.
// Rows whose cells are all blank are dropped. Unlabeled columns and
// columns beyond the end of a short row contribute nothing.
func Objectify(rows []models.SheetRow) []models.RawRecord {
	if len(rows) < 2 {
		return nil
	}

	headers := HeaderLabels(rows[0])
	records := make([]models.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rec := models.NewRawRecord(row.R)
		for i, label := range headers {
			if label == "" || i >= len(row.Cells) {
				continue
			}
			rec.Set(label, row.Cells[i])
		}
		records = append(records, rec)
	}
	return records
}

func isBlankRow(row models.SheetRow) bool {
	for _, c := range row.Cells {
		if !c.IsBlank() {
			return false
		}
	}
	return true
}
