package output

import (
	"encoding/csv"
	"io"

	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/models"
)

// RecordColumns is the header written by WriteRecordsCSV.
var RecordColumns = []string{"dataEfetiva", "categoria", "valorEfetivo", "descricao"}

// WriteRecordsCSV writes records with an ISO date and a plain decimal value.
func WriteRecordsCSV(w io.Writer, records []models.FinancialRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RecordColumns); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.DataEfetivaISO(),
			r.Categoria,
			r.ValorEfetivo.String(),
			r.Descricao,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
