package reconcile

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/models"
)

var fixedNow = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

func newTestClassifier() *Classifier {
	c := NewClassifier(DefaultRules(), nil)
	c.Normalizer = Normalizer{Now: func() time.Time { return fixedNow }}
	return c
}

// textRecord builds a raw record from label/value pairs.
func textRecord(row int, pairs ...string) models.RawRecord {
	rec := models.NewRawRecord(row)
	for i := 0; i+1 < len(pairs); i += 2 {
		rec.Set(pairs[i], models.TextCell(pairs[i+1]))
	}
	return rec
}

// ledgerRow builds a raw record with the standard export header.
func ledgerRow(row int, status, tipo, categoria, valor, data string) models.RawRecord {
	return textRecord(row,
		"Status", status,
		"Tipo", tipo,
		"Categoria", categoria,
		"Valor efetivo", valor,
		"Data efetiva", data,
	)
}

func entry(categoria, value string, month time.Month) models.FinancialRecord {
	tipo := models.EntryDespesa
	if len(categoria) > 0 && categoria[0] == '1' {
		tipo = models.EntryReceita
	}
	return models.FinancialRecord{
		Tipo:         tipo,
		Categoria:    categoria,
		ValorEfetivo: decimal.RequireFromString(value),
		DataEfetiva:  time.Date(2024, month, 15, 0, 0, 0, 0, time.UTC),
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)),
		append([]interface{}{"expected %s, got %s", want, got.String()}, msgAndArgs...)...)
}
