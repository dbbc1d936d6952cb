package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/models"
	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/reconcile"
)

func TestBRL(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"1234.56", "R$ 1.234,56"},
		{"-1234.56", "-R$ 1.234,56"},
		{"0", "R$ 0,00"},
		{"1000000", "R$ 1.000.000,00"},
		{"0.005", "R$ 0,01"},
		{"-5", "-R$ 5,00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BRL(decimal.RequireFromString(tt.amount)), "BRL(%s)", tt.amount)
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "62,50%", Percent(decimal.RequireFromString("62.5")))
	assert.Equal(t, "-10,00%", Percent(decimal.RequireFromString("-10")))
}

func TestToJSON(t *testing.T) {
	rec := models.FinancialRecord{
		Tipo:         models.EntryReceita,
		Categoria:    "1.1.1",
		ValorEfetivo: decimal.RequireFromString("10.5"),
		DataEfetiva:  time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
	}

	compact, err := ToJSON(rec, false)
	require.NoError(t, err)
	assert.NotContains(t, string(compact), "\n")

	pretty, err := ToJSON(rec, true)
	require.NoError(t, err)
	assert.Contains(t, string(pretty), "\n  ")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(compact, &decoded))
	assert.Equal(t, "Receita", decoded["tipo"])
	assert.Equal(t, "1.1.1", decoded["categoria"])
	assert.NotContains(t, decoded, "status")
}

func TestWriteRecordsCSV(t *testing.T) {
	records := []models.FinancialRecord{
		{
			Categoria:    "1.1.8",
			ValorEfetivo: decimal.RequireFromString("1234.5"),
			DataEfetiva:  time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC),
			Descricao:    "Taxa, intermediação",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRecordsCSV(&buf, records))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "dataEfetiva,categoria,valorEfetivo,descricao", lines[0])
	assert.Equal(t, `2024-07-02T00:00:00,1.1.8,1234.5,"Taxa, intermediação"`, lines[1])
}

func TestWriteReport(t *testing.T) {
	c := reconcile.NewClassifier(reconcile.DefaultRules(), nil)
	raw := models.NewRawRecord(2)
	raw.Set("Status", models.TextCell("Conciliado"))
	raw.Set("Tipo", models.TextCell("Despesa"))
	raw.Set("Categoria", models.TextCell("2.3.20"))
	raw.Set("Valor efetivo", models.TextCell("R$ 150,00"))
	raw.Set("Data efetiva", models.TextCell("01/07/2024"))

	rep, err := c.Analyze([]models.RawRecord{raw})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, rep))
	out := buf.String()

	assert.Contains(t, out, "Registros totais na aba: 1")
	assert.Contains(t, out, "Conciliado=1")
	assert.Contains(t, out, "2.3.20: positivos=")
	assert.Contains(t, out, "Receita de JUL por subgrupo:")

	var julLine string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "JUL; ") && strings.Count(line, ";") == 8 {
			julLine = line
			break
		}
	}
	require.NotEmpty(t, julLine)
	assert.Contains(t, julLine, "300,00")
}

func TestWritePivot(t *testing.T) {
	records := []models.FinancialRecord{{
		Categoria:    "1.1.1",
		ValorEfetivo: decimal.RequireFromString("10"),
		DataEfetiva:  time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
	}}

	var buf bytes.Buffer
	require.NoError(t, WritePivot(&buf, reconcile.MonthlyByCategory(records, reconcile.DefaultRules())))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "Categoria; JAN; FEV"))
	assert.True(t, strings.HasPrefix(lines[3], "1.1.1; "))
	assert.True(t, strings.HasPrefix(lines[4], "Total Geral; "))
}

func TestWritePivotMargin(t *testing.T) {
	records := []models.FinancialRecord{
		{Categoria: "1.1.1", ValorEfetivo: decimal.RequireFromString("200"), DataEfetiva: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{Categoria: "2.1.1", ValorEfetivo: decimal.RequireFromString("-75"), DataEfetiva: time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC)},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePivot(&buf, reconcile.MonthlyDRE(records, reconcile.DefaultRules())))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 7)
	assert.True(t, strings.HasPrefix(lines[1], "Receita Bruta; R$ 200,00; R$ 0,00"))
	assert.True(t, strings.HasPrefix(lines[2], "(-) Custos das Vendas; -R$ 75,00"))
	assert.True(t, strings.HasPrefix(lines[6], "Margem Líquida (%); 62,50%; 0,00%"))
	assert.True(t, strings.HasSuffix(lines[6], "; 62,50%"))
}
