package dreconcile

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/models"
	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/parser"
	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/reconcile"
)

var header = []interface{}{"Status", "Tipo", "Categoria", "Valor efetivo", "Data efetiva"}

// writeLedger saves a workbook whose first sheet is "Lancamentos".
func writeLedger(t *testing.T, rows map[int][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Lancamentos"))
	require.NoError(t, f.SetSheetRow("Lancamentos", "A1", &header))
	for r, values := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r)
		require.NoError(t, err)
		row := values
		require.NoError(t, f.SetSheetRow("Lancamentos", cell, &row))
	}

	_, err := f.NewSheet("Resumo")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Resumo", "A1", &[]interface{}{"Indicador", "Valor"}))
	require.NoError(t, f.SetSheetRow("Resumo", "A2", &[]interface{}{"Total", 1150}))

	path := filepath.Join(t.TempDir(), "ledger.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoad(t *testing.T) {
	path := writeLedger(t, map[int][]interface{}{
		2: {"Conciliado", "Receita", "1.1.1", "R$ 1.000,00", "05/07/2024"},
		3: {0},
		4: {"Conciliado", "Despesa", "2.3.20", "R$ 150,00", "01/07/2024"},
	})

	core, logs := observer.New(zapcore.DebugLevel)
	ledger, err := Load(path, Options{Logger: zap.New(core)})
	require.NoError(t, err)

	assert.Equal(t, "ledger.xlsx", ledger.BookName)
	assert.Equal(t, "Lancamentos", ledger.Sheet.Name)
	assert.Len(t, ledger.Sheet.Rows, 4)
	require.Len(t, ledger.Records, 2)
	assert.Equal(t, 2, ledger.Records[0].Row)
	assert.Equal(t, 4, ledger.Records[1].Row)

	cat, ok := ledger.Records[1].Get("Categoria")
	require.True(t, ok)
	assert.Equal(t, "2.3.20", cat.String())

	entries := logs.FilterMessage("sheet decoded").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ContextMap()["records"])
}

func TestLoadNamedSheet(t *testing.T) {
	path := writeLedger(t, nil)

	ledger, err := Load(path, Options{Sheet: "Resumo"})
	require.NoError(t, err)
	assert.Equal(t, "Resumo", ledger.Sheet.Name)
	require.Len(t, ledger.Records, 1)
	label, ok := ledger.Records[0].Get("Indicador")
	require.True(t, ok)
	assert.Equal(t, "Total", label.String())

	_, err = Load(path, Options{Sheet: "Nope"})
	assert.ErrorIs(t, err, ErrMissingWorksheet)
	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "worksheet", extErr.Component)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.xlsx"), Options{})
	assert.ErrorIs(t, err, ErrFileNotFound)

	bogus := filepath.Join(t.TempDir(), "bogus.xlsx")
	require.NoError(t, os.WriteFile(bogus, []byte("not a zip"), 0644))
	_, err = Load(bogus, Options{})
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestAnalyze(t *testing.T) {
	path := writeLedger(t, map[int][]interface{}{
		2: {"Conciliado", "Despesa", "2.3.20", "R$ 150,00", "01/07/2024"},
	})

	rep, err := Analyze(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.ReconciledCount)

	jul, ok := rep.Monthly.Bucket("jul")
	require.True(t, ok)
	assert.True(t, jul.DespesasSinal.Equal(jul.DespesasAbs))
	assert.False(t, jul.Divergence().IsZero())
	assert.Equal(t, "150", rep.Reimbursements.Get("jul").String())
}

func TestAnalyzeInvalidType(t *testing.T) {
	path := writeLedger(t, map[int][]interface{}{
		2: {"Conciliado", "Aporte", "1.1.1", "R$ 10,00", "01/07/2024"},
	})

	_, err := Analyze(path, Options{})
	assert.ErrorIs(t, err, ErrInvalidType)

	res, err := Records(path, Options{Pipeline: PipelineAllStatus})
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Equal(t, 1, res.Skipped[reconcile.SkipInvalidType])
}

func TestRecordsDegradedDate(t *testing.T) {
	path := writeLedger(t, map[int][]interface{}{
		2: {"Pendente", "Receita", "1.1.1", "R$ 10,00", "amanhã"},
	})
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	res, err := Records(path, Options{Pipeline: PipelineAllStatus, Now: func() time.Time { return now }})
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.True(t, res.Records[0].DateDegraded)
	assert.True(t, res.Records[0].DataEfetiva.Equal(now))
	assert.Equal(t, 1, res.DegradedDates)

	res, err = Records(path, Options{})
	require.NoError(t, err)
	assert.Empty(t, res.Records)
}

func TestInvalidRules(t *testing.T) {
	path := writeLedger(t, map[int][]interface{}{
		2: {"Conciliado", "Despesa", "2.3.20", "R$ 150,00", "01/12/2024"},
	})
	rules := reconcile.DefaultRules()
	rules.Months = rules.Months[:6]
	opts := Options{Rules: rules}

	_, err := Load(path, opts)
	assert.ErrorIs(t, err, ErrInvalidRules)

	rep, err := Analyze(path, opts)
	assert.Nil(t, rep)
	assert.ErrorIs(t, err, ErrInvalidRules)
	assert.ErrorContains(t, err, "expected 12 codes, got 6")

	_, err = Records(path, Options{Rules: rules, Pipeline: PipelineAllStatus})
	assert.ErrorIs(t, err, ErrInvalidRules)
}

func TestInventory(t *testing.T) {
	path := writeLedger(t, map[int][]interface{}{
		2: {"Conciliado", "Receita", "1.1.1", "R$ 1,00", "05/07/2024"},
	})

	inv, err := Inventory(path)
	require.NoError(t, err)
	assert.Equal(t, "ledger.xlsx", inv.BookName)
	require.Len(t, inv.Sheets, 2)

	assert.Equal(t, "Lancamentos", inv.Sheets[0].Name)
	assert.Equal(t, 2, inv.Sheets[0].RawRows)
	assert.Equal(t, 1, inv.Sheets[0].Records)
	assert.Equal(t, "A1:E2", inv.Sheets[0].Bounds)

	assert.Equal(t, 1.0, inv.Sheets[0].Density)

	assert.Equal(t, "Resumo", inv.Sheets[1].Name)
	assert.Equal(t, 1, inv.Sheets[1].Records)
	assert.Equal(t, "A1:B2", inv.Sheets[1].Bounds)
}

func TestSummarizeSheet(t *testing.T) {
	rows := []models.SheetRow{
		{R: 1, Cells: []models.Cell{models.TextCell("Tipo"), models.TextCell("Valor efetivo")}},
		{R: 2, Cells: []models.Cell{models.TextCell("Receita")}},
	}
	ref := parser.SheetRef{Name: "Lancamentos", Path: "xl/worksheets/sheet1.xml"}

	tests := []struct {
		name      string
		dimension string
		rows      []models.SheetRow
		mismatch  bool
	}{
		{"matching", "A1:B2", rows, false},
		{"absolute refs", "$A$1:$B$2", rows, false},
		{"declared wider", "A1:C3", rows, true},
		{"unparsable", "??", rows, true},
		{"undeclared", "", rows, false},
		{"empty sheet", "A1", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := summarizeSheet(ref, &parser.Worksheet{Dimension: tt.dimension, Rows: tt.rows})
			assert.Equal(t, tt.mismatch, got.DimensionMismatch)
			assert.Equal(t, tt.dimension, got.Dimension)
		})
	}

	got := summarizeSheet(ref, &parser.Worksheet{Dimension: "A1:B2", Rows: rows})
	assert.Equal(t, "A1:B2", got.Bounds)
	assert.Equal(t, 0.75, got.Density)
	assert.Equal(t, 2, got.RawRows)
	assert.Equal(t, 1, got.Records)
}
