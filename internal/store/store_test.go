package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "snapshots.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecords() []models.FinancialRecord {
	created := time.Date(2024, 6, 30, 9, 15, 0, 0, time.UTC)
	return []models.FinancialRecord{
		{
			Row:          2,
			Tipo:         models.EntryReceita,
			DataEfetiva:  time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
			ValorEfetivo: decimal.RequireFromString("1234.56"),
			Categoria:    "1.1.1 Vendas",
			Descricao:    "Venda balcão",
			Status:       "Conciliado",
			CPFCNPJ:      "12.345.678/0001-90",
			DataCriacao:  &created,
		},
		{
			Row:          3,
			Tipo:         models.EntryDespesa,
			DataEfetiva:  time.Date(2024, 7, 15, 13, 30, 0, 500000, time.UTC),
			ValorEfetivo: decimal.RequireFromString("-150.005"),
			Categoria:    "2.3.20 Reembolsos",
			DateDegraded: true,
		},
	}
}

func TestSaveAndReadBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	imp, err := s.SaveImport(ctx, "ledger.xlsx", "reconciled", sampleRecords())
	require.NoError(t, err)
	assert.NotEmpty(t, imp.ID)
	assert.Equal(t, 2, imp.RecordCount)

	got, err := s.Records(ctx, imp.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)

	want := sampleRecords()
	for i := range want {
		assert.Equal(t, want[i].Row, got[i].Row)
		assert.Equal(t, want[i].Tipo, got[i].Tipo)
		assert.True(t, want[i].DataEfetiva.Equal(got[i].DataEfetiva), "row %d date", i)
		assert.True(t, want[i].ValorEfetivo.Equal(got[i].ValorEfetivo), "row %d value", i)
		assert.Equal(t, want[i].Categoria, got[i].Categoria)
		assert.Equal(t, want[i].Descricao, got[i].Descricao)
		assert.Equal(t, want[i].CPFCNPJ, got[i].CPFCNPJ)
		assert.Equal(t, want[i].DateDegraded, got[i].DateDegraded)
	}
	require.NotNil(t, got[0].DataCriacao)
	assert.True(t, want[0].DataCriacao.Equal(*got[0].DataCriacao))
	assert.Nil(t, got[1].DataCriacao)
}

func TestListImports(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.SaveImport(ctx, "a.xlsx", "reconciled", sampleRecords())
	require.NoError(t, err)
	second, err := s.SaveImport(ctx, "b.xlsx", "all_status", nil)
	require.NoError(t, err)

	imports, err := s.ListImports(ctx)
	require.NoError(t, err)
	require.Len(t, imports, 2)
	assert.Equal(t, first.ID, imports[0].ID)
	assert.Equal(t, second.ID, imports[1].ID)
	assert.Equal(t, "reconciled", imports[0].Pipeline)
	assert.Equal(t, "all_status", imports[1].Pipeline)
	assert.Equal(t, 0, imports[1].RecordCount)

	empty, err := s.Records(ctx, second.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRecordsUnknownImport(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Records(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrImportNotFound)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots.db")
	s, err := Open(path, nil)
	require.NoError(t, err)
	imp, err := s.SaveImport(context.Background(), "a.xlsx", "reconciled", sampleRecords())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path, nil)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Records(context.Background(), imp.ID)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
