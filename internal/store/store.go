// Package store keeps snapshots of classified record lists in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	dlog "github.com/ukaji3/dreconcile-go/internal/log"
	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/models"

	_ "modernc.org/sqlite"
)

// ErrImportNotFound is returned when an import id is unknown.
var ErrImportNotFound = errors.New("import not found")

const timeLayout = time.RFC3339Nano

// Import describes one stored snapshot.
type Import struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Pipeline    string    `json:"pipeline"`
	CreatedAt   time.Time `json:"createdAt"`
	RecordCount int       `json:"recordCount"`
}

// Store is a SQLite-backed snapshot store.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if needed) the database at dbPath and migrates it.
func Open(dbPath string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{
		db:     db,
		logger: logger.With(zap.String(dlog.FieldComponent, dlog.ComponentStore)),
	}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveImport stores records as a new import and returns it.
func (s *Store) SaveImport(ctx context.Context, source, pipeline string, records []models.FinancialRecord) (Import, error) {
	imp := Import{
		ID:          uuid.NewString(),
		Source:      source,
		Pipeline:    pipeline,
		CreatedAt:   time.Now().UTC(),
		RecordCount: len(records),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Import{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO imports (id, source, pipeline, created_at, record_count) VALUES (?, ?, ?, ?, ?)`,
		imp.ID, imp.Source, imp.Pipeline, imp.CreatedAt.UnixNano(), imp.RecordCount,
	); err != nil {
		return Import{}, fmt.Errorf("insert import: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO records (
		import_id, seq, sheet_row, tipo, data_efetiva, valor, categoria, descricao,
		status, conta, contato, cpf_cnpj, razao_social, forma, observacoes,
		data_criacao, date_degraded
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Import{}, fmt.Errorf("prepare record insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		var created sql.NullString
		if r.DataCriacao != nil {
			created = sql.NullString{String: r.DataCriacao.Format(timeLayout), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			imp.ID, i, r.Row, string(r.Tipo), r.DataEfetiva.Format(timeLayout), r.ValorEfetivo.String(),
			r.Categoria, r.Descricao, r.Status, r.Conta, r.Contato, r.CPFCNPJ, r.RazaoSocial,
			r.Forma, r.Observacoes, created, r.DateDegraded,
		); err != nil {
			return Import{}, fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Import{}, fmt.Errorf("commit import: %w", err)
	}

	s.logger.Info("import saved",
		zap.String(dlog.FieldImportID, imp.ID),
		zap.String(dlog.FieldFile, source),
		zap.String(dlog.FieldPipeline, pipeline),
		zap.Int(dlog.FieldRecords, imp.RecordCount))
	return imp, nil
}

// ListImports returns every import in the order it was saved.
func (s *Store) ListImports(ctx context.Context) ([]Import, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, pipeline, created_at, record_count FROM imports ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	defer rows.Close()

	var out []Import
	for rows.Next() {
		var imp Import
		var created int64
		if err := rows.Scan(&imp.ID, &imp.Source, &imp.Pipeline, &created, &imp.RecordCount); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		imp.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, imp)
	}
	return out, rows.Err()
}

// Records returns the records of an import in the order they were saved.
func (s *Store) Records(ctx context.Context, importID string) ([]models.FinancialRecord, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM imports WHERE id = ?`, importID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("lookup import: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrImportNotFound, importID)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT
		sheet_row, tipo, data_efetiva, valor, categoria, descricao, status, conta,
		contato, cpf_cnpj, razao_social, forma, observacoes, data_criacao, date_degraded
		FROM records WHERE import_id = ? ORDER BY seq`, importID)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	out := []models.FinancialRecord{}
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanRecord(rows *sql.Rows) (models.FinancialRecord, error) {
	var (
		r                models.FinancialRecord
		tipo, date, valo string
		created          sql.NullString
	)
	if err := rows.Scan(&r.Row, &tipo, &date, &valo, &r.Categoria, &r.Descricao, &r.Status,
		&r.Conta, &r.Contato, &r.CPFCNPJ, &r.RazaoSocial, &r.Forma, &r.Observacoes,
		&created, &r.DateDegraded); err != nil {
		return r, fmt.Errorf("scan record: %w", err)
	}

	r.Tipo = models.EntryType(tipo)
	t, err := time.Parse(timeLayout, date)
	if err != nil {
		return r, fmt.Errorf("parse data_efetiva %q: %w", date, err)
	}
	r.DataEfetiva = t

	v, err := decimal.NewFromString(valo)
	if err != nil {
		return r, fmt.Errorf("parse valor %q: %w", valo, err)
	}
	r.ValorEfetivo = v

	if created.Valid {
		c, err := time.Parse(timeLayout, created.String)
		if err != nil {
			return r, fmt.Errorf("parse data_criacao %q: %w", created.String, err)
		}
		r.DataCriacao = &c
	}
	return r, nil
}
