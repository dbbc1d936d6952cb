package dreconcile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	dlog "github.com/ukaji3/dreconcile-go/internal/log"
	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/models"
	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/parser"
	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/reconcile"
)

// Ledger is one decoded worksheet and its objectified rows.
type Ledger struct {
	// BookName is the workbook file name (no path).
	BookName string
	// Sheet holds the decoded rows.
	Sheet models.SheetData
	// Records pairs the header row with every non-blank data row.
	Records []models.RawRecord
}

// Load decodes the selected worksheet of the workbook at path. Invalid
// Options.Rules are reported before the file is opened.
func Load(path string, opts Options) (*Ledger, error) {
	if err := opts.rules().Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRules, err)
	}

	c, err := openContainer(path)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	ref, err := selectSheet(c, opts.Sheet)
	if err != nil {
		return nil, err
	}

	ws, err := readSheet(c, ref)
	if err != nil {
		return nil, err
	}

	ledger := &Ledger{
		BookName: filepath.Base(path),
		Sheet: models.SheetData{
			Name:      ref.Name,
			Path:      ref.Path,
			Dimension: ws.Dimension,
			Rows:      ws.Rows,
		},
		Records: parser.Objectify(ws.Rows),
	}

	opts.logger().Debug("sheet decoded",
		zap.String(dlog.FieldComponent, dlog.ComponentParser),
		zap.String(dlog.FieldFile, ledger.BookName),
		zap.String(dlog.FieldSheet, ref.Name),
		zap.String(dlog.FieldPart, ref.Path),
		zap.Int("raw_rows", len(ws.Rows)),
		zap.Int(dlog.FieldRecords, len(ledger.Records)))
	return ledger, nil
}

// Analyze loads the workbook and runs the full reconciliation report.
func Analyze(path string, opts Options) (*reconcile.Report, error) {
	ledger, err := Load(path, opts)
	if err != nil {
		return nil, err
	}
	return opts.classifier().Analyze(ledger.Records)
}

// Records loads the workbook and classifies it with opts.Pipeline.
func Records(path string, opts Options) (*reconcile.Result, error) {
	ledger, err := Load(path, opts)
	if err != nil {
		return nil, err
	}
	return opts.classifier().Run(ledger.Records, opts.pipeline())
}

// Inventory decodes every declared sheet and summarizes it.
func Inventory(path string) (*models.WorkbookInventory, error) {
	c, err := openContainer(path)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	inv := &models.WorkbookInventory{
		BookName:      filepath.Base(path),
		SharedStrings: len(c.SharedStrings()),
		Sheets:        []models.SheetSummary{},
	}
	for _, ref := range c.Sheets() {
		ws, err := readSheet(c, ref)
		if err != nil {
			return nil, err
		}
		inv.Sheets = append(inv.Sheets, summarizeSheet(ref, ws))
	}
	return inv, nil
}

// summarizeSheet compares the declared dimension with the cells that
// actually hold values. A sheet without values never mismatches.
func summarizeSheet(ref parser.SheetRef, ws *parser.Worksheet) models.SheetSummary {
	summary := models.SheetSummary{
		Name:      ref.Name,
		Path:      ref.Path,
		Dimension: ws.Dimension,
		RawRows:   len(ws.Rows),
		Records:   len(parser.Objectify(ws.Rows)),
	}

	bounds, ok := parser.DataBounds(ws.Rows)
	if ok {
		summary.Bounds = bounds.String()
		summary.Density = parser.Density(ws.Rows, bounds)
	}
	if ws.Dimension != "" {
		_, declared, err := parser.ParseRange(ws.Dimension)
		summary.DimensionMismatch = err != nil || (ok && declared != bounds)
	}
	return summary
}

func openContainer(path string) (*parser.Container, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	c, err := parser.Open(path)
	if err != nil {
		return nil, NewExtractionError(path, "container", fmt.Errorf("%w: %v", ErrInvalidFormat, err))
	}
	return c, nil
}

func selectSheet(c *parser.Container, name string) (parser.SheetRef, error) {
	if name == "" {
		return c.FirstSheet(), nil
	}
	for _, ref := range c.Sheets() {
		if ref.Name == name {
			return ref, nil
		}
	}
	return parser.SheetRef{}, NewExtractionError(name, "worksheet",
		fmt.Errorf("%w: no sheet named %q", ErrMissingWorksheet, name))
}

func readSheet(c *parser.Container, ref parser.SheetRef) (*parser.Worksheet, error) {
	ws, err := c.ReadSheet(ref)
	if errors.Is(err, parser.ErrMissingPart) {
		return nil, NewExtractionError(ref.Path, "worksheet", fmt.Errorf("%w: %v", ErrMissingWorksheet, err))
	}
	if err != nil {
		return nil, NewExtractionError(ref.Path, "cells", err)
	}
	return ws, nil
}
