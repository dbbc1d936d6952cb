package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ukaji3/dreconcile-go/pkg/dreconcile"
	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/models"
	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/output"
	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/reconcile"
)

var (
	exportPrefix     string
	exportMonth      string
	exportPeriod     string
	exportPeriodKind string
	exportPipeline   string
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [input.xlsx]",
		Short: "Write classified records as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	cmd.Flags().StringVar(&exportPrefix, "prefix", "", "Keep categories starting with this code (e.g. 1.)")
	cmd.Flags().StringVar(&exportMonth, "month", "", "Keep one month code (e.g. jul)")
	cmd.Flags().StringVar(&exportPeriod, "period", "", "Keep one period (2024-07, 2024-Q3 or 2024)")
	cmd.Flags().StringVar(&exportPeriodKind, "period-kind", string(reconcile.PeriodMonthly), "Period kind: monthly, quarterly, annual")
	cmd.Flags().StringVar(&exportPipeline, "pipeline", string(reconcile.ModeReconciled), "Pipeline: reconciled or all_status")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	pipeline, err := reconcile.ParseMode(exportPipeline)
	if err != nil {
		return err
	}

	res, err := dreconcile.Records(args[0], options(pipeline))
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	records := reconcile.FilterByPeriod(res.Records, exportPeriod, reconcile.PeriodKind(exportPeriodKind))
	records = filterRecords(records, cfg.Rules(), exportPrefix, exportMonth)

	var buf bytes.Buffer
	if err := output.WriteRecordsCSV(&buf, records); err != nil {
		return err
	}
	return writeOutput(buf.Bytes())
}

// filterRecords keeps records whose category starts with prefix and whose
// effective date falls in month. Empty arguments match everything.
func filterRecords(records []models.FinancialRecord, rules reconcile.Rules, prefix, month string) []models.FinancialRecord {
	out := make([]models.FinancialRecord, 0, len(records))
	for _, r := range records {
		if prefix != "" && !strings.HasPrefix(r.Categoria, prefix) {
			continue
		}
		if month != "" && rules.MonthKey(r.DataEfetiva) != month {
			continue
		}
		out = append(out, r)
	}
	return out
}
