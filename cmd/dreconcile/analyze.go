package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ukaji3/dreconcile-go/pkg/dreconcile"
	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/output"
	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/reconcile"
)

var (
	asJSON    bool
	withPivot bool
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [input.xlsx]",
		Short: "Print the reconciliation report",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the report as JSON")
	cmd.Flags().BoolVar(&withPivot, "pivot", false, "Append the monthly DRE and per-category pivots")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	rep, err := dreconcile.Analyze(args[0], options(dreconcile.PipelineReconciled))
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	var dre, pivot []reconcile.PivotRow
	if withPivot {
		dre = reconcile.MonthlyDRE(rep.Reconciled.Records, cfg.Rules())
		pivot = reconcile.MonthlyByCategory(rep.Reconciled.Records, cfg.Rules())
	}

	if asJSON {
		payload := struct {
			*reconcile.Report
			DRE   []reconcile.PivotRow `json:"dre,omitempty"`
			Pivot []reconcile.PivotRow `json:"pivot,omitempty"`
		}{rep, dre, pivot}
		data, err := output.ToJSON(payload, pretty)
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
		return writeOutput(append(data, '\n'))
	}

	var buf bytes.Buffer
	if err := output.WriteReport(&buf, rep); err != nil {
		return err
	}
	if withPivot {
		for _, rows := range [][]reconcile.PivotRow{dre, pivot} {
			buf.WriteString("\n")
			if err := output.WritePivot(&buf, rows); err != nil {
				return err
			}
		}
	}
	return writeOutput(buf.Bytes())
}
