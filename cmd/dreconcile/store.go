package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ukaji3/dreconcile-go/internal/store"
	"github.com/ukaji3/dreconcile-go/pkg/dreconcile"
	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/output"
	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/reconcile"
)

var (
	dbPath        string
	storePipeline string
	importID      string
)

func newStoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store [input.xlsx]",
		Short: "Save the classified records as a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  runStore,
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "Snapshot database (default: store.path from config)")
	cmd.Flags().StringVar(&storePipeline, "pipeline", string(reconcile.ModeReconciled), "Pipeline: reconciled or all_status")
	return cmd
}

func newImportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "imports",
		Short: "List stored snapshots, or dump one as CSV with --id",
		Args:  cobra.NoArgs,
		RunE:  runImports,
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "Snapshot database (default: store.path from config)")
	cmd.Flags().StringVar(&importID, "id", "", "Import to dump")
	return cmd
}

func openStore() (*store.Store, error) {
	path := dbPath
	if path == "" {
		path = cfg.Store.Path
	}
	return store.Open(path, logger)
}

func runStore(cmd *cobra.Command, args []string) error {
	pipeline, err := reconcile.ParseMode(storePipeline)
	if err != nil {
		return err
	}
	res, err := dreconcile.Records(args[0], options(pipeline))
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	imp, err := s.SaveImport(cmd.Context(), args[0], string(pipeline), res.Records)
	if err != nil {
		return err
	}
	data, err := output.ToJSON(imp, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	return writeOutput(append(data, '\n'))
}

func runImports(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if importID != "" {
		records, err := s.Records(cmd.Context(), importID)
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := output.WriteRecordsCSV(&buf, records); err != nil {
			return err
		}
		return writeOutput(buf.Bytes())
	}

	imports, err := s.ListImports(cmd.Context())
	if err != nil {
		return err
	}
	data, err := output.ToJSON(imports, pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	return writeOutput(append(data, '\n'))
}
