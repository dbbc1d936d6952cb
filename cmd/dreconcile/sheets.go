package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ukaji3/dreconcile-go/pkg/dreconcile"
	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/output"
)

func newSheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets [input.xlsx]",
		Short: "List every sheet with its row and record counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := dreconcile.Inventory(args[0])
			if err != nil {
				return fmt.Errorf("inventory failed: %w", err)
			}
			data, err := output.ToJSON(inv, pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			return writeOutput(append(data, '\n'))
		},
	}
}
