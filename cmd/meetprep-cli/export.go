package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/claude/meetprep/internal/export"
	"github.com/claude/meetprep/internal/storage"
)

func (a *app) newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write both logs to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				out = fmt.Sprintf("meetprep-%s.xlsx", a.todayString())
			}
			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			rows, err := store.Weights(ctx)
			if err != nil {
				return err
			}
			entries, err := store.Training(ctx, storage.TrainingQuery{Order: storage.OrderAsc})
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			if err := export.WriteWorkbook(f, storage.WeightsByDate(rows), entries, a.cfg.Bodyweight.Target); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bodyweight, %d training rows)\n", out, len(rows), len(entries))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default meetprep-<date>.xlsx)")
	return cmd
}
