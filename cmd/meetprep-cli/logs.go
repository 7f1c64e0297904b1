package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/claude/meetprep/internal/ingest/alpha"
	"github.com/claude/meetprep/internal/models"
	"github.com/claude/meetprep/internal/storage"
)

func (a *app) newWeightCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weight",
		Short: "Manage the bodyweight log",
	}
	cmd.AddCommand(a.newWeightAddCmd(), a.newWeightListCmd(), a.newWeightClearCmd())
	return cmd
}

func (a *app) newWeightAddCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "add <kg>",
		Short: "Record the bodyweight for a date (replaces an existing entry)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			weight, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("weight must be a number, got %q", args[0])
			}
			bounds := storage.WeightRange{Min: a.cfg.Bodyweight.Min, Max: a.cfg.Bodyweight.Max}
			if err := bounds.Check(weight); err != nil {
				return err
			}
			if date == "" {
				date = a.todayString()
			}

			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.SaveWeight(ctx, date, weight); err != nil {
				return err
			}
			rec := models.BodyweightRecord{Date: date, Weight: weight}
			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), rec)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s kg for %s\n", num(weight), date)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, default today)")
	return cmd
}

func (a *app) newWeightListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List bodyweight entries in date order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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
			rows = storage.WeightsByDate(rows)
			if a.jsonOutput {
				if rows == nil {
					rows = []models.BodyweightRecord{}
				}
				return printJSON(cmd.OutOrStdout(), rows)
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No bodyweight entries.")
				return nil
			}

			w := newTabWriter(cmd.OutOrStdout())
			fmt.Fprintln(w, "DATE\tWEIGHT")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%s kg\n", r.Date, num(r.Weight))
			}
			if t := a.cfg.Bodyweight.Target; t > 0 {
				last := rows[len(rows)-1].Weight
				fmt.Fprintf(w, "\ttarget %s kg (%+.1f)\n", num(t), last-t)
			}
			return w.Flush()
		},
	}
}

func (a *app) newWeightClearCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every bodyweight entry",
		Long:  "Permanently delete the whole bodyweight log. Requires --force or interactive confirmation.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				ok, err := confirm(cmd, "This will permanently delete the bodyweight log.", "clear")
				if err != nil || !ok {
					return err
				}
			}
			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.ClearWeights(ctx); err != nil {
				return err
			}
			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]any{"log": "bodyweight", "cleared": true})
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Bodyweight log cleared.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")
	return cmd
}

func (a *app) newTrainingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "training",
		Short: "Manage the training log",
	}
	cmd.AddCommand(
		a.newTrainingAddCmd(),
		a.newTrainingListCmd(),
		a.newTrainingClearCmd(),
		a.newTrainingImportCmd(),
		a.newTrainingSyncCmd(),
	)
	return cmd
}

func (a *app) newTrainingAddCmd() *cobra.Command {
	var date, note string

	cmd := &cobra.Command{
		Use:   "add <exercise> <kg> <sets> <reps> <rpe>",
		Short: "Append one row to the training log",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := models.TrainingLogEntry{Date: date, Exercise: strings.TrimSpace(args[0]), Note: note}
			if e.Date == "" {
				e.Date = a.todayString()
			}
			var err error
			if e.Weight, err = strconv.ParseFloat(args[1], 64); err != nil {
				return fmt.Errorf("weight must be a number, got %q", args[1])
			}
			if e.Sets, err = strconv.Atoi(args[2]); err != nil {
				return fmt.Errorf("sets must be an integer, got %q", args[2])
			}
			if e.Reps, err = strconv.Atoi(args[3]); err != nil {
				return fmt.Errorf("reps must be an integer, got %q", args[3])
			}
			if e.RPE, err = strconv.ParseFloat(args[4], 64); err != nil {
				return fmt.Errorf("rpe must be a number, got %q", args[4])
			}
			if err := storage.ValidateEntry(e); err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.AppendTraining(ctx, e); err != nil {
				return err
			}
			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), e)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %s %s kg %dx%d @ RPE %s on %s\n",
				e.Exercise, num(e.Weight), e.Sets, e.Reps, num(e.RPE), e.Date)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&note, "note", "", "Free-text note")
	return cmd
}

func (a *app) newTrainingListCmd() *cobra.Command {
	var exercise, order string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List training log rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := storage.ParseOrder(order)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			rows, err := store.Training(ctx, storage.TrainingQuery{Exercise: exercise, Order: o})
			if err != nil {
				return err
			}
			if a.jsonOutput {
				if rows == nil {
					rows = []models.TrainingLogEntry{}
				}
				return printJSON(cmd.OutOrStdout(), rows)
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No training entries.")
				return nil
			}

			w := newTabWriter(cmd.OutOrStdout())
			fmt.Fprintln(w, "DATE\tEXERCISE\tWEIGHT\tSETS\tREPS\tRPE\tNOTE")
			for _, e := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
					e.Date, e.Exercise, num(e.Weight), e.Sets, e.Reps, num(e.RPE), e.Note)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&exercise, "exercise", "", "Only rows for this exercise")
	cmd.Flags().StringVar(&order, "order", "desc", "Date order: asc or desc")
	return cmd
}

func (a *app) newTrainingClearCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every training log row",
		Long:  "Permanently delete the whole training log. Requires --force or interactive confirmation.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				ok, err := confirm(cmd, "This will permanently delete the training log.", "clear")
				if err != nil || !ok {
					return err
				}
			}
			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.ClearTraining(ctx); err != nil {
				return err
			}
			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]any{"log": "training", "cleared": true})
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Training log cleared.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Skip confirmation prompt")
	return cmd
}

func (a *app) newTrainingImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <alpha-progression.csv>",
		Short: "Append working sets from an Alpha Progression CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening file: %w", err)
			}
			defer f.Close()

			ctx := cmd.Context()
			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			result, err := alpha.NewProvider(store, a.log).Ingest(ctx, f)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d sets from %d sessions (%d warmups skipped)\n",
				result.EntriesInserted, result.SessionsReceived, result.WarmupsSkipped)
			return nil
		},
	}
}
