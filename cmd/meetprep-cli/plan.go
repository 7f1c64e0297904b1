package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/claude/meetprep/internal/models"
	"github.com/claude/meetprep/internal/prep"
)

func (a *app) newScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Show the prep week and phase for today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			comp, err := a.cfg.Competition.Parse()
			if err != nil {
				return err
			}
			sched := prep.ComputeSchedule(comp.Date, a.now())
			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), sched)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s on %s\n", comp.Name, sched.Competition)
			fmt.Fprintf(out, "Week %d of %d, %d days to go (%d weeks out)\n",
				sched.CurrentWeek, sched.TotalWeeks, sched.DaysRemaining, sched.WeeksOut)
			fmt.Fprintf(out, "%s\n%s\n", sched.PhaseLabel, sched.PhaseNote)
			return nil
		},
	}
}

func (a *app) newPlanCmd() *cobra.Command {
	var squat, bench, deadlift float64

	cmd := &cobra.Command{
		Use:   "plan [day1|day2|day3|rest]",
		Short: "Show the workout for a training day",
		Long:  "Show the prescribed workout for a day in the current block, with loads resolved from the 1RMs. The day defaults to day1.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := models.DayOne
			if len(args) == 1 {
				var err error
				if day, err = models.ParseDay(args[0]); err != nil {
					return err
				}
			}
			comp, err := a.cfg.Competition.Parse()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("squat") {
				comp.SquatMax = squat
			}
			if cmd.Flags().Changed("bench") {
				comp.BenchMax = bench
			}
			if cmd.Flags().Changed("deadlift") {
				comp.DeadliftMax = deadlift
			}

			table := prep.DefaultTable()
			if path := a.cfg.Prescriptions.Path; path != "" {
				if table, err = prep.LoadTable(path); err != nil {
					return err
				}
			}

			plan, err := prep.Build(comp, a.now(), day, table)
			if err != nil {
				return err
			}
			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), plan)
			}
			return printPlan(cmd, plan)
		},
	}

	cmd.Flags().Float64Var(&squat, "squat", 0, "Squat 1RM in kg (overrides config)")
	cmd.Flags().Float64Var(&bench, "bench", 0, "Bench press 1RM in kg (overrides config)")
	cmd.Flags().Float64Var(&deadlift, "deadlift", 0, "Deadlift 1RM in kg (overrides config)")
	return cmd
}

func printPlan(cmd *cobra.Command, plan prep.Plan) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Week %d: %s\n", plan.Schedule.CurrentWeek, plan.Schedule.PhaseLabel)
	fmt.Fprintf(out, "%s\n", plan.Title)
	if plan.Warning != "" {
		fmt.Fprintf(out, "! %s\n", plan.Warning)
	}
	if plan.RestMessage != "" {
		fmt.Fprintf(out, "%s\n", plan.RestMessage)
		return nil
	}

	fmt.Fprintln(out)
	w := newTabWriter(out)
	fmt.Fprintln(w, "EXERCISE\tSETS x REPS\tLOAD\tNOTE")
	for _, it := range plan.Items {
		load := "-"
		if it.LoadText != "" {
			load = fmt.Sprintf("%s (%.0f%%)", it.LoadText, it.Percentage*100)
		}
		fmt.Fprintf(w, "%s\t%d x %d\t%s\t%s\n", it.Exercise, it.Sets, it.Reps, load, it.Note)
	}
	return w.Flush()
}

func (a *app) newDietCmd() *cobra.Command {
	var rest bool

	cmd := &cobra.Command{
		Use:   "diet",
		Short: "Show macro targets and the diet reference table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			macros := prep.MacroAdvice(!rest)
			ref := prep.DietReference()
			if a.jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]any{"macros": macros, "reference": ref})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d kcal | protein %d g | carbs %d g | fat %d g\n",
				macros.Calories, macros.ProteinG, macros.CarbsG, macros.FatG)
			fmt.Fprintf(out, "%s\n\n", macros.Note)

			w := newTabWriter(out)
			fmt.Fprintln(w, "MEAL\tFOOD\tPORTION\tPROTEIN")
			for _, r := range ref {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s g\n", r.Meal, r.Food, r.Portion, num(r.ProteinG))
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&rest, "rest", false, "Show rest-day targets")
	return cmd
}
