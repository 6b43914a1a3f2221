package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"lg/nutrition-go-api/internal/nutrition"
)

func newTargetsCmd(out func(*cobra.Command) printer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "targets",
		Short: "Compute BMR, TDEE, calorie target and macros for a profile",
		Args:  cobra.NoArgs,
	}
	pf := addProfileFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		t, err := nutrition.ComputeTargets(pf.resolve())
		if err != nil {
			return err
		}
		return out(cmd).emit(t, func(w io.Writer) { writeTargets(w, t) })
	}
	return cmd
}

func writeTargets(w io.Writer, t nutrition.ComputedTargets) {
	fmt.Fprintf(w, "BMR: %d kcal\n", t.BMR)
	fmt.Fprintf(w, "TDEE: %d kcal\n", t.TDEE)
	fmt.Fprintf(w, "Target: %d kcal\n", t.CalorieTarget)
	fmt.Fprintf(w, "Macros: P %dg | C %dg | F %dg\n", t.Macros.ProteinG, t.Macros.CarbsG, t.Macros.FatG)
}

func newPlanCmd(out func(*cobra.Command) printer) *cobra.Command {
	var (
		days int
		seed uint64
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Draw a meal plan from the built-in catalog",
		Args:  cobra.NoArgs,
	}
	pf := addProfileFlags(cmd)
	cmd.Flags().IntVar(&days, "days", 1, fmt.Sprintf("Number of days (1-%d)", nutrition.MaxPlanDays))
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for a reproducible plan")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
		catalog, err := nutrition.DefaultCatalog(logger)
		if err != nil {
			return err
		}
		selector := nutrition.NewSelector(catalog, nil)
		if cmd.Flags().Changed("seed") {
			selector = nutrition.NewSeededSelector(catalog, seed)
		}

		p := pf.resolve()
		targets, err := nutrition.ComputeTargets(p)
		if err != nil {
			return err
		}
		plan, err := nutrition.NewGenerator(selector, time.Now).GeneratePlan(p, days, p.MealsPerDay)
		if err != nil {
			return err
		}
		return out(cmd).emit(plan, func(w io.Writer) { writePlan(w, plan, targets) })
	}
	return cmd
}

func writePlan(w io.Writer, plan []nutrition.MealPlanDay, targets nutrition.ComputedTargets) {
	for i, day := range plan {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s\n", day.Date)
		for _, m := range day.Meals {
			fmt.Fprintf(w, "  %-9s  %-40s %4d kcal\n", m.Slot, m.Meal.Name, m.Meal.Calories)
		}
		fmt.Fprintf(w, "  Total: %d / %d kcal | P %.1fg | C %.1fg | F %.1fg\n",
			day.Totals.Calories, targets.CalorieTarget, day.Totals.ProteinG, day.Totals.CarbsG, day.Totals.FatG)
	}
}
