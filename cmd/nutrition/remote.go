package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"lg/nutrition-go-api/internal/cache"
	"lg/nutrition-go-api/internal/client"
	"lg/nutrition-go-api/internal/config"
	"lg/nutrition-go-api/internal/nutrition"
)

// withClient loads the CLI configuration, opens the local cache and runs fn
// with a client bound to both.
func withClient(cmd *cobra.Command, fn func(context.Context, *client.Client) error) error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	if cfg.Token == "" {
		return fmt.Errorf("NUTRITION_TOKEN is not set")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	repo, err := cache.OpenSQLite(ctx, cfg.CachePath)
	if err != nil {
		return err
	}
	defer repo.Close()

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
	c := client.New(cfg.BaseURL, cfg.Token,
		client.WithTimeout(cfg.Timeout),
		client.WithCache(repo),
		client.WithLogger(logger),
		client.WithUnauthorizedHandler(func() {
			fmt.Fprintln(cmd.ErrOrStderr(), "Session expired. Log in again and update NUTRITION_TOKEN.")
		}),
	)
	return fn(ctx, c)
}

func newSummaryCmd(out func(*cobra.Command) printer) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show intake, adherence and weight trend for a date range",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&to, "to", "", "End date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&from, "from", "", "Start date YYYY-MM-DD (default six days before --to)")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		end, err := parseDateOrToday(to, time.Now())
		if err != nil {
			return err
		}
		start := end.AddDays(-6)
		if from != "" {
			if start, err = nutrition.ParseDate(from); err != nil {
				return fmt.Errorf("invalid --from %q (expected YYYY-MM-DD)", from)
			}
		}
		if end.Before(start.Time) {
			return fmt.Errorf("--from must not be after --to")
		}
		if err := nutrition.CheckRange(start, end); err != nil {
			return fmt.Errorf("--from/--to: %w", err)
		}
		return withClient(cmd, func(ctx context.Context, c *client.Client) error {
			a, err := c.Analytics(ctx, start, end)
			if err != nil {
				return err
			}
			return out(cmd).emit(a, func(w io.Writer) { writeSummary(w, a) })
		})
	}
	return cmd
}

func writeSummary(w io.Writer, a client.Analytics) {
	fmt.Fprintf(w, "Range: %s to %s (%d days)\n", a.Start, a.End, a.Days)
	fmt.Fprintf(w, "Target: %d kcal/day\n", a.Targets.CalorieTarget)
	for _, d := range a.Daily {
		mark := " "
		if d.Adherent {
			mark = "*"
		}
		fmt.Fprintf(w, "  %s %s %6.0f kcal | P %.1fg | C %.1fg | F %.1fg\n", mark, d.Date, d.Calories, d.Protein, d.Carbs, d.Fat)
	}
	fmt.Fprintf(w, "Total: %.0f kcal | P %.1fg | C %.1fg | F %.1fg\n", a.Totals.Calories, a.Totals.Protein, a.Totals.Carbs, a.Totals.Fat)
	fmt.Fprintf(w, "Adherence: %.1f%%\n", a.AdherencePct)
	for _, p := range a.WeightTrend {
		fmt.Fprintf(w, "Weight %s: %.1f kg\n", p.Date, p.WeightKg)
	}
	if msg := a.FeedbackMessage; msg != "" {
		fmt.Fprintln(w, msg)
	}
}

func newTodayCmd(out func(*cobra.Command) printer) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Show the day's plan, logged meals and progress",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&date, "date", "", "Date YYYY-MM-DD (default today)")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		day, err := parseDateOrToday(date, time.Now())
		if err != nil {
			return err
		}
		return withClient(cmd, func(ctx context.Context, c *client.Client) error {
			d, err := c.LoadDashboard(ctx, day)
			var netErr *client.NetworkError
			if errors.As(err, &netErr) {
				cached, cacheErr := c.CachedDashboard(ctx, day)
				if cacheErr != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Server unreachable (%v); showing cached data.\n", netErr)
				d, err = cached, nil
			}
			if err != nil {
				return err
			}
			return out(cmd).emit(d, func(w io.Writer) { writeDashboard(w, d) })
		})
	}
	return cmd
}

func writeDashboard(w io.Writer, d client.Dashboard) {
	s := d.Day.Summary
	fmt.Fprintf(w, "Date: %s\n", s.Date)
	if d.Cached {
		fmt.Fprintln(w, "Source: cache (logged meals and progress unavailable offline)")
		fmt.Fprintf(w, "Target: %d kcal\n", s.CaloriesTarget)
		writePlanLines(w, d.Plan)
		return
	}
	fmt.Fprintf(w, "Intake: %.0f / %d kcal\n", s.CaloriesConsumed, s.CaloriesTarget)
	var protein, carbs, fat float64
	for _, e := range d.Day.Logs {
		p, c, f := e.Macros()
		protein, carbs, fat = protein+p, carbs+c, fat+f
	}
	fmt.Fprintf(w, "Macros: P %.1fg | C %.1fg | F %.1fg\n", protein, carbs, fat)
	writePlanLines(w, d.Plan)
	for _, g := range s.MealBreakdown {
		fmt.Fprintf(w, "Logged %s: %.0f kcal\n", g.MealType, g.Calories)
	}
	if msg := d.Analytics.FeedbackMessage; msg != "" {
		fmt.Fprintln(w, msg)
	}
}

func writePlanLines(w io.Writer, plan nutrition.MealPlanDay) {
	if len(plan.Meals) == 0 {
		fmt.Fprintln(w, "Plan: none saved")
		return
	}
	fmt.Fprintf(w, "Plan: %d kcal\n", plan.Totals.Calories)
	for _, m := range plan.Meals {
		fmt.Fprintf(w, "  %-9s  %s\n", m.Slot, m.Meal.Name)
	}
}

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local response cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every cached profile and plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadClient()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			repo, err := cache.OpenSQLite(ctx, cfg.CachePath)
			if err != nil {
				return err
			}
			defer repo.Close()
			if err := repo.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared cache %s\n", cfg.CachePath)
			return nil
		},
	})
	return cmd
}
