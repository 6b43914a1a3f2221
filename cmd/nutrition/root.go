package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lg/nutrition-go-api/internal/nutrition"
)

func newRootCmd() *cobra.Command {
	var asJSON bool
	root := &cobra.Command{
		Use:           "nutrition",
		Short:         "nutrition computes calorie targets and meal plans",
		Long:          "nutrition computes calorie and macro targets, draws meal plans and reports on logged intake.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")

	out := func(cmd *cobra.Command) printer {
		return printer{w: cmd.OutOrStdout(), json: asJSON}
	}
	root.AddCommand(
		newTargetsCmd(out),
		newPlanCmd(out),
		newSummaryCmd(out),
		newTodayCmd(out),
		newCacheCmd(),
	)
	return root
}

type printer struct {
	w    io.Writer
	json bool
}

// emit writes v as indented JSON when --json is set, otherwise calls text.
func (p printer) emit(v any, text func(io.Writer)) error {
	if !p.json {
		text(p.w)
		return nil
	}
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// profileFlags binds the profile fields to flags defaulting to DefaultProfile.
type profileFlags struct {
	profile  nutrition.UserProfile
	sex      string
	activity string
	goal     string
	diet     string
}

func addProfileFlags(cmd *cobra.Command) *profileFlags {
	pf := &profileFlags{profile: nutrition.DefaultProfile()}
	d := pf.profile
	f := cmd.Flags()
	f.IntVar(&pf.profile.Age, "age", d.Age, "Age in years")
	f.StringVar(&pf.sex, "sex", string(d.Sex), "male or female")
	f.Float64Var(&pf.profile.HeightCm, "height", d.HeightCm, "Height in cm")
	f.Float64Var(&pf.profile.WeightKg, "weight", d.WeightKg, "Weight in kg")
	f.StringVar(&pf.activity, "activity", string(d.ActivityLevel), "sedentary, light, moderate, active or very_active")
	f.StringVar(&pf.goal, "goal", string(d.Goal), "lose_weight, maintain, gain_weight or muscle_gain")
	f.StringVar(&pf.diet, "diet", string(d.DietType), "omnivore, vegetarian, vegan, keto or paleo")
	f.IntVar(&pf.profile.MealsPerDay, "meals", d.MealsPerDay, "Meals per day (3-6)")
	return pf
}

func (pf *profileFlags) resolve() nutrition.UserProfile {
	p := pf.profile
	p.Sex = nutrition.Sex(strings.ToLower(strings.TrimSpace(pf.sex)))
	p.ActivityLevel = nutrition.ActivityLevel(strings.ToLower(strings.TrimSpace(pf.activity)))
	p.Goal = nutrition.Goal(strings.ToLower(strings.TrimSpace(pf.goal)))
	p.DietType = nutrition.DietType(strings.ToLower(strings.TrimSpace(pf.diet)))
	return p
}

// parseDateOrToday reads a --date flag value; empty means today.
func parseDateOrToday(value string, now time.Time) (nutrition.DateOnly, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nutrition.NewDate(now), nil
	}
	d, err := nutrition.ParseDate(value)
	if err != nil {
		return nutrition.DateOnly{}, fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", value)
	}
	return d, nil
}
