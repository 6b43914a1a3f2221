package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lg/nutrition-go-api/internal/cache"
	"lg/nutrition-go-api/internal/client"
	"lg/nutrition-go-api/internal/nutrition"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// clientEnv points the CLI configuration at baseURL and a temp cache file.
func clientEnv(t *testing.T, baseURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("NUTRITION_API_URL", baseURL)
	t.Setenv("NUTRITION_TOKEN", "test-token")
	t.Setenv("NUTRITION_CACHE_PATH", path)
	return path
}

func TestRootHelp(t *testing.T) {
	out, err := execute(t, "--help")

	require.NoError(t, err)
	assert.Contains(t, out, "targets")
	assert.Contains(t, out, "plan")
}

func TestTargets_Text(t *testing.T) {
	out, err := execute(t, "targets", "--age", "30", "--sex", "male", "--height", "180", "--weight", "80",
		"--activity", "moderate", "--goal", "maintain")

	require.NoError(t, err)
	assert.Contains(t, out, "BMR: 1854 kcal")
	assert.Contains(t, out, "TDEE: 2873 kcal")
	assert.Contains(t, out, "Target: 2873 kcal")
	assert.Contains(t, out, "Macros: P 180g | C 322g | F 96g")
}

func TestTargets_JSON(t *testing.T) {
	out, err := execute(t, "targets", "--json", "--height", "180", "--weight", "80")
	require.NoError(t, err)

	var got nutrition.ComputedTargets
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2873, got.CalorieTarget)
}

func TestTargets_InvalidProfile(t *testing.T) {
	_, err := execute(t, "targets", "--sex", "other", "--age", "0")

	var verr *nutrition.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorContains(t, err, "sex")
	assert.ErrorContains(t, err, "age")
}

func TestPlan_SeedIsReproducible(t *testing.T) {
	args := []string{"plan", "--json", "--seed", "42", "--days", "3", "--meals", "5", "--diet", "vegan"}
	first, err := execute(t, args...)
	require.NoError(t, err)
	second, err := execute(t, args...)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var plan []nutrition.MealPlanDay
	require.NoError(t, json.Unmarshal([]byte(first), &plan))
	require.Len(t, plan, 3)
	for _, day := range plan {
		require.Len(t, day.Meals, 5)
		for _, m := range day.Meals {
			assert.Equal(t, nutrition.DietVegan, m.Meal.DietType)
		}
	}
}

func TestPlan_TextShowsTotals(t *testing.T) {
	out, err := execute(t, "plan", "--seed", "1")

	require.NoError(t, err)
	assert.Contains(t, out, "breakfast")
	assert.Contains(t, out, "Total:")
}

func TestPlan_RejectsTooManyDays(t *testing.T) {
	_, err := execute(t, "plan", "--days", "15")

	assert.ErrorContains(t, err, "days")
}

func TestParseDateOrToday(t *testing.T) {
	now := time.Date(2026, 10, 19, 23, 0, 0, 0, time.UTC)

	d, err := parseDateOrToday("", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", d.String())

	d, err = parseDateOrToday(" 2026-02-03 ", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-02-03", d.String())

	_, err = parseDateOrToday("03/02/2026", now)
	assert.ErrorContains(t, err, "expected YYYY-MM-DD")
}

func TestSummary_PrintsAnalytics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/nutrition/analytics/summary", r.URL.Path)
		assert.Equal(t, "2026-10-13", r.URL.Query().Get("start"))
		assert.Equal(t, "2026-10-19", r.URL.Query().Get("end"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"start":"2026-10-13","end":"2026-10-19","days":7,
			"daily":[{"date":"2026-10-19","calories":1500,"protein":90,"carbs":150,"fat":50,"adherent":false}],
			"weightTrend":[{"date":"2026-10-18","weightKg":80.1}],
			"adherencePct":42.9,
			"targets":{"BMR":1854,"TDEE":2873,"calorieTarget":2873,"macros":{"proteinG":180,"carbsG":322,"fatG":96}},
			"totals":{"calories":1500,"protein":90,"carbs":150,"fat":50},
			"feedback":"below target","feedbackMessage":"You were below your calorie target yesterday."
		}`))
	}))
	defer srv.Close()
	clientEnv(t, srv.URL)

	out, err := execute(t, "summary", "--to", "2026-10-19")

	require.NoError(t, err)
	assert.Contains(t, out, "Range: 2026-10-13 to 2026-10-19 (7 days)")
	assert.Contains(t, out, "Adherence: 42.9%")
	assert.Contains(t, out, "Weight 2026-10-18: 80.1 kg")
	assert.Contains(t, out, "below your calorie target")
}

func TestSummary_RejectsInvertedRange(t *testing.T) {
	_, err := execute(t, "summary", "--from", "2026-10-20", "--to", "2026-10-19")

	assert.ErrorContains(t, err, "--from must not be after --to")
}

func TestSummary_RejectsRangeOverAYear(t *testing.T) {
	_, err := execute(t, "summary", "--from", "2024-01-01", "--to", "2026-10-19")

	assert.ErrorIs(t, err, nutrition.ErrValidation)
	assert.ErrorContains(t, err, "at most 366 days")
}

func TestCacheClear(t *testing.T) {
	path := clientEnv(t, "http://localhost:3000")
	ctx := context.Background()
	repo, err := cache.OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, "profile", []byte(`{}`)))
	require.NoError(t, repo.Close())

	out, err := execute(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared cache")

	repo, err = cache.OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer repo.Close()
	_, err = repo.Load(ctx, "profile")
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestToday_FallsBackToCacheWhenServerIsDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	path := clientEnv(t, srv.URL)

	ctx := context.Background()
	date := nutrition.MustParseDate("2026-10-19")
	p := nutrition.DefaultProfile()
	targets, err := nutrition.ComputeTargets(p)
	require.NoError(t, err)
	plan := nutrition.MealPlanDay{Date: date, Meals: []nutrition.PlannedMeal{
		{Slot: nutrition.SlotDinner, Meal: nutrition.MealTemplate{Name: "Lentil curry", Calories: 620}},
	}}
	plan.Recalculate()
	repo, err := cache.OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, cache.SaveProfile(ctx, repo, cache.CachedProfile{Profile: p, Computed: targets}))
	require.NoError(t, cache.SavePlan(ctx, repo, plan))
	require.NoError(t, repo.Close())

	out, err := execute(t, "today", "--date", "2026-10-19")

	require.NoError(t, err)
	assert.Contains(t, out, "showing cached data")
	assert.Contains(t, out, "Source: cache")
	assert.Contains(t, out, fmt.Sprintf("Target: %d kcal", targets.CalorieTarget))
	assert.Contains(t, out, "Lentil curry")
}

func TestToday_ServerDownWithEmptyCacheFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	clientEnv(t, srv.URL)

	_, err := execute(t, "today", "--date", "2026-10-19")

	var ne *client.NetworkError
	assert.ErrorAs(t, err, &ne)
}
