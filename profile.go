package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"lg/nutrition-go-api/internal/nutrition"
)

const profileColumns = `age, sex, height_cm, weight_kg, activity_level, goal, diet_type, meals_per_day`

// loadProfile returns the stored profile, or the default profile with
// isDefault=true when the user never saved one.
func (h *Handler) loadProfile(ctx context.Context, userID int) (p nutrition.UserProfile, isDefault bool, err error) {
	p, err = queryOne[nutrition.UserProfile](ctx, h.db,
		"SELECT "+profileColumns+" FROM nutrition_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if errors.Is(err, nutrition.ErrNotFound) {
		return nutrition.DefaultProfile(), true, nil
	}
	if err != nil {
		return p, false, fmt.Errorf("load profile: %w", err)
	}
	return p, false, nil
}

// loadTargets computes targets from the user's current profile. Targets are
// never stored; they always follow the profile.
func (h *Handler) loadTargets(ctx context.Context, userID int) (nutrition.UserProfile, nutrition.ComputedTargets, error) {
	p, _, err := h.loadProfile(ctx, userID)
	if err != nil {
		return p, nutrition.ComputedTargets{}, err
	}
	targets, err := nutrition.ComputeTargets(p)
	if err != nil {
		// A stored profile that no longer validates is a server-side problem.
		return p, targets, fmt.Errorf("targets for stored profile: %v", err)
	}
	return p, targets, nil
}

// getProfile returns the user's profile and its computed targets.
// GET /api/nutrition/profile. Users without a saved profile get the default.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, isDefault, err := h.loadProfile(c, userID)
	if err != nil {
		h.respondError(c, err, "failed to fetch profile")
		return
	}
	targets, err := nutrition.ComputeTargets(p)
	if err != nil {
		h.respondError(c, fmt.Errorf("targets for stored profile: %v", err), "failed to compute targets")
		return
	}

	c.JSON(http.StatusOK, profileResponse{Profile: p, Computed: targets, IsDefault: isDefault})
}

// saveProfile validates and stores the full profile, returning fresh targets.
// POST /api/nutrition/profile. Invalid fields are rejected with 400 and the
// field name before anything is written.
func (h *Handler) saveProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var p nutrition.UserProfile
	if err := c.ShouldBindJSON(&p); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	targets, err := nutrition.ComputeTargets(p)
	if err != nil {
		h.respondError(c, err, "failed to compute targets")
		return
	}

	_, err = h.db.Exec(c,
		`INSERT INTO nutrition_profiles
			(user_id, age, sex, height_cm, weight_kg, activity_level, goal, diet_type, meals_per_day, updated_at)
		 VALUES (@userID, @age, @sex, @heightCm, @weightKg, @activityLevel, @goal, @dietType, @mealsPerDay, now())
		 ON CONFLICT (user_id) DO UPDATE SET
			age = EXCLUDED.age,
			sex = EXCLUDED.sex,
			height_cm = EXCLUDED.height_cm,
			weight_kg = EXCLUDED.weight_kg,
			activity_level = EXCLUDED.activity_level,
			goal = EXCLUDED.goal,
			diet_type = EXCLUDED.diet_type,
			meals_per_day = EXCLUDED.meals_per_day,
			updated_at = now()`,
		pgx.NamedArgs{
			"userID": userID, "age": p.Age, "sex": string(p.Sex),
			"heightCm": p.HeightCm, "weightKg": p.WeightKg,
			"activityLevel": string(p.ActivityLevel), "goal": string(p.Goal),
			"dietType": string(p.DietType), "mealsPerDay": p.MealsPerDay,
		})
	if err != nil {
		h.respondError(c, err, "failed to save profile")
		return
	}

	c.JSON(http.StatusOK, profileResponse{Profile: p, Computed: targets})
}

// calcTargetsQuery is the query string of GET /calc/targets. Diet type and
// meals per day do not affect targets and default to omnivore and 3.
type calcTargetsQuery struct {
	Age           int     `form:"age"`
	Sex           string  `form:"sex"`
	HeightCm      float64 `form:"heightCm"`
	WeightKg      float64 `form:"weightKg"`
	ActivityLevel string  `form:"activityLevel"`
	Goal          string  `form:"goal"`
	DietType      string  `form:"dietType,default=omnivore"`
	MealsPerDay   int     `form:"mealsPerDay,default=3"`
}

// calcTargets computes targets for ad-hoc inputs without touching storage.
// GET /api/nutrition/calc/targets?age=&sex=&heightCm=&weightKg=&activityLevel=&goal=
func (h *Handler) calcTargets(c *gin.Context) {
	var q calcTargetsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		apiError(c, http.StatusBadRequest, "invalid query parameters")
		return
	}

	targets, err := nutrition.ComputeTargets(nutrition.UserProfile{
		Age:           q.Age,
		Sex:           nutrition.Sex(q.Sex),
		HeightCm:      q.HeightCm,
		WeightKg:      q.WeightKg,
		ActivityLevel: nutrition.ActivityLevel(q.ActivityLevel),
		Goal:          nutrition.Goal(q.Goal),
		DietType:      nutrition.DietType(q.DietType),
		MealsPerDay:   q.MealsPerDay,
	})
	if err != nil {
		h.respondError(c, err, "failed to compute targets")
		return
	}

	c.JSON(http.StatusOK, targets)
}
