package main

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"lg/nutrition-go-api/internal/nutrition"
)

const (
	defaultFoodLimit = 25
	maxFoodLimit     = 100
)

var foodColumns = []string{
	"id", "name", "brand", "serving_size", "serving_unit", "calories", "protein_g", "carbs_g", "fat_g",
}

// psql builds PostgreSQL ($n) placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// searchFoods lists foods whose name or brand contains q (case-insensitive),
// alphabetically. All foods are listed when q is empty.
// GET /api/nutrition/foods?q=oat&limit=25.
func (h *Handler) searchFoods(c *gin.Context) {
	limit := defaultFoodLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxFoodLimit {
			h.respondError(c, nutrition.NewValidationError("limit", "must be between 1 and 100"), "")
			return
		}
		limit = n
	}

	query := psql.Select(foodColumns...).From("foods").OrderBy("name ASC", "id ASC").Limit(uint64(limit))
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		pattern := "%" + q + "%"
		query = query.Where(sq.Or{sq.ILike{"name": pattern}, sq.ILike{"brand": pattern}})
	}
	sql, args, err := query.ToSql()
	if err != nil {
		h.respondError(c, err, "failed to search foods")
		return
	}

	foods, err := queryMany[food](c, h.db, sql, args...)
	if err != nil {
		h.respondError(c, err, "failed to search foods")
		return
	}

	c.JSON(http.StatusOK, foods)
}

// getFood returns one food by ID.
// GET /api/nutrition/foods/:id. Returns 404 if it does not exist.
func (h *Handler) getFood(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		apiError(c, http.StatusBadRequest, "invalid id")
		return
	}

	sql, args, err := psql.Select(foodColumns...).From("foods").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		h.respondError(c, err, "failed to fetch food")
		return
	}
	f, err := queryOne[food](c, h.db, sql, args...)
	if err != nil {
		h.respondError(c, err, "food not found")
		return
	}

	c.JSON(http.StatusOK, f)
}

// createFood adds a food to the shared catalog.
// POST /api/nutrition/foods. Returns 201 with the created row.
func (h *Handler) createFood(c *gin.Context) {
	var body createFoodRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := body.validate(); err != nil {
		h.respondError(c, err, "")
		return
	}

	f, err := queryOne[food](c, h.db,
		`INSERT INTO foods (name, brand, serving_size, serving_unit, calories, protein_g, carbs_g, fat_g)
		 VALUES (@name, @brand, @servingSize, @servingUnit, @calories, @proteinG, @carbsG, @fatG)
		 RETURNING `+strings.Join(foodColumns, ", "),
		pgx.NamedArgs{
			"name": body.Name, "brand": body.Brand,
			"servingSize": body.ServingSize, "servingUnit": body.ServingUnit,
			"calories": body.Calories, "proteinG": body.ProteinG, "carbsG": body.CarbsG, "fatG": body.FatG,
		})
	if err != nil {
		h.respondError(c, err, "failed to create food")
		return
	}

	h.logger.InfoContext(c, "food created", slog.Int("food_id", f.ID), slog.String("name", f.Name))
	c.JSON(http.StatusCreated, f)
}

// validate trims text fields and checks ranges. Macros are optional but never negative.
func (r *createFoodRequest) validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.ServingUnit = strings.TrimSpace(r.ServingUnit)
	if r.Brand != nil {
		b := strings.TrimSpace(*r.Brand)
		r.Brand = &b
		if b == "" {
			r.Brand = nil
		}
	}

	var errs []nutrition.FieldError
	if r.Name == "" {
		errs = append(errs, nutrition.FieldError{Field: "name", Message: "is required"})
	}
	if r.ServingSize <= 0 {
		errs = append(errs, nutrition.FieldError{Field: "servingSize", Message: "must be greater than 0"})
	}
	if r.ServingUnit == "" {
		errs = append(errs, nutrition.FieldError{Field: "servingUnit", Message: "is required"})
	}
	if r.Calories < 0 {
		errs = append(errs, nutrition.FieldError{Field: "calories", Message: "must not be negative"})
	}
	for _, m := range []struct {
		field string
		v     *float64
	}{{"proteinG", r.ProteinG}, {"carbsG", r.CarbsG}, {"fatG", r.FatG}} {
		if m.v != nil && *m.v < 0 {
			errs = append(errs, nutrition.FieldError{Field: m.field, Message: "must not be negative"})
		}
	}
	if len(errs) > 0 {
		return &nutrition.ValidationError{Errors: errs}
	}
	return nil
}
