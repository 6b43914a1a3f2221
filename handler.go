package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"lg/nutrition-go-api/internal/config"
	"lg/nutrition-go-api/internal/nutrition"
)

// dbtx is the subset of *pgxpool.Pool the handlers use. Tests pass a pgxmock pool.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// Handler holds shared dependencies for all route handlers.
type Handler struct {
	db          dbtx
	catalog     *nutrition.Catalog
	suggester   suggester
	logger      *slog.Logger
	now         func() time.Time // overridable for tests
	defaultDays int
}

func newHandler(db dbtx, catalog *nutrition.Catalog, s suggester, logger *slog.Logger) *Handler {
	return &Handler{
		db:          db,
		catalog:     catalog,
		suggester:   s,
		logger:      logger,
		now:         time.Now,
		defaultDays: 1,
	}
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// No row comes back as an error wrapping nutrition.ErrNotFound.
func queryOne[T any](ctx context.Context, db dbtx, sql string, args ...any) (T, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("query: %w", err)
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if errors.Is(err, pgx.ErrNoRows) {
		return result, nutrition.ErrNotFound
	}
	if err != nil {
		return result, fmt.Errorf("scan: %w", err)
	}
	return result, nil
}

// queryMany runs a query and scans all rows into []T. The slice is never nil so
// JSON renders an empty array.
func queryMany[T any](ctx context.Context, db dbtx, sql string, args ...any) ([]T, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if results == nil {
		results = []T{}
	}
	return results, nil
}

func isNotFound(err error) bool { return errors.Is(err, nutrition.ErrNotFound) }

/* ─── Responses ───────────────────────────────────────────────────────── */

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondError maps library errors to a status. Validation failures also carry
// the offending field; anything unexpected is logged and reported as 500 with
// the fallback message.
func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	var ve *nutrition.ValidationError
	switch {
	case errors.As(err, &ve):
		body := gin.H{"error": ve.Error()}
		if len(ve.Errors) > 0 {
			body["field"] = ve.Errors[0].Field
			body["fields"] = ve.Errors
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, nutrition.ErrNotFound):
		apiError(c, http.StatusNotFound, fallback)
	default:
		h.logger.ErrorContext(c, fallback,
			slog.String("path", c.FullPath()),
			slog.Int("user_id", c.GetInt("user_id")),
			slog.Any("error", err))
		apiError(c, http.StatusInternalServerError, fallback)
	}
}

/* ─── Request parsing ─────────────────────────────────────────────────── */

// dateParam reads a YYYY-MM-DD query param, defaulting to today when absent.
func (h *Handler) dateParam(c *gin.Context, name string) (nutrition.DateOnly, error) {
	s := c.Query(name)
	if s == "" {
		return nutrition.NewDate(h.now()), nil
	}
	d, err := nutrition.ParseDate(s)
	if err != nil {
		return nutrition.DateOnly{}, nutrition.NewValidationError(name, "invalid date, expected YYYY-MM-DD")
	}
	return d, nil
}

// rangeParams reads the required start and end query params.
func rangeParams(c *gin.Context) (start, end nutrition.DateOnly, err error) {
	for _, p := range []struct {
		name string
		dst  *nutrition.DateOnly
	}{{"start", &start}, {"end", &end}} {
		s := c.Query(p.name)
		if s == "" {
			return start, end, nutrition.NewValidationError(p.name, "is required")
		}
		if *p.dst, err = nutrition.ParseDate(s); err != nil {
			return start, end, nutrition.NewValidationError(p.name, "invalid date, expected YYYY-MM-DD")
		}
	}
	return start, end, nutrition.CheckRange(start, end)
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool creates a connection pool. We use a pool (not a single conn) because
// Neon closes idle connections after ~5 minutes.
func getDBPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse DB URL: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	// Simple protocol avoids "cached plan must not change result type" errors
	// from Neon's server-side prepared statement cache after schema changes.
	if cfg.SimpleProtocol {
		poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// health reports liveness and whether the database answers.
// GET /api/health (public).
func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		h.logger.WarnContext(c, "health: db ping failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "db": "unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "ok"})
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/login", h.login)
	router.GET("/api/health", h.health)

	// Authenticated routes
	api := router.Group("/api/nutrition", h.authMiddleware())
	api.GET("/profile", h.getProfile)
	api.POST("/profile", h.saveProfile)
	api.GET("/calc/targets", h.calcTargets)

	api.POST("/mealplan/generate", h.generateMealPlan)
	api.POST("/mealplan/save", h.saveMealPlan)
	api.GET("/mealplan/day", h.getMealPlanDay)
	api.GET("/mealplan/range", h.getMealPlanRange)

	api.GET("/meals/day", h.getDayMeals)
	api.POST("/meals", h.createMealLog)
	api.DELETE("/meals/:id", h.deleteMealLog)

	api.GET("/weight", h.getWeightLog)
	api.POST("/weight", h.upsertWeightEntry)
	api.DELETE("/weight/:id", h.deleteWeightEntry)

	api.GET("/analytics/summary", h.getAnalyticsSummary)

	api.GET("/foods", h.searchFoods)
	api.POST("/foods", h.createFood)
	api.GET("/foods/:id", h.getFood)
	api.POST("/foods/suggest", h.suggestFood)
}
