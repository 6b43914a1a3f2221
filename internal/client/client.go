// Package client is a typed HTTP client for the nutrition API.
//
// Every request carries the bearer token and runs under the client timeout
// (10 s unless WithTimeout says otherwise). Failures are never retried.
// A 401 or 403 runs the unauthorized handler, clears the cache and returns
// ErrUnauthorized; 404 wraps nutrition.ErrNotFound; 400 is a
// *nutrition.ValidationError; transport failures and 5xx are *NetworkError.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"lg/nutrition-go-api/internal/cache"
	"lg/nutrition-go-api/internal/nutrition"
)

// DefaultTimeout bounds each request.
const DefaultTimeout = 10 * time.Second

// Client talks to one API server as one user.
type Client struct {
	baseURL        string
	token          string
	httpClient     *http.Client
	timeout        time.Duration
	onUnauthorized func()
	cache          cache.Repository
	logger         *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient makes the client send through a copy of hc, so hc itself is
// never modified. The copy keeps hc's Timeout unless it is zero or WithTimeout
// is given. A nil hc is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout. Zero or negative keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithUnauthorizedHandler registers the callback run on 401 and 403, typically
// to drop the stored session.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// WithCache stores successful profile and plan reads in r.
func WithCache(r cache.Repository) Option {
	return func(c *Client) { c.cache = r }
}

// WithLogger sets the logger for cache write failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client for baseURL authenticating with token.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	var hc http.Client
	if c.httpClient != nil {
		hc = *c.httpClient
	}
	switch {
	case c.timeout > 0:
		hc.Timeout = c.timeout
	case hc.Timeout == 0:
		hc.Timeout = DefaultTimeout
	}
	c.httpClient = &hc
	return c
}

/* ─── Transport ──────────────────────────────────────────────────────── */

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		reader = bytes.NewReader(b)
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil || len(respBytes) == 0 {
			return nil
		}
		if err := json.Unmarshal(respBytes, out); err != nil {
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.handleUnauthorized(ctx)
		return ErrUnauthorized
	}

	var eb errorBody
	_ = json.Unmarshal(respBytes, &eb)
	switch {
	case resp.StatusCode >= 500:
		msg := eb.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(msg)}
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s: %s: %w", op, eb.Error, nutrition.ErrNotFound)
	case resp.StatusCode == http.StatusBadRequest:
		return eb.validationError()
	default:
		return &APIError{Op: op, StatusCode: resp.StatusCode, Message: eb.Error}
	}
}

type unauthorizedOnceKey struct{}

// withUnauthorizedOnce makes every request under ctx share one run of the
// unauthorized handling.
func withUnauthorizedOnce(ctx context.Context) context.Context {
	return context.WithValue(ctx, unauthorizedOnceKey{}, new(sync.Once))
}

func (c *Client) handleUnauthorized(ctx context.Context) {
	if once, ok := ctx.Value(unauthorizedOnceKey{}).(*sync.Once); ok {
		once.Do(func() { c.dropSession(ctx) })
		return
	}
	c.dropSession(ctx)
}

func (c *Client) dropSession(ctx context.Context) {
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
	if c.cache != nil {
		// Sibling requests may already be cancelling ctx.
		if err := c.cache.Clear(context.WithoutCancel(ctx)); err != nil {
			c.logger.WarnContext(ctx, "client: clear cache", slog.Any("error", err))
		}
	}
}

func (c *Client) cacheWrite(ctx context.Context, what string, fn func(cache.Repository) error) {
	if c.cache == nil {
		return
	}
	if err := fn(c.cache); err != nil {
		c.logger.WarnContext(ctx, "client: cache write", slog.String("what", what), slog.Any("error", err))
	}
}

func rangeQuery(start, end nutrition.DateOnly) url.Values {
	return url.Values{"start": {start.String()}, "end": {end.String()}}
}

/* ─── Profile ────────────────────────────────────────────────────────── */

// GetProfile returns the saved profile, or the default one, with its targets.
func (c *Client) GetProfile(ctx context.Context) (ProfileResponse, error) {
	var out ProfileResponse
	if err := c.do(ctx, http.MethodGet, "/api/nutrition/profile", nil, nil, &out); err != nil {
		return ProfileResponse{}, err
	}
	c.cacheWrite(ctx, "profile", func(r cache.Repository) error {
		return cache.SaveProfile(ctx, r, cache.CachedProfile{Profile: out.Profile, Computed: out.Computed})
	})
	return out, nil
}

// SaveProfile replaces the profile and returns the recomputed targets.
func (c *Client) SaveProfile(ctx context.Context, p nutrition.UserProfile) (ProfileResponse, error) {
	var out ProfileResponse
	if err := c.do(ctx, http.MethodPost, "/api/nutrition/profile", nil, p, &out); err != nil {
		return ProfileResponse{}, err
	}
	c.cacheWrite(ctx, "profile", func(r cache.Repository) error {
		return cache.SaveProfile(ctx, r, cache.CachedProfile{Profile: out.Profile, Computed: out.Computed})
	})
	return out, nil
}

// CalcTargets computes targets for p on the server without saving anything.
func (c *Client) CalcTargets(ctx context.Context, p nutrition.UserProfile) (nutrition.ComputedTargets, error) {
	q := url.Values{
		"age":           {strconv.Itoa(p.Age)},
		"sex":           {string(p.Sex)},
		"heightCm":      {strconv.FormatFloat(p.HeightCm, 'f', -1, 64)},
		"weightKg":      {strconv.FormatFloat(p.WeightKg, 'f', -1, 64)},
		"activityLevel": {string(p.ActivityLevel)},
		"goal":          {string(p.Goal)},
	}
	var out nutrition.ComputedTargets
	err := c.do(ctx, http.MethodGet, "/api/nutrition/calc/targets", q, nil, &out)
	return out, err
}

/* ─── Meal plans ─────────────────────────────────────────────────────── */

func (c *Client) GeneratePlan(ctx context.Context, req PlanRequest) (GeneratedPlan, error) {
	var out GeneratedPlan
	err := c.do(ctx, http.MethodPost, "/api/nutrition/mealplan/generate", nil, req, &out)
	return out, err
}

// SavePlan stores one generated day, replacing any plan saved for its date.
func (c *Client) SavePlan(ctx context.Context, day nutrition.MealPlanDay) (SaveResult, error) {
	var out SaveResult
	if err := c.do(ctx, http.MethodPost, "/api/nutrition/mealplan/save", nil, day, &out); err != nil {
		return SaveResult{}, err
	}
	c.cacheWrite(ctx, "plan", func(r cache.Repository) error { return cache.SavePlan(ctx, r, day) })
	return out, nil
}

// GetPlanDay returns the saved plan for date; an empty day when none was saved.
func (c *Client) GetPlanDay(ctx context.Context, date nutrition.DateOnly) (nutrition.MealPlanDay, error) {
	var out nutrition.MealPlanDay
	q := url.Values{"date": {date.String()}}
	if err := c.do(ctx, http.MethodGet, "/api/nutrition/mealplan/day", q, nil, &out); err != nil {
		return nutrition.MealPlanDay{}, err
	}
	c.cacheWrite(ctx, "plan", func(r cache.Repository) error { return cache.SavePlan(ctx, r, out) })
	return out, nil
}

func (c *Client) GetPlanRange(ctx context.Context, start, end nutrition.DateOnly) ([]nutrition.SavedMealPlan, error) {
	var out []nutrition.SavedMealPlan
	err := c.do(ctx, http.MethodGet, "/api/nutrition/mealplan/range", rangeQuery(start, end), nil, &out)
	return out, err
}

/* ─── Meal logs ──────────────────────────────────────────────────────── */

func (c *Client) GetDayMeals(ctx context.Context, date nutrition.DateOnly) (DayMeals, error) {
	var out DayMeals
	err := c.do(ctx, http.MethodGet, "/api/nutrition/meals/day", url.Values{"date": {date.String()}}, nil, &out)
	return out, err
}

func (c *Client) LogMeal(ctx context.Context, in MealLogInput) (nutrition.MealLogEntry, error) {
	var out nutrition.MealLogEntry
	err := c.do(ctx, http.MethodPost, "/api/nutrition/meals", nil, in, &out)
	return out, err
}

func (c *Client) DeleteMeal(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/api/nutrition/meals/"+strconv.Itoa(id), nil, nil, nil)
}

/* ─── Weight ─────────────────────────────────────────────────────────── */

func (c *Client) GetWeights(ctx context.Context, start, end nutrition.DateOnly) ([]nutrition.WeightLogEntry, error) {
	var out []nutrition.WeightLogEntry
	err := c.do(ctx, http.MethodGet, "/api/nutrition/weight", rangeQuery(start, end), nil, &out)
	return out, err
}

func (c *Client) RecordWeight(ctx context.Context, in WeightInput) (nutrition.WeightLogEntry, error) {
	var out nutrition.WeightLogEntry
	err := c.do(ctx, http.MethodPost, "/api/nutrition/weight", nil, in, &out)
	return out, err
}

func (c *Client) DeleteWeight(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/api/nutrition/weight/"+strconv.Itoa(id), nil, nil, nil)
}

/* ─── Analytics ──────────────────────────────────────────────────────── */

func (c *Client) Analytics(ctx context.Context, start, end nutrition.DateOnly) (Analytics, error) {
	var out Analytics
	err := c.do(ctx, http.MethodGet, "/api/nutrition/analytics/summary", rangeQuery(start, end), nil, &out)
	return out, err
}

/* ─── Foods ──────────────────────────────────────────────────────────── */

// SearchFoods lists foods matching q; limit 0 uses the server default.
func (c *Client) SearchFoods(ctx context.Context, q string, limit int) ([]Food, error) {
	query := url.Values{}
	if q != "" {
		query.Set("q", q)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var out []Food
	err := c.do(ctx, http.MethodGet, "/api/nutrition/foods", query, nil, &out)
	return out, err
}

func (c *Client) CreateFood(ctx context.Context, f Food) (Food, error) {
	var out Food
	err := c.do(ctx, http.MethodPost, "/api/nutrition/foods", nil, f, &out)
	return out, err
}

func (c *Client) GetFood(ctx context.Context, id int) (Food, error) {
	var out Food
	err := c.do(ctx, http.MethodGet, "/api/nutrition/foods/"+strconv.Itoa(id), nil, nil, &out)
	return out, err
}

// SuggestFood asks the server's AI provider to estimate a description.
// Suggestion.Error is "unrecognized" when it could not.
func (c *Client) SuggestFood(ctx context.Context, description string) (Suggestion, error) {
	var out Suggestion
	err := c.do(ctx, http.MethodPost, "/api/nutrition/foods/suggest", nil,
		map[string]string{"description": description}, &out)
	return out, err
}

/* ─── Dashboard ──────────────────────────────────────────────────────── */

// LoadDashboard fetches the profile, the day's meals and the day's plan in
// parallel, then the analytics for the seven days ending on date. Any failure
// returns the error and no partial dashboard. A 401 on several of the parallel
// requests runs the unauthorized handler once.
func (c *Client) LoadDashboard(ctx context.Context, date nutrition.DateOnly) (Dashboard, error) {
	ctx = withUnauthorizedOnce(ctx)
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.Profile, err = c.GetProfile(gctx)
		return err
	})
	g.Go(func() (err error) {
		d.Day, err = c.GetDayMeals(gctx, date)
		return err
	})
	g.Go(func() (err error) {
		d.Plan, err = c.GetPlanDay(gctx, date)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	analytics, err := c.Analytics(ctx, date.AddDays(-6), date)
	if err != nil {
		return Dashboard{}, err
	}
	d.Analytics = analytics
	return d, nil
}

// CachedDashboard builds a dashboard for date from the cache alone: the last
// profile seen and the plan saved for date, if any. Logged meals and analytics
// are not cached and come back empty. It returns cache.ErrMiss when no client
// cache is configured or no profile was ever cached.
func (c *Client) CachedDashboard(ctx context.Context, date nutrition.DateOnly) (Dashboard, error) {
	if c.cache == nil {
		return Dashboard{}, cache.ErrMiss
	}
	p, err := cache.LoadProfile(ctx, c.cache)
	if err != nil {
		return Dashboard{}, err
	}
	plan, err := cache.LoadPlan(ctx, c.cache, date)
	switch {
	case errors.Is(err, cache.ErrMiss):
		plan = nutrition.EmptyPlanDay(date)
	case err != nil:
		return Dashboard{}, err
	}

	d := Dashboard{
		Profile: ProfileResponse{Profile: p.Profile, Computed: p.Computed},
		Plan:    plan,
		Cached:  true,
	}
	d.Day.Summary.Date = date
	d.Day.Summary.CaloriesTarget = p.Computed.CalorieTarget
	d.Day.Logs = []nutrition.MealLogEntry{}
	return d, nil
}
