// Package cache persists the last profile and plans the CLI fetched so they
// can be shown without a round trip. It stores values as JSON under string keys
// and knows nothing about how they were computed.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"lg/nutrition-go-api/internal/nutrition"
)

// ErrMiss is returned by Load when the key has never been saved.
var ErrMiss = errors.New("cache miss")

// Repository stores raw JSON documents by key.
type Repository interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context) error
}

const profileKey = "profile"

func planKey(date nutrition.DateOnly) string { return "plan:" + date.String() }

// CachedProfile is the profile endpoint response as last seen.
type CachedProfile struct {
	Profile  nutrition.UserProfile     `json:"profile"`
	Computed nutrition.ComputedTargets `json:"computed"`
}

func LoadProfile(ctx context.Context, r Repository) (CachedProfile, error) {
	var p CachedProfile
	return p, load(ctx, r, profileKey, &p)
}

func SaveProfile(ctx context.Context, r Repository, p CachedProfile) error {
	return save(ctx, r, profileKey, p)
}

func LoadPlan(ctx context.Context, r Repository, date nutrition.DateOnly) (nutrition.MealPlanDay, error) {
	var d nutrition.MealPlanDay
	return d, load(ctx, r, planKey(date), &d)
}

func SavePlan(ctx context.Context, r Repository, day nutrition.MealPlanDay) error {
	return save(ctx, r, planKey(day.Date), day)
}

func load(ctx context.Context, r Repository, key string, dst any) error {
	b, err := r.Load(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func save(ctx context.Context, r Repository, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return r.Save(ctx, key, b)
}

// MemoryRepository keeps documents in a map. Safe for concurrent use.
type MemoryRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: map[string][]byte{}}
}

func (m *MemoryRepository) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.data[key]
	if !ok {
		return nil, ErrMiss
	}
	return append([]byte(nil), b...), nil
}

func (m *MemoryRepository) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryRepository) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.data)
	return nil
}

// Len reports how many keys are stored.
func (m *MemoryRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
