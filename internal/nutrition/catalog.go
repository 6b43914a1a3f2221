package nutrition

import (
	_ "embed"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"gopkg.in/yaml.v3"
)

type MealSlot string

const (
	SlotBreakfast MealSlot = "breakfast"
	SlotLunch     MealSlot = "lunch"
	SlotDinner    MealSlot = "dinner"
	SlotSnack     MealSlot = "snack"
)

// MealSlots is the canonical order of a day's slots.
var MealSlots = []MealSlot{SlotBreakfast, SlotLunch, SlotDinner, SlotSnack}

func (s MealSlot) Valid() bool {
	for _, known := range MealSlots {
		if s == known {
			return true
		}
	}
	return false
}

// MealTemplate is a static, pre-portioned catalog entry.
type MealTemplate struct {
	Name            string   `json:"name"            yaml:"name"`
	DietType        DietType `json:"dietTypeTag"     yaml:"-"`
	Slot            MealSlot `json:"mealSlot"        yaml:"-"`
	Ingredients     []string `json:"ingredients"     yaml:"ingredients"`
	Calories        int      `json:"calories"        yaml:"calories"`
	ProteinG        float64  `json:"proteinG"        yaml:"protein_g"`
	CarbsG          float64  `json:"carbsG"          yaml:"carbs_g"`
	FatG            float64  `json:"fatG"            yaml:"fat_g"`
	Instructions    string   `json:"instructions"    yaml:"instructions"`
	PrepTimeMinutes int      `json:"prepTimeMinutes" yaml:"prep_time_minutes"`
}

//go:embed catalog.yaml
var seedCatalog []byte

// Catalog is a read-only lookup of meal templates keyed by (diet type, slot).
type Catalog struct {
	meals  map[DietType]map[MealSlot][]MealTemplate
	logger *slog.Logger
}

// DefaultCatalog parses the embedded seed catalog.
func DefaultCatalog(logger *slog.Logger) (*Catalog, error) {
	return LoadCatalog(seedCatalog, logger)
}

// LoadCatalog parses a YAML catalog of the form diet -> slot -> []template.
// The omnivore catalog must cover every slot since it is the fallback.
func LoadCatalog(data []byte, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var raw map[DietType]map[MealSlot][]MealTemplate
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	for diet, slots := range raw {
		if !diet.Valid() {
			return nil, fmt.Errorf("catalog: unknown diet type %q", diet)
		}
		for slot, templates := range slots {
			if !slot.Valid() {
				return nil, fmt.Errorf("catalog: %s: unknown meal slot %q", diet, slot)
			}
			for i := range templates {
				if templates[i].Name == "" || templates[i].Calories <= 0 {
					return nil, fmt.Errorf("catalog: %s/%s entry %d: name and positive calories are required", diet, slot, i)
				}
				templates[i].DietType = diet
				templates[i].Slot = slot
			}
		}
	}

	for _, slot := range MealSlots {
		if len(raw[DietOmnivore][slot]) == 0 {
			return nil, fmt.Errorf("catalog: omnivore has no %s meals", slot)
		}
	}

	return &Catalog{meals: raw, logger: logger}, nil
}

// MealsFor returns the templates for a diet type and slot. Diet types with no
// catalog fall back to omnivore; the fallback is logged.
func (c *Catalog) MealsFor(diet DietType, slot MealSlot) []MealTemplate {
	slots, ok := c.meals[diet]
	if !ok {
		c.logger.Warn("catalog: unknown diet type, using omnivore",
			slog.String("diet_type", string(diet)), slog.String("slot", string(slot)))
		slots = c.meals[DietOmnivore]
	}
	templates := slots[slot]
	out := make([]MealTemplate, len(templates))
	copy(out, templates)
	return out
}

// Selector draws one template per slot from a Catalog.
// It is not safe for concurrent use; create one per plan request.
type Selector struct {
	catalog *Catalog
	rng     *rand.Rand
}

// NewSelector uses rng for draws, or a randomly seeded source when rng is nil.
func NewSelector(c *Catalog, rng *rand.Rand) *Selector {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Selector{catalog: c, rng: rng}
}

// NewSeededSelector returns a Selector whose draws are reproducible for a seed.
func NewSeededSelector(c *Catalog, seed uint64) *Selector {
	return NewSelector(c, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// Pick returns one template for the slot, chosen uniformly.
func (s *Selector) Pick(diet DietType, slot MealSlot) (MealTemplate, error) {
	candidates := s.catalog.MealsFor(diet, slot)
	if len(candidates) == 0 {
		return MealTemplate{}, fmt.Errorf("%s meals for %s: %w", slot, diet, ErrNotFound)
	}
	return candidates[s.rng.IntN(len(candidates))], nil
}
