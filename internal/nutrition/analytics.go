package nutrition

import (
	"math"
	"sort"
)

// adherenceTolerance is the fraction of the calorie target a day may deviate
// by and still count as adherent.
const adherenceTolerance = 0.10

// WeightLogEntry is one body-weight measurement. One per (user, date).
type WeightLogEntry struct {
	ID       int      `json:"id"       db:"id"`
	Date     DateOnly `json:"date"     db:"date"`
	WeightKg float64  `json:"weightKg" db:"weight_kg"`
	Notes    string   `json:"notes"    db:"notes"`
}

// DailyPoint is the consumed calories and macros of one day.
type DailyPoint struct {
	Date     DateOnly `json:"date"`
	Calories float64  `json:"calories"`
	Protein  float64  `json:"protein"`
	Carbs    float64  `json:"carbs"`
	Fat      float64  `json:"fat"`
	Adherent bool     `json:"adherent"`
}

// WeightPoint is one point of the weight trend.
type WeightPoint struct {
	Date     DateOnly `json:"date"`
	WeightKg float64  `json:"weightKg"`
}

// RangeTotals sums the daily points of a summary.
type RangeTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// AnalyticsSummary covers one inclusive date range.
type AnalyticsSummary struct {
	Start        DateOnly        `json:"start"`
	End          DateOnly        `json:"end"`
	Days         int             `json:"days"`
	Daily        []DailyPoint    `json:"daily"`
	WeightTrend  []WeightPoint   `json:"weightTrend"`
	AdherencePct float64         `json:"adherencePct"`
	Targets      ComputedTargets `json:"targets"`
	Totals       RangeTotals     `json:"totals"`
}

// Summarize builds the analytics for [start, end]. Every date in the range gets
// a daily point, including days with nothing logged. Logs and weights outside
// the range are ignored.
func Summarize(logs []MealLogEntry, weights []WeightLogEntry, targets ComputedTargets, start, end DateOnly) (AnalyticsSummary, error) {
	if err := CheckRange(start, end); err != nil {
		return AnalyticsSummary{}, err
	}
	if targets.CalorieTarget <= 0 {
		return AnalyticsSummary{}, computationError("calorie target %d is not positive", targets.CalorieTarget)
	}

	byDate := map[string]*DailyPoint{}
	dates := DaysInRange(start, end)
	summary := AnalyticsSummary{
		Start:       start,
		End:         end,
		Days:        len(dates),
		Daily:       make([]DailyPoint, len(dates)),
		WeightTrend: []WeightPoint{},
		Targets:     targets,
	}
	for i, d := range dates {
		summary.Daily[i] = DailyPoint{Date: d}
		byDate[d.String()] = &summary.Daily[i]
	}

	for _, e := range logs {
		point, ok := byDate[e.Date.String()]
		if !ok {
			continue
		}
		protein, carbs, fat := e.Macros()
		point.Calories += e.TotalCalories
		point.Protein += protein
		point.Carbs += carbs
		point.Fat += fat
	}

	adherent := 0
	for i := range summary.Daily {
		p := &summary.Daily[i]
		p.Adherent = isAdherent(p.Calories, targets.CalorieTarget)
		if p.Adherent {
			adherent++
		}
		summary.Totals.Calories += p.Calories
		summary.Totals.Protein += p.Protein
		summary.Totals.Carbs += p.Carbs
		summary.Totals.Fat += p.Fat
	}
	if summary.Days > 0 {
		summary.AdherencePct = roundTo(float64(adherent)*100/float64(summary.Days), 1)
	}

	summary.WeightTrend = weightTrend(weights, start, end)
	return summary, nil
}

// isAdherent reports whether calories are within the tolerance of target.
// A day with nothing logged is never adherent.
func isAdherent(calories float64, target int) bool {
	if calories <= 0 {
		return false
	}
	t := float64(target)
	return calories >= t*(1-adherenceTolerance) && calories <= t*(1+adherenceTolerance)
}

// weightTrend keeps one point per logged date in range, in date order. When a
// date was logged more than once the later entry in weights wins.
func weightTrend(weights []WeightLogEntry, start, end DateOnly) []WeightPoint {
	latest := map[string]WeightPoint{}
	for _, w := range weights {
		if w.Date.Before(start.Time) || w.Date.After(end.Time) {
			continue
		}
		latest[w.Date.String()] = WeightPoint{Date: w.Date, WeightKg: w.WeightKg}
	}
	trend := make([]WeightPoint, 0, len(latest))
	for _, p := range latest {
		trend = append(trend, p)
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Date.Before(trend[j].Date.Time) })
	return trend
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Feedback is the comment shown for the most recent day of a summary.
type Feedback string

const (
	FeedbackNone     Feedback = ""
	FeedbackExceeded Feedback = "exceeded target"
	FeedbackBelow    Feedback = "below target"
)

// Message is the user-facing sentence for the feedback, or "" for none.
func (f Feedback) Message() string {
	switch f {
	case FeedbackExceeded:
		return "You exceeded your calorie target yesterday."
	case FeedbackBelow:
		return "You were below your calorie target yesterday."
	}
	return ""
}

// ClassifyFeedback looks at the last day of the summary: above 110% of target
// is exceeded, below 90% is below, anything else gets no feedback.
func ClassifyFeedback(s AnalyticsSummary) Feedback {
	if len(s.Daily) == 0 || s.Targets.CalorieTarget <= 0 {
		return FeedbackNone
	}
	last := s.Daily[len(s.Daily)-1].Calories
	t := float64(s.Targets.CalorieTarget)
	switch {
	case last > t*(1+adherenceTolerance):
		return FeedbackExceeded
	case last < t*(1-adherenceTolerance):
		return FeedbackBelow
	}
	return FeedbackNone
}
