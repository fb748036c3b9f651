// Package recommend picks the presets that best fit a device type, usage
// segment and budget.
package recommend

import (
	"iter"
	"slices"

	"github.com/Aquilabot/SmartPC-API/internal/models"
)

const (
	DefaultLimit = 3
	MaxLimit     = 10
)

// Query describes what the customer is looking for. A nil Budget matches
// every budget range; Limit <= 0 means DefaultLimit.
type Query struct {
	DeviceType models.DeviceType
	Segment    models.Segment
	Budget     *float64
	Limit      int
}

// Match reports whether p is an active preset for the query's device type
// and segment whose budget bounds admit the query budget.
func (q Query) Match(p models.Preset) bool {
	if !p.IsActive || p.DeviceType != q.DeviceType || p.Segment != q.Segment {
		return false
	}
	return q.Budget == nil || p.InBudget(*q.Budget)
}

func (q Query) limit() int {
	if q.Limit <= 0 {
		return DefaultLimit
	}
	return q.Limit
}

// Recommend yields the best matching presets, strongest first. The input is
// not modified and every range over the result recomputes it from presets.
func Recommend(presets []models.Preset, q Query) iter.Seq[models.Preset] {
	return func(yield func(models.Preset) bool) {
		matched := make([]models.Preset, 0, len(presets))
		for _, p := range presets {
			if q.Match(p) {
				matched = append(matched, p)
			}
		}
		Order(matched)

		for i, p := range matched {
			if i >= q.limit() || !yield(p) {
				return
			}
		}
	}
}

// Order sorts presets by priority, then performance score, both descending.
// Presets without a score go after scored ones of the same priority.
func Order(presets []models.Preset) {
	slices.SortStableFunc(presets, compare)
}

func compare(a, b models.Preset) int {
	if a.Priority != b.Priority {
		if a.Priority > b.Priority {
			return -1
		}
		return 1
	}
	switch {
	case a.PerformanceScore == nil && b.PerformanceScore == nil:
		return 0
	case a.PerformanceScore == nil:
		return 1
	case b.PerformanceScore == nil:
		return -1
	case *a.PerformanceScore > *b.PerformanceScore:
		return -1
	case *a.PerformanceScore < *b.PerformanceScore:
		return 1
	}
	return 0
}
