package recommend

import (
	"fmt"
	"strings"

	"github.com/Aquilabot/SmartPC-API/internal/models"
)

// Recommendation is a ranked preset with the explanation shown to the
// customer.
type Recommendation struct {
	models.Preset
	Why string `json:"recommendation_reasoning"`
}

// Explain ranks presets for q and attaches the reasoning to each result.
func Explain(presets []models.Preset, q Query) []Recommendation {
	out := make([]Recommendation, 0, q.limit())
	for p := range Recommend(presets, q) {
		out = append(out, Recommendation{Preset: p, Why: Reasoning(p, q.Segment, q.Budget)})
	}
	return out
}

// Reasoning explains in one or more sentences why p suits the segment and
// budget. budget may be nil.
func Reasoning(p models.Preset, segment models.Segment, budget *float64) string {
	reasons := make([]string, 0, 4)

	if p.PerformanceScore != nil && *p.PerformanceScore > 0 {
		reasons = append(reasons, fmt.Sprintf("High performance score: %.0f points", *p.PerformanceScore))
	}

	switch segment {
	case models.SegmentGaming:
		reasons = append(reasons, "Optimized for gaming")
	case models.SegmentPro:
		reasons = append(reasons, "Optimized for professional work")
	case models.SegmentBusiness:
		reasons = append(reasons, "Ideal for business use")
	default:
		reasons = append(reasons, "Versatile build for everyday use")
	}

	if budget != nil {
		switch {
		case p.TotalPrice <= *budget*0.9:
			reasons = append(reasons, "Fits the budget with room to spare")
		case p.TotalPrice <= *budget:
			reasons = append(reasons, "Matches the budget")
		}
	}

	if r := strings.TrimSpace(p.Reasoning); r != "" {
		reasons = append(reasons, r)
	}

	return strings.Join(reasons, ". ")
}
