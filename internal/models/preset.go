package models

// Preset is a curated build for a device type and usage segment.
type Preset struct {
	ID               string     `json:"id" yaml:"id"`
	Name             string     `json:"name" yaml:"name"`
	Description      string     `json:"description,omitempty" yaml:"description"`
	DeviceType       DeviceType `json:"device_type" yaml:"device_type"`
	Segment          Segment    `json:"segment" yaml:"segment"`
	MinBudget        *float64   `json:"min_budget" yaml:"min_budget"`
	MaxBudget        *float64   `json:"max_budget" yaml:"max_budget"`
	ComponentMap     SlotMap    `json:"component_map" yaml:"component_map"`
	TotalPrice       float64    `json:"total_price" yaml:"total_price"`
	PerformanceScore *float64   `json:"performance_score" yaml:"performance_score"`
	Reasoning        string     `json:"reasoning,omitempty" yaml:"reasoning"`
	IsActive         bool       `json:"is_active" yaml:"is_active"`
	Priority         int        `json:"priority" yaml:"priority"`
	ImageURL         string     `json:"image_url,omitempty" yaml:"image_url"`
}

// InBudget reports whether budget falls inside the preset's optional bounds.
func (p Preset) InBudget(budget float64) bool {
	if p.MinBudget != nil && budget < *p.MinBudget {
		return false
	}
	if p.MaxBudget != nil && budget > *p.MaxBudget {
		return false
	}
	return true
}

// PresetDetails is a preset with its components resolved.
type PresetDetails struct {
	Preset
	Products []Component `json:"products"`
}
