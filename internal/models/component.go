package models

import "strings"

// SlotType is the position a component occupies in a build.
type SlotType string

const (
	SlotCPU         SlotType = "cpu"
	SlotMotherboard SlotType = "motherboard"
	SlotGPU         SlotType = "gpu"
	SlotRAM         SlotType = "ram"
	SlotStorage     SlotType = "storage"
	SlotPSU         SlotType = "psu"
	SlotCase        SlotType = "case"
	SlotCooler      SlotType = "cooler"
	SlotPeripheral  SlotType = "peripheral"
	SlotLaptop      SlotType = "laptop"
)

// SlotTypes lists every slot in catalog order.
var SlotTypes = []SlotType{
	SlotCPU, SlotMotherboard, SlotGPU, SlotRAM, SlotStorage,
	SlotPSU, SlotCase, SlotCooler, SlotPeripheral, SlotLaptop,
}

func (s SlotType) Valid() bool {
	for _, t := range SlotTypes {
		if s == t {
			return true
		}
	}
	return false
}

// Segment is the intended usage of a build.
type Segment string

const (
	SegmentHome     Segment = "home"
	SegmentGaming   Segment = "gaming"
	SegmentPro      Segment = "pro"
	SegmentBusiness Segment = "business"
)

var Segments = []Segment{SegmentHome, SegmentGaming, SegmentPro, SegmentBusiness}

func (s Segment) Valid() bool {
	for _, seg := range Segments {
		if s == seg {
			return true
		}
	}
	return false
}

// DeviceType separates desktop presets from laptops.
type DeviceType string

const (
	DevicePC     DeviceType = "pc"
	DeviceLaptop DeviceType = "laptop"
)

var DeviceTypes = []DeviceType{DevicePC, DeviceLaptop}

func (d DeviceType) Valid() bool {
	return d == DevicePC || d == DeviceLaptop
}

const DefaultCurrency = "PLN"

// Component is a catalog entry for one hardware part.
type Component struct {
	ID                string         `json:"id" yaml:"id"`
	Name              string         `json:"name" yaml:"name"`
	Type              SlotType       `json:"type" yaml:"type"`
	Segment           Segment        `json:"segment,omitempty" yaml:"segment"`
	Price             float64        `json:"price" yaml:"price"`
	Currency          string         `json:"currency" yaml:"currency"`
	Specifications    Specifications `json:"specifications" yaml:"specifications"`
	Brand             string         `json:"brand,omitempty" yaml:"brand"`
	Model             string         `json:"model,omitempty" yaml:"model"`
	ImageURL          string         `json:"image_url,omitempty" yaml:"image_url"`
	Description       string         `json:"description,omitempty" yaml:"description"`
	SourceURL         string         `json:"source_url,omitempty" yaml:"source_url"`
	InStock           bool           `json:"in_stock" yaml:"in_stock"`
	PerformanceScore  *float64       `json:"performance_score,omitempty" yaml:"performance_score"`
	GamingScore       *float64       `json:"gaming_score,omitempty" yaml:"gaming_score"`
	ProductivityScore *float64       `json:"productivity_score,omitempty" yaml:"productivity_score"`
}

// SlotMap maps a slot to the id of the component chosen for it.
type SlotMap map[SlotType]string

// IDs returns the distinct non-empty identifiers in the map.
func (m SlotMap) IDs() []string {
	seen := make(map[string]struct{}, len(m))
	ids := make([]string, 0, len(m))
	for _, slot := range SlotTypes {
		id := strings.TrimSpace(m[slot])
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	// slots outside the known set still get resolved
	for slot, id := range m {
		id = strings.TrimSpace(id)
		if id == "" || slot.Valid() {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func Float(v float64) *float64 {
	return &v
}

// Build is a slot map with its components resolved. Slots whose id could not
// be resolved are absent.
type Build map[SlotType]Component

// Get returns the component in slot and whether the slot is filled.
func (b Build) Get(slot SlotType) (Component, bool) {
	c, ok := b[slot]
	return c, ok
}

// TotalPrice sums the prices of every resolved component.
func (b Build) TotalPrice() float64 {
	var total float64
	for _, c := range b {
		total += c.Price
	}
	return total
}
