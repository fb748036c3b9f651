// Package catalog stores components and presets and resolves component ids
// for the compatibility validator.
package catalog

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/Aquilabot/SmartPC-API/internal/models"
)

// Resolver turns component ids into records. Ids that do not exist are
// absent from the result; only store failures are errors. Every id of one
// call is read from the same snapshot.
type Resolver interface {
	Resolve(ctx context.Context, ids []string) (map[string]models.Component, error)
}

// ProductFilter narrows List. Zero values impose no constraint.
type ProductFilter struct {
	Type    models.SlotType
	Segment models.Segment
	InStock *bool
	Offset  int
	Limit   int
}

func (f ProductFilter) match(c models.Component) bool {
	if f.Type != "" && c.Type != f.Type {
		return false
	}
	if f.Segment != "" && c.Segment != f.Segment {
		return false
	}
	if f.InStock != nil && c.InStock != *f.InStock {
		return false
	}
	return true
}

// PresetFilter narrows ListPresets to active presets. Zero values impose no
// constraint.
type PresetFilter struct {
	DeviceType models.DeviceType
	Segment    models.Segment
	Budget     *float64
}

func (f PresetFilter) match(p models.Preset) bool {
	if !p.IsActive {
		return false
	}
	if f.DeviceType != "" && p.DeviceType != f.DeviceType {
		return false
	}
	if f.Segment != "" && p.Segment != f.Segment {
		return false
	}
	if f.Budget != nil && !p.InBudget(*f.Budget) {
		return false
	}
	return true
}

// ProductStore is the component side of the catalog.
type ProductStore interface {
	Resolver
	Get(ctx context.Context, id string) (models.Component, error)
	List(ctx context.Context, filter ProductFilter) ([]models.Component, error)
	Put(ctx context.Context, c models.Component) error
}

// PresetStore is the preset side of the catalog.
type PresetStore interface {
	// Query returns every preset for a device type and segment, active or not.
	Query(ctx context.Context, deviceType models.DeviceType, segment models.Segment) ([]models.Preset, error)
	GetPreset(ctx context.Context, id string) (models.Preset, error)
	ListPresets(ctx context.Context, filter PresetFilter) ([]models.Preset, error)
	PutPreset(ctx context.Context, p models.Preset) error
}

// Store is a full catalog backend.
type Store interface {
	ProductStore
	PresetStore
	Close() error
}

func validateComponent(c models.Component) error {
	if strings.TrimSpace(c.ID) == "" || strings.TrimSpace(c.Name) == "" || !c.Type.Valid() || c.Price < 0 {
		return ErrInvalidRecord
	}
	return nil
}

func validatePreset(p models.Preset) error {
	if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Name) == "" || !p.DeviceType.Valid() || !p.Segment.Valid() {
		return ErrInvalidRecord
	}
	return nil
}

func page[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// Alternatives lists in-stock replacements for the component currentID,
// best rated first and cheaper first among equals.
func Alternatives(ctx context.Context, store ProductStore, currentID string, segment models.Segment, limit int) ([]models.Component, error) {
	current, err := store.Get(ctx, currentID)
	if err != nil {
		return nil, err
	}

	inStock := true
	candidates, err := store.List(ctx, ProductFilter{Type: current.Type, Segment: segment, InStock: &inStock})
	if err != nil {
		return nil, err
	}

	out := make([]models.Component, 0, len(candidates))
	for _, c := range candidates {
		if c.ID != current.ID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].PerformanceScore, out[j].PerformanceScore
		switch {
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		case a != nil && b != nil && *a != *b:
			return *a > *b
		}
		return out[i].Price < out[j].Price
	})
	return page(out, 0, limit), nil
}

// ResolveBuild resolves every id of slots in one call and returns the filled
// slots together with the ids that did not resolve.
func ResolveBuild(ctx context.Context, r Resolver, slots models.SlotMap) (models.Build, []string, error) {
	build := make(models.Build, len(slots))
	ids := slots.IDs()
	if len(ids) == 0 {
		return build, nil, nil
	}
	found, err := r.Resolve(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	var missing []string
	for slot, id := range slots {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		c, ok := found[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		build[slot] = c
	}
	sort.Strings(missing)
	return build, slices.Compact(missing), nil
}
