package catalog

import (
	"context"
	"maps"
	"sync"

	"github.com/Aquilabot/SmartPC-API/internal/models"
)

// MemoryStore keeps the catalog in process. Listing order is insertion order.
type MemoryStore struct {
	mu sync.RWMutex

	products     map[string]models.Component
	productOrder []string

	presets     map[string]models.Preset
	presetOrder []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[string]models.Component),
		presets:  make(map[string]models.Preset),
	}
}

func (s *MemoryStore) Resolve(ctx context.Context, ids []string) (map[string]models.Component, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]models.Component, len(ids))
	for _, id := range ids {
		if c, ok := s.products[id]; ok {
			out[id] = cloneComponent(c)
		}
	}
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (models.Component, error) {
	if err := ctx.Err(); err != nil {
		return models.Component{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.products[id]
	if !ok {
		return models.Component{}, ErrNotFound
	}
	return cloneComponent(c), nil
}

func (s *MemoryStore) List(ctx context.Context, filter ProductFilter) ([]models.Component, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Component, 0, len(s.productOrder))
	for _, id := range s.productOrder {
		c := s.products[id]
		if filter.match(c) {
			out = append(out, cloneComponent(c))
		}
	}
	return page(out, filter.Offset, filter.Limit), nil
}

func (s *MemoryStore) Put(ctx context.Context, c models.Component) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateComponent(c); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[c.ID]; !ok {
		s.productOrder = append(s.productOrder, c.ID)
	}
	s.products[c.ID] = cloneComponent(c)
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, deviceType models.DeviceType, segment models.Segment) ([]models.Preset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Preset, 0)
	for _, id := range s.presetOrder {
		p := s.presets[id]
		if p.DeviceType == deviceType && p.Segment == segment {
			out = append(out, clonePreset(p))
		}
	}
	return out, nil
}

func (s *MemoryStore) GetPreset(ctx context.Context, id string) (models.Preset, error) {
	if err := ctx.Err(); err != nil {
		return models.Preset{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.presets[id]
	if !ok {
		return models.Preset{}, ErrNotFound
	}
	return clonePreset(p), nil
}

func (s *MemoryStore) ListPresets(ctx context.Context, filter PresetFilter) ([]models.Preset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Preset, 0, len(s.presetOrder))
	for _, id := range s.presetOrder {
		p := s.presets[id]
		if filter.match(p) {
			out = append(out, clonePreset(p))
		}
	}
	return out, nil
}

func (s *MemoryStore) PutPreset(ctx context.Context, p models.Preset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validatePreset(p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.presets[p.ID]; !ok {
		s.presetOrder = append(s.presetOrder, p.ID)
	}
	s.presets[p.ID] = clonePreset(p)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// Copies keep callers from mutating stored maps.
func cloneComponent(c models.Component) models.Component {
	c.Specifications = maps.Clone(c.Specifications)
	return c
}

func clonePreset(p models.Preset) models.Preset {
	p.ComponentMap = maps.Clone(p.ComponentMap)
	return p
}
