package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/Aquilabot/SmartPC-API/internal/models"
)

//go:embed seed.yaml
var defaultSeed []byte

// Seed is a catalog snapshot that can be loaded into any Store.
type Seed struct {
	Products []models.Component `yaml:"products"`
	Presets  []models.Preset    `yaml:"presets"`
}

// BuildScorer rates a resolved build for a usage segment.
type BuildScorer interface {
	ScoreBuild(build models.Build, segment models.Segment) float64
}

// DefaultSeed returns the catalog shipped with the binary.
func DefaultSeed() (*Seed, error) {
	return decodeSeed(defaultSeed)
}

// LoadSeed reads a seed file in the same format as the embedded one.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeSeed(data)
}

func decodeSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	for i := range seed.Products {
		p := &seed.Products[i]
		if _, err := uuid.Parse(p.ID); err != nil {
			return nil, fmt.Errorf("product %q: %w: bad id", p.Name, ErrInvalidRecord)
		}
		if p.Currency == "" {
			p.Currency = models.DefaultCurrency
		}
		if p.Specifications == nil {
			p.Specifications = models.Specifications{}
		}
	}
	for _, p := range seed.Presets {
		if _, err := uuid.Parse(p.ID); err != nil {
			return nil, fmt.Errorf("preset %q: %w: bad id", p.Name, ErrInvalidRecord)
		}
	}
	return &seed, nil
}

// Apply writes the seed into store. Products go first so presets can be
// priced and scored against them. A preset without a total price gets the sum
// of its components; scorer may be nil.
func (s *Seed) Apply(ctx context.Context, store Store, scorer BuildScorer) error {
	for _, p := range s.Products {
		if err := store.Put(ctx, p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.ID, err)
		}
	}
	for _, p := range s.Presets {
		build, _, err := ResolveBuild(ctx, store, p.ComponentMap)
		if err != nil {
			return fmt.Errorf("seed preset %s: %w", p.ID, err)
		}
		if p.TotalPrice == 0 {
			p.TotalPrice = build.TotalPrice()
		}
		if p.PerformanceScore == nil && scorer != nil && len(build) > 0 {
			p.PerformanceScore = models.Float(scorer.ScoreBuild(build, p.Segment))
		}
		if err := store.PutPreset(ctx, p); err != nil {
			return fmt.Errorf("seed preset %s: %w", p.ID, err)
		}
	}
	return nil
}
