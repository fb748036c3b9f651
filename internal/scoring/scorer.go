// Package scoring rates builds for a usage segment.
package scoring

import (
	"math"
	"strings"

	"github.com/Aquilabot/SmartPC-API/internal/models"
)

const maxScore = 100

// Weights is the share of each part in a segment's score. The four values sum
// to 1.
type Weights struct {
	CPU     float64 `json:"cpu"`
	GPU     float64 `json:"gpu"`
	RAM     float64 `json:"ram"`
	Storage float64 `json:"storage"`
}

var segmentWeights = map[models.Segment]Weights{
	models.SegmentGaming:   {CPU: 0.25, GPU: 0.50, RAM: 0.15, Storage: 0.10},
	models.SegmentPro:      {CPU: 0.40, GPU: 0.30, RAM: 0.20, Storage: 0.10},
	models.SegmentBusiness: {CPU: 0.50, GPU: 0.10, RAM: 0.25, Storage: 0.15},
	models.SegmentHome:     {CPU: 0.30, GPU: 0.35, RAM: 0.20, Storage: 0.15},
}

// WeightsFor returns the weights of segment; unknown segments use gaming.
func WeightsFor(segment models.Segment) Weights {
	if w, ok := segmentWeights[segment]; ok {
		return w
	}
	return segmentWeights[models.SegmentGaming]
}

// Breakdown is a weighted score with the sub-scores it was built from.
type Breakdown struct {
	Segment models.Segment `json:"segment"`
	CPU     float64        `json:"cpu"`
	GPU     float64        `json:"gpu"`
	RAM     float64        `json:"ram"`
	Storage float64        `json:"storage"`
	Score   float64        `json:"score"`
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithBenchmarks replaces the embedded benchmark table.
func WithBenchmarks(b *Benchmarks) Option {
	return func(s *Scorer) {
		if b != nil {
			s.bench = b
		}
	}
}

// Scorer computes segment-weighted build scores. It holds no mutable state
// and is safe for concurrent use.
type Scorer struct {
	bench *Benchmarks
}

// New returns a scorer over the embedded benchmark table unless an option
// supplies another one.
func New(opts ...Option) (*Scorer, error) {
	s := &Scorer{}
	for _, opt := range opts {
		opt(s)
	}
	if s.bench == nil {
		b, err := DefaultBenchmarks()
		if err != nil {
			return nil, err
		}
		s.bench = b
	}
	return s, nil
}

func (s *Scorer) Benchmarks() *Benchmarks {
	return s.bench
}

// Breakdown scores each part of build and combines them with the weights of
// segment. Empty slots score zero.
func (s *Scorer) Breakdown(build models.Build, segment models.Segment) Breakdown {
	b := Breakdown{Segment: segment}
	if c, ok := build.Get(models.SlotCPU); ok {
		b.CPU = s.bench.CPUScore(c.Name)
	}
	if c, ok := build.Get(models.SlotGPU); ok {
		b.GPU = s.bench.GPUScore(c.Name)
	}
	if c, ok := build.Get(models.SlotRAM); ok {
		b.RAM = ramScore(c.Specifications.RAM())
	}
	if c, ok := build.Get(models.SlotStorage); ok {
		b.Storage = storageScore(c.Specifications.Storage())
	}

	w := WeightsFor(segment)
	b.Score = round2(b.CPU*w.CPU + b.GPU*w.GPU + b.RAM*w.RAM + b.Storage*w.Storage)
	return b
}

// ScoreBuild returns only the weighted score.
func (s *Scorer) ScoreBuild(build models.Build, segment models.Segment) float64 {
	return s.Breakdown(build, segment).Score
}

func ramScore(ram models.RAMSpec) float64 {
	score := 50.0
	switch gb := ram.Capacity.Or(0); {
	case gb >= 64:
		score = 100
	case gb >= 32:
		score = 75
	}
	if strings.EqualFold(ram.Type, "DDR5") {
		switch mhz := ram.Speed.Or(0); {
		case mhz >= 6400:
			score += 10
		case mhz >= 6000:
			score += 5
		}
	}
	return math.Min(score, maxScore)
}

func storageScore(st models.StorageSpec) float64 {
	score := 70.0
	if st.CapacityTB().Or(0) >= 2 {
		score = 100
	}
	iface := strings.ToLower(st.Interface)
	if strings.Contains(iface, "pcie 5.0") || strings.Contains(iface, "gen5") {
		score += 15
	}
	return math.Min(score, maxScore)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// TwoFactor combines the stored ratings of the CPU (40%) and GPU (60%). The GPU
// gaming score is used when present. It reports false unless both slots are
// filled.
func TwoFactor(build models.Build) (float64, bool) {
	cpu, ok := build.Get(models.SlotCPU)
	if !ok {
		return 0, false
	}
	gpu, ok := build.Get(models.SlotGPU)
	if !ok {
		return 0, false
	}
	gpuScore := gpu.GamingScore
	if gpuScore == nil {
		gpuScore = gpu.PerformanceScore
	}
	return deref(cpu.PerformanceScore)*0.4 + deref(gpuScore)*0.6, true
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
