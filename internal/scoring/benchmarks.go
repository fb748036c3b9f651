package scoring

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed benchmarks.yaml
var embeddedBenchmarks []byte

const defaultUnknownScore = 50

// Benchmarks is a versioned table of per-product ratings and frame rates.
// Adding a product is a data change: edit the YAML, bump the version.
type Benchmarks struct {
	Version      int                                  `yaml:"version"`
	DefaultScore float64                              `yaml:"default_score"`
	CPU          map[string]float64                   `yaml:"cpu"`
	GPU          map[string]float64                   `yaml:"gpu"`
	FPS          map[string]map[string]map[string]int `yaml:"fps"`

	cpu map[string]float64
	gpu map[string]float64
	fps map[string]map[string][]fpsEntry
}

type fpsEntry struct {
	key string
	fps int
}

var (
	defaultOnce  sync.Once
	defaultBench *Benchmarks
	defaultErr   error
)

// DefaultBenchmarks returns the table compiled into the binary.
func DefaultBenchmarks() (*Benchmarks, error) {
	defaultOnce.Do(func() {
		defaultBench, defaultErr = ParseBenchmarks(embeddedBenchmarks)
	})
	return defaultBench, defaultErr
}

// LoadBenchmarks reads a benchmark document from disk.
func LoadBenchmarks(path string) (*Benchmarks, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBenchmarks, err)
	}
	return ParseBenchmarks(data)
}

func ParseBenchmarks(data []byte) (*Benchmarks, error) {
	var b Benchmarks
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBenchmarks, err)
	}
	if b.Version <= 0 {
		return nil, fmt.Errorf("%w: missing version", ErrInvalidBenchmarks)
	}
	if b.DefaultScore == 0 {
		b.DefaultScore = defaultUnknownScore
	}

	var err error
	if b.cpu, err = foldTable("cpu", b.CPU); err != nil {
		return nil, err
	}
	if b.gpu, err = foldTable("gpu", b.GPU); err != nil {
		return nil, err
	}

	b.fps = make(map[string]map[string][]fpsEntry, len(b.FPS))
	for game, byRes := range b.FPS {
		res := make(map[string][]fpsEntry, len(byRes))
		for key, byGPU := range byRes {
			entries := make([]fpsEntry, 0, len(byGPU))
			for gpu, fps := range byGPU {
				entries = append(entries, fpsEntry{key: gpuKey(gpu), fps: fps})
			}
			sortEntries(entries)
			res[strings.ToLower(key)] = entries
		}
		b.fps[gameKey(game)] = res
	}
	return &b, nil
}

func foldTable(kind string, table map[string]float64) (map[string]float64, error) {
	out := make(map[string]float64, len(table))
	for name, score := range table {
		if score < 0 || score > 100 {
			return nil, fmt.Errorf("%w: %s %q scored %v", ErrInvalidBenchmarks, kind, name, score)
		}
		out[fold(name)] = score
	}
	return out, nil
}

// fold lowercases a product name and collapses its whitespace.
func fold(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// CPUScore rates a processor by name, or returns the default score.
func (b *Benchmarks) CPUScore(name string) float64 {
	if s, ok := b.cpu[fold(name)]; ok {
		return s
	}
	return b.DefaultScore
}

// GPUScore rates a graphics card by name, or returns the default score.
func (b *Benchmarks) GPUScore(name string) float64 {
	if s, ok := b.gpu[fold(name)]; ok {
		return s
	}
	return b.DefaultScore
}
