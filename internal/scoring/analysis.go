package scoring

import (
	"strings"

	"github.com/Aquilabot/SmartPC-API/internal/models"
)

// Analysis lists what stands out about a build, good and bad.
type Analysis struct {
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// Analyze reads the stored ratings and specifications of build. Parts whose
// rating or attribute is unknown are not judged.
func Analyze(build models.Build) Analysis {
	a := Analysis{Strengths: []string{}, Weaknesses: []string{}}

	if cpu, ok := build.Get(models.SlotCPU); ok && cpu.PerformanceScore != nil {
		switch s := *cpu.PerformanceScore; {
		case s > 80:
			a.Strengths = append(a.Strengths, "Powerful processor")
		case s < 50:
			a.Weaknesses = append(a.Weaknesses, "Weaker processor may become a bottleneck")
		}
	}

	if gpu, ok := build.Get(models.SlotGPU); ok && gpu.GamingScore != nil {
		switch s := *gpu.GamingScore; {
		case s > 80:
			a.Strengths = append(a.Strengths, "Strong graphics card")
		case s < 50:
			a.Weaknesses = append(a.Weaknesses, "Graphics card may limit gaming performance")
		}
	}

	if ram, ok := build.Get(models.SlotRAM); ok {
		if gb := ram.Specifications.RAM().Capacity; gb.Known {
			switch {
			case gb.Value >= 32:
				a.Strengths = append(a.Strengths, "Plenty of RAM")
			case gb.Value < 16:
				a.Weaknesses = append(a.Weaknesses, "Low RAM capacity may limit performance")
			}
		}
	}

	if storage, ok := build.Get(models.SlotStorage); ok {
		if kind := strings.ToLower(storage.Specifications.Storage().Type); kind != "" {
			if strings.Contains(kind, "nvme") || strings.Contains(kind, "ssd") {
				a.Strengths = append(a.Strengths, "Fast SSD storage")
			} else {
				a.Weaknesses = append(a.Weaknesses, "Slower HDD storage")
			}
		}
	}

	return a
}
