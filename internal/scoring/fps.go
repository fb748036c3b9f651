package scoring

import (
	"fmt"
	"sort"
	"strings"
)

const defaultSettings = "ultra"

// FPSEstimate is the frame rate recorded for a GPU in one game setup.
type FPSEstimate struct {
	GPU        string `json:"gpu"`
	Game       string `json:"game"`
	Resolution string `json:"resolution"`
	Settings   string `json:"settings"`
	FPS        int    `json:"fps"`
}

func gameKey(game string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(game)), " ", "_")
}

func gpuKey(model string) string {
	return strings.Join(strings.Fields(strings.ToLower(model)), "_")
}

// longest keys first so "rtx_5070_ti" is tried before "rtx_5070"
func sortEntries(entries []fpsEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if len(entries[i].key) != len(entries[j].key) {
			return len(entries[i].key) > len(entries[j].key)
		}
		return entries[i].key < entries[j].key
	})
}

// EstimateFPS looks up the average frame rate of gpuModel in game at the
// given resolution and settings. Settings default to "ultra".
func (b *Benchmarks) EstimateFPS(gpuModel, game, resolution, settings string) (FPSEstimate, error) {
	if settings = strings.ToLower(strings.TrimSpace(settings)); settings == "" {
		settings = defaultSettings
	}
	resolution = strings.ToLower(strings.TrimSpace(resolution))
	est := FPSEstimate{GPU: gpuModel, Game: gameKey(game), Resolution: resolution, Settings: settings}

	byRes, ok := b.fps[est.Game]
	if !ok {
		return est, fmt.Errorf("%w: game %q", ErrUnknownFPS, game)
	}
	entries, ok := byRes[resolution+"_"+settings]
	if !ok {
		return est, fmt.Errorf("%w: %s at %s %s", ErrUnknownFPS, est.Game, resolution, settings)
	}
	model := gpuKey(gpuModel)
	for _, e := range entries {
		if strings.Contains(model, e.key) {
			est.FPS = e.fps
			return est, nil
		}
	}
	return est, fmt.Errorf("%w: gpu %q", ErrUnknownFPS, gpuModel)
}

// Games lists the games with recorded frame rates.
func (b *Benchmarks) Games() []string {
	out := make([]string, 0, len(b.fps))
	for g := range b.fps {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}
