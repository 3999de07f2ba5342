package script

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

type sceneJSON struct {
	Sequence        int    `json:"sequence"`
	TimeRange       string `json:"timeRange"`
	Duration        int    `json:"duration"`
	VisualDirection string `json:"visualDirection"`
	AudioDirection  string `json:"audioDirection"`
}

// Parse converts the model's JSON response into scenes. Parsing is atomic:
// any malformed or missing field rejects the whole script, since downstream
// stages depend on a consistent scene count and duration accounting.
func Parse(raw string, totalDuration, timeStep int) ([]Scene, error) {
	raw = stripFences(raw)
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("empty script response")
	}

	var decoded []sceneJSON
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(decoded) == 0 {
		return nil, fmt.Errorf("script has no scenes")
	}

	want := SceneCount(totalDuration, timeStep)
	if want > 0 && len(decoded) != want {
		return nil, fmt.Errorf("script has %d scenes, want %d", len(decoded), want)
	}

	scenes := make([]Scene, 0, len(decoded))
	seen := make(map[int]struct{}, len(decoded))
	total := 0
	for i, sj := range decoded {
		if sj.Sequence <= 0 {
			return nil, fmt.Errorf("scene %d: missing sequence", i+1)
		}
		if _, dup := seen[sj.Sequence]; dup {
			return nil, fmt.Errorf("scene %d: duplicate sequence %d", i+1, sj.Sequence)
		}
		seen[sj.Sequence] = struct{}{}
		if sj.Duration <= 0 {
			return nil, fmt.Errorf("scene %d: missing duration", i+1)
		}
		if strings.TrimSpace(sj.VisualDirection) == "" {
			return nil, fmt.Errorf("scene %d: missing visual direction", i+1)
		}
		if strings.TrimSpace(sj.AudioDirection) == "" {
			return nil, fmt.Errorf("scene %d: missing audio direction", i+1)
		}
		total += sj.Duration

		scenes = append(scenes, Scene{
			ID:              uuid.NewString(),
			Sequence:        sj.Sequence,
			TimeRange:       strings.TrimSpace(sj.TimeRange),
			Duration:        sj.Duration,
			VisualDirection: strings.TrimSpace(sj.VisualDirection),
			AudioDirection:  strings.TrimSpace(sj.AudioDirection),
			Status:          StatusPending,
		})
	}

	// Total duration must land within one time step of the target.
	if diff := total - totalDuration; diff > timeStep || diff < -timeStep {
		return nil, fmt.Errorf("script duration %ds is off target %ds by more than one %ds step", total, totalDuration, timeStep)
	}

	sort.Slice(scenes, func(i, j int) bool { return scenes[i].Sequence < scenes[j].Sequence })
	return scenes, nil
}

// stripFences removes a surrounding markdown code fence the model sometimes
// wraps JSON in despite the response MIME type.
func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	return strings.TrimSpace(raw)
}
