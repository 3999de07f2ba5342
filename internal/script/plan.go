package script

// Per-model scene time step in seconds. The Veo 3 family produces 8-second
// clips; the older fast family produces 5-second clips.
var videoModelSteps = map[string]int{
	"veo-3.0-generate-001":      8,
	"veo-3.0-fast-generate-001": 8,
	"veo-2.0-generate-001":      5,
}

// TimeStep returns the scene length for a video model, and whether the
// model is allowed at all.
func TimeStep(model string) (int, bool) {
	step, ok := videoModelSteps[model]
	return step, ok
}

// AllowedModel reports whether the video model may be submitted.
func AllowedModel(model string) bool {
	_, ok := videoModelSteps[model]
	return ok
}

// SceneCount is ceil(totalDuration / timeStep).
func SceneCount(totalDuration, timeStep int) int {
	if totalDuration <= 0 || timeStep <= 0 {
		return 0
	}
	return (totalDuration + timeStep - 1) / timeStep
}
