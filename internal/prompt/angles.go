package prompt

import "strings"

type Angle struct {
	Name  string
	Lines []string
}

var angles = map[string]Angle{
	"front": {
		Name:  "Front",
		Lines: []string{"straight-on front view, product centered, eye level"},
	},
	"back": {
		Name:  "Back",
		Lines: []string{"straight-on back view, same framing and distance as the front shot"},
	},
	"side": {
		Name:  "Side Profile",
		Lines: []string{"90-degree side profile, product silhouette clearly readable"},
	},
	"three_quarter": {
		Name:  "Three-Quarter",
		Lines: []string{"45-degree three-quarter view showing front and side together"},
	},
	"detail": {
		Name: "Detail",
		Lines: []string{
			"tight macro crop on the most distinctive feature",
			"shallow depth of field, background falls to soft bokeh",
		},
	},
}

// Angles lists selectable angle keys in menu order.
func Angles() []string {
	return []string{"front", "back", "side", "three_quarter", "detail"}
}

// BuildAnglePrompt composes the per-angle variant prompt around a shared
// base description.
func BuildAnglePrompt(base, angleKey string) string {
	angle, ok := angles[strings.ToLower(strings.TrimSpace(angleKey))]
	if !ok {
		angle = angles["front"]
	}

	var b strings.Builder
	b.WriteString(strings.TrimSpace(base))
	b.WriteString("\n\nCAMERA ANGLE: " + angle.Name + "\n")
	for _, line := range angle.Lines {
		b.WriteString("- " + line + "\n")
	}
	b.WriteString("- Identical product, lighting and set across all angles of this series.\n")
	return strings.TrimSpace(b.String())
}
